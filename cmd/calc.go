package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"retirement-match/calculator"
	"retirement-match/domain"
)

var (
	calcInputs = domain.DefaultInputs()
	flagJSON   bool
)

var calcCmd = &cobra.Command{
	Use:   "calc",
	Short: "Estimate the retirement match for the given inputs",
	Example: `  match calc --salary 60000 --loan-payment 400 --match-pct 6 --match-cap 4 --401k 200
  match calc --salary 60000 --loan-payment 400 --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return writeCalculation(cmd.OutOrStdout(), calcInputs, flagJSON)
	},
}

func init() {
	defaults := domain.DefaultInputs()

	calcCmd.Flags().Float64VarP(&calcInputs.AnnualSalary, "salary", "s", defaults.AnnualSalary, "Annual gross salary")
	calcCmd.Flags().Float64VarP(&calcInputs.MonthlyLoanPayment, "loan-payment", "l", defaults.MonthlyLoanPayment, "Average monthly qualified loan payment")
	calcCmd.Flags().Float64Var(&calcInputs.MatchPercentage, "match-pct", defaults.MatchPercentage, "Percentage of loan payments matched (0-100)")
	calcCmd.Flags().Float64Var(&calcInputs.MatchCap, "match-cap", defaults.MatchCap, "Maximum annual match as a percentage of salary (0-100)")
	calcCmd.Flags().Float64Var(&calcInputs.Monthly401kContribution, "401k", defaults.Monthly401kContribution, "Monthly personal 401(k) contribution")
	calcCmd.Flags().BoolVar(&flagJSON, "json", false, "Print results as JSON")

	rootCmd.AddCommand(calcCmd)
}

func writeCalculation(w io.Writer, in domain.CalculatorInputs, asJSON bool) error {
	if !asJSON {
		_, err := fmt.Fprint(w, calculator.Report(in))
		return err
	}

	results := calculator.Calculate(in)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(domain.CalculationResponse{
		Inputs:  in,
		Results: results,
		Display: calculator.Display(results),
	})
}
