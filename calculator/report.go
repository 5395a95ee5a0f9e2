package calculator

import (
	"fmt"
	"strings"

	"retirement-match/domain"
)

// Display formats every monetary and percentage result for presentation.
func Display(res domain.CalculatorResults) domain.DisplayResults {
	return domain.DisplayResults{
		AnnualLoanPayments:        FormatCurrency(res.AnnualLoanPayments),
		EligibleMatchAmount:       FormatCurrency(res.EligibleMatchAmount),
		MonthlyMatchAmount:        FormatCurrency(res.MonthlyMatchAmount),
		TotalEmployeeContribution: FormatCurrency(res.TotalEmployeeContribution),
		ProjectedBalance10Year:    FormatCurrency(res.ProjectedBalance10Year),
		MatchUtilizationPercent:   FormatPercent(res.MatchUtilizationPercent),
	}
}

// Report renders a plain-text summary of a calculation.
func Report(in domain.CalculatorInputs) string {
	b := Explain(in)
	res := b.Results

	var sb strings.Builder
	sb.WriteString("Retirement Match Estimate\n")
	sb.WriteString("=========================\n\n")

	sb.WriteString("Inputs\n")
	fmt.Fprintf(&sb, "  Annual salary:              %s\n", FormatCurrency(in.AnnualSalary))
	fmt.Fprintf(&sb, "  Monthly loan payment:       %s\n", FormatCurrency(in.MonthlyLoanPayment))
	fmt.Fprintf(&sb, "  Match percentage:           %s\n", FormatPercent(in.MatchPercentage))
	fmt.Fprintf(&sb, "  Match cap (of salary):      %s\n", FormatPercent(in.MatchCap))
	fmt.Fprintf(&sb, "  Monthly 401(k):             %s\n\n", FormatCurrency(in.Monthly401kContribution))

	sb.WriteString("Match\n")
	fmt.Fprintf(&sb, "  Annual loan payments:       %s\n", FormatCurrency(res.AnnualLoanPayments))
	fmt.Fprintf(&sb, "  Potential match:            %s\n", FormatCurrency(b.PotentialMatch))
	fmt.Fprintf(&sb, "  Maximum match:              %s\n", FormatCurrency(b.MaxMatchAmount))
	fmt.Fprintf(&sb, "  Eligible match (annual):    %s\n", FormatCurrency(res.EligibleMatchAmount))
	fmt.Fprintf(&sb, "  Eligible match (monthly):   %s\n", FormatCurrency(res.MonthlyMatchAmount))
	fmt.Fprintf(&sb, "  Match utilization:          %s\n\n", FormatPercent(res.MatchUtilizationPercent))

	sb.WriteString("Projection\n")
	fmt.Fprintf(&sb, "  Your annual 401(k):         %s\n", FormatCurrency(res.TotalEmployeeContribution))
	fmt.Fprintf(&sb, "  Total annual contribution:  %s\n", FormatCurrency(b.TotalAnnualContribution))
	fmt.Fprintf(&sb, "  Balance after %d years:     %s (at %s growth)\n",
		ProjectionYears, FormatCurrency(res.ProjectedBalance10Year), FormatPercent(ProjectionRate*100))

	return sb.String()
}
