// Package calculator holds the retirement-match quick estimate and the helpers
// that format its numbers for display.
package calculator

import (
	"math"

	"retirement-match/domain"
)

const (
	// ProjectionRate is the annual growth assumed for the balance projection.
	ProjectionRate  = 0.07
	ProjectionYears = 10
	monthsPerYear   = 12
)

// Breakdown exposes the intermediate amounts next to the results.
type Breakdown struct {
	MaxMatchAmount          float64
	PotentialMatch          float64
	TotalAnnualContribution float64
	Results                 domain.CalculatorResults
}

// Calculate computes the employer match estimate for in. Inputs are not
// validated; any float64 values produce a result.
func Calculate(in domain.CalculatorInputs) domain.CalculatorResults {
	return Explain(in).Results
}

// Explain is Calculate with the intermediate amounts kept.
func Explain(in domain.CalculatorInputs) Breakdown {
	annualLoanPayments := in.MonthlyLoanPayment * monthsPerYear

	maxMatchAmount := in.AnnualSalary * (in.MatchCap / 100)
	potentialMatch := annualLoanPayments * (in.MatchPercentage / 100)

	eligibleMatchAmount := math.Min(potentialMatch, maxMatchAmount)

	totalASUContribution := eligibleMatchAmount
	monthlyMatchAmount := eligibleMatchAmount / monthsPerYear
	totalEmployeeContribution := in.Monthly401kContribution * monthsPerYear

	matchUtilizationPercent := 0.0
	if maxMatchAmount > 0 {
		matchUtilizationPercent = (eligibleMatchAmount / maxMatchAmount) * 100
	}

	totalAnnualContribution := totalASUContribution + totalEmployeeContribution

	return Breakdown{
		MaxMatchAmount:          maxMatchAmount,
		PotentialMatch:          potentialMatch,
		TotalAnnualContribution: totalAnnualContribution,
		Results: domain.CalculatorResults{
			AnnualLoanPayments:        annualLoanPayments,
			EligibleMatchAmount:       eligibleMatchAmount,
			TotalASUContribution:      totalASUContribution,
			TotalEmployeeContribution: totalEmployeeContribution,
			ProjectedBalance10Year:    FutureValue(totalAnnualContribution, ProjectionRate, ProjectionYears),
			MonthlyMatchAmount:        monthlyMatchAmount,
			MatchUtilizationPercent:   matchUtilizationPercent,
		},
	}
}

// FutureValue compounds annualContribution once a year for the given number
// of years. Each year's contribution is added before that year's growth.
func FutureValue(annualContribution, annualReturnRate float64, years int) float64 {
	growth := 1 + annualReturnRate
	balance := 0.0
	for year := 0; year < years; year++ {
		balance = (balance + annualContribution) * growth
	}
	return balance
}
