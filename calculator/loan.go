package calculator

import "math"

// RoundCents rounds value to 2 decimal places.
func RoundCents(value float64) float64 {
	return math.Round(value*100) / 100
}

// MonthlyPayment is the level installment that repays principal over years at
// annualRatePct (e.g. 6 for 6%), rounded to cents. A non-positive principal or
// term gives 0.
func MonthlyPayment(principal, annualRatePct float64, years int) float64 {
	if principal <= 0 || years <= 0 {
		return 0
	}

	n := float64(years * monthsPerYear)
	if annualRatePct == 0 {
		return RoundCents(principal / n)
	}

	monthlyRate := (annualRatePct / 100) / monthsPerYear
	payment := principal * (monthlyRate / (1 - math.Pow(1+monthlyRate, -n)))
	return RoundCents(payment)
}

// DebtToIncome is monthlyDebt as a percentage of monthlyIncome, rounded to
// 2 decimals. No income gives 0.
func DebtToIncome(monthlyDebt, monthlyIncome float64) float64 {
	if monthlyIncome <= 0 {
		return 0
	}
	return RoundCents(monthlyDebt / monthlyIncome * 100)
}
