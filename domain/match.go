package domain

import "time"

// CalculatorInputs is the snapshot of form values a match estimate is computed from.
// Money is in whole currency units, percentages are plain numbers (6 means 6%).
type CalculatorInputs struct {
	AnnualSalary            float64 `json:"annualSalary" yaml:"annual_salary"`
	MonthlyLoanPayment      float64 `json:"monthlyLoanPayment" yaml:"monthly_loan_payment"`
	MatchPercentage         float64 `json:"matchPercentage" yaml:"match_percentage"`
	MatchCap                float64 `json:"matchCap" yaml:"match_cap"`
	Monthly401kContribution float64 `json:"monthly401kContribution" yaml:"monthly_401k_contribution"`
}

type CalculatorResults struct {
	AnnualLoanPayments        float64 `json:"annualLoanPayments"`
	EligibleMatchAmount       float64 `json:"eligibleMatchAmount"`
	TotalASUContribution      float64 `json:"totalASUContribution"`
	TotalEmployeeContribution float64 `json:"totalEmployeeContribution"`
	ProjectedBalance10Year    float64 `json:"projectedBalance10Year"`
	MonthlyMatchAmount        float64 `json:"monthlyMatchAmount"`
	MatchUtilizationPercent   float64 `json:"matchUtilizationPercent"`
}

// DefaultInputs returns the values the calculator form starts from.
func DefaultInputs() CalculatorInputs {
	return CalculatorInputs{
		MatchPercentage: 6,
		MatchCap:        4,
	}
}

// SavedCalculation is a calculation persisted for a user.
type SavedCalculation struct {
	ID        string            `json:"id"`
	UserID    string            `json:"userId"`
	Inputs    CalculatorInputs  `json:"inputs"`
	Results   CalculatorResults `json:"results"`
	CreatedAt time.Time         `json:"createdAt"`
}

// DisplayResults holds the formatted strings shown next to the raw numbers.
type DisplayResults struct {
	AnnualLoanPayments        string `json:"annualLoanPayments"`
	EligibleMatchAmount       string `json:"eligibleMatchAmount"`
	MonthlyMatchAmount        string `json:"monthlyMatchAmount"`
	TotalEmployeeContribution string `json:"totalEmployeeContribution"`
	ProjectedBalance10Year    string `json:"projectedBalance10Year"`
	MatchUtilizationPercent   string `json:"matchUtilizationPercent"`
}

type CalculationResponse struct {
	Inputs  CalculatorInputs  `json:"inputs"`
	Results CalculatorResults `json:"results"`
	Display DisplayResults    `json:"display"`
	SavedID string            `json:"savedId,omitempty"`
	Cached  bool              `json:"cached"`
}
