package domain

import "time"

// LoanApplication is the student loan as read from the loan statement.
type LoanApplication struct {
	ApplicantName    string  `json:"applicantName,omitempty"`
	ApplicationDate  string  `json:"applicationDate,omitempty"`
	DisbursementDate *string `json:"disbursementDate,omitempty"`
	LoanProvider     string  `json:"loanProvider,omitempty"`
	SanctionedAmount float64 `json:"sanctionedAmount,omitempty"`
	LoanAmount       float64 `json:"loanAmount"`
	Currency         string  `json:"currency,omitempty"`
	InterestRate     float64 `json:"interestRate"` // annual, in percent
	LoanTenure       int     `json:"loanTenure"`   // years
	LoanType         string  `json:"loanType,omitempty"`
}

// SalaryVerification is the pay slip as read from the salary document.
// NetSalary is monthly take-home pay.
type SalaryVerification struct {
	EmployerName         string   `json:"employerName,omitempty"`
	EmployeeName         string   `json:"employeeName,omitempty"`
	Month                string   `json:"month,omitempty"`
	GrossSalary          float64  `json:"grossSalary,omitempty"`
	Deductions           float64  `json:"deductions,omitempty"`
	NetSalary            float64  `json:"netSalary"`
	Currency             string   `json:"currency,omitempty"`
	AverageSalary3Months *float64 `json:"averageSalary3Months,omitempty"`
	EmploymentDuration   *string  `json:"employmentDuration,omitempty"`
}

// EmployerMatchPolicy bounds the match three ways: per month, per year and as
// a percentage of annual salary.
type EmployerMatchPolicy struct {
	MaxMonthlyMatchCap     float64   `json:"maxMonthlyMatchCap" yaml:"max_monthly_match_cap"`
	MaxAnnualMatchCap      float64   `json:"maxAnnualMatchCap" yaml:"max_annual_match_cap"`
	MaxSalaryPercentageCap float64   `json:"maxSalaryPercentageCap" yaml:"max_salary_percentage_cap"`
	MatchPercentageOptions []float64 `json:"matchPercentageOptions,omitempty" yaml:"match_percentage_options"`
}

func DefaultMatchPolicy() EmployerMatchPolicy {
	return EmployerMatchPolicy{
		MaxMonthlyMatchCap:     500,
		MaxAnnualMatchCap:      5500,
		MaxSalaryPercentageCap: 6,
		MatchPercentageOptions: []float64{50, 75, 100},
	}
}

type RecommendationRequest struct {
	UserID              string              `json:"asuId"`
	LoanApplication     LoanApplication     `json:"loanApplication"`
	SalaryVerification  SalaryVerification  `json:"salaryVerification"`
	EmployerMatchPolicy EmployerMatchPolicy `json:"employerMatchPolicy"`
}

// MatchProfile is a recommendation request with every amount in USD and the
// effective limits worked out.
type MatchProfile struct {
	MonthlySalary    float64 `json:"monthlySalary"`
	AnnualSalary     float64 `json:"annualSalary"`
	Employer         string  `json:"employer,omitempty"`
	LoanAmountUSD    float64 `json:"loanAmountUSD"`
	OriginalCurrency string  `json:"originalCurrency"`
	OriginalAmount   float64 `json:"originalAmount"`
	ExchangeRate     float64 `json:"exchangeRate"`
	LoanProvider     string  `json:"loanProvider,omitempty"`
	LoanType         string  `json:"loanType,omitempty"`
	InterestRate     float64 `json:"interestRate"`
	TenureYears      int     `json:"tenureYears"`
	MonthlyPayment   float64 `json:"estimatedMonthlyPaymentUSD"`
	DebtToIncome     float64 `json:"debtToIncomeRatio"`

	Policy                EmployerMatchPolicy `json:"employerMatchPolicy"`
	SalaryCapMonthly      float64             `json:"maxMonthlyBasedOnSalary"`
	SalaryCapAnnual       float64             `json:"maxAnnualBasedOnSalary"`
	EffectiveMonthlyLimit float64             `json:"effectiveMonthlyLimit"`
	EffectiveAnnualLimit  float64             `json:"effectiveAnnualLimit"`
}

type AlternativeOption struct {
	MatchPercentage float64 `json:"matchPercentage"`
	MonthlyAmount   float64 `json:"monthlyAmount"`
	AnnualAmount    float64 `json:"annualAmount"`
	Pros            string  `json:"pros"`
	Cons            string  `json:"cons"`
}

type ProjectedOutcomes struct {
	FiveYears    string `json:"5years"`
	TenYears     string `json:"10years"`
	AtLoanPayoff string `json:"atLoanPayoff"`
}

type Recommendation struct {
	RecommendedMatchPercentage    float64             `json:"recommendedMatchPercentage"`
	RecommendedMonthlyMatchAmount float64             `json:"recommendedMonthlyMatchAmount"`
	RecommendedAnnualMatchAmount  float64             `json:"recommendedAnnualMatchAmount"`
	Rationale                     string              `json:"rationale"`
	RiskAssessment                string              `json:"riskAssessment"`
	CapApplied                    string              `json:"capApplied"`
	AlternativeOptions            []AlternativeOption `json:"alternativeOptions"`
	FinancialHealthScore          float64             `json:"financialHealthScore"`
	Recommendations               []string            `json:"recommendations"`
	TaxBenefits                   string              `json:"taxBenefits"`
	ProjectedOutcomes             ProjectedOutcomes   `json:"projectedOutcomes"`
}

type MonthlyBreakdown struct {
	NetSalary                 float64 `json:"netSalary"`
	LoanPayment               float64 `json:"loanPayment"`
	MatchContribution         float64 `json:"matchContribution"`
	RemainingIncome           float64 `json:"remainingIncome"`
	EffectiveIncomeAfterMatch float64 `json:"effectiveIncomeAfterMatch"`
}

type AnnualSummary struct {
	TotalMatchContribution          float64 `json:"totalMatchContribution"`
	ProjectedRetirementValue10Years float64 `json:"projectedRetirementValue10Years"`
	ProjectedRetirementValue20Years float64 `json:"projectedRetirementValue20Years"`
	ProjectedRetirementValue30Years float64 `json:"projectedRetirementValue30Years"`
	TotalLoanPrincipalReduction     float64 `json:"totalLoanPrincipalReduction"`
}

type DebtToIncomeImpact struct {
	BeforeMatch float64 `json:"beforeMatch"`
	AfterMatch  float64 `json:"afterMatch"`
	Improvement float64 `json:"improvement"`
}

type TaxSavings struct {
	AnnualTaxBenefit       float64 `json:"annualTaxBenefit"`
	LifetimeTaxSavings     float64 `json:"lifetimeTaxSavings"`
	EffectiveCostReduction float64 `json:"effectiveCostReduction"`
}

type SalaryCapInfo struct {
	AnnualSalary              float64 `json:"annualSalary"`
	MaxSalaryPercentage       float64 `json:"maxSalaryPercentage"`
	MaxMonthlyBasedOnSalary   float64 `json:"maxMonthlyBasedOnSalary"`
	MaxAnnualBasedOnSalary    float64 `json:"maxAnnualBasedOnSalary"`
	IsMatchLimitedBySalaryCap bool    `json:"isMatchLimitedBySalaryCap"`
}

type ConversionInfo struct {
	OriginalCurrency     string   `json:"originalCurrency"`
	OriginalLoanAmount   float64  `json:"originalLoanAmount"`
	ExchangeRate         *float64 `json:"exchangeRate"` // nil when the loan is already in USD
	AllCalculationsInUSD bool     `json:"allCalculationsInUSD"`
}

// FinancialProjections are the USD figures shown next to a recommendation.
type FinancialProjections struct {
	Currency           string             `json:"currency"`
	MonthlyBreakdown   MonthlyBreakdown   `json:"monthlyBreakdown"`
	AnnualSummary      AnnualSummary      `json:"annualSummary"`
	DebtToIncomeImpact DebtToIncomeImpact `json:"debtToIncomeImpact"`
	TaxSavings         TaxSavings         `json:"taxSavings"`
	SalaryCapInfo      SalaryCapInfo      `json:"salaryCapInfo"`
	ConversionInfo     ConversionInfo     `json:"conversionInfo"`
}

// RecommendationSource says who produced a recommendation.
type RecommendationSource string

const (
	SourceAdvisor  RecommendationSource = "advisor"
	SourceFallback RecommendationSource = "fallback"
)

type RecommendationResponse struct {
	UserID               string               `json:"asuId,omitempty"`
	Timestamp            time.Time            `json:"timestamp"`
	Source               RecommendationSource `json:"source"`
	ApprovalStatus       string               `json:"approvalStatus"`
	Recommendation       Recommendation       `json:"recommendation"`
	FinancialProjections FinancialProjections `json:"financialProjections"`
}
