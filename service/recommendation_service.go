package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"retirement-match/calculator"
	"retirement-match/domain"
	"retirement-match/metrics"
)

// MatchAdvisor produces a recommendation from a USD profile. AIService is the
// production implementation.
type MatchAdvisor interface {
	RecommendMatch(ctx context.Context, profile domain.MatchProfile) (domain.Recommendation, error)
}

// RecommendationSettings are the economic assumptions behind a recommendation.
type RecommendationSettings struct {
	// ExchangeRates maps a currency code to USD per unit of that currency.
	ExchangeRates map[string]float64
	TaxBracket    float64
}

type RecommendationService struct {
	advisor  MatchAdvisor
	settings RecommendationSettings
	metrics  *metrics.Registry
	logger   zerolog.Logger
	now      func() time.Time
}

func NewRecommendationService(
	advisor MatchAdvisor,
	settings RecommendationSettings,
	m *metrics.Registry,
	logger zerolog.Logger,
) *RecommendationService {
	return &RecommendationService{
		advisor:  advisor,
		settings: settings,
		metrics:  m,
		logger:   logger.With().Str("component", "recommendation_service").Logger(),
		now:      time.Now,
	}
}

// Recommend builds the USD profile for req, asks the advisor and falls back
// to the debt-to-income rules when the advisor is disabled or fails.
func (s *RecommendationService) Recommend(
	ctx context.Context,
	req domain.RecommendationRequest,
) (domain.RecommendationResponse, error) {
	if len(req.UserID) > MaxUserIDLength {
		s.metrics.ValidationFailures.WithLabelValues("asuId").Inc()
		return domain.RecommendationResponse{}, &ValidationError{Field: "asuId", Reason: "is too long"}
	}

	profile, err := s.Profile(req)
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			s.metrics.ValidationFailures.WithLabelValues(verr.Field).Inc()
		}
		return domain.RecommendationResponse{}, err
	}

	rec, source := s.recommend(ctx, profile)
	s.metrics.Recommendations.WithLabelValues(string(source)).Inc()

	s.logger.Debug().
		Str("source", string(source)).
		Float64("dti", profile.DebtToIncome).
		Float64("monthly_match", rec.RecommendedMonthlyMatchAmount).
		Msg("match recommended")

	return domain.RecommendationResponse{
		UserID:               req.UserID,
		Timestamp:            s.now().UTC(),
		Source:               source,
		ApprovalStatus:       "Pending",
		Recommendation:       rec,
		FinancialProjections: Projections(profile, rec, s.settings.TaxBracket),
	}, nil
}

func (s *RecommendationService) recommend(
	ctx context.Context,
	profile domain.MatchProfile,
) (domain.Recommendation, domain.RecommendationSource) {
	if s.advisor != nil {
		rec, err := s.advisor.RecommendMatch(ctx, profile)
		if err == nil {
			return ClampToLimits(rec, profile), domain.SourceAdvisor
		}
		if !errors.Is(err, ErrAdvisorDisabled) {
			s.metrics.SideEffectErrors.WithLabelValues("advisor").Inc()
			s.logger.Warn().Err(err).Msg("match advisor failed, using fallback")
		}
	}
	return FallbackRecommendation(profile, s.settings.TaxBracket), domain.SourceFallback
}

// Profile validates req and converts it to USD. Salaries must already be in
// USD; a loan without a currency is taken to be in INR.
func (s *RecommendationService) Profile(req domain.RecommendationRequest) (domain.MatchProfile, error) {
	loan, salary, policy := req.LoanApplication, req.SalaryVerification, req.EmployerMatchPolicy

	salaryCurrency := strings.ToUpper(salary.Currency)
	if salaryCurrency == "" {
		salaryCurrency = usd
	}
	if salaryCurrency != usd {
		return domain.MatchProfile{}, &ValidationError{Field: "salaryVerification.currency", Reason: "must be USD"}
	}

	checks := []struct {
		field string
		value float64
		max   float64
	}{
		{"loanApplication.loanAmount", loan.LoanAmount, 0},
		{"loanApplication.interestRate", loan.InterestRate, MaxPercentage},
		{"salaryVerification.netSalary", salary.NetSalary, 0},
		{"employerMatchPolicy.maxMonthlyMatchCap", policy.MaxMonthlyMatchCap, 0},
		{"employerMatchPolicy.maxAnnualMatchCap", policy.MaxAnnualMatchCap, 0},
		{"employerMatchPolicy.maxSalaryPercentageCap", policy.MaxSalaryPercentageCap, MaxPercentage},
	}
	for _, c := range checks {
		if err := checkAmount(c.field, c.value, c.max); err != nil {
			return domain.MatchProfile{}, err
		}
	}
	if loan.LoanTenure < 0 || loan.LoanTenure > MaxLoanTenureYears {
		return domain.MatchProfile{}, &ValidationError{
			Field:  "loanApplication.loanTenure",
			Reason: fmt.Sprintf("must be between 0 and %d years", MaxLoanTenureYears),
		}
	}

	loanCurrency := strings.ToUpper(loan.Currency)
	if loanCurrency == "" {
		loanCurrency = defaultLoanCurrency
	}
	rate := 1.0
	if loanCurrency != usd {
		var ok bool
		rate, ok = s.settings.ExchangeRates[loanCurrency]
		if !ok || rate <= 0 {
			return domain.MatchProfile{}, &ValidationError{Field: "loanApplication.currency", Reason: "unsupported currency " + loanCurrency}
		}
	}

	loanUSD := loan.LoanAmount * rate
	payment := calculator.MonthlyPayment(loanUSD, loan.InterestRate, loan.LoanTenure)

	annualSalary := salary.NetSalary * 12
	salaryCapAnnual := annualSalary * (policy.MaxSalaryPercentageCap / 100)
	salaryCapMonthly := salaryCapAnnual / 12

	return domain.MatchProfile{
		MonthlySalary:    salary.NetSalary,
		AnnualSalary:     annualSalary,
		Employer:         salary.EmployerName,
		LoanAmountUSD:    loanUSD,
		OriginalCurrency: loanCurrency,
		OriginalAmount:   loan.LoanAmount,
		ExchangeRate:     rate,
		LoanProvider:     loan.LoanProvider,
		LoanType:         loan.LoanType,
		InterestRate:     loan.InterestRate,
		TenureYears:      loan.LoanTenure,
		MonthlyPayment:   payment,
		DebtToIncome:     calculator.DebtToIncome(payment, salary.NetSalary),

		Policy:                policy,
		SalaryCapMonthly:      salaryCapMonthly,
		SalaryCapAnnual:       salaryCapAnnual,
		EffectiveMonthlyLimit: math.Min(policy.MaxMonthlyMatchCap, salaryCapMonthly),
		EffectiveAnnualLimit:  math.Min(policy.MaxAnnualMatchCap, salaryCapAnnual),
	}, nil
}

// MatchTier maps a debt-to-income ratio to the match percentage and risk level
// the rules allow.
func MatchTier(dti float64) (float64, string) {
	switch {
	case dti < lowRiskDTI:
		return 100, "low"
	case dti < mediumRiskDTI:
		return 75, "medium"
	default:
		return 50, "high"
	}
}

// FallbackRecommendation applies the debt-to-income tiers and the three caps
// without the advisor. The monthly match is the tier share of the loan payment
// limited by the monthly policy cap and the salary cap; the annual match is
// twelve of those limited by the annual policy cap and the salary cap.
func FallbackRecommendation(p domain.MatchProfile, taxBracket float64) domain.Recommendation {
	dti := p.DebtToIncome
	pct, risk := MatchTier(dti)

	theoretical := p.MonthlyPayment * (pct / 100)
	monthly := math.Min(theoretical, math.Min(p.Policy.MaxMonthlyMatchCap, p.SalaryCapMonthly))
	annual := math.Min(monthly*12, math.Min(p.Policy.MaxAnnualMatchCap, p.SalaryCapAnnual))

	capApplied := "none"
	switch {
	case monthly == p.SalaryCapMonthly:
		capApplied = fmt.Sprintf("salary_percentage (%s%%)", plainNumber(p.Policy.MaxSalaryPercentageCap))
	case monthly == p.Policy.MaxMonthlyMatchCap:
		capApplied = "monthly_policy"
	case annual < monthly*12 && annual == p.Policy.MaxAnnualMatchCap:
		capApplied = "annual_policy"
	}

	annual = calculator.RoundCents(annual)

	return domain.Recommendation{
		RecommendedMatchPercentage:    pct,
		RecommendedMonthlyMatchAmount: calculator.RoundCents(monthly),
		RecommendedAnnualMatchAmount:  annual,
		Rationale: fmt.Sprintf("Fallback recommendation based on %s%% debt-to-income ratio. Match limited by %s. Manual review recommended.",
			plainNumber(dti), capApplied),
		RiskAssessment:       risk,
		CapApplied:           capApplied,
		AlternativeOptions:   []domain.AlternativeOption{},
		FinancialHealthScore: float64(max(minHealthScore, 100-int(dti*2))),
		Recommendations: []string{
			"Review financial data for accuracy",
			"Consult with financial advisor for personalized guidance",
			fmt.Sprintf("Consider starting with conservative %s%% match", strconv.FormatFloat(pct, 'f', -1, 64)),
			"Monitor monthly budget and adjust as needed",
		},
		TaxBenefits: fmt.Sprintf("Estimated annual tax benefit of $%.2f (at %s bracket)",
			calculator.RoundCents(annual*taxBracket), calculator.FormatPercent(taxBracket*100)),
		ProjectedOutcomes: domain.ProjectedOutcomes{
			FiveYears:    fmt.Sprintf("Projected retirement value: $%.2f", calculator.RoundCents(annual*5*growthFactor5Y)),
			TenYears:     fmt.Sprintf("Projected retirement value: $%.2f", calculator.RoundCents(annual*10*growthFactor10Y)),
			AtLoanPayoff: fmt.Sprintf("Total match contribution over loan term: $%.2f", calculator.RoundCents(annual*float64(p.TenureYears))),
		},
	}
}

// ClampToLimits keeps an advisor's amounts inside the effective limits.
func ClampToLimits(rec domain.Recommendation, p domain.MatchProfile) domain.Recommendation {
	rec.RecommendedMonthlyMatchAmount = math.Max(0, math.Min(rec.RecommendedMonthlyMatchAmount, p.EffectiveMonthlyLimit))
	rec.RecommendedAnnualMatchAmount = math.Max(0, math.Min(rec.RecommendedAnnualMatchAmount, p.EffectiveAnnualLimit))
	if rec.AlternativeOptions == nil {
		rec.AlternativeOptions = []domain.AlternativeOption{}
	}
	return rec
}

// Projections works out the monthly, annual, debt-to-income and tax figures
// for a recommendation.
func Projections(p domain.MatchProfile, rec domain.Recommendation, taxBracket float64) domain.FinancialProjections {
	monthly := rec.RecommendedMonthlyMatchAmount
	annual := rec.RecommendedAnnualMatchAmount
	tenure := float64(p.TenureYears)
	round := calculator.RoundCents

	conversion := domain.ConversionInfo{
		OriginalCurrency:     p.OriginalCurrency,
		OriginalLoanAmount:   round(p.OriginalAmount),
		AllCalculationsInUSD: true,
	}
	if p.OriginalCurrency != usd {
		rate := math.Round(p.ExchangeRate*10000) / 10000
		conversion.ExchangeRate = &rate
	}

	return domain.FinancialProjections{
		Currency: usd,
		MonthlyBreakdown: domain.MonthlyBreakdown{
			NetSalary:                 round(p.MonthlySalary),
			LoanPayment:               round(p.MonthlyPayment),
			MatchContribution:         round(monthly),
			RemainingIncome:           round(p.MonthlySalary - p.MonthlyPayment),
			EffectiveIncomeAfterMatch: round(p.MonthlySalary - p.MonthlyPayment + monthly),
		},
		AnnualSummary: domain.AnnualSummary{
			TotalMatchContribution:          round(annual),
			ProjectedRetirementValue10Years: round(annual * annuityFactor10Y),
			ProjectedRetirementValue20Years: round(annual * annuityFactor20Y),
			ProjectedRetirementValue30Years: round(annual * annuityFactor30Y),
			TotalLoanPrincipalReduction:     round(monthly * 12 * tenure),
		},
		DebtToIncomeImpact: domain.DebtToIncomeImpact{
			BeforeMatch: calculator.DebtToIncome(p.MonthlyPayment, p.MonthlySalary),
			AfterMatch:  calculator.DebtToIncome(math.Max(0, p.MonthlyPayment-monthly), p.MonthlySalary),
			Improvement: calculator.DebtToIncome(monthly, p.MonthlySalary),
		},
		TaxSavings: domain.TaxSavings{
			AnnualTaxBenefit:       round(annual * taxBracket),
			LifetimeTaxSavings:     round(annual * tenure * taxBracket),
			EffectiveCostReduction: round(p.MonthlyPayment - monthly*(1-taxBracket)),
		},
		SalaryCapInfo: domain.SalaryCapInfo{
			AnnualSalary:              round(p.AnnualSalary),
			MaxSalaryPercentage:       p.Policy.MaxSalaryPercentageCap,
			MaxMonthlyBasedOnSalary:   round(p.SalaryCapMonthly),
			MaxAnnualBasedOnSalary:    round(p.SalaryCapAnnual),
			IsMatchLimitedBySalaryCap: monthly >= p.SalaryCapMonthly-0.01,
		},
		ConversionInfo: conversion,
	}
}

// plainNumber prints v the short way but always with a decimal point, so 6
// reads "6.0" and 11.1 reads "11.1".
func plainNumber(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
