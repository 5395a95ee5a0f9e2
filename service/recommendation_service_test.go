package service

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"retirement-match/domain"
	"retirement-match/metrics"
)

type stubAdvisor struct {
	rec   domain.Recommendation
	err   error
	calls int
}

func (s *stubAdvisor) RecommendMatch(context.Context, domain.MatchProfile) (domain.Recommendation, error) {
	s.calls++
	return s.rec, s.err
}

var testSettings = RecommendationSettings{
	ExchangeRates: map[string]float64{"INR": 0.012},
	TaxBracket:    0.22,
}

func newTestRecommendationService(advisor MatchAdvisor) (*RecommendationService, *metrics.Registry) {
	m := metrics.NewRegistry()
	svc := NewRecommendationService(advisor, testSettings, m, zerolog.Nop())
	svc.now = func() time.Time { return time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC) }
	return svc, m
}

func recommendationRequest(netSalary, loanAmount float64) domain.RecommendationRequest {
	return domain.RecommendationRequest{
		UserID: "1234567890",
		LoanApplication: domain.LoanApplication{
			LoanAmount:   loanAmount,
			Currency:     "USD",
			InterestRate: 6,
			LoanTenure:   10,
		},
		SalaryVerification: domain.SalaryVerification{
			EmployerName: "Acme",
			NetSalary:    netSalary,
			Currency:     "USD",
		},
		EmployerMatchPolicy: domain.DefaultMatchPolicy(),
	}
}

func TestMatchTier(t *testing.T) {
	tests := []struct {
		dti  float64
		pct  float64
		risk string
	}{
		{0, 100, "low"},
		{14.99, 100, "low"},
		{15, 75, "medium"},
		{24.99, 75, "medium"},
		{25, 50, "high"},
		{80, 50, "high"},
	}
	for _, tt := range tests {
		pct, risk := MatchTier(tt.dti)
		assert.Equal(t, tt.pct, pct, "dti %v", tt.dti)
		assert.Equal(t, tt.risk, risk, "dti %v", tt.dti)
	}
}

func TestProfile(t *testing.T) {
	svc, _ := newTestRecommendationService(nil)

	p, err := svc.Profile(recommendationRequest(5000, 50000))
	require.NoError(t, err)

	assert.InDelta(t, 555.10, p.MonthlyPayment, 1e-9)
	assert.InDelta(t, 11.1, p.DebtToIncome, 1e-9)
	assert.InDelta(t, 60000, p.AnnualSalary, 1e-9)
	assert.InDelta(t, 300, p.SalaryCapMonthly, 1e-9)
	assert.InDelta(t, 3600, p.SalaryCapAnnual, 1e-9)
	assert.InDelta(t, 300, p.EffectiveMonthlyLimit, 1e-9)
	assert.InDelta(t, 3600, p.EffectiveAnnualLimit, 1e-9)
	assert.Equal(t, "USD", p.OriginalCurrency)
	assert.Equal(t, 1.0, p.ExchangeRate)
}

func TestProfile_ConvertsLoanCurrency(t *testing.T) {
	svc, _ := newTestRecommendationService(nil)

	req := recommendationRequest(10000, 4_000_000)
	req.LoanApplication.Currency = ""
	req.LoanApplication.InterestRate = 8.5

	p, err := svc.Profile(req)
	require.NoError(t, err)

	assert.Equal(t, "INR", p.OriginalCurrency)
	assert.Equal(t, 4_000_000.0, p.OriginalAmount)
	assert.InDelta(t, 48000, p.LoanAmountUSD, 1e-6)
	assert.InDelta(t, 595.13, p.MonthlyPayment, 1e-9)
}

func TestProfile_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*domain.RecommendationRequest)
		field  string
	}{
		{"salary not in USD", func(r *domain.RecommendationRequest) { r.SalaryVerification.Currency = "EUR" }, "salaryVerification.currency"},
		{"unsupported loan currency", func(r *domain.RecommendationRequest) { r.LoanApplication.Currency = "GBP" }, "loanApplication.currency"},
		{"negative loan", func(r *domain.RecommendationRequest) { r.LoanApplication.LoanAmount = -1 }, "loanApplication.loanAmount"},
		{"rate over 100", func(r *domain.RecommendationRequest) { r.LoanApplication.InterestRate = 101 }, "loanApplication.interestRate"},
		{"NaN salary", func(r *domain.RecommendationRequest) { r.SalaryVerification.NetSalary = math.NaN() }, "salaryVerification.netSalary"},
		{"negative monthly cap", func(r *domain.RecommendationRequest) { r.EmployerMatchPolicy.MaxMonthlyMatchCap = -5 }, "employerMatchPolicy.maxMonthlyMatchCap"},
		{"tenure too long", func(r *domain.RecommendationRequest) { r.LoanApplication.LoanTenure = MaxLoanTenureYears + 1 }, "loanApplication.loanTenure"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newTestRecommendationService(nil)
			req := recommendationRequest(5000, 50000)
			tt.mutate(&req)

			_, err := svc.Recommend(context.Background(), req)
			require.ErrorIs(t, err, ErrInvalidInput)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
			assert.Equal(t, 1.0, testutil.ToFloat64(m.ValidationFailures.WithLabelValues(tt.field)))
		})
	}
}

func TestFallbackRecommendation_Caps(t *testing.T) {
	tests := []struct {
		name    string
		salary  float64
		loan    float64
		policy  func(*domain.EmployerMatchPolicy)
		monthly float64
		annual  float64
		cap     string
	}{
		{"salary cap", 5000, 50000, nil, 300, 3600, "salary_percentage (6.0%)"},
		{"monthly policy cap", 10000, 50000, nil, 500, 5500, "monthly_policy"},
		{"annual policy cap", 10000, 50000, func(p *domain.EmployerMatchPolicy) {
			p.MaxMonthlyMatchCap = 1000
			p.MaxAnnualMatchCap = 3000
		}, 555.10, 3000, "annual_policy"},
		{"no cap", 10000, 30000, nil, 333.06, 3996.72, "none"},
	}

	svc, _ := newTestRecommendationService(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := recommendationRequest(tt.salary, tt.loan)
			if tt.policy != nil {
				tt.policy(&req.EmployerMatchPolicy)
			}
			p, err := svc.Profile(req)
			require.NoError(t, err)

			rec := FallbackRecommendation(p, 0.22)
			assert.Equal(t, 100.0, rec.RecommendedMatchPercentage)
			assert.Equal(t, "low", rec.RiskAssessment)
			assert.InDelta(t, tt.monthly, rec.RecommendedMonthlyMatchAmount, 1e-9)
			assert.InDelta(t, tt.annual, rec.RecommendedAnnualMatchAmount, 1e-9)
			assert.Equal(t, tt.cap, rec.CapApplied)
		})
	}
}

func TestFallbackRecommendation_RiskTiers(t *testing.T) {
	tests := []struct {
		name    string
		salary  float64
		pct     float64
		risk    string
		monthly float64
		score   float64
	}{
		{"low", 5000, 100, "low", 300, 78},
		{"medium", 3000, 75, "medium", 180, 63},
		{"high", 2000, 50, "high", 120, 50},
	}

	svc, _ := newTestRecommendationService(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := svc.Profile(recommendationRequest(tt.salary, 50000))
			require.NoError(t, err)

			rec := FallbackRecommendation(p, 0.22)
			assert.Equal(t, tt.pct, rec.RecommendedMatchPercentage)
			assert.Equal(t, tt.risk, rec.RiskAssessment)
			assert.InDelta(t, tt.monthly, rec.RecommendedMonthlyMatchAmount, 1e-9)
			assert.Equal(t, tt.score, rec.FinancialHealthScore)
		})
	}
}

func TestFallbackRecommendation_Text(t *testing.T) {
	svc, _ := newTestRecommendationService(nil)
	p, err := svc.Profile(recommendationRequest(5000, 50000))
	require.NoError(t, err)

	rec := FallbackRecommendation(p, 0.22)

	assert.Equal(t, "Fallback recommendation based on 11.1% debt-to-income ratio. Match limited by salary_percentage (6.0%). Manual review recommended.", rec.Rationale)
	assert.Contains(t, rec.Recommendations, "Consider starting with conservative 100% match")
	assert.Equal(t, "Estimated annual tax benefit of $792.00 (at 22.0% bracket)", rec.TaxBenefits)
	assert.Equal(t, "Projected retirement value: $24120.00", rec.ProjectedOutcomes.FiveYears)
	assert.Equal(t, "Projected retirement value: $64440.00", rec.ProjectedOutcomes.TenYears)
	assert.Equal(t, "Total match contribution over loan term: $36000.00", rec.ProjectedOutcomes.AtLoanPayoff)
	assert.NotNil(t, rec.AlternativeOptions)
}

func TestProjections(t *testing.T) {
	svc, _ := newTestRecommendationService(nil)
	p, err := svc.Profile(recommendationRequest(5000, 50000))
	require.NoError(t, err)

	proj := Projections(p, FallbackRecommendation(p, 0.22), 0.22)

	assert.Equal(t, "USD", proj.Currency)
	assert.InDelta(t, 4444.90, proj.MonthlyBreakdown.RemainingIncome, 1e-9)
	assert.InDelta(t, 4744.90, proj.MonthlyBreakdown.EffectiveIncomeAfterMatch, 1e-9)
	assert.InDelta(t, 47448, proj.AnnualSummary.ProjectedRetirementValue10Years, 1e-9)
	assert.InDelta(t, 132444, proj.AnnualSummary.ProjectedRetirementValue20Years, 1e-9)
	assert.InDelta(t, 284616, proj.AnnualSummary.ProjectedRetirementValue30Years, 1e-9)
	assert.InDelta(t, 36000, proj.AnnualSummary.TotalLoanPrincipalReduction, 1e-9)
	assert.InDelta(t, 11.1, proj.DebtToIncomeImpact.BeforeMatch, 1e-9)
	assert.InDelta(t, 5.1, proj.DebtToIncomeImpact.AfterMatch, 1e-9)
	assert.InDelta(t, 6.0, proj.DebtToIncomeImpact.Improvement, 1e-9)
	assert.InDelta(t, 792, proj.TaxSavings.AnnualTaxBenefit, 1e-9)
	assert.InDelta(t, 7920, proj.TaxSavings.LifetimeTaxSavings, 1e-9)
	assert.InDelta(t, 321.10, proj.TaxSavings.EffectiveCostReduction, 1e-9)
	assert.True(t, proj.SalaryCapInfo.IsMatchLimitedBySalaryCap)
	assert.Nil(t, proj.ConversionInfo.ExchangeRate)
	assert.True(t, proj.ConversionInfo.AllCalculationsInUSD)
}

func TestProjections_RecordsExchangeRate(t *testing.T) {
	svc, _ := newTestRecommendationService(nil)
	req := recommendationRequest(10000, 4_000_000)
	req.LoanApplication.Currency = "inr"

	p, err := svc.Profile(req)
	require.NoError(t, err)

	proj := Projections(p, FallbackRecommendation(p, 0.22), 0.22)
	require.NotNil(t, proj.ConversionInfo.ExchangeRate)
	assert.Equal(t, 0.012, *proj.ConversionInfo.ExchangeRate)
	assert.Equal(t, "INR", proj.ConversionInfo.OriginalCurrency)
	assert.False(t, proj.SalaryCapInfo.IsMatchLimitedBySalaryCap)
}

func TestRecommend_UsesAdvisorWithinLimits(t *testing.T) {
	advisor := &stubAdvisor{rec: domain.Recommendation{
		RecommendedMatchPercentage:    100,
		RecommendedMonthlyMatchAmount: 900,
		RecommendedAnnualMatchAmount:  10800,
		Rationale:                     "low debt",
		RiskAssessment:                "low",
	}}
	svc, m := newTestRecommendationService(advisor)

	resp, err := svc.Recommend(context.Background(), recommendationRequest(5000, 50000))
	require.NoError(t, err)

	assert.Equal(t, 1, advisor.calls)
	assert.Equal(t, domain.SourceAdvisor, resp.Source)
	assert.Equal(t, "low debt", resp.Recommendation.Rationale)
	assert.InDelta(t, 300, resp.Recommendation.RecommendedMonthlyMatchAmount, 1e-9)
	assert.InDelta(t, 3600, resp.Recommendation.RecommendedAnnualMatchAmount, 1e-9)
	assert.NotNil(t, resp.Recommendation.AlternativeOptions)
	assert.Equal(t, "Pending", resp.ApprovalStatus)
	assert.Equal(t, "1234567890", resp.UserID)
	assert.Equal(t, time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC), resp.Timestamp)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Recommendations.WithLabelValues("advisor")))
}

func TestRecommend_FallsBackWhenAdvisorFails(t *testing.T) {
	svc, m := newTestRecommendationService(&stubAdvisor{err: errors.New("upstream 502")})

	resp, err := svc.Recommend(context.Background(), recommendationRequest(5000, 50000))
	require.NoError(t, err)

	assert.Equal(t, domain.SourceFallback, resp.Source)
	assert.Equal(t, "salary_percentage (6.0%)", resp.Recommendation.CapApplied)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SideEffectErrors.WithLabelValues("advisor")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Recommendations.WithLabelValues("fallback")))
}

func TestRecommend_DisabledAdvisorIsNotAnError(t *testing.T) {
	svc, m := newTestRecommendationService(NewAIService(AIConfig{}))

	resp, err := svc.Recommend(context.Background(), recommendationRequest(5000, 50000))
	require.NoError(t, err)

	assert.Equal(t, domain.SourceFallback, resp.Source)
	assert.Zero(t, testutil.ToFloat64(m.SideEffectErrors.WithLabelValues("advisor")))
}

func TestRecommend_UserIDTooLong(t *testing.T) {
	svc, _ := newTestRecommendationService(nil)
	req := recommendationRequest(5000, 50000)
	req.UserID = string(make([]byte, MaxUserIDLength+1))

	_, err := svc.Recommend(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestPlainNumber(t *testing.T) {
	assert.Equal(t, "6.0", plainNumber(6))
	assert.Equal(t, "11.1", plainNumber(11.1))
	assert.Equal(t, "27.76", plainNumber(27.76))
	assert.Equal(t, "0.0", plainNumber(0))
}
