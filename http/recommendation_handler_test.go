package http

import (
	"net/http"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"retirement-match/domain"
)

func TestRecommendationHandler_FallbackWithPartialPolicy(t *testing.T) {
	srv := newTestServer(t, nil)

	body := `{
		"asuId": "1234567890",
		"loanApplication": {
			"applicantName": "Priya Sharma",
			"applicationDate": "2024-01-10",
			"loanProvider": "State Bank",
			"sanctionedAmount": 4000000,
			"loanAmount": 4000000,
			"currency": "INR",
			"interestRate": 8.5,
			"loanTenure": 10,
			"loanType": "education"
		},
		"salaryVerification": {
			"employerName": "Acme",
			"employeeName": "Priya Sharma",
			"month": "2024-05",
			"grossSalary": 12000,
			"deductions": 2000,
			"netSalary": 10000,
			"currency": "USD"
		},
		"employerMatchPolicy": {"maxMonthlyMatchCap": 400}
	}`

	w := srv.do(t, http.MethodPost, "/match/recommend", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp domain.RecommendationResponse
	decode(t, w, &resp)
	assert.Equal(t, domain.SourceFallback, resp.Source)
	assert.Equal(t, "Pending", resp.ApprovalStatus)
	assert.Equal(t, "monthly_policy", resp.Recommendation.CapApplied)
	assert.InDelta(t, 400, resp.Recommendation.RecommendedMonthlyMatchAmount, 1e-9)
	assert.InDelta(t, 4800, resp.Recommendation.RecommendedAnnualMatchAmount, 1e-9)
	assert.InDelta(t, 595.13, resp.FinancialProjections.MonthlyBreakdown.LoanPayment, 1e-9)
	assert.Equal(t, 6.0, resp.FinancialProjections.SalaryCapInfo.MaxSalaryPercentage)
	require.NotNil(t, resp.FinancialProjections.ConversionInfo.ExchangeRate)
	assert.Equal(t, 0.012, *resp.FinancialProjections.ConversionInfo.ExchangeRate)
	assert.Equal(t, 1.0, testutil.ToFloat64(srv.metrics.Recommendations.WithLabelValues("fallback")))
}

func TestRecommendationHandler_InvalidCurrency(t *testing.T) {
	srv := newTestServer(t, nil)

	body := `{
		"loanApplication": {"loanAmount": 50000, "currency": "USD", "interestRate": 6, "loanTenure": 10},
		"salaryVerification": {"netSalary": 5000, "currency": "EUR"}
	}`

	w := srv.do(t, http.MethodPost, "/match/recommend", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "salaryVerification.currency")
}

func TestRecommendationHandler_UnknownField(t *testing.T) {
	srv := newTestServer(t, nil)

	w := srv.do(t, http.MethodPost, "/match/recommend", `{"loanApplication": {"loanAmount": 1}, "bonus": true}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
