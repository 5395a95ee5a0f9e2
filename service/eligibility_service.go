package service

import (
	"context"
	"fmt"
	"strconv"

	"retirement-match/domain"
	"retirement-match/metrics"
)

type EligibilityService struct {
	matchService *MatchService
	metrics      *metrics.Registry
}

func NewEligibilityService(matchService *MatchService, m *metrics.Registry) *EligibilityService {
	return &EligibilityService{
		matchService: matchService,
		metrics:      m,
	}
}

// Check decides eligibility from the status of the uploaded documents: a
// verified salary slip and a verified loan statement are both required.
func (s *EligibilityService) Check(
	docs []domain.UploadedDocument,
	extracted *domain.ExtractedData,
) domain.EligibilityResult {
	hasSalarySlip := hasVerified(docs, domain.DocumentSalarySlip)
	hasLoanStatement := hasVerified(docs, domain.DocumentLoanStatement)

	if !hasSalarySlip || !hasLoanStatement {
		result := domain.EligibilityResult{
			Eligible: false,
			Checks: domain.EligibilityChecks{
				Employment: domain.CheckResult{
					Passed:  hasSalarySlip,
					Details: "Salary slip required for verification",
				},
				LoanType: domain.CheckResult{
					Passed:  hasLoanStatement,
					Details: "Loan statement required",
				},
				Salary: domain.CheckResult{
					Passed:  false,
					Details: "Waiting for document verification",
				},
			},
			Message: "Please upload all required documents",
		}
		if hasSalarySlip {
			result.Checks.Employment.Details = "Employment verified"
		}
		if hasLoanStatement {
			result.Checks.LoanType.Details = "Loan statement verified"
		}
		return result
	}

	return domain.EligibilityResult{
		Eligible: true,
		Checks: domain.EligibilityChecks{
			Employment: domain.CheckResult{Passed: true, Details: "Full-time ASU employee verified"},
			LoanType:   domain.CheckResult{Passed: true, Details: "Qualified federal student loans"},
			Salary:     domain.CheckResult{Passed: true, Details: "Salary verified and eligible"},
		},
		ExtractedData: extracted,
		Message:       "Congratulations! You are eligible for the program.",
	}
}

// CheckAndEstimate runs Check and, for an eligible applicant with extracted
// data, attaches a quick match estimate built from that data.
func (s *EligibilityService) CheckAndEstimate(
	ctx context.Context,
	req domain.EligibilityRequest,
) (domain.EligibilityResponse, error) {
	result := s.Check(req.Documents, req.ExtractedData)
	s.metrics.EligibilityChecks.WithLabelValues(strconv.FormatBool(result.Eligible)).Inc()

	resp := domain.EligibilityResponse{EligibilityResult: result}
	if !result.Eligible || result.ExtractedData == nil {
		return resp, nil
	}

	inputs := EstimateInputs(*result.ExtractedData, s.matchService.Defaults())
	estimate, err := s.matchService.Calculate(ctx, "", inputs)
	if err != nil {
		return domain.EligibilityResponse{}, fmt.Errorf("estimating from extracted data: %w", err)
	}
	resp.Estimate = &estimate
	return resp, nil
}

// EstimateInputs fills the salary and loan payment from extracted document
// data and keeps the match terms and 401(k) contribution from defaults.
func EstimateInputs(data domain.ExtractedData, defaults domain.CalculatorInputs) domain.CalculatorInputs {
	inputs := defaults
	inputs.AnnualSalary = data.AnnualSalary
	inputs.MonthlyLoanPayment = data.MonthlyLoanPayment
	return inputs
}

func hasVerified(docs []domain.UploadedDocument, docType domain.DocumentType) bool {
	for _, doc := range docs {
		if doc.DocumentType == docType && doc.Status == domain.DocumentVerified {
			return true
		}
	}
	return false
}
