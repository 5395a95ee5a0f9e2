package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"retirement-match/domain"
)

// ErrAdvisorDisabled is returned by an AIService that has no API key.
var ErrAdvisorDisabled = errors.New("match advisor disabled")

// AIConfig configures the chat-completions endpoint behind AIService.
type AIConfig struct {
	APIKey      string
	APIURL      string
	Model       string
	Timeout     time.Duration
	MaxTokens   int
	Temperature float64
}

// AIService asks an OpenAI-compatible chat model for a match recommendation.
// Without an API key it is disabled and every call returns ErrAdvisorDisabled.
type AIService struct {
	apiKey      string
	apiURL      string
	model       string
	maxTokens   int
	temperature float64
	enabled     bool
	httpClient  *http.Client
	breaker     *gobreaker.CircuitBreaker
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature"`
	Stream      bool          `json:"stream"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func NewAIService(cfg AIConfig) *AIService {
	return &AIService{
		apiKey:      cfg.APIKey,
		apiURL:      cfg.APIURL,
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		enabled:     cfg.APIKey != "",
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "match-advisor",
			MaxRequests: 1,
			Timeout:     time.Minute,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 3
			},
			IsSuccessful: func(err error) bool {
				return err == nil || errors.Is(err, context.Canceled)
			},
		}),
	}
}

func (s *AIService) Enabled() bool {
	return s.enabled
}

const advisorSystemPrompt = `You advise employees on how much employer retirement match to take against their student loan payments.

You receive a JSON profile with monthly and annual salary, the loan in USD with its estimated monthly payment, the debt-to-income ratio and the employer match policy with three caps: a monthly cap, an annual cap and a cap as a percentage of annual salary. The effective limits are already worked out.

Rules:
- Debt-to-income below 15% is low risk: recommend 100% match.
- Debt-to-income from 15% to 25% is medium risk: recommend 75% match.
- Debt-to-income above 25% is high risk: recommend 50% or 75% match.
- The monthly match must not exceed effectiveMonthlyLimit and the annual match must not exceed effectiveAnnualLimit.

Reply with a single JSON object and nothing else:
{
  "recommendedMatchPercentage": 50 | 75 | 100,
  "recommendedMonthlyMatchAmount": number,
  "recommendedAnnualMatchAmount": number,
  "rationale": string,
  "riskAssessment": "low" | "medium" | "high",
  "capApplied": "monthly_policy" | "annual_policy" | "salary_percentage" | "none",
  "alternativeOptions": [{"matchPercentage": number, "monthlyAmount": number, "annualAmount": number, "pros": string, "cons": string}],
  "financialHealthScore": number between 0 and 100,
  "recommendations": [string],
  "taxBenefits": string,
  "projectedOutcomes": {"5years": string, "10years": string, "atLoanPayoff": string}
}`

// RecommendMatch sends profile to the model and parses its recommendation.
func (s *AIService) RecommendMatch(ctx context.Context, profile domain.MatchProfile) (domain.Recommendation, error) {
	if !s.enabled {
		return domain.Recommendation{}, ErrAdvisorDisabled
	}

	payload, err := json.MarshalIndent(profile, "", "  ")
	if err != nil {
		return domain.Recommendation{}, err
	}

	prompt := fmt.Sprintf(`Recommend the retirement match for this employee:

%s

The salary cap of %.2f%% allows at most $%.2f per month. Stay within it even when the policy caps are higher.`,
		payload, profile.Policy.MaxSalaryPercentageCap, profile.SalaryCapMonthly)

	content, err := s.callLLM(ctx, prompt)
	if err != nil {
		return domain.Recommendation{}, err
	}
	return parseRecommendation(content)
}

func (s *AIService) callLLM(ctx context.Context, prompt string) (string, error) {
	res, err := s.breaker.Execute(func() (interface{}, error) {
		return s.post(ctx, prompt)
	})
	if err != nil {
		return "", err
	}
	return res.(string), nil
}

func (s *AIService) post(ctx context.Context, prompt string) (string, error) {
	reqBody := chatRequest{
		Model: s.model,
		Messages: []chatMessage{
			{Role: "system", Content: advisorSystemPrompt},
			{Role: "user", Content: prompt},
		},
		MaxTokens:   s.maxTokens,
		Temperature: s.temperature,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("advisor API error (status %d): %s", resp.StatusCode, string(body))
	}

	var completion chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return "", fmt.Errorf("decoding advisor response: %w", err)
	}

	if len(completion.Choices) == 0 {
		return "", errors.New("no response from advisor")
	}

	return completion.Choices[0].Message.Content, nil
}

var requiredRecommendationFields = []string{
	"recommendedMatchPercentage",
	"recommendedMonthlyMatchAmount",
	"recommendedAnnualMatchAmount",
	"rationale",
	"riskAssessment",
}

// parseRecommendation reads the model's JSON answer, tolerating a markdown
// code fence around it.
func parseRecommendation(content string) (domain.Recommendation, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(content), &fields); err != nil {
		return domain.Recommendation{}, fmt.Errorf("parsing advisor recommendation: %w", err)
	}

	var missing []string
	for _, f := range requiredRecommendationFields {
		if _, ok := fields[f]; !ok {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		return domain.Recommendation{}, fmt.Errorf("advisor recommendation missing %s", strings.Join(missing, ", "))
	}

	var rec domain.Recommendation
	if err := json.Unmarshal([]byte(content), &rec); err != nil {
		return domain.Recommendation{}, fmt.Errorf("parsing advisor recommendation: %w", err)
	}
	return rec, nil
}
