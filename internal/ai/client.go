// Package ai provides the Gemini-backed bid advisor.
//
// The advisor is strictly best-effort: every failure path returns
// DefaultAssessment so callers never need to branch on advisor errors.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/bidsight/internal/config"
)

const (
	opAssessWin = "assess_win"

	defaultTemperature     = 0.2
	defaultTopP            = 0.8
	defaultTopK            = 40
	defaultMaxOutputTokens = 2048

	blockMediumAndAbove = "BLOCK_MEDIUM_AND_ABOVE"
)

// Assessment is the advisor's view of a bid's chances.
type Assessment struct {
	WinProbability        float64  `json:"win_probability"`
	ConfidenceScore       float64  `json:"confidence_score"`
	KeyStrengths          []string `json:"key_strengths"`
	KeyWeaknesses         []string `json:"key_weaknesses"`
	RecommendedActions    []string `json:"recommended_actions"`
	CompetitiveAnalysis   string   `json:"competitive_analysis"`
	PricingRecommendation string   `json:"pricing_recommendation"`
}

// DefaultAssessment returns the neutral assessment used whenever the
// advisor is disabled or a request fails.
func DefaultAssessment() *Assessment {
	return &Assessment{
		WinProbability:        0.5,
		ConfidenceScore:       0.5,
		KeyStrengths:          []string{"Unable to analyze"},
		KeyWeaknesses:         []string{"Unable to analyze"},
		RecommendedActions:    []string{"Review bid details manually"},
		CompetitiveAnalysis:   "Unable to analyze",
		PricingRecommendation: "Standard pricing recommended",
	}
}

// Advisor calls the Gemini generateContent API to assess bids.
type Advisor struct {
	cfg        *config.AIConfig
	httpClient *RateLimitedHTTPClient
	logger     *logrus.Logger
}

// NewAdvisor creates an advisor from configuration
func NewAdvisor(cfg *config.AIConfig, logger *logrus.Logger) *Advisor {
	httpCfg := DefaultHTTPClientConfig()
	if cfg.RequestTimeoutSeconds > 0 {
		httpCfg.Timeout = time.Duration(cfg.RequestTimeoutSeconds) * time.Second
	}
	if cfg.RateLimit > 0 {
		httpCfg.RateLimit = cfg.RateLimit
	}
	httpCfg.MaxRetries = cfg.MaxRetries

	return &Advisor{
		cfg:        cfg,
		httpClient: NewRateLimitedHTTPClient(httpCfg, logger),
		logger:     logger,
	}
}

// Enabled reports whether the advisor is configured to make requests
func (a *Advisor) Enabled() bool {
	return a.cfg.Enabled && a.cfg.APIKey != ""
}

// AssessWin asks the model to assess the bid described by featureJSON.
// It never returns an error; any failure yields DefaultAssessment.
func (a *Advisor) AssessWin(ctx context.Context, featureJSON string) *Assessment {
	if !a.Enabled() {
		AIRequestsTotal.WithLabelValues(opAssessWin, "disabled").Inc()
		return DefaultAssessment()
	}

	start := time.Now()
	text, err := a.generate(ctx, assessWinPrompt(featureJSON))
	if err != nil {
		a.logger.WithError(err).Warn("Win assessment request failed, using default")
		AIRequestsTotal.WithLabelValues(opAssessWin, "error").Inc()
		return DefaultAssessment()
	}
	AIRequestLatency.Observe(time.Since(start).Seconds())

	var assessment Assessment
	if err := json.Unmarshal([]byte(stripCodeFence(text)), &assessment); err != nil {
		a.logger.WithError(err).Warn("Win assessment response was not valid JSON, using default")
		AIRequestsTotal.WithLabelValues(opAssessWin, "malformed").Inc()
		return DefaultAssessment()
	}

	assessment.WinProbability = clamp01(assessment.WinProbability)
	assessment.ConfidenceScore = clamp01(assessment.ConfidenceScore)

	AIRequestsTotal.WithLabelValues(opAssessWin, "success").Inc()
	return &assessment
}

// Close releases the underlying HTTP client resources
func (a *Advisor) Close() error {
	return a.httpClient.Close()
}

// generate sends a single prompt and returns the first candidate's text
func (a *Advisor) generate(ctx context.Context, prompt string) (string, error) {
	reqBody := generateContentRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: generationConfig{
			Temperature:     defaultTemperature,
			TopP:            defaultTopP,
			TopK:            defaultTopK,
			MaxOutputTokens: defaultMaxOutputTokens,
		},
		SafetySettings: defaultSafetySettings(),
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s",
		strings.TrimSuffix(a.cfg.BaseURL, "/"), a.cfg.Model, a.cfg.APIKey)

	resp, err := a.httpClient.Post(ctx, url, "application/json", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("advisor returned status %d: %s", resp.StatusCode, string(body))
	}

	var decoded generateContentResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if len(decoded.Candidates) == 0 || len(decoded.Candidates[0].Content.Parts) == 0 {
		return "", ErrEmptyResponse
	}

	return decoded.Candidates[0].Content.Parts[0].Text, nil
}

// assessWinPrompt builds the win assessment prompt around the feature JSON
func assessWinPrompt(featureJSON string) string {
	return fmt.Sprintf(`Analyze the following bid features and predict win probability:

Features:
%s

Consider factors like:
- Customer relationship history
- Bid value and complexity
- Competitive landscape
- Team experience
- Past performance on similar bids

Provide analysis in JSON format:
{
    "win_probability": 0.85,
    "confidence_score": 0.92,
    "key_strengths": ["list of strengths"],
    "key_weaknesses": ["list of weaknesses"],
    "recommended_actions": ["list of actions to improve chances"],
    "competitive_analysis": "analysis of competitive position",
    "pricing_recommendation": "suggested pricing strategy"
}`, featureJSON)
}

// stripCodeFence removes a surrounding markdown code fence, if present.
// Models frequently wrap JSON answers in ```json fences.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Request and response shapes for the generateContent REST API.

type generateContentRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
	SafetySettings   []safetySetting  `json:"safetySettings"`
}

type content struct {
	Parts []part `json:"parts"`
	Role  string `json:"role,omitempty"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	TopP            float64 `json:"topP"`
	TopK            int     `json:"topK"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type safetySetting struct {
	Category  string `json:"category"`
	Threshold string `json:"threshold"`
}

type generateContentResponse struct {
	Candidates []candidate `json:"candidates"`
}

type candidate struct {
	Content      content `json:"content"`
	FinishReason string  `json:"finishReason,omitempty"`
}

func defaultSafetySettings() []safetySetting {
	categories := []string{
		"HARM_CATEGORY_HARASSMENT",
		"HARM_CATEGORY_HATE_SPEECH",
		"HARM_CATEGORY_SEXUALLY_EXPLICIT",
		"HARM_CATEGORY_DANGEROUS_CONTENT",
	}

	settings := make([]safetySetting, 0, len(categories))
	for _, category := range categories {
		settings = append(settings, safetySetting{
			Category:  category,
			Threshold: blockMediumAndAbove,
		})
	}
	return settings
}
