package explain

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

	"resume-ranker/internal/shared/metrics"
	"resume-ranker/internal/shared/telemetry"
)

const (
	apiURL = "https://api.openai.com/v1/chat/completions"

	// textBudget bounds how much of each document is sent to the model.
	textBudget = 8000

	defaultTimeout = 60 * time.Second
)

// FailureKind categorizes why a remote augmentation call degraded.
type FailureKind string

const (
	FailureAuth      FailureKind = "auth_error"
	FailureTemporary FailureKind = "temporary_error"
	FailureOther     FailureKind = "other_error"
)

// OpenAIProvider asks OpenAI Chat Completions for reasoning, strengths, and
// suggestions, falling back to HeuristicProvider output on any failure.
type OpenAIProvider struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
	fallback   HeuristicProvider
}

// NewOpenAIProvider constructs a remote provider with a bounded timeout.
func NewOpenAIProvider(apiKey, model string, timeout time.Duration) (*OpenAIProvider, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required")
	}
	if strings.TrimSpace(model) == "" {
		return nil, fmt.Errorf("OPENAI_CHAT_MODEL is required")
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &OpenAIProvider{
		apiKey:     apiKey,
		model:      model,
		baseURL:    apiURL,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// Explain calls the remote model and merges its output over the heuristic
// baseline. On failure the heuristic result is returned with the failure
// recorded in Meta; the error never propagates.
func (p *OpenAIProvider) Explain(ctx context.Context, in Input) Explanation {
	out := p.fallback.Explain(ctx, in)
	out.Meta = map[string]any{"mode": "openai", "model": p.model}

	remote, err := p.call(ctx, in)
	if err != nil {
		kind := classifyFailure(err)
		out.Meta["openai_error"] = string(kind) + ": " + err.Error()
		metrics.IncAugmentationFallback()
		telemetry.Warn("augmentation.degraded", map[string]any{
			"kind":  string(kind),
			"error": err.Error(),
		})
		return out
	}

	if remote.Reasoning != "" {
		out.Reasoning = remote.Reasoning
	}
	if len(remote.Strengths) > 0 {
		out.Strengths = remote.Strengths
	}
	if len(remote.Suggestions) > 0 {
		out.Suggestions = remote.Suggestions
	}
	return out
}

// remoteResponse is the strict response shape; extraneous keys are rejected.
type remoteResponse struct {
	Reasoning   string   `json:"reasoning"`
	Strengths   []string `json:"strengths"`
	Suggestions []string `json:"candidate_suggestions"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string         `json:"model"`
	Messages       []chatMessage  `json:"messages"`
	Temperature    float32        `json:"temperature"`
	ResponseFormat responseFormat `json:"response_format"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error,omitempty"`
}

// statusError carries the HTTP status for failure classification.
type statusError struct {
	status  int
	message string
}

func (e statusError) Error() string {
	return fmt.Sprintf("openai error status=%d: %s", e.status, e.message)
}

func (p *OpenAIProvider) call(ctx context.Context, in Input) (remoteResponse, error) {
	reqBody := chatRequest{
		Model: p.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: buildUserPrompt(in)},
		},
		Temperature:    0.2,
		ResponseFormat: responseFormat{Type: "json_object"},
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return remoteResponse{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL, bytes.NewReader(payload))
	if err != nil {
		return remoteResponse{}, err
	}
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return remoteResponse{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return remoteResponse{}, err
	}

	var parsed chatResponse
	if resp.StatusCode != http.StatusOK {
		message := resp.Status
		if json.Unmarshal(body, &parsed) == nil && parsed.Error != nil {
			message = parsed.Error.Message
		}
		return remoteResponse{}, statusError{status: resp.StatusCode, message: message}
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return remoteResponse{}, fmt.Errorf("openai response parse: %w", err)
	}
	if parsed.Error != nil {
		return remoteResponse{}, fmt.Errorf("openai error: %s (%s)", parsed.Error.Message, parsed.Error.Type)
	}
	if len(parsed.Choices) == 0 {
		return remoteResponse{}, errors.New("openai response missing choices")
	}

	content := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if content == "" {
		return remoteResponse{}, errors.New("openai response empty content")
	}

	var out remoteResponse
	decoder := json.NewDecoder(strings.NewReader(content))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&out); err != nil {
		return remoteResponse{}, fmt.Errorf("openai content decode: %w", err)
	}
	return out, nil
}

func classifyFailure(err error) FailureKind {
	var se statusError
	if errors.As(err, &se) {
		switch {
		case se.status == http.StatusUnauthorized || se.status == http.StatusForbidden:
			return FailureAuth
		case se.status == http.StatusTooManyRequests || se.status >= 500:
			return FailureTemporary
		default:
			return FailureOther
		}
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return FailureTemporary
	}
	msg := err.Error()
	if strings.Contains(msg, "Client.Timeout") || strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "no such host") || strings.Contains(msg, "connection reset") {
		return FailureTemporary
	}
	return FailureOther
}

const systemPrompt = "You are an expert technical recruiter and resume reviewer. " +
	"Return ONLY valid JSON. No markdown. No extra keys."

func buildUserPrompt(in Input) string {
	missing, _ := json.Marshal(in.MissingSkills)
	return fmt.Sprintf(`Given the JOB DESCRIPTION and RESUME TEXT, produce:
- reasoning: short paragraph explaining the match score
- strengths: 3-7 bullets (with evidence from resume)
- candidate_suggestions: 6-10 actionable improvements to better match the JD

Return JSON:
{
  "reasoning": "...",
  "strengths": ["..."],
  "candidate_suggestions": ["..."]
}

match_score: %d
missing_skills: %s

JOB DESCRIPTION:
<<<%s>>>

RESUME TEXT:
<<<%s>>>`, in.Score, missing, truncate(in.JobText, textBudget), truncate(in.ResumeText, textBudget))
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}

var _ Provider = (*OpenAIProvider)(nil)
