package explain

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestProvider(t *testing.T, url string) *OpenAIProvider {
	t.Helper()
	p, err := NewOpenAIProvider("test-key", "test-model", 5*time.Second)
	if err != nil {
		t.Fatalf("NewOpenAIProvider: %v", err)
	}
	p.baseURL = url
	return p
}

func chatBody(content string) string {
	payload := map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"role": "assistant", "content": content}},
		},
	}
	raw, _ := json.Marshal(payload)
	return string(raw)
}

func TestOpenAIExplainSuccessOverridesHeuristics(t *testing.T) {
	content := `{"reasoning":"Strong overlap.","strengths":["ships Python services"],"candidate_suggestions":["add django project"]}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(chatBody(content)))
	}))
	defer srv.Close()

	p := newTestProvider(t, srv.URL)
	out := p.Explain(context.Background(), Input{Score: 72, MissingSkills: []string{"django"}})

	if out.Reasoning != "Strong overlap." {
		t.Errorf("Reasoning = %q", out.Reasoning)
	}
	if len(out.Strengths) != 1 || out.Strengths[0] != "ships Python services" {
		t.Errorf("Strengths = %v", out.Strengths)
	}
	if len(out.Suggestions) != 1 || out.Suggestions[0] != "add django project" {
		t.Errorf("Suggestions = %v", out.Suggestions)
	}
	if _, degraded := out.Meta["openai_error"]; degraded {
		t.Errorf("unexpected failure tag: %v", out.Meta)
	}
}

func TestOpenAIExplainAuthFailureFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"bad key","type":"invalid_request_error"}}`))
	}))
	defer srv.Close()

	p := newTestProvider(t, srv.URL)
	out := p.Explain(context.Background(), Input{MissingSkills: []string{"sql"}})

	tag, ok := out.Meta["openai_error"].(string)
	if !ok {
		t.Fatalf("missing openai_error tag: %v", out.Meta)
	}
	if want := string(FailureAuth) + ": "; len(tag) < len(want) || tag[:len(want)] != want {
		t.Errorf("tag = %q, want %q prefix", tag, want)
	}
	if out.Reasoning == "" || len(out.Suggestions) == 0 {
		t.Error("fallback must stay non-empty")
	}
}

func TestOpenAIExplainRateLimitIsTemporary(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"slow down","type":"rate_limit_error"}}`))
	}))
	defer srv.Close()

	p := newTestProvider(t, srv.URL)
	out := p.Explain(context.Background(), Input{})

	tag, _ := out.Meta["openai_error"].(string)
	if want := string(FailureTemporary) + ": "; len(tag) < len(want) || tag[:len(want)] != want {
		t.Errorf("tag = %q, want %q prefix", tag, want)
	}
}

func TestOpenAIExplainConnectivityIsTemporary(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	p := newTestProvider(t, srv.URL)
	out := p.Explain(context.Background(), Input{})

	tag, _ := out.Meta["openai_error"].(string)
	if want := string(FailureTemporary) + ": "; len(tag) < len(want) || tag[:len(want)] != want {
		t.Errorf("tag = %q, want %q prefix", tag, want)
	}
}

func TestOpenAIExplainRejectsExtraneousKeys(t *testing.T) {
	content := `{"reasoning":"ok","strengths":[],"candidate_suggestions":[],"surprise":true}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(chatBody(content)))
	}))
	defer srv.Close()

	p := newTestProvider(t, srv.URL)
	out := p.Explain(context.Background(), Input{})

	tag, _ := out.Meta["openai_error"].(string)
	if want := string(FailureOther) + ": "; len(tag) < len(want) || tag[:len(want)] != want {
		t.Errorf("tag = %q, want %q prefix", tag, want)
	}
	if out.Reasoning != fallbackReasoning {
		t.Errorf("expected heuristic reasoning, got %q", out.Reasoning)
	}
}

func TestOpenAIExplainEmptyRemoteFieldsKeepHeuristics(t *testing.T) {
	content := `{"reasoning":"","strengths":[],"candidate_suggestions":[]}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(chatBody(content)))
	}))
	defer srv.Close()

	p := newTestProvider(t, srv.URL)
	out := p.Explain(context.Background(), Input{MissingSkills: []string{"sql"}})

	if out.Reasoning != fallbackReasoning {
		t.Errorf("Reasoning = %q, want heuristic fallback", out.Reasoning)
	}
	if len(out.Suggestions) == 0 {
		t.Error("expected heuristic suggestions to survive empty remote output")
	}
}

func TestBuildUserPromptTruncatesTexts(t *testing.T) {
	long := make([]byte, textBudget+500)
	for i := range long {
		long[i] = 'x'
	}
	prompt := buildUserPrompt(Input{JobText: string(long), ResumeText: string(long), Score: 10})
	if len(prompt) > 2*textBudget+1000 {
		t.Errorf("prompt too long: %d", len(prompt))
	}
}

func TestClassifyFailureStatusMapping(t *testing.T) {
	cases := []struct {
		status int
		want   FailureKind
	}{
		{401, FailureAuth},
		{403, FailureAuth},
		{429, FailureTemporary},
		{500, FailureTemporary},
		{503, FailureTemporary},
		{400, FailureOther},
		{404, FailureOther},
	}
	for _, tc := range cases {
		got := classifyFailure(statusError{status: tc.status, message: "m"})
		if got != tc.want {
			t.Errorf("status %d → %s, want %s", tc.status, got, tc.want)
		}
	}
}
