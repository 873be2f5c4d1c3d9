package gemini

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"jobpilot/internal/ai"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

type fakeModels struct {
	resp   *genai.GenerateContentResponse
	err    error
	calls  int
	model  string
	config *genai.GenerateContentConfig
}

func (f *fakeModels) GenerateContent(_ context.Context, model string, _ []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.calls++
	f.model = model
	f.config = config
	return f.resp, f.err
}

func textResponse(parts ...string) *genai.GenerateContentResponse {
	content := &genai.Content{}
	for _, p := range parts {
		content.Parts = append(content.Parts, &genai.Part{Text: p})
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: content}},
	}
}

func TestGenerateReturnsText(t *testing.T) {
	models := &fakeModels{resp: textResponse("Hej!", "Med vänlig hälsning")}
	g := &Generator{models: models, model: "gemini-2.5-flash", logger: zap.NewNop()}

	got, err := g.Generate(context.Background(), "skriv ett brev", 800)
	if err != nil {
		t.Fatal(err)
	}
	if got != "Hej!\nMed vänlig hälsning" {
		t.Fatalf("got %q", got)
	}

	if models.model != "gemini-2.5-flash" {
		t.Fatalf("unexpected model: %s", models.model)
	}
	if models.config == nil || models.config.MaxOutputTokens != 800 {
		t.Fatalf("unexpected config: %+v", models.config)
	}
}

func TestGenerateMapsRateLimit(t *testing.T) {
	models := &fakeModels{err: genai.APIError{Code: http.StatusTooManyRequests, Status: "RESOURCE_EXHAUSTED"}}
	g := &Generator{models: models, model: defaultModel, logger: zap.NewNop()}

	_, err := g.Generate(context.Background(), "prompt", 0)
	if !errors.Is(err, ai.ErrRateLimited) {
		t.Fatalf("expected a rate-limit error, got %v", err)
	}
}

func TestGenerateOtherAPIErrorIsPlain(t *testing.T) {
	models := &fakeModels{err: genai.APIError{Code: http.StatusInternalServerError, Status: "INTERNAL"}}
	g := &Generator{models: models, model: defaultModel, logger: zap.NewNop()}

	_, err := g.Generate(context.Background(), "prompt", 0)
	if err == nil {
		t.Fatal("expected an error")
	}
	if errors.Is(err, ai.ErrRateLimited) {
		t.Fatal("a server error must not look like throttling")
	}
}

func TestGenerateEmptyResponse(t *testing.T) {
	models := &fakeModels{resp: &genai.GenerateContentResponse{}}
	g := &Generator{models: models, model: defaultModel, logger: zap.NewNop()}

	if _, err := g.Generate(context.Background(), "prompt", 0); err == nil {
		t.Fatal("expected an error for an empty response")
	}
}

func TestGenerateRejectsEmptyPrompt(t *testing.T) {
	models := &fakeModels{resp: textResponse("ignored")}
	g := &Generator{models: models, model: defaultModel, logger: zap.NewNop()}

	if _, err := g.Generate(context.Background(), "   ", 0); err == nil {
		t.Fatal("expected an error for an empty prompt")
	}
	if models.calls != 0 {
		t.Fatalf("the api must not be called, got %d calls", models.calls)
	}
}
