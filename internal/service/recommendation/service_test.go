package recommendation

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/carboniq/server/internal/ports"
)

type stubGenerator struct {
	text string
	err  error
}

func (s *stubGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	return s.text, s.err
}

func newTestLogger() *zap.Logger {
	logger, _ := zap.NewDevelopment()
	return logger
}

func TestRecommend_Success(t *testing.T) {
	service := NewService(&stubGenerator{text: "  Switch to rail for short trips.\n"}, newTestLogger())

	got := service.Recommend(context.Background(), []ports.AlertSummary{
		{Type: "spike", Severity: "high", Title: "Emissions spike", Message: "Up 30% this month"},
	})

	if got != "Switch to rail for short trips." {
		t.Errorf("expected trimmed model text, got %q", got)
	}
}

func TestRecommend_ModelError_Fallback(t *testing.T) {
	service := NewService(&stubGenerator{err: errors.New("quota exceeded")}, newTestLogger())

	got := service.Recommend(context.Background(), nil)

	if got != FallbackText {
		t.Errorf("expected fallback text, got %q", got)
	}
}

func TestRecommend_BlankAnswer_Fallback(t *testing.T) {
	service := NewService(&stubGenerator{text: "   \n"}, newTestLogger())

	got := service.Recommend(context.Background(), nil)

	if got != FallbackText {
		t.Errorf("expected fallback text, got %q", got)
	}
}

func TestBuildPrompt_IncludesAlerts(t *testing.T) {
	prompt := buildPrompt([]ports.AlertSummary{
		{Type: "spike", Severity: "high", Title: "Spike", Message: "Electricity up 40%"},
	})

	if !strings.Contains(prompt, "Electricity up 40%") {
		t.Error("expected alert message in prompt")
	}
	if !strings.Contains(prompt, "[spike/high]") {
		t.Error("expected alert type and severity in prompt")
	}
}
