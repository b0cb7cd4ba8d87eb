package recommendation

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/carboniq/server/internal/observability/telemetry"
	"github.com/carboniq/server/internal/ports"
)

// FallbackText is returned whenever the model is unreachable or answers
// garbage. Clients render it verbatim.
const FallbackText = "Unable to generate AI recommendations right now."

// TextGenerator is the single-turn prompt interface the service needs.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type Service struct {
	model TextGenerator
	log   *zap.Logger
}

func NewService(model TextGenerator, log *zap.Logger) ports.RecommendationService {
	return &Service{
		model: model,
		log:   log,
	}
}

// Recommend never returns an error: a model failure degrades to static text
// so the alerts panel keeps rendering.
func (s *Service) Recommend(ctx context.Context, alerts []ports.AlertSummary) string {
	text, err := s.model.Generate(ctx, buildPrompt(alerts))
	if err != nil || strings.TrimSpace(text) == "" {
		telemetry.RecommendationFallbacksTotal.Inc()
		s.log.Warn("Recommendation model unavailable, serving fallback", zap.Error(err))
		return FallbackText
	}
	return strings.TrimSpace(text)
}

func buildPrompt(alerts []ports.AlertSummary) string {
	var b strings.Builder
	b.WriteString("You are a sustainability advisor for a company tracking its carbon emissions.\n")
	b.WriteString("Based on the following active alerts, give 3 short, concrete recommendations ")
	b.WriteString("to reduce emissions. Plain text, one recommendation per line.\n\n")
	if len(alerts) == 0 {
		b.WriteString("There are no active alerts. Suggest general quick wins.\n")
		return b.String()
	}
	for _, a := range alerts {
		fmt.Fprintf(&b, "- [%s/%s] %s: %s\n", a.Type, a.Severity, a.Title, a.Message)
	}
	return b.String()
}
