package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/carboniq/server/internal/adapter/http/fiber/middleware"
	"github.com/carboniq/server/internal/ports"
)

type AlertHandler struct {
	alerts          ports.AlertService
	recommendations ports.RecommendationService
	log             *zap.Logger
}

func NewAlertHandler(alerts ports.AlertService, recommendations ports.RecommendationService, log *zap.Logger) *AlertHandler {
	return &AlertHandler{
		alerts:          alerts,
		recommendations: recommendations,
		log:             log,
	}
}

func (h *AlertHandler) List(c *fiber.Ctx) error {
	unreadOnly := c.Query("unread") == "true"

	alerts, err := h.alerts.List(c.Context(), middleware.OrgID(c), unreadOnly)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(alerts)
}

func (h *AlertHandler) MarkRead(c *fiber.Ctx) error {
	if err := h.alerts.MarkRead(c.Context(), c.Params("id")); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *AlertHandler) Dismiss(c *fiber.Ctx) error {
	if err := h.alerts.Dismiss(c.Context(), c.Params("id")); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Recommendations turns the organization's unread alerts into a piece of
// advisory text. The response is always 200; a model outage yields the
// static fallback text instead of an error.
func (h *AlertHandler) Recommendations(c *fiber.Ctx) error {
	alerts, err := h.alerts.List(c.Context(), middleware.OrgID(c), true)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	summaries := make([]ports.AlertSummary, 0, len(alerts))
	for _, a := range alerts {
		summaries = append(summaries, ports.AlertSummary{
			Type:     string(a.Type),
			Severity: string(a.Severity),
			Title:    a.Title,
			Message:  a.Message,
		})
	}

	text := h.recommendations.Recommend(c.Context(), summaries)
	return c.JSON(fiber.Map{"recommendations": text})
}
