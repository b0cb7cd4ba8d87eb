package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/carboniq/server/internal/adapter/http/fiber/middleware"
	"github.com/carboniq/server/internal/ports"
	"github.com/carboniq/server/internal/service/analytics"
)

const defaultForecastHorizon = 3

type AnalyticsHandler struct {
	service ports.AnalyticsService
	log     *zap.Logger
}

func NewAnalyticsHandler(service ports.AnalyticsService, log *zap.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		service: service,
		log:     log,
	}
}

func (h *AnalyticsHandler) Summary(c *fiber.Ctx) error {
	start, end, ranged, err := parseRange(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	orgID := middleware.OrgID(c)
	if ranged {
		summary, err := h.service.SummarizeRange(c.Context(), orgID, start, end)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(summary)
	}

	summary, err := h.service.Summarize(c.Context(), orgID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(summary)
}

func (h *AnalyticsHandler) Forecast(c *fiber.Ctx) error {
	horizon := c.QueryInt("horizon", defaultForecastHorizon)
	if horizon < 1 || horizon > 24 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Horizon must be between 1 and 24 months"})
	}

	forecast, err := h.service.Forecast(c.Context(), middleware.OrgID(c), horizon)
	if err != nil {
		if errors.Is(err, analytics.ErrNotEnoughHistory) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(forecast)
}

func parseRange(c *fiber.Ctx) (time.Time, time.Time, bool, error) {
	startRaw, endRaw := c.Query("start"), c.Query("end")
	if startRaw == "" && endRaw == "" {
		return time.Time{}, time.Time{}, false, nil
	}
	if startRaw == "" || endRaw == "" {
		return time.Time{}, time.Time{}, false, errors.New("both start and end are required")
	}

	start, err := time.Parse("2006-01-02", startRaw)
	if err != nil {
		return time.Time{}, time.Time{}, false, errors.New("start must be YYYY-MM-DD")
	}
	end, err := time.Parse("2006-01-02", endRaw)
	if err != nil {
		return time.Time{}, time.Time{}, false, errors.New("end must be YYYY-MM-DD")
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, false, errors.New("end must not precede start")
	}
	return start, end, true, nil
}
