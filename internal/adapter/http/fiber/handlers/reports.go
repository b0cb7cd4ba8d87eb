package handlers

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/carboniq/server/internal/adapter/http/fiber/middleware"
	"github.com/carboniq/server/internal/domain"
	"github.com/carboniq/server/internal/ports"
	"github.com/carboniq/server/internal/service/report"
)

type ReportHandler struct {
	service ports.ReportService
	log     *zap.Logger
}

func NewReportHandler(service ports.ReportService, log *zap.Logger) *ReportHandler {
	return &ReportHandler{
		service: service,
		log:     log,
	}
}

// Generate renders a report and streams it back as a download.
func (h *ReportHandler) Generate(c *fiber.Ctx) error {
	var req domain.ReportRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	file, err := h.service.Generate(c.Context(), middleware.OrgID(c), middleware.UserID(c), req)
	if err != nil {
		if errors.Is(err, report.ErrInvalidRequest) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		h.log.Error("Report generation failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Report generation failed"})
	}

	c.Set(fiber.HeaderContentType, file.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", file.Filename))
	return c.Send(file.Data)
}

func (h *ReportHandler) List(c *fiber.Ctx) error {
	reports, err := h.service.List(c.Context(), middleware.OrgID(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(reports)
}
