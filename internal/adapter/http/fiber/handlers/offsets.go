package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/carboniq/server/internal/adapter/http/fiber/middleware"
	"github.com/carboniq/server/internal/domain"
	"github.com/carboniq/server/internal/service/offset"
)

type OffsetHandler struct {
	service *offset.Service
	log     *zap.Logger
}

func NewOffsetHandler(service *offset.Service, log *zap.Logger) *OffsetHandler {
	return &OffsetHandler{
		service: service,
		log:     log,
	}
}

// Estimate sizes offset actions for ?tonnes=<float>.
func (h *OffsetHandler) Estimate(c *fiber.Ctx) error {
	raw := c.Query("tonnes")
	if raw == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Query parameter tonnes is required"})
	}
	tonnes, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "tonnes must be a number"})
	}

	est, err := h.service.Estimate(domain.Tonnes(tonnes))
	if err != nil {
		if errors.Is(err, offset.ErrInvalidQuantity) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(est)
}

type DonationRequest struct {
	Tonnes float64 `json:"tonnes"`
}

func (h *OffsetHandler) CreateDonation(c *fiber.Ctx) error {
	var req DonationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	intentID, est, err := h.service.CreateDonation(c.Context(), middleware.UserID(c), domain.Tonnes(req.Tonnes))
	if err != nil {
		if errors.Is(err, offset.ErrInvalidQuantity) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		h.log.Error("Donation intent failed", zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Payment provider unavailable"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"payment_intent_id": intentID,
		"estimate":          est,
	})
}
