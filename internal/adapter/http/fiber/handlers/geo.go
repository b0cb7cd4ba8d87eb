package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/carboniq/server/internal/ports"
)

type GeoHandler struct {
	geo ports.GeoService
	log *zap.Logger
}

func NewGeoHandler(geo ports.GeoService, log *zap.Logger) *GeoHandler {
	return &GeoHandler{
		geo: geo,
		log: log,
	}
}

// Regions returns the global per-region emission dataset for the map view.
func (h *GeoHandler) Regions(c *fiber.Ctx) error {
	regions, err := h.geo.RegionEmissions(c.Context())
	if err != nil {
		h.log.Error("Region dataset unavailable", zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Region dataset unavailable"})
	}
	return c.JSON(regions)
}
