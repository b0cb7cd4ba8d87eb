package handlers

import (
	"errors"
	"io"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/carboniq/server/internal/adapter/http/fiber/middleware"
	"github.com/carboniq/server/internal/ports"
	"github.com/carboniq/server/internal/service/ingest"
)

type EmissionHandler struct {
	sources ports.SourceRepository
	records ports.EmissionRepository
	ingest  ports.IngestService
	log     *zap.Logger
}

func NewEmissionHandler(sources ports.SourceRepository, records ports.EmissionRepository, ingestSvc ports.IngestService, log *zap.Logger) *EmissionHandler {
	return &EmissionHandler{
		sources: sources,
		records: records,
		ingest:  ingestSvc,
		log:     log,
	}
}

func (h *EmissionHandler) ListSources(c *fiber.Ctx) error {
	sources, err := h.sources.FindAll(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(sources)
}

func (h *EmissionHandler) ListRecords(c *fiber.Ctx) error {
	records, err := h.records.FindJoined(c.Context(), middleware.OrgID(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(records)
}

func (h *EmissionHandler) GetRecord(c *fiber.Ctx) error {
	record, err := h.records.FindByID(c.Context(), c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if record == nil || record.OrganizationID != middleware.OrgID(c) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Record not found"})
	}
	return c.JSON(record)
}

// UploadFile ingests a delimited file posted as multipart form field "file".
func (h *EmissionHandler) UploadFile(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "A file upload is required"})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Failed to open upload"})
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Failed to read upload"})
	}

	result, err := h.ingest.IngestFile(c.Context(), middleware.OrgID(c), middleware.UserID(c), content)
	if err != nil {
		return h.ingestError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(result)
}

type DatasetRequest struct {
	Dataset string `json:"dataset"`
}

// IngestDataset loads one of the predefined headerless sample blocks.
func (h *EmissionHandler) IngestDataset(c *fiber.Ctx) error {
	var req DatasetRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.Dataset == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Dataset content is required"})
	}

	result, err := h.ingest.IngestDataset(c.Context(), middleware.OrgID(c), middleware.UserID(c), req.Dataset)
	if err != nil {
		return h.ingestError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(result)
}

func (h *EmissionHandler) CreateManual(c *fiber.Ctx) error {
	var entry ports.ManualEntry
	if err := c.BodyParser(&entry); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	record, err := h.ingest.IngestManual(c.Context(), middleware.OrgID(c), middleware.UserID(c), entry)
	if err != nil {
		return h.ingestError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(record)
}

func (h *EmissionHandler) ingestError(c *fiber.Ctx, err error) error {
	if errors.Is(err, ingest.ErrNoRecords) || errors.Is(err, ingest.ErrUnknownSource) || errors.Is(err, ingest.ErrInvalidAmount) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	}
	h.log.Error("Ingestion failed", zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
}
