package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/carboniq/server/internal/adapter/http/fiber/middleware"
	"github.com/carboniq/server/internal/domain"
	"github.com/carboniq/server/internal/ports"
)

type OrganizationHandler struct {
	orgs     ports.OrganizationRepository
	users    ports.UserRepository
	identity ports.IdentityProvider
	log      *zap.Logger
}

func NewOrganizationHandler(orgs ports.OrganizationRepository, users ports.UserRepository, identity ports.IdentityProvider, log *zap.Logger) *OrganizationHandler {
	return &OrganizationHandler{
		orgs:     orgs,
		users:    users,
		identity: identity,
		log:      log,
	}
}

type AddMemberRequest struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (h *OrganizationHandler) Get(c *fiber.Ctx) error {
	org, err := h.orgs.FindByID(c.Context(), middleware.OrgID(c))
	if err != nil {
		h.log.Error("Failed to load organization", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load organization"})
	}
	if org == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Organization not found"})
	}

	return c.JSON(org)
}

func (h *OrganizationHandler) ListMembers(c *fiber.Ctx) error {
	members, err := h.orgs.FindMembers(c.Context(), middleware.OrgID(c))
	if err != nil {
		h.log.Error("Failed to list members", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to list members"})
	}

	return c.JSON(fiber.Map{
		"members": members,
		"count":   len(members),
	})
}

// AddMember attaches an existing user to the caller's organization. The user
// must have registered already; invitations by email are out of scope.
func (h *OrganizationHandler) AddMember(c *fiber.Ctx) error {
	var req AddMemberRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.Email == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Email is required"})
	}

	role := domain.MemberRole(req.Role)
	if role == "" {
		role = domain.MemberRoleMember
	}
	if role != domain.MemberRoleOwner && role != domain.MemberRoleMember {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "Unknown member role"})
	}

	orgID := middleware.OrgID(c)

	user, err := h.users.FindByEmail(c.Context(), req.Email)
	if err != nil {
		h.log.Error("Failed to look up user", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to look up user"})
	}
	if user == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "No user with that email"})
	}
	if user.OrganizationID == orgID {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "User is already a member"})
	}

	user.OrganizationID = orgID
	user.UpdatedAt = time.Now().UTC()
	if err := h.users.Save(c.Context(), user); err != nil {
		h.log.Error("Failed to move user into organization", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to add member"})
	}

	member := &domain.OrganizationMember{
		ID:             h.identity.NewID(),
		OrganizationID: orgID,
		UserID:         user.ID,
		Role:           role,
		CreatedAt:      time.Now().UTC(),
	}
	if err := h.orgs.AddMember(c.Context(), member); err != nil {
		h.log.Error("Failed to record membership", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to add member"})
	}

	h.log.Info("Member added",
		zap.String("org_id", orgID),
		zap.String("user_id", user.ID),
		zap.String("role", string(role)),
	)

	return c.Status(fiber.StatusCreated).JSON(member)
}
