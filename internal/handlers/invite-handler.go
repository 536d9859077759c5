package handlers

import (
	"log"
	"strconv"

	"tenancy-service/internal/roles"
	"tenancy-service/internal/service"

	"github.com/gofiber/fiber/v3"
)

type InviteHandler struct {
	inviteService *service.InviteService
	roleModel     *roles.Model
}

func NewInviteHandler(inviteService *service.InviteService, roleModel *roles.Model) *InviteHandler {
	return &InviteHandler{
		inviteService: inviteService,
		roleModel:     roleModel,
	}
}

func (h *InviteHandler) RegisterRoutes(app *fiber.App) {
	// Pre-flight check and redemption are reached during onboarding, before
	// the gateway can attach a full identity.
	app.Get("/tenancy/invites/:code", h.CheckInvite)
	app.Post("/tenancy/invites/:code/consume", h.ConsumeInvite)

	inviteGroup := app.Group("/protected/tenancy/invites")
	inviteGroup.Post("/", h.CreateInvite)
	inviteGroup.Get("/", h.ListInvites)
}

func (h *InviteHandler) CreateInvite(c fiber.Ctx) error {
	actor := actorFromRequest(c, h.roleModel)

	var request struct {
		TenantID            string   `json:"tenantId"`
		TargetRole          string   `json:"targetRole"`
		AssignedResourceIDs []string `json:"assignedResourceIds"`
	}

	if err := c.Bind().Body(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if request.TenantID == "" || request.TargetRole == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Tenant ID and target role are required",
		})
	}

	code, err := h.inviteService.CreateInvite(c.Context(), actor, request.TenantID, request.TargetRole, request.AssignedResourceIDs)
	if err != nil {
		return errorResponse(c, err)
	}

	log.Printf("User %s issued invite for tenant %s role %s", actor.UserID, request.TenantID, request.TargetRole)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{
			"code": code,
		},
	})
}

func (h *InviteHandler) ConsumeInvite(c fiber.Ctx) error {
	code := c.Params("code")

	var request struct {
		ConsumerID string `json:"consumerId"`
	}

	if err := c.Bind().Body(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if request.ConsumerID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Consumer ID is required",
		})
	}

	if err := h.inviteService.ConsumeInvite(c.Context(), code, request.ConsumerID); err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Invite redeemed successfully",
	})
}

func (h *InviteHandler) CheckInvite(c fiber.Ctx) error {
	code := c.Params("code")

	check, err := h.inviteService.CheckInvite(c.Context(), code)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(fiber.Map{
		"data": check,
	})
}

func (h *InviteHandler) ListInvites(c fiber.Ctx) error {
	actor := actorFromRequest(c, h.roleModel)

	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.Query("limit", "10"))
	if err != nil || limit < 1 {
		limit = 10
	}

	invites, err := h.inviteService.ListInvites(c.Context(), actor, page, limit)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(fiber.Map{
		"data": invites,
	})
}
