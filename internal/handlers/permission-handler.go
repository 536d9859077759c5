package handlers

import (
	"tenancy-service/internal/roles"
	"tenancy-service/internal/service"

	"github.com/gofiber/fiber/v3"
)

type PermissionHandler struct {
	permissionService *service.PermissionService
	roleModel         *roles.Model
}

func NewPermissionHandler(permissionService *service.PermissionService, roleModel *roles.Model) *PermissionHandler {
	return &PermissionHandler{
		permissionService: permissionService,
		roleModel:         roleModel,
	}
}

func (h *PermissionHandler) RegisterRoutes(app *fiber.App) {
	app.Get("/protected/tenancy/capabilities", h.GetCapabilities)
}

// GetCapabilities returns the caller's effective capability set. Downstream
// feature modules call this before rendering actions.
func (h *PermissionHandler) GetCapabilities(c fiber.Ctx) error {
	actor := actorFromRequest(c, h.roleModel)

	if actor.UserID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "User identity is required",
		})
	}

	caps := h.permissionService.ResolveFor(c.Context(), actor.UserID)

	return c.JSON(fiber.Map{
		"data": caps,
	})
}
