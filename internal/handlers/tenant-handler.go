package handlers

import (
	"log"

	"tenancy-service/internal/roles"
	"tenancy-service/internal/service"

	"github.com/gofiber/fiber/v3"
)

type TenantHandler struct {
	tenantService *service.TenantService
	auditService  *service.AuditService
	roleModel     *roles.Model
}

func NewTenantHandler(tenantService *service.TenantService, auditService *service.AuditService, roleModel *roles.Model) *TenantHandler {
	return &TenantHandler{
		tenantService: tenantService,
		auditService:  auditService,
		roleModel:     roleModel,
	}
}

func (h *TenantHandler) RegisterRoutes(app *fiber.App) {
	tenantGroup := app.Group("/protected/tenancy/tenants")
	tenantGroup.Delete("/:id", h.PurgeTenant)
	tenantGroup.Post("/:id/restore", h.RestoreTenant)

	// Scheduler contract: invoked on a fixed period by the external
	// scheduler, also triggerable by an operator.
	app.Post("/protected/tenancy/sweep", h.Sweep)
}

func (h *TenantHandler) PurgeTenant(c fiber.Ctx) error {
	actor := actorFromRequest(c, h.roleModel)
	tenantID := c.Params("id")

	var request struct {
		ConfirmName  string `json:"confirmName"`
		Mode         string `json:"mode"`
		IncludeUsers bool   `json:"includeUsers"`
	}

	if err := c.Bind().Body(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if request.ConfirmName == "" || request.Mode == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Confirmation name and mode are required",
		})
	}

	log.Printf("User %s requested %s purge of tenant %s", actor.UserID, request.Mode, tenantID)

	outcome, err := h.tenantService.PurgeTenant(c.Context(), actor, tenantID, request.ConfirmName, request.Mode, request.IncludeUsers)
	if err != nil {
		// A mid-purge failure still reports how far it got.
		if outcome != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "PURGE_INCOMPLETE",
				"data":  outcome,
			})
		}
		return errorResponse(c, err)
	}

	return c.JSON(fiber.Map{
		"data": outcome,
	})
}

func (h *TenantHandler) RestoreTenant(c fiber.Ctx) error {
	actor := actorFromRequest(c, h.roleModel)
	tenantID := c.Params("id")

	if err := h.tenantService.RestoreTenant(c.Context(), actor, tenantID); err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Tenant restored successfully",
	})
}

func (h *TenantHandler) Sweep(c fiber.Ctx) error {
	if err := h.tenantService.SweepPendingDeletions(c.Context()); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Sweep failed",
		})
	}

	redelivered := h.auditService.FlushUndelivered(c.Context())

	return c.JSON(fiber.Map{
		"message":           "Sweep completed",
		"alertsRedelivered": redelivered,
	})
}
