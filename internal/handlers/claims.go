package handlers

import (
	"fmt"
	"strings"

	"tenancy-service/internal/config"
	"tenancy-service/internal/models"
	"tenancy-service/internal/roles"

	"github.com/gofiber/fiber/v3"
	"github.com/golang-jwt/jwt/v5"
)

type actorClaims struct {
	jwt.RegisteredClaims
	Role     string `json:"role"`
	TenantID string `json:"tenantId"`
}

// actorFromRequest builds the request-scoped actor context from the identity
// provider's claims. Bearer token first, X-User-* headers from the gateway as
// fallback. The acting-as tenant is honored for top-tier actors only and
// lives nowhere but this context.
func actorFromRequest(c fiber.Ctx, roleModel *roles.Model) *models.ActorContext {
	actor := &models.ActorContext{
		UserID:   c.Get("X-User-ID"),
		Role:     c.Get("X-User-Role"),
		TenantID: c.Get("X-Tenant-ID"),
	}

	if header := c.Get("Authorization"); strings.HasPrefix(header, "Bearer ") {
		token := strings.TrimPrefix(header, "Bearer ")
		if claims, err := parseActorClaims(token); err == nil {
			actor.UserID = claims.Subject
			actor.Role = claims.Role
			actor.TenantID = claims.TenantID
		}
	}

	actor.Level = roleModel.LevelOf(actor.Role)

	if actingAs := c.Get("X-Acting-Tenant"); actingAs != "" && roleModel.IsTop(actor.Level) {
		actor.ActingAsTenant = actingAs
	}

	return actor
}

func parseActorClaims(token string) (*actorClaims, error) {
	claims := &actorClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(config.ServiceConfig.JWTSecret), nil
	})
	if err != nil {
		return nil, err
	}
	if !parsed.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}
