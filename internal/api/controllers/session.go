package controllers

import (
	"net/http"

	"shepherd/internal/api/middleware"
	"shepherd/internal/authz"
	"shepherd/internal/models"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// SessionController reports who the caller is and what they may touch.
// The frontend drives its navigation off this payload.
type SessionController struct {
	db       *gorm.DB
	resolver *authz.Resolver
}

func NewSessionController(db *gorm.DB, resolver *authz.Resolver) *SessionController {
	return &SessionController{db: db, resolver: resolver}
}

// Me godoc
// @Summary Describe the caller's profile, modules and data scope
// @Tags session
// @Success 200 {object} map[string]interface{}
// @Router /me [get]
func (c *SessionController) Me(ctx echo.Context) error {
	actor := middleware.GetActor(ctx)

	user, err := models.GetUserByID(actor.ID, c.db)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "user not found")
	}

	scope, err := c.resolver.ResolveScope(ctx.Request().Context(), actor.ID, actor.Role)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to resolve data scope")
	}

	return ctx.JSON(http.StatusOK, map[string]interface{}{
		"user":          user,
		"modules":       authz.AccessibleModules(actor.Role),
		"landingModule": authz.DefaultLandingModule(actor.Role),
		"canWrite":      authz.CanWriteAny(actor.Role),
		"scope": map[string]interface{}{
			"unrestricted": scope.Unrestricted,
			"churchIds":    scope.ChurchIDs,
		},
	})
}

func (c *SessionController) RegisterRoutes(g *echo.Group) {
	g.GET("/me", c.Me)
}
