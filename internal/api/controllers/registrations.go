package controllers

import (
	"net/http"

	"shepherd/internal/api/middleware"
	"shepherd/internal/api/validator"
	"shepherd/internal/services"

	"github.com/labstack/echo/v4"
)

// RegistrationController creates event registrations, singly and in bulk.
type RegistrationController struct {
	registrations *services.RegistrationService
}

func NewRegistrationController(registrations *services.RegistrationService) *RegistrationController {
	return &RegistrationController{registrations: registrations}
}

// Register godoc
// @Summary Register a member or visitor for an event
// @Tags registrations
// @Param id path string true "Event ID"
// @Param request body validator.RegisterRequest true "Exactly one of memberId or visitorId"
// @Success 201 {object} models.EventRegistration
// @Router /events/{id}/registrations [post]
func (c *RegistrationController) Register(ctx echo.Context) error {
	var req validator.RegisterRequest
	if err := ctx.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := ctx.Validate(&req); err != nil {
		return err
	}

	registration, err := c.registrations.Register(
		ctx.Request().Context(),
		ctx.Param("id"),
		services.RegistrationCandidate{
			MemberID:  req.MemberID,
			VisitorID: req.VisitorID,
			Notes:     req.Notes,
		},
		middleware.GetActor(ctx),
	)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusCreated, registration)
}

// BulkRegister godoc
// @Summary Register a batch of members and visitors for an event
// @Tags registrations
// @Param id path string true "Event ID"
// @Param request body validator.BulkRegisterRequest true "Registration candidates"
// @Success 200 {object} services.BulkRegistrationResult
// @Router /events/{id}/registrations/bulk [post]
func (c *RegistrationController) BulkRegister(ctx echo.Context) error {
	var req validator.BulkRegisterRequest
	if err := ctx.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := ctx.Validate(&req); err != nil {
		return err
	}

	candidates := make([]services.RegistrationCandidate, 0, len(req.Candidates))
	for _, cand := range req.Candidates {
		candidates = append(candidates, services.RegistrationCandidate{
			MemberID:  cand.MemberID,
			VisitorID: cand.VisitorID,
			Notes:     cand.Notes,
		})
	}

	result, err := c.registrations.BulkRegister(ctx.Request().Context(), ctx.Param("id"), candidates, middleware.GetActor(ctx))
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, result)
}

func (c *RegistrationController) RegisterRoutes(g *echo.Group) {
	g.POST("/:id/registrations", c.Register)
	g.POST("/:id/registrations/bulk", c.BulkRegister)
}
