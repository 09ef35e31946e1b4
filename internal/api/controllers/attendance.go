package controllers

import (
	"net/http"

	"shepherd/internal/api/middleware"
	"shepherd/internal/api/validator"
	"shepherd/internal/authz"
	"shepherd/internal/models"
	"shepherd/internal/services"

	"github.com/labstack/echo/v4"
)

// AttendanceController exposes the confirmation workflow over registrations:
// single and bulk confirmation, cancellation, deletion and the event-level
// finalize that locks attendance.
type AttendanceController struct {
	attendance *services.AttendanceService
}

func NewAttendanceController(attendance *services.AttendanceService) *AttendanceController {
	return &AttendanceController{attendance: attendance}
}

// Confirm godoc
// @Summary Confirm attendance for a single registration
// @Tags attendance
// @Param id path string true "Registration ID"
// @Param request body validator.ConfirmRequest true "Target status"
// @Success 200 {object} models.EventRegistration
// @Router /attendance/registrations/{id}/confirm [post]
func (c *AttendanceController) Confirm(ctx echo.Context) error {
	var req validator.ConfirmRequest
	if err := ctx.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := ctx.Validate(&req); err != nil {
		return err
	}

	registration, err := c.attendance.Confirm(
		ctx.Request().Context(),
		ctx.Param("id"),
		models.RegistrationStatus(req.Status),
		middleware.GetActor(ctx),
	)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, registration)
}

// ConfirmBulk godoc
// @Summary Confirm attendance for a batch of registrations
// @Tags attendance
// @Param request body validator.BulkConfirmRequest true "Registration IDs and target status"
// @Success 200 {object} services.BulkResult[*models.EventRegistration]
// @Router /attendance/confirm-bulk [post]
func (c *AttendanceController) ConfirmBulk(ctx echo.Context) error {
	var req validator.BulkConfirmRequest
	if err := ctx.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := ctx.Validate(&req); err != nil {
		return err
	}

	result, err := c.attendance.ConfirmBulk(
		ctx.Request().Context(),
		req.RegistrationIDs,
		models.RegistrationStatus(req.Status),
		middleware.GetActor(ctx),
	)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, result)
}

// Finalize godoc
// @Summary Finalize attendance for an event and lock its registrations
// @Tags attendance
// @Param eventId path string true "Event ID"
// @Success 200 {object} map[string]interface{}
// @Router /attendance/events/{eventId}/finalize [post]
func (c *AttendanceController) Finalize(ctx echo.Context) error {
	finalized, err := c.attendance.Finalize(ctx.Request().Context(), ctx.Param("eventId"), middleware.GetActor(ctx))
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, map[string]interface{}{
		"eventId":   ctx.Param("eventId"),
		"finalized": finalized,
	})
}

// Cancel godoc
// @Summary Cancel a registration
// @Tags attendance
// @Param id path string true "Registration ID"
// @Param request body validator.CancelRequest false "Optional reason"
// @Success 200 {object} models.EventRegistration
// @Router /attendance/registrations/{id}/cancel [post]
func (c *AttendanceController) Cancel(ctx echo.Context) error {
	var req validator.CancelRequest
	if err := ctx.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := ctx.Validate(&req); err != nil {
		return err
	}

	registration, err := c.attendance.Cancel(ctx.Request().Context(), ctx.Param("id"), req.Reason, middleware.GetActor(ctx))
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, registration)
}

// Delete godoc
// @Summary Delete a registration that never attended
// @Tags attendance
// @Param id path string true "Registration ID"
// @Success 204
// @Router /attendance/registrations/{id} [delete]
func (c *AttendanceController) Delete(ctx echo.Context) error {
	if err := c.attendance.Delete(ctx.Request().Context(), ctx.Param("id"), middleware.GetActor(ctx)); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (c *AttendanceController) RegisterRoutes(g *echo.Group) {
	g.POST("/registrations/:id/confirm", c.Confirm)
	g.POST("/confirm-bulk", c.ConfirmBulk)
	g.POST("/events/:eventId/finalize", c.Finalize,
		middleware.RequireRole(authz.RoleSuperAdmin, authz.RoleCoordinator))
	g.POST("/registrations/:id/cancel", c.Cancel)
	g.DELETE("/registrations/:id", c.Delete)
}
