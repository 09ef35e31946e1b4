package controllers

import (
	"net/http"

	"shepherd/internal/api/middleware"
	"shepherd/internal/authz"
	"shepherd/internal/services"
	"shepherd/internal/tasks"

	"github.com/labstack/echo/v4"
)

// ReportController exports attendance reports. Synchronous export renders
// and uploads the CSV inline; the async variant hands the work to the
// task queue and returns immediately.
type ReportController struct {
	reports  *services.ReportService
	resolver *authz.Resolver
	tasks    *tasks.TaskClient
}

func NewReportController(reports *services.ReportService, resolver *authz.Resolver, taskClient *tasks.TaskClient) *ReportController {
	return &ReportController{
		reports:  reports,
		resolver: resolver,
		tasks:    taskClient,
	}
}

// ExportAttendance godoc
// @Summary Export an event's attendance as CSV and return a signed URL
// @Tags reports
// @Param eventId path string true "Event ID"
// @Success 200 {object} map[string]string
// @Router /reports/attendance/{eventId}/export [get]
func (c *ReportController) ExportAttendance(ctx echo.Context) error {
	actor := middleware.GetActor(ctx)
	scope, err := c.resolver.ResolveScope(ctx.Request().Context(), actor.ID, actor.Role)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to resolve data scope")
	}

	url, err := c.reports.ExportAttendanceCSV(ctx.Request().Context(), ctx.Param("eventId"), scope, actor)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, map[string]string{"url": url})
}

// EnqueueAttendance godoc
// @Summary Queue an attendance report export for background processing
// @Tags reports
// @Param eventId path string true "Event ID"
// @Success 202 {object} map[string]string
// @Router /reports/attendance/{eventId} [post]
func (c *ReportController) EnqueueAttendance(ctx echo.Context) error {
	actor := middleware.GetActor(ctx)
	err := c.tasks.EnqueueAttendanceReport(tasks.AttendanceReportPayload{
		EventID: ctx.Param("eventId"),
		ActorID: actor.ID,
		Role:    string(actor.Role),
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to enqueue report")
	}

	return ctx.JSON(http.StatusAccepted, map[string]string{
		"eventId": ctx.Param("eventId"),
		"status":  "queued",
	})
}

func (c *ReportController) RegisterRoutes(g *echo.Group) {
	g.GET("/attendance/:eventId/export", c.ExportAttendance)
	g.POST("/attendance/:eventId", c.EnqueueAttendance)
}
