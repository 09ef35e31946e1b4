package api

import (
	"net/http"

	"shepherd/internal/api/controllers"
	"shepherd/internal/api/middleware"
	"shepherd/internal/api/registry"
	"shepherd/internal/authz"
	"shepherd/internal/services"

	_ "shepherd/docs/swagger"

	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
)

func (s *Server) registerRoutes() {
	s.echo.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, "Shepherd API")
	})
	// Health check
	// @Summary Health check
	// @Description Check if the server is running
	// @Accept json
	// @Produce json
	// @Success 200 {object} map[string]string "OK"
	// @Router /health [get]
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/swagger/*", echoSwagger.WrapHandler)

	// API v1 group
	api := s.echo.Group("/api/v1")
	auth := middleware.NewAuthMiddleware(s.config.JWT.Secret)
	api.Use(auth.Middleware())

	// Register CRUD routes for all models
	registry.RegisterCRUDRoutes(api, s.db, s.resolver)

	// Session
	sessionController := controllers.NewSessionController(s.db, s.resolver)
	sessionController.RegisterRoutes(api)

	// Registration workflow
	registrationStore := services.NewGormRegistrationStore(s.db)
	eventLookup := services.NewGormEventLookup(s.db)

	registrationService := services.NewRegistrationService(registrationStore, eventLookup)
	registrationController := controllers.NewRegistrationController(registrationService)
	registrationGroup := api.Group("/events")
	registrationGroup.Use(middleware.RequireWrite(authz.ModuleEvents))
	registrationController.RegisterRoutes(registrationGroup)

	// Attendance workflow
	attendanceService := services.NewAttendanceService(registrationStore)
	attendanceController := controllers.NewAttendanceController(attendanceService)
	attendanceGroup := api.Group("/attendance")
	attendanceGroup.Use(middleware.RequireModule(authz.ModuleAttendance))
	attendanceController.RegisterRoutes(attendanceGroup)

	// Transfers
	transferService := services.NewTransferService(services.NewGormTransferStore(s.db))
	transferController := controllers.NewTransferController(transferService)
	transferGroup := api.Group("/transfers")
	transferGroup.Use(middleware.RequireModule(authz.ModuleTransfers))
	transferController.RegisterRoutes(transferGroup)

	// Reports
	reportService := services.NewReportService(s.db, s.uploader)
	reportController := controllers.NewReportController(reportService, s.resolver, s.tasks)
	reportGroup := api.Group("/reports")
	reportGroup.Use(middleware.RequireModule(authz.ModuleReports))
	reportController.RegisterRoutes(reportGroup)
}
