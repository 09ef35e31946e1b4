package registry

import (
	"github.com/labstack/echo/v4"

	"shepherd/internal/api/controllers"
	"shepherd/internal/api/middleware"
	"shepherd/internal/authz"
	"shepherd/internal/models"
	"shepherd/internal/services"

	"gorm.io/gorm"
)

// RegisterCRUDRoutes registers CRUD routes for the organizational and people
// models. Each group is gated on its module: read access to enter, write
// access for mutating methods. Fields and districts ride on the churches
// module since they form the same organizational tree.
func RegisterCRUDRoutes(g *echo.Group, db *gorm.DB, resolver *authz.Resolver) {
	// Organizational tree
	fieldService := services.NewBaseService(db, models.Field{})
	fieldController := controllers.NewBaseController(fieldService, resolver)
	fieldGroup := g.Group("/fields")
	fieldGroup.Use(middleware.RequireModule(authz.ModuleChurches))
	fieldController.RegisterRoutes(fieldGroup, "")

	districtService := services.NewBaseService(db, models.District{})
	districtController := controllers.NewBaseController(districtService, resolver)
	districtGroup := g.Group("/districts")
	districtGroup.Use(middleware.RequireModule(authz.ModuleChurches))
	districtController.RegisterRoutes(districtGroup, "")

	churchService := services.NewBaseService(db, models.Church{})
	churchController := controllers.NewBaseController(churchService, resolver)
	churchGroup := g.Group("/churches")
	churchGroup.Use(middleware.RequireModule(authz.ModuleChurches))
	churchController.RegisterRoutes(churchGroup, "")

	// People
	memberService := services.NewBaseService(db, models.Member{})
	memberController := controllers.NewBaseController(memberService, resolver)
	memberGroup := g.Group("/members")
	memberGroup.Use(middleware.RequireModule(authz.ModuleMembers))
	memberController.RegisterRoutes(memberGroup, "")

	visitorService := services.NewBaseService(db, models.Visitor{})
	visitorController := controllers.NewBaseController(visitorService, resolver)
	visitorGroup := g.Group("/visitors")
	visitorGroup.Use(middleware.RequireModule(authz.ModuleVisitors))
	visitorController.RegisterRoutes(visitorGroup, "")

	// Events
	eventService := services.NewBaseService(db, models.Event{})
	eventController := controllers.NewBaseController(eventService, resolver)
	eventGroup := g.Group("/events")
	eventGroup.Use(middleware.RequireModule(authz.ModuleEvents))
	eventController.RegisterRoutes(eventGroup, "")

	// Users
	userService := services.NewBaseService(db, models.User{})
	userController := controllers.NewBaseController(userService, resolver)
	userGroup := g.Group("/users")
	userGroup.Use(middleware.RequireModule(authz.ModuleUsers))
	userController.RegisterRoutes(userGroup, "")

	// Registration reads live under the attendance module; creation and the
	// confirmation workflow are registered separately with their own guards.
	registrationService := services.NewBaseService(db, models.EventRegistration{})
	registrationController := controllers.NewBaseController(registrationService, resolver)
	registrationGroup := g.Group("/registrations")
	registrationGroup.Use(middleware.RequireModule(authz.ModuleAttendance))
	registrationController.RegisterRoutes(registrationGroup, "", "GET")
}
