package controllers

import (
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"shepherd/internal/api/middleware"
	"shepherd/internal/authz"
	"shepherd/internal/models"
	"shepherd/internal/services"

	"github.com/labstack/echo/v4"
)

// BaseController provides generic CRUD operations for any model. Every
// handler resolves the caller's church scope and enforces it, so a scoped
// role can never read or write rows outside its churches.
type BaseController[T any] struct {
	service  services.BaseService[T]
	resolver *authz.Resolver
}

// NewBaseController creates a new base controller
func NewBaseController[T any](service services.BaseService[T], resolver *authz.Resolver) *BaseController[T] {
	return &BaseController[T]{
		service:  service,
		resolver: resolver,
	}
}

// parseIncludes parses the include query parameter and returns a slice of relationships to preload
func parseIncludes(ctx echo.Context) []string {
	include := ctx.QueryParam("include")
	if include == "" {
		return nil
	}
	return strings.Split(include, ",")
}

func (c *BaseController[T]) resolveScope(ctx echo.Context) (authz.Scope, error) {
	actor := middleware.GetActor(ctx)
	scope, err := c.resolver.ResolveScope(ctx.Request().Context(), actor.ID, actor.Role)
	if err != nil {
		return authz.Scope{}, echo.NewHTTPError(http.StatusInternalServerError, "failed to resolve data scope")
	}
	return scope, nil
}

// entityChurchID pulls the church key off a model. A church row is keyed by
// its own id; other models carry a ChurchID field. Models with neither are
// not scope-filtered.
func entityChurchID(entity any) (string, bool) {
	v := reflect.ValueOf(entity)
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return "", false
		}
		v = v.Elem()
	}
	if church, ok := v.Interface().(models.Church); ok {
		return church.ID, true
	}
	field := v.FieldByName("ChurchID")
	if !field.IsValid() || field.Kind() != reflect.String {
		return "", false
	}
	return field.String(), true
}

func scopeAllows(entity any, scope authz.Scope) bool {
	churchID, ok := entityChurchID(entity)
	if !ok || churchID == "" {
		return true
	}
	return scope.Contains(churchID)
}

// Create handles creation of new entities
func (c *BaseController[T]) Create(ctx echo.Context) error {
	var entity T
	if err := ctx.Bind(&entity); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body "+err.Error())
	}

	if err := ctx.Validate(&entity); err != nil {
		return err
	}

	scope, err := c.resolveScope(ctx)
	if err != nil {
		return err
	}
	if !scopeAllows(&entity, scope) {
		return echo.NewHTTPError(http.StatusForbidden, "church outside caller scope")
	}

	includes := parseIncludes(ctx)
	if err := c.service.Create(ctx.Request().Context(), &entity, includes...); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return ctx.JSON(http.StatusCreated, entity)
}

// Get handles retrieval of a single entity
func (c *BaseController[T]) Get(ctx echo.Context) error {
	id := ctx.Param("id")
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing id parameter")
	}
	includes := parseIncludes(ctx)
	entity, err := c.service.Get(ctx.Request().Context(), id, includes...)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "entity not found")
	}

	scope, scopeErr := c.resolveScope(ctx)
	if scopeErr != nil {
		return scopeErr
	}
	if !scopeAllows(entity, scope) {
		// Out-of-scope rows look like missing rows
		return echo.NewHTTPError(http.StatusNotFound, "entity not found")
	}

	return ctx.JSON(http.StatusOK, entity)
}

// List handles retrieval of multiple entities with pagination and filtering
func (c *BaseController[T]) List(ctx echo.Context) error {
	page, _ := strconv.Atoi(ctx.QueryParam("page"))
	limit, _ := strconv.Atoi(ctx.QueryParam("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	// Parse filters from query parameters
	filters := make(map[string]interface{})
	for key, values := range ctx.QueryParams() {
		if key != "page" && key != "limit" && key != "include" && key != "sort" && key != "order" && len(values) > 0 {
			filters[key] = values[0]
		}
	}

	includes := parseIncludes(ctx)

	sort := ctx.QueryParam("sort")
	order := ctx.QueryParam("order")
	var sortFields []string
	if sort != "" {
		var entity T
		entityType := reflect.TypeOf(entity)
		for _, field := range strings.Split(sort, ",") {
			if _, found := entityType.FieldByName(field); found {
				sortFields = append(sortFields, field)
			}
		}
	}

	scope, err := c.resolveScope(ctx)
	if err != nil {
		return err
	}

	entities, total, listErr := c.service.List(ctx.Request().Context(), scope, page, limit, filters, sortFields, order, includes...)
	if listErr != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, listErr.Error())
	}

	return ctx.JSON(http.StatusOK, map[string]interface{}{
		"data":  entities,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

// Update handles updating an existing entity
func (c *BaseController[T]) Update(ctx echo.Context) error {
	id := ctx.Param("id")
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing id parameter")
	}

	scope, err := c.resolveScope(ctx)
	if err != nil {
		return err
	}

	// The row must be in scope before the update is applied
	existing, getErr := c.service.Get(ctx.Request().Context(), id)
	if getErr != nil {
		return echo.NewHTTPError(http.StatusNotFound, "entity not found")
	}
	if !scopeAllows(existing, scope) {
		return echo.NewHTTPError(http.StatusNotFound, "entity not found")
	}

	var entity T
	if err := ctx.Bind(&entity); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := ctx.Validate(&entity); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if !scopeAllows(&entity, scope) {
		return echo.NewHTTPError(http.StatusForbidden, "church outside caller scope")
	}

	includes := parseIncludes(ctx)
	if err := c.service.Update(ctx.Request().Context(), id, &entity, includes...); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return ctx.JSON(http.StatusOK, entity)
}

// Delete handles deletion of an entity
func (c *BaseController[T]) Delete(ctx echo.Context) error {
	id := ctx.Param("id")
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing id parameter")
	}

	scope, err := c.resolveScope(ctx)
	if err != nil {
		return err
	}
	existing, getErr := c.service.Get(ctx.Request().Context(), id)
	if getErr != nil {
		return echo.NewHTTPError(http.StatusNotFound, "entity not found")
	}
	if !scopeAllows(existing, scope) {
		return echo.NewHTTPError(http.StatusNotFound, "entity not found")
	}

	if err := c.service.Delete(ctx.Request().Context(), id); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return ctx.NoContent(http.StatusNoContent)
}

// RegisterRoutes registers CRUD routes for the controller
func (c *BaseController[T]) RegisterRoutes(g *echo.Group, path string, methods ...string) {
	if len(methods) == 0 {
		methods = []string{"POST", "GET", "PUT", "DELETE"}
	}

	for _, method := range methods {
		switch method {
		case "POST":
			g.POST(path, c.Create)
		case "GET":
			g.GET(path+"/:id", c.Get)
			g.GET(path, c.List)
		case "PUT":
			g.PUT(path+"/:id", c.Update)
		case "DELETE":
			g.DELETE(path+"/:id", c.Delete)
		}
	}
}
