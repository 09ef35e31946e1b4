package controllers

import (
	"net/http"

	"shepherd/internal/api/middleware"
	"shepherd/internal/api/validator"
	"shepherd/internal/services"

	"github.com/labstack/echo/v4"
)

// TransferController drives the member transfer lifecycle: request,
// bulk request, approve and reject.
type TransferController struct {
	transfers *services.TransferService
}

func NewTransferController(transfers *services.TransferService) *TransferController {
	return &TransferController{transfers: transfers}
}

// Create godoc
// @Summary Request a member transfer to another church
// @Tags transfers
// @Param request body validator.CreateTransferRequest true "Member and destination church"
// @Success 201 {object} models.TransferRequest
// @Router /transfers [post]
func (c *TransferController) Create(ctx echo.Context) error {
	var req validator.CreateTransferRequest
	if err := ctx.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := ctx.Validate(&req); err != nil {
		return err
	}

	transfer, err := c.transfers.Create(ctx.Request().Context(), req.MemberID, req.ToChurchID, req.Reason, middleware.GetActor(ctx))
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusCreated, transfer)
}

// CreateBulk godoc
// @Summary Request transfers for a batch of members
// @Tags transfers
// @Param request body validator.BulkTransferRequest true "Members and destination church"
// @Success 200 {object} services.BulkResult[*models.TransferRequest]
// @Router /transfers/bulk [post]
func (c *TransferController) CreateBulk(ctx echo.Context) error {
	var req validator.BulkTransferRequest
	if err := ctx.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := ctx.Validate(&req); err != nil {
		return err
	}

	result, err := c.transfers.CreateBulk(ctx.Request().Context(), req.MemberIDs, req.ToChurchID, req.Reason, middleware.GetActor(ctx))
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, result)
}

// Approve godoc
// @Summary Approve a pending transfer and move the member
// @Tags transfers
// @Param id path string true "Transfer ID"
// @Success 200 {object} models.TransferRequest
// @Router /transfers/{id}/approve [post]
func (c *TransferController) Approve(ctx echo.Context) error {
	transfer, err := c.transfers.Approve(ctx.Request().Context(), ctx.Param("id"), middleware.GetActor(ctx))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, transfer)
}

// Reject godoc
// @Summary Reject a pending transfer with a mandatory reason
// @Tags transfers
// @Param id path string true "Transfer ID"
// @Param request body validator.RejectTransferRequest true "Rejection reason, at least 10 characters"
// @Success 200 {object} models.TransferRequest
// @Router /transfers/{id}/reject [post]
func (c *TransferController) Reject(ctx echo.Context) error {
	var req validator.RejectTransferRequest
	if err := ctx.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := ctx.Validate(&req); err != nil {
		return err
	}

	transfer, err := c.transfers.Reject(ctx.Request().Context(), ctx.Param("id"), req.Reason, middleware.GetActor(ctx))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, transfer)
}

func (c *TransferController) RegisterRoutes(g *echo.Group) {
	g.POST("", c.Create)
	g.POST("/bulk", c.CreateBulk)
	g.POST("/:id/approve", c.Approve)
	g.POST("/:id/reject", c.Reject)
}
