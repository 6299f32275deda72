package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/oreshkin/stockwise/internal/cart"
	"github.com/oreshkin/stockwise/internal/entity"
	"github.com/oreshkin/stockwise/internal/repository"
	"github.com/oreshkin/stockwise/internal/service"
)

// OrderHandler serves procurement orders and their lifecycle.
type OrderHandler struct {
	svc   *service.OrderService
	carts *cart.Store
}

func NewOrderHandler(svc *service.OrderService, carts *cart.Store) *OrderHandler {
	return &OrderHandler{svc: svc, carts: carts}
}

type checkoutRequest struct {
	Notes string `json:"notes"`
}

// Checkout handles POST /api/v1/orders: the user's cart becomes a
// pending order and the cart is cleared.
func (h *OrderHandler) Checkout(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		BadRequest(c, "invalid order payload")
		return
	}

	userID := GetUserID(c)
	cartState, err := h.carts.Get(c.Request.Context(), userID)
	if err != nil {
		ServiceError(c, err)
		return
	}

	order, err := h.svc.Checkout(c.Request.Context(), userID, GetUserEmail(c), cartState.Items, req.Notes)
	if err != nil {
		ServiceError(c, err)
		return
	}

	// The order is already placed; a stale cart is recoverable.
	_ = h.carts.Clear(c.Request.Context(), userID)
	Created(c, order)
}

// List handles GET /api/v1/orders. Regular admins see their own
// orders; superadmins see everyone's and may filter by user_id.
func (h *OrderHandler) List(c *gin.Context) {
	page, pageSize := GetPagination(c)
	params := repository.OrderListParams{
		Status: c.Query("status"),
		Page:   page,
		Size:   pageSize,
	}

	if c.GetString("role") == entity.RoleSuperAdmin {
		params.UserID = c.Query("user_id")
	} else {
		params.UserID = GetUserID(c)
	}

	orders, total, err := h.svc.List(c.Request.Context(), params)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, ListResponse{
		Items:      orders,
		Pagination: NewPagination(page, pageSize, total),
	})
}

// Get handles GET /api/v1/orders/:id. Non-superadmins can only read
// their own orders.
func (h *OrderHandler) Get(c *gin.Context) {
	order, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		ServiceError(c, err)
		return
	}
	if c.GetString("role") != entity.RoleSuperAdmin && order.UserID != GetUserID(c) {
		Forbidden(c, "not your order")
		return
	}
	Success(c, order)
}

type changeStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ChangeStatus handles PATCH /api/v1/orders/:id/status. Moving to
// completed triggers inventory reconciliation.
func (h *OrderHandler) ChangeStatus(c *gin.Context) {
	var req changeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "status is required")
		return
	}

	result, err := h.svc.ChangeStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		ServiceError(c, err)
		return
	}
	if result != nil {
		Success(c, result)
		return
	}

	order, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, order)
}

// Complete handles POST /api/v1/orders/:id/complete.
func (h *OrderHandler) Complete(c *gin.Context) {
	result, err := h.svc.CompleteOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, result)
}

type updateNotesRequest struct {
	Notes string `json:"notes"`
}

// UpdateNotes handles PUT /api/v1/orders/:id/notes.
func (h *OrderHandler) UpdateNotes(c *gin.Context) {
	var req updateNotesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid notes payload")
		return
	}

	if err := h.svc.UpdateNotes(c.Request.Context(), c.Param("id"), req.Notes); err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, nil)
}

// Edit handles PUT /api/v1/orders/:id. Superadmin only; replaces the
// line set and writes edited rates back to the catalog.
func (h *OrderHandler) Edit(c *gin.Context) {
	var req service.EditOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid order payload: "+err.Error())
		return
	}

	order, err := h.svc.Edit(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, order)
}
