package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/oreshkin/stockwise/internal/cart"
	"github.com/oreshkin/stockwise/internal/entity"
	"github.com/oreshkin/stockwise/internal/service"
)

// CartHandler serves the per-user procurement cart.
type CartHandler struct {
	carts     *cart.Store
	inventory *service.InventoryService
}

func NewCartHandler(carts *cart.Store, inventory *service.InventoryService) *CartHandler {
	return &CartHandler{carts: carts, inventory: inventory}
}

// Get handles GET /api/v1/cart.
func (h *CartHandler) Get(c *gin.Context) {
	cartState, err := h.carts.Get(c.Request.Context(), GetUserID(c))
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, cartState)
}

type addToCartRequest struct {
	ItemID   string `json:"id" binding:"required"`
	Quantity int64  `json:"quantity" binding:"required"`
}

// Add handles POST /api/v1/cart/items. The line snapshot (name, serial,
// rate, stock) is taken from the catalog, not from the client.
func (h *CartHandler) Add(c *gin.Context) {
	var req addToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "id and quantity are required")
		return
	}
	if req.Quantity <= 0 {
		BadRequest(c, "quantity must be positive")
		return
	}

	item, err := h.inventory.Get(c.Request.Context(), req.ItemID)
	if err != nil {
		ServiceError(c, err)
		return
	}

	line := entity.CartLine{
		ItemID:       item.ID,
		ItemName:     item.Name,
		SerialNumber: item.SerialNumber,
		CategoryName: item.Category,
		Quantity:     req.Quantity,
		Rate:         item.Rate,
		Available:    item.Quantity,
	}

	cartState, warning, err := h.carts.Add(c.Request.Context(), GetUserID(c), line)
	if err != nil {
		ServiceError(c, err)
		return
	}

	data := gin.H{"cart": cartState}
	if warning != "" {
		data["warning"] = warning
	}
	Success(c, data)
}

type updateCartRequest struct {
	Quantity int64 `json:"quantity"`
}

// UpdateQuantity handles PUT /api/v1/cart/items/:id. A zero quantity
// removes the line.
func (h *CartHandler) UpdateQuantity(c *gin.Context) {
	var req updateCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid cart payload")
		return
	}

	cartState, warning, err := h.carts.UpdateQuantity(c.Request.Context(), GetUserID(c), c.Param("id"), req.Quantity)
	if err != nil {
		ServiceError(c, err)
		return
	}

	data := gin.H{"cart": cartState}
	if warning != "" {
		data["warning"] = warning
	}
	Success(c, data)
}

// Remove handles DELETE /api/v1/cart/items/:id.
func (h *CartHandler) Remove(c *gin.Context) {
	cartState, err := h.carts.Remove(c.Request.Context(), GetUserID(c), c.Param("id"))
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, gin.H{"cart": cartState})
}

// Clear handles DELETE /api/v1/cart.
func (h *CartHandler) Clear(c *gin.Context) {
	if err := h.carts.Clear(c.Request.Context(), GetUserID(c)); err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, nil)
}
