package handler

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/oreshkin/stockwise/internal/repository"
	"github.com/oreshkin/stockwise/internal/service"
)

// InventoryHandler serves the item catalog.
type InventoryHandler struct {
	svc *service.InventoryService
}

func NewInventoryHandler(svc *service.InventoryService) *InventoryHandler {
	return &InventoryHandler{svc: svc}
}

// List handles GET /api/v1/items with optional category and keyword
// filters.
func (h *InventoryHandler) List(c *gin.Context) {
	page, pageSize := GetPagination(c)
	params := repository.ItemListParams{
		Category: c.Query("category"),
		Keyword:  c.Query("keyword"),
		Page:     page,
		Size:     pageSize,
	}

	items, total, err := h.svc.List(c.Request.Context(), params)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, ListResponse{
		Items:      items,
		Pagination: NewPagination(page, pageSize, total),
	})
}

// Get handles GET /api/v1/items/:id.
func (h *InventoryHandler) Get(c *gin.Context) {
	item, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, item)
}

// Create handles POST /api/v1/items. The serial number and total price
// are assigned server-side.
func (h *InventoryHandler) Create(c *gin.Context) {
	var req service.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid item payload: "+err.Error())
		return
	}

	item, err := h.svc.Create(c.Request.Context(), GetUserID(c), &req)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Created(c, item)
}

// Update handles PUT /api/v1/items/:id with partial field updates.
func (h *InventoryHandler) Update(c *gin.Context) {
	var req service.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid item payload: "+err.Error())
		return
	}

	item, err := h.svc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, item)
}

// Delete handles DELETE /api/v1/items/:id.
func (h *InventoryHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, nil)
}

// Export handles GET /api/v1/items/export, streaming the catalog as an
// xlsx workbook.
func (h *InventoryHandler) Export(c *gin.Context) {
	f, err := h.svc.ExportExcel(c.Request.Context())
	if err != nil {
		ServiceError(c, err)
		return
	}
	defer f.Close()

	fileName := fmt.Sprintf("inventory_%s.xlsx", time.Now().Format("20060102_150405"))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, fileName))

	if err := f.Write(c.Writer); err != nil {
		InternalError(c, "write workbook: "+err.Error())
	}
}
