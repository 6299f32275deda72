package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/oreshkin/stockwise/internal/service"
)

// CategoryHandler serves the category registry.
type CategoryHandler struct {
	svc *service.CategoryService
}

func NewCategoryHandler(svc *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{svc: svc}
}

// List handles GET /api/v1/categories with live item counts and value
// totals.
func (h *CategoryHandler) List(c *gin.Context) {
	categories, err := h.svc.List(c.Request.Context())
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, gin.H{"items": categories})
}

// Get handles GET /api/v1/categories/:id.
func (h *CategoryHandler) Get(c *gin.Context) {
	category, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, category)
}

type createCategoryRequest struct {
	Name string `json:"name" binding:"required"`
}

// Create handles POST /api/v1/categories.
func (h *CategoryHandler) Create(c *gin.Context) {
	var req createCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "name is required")
		return
	}

	category, err := h.svc.Create(c.Request.Context(), GetUserID(c), req.Name)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Created(c, category)
}

// Delete handles DELETE /api/v1/categories/:id. Items filed under the
// category go with it.
func (h *CategoryHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, nil)
}
