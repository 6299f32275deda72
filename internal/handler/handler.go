package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/oreshkin/stockwise/internal/cart"
	"github.com/oreshkin/stockwise/internal/config"
	"github.com/oreshkin/stockwise/internal/repository"
	"github.com/oreshkin/stockwise/internal/service"
	"github.com/oreshkin/stockwise/internal/storage"
)

// Handlers is the handler collection.
type Handlers struct {
	Auth      *AuthHandler
	Category  *CategoryHandler
	Inventory *InventoryHandler
	Cart      *CartHandler
	Order     *OrderHandler
	User      *UserHandler
	Upload    *UploadHandler
}

// NewHandlers wires the handler collection. images may be nil when no
// object store is configured; the upload route then rejects requests.
func NewHandlers(svc *service.Services, carts *cart.Store, images *storage.ImageStore, cfg *config.Config) *Handlers {
	return &Handlers{
		Auth:      NewAuthHandler(svc.Auth, cfg),
		Category:  NewCategoryHandler(svc.Category),
		Inventory: NewInventoryHandler(svc.Inventory),
		Cart:      NewCartHandler(carts, svc.Inventory),
		Order:     NewOrderHandler(svc.Order, carts),
		User:      NewUserHandler(svc.User),
		Upload:    NewUploadHandler(images),
	}
}

// Response is the uniform JSON envelope.
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ListResponse wraps paginated collections.
type ListResponse struct {
	Items      interface{} `json:"items"`
	Pagination *Pagination `json:"pagination"`
}

// Pagination describes one page of a collection.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
}

func NewPagination(page, pageSize int, total int64) *Pagination {
	totalPages := total / int64(pageSize)
	if total%int64(pageSize) > 0 {
		totalPages++
	}
	return &Pagination{Page: page, PageSize: pageSize, Total: total, TotalPages: totalPages}
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(200, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(201, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Error renders an error envelope; the HTTP status is the leading three
// digits of the five-digit code.
func Error(c *gin.Context, code int, message string) {
	statusCode := code / 100
	if statusCode < 100 || statusCode > 599 {
		statusCode = 500
	}
	c.JSON(statusCode, Response{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, message string) {
	Error(c, 40000, message)
}

func Unauthorized(c *gin.Context, message string) {
	Error(c, 40100, message)
}

func Forbidden(c *gin.Context, message string) {
	Error(c, 40300, message)
}

func NotFound(c *gin.Context, message string) {
	Error(c, 40400, message)
}

func Conflict(c *gin.Context, message string) {
	Error(c, 40900, message)
}

func InternalError(c *gin.Context, message string) {
	Error(c, 50000, message)
}

// ServiceError maps domain errors onto the envelope.
func ServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		NotFound(c, err.Error())
	case errors.Is(err, service.ErrValidation):
		BadRequest(c, err.Error())
	case errors.Is(err, service.ErrOrderLocked),
		errors.Is(err, service.ErrCategoryExists):
		Conflict(c, err.Error())
	case errors.Is(err, service.ErrNoItemsProcessed):
		Error(c, 42200, err.Error())
	default:
		InternalError(c, err.Error())
	}
}

// GetUserID reads the authenticated user id from the context.
func GetUserID(c *gin.Context) string {
	userID, _ := c.Get("user_id")
	if id, ok := userID.(string); ok {
		return id
	}
	return ""
}

// GetUserEmail reads the authenticated user email from the context.
func GetUserEmail(c *gin.Context) string {
	email, _ := c.Get("user_email")
	if e, ok := email.(string); ok {
		return e
	}
	return ""
}

// GetPagination reads page/page_size query params with sane bounds.
func GetPagination(c *gin.Context) (page, pageSize int) {
	page = 1
	pageSize = 20

	if p := c.Query("page"); p != "" {
		if v, err := strconv.Atoi(p); err == nil && v > 0 {
			page = v
		}
	}

	if ps := c.Query("page_size"); ps != "" {
		if v, err := strconv.Atoi(ps); err == nil && v > 0 && v <= 100 {
			pageSize = v
		}
	}

	return page, pageSize
}
