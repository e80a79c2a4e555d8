package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"wallet/internal/models"
	"wallet/internal/pagination"
	"wallet/internal/services"
)

// CategoryHandler handles category-related requests
type CategoryHandler struct {
	categoryService services.CategoryServicer
	auditService    services.AuditServicer
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categoryService services.CategoryServicer, auditService services.AuditServicer) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService, auditService: auditService}
}

// CreateCategoryRequest represents the request payload for creating a category
type CreateCategoryRequest struct {
	Name  string `json:"name" binding:"required,max=100"`
	Color string `json:"color" binding:"required,hex_color"`
}

// UpdateCategoryRequest represents the request payload for updating a category
type UpdateCategoryRequest struct {
	Name  *string `json:"name" binding:"omitempty,max=100"`
	Color *string `json:"color" binding:"omitempty,hex_color"`
}

// ListCategoriesRequest holds the GET /categories query string.
type ListCategoriesRequest struct {
	pagination.PageRequest
	OrderBy string `form:"order_by" binding:"max=100"`
}

// CreateCategory handles the creation of a new category
// @Summary     Create category
// @Tags        categories
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateCategoryRequest true "Category details"
// @Success     201 {object} models.Category "Category created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     409 {object} ErrorResponse "Name already used"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /categories [post]
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindingError(err))
		return
	}

	category, err := h.categoryService.CreateCategory(userID, req.Name, req.Color)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Record(services.AuditEvent{
		UserID:    userID,
		Action:    models.AuditCreateCategory,
		Subject:   "category",
		SubjectID: category.ID,
		ClientIP:  c.ClientIP(),
		Details:   map[string]any{"name": category.Name},
	})

	c.JSON(http.StatusCreated, gin.H{"category": category})
}

// GetUserCategories lists the user's categories
// @Summary     List categories
// @Tags        categories
// @Produce     json
// @Security    BearerAuth
// @Param       page     query int    false "Page number (default 1)"
// @Param       per_page query int    false "Items per page (default 25, max 100)"
// @Param       order_by query string false "name or created_at, e.g. name:asc"
// @Success     200 {object} pagination.PageResponse[models.Category]
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /categories [get]
func (h *CategoryHandler) GetUserCategories(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ListCategoriesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondWithError(c, bindingError(err))
		return
	}

	result, err := h.categoryService.GetUserCategories(userID, req.PageRequest, req.OrderBy)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetCategoryByID returns one category
// @Summary     Get category
// @Tags        categories
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Category ID"
// @Success     200 {object} models.Category
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /categories/{id} [get]
func (h *CategoryHandler) GetCategoryByID(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	categoryID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	category, err := h.categoryService.GetCategoryByID(userID, categoryID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"category": category})
}

// UpdateCategory renames or recolors a category
// @Summary     Update category
// @Tags        categories
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                true "Category ID"
// @Param       request body UpdateCategoryRequest true "Fields to change"
// @Success     200 {object} models.Category
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Failure     409 {object} ErrorResponse "Name already used"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /categories/{id} [patch]
func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	categoryID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindingError(err))
		return
	}

	category, err := h.categoryService.UpdateCategory(userID, categoryID, req.Name, req.Color)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Record(services.AuditEvent{
		UserID:    userID,
		Action:    models.AuditUpdateCategory,
		Subject:   "category",
		SubjectID: category.ID,
		ClientIP:  c.ClientIP(),
		Details:   map[string]any{"name": category.Name, "color": category.Color},
	})

	c.JSON(http.StatusOK, gin.H{"category": category})
}

// DeleteCategory soft-deletes a category; its entries become uncategorized
// @Summary     Delete category
// @Tags        categories
// @Security    BearerAuth
// @Param       id path string true "Category ID"
// @Success     204
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /categories/{id} [delete]
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	categoryID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.categoryService.DeleteCategory(userID, categoryID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Record(services.AuditEvent{
		UserID:    userID,
		Action:    models.AuditDeleteCategory,
		Subject:   "category",
		SubjectID: categoryID,
		ClientIP:  c.ClientIP(),
	})

	c.Status(http.StatusNoContent)
}
