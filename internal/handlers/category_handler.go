package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/pagination"
	"fintrack/internal/services"
	"fintrack/internal/uuid"
)

const categoryResource = "category"

// CategoryHandler handles category-related requests.
type CategoryHandler struct {
	categoryService services.CategoryServicer
	auditService    services.AuditServicer
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(categoryService services.CategoryServicer, auditService services.AuditServicer) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService, auditService: auditService}
}

// CategoryRequest represents the request payload for creating or updating a
// category. Update replaces every field, so an omitted parent_id moves the
// category to the root.
type CategoryRequest struct {
	Name        string  `json:"name" binding:"required,max=100"`
	Description string  `json:"description" binding:"max=500"`
	ColorCode   string  `json:"color_code" binding:"omitempty,len=7,hex_color"`
	IconName    string  `json:"icon_name" binding:"omitempty,max=50,icon_name"`
	SortOrder   *int    `json:"sort_order"`
	ParentID    *string `json:"parent_id"`
}

// SearchCategoriesQuery holds the query string of the search endpoint.
type SearchCategoriesQuery struct {
	Q         string `form:"q" binding:"required,max=100"`
	RootsOnly bool   `form:"roots_only"`
}

// CategoryResponse wraps a single category.
type CategoryResponse struct {
	Category models.Category `json:"category"`
}

// CategoryListResponse wraps an unpaged list of categories.
type CategoryListResponse struct {
	Categories []models.Category `json:"categories"`
}

// CategoryTreeResponse wraps the category forest.
type CategoryTreeResponse struct {
	Categories []services.CategoryNode `json:"categories"`
}

// DeleteCategoryResponse reports how a delete was resolved.
type DeleteCategoryResponse struct {
	Message string                 `json:"message"`
	Outcome services.DeleteOutcome `json:"outcome"`
}

func (r CategoryRequest) fields() (services.CategoryFields, error) {
	fields := services.CategoryFields{
		Name:        r.Name,
		Description: r.Description,
		ColorCode:   r.ColorCode,
		IconName:    r.IconName,
		SortOrder:   r.SortOrder,
	}
	if r.ParentID != nil {
		parentID, err := uuid.Normalize(*r.ParentID)
		if err != nil {
			return fields, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid parent_id")
		}
		fields.ParentID = &parentID
	}
	return fields, nil
}

func (r CategoryRequest) auditChanges() map[string]interface{} {
	changes := map[string]interface{}{"name": strings.TrimSpace(r.Name)}
	if r.ParentID != nil {
		changes["parent_id"] = *r.ParentID
	}
	if r.SortOrder != nil {
		changes["sort_order"] = *r.SortOrder
	}
	return changes
}

// ListCategories handles the retrieval of all active categories
// @Summary     List categories
// @Description Page through all active categories ordered by sort order then name
// @Tags        categories
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Page size (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Category] "Page of categories"
// @Failure     400 {object} ErrorResponse "Invalid paging parameters"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /categories [get]
func (h *CategoryHandler) ListCategories(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	categories, err := h.categoryService.ListCategories(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, pagination.Slice(categories, page))
}

// GetCategoryTree handles the retrieval of the nested category forest
// @Summary     Category tree
// @Description Get all active categories nested under their parents
// @Tags        categories
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} CategoryTreeResponse "Category forest"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /categories/tree [get]
func (h *CategoryHandler) GetCategoryTree(c *gin.Context) {
	tree, err := h.categoryService.GetCategoryTree(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, CategoryTreeResponse{Categories: tree})
}

// ListRootCategories handles the retrieval of top-level categories
// @Summary     List root categories
// @Tags        categories
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} CategoryListResponse "Root categories"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /categories/roots [get]
func (h *CategoryHandler) ListRootCategories(c *gin.Context) {
	categories, err := h.categoryService.ListRootCategories(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, CategoryListResponse{Categories: nonNil(categories)})
}

// SearchCategories handles category search
// @Summary     Search categories
// @Description Case-insensitive substring search over active category names and descriptions
// @Tags        categories
// @Produce     json
// @Security    BearerAuth
// @Param       q          query string true  "Search text"
// @Param       roots_only query bool   false "Only return root categories"
// @Success     200 {object} CategoryListResponse "Matching categories"
// @Failure     400 {object} ErrorResponse "Missing query"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /categories/search [get]
func (h *CategoryHandler) SearchCategories(c *gin.Context) {
	var query SearchCategoriesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	if strings.TrimSpace(query.Q) == "" {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "search query is required"))
		return
	}

	categories, err := h.categoryService.SearchCategories(c.Request.Context(), query.Q, query.RootsOnly)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, CategoryListResponse{Categories: nonNil(categories)})
}

// GetCategoryByID handles the retrieval of a specific category
// @Summary     Get category by ID
// @Tags        categories
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Category ID"
// @Success     200 {object} CategoryResponse "Category details"
// @Failure     400 {object} ErrorResponse "Invalid category ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /categories/{id} [get]
func (h *CategoryHandler) GetCategoryByID(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	category, err := h.categoryService.GetCategoryByID(c.Request.Context(), id)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, CategoryResponse{Category: *category})
}

// ListChildCategories handles the retrieval of direct subcategories
// @Summary     List subcategories
// @Tags        categories
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Parent category ID"
// @Success     200 {object} CategoryListResponse "Direct active children"
// @Failure     400 {object} ErrorResponse "Invalid category ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /categories/{id}/children [get]
func (h *CategoryHandler) ListChildCategories(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	categories, err := h.categoryService.ListChildCategories(c.Request.Context(), id)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, CategoryListResponse{Categories: nonNil(categories)})
}

// CreateCategory handles the creation of a new category
// @Summary     Create a category
// @Tags        categories
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CategoryRequest true "Category details"
// @Success     201 {object} CategoryResponse "Category created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Admin role required"
// @Failure     404 {object} ErrorResponse "Parent category not found"
// @Failure     409 {object} ErrorResponse "Duplicate name"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /categories [post]
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	fields, err := req.fields()
	if err != nil {
		respondWithError(c, err)
		return
	}

	category, err := h.categoryService.CreateCategory(c.Request.Context(), fields, actor)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(actor, "CREATE_CATEGORY", categoryResource, category.ID, c.ClientIP(), req.auditChanges())

	c.JSON(http.StatusCreated, CategoryResponse{Category: *category})
}

// UpdateCategory handles updating a category
// @Summary     Update a category
// @Description Replace all editable fields of an active category
// @Tags        categories
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string          true "Category ID"
// @Param       request body CategoryRequest true "Updated category details"
// @Success     200 {object} CategoryResponse "Updated category"
// @Failure     400 {object} ErrorResponse "Invalid input or circular reference"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Admin role required"
// @Failure     404 {object} ErrorResponse "Category or parent not found"
// @Failure     409 {object} ErrorResponse "Duplicate name"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /categories/{id} [put]
func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	fields, err := req.fields()
	if err != nil {
		respondWithError(c, err)
		return
	}

	category, err := h.categoryService.UpdateCategory(c.Request.Context(), id, fields, actor)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(actor, "UPDATE_CATEGORY", categoryResource, category.ID, c.ClientIP(), req.auditChanges())

	c.JSON(http.StatusOK, CategoryResponse{Category: *category})
}

// DeleteCategory handles deleting a category
// @Summary     Delete a category
// @Description Removes the category, or deactivates it when expenses still reference it
// @Tags        categories
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Category ID"
// @Success     200 {object} DeleteCategoryResponse "Category removed or deactivated"
// @Failure     400 {object} ErrorResponse "Invalid category ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Admin role required"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Failure     409 {object} ErrorResponse "Category has active subcategories"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /categories/{id} [delete]
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	outcome, err := h.categoryService.DeleteCategory(c.Request.Context(), id, actor)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(actor, "DELETE_CATEGORY", categoryResource, id, c.ClientIP(),
		map[string]interface{}{"outcome": string(outcome)})

	message := "Category deleted successfully"
	if outcome == services.DeleteOutcomeDeactivated {
		message = "Category is referenced by expenses and was deactivated"
	}
	c.JSON(http.StatusOK, DeleteCategoryResponse{Message: message, Outcome: outcome})
}

// ActivateCategory handles reactivating a category
// @Summary     Activate a category
// @Tags        categories
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Category ID"
// @Success     200 {object} CategoryResponse "Active category"
// @Failure     400 {object} ErrorResponse "Invalid category ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Admin role required"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Failure     409 {object} ErrorResponse "Name taken by another active category"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /categories/{id}/activate [put]
func (h *CategoryHandler) ActivateCategory(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	category, err := h.categoryService.ActivateCategory(c.Request.Context(), id, actor)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(actor, "ACTIVATE_CATEGORY", categoryResource, category.ID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, CategoryResponse{Category: *category})
}

func nonNil(categories []models.Category) []models.Category {
	if categories == nil {
		return []models.Category{}
	}
	return categories
}
