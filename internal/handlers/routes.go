package handlers

import (
	"github.com/gin-gonic/gin"

	"fintrack/internal/middleware"
)

// RegisterRoutes mounts the category endpoints on an authenticated group.
// Reads are open to any principal; writes require the admin role.
func (h *CategoryHandler) RegisterRoutes(protected *gin.RouterGroup) {
	categories := protected.Group("/categories")
	categories.GET("", h.ListCategories)
	categories.GET("/tree", h.GetCategoryTree)
	categories.GET("/roots", h.ListRootCategories)
	categories.GET("/search", h.SearchCategories)
	categories.GET("/:id", h.GetCategoryByID)
	categories.GET("/:id/children", h.ListChildCategories)

	admin := categories.Group("", middleware.RequireRole(middleware.RoleAdmin))
	admin.POST("", h.CreateCategory)
	admin.PUT("/:id", h.UpdateCategory)
	admin.DELETE("/:id", h.DeleteCategory)
	admin.PUT("/:id/activate", h.ActivateCategory)
}
