package services

import (
	"context"

	"fintrack/internal/models"
)

// CategoryFields carries the caller-editable attributes of a category. On
// update every field is replaced, so a nil ParentID promotes to root.
type CategoryFields struct {
	Name        string
	Description string
	ColorCode   string
	IconName    string
	SortOrder   *int
	ParentID    *string
}

// DeleteOutcome reports how a delete request was resolved.
type DeleteOutcome string

const (
	// DeleteOutcomeRemoved means the row was physically removed.
	DeleteOutcomeRemoved DeleteOutcome = "removed"
	// DeleteOutcomeDeactivated means expenses still reference the category,
	// so it was only marked inactive.
	DeleteOutcomeDeactivated DeleteOutcome = "deactivated"
)

// CategoryNode is a category with its active subcategories nested below it.
type CategoryNode struct {
	models.Category
	Children []CategoryNode `json:"children"`
}

// CategoryServicer defines the contract for category-related business logic.
type CategoryServicer interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	GetCategoryTree(ctx context.Context) ([]CategoryNode, error)
	GetCategoryByID(ctx context.Context, id string) (*models.Category, error)
	ListRootCategories(ctx context.Context) ([]models.Category, error)
	ListChildCategories(ctx context.Context, parentID string) ([]models.Category, error)
	SearchCategories(ctx context.Context, query string, rootsOnly bool) ([]models.Category, error)
	CreateCategory(ctx context.Context, fields CategoryFields, actor string) (*models.Category, error)
	UpdateCategory(ctx context.Context, id string, fields CategoryFields, actor string) (*models.Category, error)
	DeleteCategory(ctx context.Context, id, actor string) (DeleteOutcome, error)
	ActivateCategory(ctx context.Context, id, actor string) (*models.Category, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(actor, action, resourceType, resourceID, ipAddress string, changes map[string]interface{})
}
