// Package repository holds the persistence side of the category service:
// the CategoryStore contract and its GORM and in-memory implementations.
//
// Lookups report absence as a nil category with a nil error. Any non-nil
// error is a storage failure.
package repository

import (
	"context"
	"errors"
	"sort"
	"strings"

	"fintrack/internal/models"
)

// ErrDuplicateName is returned by Save when another active category already
// holds the same name, compared case-insensitively.
var ErrDuplicateName = errors.New("repository: duplicate active category name")

// CategoryStore is the data access contract consumed by the category service.
type CategoryStore interface {
	// FindActiveByID returns the category only when it is active.
	FindActiveByID(ctx context.Context, id string) (*models.Category, error)
	// FindAnyByID returns the category regardless of its active flag.
	FindAnyByID(ctx context.Context, id string) (*models.Category, error)
	// FindByNameCI matches an active category by name, ignoring case.
	FindByNameCI(ctx context.Context, name string) (*models.Category, error)
	ExistsByNameCI(ctx context.Context, name string) (bool, error)
	FindAllActive(ctx context.Context) ([]models.Category, error)
	FindRoots(ctx context.Context) ([]models.Category, error)
	FindChildren(ctx context.Context, parentID string) ([]models.Category, error)
	SearchByNameOrDescription(ctx context.Context, query string, rootsOnly bool) ([]models.Category, error)
	HasReferencingExpenses(ctx context.Context, categoryID string) (bool, error)
	// Count returns the number of stored categories of any status.
	Count(ctx context.Context) (int64, error)
	// Save inserts a category without an ID and updates one with an ID,
	// filling in ID and timestamps.
	Save(ctx context.Context, category *models.Category) error
	// Delete physically removes the category.
	Delete(ctx context.Context, category *models.Category) error
	// Transaction runs fn against a store bound to one unit of work. Writes
	// made through that store are discarded when fn returns an error.
	Transaction(ctx context.Context, fn func(store CategoryStore) error) error
}

// sortCategories orders by sort order ascending with unset values last,
// then by name.
func sortCategories(categories []models.Category) {
	sort.SliceStable(categories, func(i, j int) bool {
		a, b := categories[i].SortOrder, categories[j].SortOrder
		switch {
		case a == nil && b != nil:
			return false
		case a != nil && b == nil:
			return true
		case a != nil && b != nil && *a != *b:
			return *a < *b
		}
		return categories[i].Name < categories[j].Name
	})
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds a LIKE pattern matching the folded query anywhere
// in a folded key column.
func containsPattern(query string) string {
	return "%" + likeEscaper.Replace(models.FoldName(query)) + "%"
}
