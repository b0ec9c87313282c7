package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"gorm.io/gorm"

	"fintrack/internal/models"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestCategory creates an active root category with a unique name.
func CreateTestCategory(t *testing.T, db *gorm.DB) *models.Category {
	t.Helper()
	return CreateTestCategoryWithName(t, db, fmt.Sprintf("Test Category %d", nextID()), nil)
}

// CreateTestChildCategory creates an active category under parent.
func CreateTestChildCategory(t *testing.T, db *gorm.DB, parent *models.Category) *models.Category {
	t.Helper()
	return CreateTestCategoryWithName(t, db, fmt.Sprintf("Test Subcategory %d", nextID()), &parent.ID)
}

// CreateTestCategoryWithName creates an active category with the given name
// and optional parent.
func CreateTestCategoryWithName(t *testing.T, db *gorm.DB, name string, parentID *string) *models.Category {
	t.Helper()

	category := &models.Category{
		Name:      name,
		ParentID:  parentID,
		IsActive:  true,
		CreatedBy: "test",
		UpdatedBy: "test",
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// DeactivateTestCategory marks an existing category inactive. Create cannot
// do this directly because the column default overrides a false value.
func DeactivateTestCategory(t *testing.T, db *gorm.DB, category *models.Category) {
	t.Helper()

	if err := db.Model(category).Update("is_active", false).Error; err != nil {
		t.Fatalf("failed to deactivate test category: %v", err)
	}
	category.IsActive = false
}

// CreateTestExpense records an expense against categoryID.
func CreateTestExpense(t *testing.T, db *gorm.DB, categoryID string, amount int64) *models.Expense {
	t.Helper()

	expense := &models.Expense{
		CategoryID:  categoryID,
		Amount:      amount,
		Description: fmt.Sprintf("Test Expense %d", nextID()),
		SpentOn:     time.Now().UTC(),
		CreatedBy:   "test",
	}
	if err := db.Create(expense).Error; err != nil {
		t.Fatalf("failed to create test expense: %v", err)
	}
	return expense
}
