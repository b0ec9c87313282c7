package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"fintrack/internal/models"
)

const categoryOrder = "sort_order IS NULL, sort_order ASC, name ASC"

// GormCategoryStore implements CategoryStore on a relational database.
type GormCategoryStore struct {
	db *gorm.DB
}

var _ CategoryStore = (*GormCategoryStore)(nil)

// NewGormCategoryStore creates a CategoryStore backed by db. The database
// should be opened with TranslateError so that unique violations surface as
// ErrDuplicateName.
func NewGormCategoryStore(db *gorm.DB) *GormCategoryStore {
	return &GormCategoryStore{db: db}
}

func (s *GormCategoryStore) conn(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

func (s *GormCategoryStore) first(ctx context.Context, query string, args ...interface{}) (*models.Category, error) {
	var category models.Category
	if err := s.conn(ctx).Where(query, args...).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &category, nil
}

func (s *GormCategoryStore) find(ctx context.Context, query string, args ...interface{}) ([]models.Category, error) {
	categories := []models.Category{}
	if err := s.conn(ctx).Where(query, args...).Order(categoryOrder).Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// FindActiveByID implements CategoryStore.
func (s *GormCategoryStore) FindActiveByID(ctx context.Context, id string) (*models.Category, error) {
	return s.first(ctx, "id = ? AND is_active = ?", id, true)
}

// FindAnyByID implements CategoryStore.
func (s *GormCategoryStore) FindAnyByID(ctx context.Context, id string) (*models.Category, error) {
	return s.first(ctx, "id = ?", id)
}

// FindByNameCI implements CategoryStore.
func (s *GormCategoryStore) FindByNameCI(ctx context.Context, name string) (*models.Category, error) {
	return s.first(ctx, "name_key = ? AND is_active = ?", models.FoldName(name), true)
}

// ExistsByNameCI implements CategoryStore.
func (s *GormCategoryStore) ExistsByNameCI(ctx context.Context, name string) (bool, error) {
	var count int64
	err := s.conn(ctx).Model(&models.Category{}).
		Where("name_key = ? AND is_active = ?", models.FoldName(name), true).
		Count(&count).Error
	return count > 0, err
}

// FindAllActive implements CategoryStore.
func (s *GormCategoryStore) FindAllActive(ctx context.Context) ([]models.Category, error) {
	return s.find(ctx, "is_active = ?", true)
}

// FindRoots implements CategoryStore.
func (s *GormCategoryStore) FindRoots(ctx context.Context) ([]models.Category, error) {
	return s.find(ctx, "parent_id IS NULL AND is_active = ?", true)
}

// FindChildren implements CategoryStore.
func (s *GormCategoryStore) FindChildren(ctx context.Context, parentID string) ([]models.Category, error) {
	return s.find(ctx, "parent_id = ? AND is_active = ?", parentID, true)
}

// SearchByNameOrDescription implements CategoryStore.
func (s *GormCategoryStore) SearchByNameOrDescription(ctx context.Context, query string, rootsOnly bool) ([]models.Category, error) {
	pattern := containsPattern(query)
	tx := s.conn(ctx).
		Where("is_active = ?", true).
		Where(`(name_key LIKE ? ESCAPE '\' OR description_key LIKE ? ESCAPE '\')`, pattern, pattern)
	if rootsOnly {
		tx = tx.Where("parent_id IS NULL")
	}

	categories := []models.Category{}
	if err := tx.Order(categoryOrder).Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// HasReferencingExpenses implements CategoryStore.
func (s *GormCategoryStore) HasReferencingExpenses(ctx context.Context, categoryID string) (bool, error) {
	var count int64
	err := s.conn(ctx).Model(&models.Expense{}).Where("category_id = ?", categoryID).Count(&count).Error
	return count > 0, err
}

// Count implements CategoryStore.
func (s *GormCategoryStore) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.conn(ctx).Model(&models.Category{}).Count(&count).Error
	return count, err
}

// Save implements CategoryStore.
func (s *GormCategoryStore) Save(ctx context.Context, category *models.Category) error {
	var err error
	if category.ID == "" {
		err = s.conn(ctx).Create(category).Error
	} else {
		err = s.conn(ctx).Save(category).Error
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateName
	}
	return err
}

// Delete implements CategoryStore.
func (s *GormCategoryStore) Delete(ctx context.Context, category *models.Category) error {
	return s.conn(ctx).Delete(category).Error
}

// Transaction implements CategoryStore.
func (s *GormCategoryStore) Transaction(ctx context.Context, fn func(store CategoryStore) error) error {
	return s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormCategoryStore{db: tx})
	})
}
