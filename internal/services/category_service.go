package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/logger"
	"fintrack/internal/models"
	"fintrack/internal/repository"
)

// categoryService handles category-related business logic.
type categoryService struct {
	store repository.CategoryStore
}

// NewCategoryService creates a new CategoryServicer.
func NewCategoryService(store repository.CategoryStore) CategoryServicer {
	return &categoryService{store: store}
}

// ListCategories returns every active category ordered by sort order and name.
func (s *categoryService) ListCategories(ctx context.Context) ([]models.Category, error) {
	categories, err := s.store.FindAllActive(ctx)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return categories, nil
}

// GetCategoryTree returns the active categories as a forest. A category whose
// parent is not active is shown as a root.
func (s *categoryService) GetCategoryTree(ctx context.Context) ([]CategoryNode, error) {
	categories, err := s.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	return buildCategoryTree(categories), nil
}

func buildCategoryTree(categories []models.Category) []CategoryNode {
	present := make(map[string]bool, len(categories))
	for _, c := range categories {
		present[c.ID] = true
	}

	var roots []models.Category
	children := make(map[string][]models.Category)
	for _, c := range categories {
		if c.IsRoot() || !present[*c.ParentID] {
			roots = append(roots, c)
			continue
		}
		children[*c.ParentID] = append(children[*c.ParentID], c)
	}

	var build func(level []models.Category) []CategoryNode
	build = func(level []models.Category) []CategoryNode {
		nodes := make([]CategoryNode, 0, len(level))
		for _, c := range level {
			nodes = append(nodes, CategoryNode{Category: c, Children: build(children[c.ID])})
		}
		return nodes
	}
	return build(roots)
}

// GetCategoryByID retrieves an active category.
func (s *categoryService) GetCategoryByID(ctx context.Context, id string) (*models.Category, error) {
	category, err := s.store.FindActiveByID(ctx, id)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if category == nil {
		return nil, categoryNotFound(id)
	}
	return category, nil
}

// ListRootCategories returns the active categories without a parent.
func (s *categoryService) ListRootCategories(ctx context.Context) ([]models.Category, error) {
	categories, err := s.store.FindRoots(ctx)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return categories, nil
}

// ListChildCategories returns the active children of an active parent.
func (s *categoryService) ListChildCategories(ctx context.Context, parentID string) ([]models.Category, error) {
	if _, err := (categoryTree{store: s.store}).checkParentExists(ctx, parentID); err != nil {
		return nil, err
	}

	categories, err := s.store.FindChildren(ctx, parentID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return categories, nil
}

// SearchCategories matches active categories whose name or description
// contains query, ignoring case.
func (s *categoryService) SearchCategories(ctx context.Context, query string, rootsOnly bool) ([]models.Category, error) {
	categories, err := s.store.SearchByNameOrDescription(ctx, query, rootsOnly)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return categories, nil
}

// CreateCategory creates a new active category
func (s *categoryService) CreateCategory(ctx context.Context, fields CategoryFields, actor string) (*models.Category, error) {
	name := strings.TrimSpace(fields.Name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category name is required")
	}

	var category *models.Category
	err := s.inTransaction(ctx, func(tree categoryTree, store repository.CategoryStore) error {
		if err := tree.checkNameAvailable(ctx, name, ""); err != nil {
			return err
		}
		if fields.ParentID != nil {
			if _, err := tree.checkParentExists(ctx, *fields.ParentID); err != nil {
				return err
			}
		}

		category = &models.Category{
			Name:        name,
			Description: fields.Description,
			ColorCode:   fields.ColorCode,
			IconName:    fields.IconName,
			SortOrder:   fields.SortOrder,
			ParentID:    fields.ParentID,
			IsActive:    true,
			CreatedBy:   actor,
			UpdatedBy:   actor,
		}
		return saveCategory(ctx, store, category)
	})
	if err != nil {
		return nil, err
	}

	logger.Get().Infow("category created", "category_id", category.ID, "name", category.Name, "actor", actor)
	return category, nil
}

// UpdateCategory replaces all editable fields of an active category.
func (s *categoryService) UpdateCategory(ctx context.Context, id string, fields CategoryFields, actor string) (*models.Category, error) {
	name := strings.TrimSpace(fields.Name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category name is required")
	}

	var category *models.Category
	err := s.inTransaction(ctx, func(tree categoryTree, store repository.CategoryStore) error {
		var err error
		category, err = store.FindActiveByID(ctx, id)
		if err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if category == nil {
			return categoryNotFound(id)
		}

		// Self-parenting is reported before the parent lookup, which would
		// otherwise find the category itself.
		if fields.ParentID != nil {
			if *fields.ParentID == id {
				return apperrors.ErrSelfParentCategory
			}
			parent, err := tree.checkParentExists(ctx, *fields.ParentID)
			if err != nil {
				return err
			}
			if err := tree.checkNoCycle(ctx, id, parent); err != nil {
				return err
			}
		}

		if err := tree.checkNameAvailable(ctx, name, id); err != nil {
			return err
		}

		category.Name = name
		category.Description = fields.Description
		category.ColorCode = fields.ColorCode
		category.IconName = fields.IconName
		category.SortOrder = fields.SortOrder
		category.ParentID = fields.ParentID
		category.UpdatedBy = actor
		return saveCategory(ctx, store, category)
	})
	if err != nil {
		return nil, err
	}

	logger.Get().Infow("category updated", "category_id", category.ID, "actor", actor)
	return category, nil
}

// DeleteCategory removes a category, or deactivates it when expenses still
// reference it. Categories with active subcategories cannot be deleted.
func (s *categoryService) DeleteCategory(ctx context.Context, id, actor string) (DeleteOutcome, error) {
	var outcome DeleteOutcome
	err := s.inTransaction(ctx, func(_ categoryTree, store repository.CategoryStore) error {
		category, err := store.FindActiveByID(ctx, id)
		if err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if category == nil {
			return categoryNotFound(id)
		}

		children, err := store.FindChildren(ctx, id)
		if err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if len(children) > 0 {
			return apperrors.WithMessage(apperrors.ErrCategoryHasChildren,
				fmt.Sprintf("cannot delete category %s: it has %d active subcategories", id, len(children)))
		}

		referenced, err := store.HasReferencingExpenses(ctx, id)
		if err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		if referenced {
			category.IsActive = false
			category.UpdatedBy = actor
			outcome = DeleteOutcomeDeactivated
			return saveCategory(ctx, store, category)
		}

		outcome = DeleteOutcomeRemoved
		if err := store.Delete(ctx, category); err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	logger.Get().Infow("category deleted", "category_id", id, "outcome", outcome, "actor", actor)
	return outcome, nil
}

// ActivateCategory marks a category active again. Active categories are
// accepted and only get their audit fields refreshed.
func (s *categoryService) ActivateCategory(ctx context.Context, id, actor string) (*models.Category, error) {
	var category *models.Category
	err := s.inTransaction(ctx, func(tree categoryTree, store repository.CategoryStore) error {
		var err error
		category, err = store.FindAnyByID(ctx, id)
		if err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if category == nil {
			return categoryNotFound(id)
		}

		if !category.IsActive {
			if err := tree.checkNameAvailable(ctx, category.Name, category.ID); err != nil {
				return err
			}
		}

		category.IsActive = true
		category.UpdatedBy = actor
		return saveCategory(ctx, store, category)
	})
	if err != nil {
		return nil, err
	}

	logger.Get().Infow("category activated", "category_id", category.ID, "actor", actor)
	return category, nil
}

// inTransaction runs fn in one store transaction. Errors that are not
// already AppErrors are reported as internal errors.
func (s *categoryService) inTransaction(ctx context.Context, fn func(tree categoryTree, store repository.CategoryStore) error) error {
	err := s.store.Transaction(ctx, func(store repository.CategoryStore) error {
		return fn(categoryTree{store: store}, store)
	})
	if err == nil {
		return nil
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return apperrors.Wrap(apperrors.ErrInternalServer, err)
}

func saveCategory(ctx context.Context, store repository.CategoryStore, category *models.Category) error {
	if err := store.Save(ctx, category); err != nil {
		if errors.Is(err, repository.ErrDuplicateName) {
			return duplicateName(category.Name)
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

func categoryNotFound(id string) error {
	return apperrors.WithMessage(apperrors.ErrCategoryNotFound, fmt.Sprintf("category %s not found", id))
}
