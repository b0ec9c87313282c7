package services

import (
	"context"
	"fmt"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/logger"
	"fintrack/internal/models"
	"fintrack/internal/repository"
)

// categoryTree validates structural changes against the stored forest. It
// never writes.
type categoryTree struct {
	store repository.CategoryStore
}

// checkParentExists returns the parent when it exists and is active.
func (t categoryTree) checkParentExists(ctx context.Context, parentID string) (*models.Category, error) {
	parent, err := t.store.FindActiveByID(ctx, parentID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if parent == nil {
		return nil, apperrors.WithMessage(apperrors.ErrCategoryNotFound,
			fmt.Sprintf("parent category %s not found", parentID))
	}
	return parent, nil
}

// checkNoCycle rejects placing candidateID below parent when candidateID is
// parent itself or one of its ancestors. The ancestor walk follows inactive
// rows too and is bounded by the number of stored categories.
func (t categoryTree) checkNoCycle(ctx context.Context, candidateID string, parent *models.Category) error {
	if parent.ID == candidateID {
		return apperrors.ErrSelfParentCategory
	}

	limit, err := t.store.Count(ctx)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	current := parent
	for steps := int64(0); steps <= limit; steps++ {
		if current.ID == candidateID {
			return apperrors.WithMessage(apperrors.ErrCircularCategory,
				fmt.Sprintf("moving category %s under %s would create a circular reference", candidateID, parent.ID))
		}
		if current.IsRoot() {
			return nil
		}

		next, err := t.store.FindAnyByID(ctx, *current.ParentID)
		if err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if next == nil {
			// dangling reference ends the chain
			return nil
		}
		current = next
	}

	logger.Get().Warnw("category ancestry does not terminate", "category_id", parent.ID)
	return apperrors.WithMessage(apperrors.ErrCircularCategory,
		fmt.Sprintf("ancestry of category %s already contains a circular reference", parent.ID))
}

// checkNameAvailable rejects a name held by another active category. An
// empty excludeID means the name is for a new category.
func (t categoryTree) checkNameAvailable(ctx context.Context, name, excludeID string) error {
	if excludeID == "" {
		exists, err := t.store.ExistsByNameCI(ctx, name)
		if err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if exists {
			return duplicateName(name)
		}
		return nil
	}

	match, err := t.store.FindByNameCI(ctx, name)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if match != nil && match.ID != excludeID {
		return duplicateName(name)
	}
	return nil
}

func duplicateName(name string) error {
	return apperrors.WithMessage(apperrors.ErrDuplicateCategory,
		fmt.Sprintf("category '%s' already exists", name))
}
