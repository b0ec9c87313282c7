package repository

import (
	"context"
	"strings"
	"sync"
	"time"

	"fintrack/internal/models"
	"fintrack/internal/uuid"
)

// MemoryCategoryStore is an id-indexed arena of categories. It backs the
// "memory" storage driver and unit tests.
type MemoryCategoryStore struct {
	mu         sync.RWMutex
	txMu       sync.Mutex
	categories map[string]models.Category
	expenses   map[string]int
	now        func() time.Time
}

// MemoryOption configures a MemoryCategoryStore.
type MemoryOption func(*MemoryCategoryStore)

// WithClock replaces the timestamp source.
func WithClock(now func() time.Time) MemoryOption {
	return func(s *MemoryCategoryStore) {
		s.now = now
	}
}

var _ CategoryStore = (*MemoryCategoryStore)(nil)

// NewMemoryCategoryStore creates an empty in-memory store.
func NewMemoryCategoryStore(opts ...MemoryOption) *MemoryCategoryStore {
	s := &MemoryCategoryStore{
		categories: make(map[string]models.Category),
		expenses:   make(map[string]int),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ReferenceExpense records one expense pointing at categoryID.
func (s *MemoryCategoryStore) ReferenceExpense(categoryID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expenses[categoryID]++
}

func cloneCategory(c models.Category) *models.Category {
	if c.SortOrder != nil {
		v := *c.SortOrder
		c.SortOrder = &v
	}
	if c.ParentID != nil {
		v := *c.ParentID
		c.ParentID = &v
	}
	return &c
}

func (s *MemoryCategoryStore) lookup(match func(c *models.Category) bool) *models.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.categories {
		if match(&c) {
			return cloneCategory(c)
		}
	}
	return nil
}

func (s *MemoryCategoryStore) collect(match func(c *models.Category) bool) []models.Category {
	s.mu.RLock()
	result := []models.Category{}
	for _, c := range s.categories {
		if match(&c) {
			result = append(result, *cloneCategory(c))
		}
	}
	s.mu.RUnlock()

	sortCategories(result)
	return result
}

// FindActiveByID implements CategoryStore.
func (s *MemoryCategoryStore) FindActiveByID(_ context.Context, id string) (*models.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.categories[id]
	if !ok || !c.IsActive {
		return nil, nil
	}
	return cloneCategory(c), nil
}

// FindAnyByID implements CategoryStore.
func (s *MemoryCategoryStore) FindAnyByID(_ context.Context, id string) (*models.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.categories[id]
	if !ok {
		return nil, nil
	}
	return cloneCategory(c), nil
}

// FindByNameCI implements CategoryStore.
func (s *MemoryCategoryStore) FindByNameCI(_ context.Context, name string) (*models.Category, error) {
	key := models.FoldName(name)
	return s.lookup(func(c *models.Category) bool {
		return c.IsActive && c.NameKey == key
	}), nil
}

// ExistsByNameCI implements CategoryStore.
func (s *MemoryCategoryStore) ExistsByNameCI(ctx context.Context, name string) (bool, error) {
	c, err := s.FindByNameCI(ctx, name)
	return c != nil, err
}

// FindAllActive implements CategoryStore.
func (s *MemoryCategoryStore) FindAllActive(_ context.Context) ([]models.Category, error) {
	return s.collect(func(c *models.Category) bool { return c.IsActive }), nil
}

// FindRoots implements CategoryStore.
func (s *MemoryCategoryStore) FindRoots(_ context.Context) ([]models.Category, error) {
	return s.collect(func(c *models.Category) bool {
		return c.IsActive && c.IsRoot()
	}), nil
}

// FindChildren implements CategoryStore.
func (s *MemoryCategoryStore) FindChildren(_ context.Context, parentID string) ([]models.Category, error) {
	return s.collect(func(c *models.Category) bool {
		return c.IsActive && c.ParentID != nil && *c.ParentID == parentID
	}), nil
}

// SearchByNameOrDescription implements CategoryStore.
func (s *MemoryCategoryStore) SearchByNameOrDescription(_ context.Context, query string, rootsOnly bool) ([]models.Category, error) {
	q := models.FoldName(query)
	return s.collect(func(c *models.Category) bool {
		if !c.IsActive || (rootsOnly && !c.IsRoot()) {
			return false
		}
		return strings.Contains(c.NameKey, q) || strings.Contains(c.DescriptionKey, q)
	}), nil
}

// HasReferencingExpenses implements CategoryStore.
func (s *MemoryCategoryStore) HasReferencingExpenses(_ context.Context, categoryID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.expenses[categoryID] > 0, nil
}

// Count implements CategoryStore.
func (s *MemoryCategoryStore) Count(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.categories)), nil
}

// Save implements CategoryStore.
func (s *MemoryCategoryStore) Save(_ context.Context, category *models.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	category.FoldKeys()
	if category.IsActive {
		for id, other := range s.categories {
			if id != category.ID && other.IsActive && other.NameKey == category.NameKey {
				return ErrDuplicateName
			}
		}
	}

	now := s.now()
	if category.ID == "" {
		category.ID = uuid.New()
	}
	if existing, ok := s.categories[category.ID]; ok {
		category.CreatedAt = existing.CreatedAt
	} else if category.CreatedAt.IsZero() {
		category.CreatedAt = now
	}
	category.UpdatedAt = now

	s.categories[category.ID] = *cloneCategory(*category)
	return nil
}

// Delete implements CategoryStore.
func (s *MemoryCategoryStore) Delete(_ context.Context, category *models.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.categories, category.ID)
	return nil
}

// Transaction implements CategoryStore. Transactions are serialized; a
// failing fn restores the categories as they were before it ran.
func (s *MemoryCategoryStore) Transaction(_ context.Context, fn func(store CategoryStore) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	snapshot := make(map[string]models.Category, len(s.categories))
	for id, c := range s.categories {
		snapshot[id] = *cloneCategory(c)
	}
	s.mu.RUnlock()

	if err := fn(s); err != nil {
		s.mu.Lock()
		s.categories = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}
