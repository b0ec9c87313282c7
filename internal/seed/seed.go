// Package seed creates a default category hierarchy through the category API.
package seed

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"fintrack/internal/client"
	"fintrack/internal/models"
)

// CategoryAPI is the subset of the category client the seeder needs.
type CategoryAPI interface {
	ListRoots(ctx context.Context) ([]models.Category, error)
	ListChildren(ctx context.Context, parentID string) ([]models.Category, error)
	Create(ctx context.Context, in client.CategoryInput) (*models.Category, error)
}

// Node is one category in a seed tree.
type Node struct {
	Name        string
	Description string
	ColorCode   string
	IconName    string
	Children    []Node
}

// Result summarizes a seeding run.
type Result struct {
	Created  int
	Existing int
	// Skipped holds names already used by an active category elsewhere in
	// the hierarchy. Their subtrees are not seeded.
	Skipped []string
}

// DefaultTree is the hierarchy installed by cmd/seed.
var DefaultTree = []Node{
	{Name: "Food", ColorCode: "#E67E22", IconName: "utensils", Children: []Node{
		{Name: "Groceries", IconName: "shopping-cart"},
		{Name: "Restaurants", IconName: "utensils"},
		{Name: "Coffee", IconName: "coffee"},
	}},
	{Name: "Housing", ColorCode: "#2980B9", IconName: "home", Children: []Node{
		{Name: "Rent"},
		{Name: "Utilities", IconName: "bolt"},
		{Name: "Maintenance", IconName: "wrench"},
	}},
	{Name: "Transport", ColorCode: "#16A085", IconName: "car", Children: []Node{
		{Name: "Fuel", IconName: "gas-pump"},
		{Name: "Public Transit", IconName: "bus"},
		{Name: "Parking"},
	}},
	{Name: "Travel", ColorCode: "#8E44AD", IconName: "plane", Children: []Node{
		{Name: "Flights", IconName: "plane"},
		{Name: "Hotels", IconName: "bed"},
	}},
	{Name: "Health", ColorCode: "#C0392B", IconName: "heart"},
	{Name: "Entertainment", ColorCode: "#F1C40F", IconName: "film"},
	{Name: "Miscellaneous", Description: "Anything without a better home"},
}

// Seeder installs a category tree, reusing categories that already exist
// under the same parent.
type Seeder struct {
	api    CategoryAPI
	logger *zap.SugaredLogger
}

// NewSeeder creates a seeder backed by the given API.
func NewSeeder(api CategoryAPI, logger *zap.SugaredLogger) *Seeder {
	return &Seeder{api: api, logger: logger}
}

// Run seeds the tree in order. Sort order follows the position among siblings.
func (s *Seeder) Run(ctx context.Context, tree []Node) (*Result, error) {
	result := &Result{}
	if err := s.seedLevel(ctx, nil, tree, result); err != nil {
		return result, err
	}
	return result, nil
}

func (s *Seeder) seedLevel(ctx context.Context, parentID *string, nodes []Node, result *Result) error {
	var (
		siblings []models.Category
		err      error
	)
	if parentID == nil {
		siblings, err = s.api.ListRoots(ctx)
	} else {
		siblings, err = s.api.ListChildren(ctx, *parentID)
	}
	if err != nil {
		return err
	}

	for i, node := range nodes {
		id, ok, err := s.ensure(ctx, parentID, siblings, node, i+1, result)
		if err != nil {
			return err
		}
		if !ok || len(node.Children) == 0 {
			continue
		}
		if err := s.seedLevel(ctx, &id, node.Children, result); err != nil {
			return err
		}
	}
	return nil
}

// ensure returns the id of the category for node, creating it when needed.
// ok is false when the name is held elsewhere and the node was skipped.
func (s *Seeder) ensure(ctx context.Context, parentID *string, siblings []models.Category, node Node, position int, result *Result) (string, bool, error) {
	key := models.FoldName(node.Name)
	for _, existing := range siblings {
		if models.FoldName(existing.Name) == key {
			result.Existing++
			return existing.ID, true, nil
		}
	}

	sortOrder := position
	created, err := s.api.Create(ctx, client.CategoryInput{
		Name:        node.Name,
		Description: node.Description,
		ColorCode:   node.ColorCode,
		IconName:    node.IconName,
		SortOrder:   &sortOrder,
		ParentID:    parentID,
	})
	if err != nil {
		var apiErr *client.APIError
		if errors.As(err, &apiErr) && apiErr.Code == "DUPLICATE_CATEGORY" {
			s.logger.Warnw("category name already in use elsewhere, skipping", "name", node.Name)
			result.Skipped = append(result.Skipped, node.Name)
			return "", false, nil
		}
		return "", false, fmt.Errorf("seeding %q: %w", node.Name, err)
	}

	s.logger.Infow("category seeded", "id", created.ID, "name", created.Name)
	result.Created++
	return created.ID, true, nil
}
