package models

import (
	"golang.org/x/text/cases"
	"gorm.io/gorm"
)

// Category is a node of the expense category forest. ParentID is a plain
// reference to another category; there are no live parent/child pointers.
type Category struct {
	Base
	Name        string  `gorm:"size:100;not null" json:"name"`
	Description string  `gorm:"type:text" json:"description"`
	ColorCode   string  `gorm:"size:7" json:"color_code"`
	IconName    string  `gorm:"size:50" json:"icon_name"`
	SortOrder   *int    `json:"sort_order"`
	ParentID    *string `gorm:"type:uuid;index" json:"parent_id"`
	IsActive    bool    `gorm:"not null;default:true" json:"is_active"`
	CreatedBy   string  `gorm:"size:100" json:"created_by"`
	UpdatedBy   string  `gorm:"size:100" json:"updated_by"`

	// Case-folded copies of Name and Description. Uniqueness and search
	// compare these so every driver folds the same way.
	NameKey        string `gorm:"size:400;not null;default:''" json:"-"`
	DescriptionKey string `gorm:"type:text;not null;default:''" json:"-"`
}

// FoldName returns the Unicode case-folded form of s.
func FoldName(s string) string {
	return cases.Fold().String(s)
}

// IsRoot reports whether the category has no parent.
func (c *Category) IsRoot() bool {
	return c.ParentID == nil
}

// FoldKeys recomputes NameKey and DescriptionKey.
func (c *Category) FoldKeys() {
	c.NameKey = FoldName(c.Name)
	c.DescriptionKey = FoldName(c.Description)
}

// BeforeSave keeps the folded keys in step with Name and Description.
func (c *Category) BeforeSave(tx *gorm.DB) error {
	c.FoldKeys()
	return nil
}
