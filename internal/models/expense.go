package models

import "time"

// Expense is a spending record. Only its category reference matters to the
// category service, which refuses to physically remove referenced categories.
type Expense struct {
	Base
	CategoryID  string    `gorm:"type:uuid;not null;index" json:"category_id"`
	Amount      int64     `gorm:"not null" json:"amount"`
	Description string    `json:"description"`
	SpentOn     time.Time `json:"spent_on"`
	CreatedBy   string    `gorm:"size:100" json:"created_by"`
}
