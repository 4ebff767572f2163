package models

import (
	"gorm.io/gorm"
)

// Category classifies the expenses and budgets of a single user.
type Category struct {
	Model
	Name        string `json:"name" example:"Groceries"`
	Description string `json:"description,omitempty" example:"Food and household items"`
	Color       string `json:"color" gorm:"default:#3498db" example:"#4CAF50"`
	Icon        string `json:"icon" gorm:"default:tag" example:"tag"`
	UserID      uint   `json:"user_id"`
	User        User   `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

// ExpenseCount returns the number of expenses referencing the category.
//
// A category can only be deleted when this is zero.
func (c Category) ExpenseCount(db *gorm.DB) (int64, error) {
	var count int64
	err := db.Model(&Expense{}).Where("category_id = ?", c.ID).Count(&count).Error
	return count, err
}

// FirstOwned fetches the resource with a specific ID, scoped to its owner.
//
// Rows owned by other users are indistinguishable from rows that do not
// exist: both return the resource not found error.
func FirstOwned[R Category | Expense | Budget](db *gorm.DB, resource *R, id uint, userID uint) error {
	return db.Where("id = ? AND user_id = ?", id, userID).First(resource).Error
}
