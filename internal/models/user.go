package models

import (
	"strings"
	"time"
)

// User represents an account that owns categories, expenses and budgets.
type User struct {
	Model
	Email             string     `json:"email" gorm:"uniqueIndex" example:"morre@example.com"`
	HashedPassword    string     `json:"-"`
	FirstName         string     `json:"first_name,omitempty"`
	LastName          string     `json:"last_name,omitempty"`
	IsActive          bool       `json:"is_active" gorm:"default:true"`
	IsAdmin           bool       `json:"is_admin" gorm:"default:false"`
	PreferredCurrency string     `json:"preferred_currency" gorm:"default:USD" example:"EUR"`
	LastLogin         *time.Time `json:"last_login"`
}

// DisplayName returns the name used on rendered reports.
func (u User) DisplayName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name != "" {
		return name
	}

	return u.Email
}
