package models

import "time"

// User roles.
const (
	RoleAdmin           = "admin"
	RoleCustomer        = "customer"
	RoleServiceProvider = "service_provider"
)

// User is a customer, technician or admin account.
type User struct {
	ID           string     `gorm:"primaryKey" json:"id"`
	Email        string     `gorm:"uniqueIndex" json:"email"`
	PasswordHash string     `json:"-"`
	Name         string     `json:"name"`
	Role         string     `json:"role"`
	FCMToken     string     `json:"-"`
	AMCActive    bool       `json:"amcActive"`
	AMCExpiresAt *time.Time `json:"amcExpiresAt,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// AMCValid reports whether the user's AMC subscription is active at t.
func (u *User) AMCValid(t time.Time) bool {
	if !u.AMCActive {
		return false
	}
	if u.AMCExpiresAt != nil && u.AMCExpiresAt.Before(t) {
		return false
	}
	return true
}
