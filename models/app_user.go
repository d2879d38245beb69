package models

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type AppUser struct {
	ID        string    `json:"id" bson:"_id" db:"id"`
	Name      string    `json:"name" bson:"name" db:"name"`
	Username  string    `json:"username" bson:"username" db:"username"`
	Email     string    `json:"email" bson:"email" db:"email"`
	Role      string    `json:"role" bson:"role" db:"role"`
	IsActive  bool      `json:"isActive" bson:"is_active" db:"is_active"`
	Password  string    `json:"-" bson:"password_hash" db:"password_hash"`
	CreatedAt time.Time `json:"createdAt" bson:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updated_at" db:"updated_at"`
}

func (u *AppUser) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

func ValidRole(role string) bool {
	return role == RoleUser || role == RoleAdmin
}
