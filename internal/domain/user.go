package domain

import (
	"time"
)

type Role string

const (
	RoleCoordinator  Role = "协调员"
	RoleCaregiver    Role = "照护者"
	RoleFamilyMember Role = "家属"
)

type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	FullName     string    `json:"fullName"`
	Email        string    `json:"email"`
	Role         Role      `json:"role"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	Version      int32     `json:"-"`
}
