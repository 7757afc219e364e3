package model

import "time"

// Role grants access to parts of the API.
type Role string

const (
	RoleCompany Role = "company"
	RoleAdmin   Role = "admin"
)

// Company is a registered customer account, identified by CNPJ.
type Company struct {
	ID           string
	CNPJ         string
	Name         string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
}

// IsAdmin reports whether the account has administrative access.
func (c Company) IsAdmin() bool {
	return c.Role == RoleAdmin
}
