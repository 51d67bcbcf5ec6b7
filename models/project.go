package models

import (
	"time"

	"github.com/google/uuid"
)

// Project represents a multi-tenant project in Lantern.
// Each project has a unique API key used to authenticate log ingestion
// and a password credential used to log in to the dashboard.
// All logs and categories belong to exactly one project for data isolation.
type Project struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone,omitempty"`
	APIKey       string    `json:"api_key"`
	PasswordHash string    `json:"-"`
	IsAllowed    bool      `json:"is_allowed"`
	CreatedAt    time.Time `json:"created_at"`
}

// CreateProjectRequest is the signup payload for a new project.
// Name, username and email must be globally unique.
type CreateProjectRequest struct {
	Name     string `json:"name" binding:"required,min=3,max=255"`
	Username string `json:"username" binding:"required,min=3,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone"`
	Password string `json:"password" binding:"required,min=6"`
}

// UpdateProjectRequest carries optional profile changes. Nil fields are
// left untouched. IsAllowed is only honored on the admin route.
type UpdateProjectRequest struct {
	Name      *string `json:"name"`
	Username  *string `json:"username"`
	Email     *string `json:"email" binding:"omitempty,email"`
	Phone     *string `json:"phone"`
	IsAllowed *bool   `json:"is_allowed"`
}

type ProjectLoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	AccessToken string  `json:"access_token"`
	TokenType   string  `json:"token_type"`
	Project     Project `json:"project"`
}

type ProjectsResponse struct {
	Projects []Project `json:"projects"`
	Total    int       `json:"total"`
}
