package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"lantern/auth"
	"lantern/database"
	"lantern/models"
)

// CreateAdmin registers an operator account.
func CreateAdmin(db *database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.CreateAdminRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create admin"})
			return
		}

		admin, err := db.CreateAdmin(c.Request.Context(), req.Email, hash)
		if err != nil {
			if errors.Is(err, database.ErrDuplicate) {
				c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create admin"})
			return
		}

		c.JSON(http.StatusCreated, admin)
	}
}

// LoginAdmin exchanges email+password for an admin session token.
func LoginAdmin(db *database.DB, tokens *auth.Tokens) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.AdminLoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		admin, err := db.GetAdminByEmail(c.Request.Context(), req.Email)
		if err != nil || !auth.CheckPassword(admin.PasswordHash, req.Password) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}

		token, err := tokens.IssueAdminToken(admin.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue token"})
			return
		}

		c.JSON(http.StatusOK, models.AdminTokenResponse{
			AccessToken: token,
			TokenType:   "bearer",
		})
	}
}

// ListProjects returns all projects for the admin dashboard.
func ListProjects(db *database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		projects, err := db.ListProjects(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list projects"})
			return
		}

		c.JSON(http.StatusOK, models.ProjectsResponse{
			Projects: projects,
			Total:    len(projects),
		})
	}
}

// GetProject returns one project by id for the admin dashboard.
func GetProject(db *database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		projectID, ok := parseProjectID(c)
		if !ok {
			return
		}

		project, err := db.GetProject(c.Request.Context(), projectID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
			return
		}

		c.JSON(http.StatusOK, project)
	}
}

// UpdateProject applies admin edits, including the is_allowed gate.
func UpdateProject(db *database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		projectID, ok := parseProjectID(c)
		if !ok {
			return
		}

		var req models.UpdateProjectRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		updated, err := db.UpdateProject(c.Request.Context(), projectID, req)
		if err != nil {
			switch {
			case errors.Is(err, database.ErrNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
			case errors.Is(err, database.ErrDuplicate):
				c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update project"})
			}
			return
		}

		c.JSON(http.StatusOK, updated)
	}
}

// SetProjectAllowed builds the allow/disallow toggle handlers.
func SetProjectAllowed(db *database.DB, allowed bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		projectID, ok := parseProjectID(c)
		if !ok {
			return
		}

		if err := db.SetProjectAllowed(c.Request.Context(), projectID, allowed); err != nil {
			if errors.Is(err, database.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update project"})
			return
		}

		status := "disallowed"
		if allowed {
			status = "allowed"
		}
		c.JSON(http.StatusOK, gin.H{"status": status, "project_id": projectID})
	}
}

// DeleteProject removes a project and everything it owns.
func DeleteProject(db *database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		projectID, ok := parseProjectID(c)
		if !ok {
			return
		}

		if err := db.DeleteProject(c.Request.Context(), projectID); err != nil {
			if errors.Is(err, database.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete project"})
			return
		}

		c.Status(http.StatusNoContent)
	}
}
