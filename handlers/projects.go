package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"lantern/auth"
	"lantern/database"
	"lantern/models"
)

// CreateProject handles project signup.
func CreateProject(db *database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.CreateProjectRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create project"})
			return
		}

		ctx := c.Request.Context()
		project, err := db.CreateProject(ctx, req, hash)
		if err != nil {
			if errors.Is(err, database.ErrDuplicate) {
				c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
				return
			}
			log.Error().Err(err).Msg("project signup failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create project"})
			return
		}

		c.JSON(http.StatusCreated, project)
	}
}

// LoginProject exchanges email+password for a dashboard session token.
func LoginProject(db *database.DB, tokens *auth.Tokens) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.ProjectLoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx := c.Request.Context()
		project, err := db.GetProjectByEmail(ctx, req.Email)
		if err != nil || !auth.CheckPassword(project.PasswordHash, req.Password) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}

		token, err := tokens.IssueProjectToken(project.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue token"})
			return
		}

		c.JSON(http.StatusOK, models.LoginResponse{
			AccessToken: token,
			TokenType:   "bearer",
			Project:     *project,
		})
	}
}

// GetOwnProject returns the authenticated project's profile.
func GetOwnProject() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, currentProject(c))
	}
}

// UpdateOwnProject applies profile changes for the authenticated
// project. The is_allowed gate is ignored here; only admins toggle it.
func UpdateOwnProject(db *database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.UpdateProjectRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		req.IsAllowed = nil

		project := currentProject(c)
		updated, err := db.UpdateProject(c.Request.Context(), project.ID, req)
		if err != nil {
			if errors.Is(err, database.ErrDuplicate) {
				c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update project"})
			return
		}

		c.JSON(http.StatusOK, updated)
	}
}

// Helper functions

func parseProjectID(c *gin.Context) (uuid.UUID, bool) {
	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project ID"})
		return uuid.Nil, false
	}
	return projectID, true
}
