package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"lantern/auth"
	"lantern/database"
)

// Context keys set by the auth middlewares.
const (
	ContextProject = "project"
	ContextAdmin   = "admin"
)

// APIKeyAuth authenticates the ingestion endpoint: the Bearer token is
// a project API key. The resolved project is stored in the context.
func APIKeyAuth(db *database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		apiKey, ok := bearerToken(c)
		if !ok {
			return
		}

		ctx := c.Request.Context()
		project, err := db.GetProjectByAPIKey(ctx, apiKey)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid API key"})
			c.Abort()
			return
		}

		c.Set(ContextProject, project)
		c.Next()
	}
}

// DashboardAuth authenticates dashboard endpoints: the Bearer token is
// a JWT bound to a project. Projects an admin has not allowed are
// rejected with 403.
func DashboardAuth(db *database.DB, tokens *auth.Tokens) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			return
		}

		projectID, err := tokens.ParseProjectToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			c.Abort()
			return
		}

		ctx := c.Request.Context()
		project, err := db.GetProject(ctx, projectID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "project not found for token"})
			c.Abort()
			return
		}

		if !project.IsAllowed {
			c.JSON(http.StatusForbidden, gin.H{"error": "project is not allowed"})
			c.Abort()
			return
		}

		c.Set(ContextProject, project)
		c.Next()
	}
}

// AdminAuth authenticates admin endpoints: the Bearer token is a JWT
// carrying the admin role.
func AdminAuth(db *database.DB, tokens *auth.Tokens) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			return
		}

		adminID, err := tokens.ParseAdminToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "admin access required"})
			c.Abort()
			return
		}

		ctx := c.Request.Context()
		admin, err := db.GetAdmin(ctx, adminID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}

		c.Set(ContextAdmin, admin)
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")

	if authHeader == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization header required"})
		c.Abort()
		return "", false
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization format"})
		c.Abort()
		return "", false
	}

	return parts[1], true
}
