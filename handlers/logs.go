package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"lantern/database"
	"lantern/middleware"
	"lantern/models"
	"lantern/pipeline"
)

func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// IngestLogs handles the API-key-authenticated ingestion endpoint.
// System categories are seeded first, then the batch is normalized and
// categorized in memory and written in one transaction. The 202 status
// mirrors the contract; processing is synchronous.
func IngestLogs(db *database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.IngestRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		project := currentProject(c)
		ctx := c.Request.Context()

		if err := db.SeedSystemCategories(ctx, project.ID); err != nil {
			log.Error().Err(err).Str("project", project.ID.String()).Msg("seeding failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to ingest logs"})
			return
		}

		categories, err := db.ListCategories(ctx, project.ID)
		if err != nil {
			log.Error().Err(err).Str("project", project.ID.String()).Msg("category listing failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to ingest logs"})
			return
		}

		pending := pipeline.Process(req, project.ID, categories, nil)
		if len(pending) == 0 {
			c.JSON(http.StatusAccepted, gin.H{"message": "No logs to insert", "count": 0})
			return
		}

		count, err := db.InsertLogsBatch(ctx, project.ID, pending)
		if err != nil {
			log.Error().Err(err).Str("project", project.ID.String()).Msg("bulk insert failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to ingest logs"})
			return
		}

		c.JSON(http.StatusAccepted, gin.H{
			"message": fmt.Sprintf("Successfully ingested %d logs", count),
			"count":   count,
		})
	}
}

// DashboardLogs serves filtered, paginated read access for the
// authenticated project.
func DashboardLogs(db *database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var params models.QueryParams
		if err := c.ShouldBindQuery(&params); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		project := currentProject(c)
		logs, total, err := db.QueryLogs(c.Request.Context(), project.ID, params)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, models.LogsPage{
			Total:  total,
			Limit:  clampLimit(params.Limit),
			Offset: clampOffset(params.Offset),
			Items:  logs,
		})
	}
}

// SearchLogs substring-matches q across all textual log fields.
func SearchLogs(db *database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		q := c.Query("q")
		if q == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter q is required"})
			return
		}

		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
		offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

		project := currentProject(c)
		logs, total, err := db.SearchLogs(c.Request.Context(), project.ID, q, limit, offset)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to search logs"})
			return
		}

		c.JSON(http.StatusOK, models.SearchPage{Total: total, Items: logs})
	}
}

// ListCategories returns the project's categories.
func ListCategories(db *database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		project := currentProject(c)
		categories, err := db.ListCategories(c.Request.Context(), project.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list categories"})
			return
		}

		items := make([]models.CategoryItem, 0, len(categories))
		for _, cat := range categories {
			items = append(items, models.CategoryItem{
				ID:       cat.ID,
				Name:     cat.Name,
				IsSystem: cat.IsSystem,
			})
		}

		c.JSON(http.StatusOK, models.CategoriesResponse{Items: items})
	}
}

// DeleteLogsByTimezone bulk-deletes the project's logs recorded with
// the given client UTC offset.
func DeleteLogsByTimezone(db *database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		offset := c.Query("timezone_offset")
		if offset == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter timezone_offset is required"})
			return
		}

		project := currentProject(c)
		if _, err := db.DeleteLogsByTimezone(c.Request.Context(), project.ID, offset); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		c.Status(http.StatusNoContent)
	}
}

// GetLog fetches a single log scoped to the authenticated project.
func GetLog(db *database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		logID, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid log ID"})
			return
		}

		project := currentProject(c)
		entry, err := db.GetLog(c.Request.Context(), project.ID, logID)
		if err != nil {
			if errors.Is(err, database.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "log not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get log"})
			return
		}

		c.JSON(http.StatusOK, entry)
	}
}

// DeleteLog removes a single log scoped to the authenticated project.
func DeleteLog(db *database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		logID, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid log ID"})
			return
		}

		project := currentProject(c)
		if err := db.DeleteLog(c.Request.Context(), project.ID, logID); err != nil {
			if errors.Is(err, database.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "log not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete log"})
			return
		}

		c.Status(http.StatusNoContent)
	}
}

// Helper functions

func currentProject(c *gin.Context) *models.Project {
	return c.MustGet(middleware.ContextProject).(*models.Project)
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return 50
	}
	if limit > 200 {
		return 200
	}
	return limit
}

func clampOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}
