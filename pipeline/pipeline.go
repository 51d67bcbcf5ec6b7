// Package pipeline holds the pure half of log ingestion: level and
// timestamp normalization plus categorization. It performs no I/O;
// category name resolution and persistence happen in the database layer.
package pipeline

import (
	"time"

	"github.com/google/uuid"

	"lantern/models"
)

// Process normalizes and categorizes every item of an ingestion
// request into pending logs ready for category resolution. categories
// must be the project's full category set in creation order.
func Process(req models.IngestRequest, projectID uuid.UUID, categories []models.LogCategory, now func() time.Time) []models.PendingLog {
	if now == nil {
		now = time.Now
	}

	pending := make([]models.PendingLog, 0, len(req.Logs))
	for _, item := range req.Logs {
		level := NormalizeLevel(item.Level)
		ts, offset := NormalizeTimestamp(item.Timestamp, now)

		pending = append(pending, models.PendingLog{
			ProjectID:   projectID,
			Timestamp:   ts,
			TZOffset:    offset,
			Level:       level,
			Service:     req.Service,
			Environment: req.Environment,
			Message:     item.Message,
			Meta:        item.Meta,
			Category:    Categorize(level, item.Message, categories),
		})
	}

	return pending
}
