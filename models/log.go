package models

import (
	"time"

	"github.com/google/uuid"
)

// Canonical log levels. Every ingested level string normalizes to one
// of these three.
const (
	LevelInfo  = "INFO"
	LevelWarn  = "WARN"
	LevelError = "ERROR"
)

// System category names seeded for every project before its first
// ingestion, in the order they are created.
const (
	CategoryGeneral = "GENERAL"
	CategoryError   = "ERROR"
	CategoryAuth    = "AUTH"
	CategoryDB      = "DB"
	CategoryAPI     = "API"
)

// SystemCategories lists the five seeded category names in creation order.
var SystemCategories = []string{
	CategoryGeneral,
	CategoryError,
	CategoryAuth,
	CategoryDB,
	CategoryAPI,
}

// LogCategory is a named classification bucket scoped to one project.
// System categories are seeded automatically; the rest are user-defined.
type LogCategory struct {
	ID        int       `json:"id"`
	ProjectID uuid.UUID `json:"project_id"`
	Name      string    `json:"name"`
	IsSystem  bool      `json:"is_system"`
	CreatedAt time.Time `json:"created_at"`
}

// LogEntry is one stored log event. Meta holds the arbitrary structured
// payload supplied by the client. TZOffset records the UTC offset of
// the client-supplied timestamp ("+05:30") and backs bulk deletion by
// timezone; it is not part of the API response shape.
type LogEntry struct {
	ID          int64          `json:"id"`
	ProjectID   uuid.UUID      `json:"-"`
	CategoryID  int            `json:"category_id"`
	Timestamp   time.Time      `json:"timestamp"`
	TZOffset    string         `json:"-"`
	Level       string         `json:"level"`
	Service     string         `json:"service,omitempty"`
	Environment string         `json:"environment,omitempty"`
	Message     string         `json:"message"`
	Meta        map[string]any `json:"meta,omitempty"`
	CreatedAt   time.Time      `json:"-"`
}

// PendingLog is the transient shape between normalization and the bulk
// write. Category starts as a name or id reference and must be fully
// resolved to an id before the row is inserted.
type PendingLog struct {
	ProjectID   uuid.UUID
	Timestamp   time.Time
	TZOffset    string
	Level       string
	Service     string
	Environment string
	Message     string
	Meta        map[string]any
	Category    CategoryRef
}

// IngestItem is one log event in an ingestion request.
type IngestItem struct {
	Timestamp *time.Time     `json:"timestamp"`
	Level     string         `json:"level" binding:"required"`
	Message   string         `json:"message" binding:"required"`
	Meta      map[string]any `json:"meta"`
}

// IngestRequest is the API-key-authenticated ingestion payload.
// Service and environment apply to every item in the batch.
type IngestRequest struct {
	Service     string       `json:"service"`
	Environment string       `json:"environment"`
	Logs        []IngestItem `json:"logs" binding:"required,min=1,dive"`
}

// QueryParams are the dashboard query filters. All are optional and
// combine with AND.
type QueryParams struct {
	Level    string `form:"level"`
	Category string `form:"category"`
	Service  string `form:"service"`
	From     string `form:"from"`
	To       string `form:"to"`
	Search   string `form:"search"`
	Limit    int    `form:"limit"`
	Offset   int    `form:"offset"`
}

type LogsPage struct {
	Total  int64      `json:"total"`
	Limit  int        `json:"limit"`
	Offset int        `json:"offset"`
	Items  []LogEntry `json:"items"`
}

type SearchPage struct {
	Total int64      `json:"total"`
	Items []LogEntry `json:"items"`
}

// CategoryItem is the category listing shape.
type CategoryItem struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	IsSystem bool   `json:"is_system"`
}

type CategoriesResponse struct {
	Items []CategoryItem `json:"items"`
}
