package database

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lantern/models"
)

// seededProject creates a project with its system categories in place.
func seededProject(t *testing.T, db *DB, name string) *models.Project {
	t.Helper()
	project := CreateTestProject(t, db, name)
	require.NoError(t, db.SeedSystemCategories(context.Background(), project.ID))
	return project
}

func pendingLog(msg, level, category string, ts time.Time) models.PendingLog {
	return models.PendingLog{
		Timestamp: ts,
		TZOffset:  "+00:00",
		Level:     level,
		Message:   msg,
		Category:  models.CategoryName(category),
	}
}

func TestInsertLogsBatch(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db := GetTestDB()
	CleanupTestDB(t, db)

	ctx := context.Background()
	project := seededProject(t, db, "insert-batch")
	now := time.Now().UTC()

	pending := []models.PendingLog{
		pendingLog("first", models.LevelInfo, models.CategoryGeneral, now),
		pendingLog("second", models.LevelWarn, models.CategoryAuth, now.Add(time.Second)),
		pendingLog("third", models.LevelError, models.CategoryError, now.Add(2*time.Second)),
	}
	pending[1].Service = "api-gw"
	pending[1].Environment = "prod"
	pending[2].Meta = map[string]any{"request_id": "abc-123"}

	count, err := db.InsertLogsBatch(ctx, project.ID, pending)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	logs, total, err := db.QueryLogs(ctx, project.ID, models.QueryParams{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, logs, 3)

	// Newest first.
	assert.Equal(t, "third", logs[0].Message)
	assert.Equal(t, "second", logs[1].Message)
	assert.Equal(t, "first", logs[2].Message)

	assert.Equal(t, "api-gw", logs[1].Service)
	assert.Equal(t, "prod", logs[1].Environment)
	assert.Equal(t, "", logs[2].Service)
	assert.Equal(t, "abc-123", logs[0].Meta["request_id"])
	assert.Equal(t, "+00:00", logs[0].TZOffset)
}

func TestInsertLogsBatch_Empty(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db := GetTestDB()
	CleanupTestDB(t, db)

	project := seededProject(t, db, "insert-empty")

	count, err := db.InsertLogsBatch(context.Background(), project.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestInsertLogsBatch_UnknownCategoryWritesNothing(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db := GetTestDB()
	CleanupTestDB(t, db)

	ctx := context.Background()
	project := seededProject(t, db, "insert-unknown")
	now := time.Now().UTC()

	pending := []models.PendingLog{
		pendingLog("good", models.LevelInfo, models.CategoryGeneral, now),
		pendingLog("bad", models.LevelInfo, "DOES_NOT_EXIST", now),
	}

	_, err := db.InsertLogsBatch(ctx, project.ID, pending)
	require.ErrorIs(t, err, ErrUnknownCategory)

	_, total, err := db.QueryLogs(ctx, project.ID, models.QueryParams{})
	require.NoError(t, err)
	assert.Equal(t, int64(0), total, "a failed batch must leave no partial rows")
}

func TestQueryLogs_Filters(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db := GetTestDB()
	CleanupTestDB(t, db)

	ctx := context.Background()
	project := seededProject(t, db, "query-filters")
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	pending := []models.PendingLog{
		pendingLog("user login ok", models.LevelInfo, models.CategoryAuth, base),
		pendingLog("query slow", models.LevelWarn, models.CategoryDB, base.Add(time.Hour)),
		pendingLog("db timeout", models.LevelError, models.CategoryError, base.Add(2*time.Hour)),
	}
	pending[0].Service = "auth-svc"
	pending[1].Service = "billing"
	pending[2].Service = "billing"

	_, err := db.InsertLogsBatch(ctx, project.ID, pending)
	require.NoError(t, err)

	t.Run("by level case insensitive", func(t *testing.T) {
		logs, total, err := db.QueryLogs(ctx, project.ID, models.QueryParams{Level: "error"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, logs, 1)
		assert.Equal(t, "db timeout", logs[0].Message)
	})

	t.Run("by category name", func(t *testing.T) {
		logs, total, err := db.QueryLogs(ctx, project.ID, models.QueryParams{Category: models.CategoryDB})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, logs, 1)
		assert.Equal(t, "query slow", logs[0].Message)
	})

	t.Run("by service", func(t *testing.T) {
		_, total, err := db.QueryLogs(ctx, project.ID, models.QueryParams{Service: "billing"})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
	})

	t.Run("by time range inclusive", func(t *testing.T) {
		logs, total, err := db.QueryLogs(ctx, project.ID, models.QueryParams{
			From: base.Format(time.RFC3339),
			To:   base.Add(time.Hour).Format(time.RFC3339),
		})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		require.Len(t, logs, 2)
		assert.Equal(t, "query slow", logs[0].Message)
	})

	t.Run("bad time range", func(t *testing.T) {
		_, _, err := db.QueryLogs(ctx, project.ID, models.QueryParams{From: "yesterday"})
		assert.Error(t, err)
	})

	t.Run("substring search over message", func(t *testing.T) {
		_, total, err := db.QueryLogs(ctx, project.ID, models.QueryParams{Search: "TIMEOUT"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
	})

	t.Run("filters combine with AND", func(t *testing.T) {
		_, total, err := db.QueryLogs(ctx, project.ID, models.QueryParams{
			Service: "billing",
			Level:   models.LevelWarn,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
	})
}

func TestQueryLogs_Pagination(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db := GetTestDB()
	CleanupTestDB(t, db)

	ctx := context.Background()
	project := seededProject(t, db, "query-pages")
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	pending := []models.PendingLog{
		pendingLog("e1", models.LevelError, models.CategoryError, base),
		pendingLog("e2", models.LevelError, models.CategoryError, base.Add(time.Minute)),
		pendingLog("e3", models.LevelError, models.CategoryError, base.Add(2*time.Minute)),
	}
	_, err := db.InsertLogsBatch(ctx, project.ID, pending)
	require.NoError(t, err)

	logs, total, err := db.QueryLogs(ctx, project.ID, models.QueryParams{
		Level: models.LevelError, Limit: 1, Offset: 0,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total, "total reflects the full filtered count")
	require.Len(t, logs, 1)
	assert.Equal(t, "e3", logs[0].Message, "newest first")

	logs, _, err = db.QueryLogs(ctx, project.ID, models.QueryParams{
		Level: models.LevelError, Limit: 1, Offset: 2,
	})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "e1", logs[0].Message)
}

func TestQueryLogs_ProjectIsolation(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db := GetTestDB()
	CleanupTestDB(t, db)

	ctx := context.Background()
	project1 := seededProject(t, db, "iso-1")
	project2 := seededProject(t, db, "iso-2")
	now := time.Now().UTC()

	_, err := db.InsertLogsBatch(ctx, project1.ID, []models.PendingLog{
		pendingLog("only mine", models.LevelInfo, models.CategoryGeneral, now),
	})
	require.NoError(t, err)

	_, total, err := db.QueryLogs(ctx, project2.ID, models.QueryParams{})
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
}

func TestSearchLogs(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db := GetTestDB()
	CleanupTestDB(t, db)

	ctx := context.Background()
	project := seededProject(t, db, "search")
	now := time.Now().UTC()

	pending := []models.PendingLog{
		pendingLog("checkout failed", models.LevelError, models.CategoryError, now),
		pendingLog("cache warmed", models.LevelInfo, models.CategoryGeneral, now.Add(time.Second)),
	}
	pending[0].Service = "payments"
	pending[0].Meta = map[string]any{"order": "ord-991"}
	pending[1].Environment = "staging"

	_, err := db.InsertLogsBatch(ctx, project.ID, pending)
	require.NoError(t, err)

	cases := []struct {
		name string
		q    string
		want string
	}{
		{"by message", "checkout", "checkout failed"},
		{"by service", "payments", "checkout failed"},
		{"by environment", "staging", "cache warmed"},
		{"by level", "ERROR", "checkout failed"},
		{"by meta value", "ord-991", "checkout failed"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			logs, total, err := db.SearchLogs(ctx, project.ID, tc.q, 50, 0)
			require.NoError(t, err)
			require.Equal(t, int64(1), total)
			assert.Equal(t, tc.want, logs[0].Message)
		})
	}

	t.Run("by id", func(t *testing.T) {
		logs, _, err := db.SearchLogs(ctx, project.ID, "checkout", 50, 0)
		require.NoError(t, err)
		require.Len(t, logs, 1)

		_, total, err := db.SearchLogs(ctx, project.ID, strconv.FormatInt(logs[0].ID, 10), 50, 0)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, total, int64(1))
	})

	t.Run("no match", func(t *testing.T) {
		logs, total, err := db.SearchLogs(ctx, project.ID, "zzz-nothing", 50, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(0), total)
		assert.Empty(t, logs)
	})
}

func TestDeleteLogsByTimezone(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db := GetTestDB()
	CleanupTestDB(t, db)

	ctx := context.Background()
	project := seededProject(t, db, "tz-delete")
	now := time.Now().UTC()

	ist := pendingLog("from ist", models.LevelInfo, models.CategoryGeneral, now)
	ist.TZOffset = "+05:30"
	ist2 := pendingLog("also ist", models.LevelInfo, models.CategoryGeneral, now.Add(time.Second))
	ist2.TZOffset = "+05:30"
	utc := pendingLog("from utc", models.LevelInfo, models.CategoryGeneral, now.Add(2*time.Second))

	_, err := db.InsertLogsBatch(ctx, project.ID, []models.PendingLog{ist, ist2, utc})
	require.NoError(t, err)

	deleted, err := db.DeleteLogsByTimezone(ctx, project.ID, "+05:30")
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	logs, total, err := db.QueryLogs(ctx, project.ID, models.QueryParams{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "from utc", logs[0].Message)
}

func TestDeleteLogsByTimezone_InvalidOffset(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db := GetTestDB()
	CleanupTestDB(t, db)

	project := seededProject(t, db, "tz-invalid")

	for _, offset := range []string{"", "05:30", "+5:30", "+0530", "UTC"} {
		_, err := db.DeleteLogsByTimezone(context.Background(), project.ID, offset)
		assert.Error(t, err, "offset %q", offset)
	}
}

func TestGetAndDeleteLog(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db := GetTestDB()
	CleanupTestDB(t, db)

	ctx := context.Background()
	project := seededProject(t, db, "get-delete")
	other := seededProject(t, db, "get-delete-other")
	now := time.Now().UTC()

	_, err := db.InsertLogsBatch(ctx, project.ID, []models.PendingLog{
		pendingLog("keep me", models.LevelInfo, models.CategoryGeneral, now),
	})
	require.NoError(t, err)

	logs, _, err := db.QueryLogs(ctx, project.ID, models.QueryParams{})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	logID := logs[0].ID

	entry, err := db.GetLog(ctx, project.ID, logID)
	require.NoError(t, err)
	assert.Equal(t, "keep me", entry.Message)

	// Another tenant cannot see or delete it.
	_, err = db.GetLog(ctx, other.ID, logID)
	assert.ErrorIs(t, err, ErrNotFound)
	err = db.DeleteLog(ctx, other.ID, logID)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, db.DeleteLog(ctx, project.ID, logID))

	_, err = db.GetLog(ctx, project.ID, logID)
	assert.ErrorIs(t, err, ErrNotFound)
	err = db.DeleteLog(ctx, project.ID, logID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = db.GetLog(ctx, uuid.New(), logID)
	assert.ErrorIs(t, err, ErrNotFound)
}
