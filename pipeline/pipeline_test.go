package pipeline

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lantern/models"
)

func TestProcess_WarningLoginFallsToAuth(t *testing.T) {
	// One log {level:"warning", message:"login failed for user"} for a
	// project with only system categories seeded: level normalizes to
	// WARN and the AUTH keyword fallback applies.
	projectID := uuid.New()
	req := models.IngestRequest{
		Service:     "auth-service",
		Environment: "production",
		Logs: []models.IngestItem{
			{Level: "warning", Message: "login failed for user"},
		},
	}

	pending := Process(req, projectID, systemCategorySet(), nil)

	require.Len(t, pending, 1)
	assert.Equal(t, models.LevelWarn, pending[0].Level)
	assert.Equal(t, "auth-service", pending[0].Service)
	assert.Equal(t, "production", pending[0].Environment)

	name, ok := pending[0].Category.Name()
	require.True(t, ok)
	assert.Equal(t, models.CategoryAuth, name)
}

func TestProcess_MissingTimestampsUseRequestTime(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	req := models.IngestRequest{
		Logs: []models.IngestItem{
			{Level: "info", Message: "one"},
			{Level: "info", Message: "two"},
			{Level: "info", Message: "three"},
		},
	}

	pending := Process(req, uuid.New(), systemCategorySet(), clock)

	require.Len(t, pending, 3)
	for _, p := range pending {
		assert.Equal(t, now, p.Timestamp)
		assert.Equal(t, time.UTC, p.Timestamp.Location())
		assert.Equal(t, "+00:00", p.TZOffset)
	}
}

func TestProcess_CarriesMetaAndProjectID(t *testing.T) {
	projectID := uuid.New()
	meta := map[string]any{"request_id": "abc-123", "attempt": float64(2)}

	req := models.IngestRequest{
		Logs: []models.IngestItem{
			{Level: "error", Message: "upstream refused", Meta: meta},
		},
	}

	pending := Process(req, projectID, nil, nil)

	require.Len(t, pending, 1)
	assert.Equal(t, projectID, pending[0].ProjectID)
	assert.Equal(t, meta, pending[0].Meta)
	assert.Equal(t, "upstream refused", pending[0].Message)
}

func TestProcess_EmptyBatch(t *testing.T) {
	pending := Process(models.IngestRequest{}, uuid.New(), nil, nil)
	assert.Empty(t, pending)
}
