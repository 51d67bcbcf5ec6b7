package pipeline

import (
	"fmt"
	"strings"
	"time"

	"lantern/models"
)

var levelMap = map[string]string{
	"info":    models.LevelInfo,
	"warn":    models.LevelWarn,
	"warning": models.LevelWarn,
	"error":   models.LevelError,
}

// NormalizeLevel maps an arbitrary client level string to one of
// INFO/WARN/ERROR. Unrecognized input falls back to INFO rather than
// erroring, to keep ingestion permissive.
func NormalizeLevel(raw string) string {
	if level, ok := levelMap[strings.ToLower(raw)]; ok {
		return level
	}
	return models.LevelInfo
}

// NormalizeTimestamp coerces an optional client timestamp to a UTC
// instant and captures the client's UTC offset as "+HH:MM". A missing
// timestamp means "now", which carries a zero offset.
func NormalizeTimestamp(ts *time.Time, now func() time.Time) (time.Time, string) {
	if ts == nil || ts.IsZero() {
		return now().UTC(), "+00:00"
	}
	_, offsetSecs := ts.Zone()
	return ts.UTC(), formatOffset(offsetSecs)
}

func formatOffset(secs int) string {
	sign := "+"
	if secs < 0 {
		sign = "-"
		secs = -secs
	}
	return fmt.Sprintf("%s%02d:%02d", sign, secs/3600, (secs%3600)/60)
}
