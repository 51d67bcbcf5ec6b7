package database

import (
	"fmt"
	"strings"
	"time"
)

const (
	columnID          = "id"
	columnProjectID   = "project_id"
	columnCategoryID  = "category_id"
	columnLevel       = "level"
	columnMessage     = "message"
	columnService     = "service"
	columnEnvironment = "environment"
	columnTimestamp   = "timestamp"
	columnMeta        = "meta"
	columnTZOffset    = "tz_offset"
)

const (
	defaultLimit = 50
	maxLimit     = 200
)

// QueryBuilder helps build WHERE clauses safely
type QueryBuilder struct {
	conditions []string
	args       []interface{}
	argCount   int
}

func NewQueryBuilder() *QueryBuilder {
	return &QueryBuilder{
		conditions: []string{},
		args:       []interface{}{},
		argCount:   1,
	}
}

func (qb *QueryBuilder) AddCondition(column string, value interface{}) {
	qb.conditions = append(qb.conditions, fmt.Sprintf("%s = $%d", column, qb.argCount))
	qb.args = append(qb.args, value)
	qb.argCount++
}

func (qb *QueryBuilder) AddTimeRange(column, start, end string) error {
	if start != "" {
		startTime, err := parseRFC3339(start)
		if err != nil {
			return fmt.Errorf("invalid from: %w", err)
		}
		qb.conditions = append(qb.conditions, fmt.Sprintf("%s >= $%d", column, qb.argCount))
		qb.args = append(qb.args, startTime)
		qb.argCount++
	}

	if end != "" {
		endTime, err := parseRFC3339(end)
		if err != nil {
			return fmt.Errorf("invalid to: %w", err)
		}
		qb.conditions = append(qb.conditions, fmt.Sprintf("%s <= $%d", column, qb.argCount))
		qb.args = append(qb.args, endTime)
		qb.argCount++
	}

	return nil
}

// AddCategoryFilter joins against the project's categories by name.
// The subquery is correlated on logs.project_id, which an earlier
// AddCondition has already constrained.
func (qb *QueryBuilder) AddCategoryFilter(name string) {
	qb.conditions = append(qb.conditions, fmt.Sprintf(
		"%s IN (SELECT id FROM log_categories WHERE name = $%d AND log_categories.project_id = logs.project_id)",
		columnCategoryID, qb.argCount))
	qb.args = append(qb.args, name)
	qb.argCount++
}

// AddSubstringSearch matches a case-insensitive substring over any of
// the given columns with a single bound argument.
func (qb *QueryBuilder) AddSubstringSearch(term string, columns ...string) {
	parts := make([]string, len(columns))
	for i, col := range columns {
		parts[i] = fmt.Sprintf("%s ILIKE $%d", col, qb.argCount)
	}
	qb.conditions = append(qb.conditions, "("+strings.Join(parts, " OR ")+")")
	qb.args = append(qb.args, "%"+term+"%")
	qb.argCount++
}

func (qb *QueryBuilder) WhereClause() string {
	if len(qb.conditions) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(qb.conditions, " AND ")
}

func (qb *QueryBuilder) Args() []interface{} {
	return qb.args
}

func (qb *QueryBuilder) NextArgNum() int {
	return qb.argCount
}

// Helper functions

func parseRFC3339(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}

func validateLimit(limit, defaultLimit, maxLimit int) int {
	if limit <= 0 {
		return defaultLimit
	}
	if limit > maxLimit {
		return maxLimit
	}
	return limit
}

func validateOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}
