package processql

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/heritage/internal/core/domain"
)

// Rows is the cursor shape shared by database/sql and pgx.
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

// ScanActivities reads every row of a query built by this package.
// The result is never nil.
func ScanActivities(rows Rows) ([]domain.ActivityRow, error) {
	result := make([]domain.ActivityRow, 0)
	for rows.Next() {
		var r domain.ActivityRow
		var tools string
		if err := rows.Scan(&r.Kind, &r.RefersTo, &r.Institute, &r.Person, &r.Technique, &r.Start, &r.End, &tools); err != nil {
			return nil, fmt.Errorf("scanning activity: %w", err)
		}
		r.Tools = SplitTools(tools)
		result = append(result, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating activities: %w", err)
	}
	return result, nil
}

// SplitTools turns an aggregated tool column into a sorted set.
func SplitTools(aggregated string) []string {
	if aggregated == "" {
		return []string{}
	}
	return domain.ToolSet(strings.Split(aggregated, ToolSeparator))
}
