package domain

import (
	"fmt"
	"time"
)

// Record is one flat row of report data produced by flattening a GraphQL
// node. Values are limited to string, float64, int64, bool, *time.Time and
// nil; Columns preserves the declared column order so sinks and exporters
// emit stable layouts.
//
// Every record carries an RSCInstance column tagging the instance it was
// fetched from.
type Record struct {
	// Type is the resource kind, e.g. "Cluster" or "ObjectCapacity".
	// Sinks use it as the table name.
	Type string

	// Columns is the ordered column list for this record type.
	Columns []string

	// Values maps column name to value. Missing or null source fields are
	// present with a nil value, never absent.
	Values map[string]any

	// Keys names the natural-key columns used for upserts.
	Keys []string
}

// Get returns the value for a column, nil if unset.
func (r *Record) Get(column string) any {
	if r.Values == nil {
		return nil
	}
	return r.Values[column]
}

// GetString returns the string value for a column, empty if unset or not a
// string.
func (r *Record) GetString(column string) string {
	s, _ := r.Get(column).(string)
	return s
}

// GetTime returns the time value for a column, nil if unset.
func (r *Record) GetTime(column string) *time.Time {
	t, _ := r.Get(column).(*time.Time)
	return t
}

// FormatValue renders a record value for CSV or table output. Nil renders
// as an empty string, timestamps as RFC 3339 UTC.
func FormatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case *time.Time:
		if val == nil {
			return ""
		}
		return val.UTC().Format(time.RFC3339)
	case time.Time:
		return val.UTC().Format(time.RFC3339)
	case float64:
		return fmt.Sprintf("%g", val)
	case string:
		return val
	default:
		return fmt.Sprintf("%v", val)
	}
}
