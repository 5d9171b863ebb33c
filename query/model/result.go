package model

import "time"

// TimestampLayout is the ISO-8601 layout of transaction timestamps,
// always rendered in UTC with millisecond precision.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Timestamp formats t in UTC with TimestampLayout.
func Timestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// Result is the outcome of a raw statement: the rows it returned, or the
// number of rows it changed.
type Result struct {
	Rows         []*Row
	RowsAffected int64
}
