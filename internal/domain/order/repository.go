package order

import (
	"context"
	"time"
)

// ReportFilter narrows the orders loaded for a report
type ReportFilter struct {
	DateField DateField
	// StartDate and EndDate are inclusive calendar days on DateField; nil means unbounded
	StartDate *time.Time
	EndDate   *time.Time
	PaidOnly  bool
}

// HasRange reports whether a date range was requested
func (f ReportFilter) HasRange() bool {
	return f.StartDate != nil || f.EndDate != nil
}

// Repository loads order snapshots for reporting
type Repository interface {
	// FindForReport returns the bakery's orders matching the filter.
	// Orders are returned oldest first by the filter's date field, undated last.
	FindForReport(ctx context.Context, bakeryID string, filter ReportFilter) ([]Order, error)
}
