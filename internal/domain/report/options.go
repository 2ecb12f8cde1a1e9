package report

import (
	"fmt"
	"time"

	"github.com/bakery/backend/internal/domain/order"
	"github.com/bakery/backend/internal/domain/shared"
)

// Metrics selects which figures product rows expose
type Metrics string

const (
	MetricsRevenue  Metrics = "ingresos"
	MetricsQuantity Metrics = "cantidad"
	MetricsBoth     Metrics = "both"
)

// IsValid checks if the metrics selector is known
func (m Metrics) IsValid() bool {
	return m == MetricsRevenue || m == MetricsQuantity || m == MetricsBoth
}

// IncludesRevenue is false only for quantity-only reports
func (m Metrics) IncludesRevenue() bool { return m != MetricsQuantity }

// IncludesQuantity is false only for revenue-only reports
func (m Metrics) IncludesQuantity() bool { return m != MetricsRevenue }

// SegmentFilter controls B2B/B2C handling of a report
type SegmentFilter string

const (
	SegmentNone    SegmentFilter = "none" // no segment split
	SegmentAll     SegmentFilter = "all"  // split figures into b2b and b2c
	SegmentOnlyB2B SegmentFilter = "b2b"
	SegmentOnlyB2C SegmentFilter = "b2c"
)

// IsValid checks if the segment filter is known
func (s SegmentFilter) IsValid() bool {
	switch s {
	case SegmentNone, SegmentAll, SegmentOnlyB2B, SegmentOnlyB2C:
		return true
	}
	return false
}

// GroupBy selects the income statement layout
type GroupBy string

const (
	GroupByTotal GroupBy = "total"
	GroupByMonth GroupBy = "month"
)

// IsValid checks if the grouping is known
func (g GroupBy) IsValid() bool {
	return g == GroupByTotal || g == GroupByMonth
}

// Options are the caller-supplied report parameters
type Options struct {
	Categories []string
	Period     Period
	Metrics    Metrics
	Segment    SegmentFilter
	DateField  order.DateField
	StartDate  *time.Time
	EndDate    *time.Time
	GroupBy    GroupBy
}

// Normalize fills defaults for unset selectors
func (o Options) Normalize() Options {
	if o.Metrics == "" {
		o.Metrics = MetricsBoth
	}
	if o.Segment == "" {
		o.Segment = SegmentNone
	}
	if o.GroupBy == "" {
		o.GroupBy = GroupByTotal
	}
	return o
}

// Validate rejects unknown selector values. Unset values are allowed.
func (o Options) Validate() error {
	if o.Period != "" && !o.Period.IsValid() {
		return invalidOption("period", string(o.Period))
	}
	if o.Metrics != "" && !o.Metrics.IsValid() {
		return invalidOption("metrics", string(o.Metrics))
	}
	if o.Segment != "" && !o.Segment.IsValid() {
		return invalidOption("segment", string(o.Segment))
	}
	if o.DateField != "" && !o.DateField.IsValid() {
		return invalidOption("date field", o.DateField.String())
	}
	if o.GroupBy != "" && !o.GroupBy.IsValid() {
		return invalidOption("group by", string(o.GroupBy))
	}
	if o.StartDate != nil && o.EndDate != nil && DailyKey(*o.StartDate) > DailyKey(*o.EndDate) {
		return shared.NewDomainError("INVALID_INPUT", "Start date must not be after end date")
	}
	return nil
}

func invalidOption(name, value string) error {
	return shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("Unknown %s: %q", name, value))
}

// HasRange reports whether a date range was requested
func (o Options) HasRange() bool {
	return o.StartDate != nil || o.EndDate != nil
}

// InRange reports whether t falls on a day within the requested range.
// Without a range every order is in range, dated or not.
func (o Options) InRange(t *time.Time) bool {
	if !o.HasRange() {
		return true
	}
	if t == nil || t.IsZero() {
		return false
	}
	day := DailyKey(*t)
	if o.StartDate != nil && day < DailyKey(*o.StartDate) {
		return false
	}
	if o.EndDate != nil && day > DailyKey(*o.EndDate) {
		return false
	}
	return true
}

// CategoryAllowed reports whether a category passes the allow-list.
// An empty list allows everything.
func (o Options) CategoryAllowed(categoryID string) bool {
	if len(o.Categories) == 0 {
		return true
	}
	for _, c := range o.Categories {
		if c == categoryID {
			return true
		}
	}
	return false
}

// SplitSegments reports whether figures are split into b2b and b2c
func (o Options) SplitSegments() bool {
	return o.Segment == SegmentAll
}

// AcceptsSegment reports whether the segment pre-filter lets the customer segment through
func (o Options) AcceptsSegment(seg CustomerSegment) bool {
	switch o.Segment {
	case SegmentOnlyB2B:
		return seg == SegmentB2B
	case SegmentOnlyB2C:
		return seg == SegmentB2C
	}
	return true
}
