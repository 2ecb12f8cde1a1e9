package dto

import (
	"strings"
	"time"

	"github.com/bakery/backend/internal/domain/order"
	"github.com/bakery/backend/internal/domain/report"
	"github.com/bakery/backend/internal/domain/shared"
)

// DateLayout is the wire format of start_date and end_date
const DateLayout = "2006-01-02"

// ReportQuery holds the query parameters shared by every report endpoint
// @Description Report filters
type ReportQuery struct {
	// Categories accepts repeated parameters and comma separated lists
	Categories []string `form:"categories" binding:"max=100,dive,max=512" example:"cat-pan,cat-tortas"`
	Period     string   `form:"period" binding:"omitempty,oneof=daily weekly monthly" example:"monthly"`
	Metrics    string   `form:"metrics" binding:"omitempty,oneof=ingresos cantidad both" example:"both"`
	Segment    string   `form:"segment" binding:"omitempty,oneof=none all b2b b2c" example:"all"`
	DateField  string   `form:"date_field" binding:"omitempty,datefield" example:"dueDate"`
	StartDate  string   `form:"start_date" binding:"omitempty,datetime=2006-01-02" example:"2024-03-01"`
	EndDate    string   `form:"end_date" binding:"omitempty,datetime=2006-01-02" example:"2024-03-31"`
	GroupBy    string   `form:"group_by" binding:"omitempty,oneof=total month" example:"month"`
}

// ToOptions converts the query into report options. Dates are midnight in loc.
func (q ReportQuery) ToOptions(loc *time.Location) (report.Options, error) {
	if loc == nil {
		loc = time.UTC
	}
	opts := report.Options{
		Categories: splitList(q.Categories),
		Period:     report.Period(q.Period),
		Metrics:    report.Metrics(q.Metrics),
		Segment:    report.SegmentFilter(q.Segment),
		DateField:  order.DateField(q.DateField),
		GroupBy:    report.GroupBy(q.GroupBy),
	}

	var err error
	if opts.StartDate, err = parseDay(q.StartDate, "start_date", loc); err != nil {
		return report.Options{}, err
	}
	if opts.EndDate, err = parseDay(q.EndDate, "end_date", loc); err != nil {
		return report.Options{}, err
	}
	return opts, opts.Validate()
}

func parseDay(value, field string, loc *time.Location) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(DateLayout, value, loc)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", field+": invalid date format, expected YYYY-MM-DD")
	}
	return &t, nil
}

// splitList flattens comma separated entries and drops blanks and duplicates
func splitList(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]struct{})
	out := make([]string, 0, len(values))
	for _, v := range values {
		for part := range strings.SplitSeq(v, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			if _, dup := seen[part]; dup {
				continue
			}
			seen[part] = struct{}{}
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// UpdateReportSettingsRequest changes the bakery's default report date field
// @Description Report settings update
type UpdateReportSettingsRequest struct {
	// DefaultDateField is dueDate, paymentDate or preparationDate; empty clears the preference
	DefaultDateField *string `json:"defaultDateField" binding:"required" example:"paymentDate"`
}
