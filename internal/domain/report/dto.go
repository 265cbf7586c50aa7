package report

import (
	"fmt"
	"strings"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/validator"
)

// ========================================
// SUMMARY WINDOWS
// ========================================

type Period string

const (
	PeriodDaily   Period = "daily"
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"
	PeriodAll     Period = "all"
)

// ParsePeriod defaults to PeriodAll when s is empty.
func ParsePeriod(s string) (Period, error) {
	switch p := Period(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return PeriodAll, nil
	case PeriodDaily, PeriodWeekly, PeriodMonthly, PeriodAll:
		return p, nil
	default:
		return "", ErrInvalidPeriod
	}
}

// Includes reports whether a request for p covers the single window w.
func (p Period) Includes(w Period) bool {
	return p == PeriodAll || p == w
}

type MySummaryRequest struct {
	UserID string
	Period Period
}

type MySummaryResponse struct {
	Today   *attendance.AttendanceResponse  `json:"today"`
	Weekly  []attendance.AttendanceResponse `json:"weekly"`
	Monthly []attendance.AttendanceResponse `json:"monthly"`
}

type StatusSummaryRequest struct {
	UserID *string
	Period Period
}

func (r *StatusSummaryRequest) Validate() error {
	if r.UserID != nil && validator.IsEmpty(*r.UserID) {
		r.UserID = nil
	}
	if r.UserID != nil && !validator.IsValidUUID(*r.UserID) {
		return validator.ValidationErrors{{
			Field:   "user_id",
			Message: "user_id must be a valid UUID",
		}}
	}
	return nil
}

type WindowCounts struct {
	From   string                  `json:"from"`
	To     string                  `json:"to"`
	Total  int64                   `json:"total"`
	Counts attendance.StatusCounts `json:"counts"`
}

type StatusSummaryResponse struct {
	Daily   *WindowCounts `json:"daily,omitempty"`
	Weekly  *WindowCounts `json:"weekly,omitempty"`
	Monthly *WindowCounts `json:"monthly,omitempty"`
}

// ========================================
// ADMIN REPORT
// ========================================

// MaxPage keeps (Page-1)*Limit far from integer overflow.
const MaxPage = 1_000_000

type ReportFilter struct {
	// Search & Filter
	UserID    *string `json:"user_id,omitempty"`
	Status    *string `json:"status,omitempty"`
	StartDate *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate   *string `json:"end_date,omitempty"`   // YYYY-MM-DD

	// Pagination
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (f *ReportFilter) Validate() error {
	var errs validator.ValidationErrors

	// Page validation
	if f.Page < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "page",
			Message: "page must be a positive number",
		})
	}
	if f.Page == 0 {
		f.Page = 1 // Default page
	}
	if f.Page > MaxPage {
		errs = append(errs, validator.ValidationError{
			Field:   "page",
			Message: fmt.Sprintf("page must not exceed %d", MaxPage),
		})
	}

	// Limit validation
	if f.Limit < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must be a positive number",
		})
	}
	if f.Limit == 0 {
		f.Limit = 20 // Default limit
	}
	if f.Limit > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must not exceed 100",
		})
	}

	if f.UserID != nil && validator.IsEmpty(*f.UserID) {
		f.UserID = nil
	}
	if f.UserID != nil && !validator.IsValidUUID(*f.UserID) {
		errs = append(errs, validator.ValidationError{
			Field:   "user_id",
			Message: "user_id must be a valid UUID",
		})
	}

	// Status validation
	if f.Status != nil && *f.Status != "" {
		if !attendance.Status(*f.Status).IsValid() {
			errs = append(errs, validator.ValidationError{
				Field:   "status",
				Message: "status must be one of: Present, Absent, Leave",
			})
		}
	}

	// Date validation
	start, startOK := parseOptionalDate(f.StartDate)
	if !startOK {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must be in YYYY-MM-DD format",
		})
	}

	end, endOK := parseOptionalDate(f.EndDate)
	if !endOK {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must be in YYYY-MM-DD format",
		})
	}

	if start != nil && end != nil && end.Before(*start) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: ErrInvalidDateRange.Error(),
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// Query converts a validated filter into a store query. Pagination is applied only when paged is true.
func (f *ReportFilter) Query(paged bool) attendance.Query {
	q := attendance.Query{}
	if f.UserID != nil {
		q.UserID = *f.UserID
	}
	if f.Status != nil {
		q.Status = attendance.Status(*f.Status)
	}
	q.FromDay, _ = parseOptionalDate(f.StartDate)
	q.ToDay, _ = parseOptionalDate(f.EndDate)
	if paged {
		q.Limit = f.Limit
		q.Offset = (f.Page - 1) * f.Limit
	}
	return q
}

type Pagination struct {
	TotalCount int64  `json:"total_count"`
	Page       int    `json:"page"`
	Limit      int    `json:"limit"`
	TotalPages int    `json:"total_pages"`
	Showing    string `json:"showing"`
}

type ReportResponse struct {
	Records    []attendance.AttendanceResponse `json:"records"`
	Summary    attendance.StatusCounts         `json:"summary"`
	Pagination Pagination                      `json:"pagination"`
}

// ========================================
// EXPORT
// ========================================

type ExportFormat string

const (
	ExportCSV  ExportFormat = "csv"
	ExportXLSX ExportFormat = "xlsx"
)

// ParseExportFormat defaults to CSV when s is empty.
func ParseExportFormat(s string) (ExportFormat, error) {
	switch f := ExportFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return ExportCSV, nil
	case ExportCSV, ExportXLSX:
		return f, nil
	default:
		return "", ErrInvalidExportFormat
	}
}
