package report

import (
	"context"

	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/export"
)

// ReportService rolls attendance records up into summaries, reports and exports
type ReportService interface {
	// MySummary returns the caller's time-accounted records for the requested windows
	MySummary(ctx context.Context, req MySummaryRequest) (MySummaryResponse, error)

	// StatusSummary counts records per status for the requested windows (admin)
	StatusSummary(ctx context.Context, req StatusSummaryRequest) (StatusSummaryResponse, error)

	// AttendanceReport returns a filtered, paginated report with a status summary of the filtered set (admin)
	AttendanceReport(ctx context.Context, filter ReportFilter) (ReportResponse, error)

	// ExportAttendance flattens the filtered set into rows followed by a status summary block (admin)
	ExportAttendance(ctx context.Context, filter ReportFilter) (export.Table, error)
}
