package http

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/presence-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/presence-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/presence-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/export"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/validator"
)

type ReportHandler interface {
	// Employee's own records per window
	MySummary(w http.ResponseWriter, r *http.Request)

	// Status counts per window across all users
	StatusSummary(w http.ResponseWriter, r *http.Request)

	// Paginated admin report
	AttendanceReport(w http.ResponseWriter, r *http.Request)

	// CSV / XLSX download of the admin report
	ExportAttendance(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
}

func NewReportHandler(reportService report.ReportService) ReportHandler {
	return &reportHandlerImpl{
		reportService: reportService,
	}
}

// MySummary handles GET /attendance/me/summary
func (h *reportHandlerImpl) MySummary(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		response.HandleError(w, user.ErrInvalidToken)
		return
	}

	period, err := report.ParsePeriod(r.URL.Query().Get("period"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.reportService.MySummary(r.Context(), report.MySummaryRequest{
		UserID: principal.UserID,
		Period: period,
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// StatusSummary handles GET /admin/attendance/summary
func (h *reportHandlerImpl) StatusSummary(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	period, err := report.ParsePeriod(query.Get("period"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	req := report.StatusSummaryRequest{Period: period}
	if userID := query.Get("user_id"); userID != "" {
		req.UserID = &userID
	}

	result, err := h.reportService.StatusSummary(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// AttendanceReport handles GET /admin/attendance/report
func (h *reportHandlerImpl) AttendanceReport(w http.ResponseWriter, r *http.Request) {
	filter, err := parseReportFilter(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.reportService.AttendanceReport(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ExportAttendance handles GET /admin/attendance/export
func (h *reportHandlerImpl) ExportAttendance(w http.ResponseWriter, r *http.Request) {
	format, err := report.ParseExportFormat(r.URL.Query().Get("format"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	filter, err := parseReportFilter(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	table, err := h.reportService.ExportAttendance(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	// Render fully before writing headers so a failure can still produce a JSON error.
	var buf bytes.Buffer
	contentType := "text/csv; charset=utf-8"
	switch format {
	case report.ExportXLSX:
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		err = export.WriteXLSX(&buf, table)
	default:
		err = export.WriteCSV(&buf, table)
	}
	if err != nil {
		slog.Error("Failed to render attendance export", "format", format, "error", err)
		response.InternalServerError(w, "Failed to render export")
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="attendance.%s"`, format))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("Failed to write attendance export", "error", err)
	}
}

func parseReportFilter(r *http.Request) (report.ReportFilter, error) {
	query := r.URL.Query()
	filter := report.ReportFilter{}

	if userID := query.Get("user_id"); userID != "" {
		filter.UserID = &userID
	}
	if status := query.Get("status"); status != "" {
		filter.Status = &status
	}
	if startDate := query.Get("start_date"); startDate != "" {
		filter.StartDate = &startDate
	}
	if endDate := query.Get("end_date"); endDate != "" {
		filter.EndDate = &endDate
	}

	var errs validator.ValidationErrors
	if p := query.Get("page"); p != "" {
		page, err := strconv.Atoi(p)
		if err != nil {
			errs = append(errs, validator.ValidationError{Field: "page", Message: "page must be a number"})
		}
		filter.Page = page
	}
	if l := query.Get("limit"); l != "" {
		limit, err := strconv.Atoi(l)
		if err != nil {
			errs = append(errs, validator.ValidationError{Field: "limit", Message: "limit must be a number"})
		}
		filter.Limit = limit
	}
	if len(errs) > 0 {
		return filter, errs
	}

	return filter, nil
}
