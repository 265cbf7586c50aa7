package report

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/presence-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/export"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/validator"
	attendanceService "github.com/cmlabs-hris/presence-backend-go/internal/service/attendance"
	"golang.org/x/sync/errgroup"
)

type ReportServiceImpl struct {
	attendanceRepo attendance.AttendanceRepository
	transactor     attendance.Transactor
	accountant     attendanceService.TimeAccountant
	clock          clock.Clock
	location       *time.Location
}

func NewReportService(
	attendanceRepo attendance.AttendanceRepository,
	transactor attendance.Transactor,
	accountant attendanceService.TimeAccountant,
	clk clock.Clock,
	location *time.Location,
) report.ReportService {
	if location == nil {
		location = time.UTC
	}
	return &ReportServiceImpl{
		attendanceRepo: attendanceRepo,
		transactor:     transactor,
		accountant:     accountant,
		clock:          clk,
		location:       location,
	}
}

// MySummary implements report.ReportService.
func (s *ReportServiceImpl) MySummary(ctx context.Context, req report.MySummaryRequest) (report.MySummaryResponse, error) {
	if validator.IsEmpty(req.UserID) {
		return report.MySummaryResponse{}, validator.ValidationErrors{{Field: "user_id", Message: "user_id is required"}}
	}

	windows := ResolveWindows(s.clock.Now(), s.location, req.Period)
	if len(windows) == 0 {
		return report.MySummaryResponse{}, report.ErrInvalidPeriod
	}

	results := make([][]attendance.Attendance, len(windows))
	g, gctx := errgroup.WithContext(ctx)
	for i, w := range windows {
		i, w := i, w
		g.Go(func() error {
			records, err := s.attendanceRepo.FindByUserAndRange(gctx, req.UserID, w.From, w.To)
			if err != nil {
				return fmt.Errorf("failed to get %s attendances: %w", w.Period, err)
			}
			results[i] = records
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return report.MySummaryResponse{}, err
	}

	var resp report.MySummaryResponse
	for i, w := range windows {
		views := attendanceService.ToResponses(results[i], s.accountant, s.location)
		switch w.Period {
		case report.PeriodDaily:
			if len(views) > 0 {
				resp.Today = &views[0]
			}
		case report.PeriodWeekly:
			resp.Weekly = views
		case report.PeriodMonthly:
			resp.Monthly = views
		}
	}

	return resp, nil
}

// StatusSummary implements report.ReportService.
func (s *ReportServiceImpl) StatusSummary(ctx context.Context, req report.StatusSummaryRequest) (report.StatusSummaryResponse, error) {
	if err := req.Validate(); err != nil {
		return report.StatusSummaryResponse{}, err
	}

	windows := ResolveWindows(s.clock.Now(), s.location, req.Period)
	if len(windows) == 0 {
		return report.StatusSummaryResponse{}, report.ErrInvalidPeriod
	}

	var userID string
	if req.UserID != nil {
		userID = *req.UserID
	}

	results := make([]*report.WindowCounts, len(windows))
	g, gctx := errgroup.WithContext(ctx)
	for i, w := range windows {
		i, w := i, w
		g.Go(func() error {
			from, to := w.From, w.To
			counts, err := s.attendanceRepo.CountByStatus(gctx, attendance.Query{UserID: userID, FromDay: &from, ToDay: &to})
			if err != nil {
				return fmt.Errorf("failed to count %s attendances: %w", w.Period, err)
			}
			results[i] = &report.WindowCounts{
				From:   from.Format("2006-01-02"),
				To:     to.Format("2006-01-02"),
				Total:  counts.Total(),
				Counts: counts,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return report.StatusSummaryResponse{}, err
	}

	var resp report.StatusSummaryResponse
	for i, w := range windows {
		switch w.Period {
		case report.PeriodDaily:
			resp.Daily = results[i]
		case report.PeriodWeekly:
			resp.Weekly = results[i]
		case report.PeriodMonthly:
			resp.Monthly = results[i]
		}
	}
	return resp, nil
}

// AttendanceReport implements report.ReportService.
func (s *ReportServiceImpl) AttendanceReport(ctx context.Context, filter report.ReportFilter) (report.ReportResponse, error) {
	if err := filter.Validate(); err != nil {
		return report.ReportResponse{}, err
	}

	var (
		records []attendance.Attendance
		total   int64
		counts  attendance.StatusCounts
	)
	err := s.transactor.WithinReadOnly(ctx, func(ctx context.Context) error {
		var err error
		records, total, err = s.attendanceRepo.List(ctx, filter.Query(true))
		if err != nil {
			return fmt.Errorf("failed to list attendances: %w", err)
		}
		counts, err = s.attendanceRepo.CountByStatus(ctx, filter.Query(false))
		if err != nil {
			return fmt.Errorf("failed to count attendances: %w", err)
		}
		return nil
	})
	if err != nil {
		return report.ReportResponse{}, err
	}

	return report.ReportResponse{
		Records:    attendanceService.ToResponses(records, s.accountant, s.location),
		Summary:    counts,
		Pagination: paginate(total, filter.Page, filter.Limit),
	}, nil
}

// ExportAttendance implements report.ReportService.
func (s *ReportServiceImpl) ExportAttendance(ctx context.Context, filter report.ReportFilter) (export.Table, error) {
	if err := filter.Validate(); err != nil {
		return export.Table{}, err
	}

	var (
		records []attendance.Attendance
		counts  attendance.StatusCounts
	)
	err := s.transactor.WithinReadOnly(ctx, func(ctx context.Context) error {
		var err error
		records, err = s.attendanceRepo.ListAll(ctx, filter.Query(false))
		if err != nil {
			return fmt.Errorf("failed to list attendances: %w", err)
		}
		counts, err = s.attendanceRepo.CountByStatus(ctx, filter.Query(false))
		if err != nil {
			return fmt.Errorf("failed to count attendances: %w", err)
		}
		return nil
	})
	if err != nil {
		return export.Table{}, err
	}

	return s.buildExportTable(records, counts), nil
}

var exportHeader = []string{
	"Name", "Email", "Date", "Check In", "Check Out", "Status", "Working Hour", "Over Time", "Break Time",
}

// buildExportTable renders one row per record, then a blank row, then one row per status.
func (s *ReportServiceImpl) buildExportTable(records []attendance.Attendance, counts attendance.StatusCounts) export.Table {
	rows := make([][]string, 0, len(records)+1+len(attendance.Statuses))

	for _, rec := range records {
		view := attendanceService.ToResponse(rec, s.accountant, s.location)
		rows = append(rows, []string{
			deref(view.UserName),
			deref(view.UserEmail),
			view.Date,
			deref(view.CheckIn),
			deref(view.CheckOut),
			string(view.Status),
			formatHours(view.WorkingHour),
			formatHours(view.OverTime),
			formatHours(view.BreakTime),
		})
	}

	rows = append(rows, []string{})
	for _, status := range attendance.Statuses {
		rows = append(rows, []string{string(status), strconv.FormatInt(counts[status], 10)})
	}

	return export.Table{Title: "Attendance", Header: exportHeader, Rows: rows}
}

func paginate(total int64, page, limit int) report.Pagination {
	totalPages := int(math.Ceil(float64(total) / float64(limit)))
	first := (page-1)*limit + 1
	showing := fmt.Sprintf("%d-%d of %d", first, min(page*limit, int(total)), total)
	if total == 0 || int64(first) > total {
		showing = fmt.Sprintf("0 of %d", total)
	}

	return report.Pagination{
		TotalCount: total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
		Showing:    showing,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func formatHours(h float64) string {
	return strconv.FormatFloat(h, 'f', 2, 64)
}
