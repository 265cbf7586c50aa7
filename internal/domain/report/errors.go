package report

import "errors"

var (
	ErrInvalidPeriod       = errors.New("period must be one of: daily, weekly, monthly, all")
	ErrInvalidDateRange    = errors.New("end date must not be before start date")
	ErrInvalidExportFormat = errors.New("format must be one of: csv, xlsx")
)
