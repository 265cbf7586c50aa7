package report

import (
	"time"

	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/validator"
)

// parseOptionalDate returns nil for an absent or empty value; ok is false only for malformed input.
func parseOptionalDate(s *string) (*time.Time, bool) {
	if s == nil || *s == "" {
		return nil, true
	}
	t, valid := validator.IsValidDate(*s)
	if !valid {
		return nil, false
	}
	return &t, true
}
