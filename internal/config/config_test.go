package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("JWT_SECRET_KEY", "secret")
	t.Setenv("OFFICE_LAT", "33.6844")
	t.Setenv("OFFICE_LNG", "73.0479")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, StoreDriverMemory, cfg.Database.Driver)
	assert.Empty(t, cfg.Database.UsersFile)
	assert.Equal(t, 0.5, cfg.Attendance.MaxDistanceKm)
	assert.Equal(t, 9, cfg.Attendance.CheckInCutoff.Hour)
	assert.Equal(t, 30, cfg.Attendance.CheckInCutoff.Minute)
	assert.Equal(t, 1.0, cfg.Attendance.BreakHours)
	assert.Equal(t, 8.0, cfg.Attendance.StandardShiftHours)
	assert.Equal(t, time.UTC, cfg.Attendance.Location)
	assert.Equal(t, RateLimitBackendMemory, cfg.RateLimit.Backend)
	assert.Equal(t, time.Minute, cfg.RateLimit.Window)
	assert.False(t, cfg.AbsenceJob.Enabled)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORS.AllowedOrigins)
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("CHECKIN_CUTOFF", "10:15")
	t.Setenv("ATTENDANCE_TIMEZONE", "Asia/Karachi")
	t.Setenv("RATE_LIMIT_BACKEND", "redis")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "10:15", cfg.Attendance.CheckInCutoff.String())
	assert.Equal(t, "Asia/Karachi", cfg.Attendance.Location.String())
	assert.Equal(t, RateLimitBackendRedis, cfg.RateLimit.Backend)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORS.AllowedOrigins)
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string][2]string{
		"missing office": {"OFFICE_LAT", ""},
		"bad cutoff":     {"CHECKIN_CUTOFF", "25:00"},
		"bad driver":     {"STORE_DRIVER", "mongo"},
		"bad distance":   {"MAX_DISTANCE_KM", "-1"},
		"bad timezone":   {"ATTENDANCE_TIMEZONE", "Mars/Olympus"},
		"bad backend":    {"RATE_LIMIT_BACKEND", "etcd"},
	}
	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			setRequired(t)
			t.Setenv(kv[0], kv[1])

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestValidate_PostgresRequiresPassword(t *testing.T) {
	setRequired(t)
	t.Setenv("STORE_DRIVER", "postgres")
	t.Setenv("DB_PASSWORD", "")

	_, err := Load()
	assert.ErrorContains(t, err, "DB_PASSWORD")
}
