package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsEmpty(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"abc", false},
		{" abc ", false},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, IsEmpty(c.input), "IsEmpty(%q)", c.input)
	}
}

func TestIsValidUUID(t *testing.T) {
	valid := []string{
		"0188d0f2-7b8c-7b4a-8a2b-6b8b8b8b8b8b", // valid UUIDv7
		"0188D0F2-7B8C-7B4A-8A2B-6B8B8B8B8B8B", // valid UUIDv7 (uppercase)
		"123e4567-e89b-12d3-a456-426614174000", // v1
		"550e8400-e29b-41d4-a716-446655440000", // v4
	}
	invalid := []string{
		"0188d0f27b8c7b4a8a2b6b8b8b8b8b8b",       // missing dashes
		"{0188d0f2-7b8c-7b4a-8a2b-6b8b8b8b8b8b}", // braces
		"0188d0f2-7b8c-7b4a-8a2b-6b8b8b8b8bzz",   // not hex
		"abc",
		"",
	}
	for _, id := range valid {
		assert.True(t, IsValidUUID(id), "IsValidUUID(%q)", id)
	}
	for _, id := range invalid {
		assert.False(t, IsValidUUID(id), "IsValidUUID(%q)", id)
	}
}

func TestIsValidDate(t *testing.T) {
	d, ok := IsValidDate("2024-02-29")
	assert.True(t, ok)
	assert.Equal(t, 29, d.Day())

	for _, s := range []string{"2023-02-29", "2024/01/01", "01-01-2024", ""} {
		_, ok := IsValidDate(s)
		assert.False(t, ok, "IsValidDate(%q)", s)
	}
}

func TestIsValidClock(t *testing.T) {
	c, ok := IsValidClock("09:30")
	assert.True(t, ok)
	assert.Equal(t, 9, c.Hour())
	assert.Equal(t, 30, c.Minute())

	for _, s := range []string{"24:00", "9.30", "09:60", ""} {
		_, ok := IsValidClock(s)
		assert.False(t, ok, "IsValidClock(%q)", s)
	}
}

func TestIsInSlice(t *testing.T) {
	slice := []string{"a", "b", "c"}
	assert.True(t, IsInSlice("a", slice))
	assert.False(t, IsInSlice("d", slice))
}

func TestValidationErrors_Error(t *testing.T) {
	errs := ValidationErrors{
		{Field: "lat", Message: "invalid"},
		{Field: "lng", Message: "required"},
	}
	assert.Equal(t, "lat: invalid; lng: required", errs.Error())
}

func TestValidationErrors_ToMap(t *testing.T) {
	errs := ValidationErrors{
		{Field: "lat", Message: "invalid"},
		{Field: "lng", Message: "required"},
	}
	assert.Equal(t, map[string]string{"lat": "invalid", "lng": "required"}, errs.ToMap())
}
