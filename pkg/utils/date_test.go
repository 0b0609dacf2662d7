package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	parsed, err := ParseDate("2026-08-20")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC), *parsed)
}

func TestParseDate_EmptyIsZeroTime(t *testing.T) {
	parsed, err := ParseDate("")
	require.NoError(t, err)
	assert.True(t, parsed.IsZero())
}

func TestParseDate_Invalid(t *testing.T) {
	_, err := ParseDate("20-08-2026")
	assert.Error(t, err)
}

func TestValidateDateParam(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr string
	}{
		{name: "valid", value: "2026-08-20"},
		{name: "wrong shape", value: "2026/08/20", wantErr: "YYYY-MM-DD format"},
		{name: "too short", value: "2026-8-2", wantErr: "YYYY-MM-DD format"},
		{name: "trailing junk", value: "2026-08-20x", wantErr: "YYYY-MM-DD format"},
		{name: "impossible date", value: "2026-02-30", wantErr: "not a valid date"},
		{name: "month out of range", value: "2026-13-01", wantErr: "not a valid date"},
		{name: "empty", value: "", wantErr: "YYYY-MM-DD format"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ValidateDateParam("startDate", tc.value)
			if tc.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.wantErr)
				assert.Contains(t, err.Error(), "startDate")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.value, got)
		})
	}
}

func TestDatesBetween(t *testing.T) {
	days, err := DatesBetween("2026-08-18", "2026-08-21")
	require.NoError(t, err)
	assert.Equal(t, []string{"2026-08-18", "2026-08-19", "2026-08-20", "2026-08-21"}, days)
}

func TestDatesBetween_SingleDay(t *testing.T) {
	days, err := DatesBetween("2026-08-20", "2026-08-20")
	require.NoError(t, err)
	assert.Equal(t, []string{"2026-08-20"}, days)
}

func TestDatesBetween_CrossesMonthBoundary(t *testing.T) {
	days, err := DatesBetween("2026-08-30", "2026-09-02")
	require.NoError(t, err)
	assert.Equal(t, []string{"2026-08-30", "2026-08-31", "2026-09-01", "2026-09-02"}, days)
}

func TestDatesBetween_StartAfterEndIsEmpty(t *testing.T) {
	days, err := DatesBetween("2026-08-21", "2026-08-20")
	require.NoError(t, err)
	assert.Empty(t, days)
}

func TestDatesBetween_InvalidInput(t *testing.T) {
	_, err := DatesBetween("nope", "2026-08-20")
	assert.Error(t, err)

	_, err = DatesBetween("2026-08-20", "nope")
	assert.Error(t, err)
}
