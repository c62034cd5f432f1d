package domain_test

import (
	"testing"
	"time"

	"github.com/dom/daily-checkin/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDay(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "plain day", input: "2024-01-01", want: "2024-01-01"},
		{name: "surrounding whitespace", input: " 2024-06-03 ", want: "2024-06-03"},
		{name: "utc timestamp", input: "2024-06-01T15:30:00Z", want: "2024-06-01"},
		{name: "offset timestamp normalizes to utc day", input: "2024-06-01T01:00:00+03:00", want: "2024-05-31"},
		{name: "empty", input: "", wantErr: true},
		{name: "garbage", input: "yesterday", wantErr: true},
		{name: "impossible day", input: "2024-02-30", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			day, err := domain.ParseDay(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, domain.ErrInvalidArgument)
				assert.ErrorIs(t, err, domain.ErrInvalidDate)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, domain.FormatDay(day))
			assert.Equal(t, time.UTC, day.Location())
			assert.Zero(t, day.Hour())
		})
	}
}

func TestTruncateDay(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*60*60)
	ts := time.Date(2024, 3, 10, 22, 0, 0, 0, loc) // 2024-03-11 03:00 UTC

	day := domain.TruncateDay(ts)

	assert.Equal(t, time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC), day)
}

func TestDaysBetween(t *testing.T) {
	from := time.Date(2024, 2, 27, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	days := domain.DaysBetween(from, to)

	require.Len(t, days, 4) // leap year
	assert.Equal(t, "2024-02-27", domain.FormatDay(days[0]))
	assert.Equal(t, "2024-02-29", domain.FormatDay(days[2]))
	assert.Equal(t, "2024-03-01", domain.FormatDay(days[3]))

	assert.Empty(t, domain.DaysBetween(to, from))
	assert.Len(t, domain.DaysBetween(from, from), 1)
}
