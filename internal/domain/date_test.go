package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    Date
		wantErr bool
	}{
		{name: "valid", input: "2024-03-09", want: Date{2024, time.March, 9}},
		{name: "leap day", input: "2024-02-29", want: Date{2024, time.February, 29}},
		{name: "not a leap year", input: "2023-02-29", wantErr: true},
		{name: "wrong layout", input: "09/03/2024", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseDate(tc.input)
			if tc.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidDate)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.input, got.String())
		})
	}
}

func TestDateIn(t *testing.T) {
	t.Parallel()

	// 23:30 UTC is already the next day east of UTC.
	instant := time.Date(2024, time.June, 1, 23, 30, 0, 0, time.UTC)
	tokyo := time.FixedZone("JST", 9*60*60)

	assert.Equal(t, NewDate(2024, time.June, 1), DateIn(instant, time.UTC))
	assert.Equal(t, NewDate(2024, time.June, 2), DateIn(instant, tokyo))
}

func TestDateArithmetic(t *testing.T) {
	t.Parallel()

	d := NewDate(2024, time.December, 31)
	assert.Equal(t, NewDate(2025, time.January, 1), d.AddDays(1))
	assert.Equal(t, NewDate(2024, time.December, 1), d.AddDays(-30))
	assert.Equal(t, int64(0), NewDate(1970, time.January, 1).DayNumber())
	assert.Equal(t, 1, d.DaysUntil(d.AddDays(1)))
	assert.True(t, d.Before(d.AddDays(1)))
	assert.True(t, d.After(d.AddDays(-1)))
	assert.False(t, d.After(d))
}

func TestDateJSON(t *testing.T) {
	t.Parallel()

	in := struct {
		Day Date `json:"day"`
	}{Day: NewDate(2025, time.July, 4)}

	raw, err := json.Marshal(in)
	require.NoError(t, err)
	assert.JSONEq(t, `{"day":"2025-07-04"}`, string(raw))

	var out struct {
		Day Date `json:"day"`
	}
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, in.Day, out.Day)
}

func TestDateScan(t *testing.T) {
	t.Parallel()

	var d Date
	require.NoError(t, d.Scan(time.Date(2024, time.May, 5, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, NewDate(2024, time.May, 5), d)

	require.NoError(t, d.Scan("2024-05-06"))
	assert.Equal(t, NewDate(2024, time.May, 6), d)

	assert.ErrorIs(t, d.Scan(42), ErrInvalidDate)
}
