package command

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatAge(t *testing.T) {
	now := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		elapsed time.Duration
		want    string
	}{
		{"zero", 0, "0m"},
		{"under a minute floors to zero", 45 * time.Second, "0m"},
		{"forty five minutes", 45 * time.Minute, "45m"},
		{"fifty nine minutes", 59*time.Minute + 59*time.Second, "59m"},
		{"ninety minutes floors to one hour", 90 * time.Minute, "1h"},
		{"twenty three hours", 23*time.Hour + 59*time.Minute, "23h"},
		{"exactly one day", 24 * time.Hour, "1d"},
		{"fifty hours floors to two days", 50 * time.Hour, "2d"},
		{"ten days", 240 * time.Hour, "10d"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatAge(now.Add(-tt.elapsed), now))
		})
	}
}

func TestFormatAge_FutureTimestampClampsToZero(t *testing.T) {
	now := time.Now()
	assert.Equal(t, "0m", FormatAge(now.Add(time.Hour), now))
}

func TestFormatTable_MinimumWidth(t *testing.T) {
	out := FormatTable([]string{"NAME", "AGE"}, [][]string{{"web", "5m"}})

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	// Short headers and cells still occupy the eight-column minimum.
	assert.Equal(t, "NAME      AGE", lines[0])
	assert.Equal(t, "web       5m", lines[1])
}

func TestFormatTable_WidensToWidestCell(t *testing.T) {
	out := FormatTable([]string{"NAME", "AGE"}, [][]string{
		{"a-rather-long-pod-name", "5m"},
		{"short", "2d"},
	})

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Equal(t, "NAME                    AGE", lines[0])
	assert.Equal(t, "a-rather-long-pod-name  5m", lines[1])
	assert.Equal(t, "short                   2d", lines[2])
}

func TestFormatTable_NoTrailingWhitespace(t *testing.T) {
	out := FormatTable([]string{"NAME", "STATUS", "AGE"}, [][]string{
		{"web", "Running", "5m"},
		{"a-rather-long-pod-name", "Pending", "2d"},
	})

	for _, line := range strings.Split(strings.TrimRight(out, "\n"), "\n") {
		assert.Equal(t, strings.TrimRight(line, " "), line)
	}
}

func TestFormatTable_HeaderWiderThanCells(t *testing.T) {
	out := FormatTable([]string{"VERYLONGHEADER", "AGE"}, [][]string{{"x", "1m"}})

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Equal(t, "VERYLONGHEADER  AGE", lines[0])
	assert.Equal(t, "x               1m", lines[1])
}
