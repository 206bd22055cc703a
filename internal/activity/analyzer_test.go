package activity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(hour int) time.Time {
	return time.Date(2026, 3, 14, hour, 30, 0, 0, time.UTC)
}

func TestBuildReportEmpty(t *testing.T) {
	assert.Nil(t, BuildReport(nil))
	assert.Nil(t, BuildReport([]time.Time{}))
}

func TestBuildReportPeakHour(t *testing.T) {
	stamps := []time.Time{at(9), at(14), at(14), at(14), at(20)}
	report := BuildReport(stamps)

	require.NotNil(t, report)
	assert.Equal(t, "02:00 PM", report.PeakTime)
	assert.Equal(t, 3, report.MessageCount)
	assert.Equal(t, 5, report.TotalAnalyzed)
	assert.InDelta(t, 60.0, report.Percentage, 0.01)
}

func TestBuildReportTieKeepsEarliestHour(t *testing.T) {
	report := BuildReport([]time.Time{at(8), at(8), at(22), at(22)})
	require.NotNil(t, report)
	assert.Equal(t, "08:00 AM", report.PeakTime)
	assert.Equal(t, 2, report.MessageCount)
}

func TestFormatHour(t *testing.T) {
	assert.Equal(t, "12:00 AM", FormatHour(0))
	assert.Equal(t, "01:00 AM", FormatHour(1))
	assert.Equal(t, "11:00 AM", FormatHour(11))
	assert.Equal(t, "12:00 PM", FormatHour(12))
	assert.Equal(t, "02:00 PM", FormatHour(14))
	assert.Equal(t, "11:00 PM", FormatHour(23))
}

func TestBSTPeakSingleHour(t *testing.T) {
	tree := &BST{}
	tree.Insert(at(5))
	tree.Insert(at(5))
	hour, count := tree.Peak()
	assert.Equal(t, 5, hour)
	assert.Equal(t, 2, count)
}
