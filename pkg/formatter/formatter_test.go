package formatter

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/younsl/volcost/internal/models"
	"github.com/younsl/volcost/pkg/pricing"
)

func TestTruncateAndPad(t *testing.T) {
	assert.Equal(t, "short", TruncateString("short", 10))
	assert.Equal(t, "abcdefg..", TruncateString("abcdefghijkl", 9))
	// 한 is two columns wide
	assert.Equal(t, "한한..", TruncateString("한한한한", 6))
	assert.Equal(t, 6, StringWidth(PadString("한글", 6)))
	assert.Equal(t, "ab  ", PadString("ab", 4))
}

func TestPrintReportTable(t *testing.T) {
	report := models.Report{
		Title:     "Unattached volumes (2026-09)",
		Currency:  "USD",
		TotalCost: 12,
		Volumes: []models.Volume{
			{ID: "vol-cheap", Name: "scratch", Capacity: 50, VolumeType: "gp3", Cost: 4},
			{ID: "vol-dear", Capacity: 1200, VolumeType: "io2", Cost: 8},
			{ID: "vol-fail", Capacity: 10, VolumeType: "gp3", CostErr: errors.New("boom")},
		},
		FailedLookups: 1,
	}

	var buf bytes.Buffer
	PrintReportTable(&buf, report)
	out := buf.String()

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.GreaterOrEqual(t, len(lines), 6)
	assert.Equal(t, "Unattached volumes (2026-09)", lines[0])
	assert.Contains(t, lines[1], "PREVIOUS MONTH COST")
	assert.Contains(t, lines[2], "vol-dear")
	assert.Contains(t, lines[2], "1,200 GB")
	assert.Contains(t, lines[2], "N/A")
	assert.Contains(t, lines[3], "vol-cheap")
	assert.Contains(t, lines[3], "$4.00")
	assert.Contains(t, lines[4], "vol-fail")
	assert.Contains(t, out, "1,260 GB")
	assert.Contains(t, out, "$12.00")
	assert.Contains(t, out, "Cost lookup failed for 1 of 3 volumes.")

	// input order is untouched
	assert.Equal(t, "vol-cheap", report.Volumes[0].ID)
}

func TestPrintReportTableEmpty(t *testing.T) {
	var buf bytes.Buffer
	PrintReportTable(&buf, models.Report{Title: "t"})
	assert.Equal(t, "t\nNo unattached volumes found.\n", buf.String())
}

func TestPrintTypeSummary(t *testing.T) {
	report := models.Report{
		Currency: "USD",
		Volumes: []models.Volume{
			{ID: "a", VolumeType: "gp3", Capacity: 10, Cost: 1},
			{ID: "b", VolumeType: "gp3", Capacity: 20, Cost: 2},
			{ID: "c", VolumeType: "st1", Capacity: 500, Cost: 22.5},
		},
	}

	var buf bytes.Buffer
	PrintTypeSummary(&buf, report)
	out := buf.String()

	assert.Contains(t, out, "gp3")
	assert.Contains(t, out, "$3.00")
	assert.Contains(t, out, "$22.50")
	assert.Less(t, strings.Index(out, "gp3"), strings.Index(out, "st1"))
}

func TestPrintAPIStats(t *testing.T) {
	var buf bytes.Buffer
	PrintAPIStats(&buf, nil)
	assert.Empty(t, buf.String())

	stats := pricing.NewAPIStats()
	stats.RecordSuccess(pricing.ServiceCostExplorer, "us-east-1")
	stats.RecordFailure(pricing.ServiceCostExplorer, "us-east-1")
	stats.RecordCacheHit(pricing.ServicePricing, "us-east-1")

	PrintAPIStats(&buf, stats)
	out := buf.String()
	assert.Contains(t, out, "50.0%")
	assert.Less(t, strings.Index(out, pricing.ServiceCostExplorer), strings.Index(out, pricing.ServicePricing))
}

func TestPrintTimestamp(t *testing.T) {
	var buf bytes.Buffer
	PrintTimestamp(&buf, time.Date(2026, time.October, 1, 9, 0, 0, 0, time.UTC), 1500*time.Millisecond)
	assert.Equal(t, "\nAudit completed at 2026-10-01 09:00:00 (took 1.50s)\n", buf.String())
}
