package audit

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/younsl/volcost/internal/models"
)

// DefaultReportTitle is the headline used when ReportOptions.Title is empty
const DefaultReportTitle = "Unattached block storage volumes and their cost"

// ReportOptions carries the presentation details of a report
type ReportOptions struct {
	Title         string
	Currency      string
	BillingPeriod string
	GeneratedAt   time.Time
}

var currencySymbols = map[string]string{
	"USD": "$",
	"JPY": "¥",
	"EUR": "€",
	"GBP": "£",
	"KRW": "₩",
	"CNY": "¥",
	"INR": "₹",
}

// FormatMoney renders an amount with two decimals, rounding half away from zero
func FormatMoney(amount float64, currency string) string {
	fixed := decimal.NewFromFloat(amount).StringFixed(2)
	if symbol, ok := currencySymbols[currency]; ok {
		return symbol + fixed
	}
	if currency == "" {
		return fixed
	}
	return currency + " " + fixed
}

// BuildReport summarizes enriched volumes. It has no side effects.
func BuildReport(volumes []models.Volume, opts ReportOptions) models.Report {
	title := opts.Title
	if title == "" {
		title = DefaultReportTitle
	}
	if opts.BillingPeriod != "" {
		title = fmt.Sprintf("%s (%s)", title, opts.BillingPeriod)
	}

	var (
		total  float64
		failed int
	)
	lines := make([]string, 0, len(volumes))
	for _, volume := range volumes {
		total += volume.Cost
		if !volume.CostKnown() {
			failed++
		}
		lines = append(lines, describeVolume(volume, opts.Currency))
	}

	kept := make([]models.Volume, len(volumes))
	copy(kept, volumes)

	return models.Report{
		Title:         title,
		TotalLine:     "Total cost: " + FormatMoney(total, opts.Currency),
		Lines:         lines,
		TotalCost:     total,
		Currency:      opts.Currency,
		BillingPeriod: opts.BillingPeriod,
		Volumes:       kept,
		FailedLookups: failed,
		GeneratedAt:   opts.GeneratedAt,
	}
}

func describeVolume(volume models.Volume, currency string) string {
	line := fmt.Sprintf("ID: %s, Name: %s, Size: %dGB, Previous month cost: %s",
		volume.ID,
		displayName(volume.Name),
		volume.Capacity,
		FormatMoney(volume.Cost, currency),
	)
	if !volume.CostKnown() {
		line += " (cost unavailable)"
	}
	return line
}

func displayName(name string) string {
	if name == "" {
		return "N/A"
	}
	return name
}
