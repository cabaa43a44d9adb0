package utils

import (
	"fmt"
	"time"
)

// BillingPeriodLayout is the YYYY-MM key used by billing APIs
const BillingPeriodLayout = "2006-01"

// PreviousBillingPeriod returns the YYYY-MM key of the calendar month before now (UTC)
func PreviousBillingPeriod(now time.Time) string {
	now = now.UTC()
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	return firstOfMonth.AddDate(0, 0, -1).Format(BillingPeriodLayout)
}

// BillingPeriodBounds returns the [start, end) UTC bounds of a YYYY-MM period
func BillingPeriodBounds(period string) (time.Time, time.Time, error) {
	start, err := time.ParseInLocation(BillingPeriodLayout, period, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid billing period %q: %w", period, err)
	}
	return start, start.AddDate(0, 1, 0), nil
}
