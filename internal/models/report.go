package models

import "time"

// Report is the summary handed to a notifier. It is never modified after it is built.
type Report struct {
	Title         string
	TotalLine     string
	Lines         []string
	TotalCost     float64
	Currency      string
	BillingPeriod string
	Volumes       []Volume
	FailedLookups int
	GeneratedAt   time.Time
}

// Empty reports whether no unattached volumes were found
func (r Report) Empty() bool {
	return len(r.Volumes) == 0
}
