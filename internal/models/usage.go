package models

// UsageQuery identifies one resource's usage for one billing period
type UsageQuery struct {
	AccountID     string
	BillingPeriod string // YYYY-MM
	ResourceID    string
}

// UsageEntry is a single cost line of a resource (storage, IOPS, throughput, ...)
type UsageEntry struct {
	Metric string
	Unit   string
	Cost   *float64 // nil when the billing API omitted the amount
}

// Amount returns the entry cost, treating a missing value as zero
func (e UsageEntry) Amount() float64 {
	if e.Cost == nil {
		return 0
	}
	return *e.Cost
}

// ResourceUsage groups the usage entries of a single billed resource
type ResourceUsage struct {
	ResourceID string
	Usage      []UsageEntry
}

// UsageReport is a billing API answer for a UsageQuery
type UsageReport struct {
	Currency  string
	Resources []ResourceUsage
}

// CostResult is the outcome of one volume's cost lookup
type CostResult struct {
	VolumeID string
	Cost     float64
	Err      error
}

// OK reports whether the lookup succeeded
func (r CostResult) OK() bool {
	return r.Err == nil
}
