package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/younsl/volcost/internal/models"
	"github.com/younsl/volcost/pkg/utils"
)

// CostResolver sums a resource's billed cost for the previous calendar month.
type CostResolver struct {
	reporter  UsageReporter
	accountID string
	now       func() time.Time
}

// NewCostResolver creates a CostResolver bound to one account.
func NewCostResolver(reporter UsageReporter, accountID string) *CostResolver {
	return &CostResolver{
		reporter:  reporter,
		accountID: accountID,
		now:       time.Now,
	}
}

// WithClock overrides the clock used to pick the billing period.
func (r *CostResolver) WithClock(now func() time.Time) *CostResolver {
	r.now = now
	return r
}

// BillingPeriod returns the period the resolver currently queries.
func (r *CostResolver) BillingPeriod() string {
	return utils.PreviousBillingPeriod(r.now())
}

// PreviousMonthCost returns the sum of every usage entry billed to resourceID
// in the previous month. No billing data resolves to zero.
func (r *CostResolver) PreviousMonthCost(ctx context.Context, resourceID string) (float64, error) {
	query := models.UsageQuery{
		AccountID:     r.accountID,
		BillingPeriod: r.BillingPeriod(),
		ResourceID:    resourceID,
	}

	report, err := r.reporter.ResourceUsage(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("error getting usage for %s in %s: %w", resourceID, query.BillingPeriod, err)
	}

	return SumUsage(report), nil
}

// SumUsage adds up all usage entries of all resources in a report
func SumUsage(report *models.UsageReport) float64 {
	if report == nil {
		return 0
	}

	var total float64
	for _, resource := range report.Resources {
		for _, entry := range resource.Usage {
			total += entry.Amount()
		}
	}
	return total
}
