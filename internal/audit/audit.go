// Package audit finds unattached block-storage volumes, attributes each its
// previous calendar month cost and builds the report sent to chat.
//
// The pipeline runs strictly forward:
//
//	Lister -> Coordinator -> CostResolver (one lookup per volume) -> BuildReport -> Notifier
//
// Listing failures abort the run. Cost lookup failures are isolated per
// volume and degrade that volume's cost to zero.
package audit

import (
	"context"

	"github.com/younsl/volcost/internal/models"
)

// VolumePager lists one page of volumes. An empty start requests the first page.
type VolumePager interface {
	ListVolumes(ctx context.Context, start string) (*models.VolumePage, error)
}

// UsageReporter returns the billed usage of one resource for one billing period.
type UsageReporter interface {
	ResourceUsage(ctx context.Context, query models.UsageQuery) (*models.UsageReport, error)
}

// CostLookup resolves the previous month cost of a resource.
type CostLookup interface {
	PreviousMonthCost(ctx context.Context, resourceID string) (float64, error)
}

// Notifier delivers a finished report.
type Notifier interface {
	Send(ctx context.Context, report models.Report) error
}
