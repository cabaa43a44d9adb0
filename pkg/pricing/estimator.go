package pricing

import (
	"context"
	"fmt"
	"time"

	"github.com/younsl/volcost/internal/models"
	"github.com/younsl/volcost/pkg/utils"
)

// VolumeCatalog returns what the listing knows about a volume
type VolumeCatalog interface {
	Lookup(resourceID string) (models.Volume, bool)
}

// Estimator approximates a volume's monthly bill from list prices.
// It answers the same queries as the billing API for accounts where
// resource-level billing data is not available.
type Estimator struct {
	client  *Client
	catalog VolumeCatalog
}

// NewEstimator creates an Estimator
func NewEstimator(client *Client, catalog VolumeCatalog) *Estimator {
	return &Estimator{client: client, catalog: catalog}
}

// ResourceUsage estimates storage cost for the billing period, prorated to the
// hours the volume existed in it
func (e *Estimator) ResourceUsage(ctx context.Context, query models.UsageQuery) (*models.UsageReport, error) {
	volume, ok := e.catalog.Lookup(query.ResourceID)
	if !ok {
		return nil, fmt.Errorf("volume %s not found in listing", query.ResourceID)
	}

	start, end, err := utils.BillingPeriodBounds(query.BillingPeriod)
	if err != nil {
		return nil, err
	}

	fraction := activeFraction(volume.CreateTime, start, end)
	if fraction == 0 {
		return &models.UsageReport{Currency: "USD"}, nil
	}

	price, source := e.client.EBSPricePerGBMonth(ctx, volume.VolumeType, volume.Region)
	if source == PricingSourceNA {
		return nil, fmt.Errorf("no price available for %s volumes in %s", volume.VolumeType, volume.Region)
	}

	amount := float64(volume.Capacity) * price * fraction

	e.client.logger.Debug().
		Str("resource_id", query.ResourceID).
		Str("pricing_source", string(source)).
		Float64("fraction", fraction).
		Msg("estimated volume cost")
	return &models.UsageReport{
		Currency: "USD",
		Resources: []models.ResourceUsage{{
			ResourceID: query.ResourceID,
			Usage: []models.UsageEntry{{
				Metric: utils.UsageType(volume.Region, "EBS:VolumeUsage."+volume.VolumeType),
				Unit:   "USD",
				Cost:   &amount,
			}},
		}},
	}, nil
}

// activeFraction returns the share of [start, end) during which a volume created at created existed
func activeFraction(created, start, end time.Time) float64 {
	if created.IsZero() || !created.After(start) {
		return 1
	}
	if !created.Before(end) {
		return 0
	}
	return end.Sub(created).Hours() / end.Sub(start).Hours()
}
