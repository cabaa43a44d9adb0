package aws

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/costexplorer"
	"github.com/aws/aws-sdk-go-v2/service/costexplorer/types"
	"github.com/aws/smithy-go"
	"github.com/younsl/volcost/internal/models"
	"github.com/younsl/volcost/pkg/pricing"
	"github.com/younsl/volcost/pkg/utils"
)

// Cost Explorer is served from us-east-1 only
const costExplorerRegion = "us-east-1"

// DefaultCostMetric is the Cost Explorer metric summed per usage type
const DefaultCostMetric = "UnblendedCost"

// ResourceDataWindow is how far back resource-level Cost Explorer data reaches.
// A query whose start date is older is rejected by the API.
const ResourceDataWindow = 14 * 24 * time.Hour

// computeService is the SERVICE value resource-level queries must be filtered on;
// EBS volume usage is billed under it
const computeService = "Amazon Elastic Compute Cloud - Compute"

// ErrOutsideResourceWindow is returned for billing periods starting before the resource data window
var ErrOutsideResourceWindow = errors.New("billing period starts outside the 14 day resource-level Cost Explorer window")

// maxCostExplorerPages bounds NextPageToken chasing for a single resource
const maxCostExplorerPages = 20

// CostExplorerAPI is the subset of the Cost Explorer client used for billing lookups
type CostExplorerAPI interface {
	GetCostAndUsageWithResources(ctx context.Context, params *costexplorer.GetCostAndUsageWithResourcesInput, optFns ...func(*costexplorer.Options)) (*costexplorer.GetCostAndUsageWithResourcesOutput, error)
}

// CostExplorerClient answers usage queries with resource-level Cost Explorer data
type CostExplorerClient struct {
	client CostExplorerAPI
	metric string
	stats  *pricing.APIStats
	now    func() time.Time
}

// NewCostExplorerClient creates a CostExplorerClient. The region of cfg is ignored.
func NewCostExplorerClient(cfg aws.Config, stats *pricing.APIStats) *CostExplorerClient {
	ceCfg := cfg.Copy()
	ceCfg.Region = costExplorerRegion
	return NewCostExplorerClientWithAPI(costexplorer.NewFromConfig(ceCfg), stats)
}

// NewCostExplorerClientWithAPI creates a CostExplorerClient on top of an existing API implementation
func NewCostExplorerClientWithAPI(client CostExplorerAPI, stats *pricing.APIStats) *CostExplorerClient {
	return &CostExplorerClient{
		client: client,
		metric: DefaultCostMetric,
		stats:  stats,
		now:    time.Now,
	}
}

// WithClock replaces the clock used for the resource data window check
func (c *CostExplorerClient) WithClock(now func() time.Time) *CostExplorerClient {
	c.now = now
	return c
}

// CheckPeriod reports whether a YYYY-MM billing period can be queried at resource level
func (c *CostExplorerClient) CheckPeriod(period string) error {
	start, _, err := utils.BillingPeriodBounds(period)
	if err != nil {
		return err
	}

	oldest := c.now().UTC().Add(-ResourceDataWindow)
	if start.Before(oldest) {
		return fmt.Errorf("%w: %s starts %s, oldest allowed start is %s",
			ErrOutsideResourceWindow, period, start.Format("2006-01-02"), oldest.Format("2006-01-02"))
	}
	return nil
}

// ResourceUsage returns the monthly cost of one resource grouped by usage type.
// Every usage type becomes one usage entry.
func (c *CostExplorerClient) ResourceUsage(ctx context.Context, query models.UsageQuery) (*models.UsageReport, error) {
	if err := c.CheckPeriod(query.BillingPeriod); err != nil {
		return nil, err
	}
	start, end, err := utils.BillingPeriodBounds(query.BillingPeriod)
	if err != nil {
		return nil, err
	}

	input := &costexplorer.GetCostAndUsageWithResourcesInput{
		TimePeriod: &types.DateInterval{
			Start: aws.String(start.Format("2006-01-02")),
			End:   aws.String(end.Format("2006-01-02")),
		},
		Granularity: types.GranularityMonthly,
		Metrics:     []string{c.metric},
		Filter:      resourceFilter(query),
		GroupBy: []types.GroupDefinition{
			{
				Type: types.GroupDefinitionTypeDimension,
				Key:  aws.String(string(types.DimensionUsageType)),
			},
		},
	}

	report := &models.UsageReport{}
	for page := 0; page < maxCostExplorerPages; page++ {
		output, err := c.client.GetCostAndUsageWithResources(ctx, input)
		if err != nil {
			c.stats.RecordFailure(pricing.ServiceCostExplorer, costExplorerRegion)
			return nil, wrapAPIError("cost explorer", err)
		}
		c.stats.RecordSuccess(pricing.ServiceCostExplorer, costExplorerRegion)

		c.appendResults(report, query.ResourceID, output.ResultsByTime)

		if aws.ToString(output.NextPageToken) == "" {
			return report, nil
		}
		input.NextPageToken = output.NextPageToken
	}

	return nil, fmt.Errorf("cost explorer returned more than %d pages for %s", maxCostExplorerPages, query.ResourceID)
}

func (c *CostExplorerClient) appendResults(report *models.UsageReport, resourceID string, results []types.ResultByTime) {
	for _, result := range results {
		usage := models.ResourceUsage{ResourceID: resourceID}

		for _, group := range result.Groups {
			metric, ok := group.Metrics[c.metric]
			if !ok {
				usage.Usage = append(usage.Usage, models.UsageEntry{Metric: groupKey(group)})
				continue
			}
			usage.Usage = append(usage.Usage, c.entry(report, groupKey(group), metric))
		}

		// Ungrouped answers carry the amount in Total only
		if len(result.Groups) == 0 {
			if metric, ok := result.Total[c.metric]; ok {
				usage.Usage = append(usage.Usage, c.entry(report, c.metric, metric))
			}
		}

		if len(usage.Usage) > 0 {
			report.Resources = append(report.Resources, usage)
		}
	}
}

func (c *CostExplorerClient) entry(report *models.UsageReport, name string, metric types.MetricValue) models.UsageEntry {
	entry := models.UsageEntry{
		Metric: name,
		Unit:   aws.ToString(metric.Unit),
	}
	if report.Currency == "" {
		report.Currency = entry.Unit
	}
	if metric.Amount != nil {
		amount, err := strconv.ParseFloat(*metric.Amount, 64)
		if err == nil && !math.IsNaN(amount) && !math.IsInf(amount, 0) {
			entry.Cost = &amount
		}
	}
	return entry
}

func groupKey(group types.Group) string {
	if len(group.Keys) == 0 {
		return ""
	}
	return group.Keys[0]
}

// resourceFilter restricts results to the compute service and one resource,
// and to one linked account when known
func resourceFilter(query models.UsageQuery) *types.Expression {
	clauses := []types.Expression{
		dimension(types.DimensionService, computeService),
		dimension(types.DimensionResourceId, ResourceIDFromARN(query.ResourceID)),
	}
	if query.AccountID != "" {
		clauses = append(clauses, dimension(types.DimensionLinkedAccount, query.AccountID))
	}
	return &types.Expression{And: clauses}
}

func dimension(key types.Dimension, value string) types.Expression {
	return types.Expression{
		Dimensions: &types.DimensionValues{
			Key:    key,
			Values: []string{value},
		},
	}
}

// wrapAPIError prefixes smithy API errors with their error code
func wrapAPIError(service string, err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("%s %s: %w", service, apiErr.ErrorCode(), err)
	}
	return fmt.Errorf("%s: %w", service, err)
}
