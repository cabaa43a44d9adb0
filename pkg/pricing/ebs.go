package pricing

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/pricing/types"
	"github.com/goccy/go-json"
	"github.com/younsl/volcost/pkg/utils"
)

// ebsPriceTimeout bounds a single Pricing API call
const ebsPriceTimeout = 5 * time.Second

// EBSPricePerGBMonth returns the price per GB-month for a given EBS volume type and region,
// and where the price came from
func (c *Client) EBSPricePerGBMonth(ctx context.Context, volumeType, region string) (float64, PricingSource) {
	// Generate cache key
	cacheKey := fmt.Sprintf("ebs:%s:%s", volumeType, region)

	// Check cache first
	c.cacheLock.RLock()
	if price, found := c.ebsCache[cacheKey]; found {
		c.cacheLock.RUnlock()
		c.stats.RecordCacheHit(ServicePricing, region)
		return price, PricingSourceCache
	}
	c.cacheLock.RUnlock()

	// Try to get price from AWS API
	if c.api != nil {
		price, err := c.getEBSPriceFromAPI(ctx, volumeType, region)
		if err == nil {
			c.stats.RecordSuccess(ServicePricing, region)

			// Cache the result
			c.cacheLock.Lock()
			c.ebsCache[cacheKey] = price
			c.cacheLock.Unlock()

			return price, PricingSourceAPI
		}

		// Log the error but continue to use fallback pricing
		c.logger.Warn().Err(err).
			Str("volume_type", volumeType).
			Str("region", region).
			Msg("error getting EBS price from API, using fallback pricing")
	}

	c.stats.RecordFailure(ServicePricing, region)

	if price, ok := defaultEBSPrice(volumeType, region); ok {
		return price, PricingSourceDefault
	}

	// Only return N/A if all fallbacks fail
	return 0, PricingSourceNA
}

// getEBSPriceFromAPI retrieves EBS volume pricing from the AWS Pricing API
func (c *Client) getEBSPriceFromAPI(ctx context.Context, volumeType, region string) (float64, error) {
	ctx, cancel := context.WithTimeout(ctx, ebsPriceTimeout)
	defer cancel()

	// Construct filters for EBS volume types
	filters := []types.Filter{
		{
			Type:  types.FilterTypeTermMatch,
			Field: aws.String("volumeType"),
			Value: aws.String(mapVolumeTypeToAPIValue(volumeType)),
		},
		{
			Type:  types.FilterTypeTermMatch,
			Field: aws.String("location"),
			Value: aws.String(utils.GetRegionDescriptiveName(region)),
		},
		{
			Type:  types.FilterTypeTermMatch,
			Field: aws.String("productFamily"),
			Value: aws.String("Storage"),
		},
		{
			Type:  types.FilterTypeTermMatch,
			Field: aws.String("regionCode"),
			Value: aws.String(region),
		},
	}

	// Get multiple products to find exact match
	products, err := c.GetPricingProducts(ctx, "AmazonEC2", filters, "EBS "+volumeType, region)
	if err != nil {
		return 0, err
	}

	for _, product := range products {
		if volumeAPIName(product) == volumeType {
			return extractEBSPrice(product)
		}
	}

	return 0, fmt.Errorf("no exact match found for EBS volume type %s in region %s", volumeType, region)
}

// mapVolumeTypeToAPIValue maps EBS volume types to their API filter values
func mapVolumeTypeToAPIValue(volumeType string) string {
	switch volumeType {
	case "gp2", "gp3":
		return "General Purpose"
	case "io1", "io2":
		return "Provisioned IOPS"
	case "st1":
		return "Throughput Optimized HDD"
	case "sc1":
		return "Cold HDD"
	case "standard":
		return "Magnetic"
	default:
		return "General Purpose" // Default value
	}
}

// priceListProduct is the part of a Pricing API price list document we read
type priceListProduct struct {
	Product struct {
		Attributes map[string]string `json:"attributes"`
	} `json:"product"`
	Terms struct {
		OnDemand map[string]struct {
			PriceDimensions map[string]struct {
				Unit         string            `json:"unit"`
				PricePerUnit map[string]string `json:"pricePerUnit"`
			} `json:"priceDimensions"`
		} `json:"OnDemand"`
	} `json:"terms"`
}

func volumeAPIName(product string) string {
	var doc priceListProduct
	if err := json.Unmarshal([]byte(product), &doc); err != nil {
		return ""
	}
	return doc.Product.Attributes["volumeApiName"]
}

// extractEBSPrice extracts the price per GB-month from the EBS pricing data
func extractEBSPrice(product string) (float64, error) {
	var doc priceListProduct
	if err := json.Unmarshal([]byte(product), &doc); err != nil {
		return 0, fmt.Errorf("error parsing pricing data: %w", err)
	}

	for _, offer := range doc.Terms.OnDemand {
		for _, dimension := range offer.PriceDimensions {
			// Check that this is a per GB-month price
			if dimension.Unit != "GB-Mo" && dimension.Unit != "GB-month" {
				return 0, fmt.Errorf("unexpected pricing unit: %s", dimension.Unit)
			}

			usd, ok := dimension.PricePerUnit["USD"]
			if !ok {
				return 0, fmt.Errorf("USD price not found or invalid")
			}

			price, err := strconv.ParseFloat(usd, 64)
			if err != nil {
				return 0, fmt.Errorf("error parsing price: %w", err)
			}
			return price, nil
		}
	}

	return 0, fmt.Errorf("no price dimension found")
}
