package pricing

import (
	"context"
	"fmt"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/pricing"
	"github.com/aws/aws-sdk-go-v2/service/pricing/types"
	"github.com/rs/zerolog"
)

// The AWS Pricing API is only available in us-east-1 and ap-south-1 regions
const pricingRegion = "us-east-1"

// PricingAPI is the subset of the AWS Pricing client used here
type PricingAPI interface {
	GetProducts(ctx context.Context, params *pricing.GetProductsInput, optFns ...func(*pricing.Options)) (*pricing.GetProductsOutput, error)
}

// Client looks up list prices with an in-memory cache and a fallback price table
type Client struct {
	api    PricingAPI
	stats  *APIStats
	logger zerolog.Logger

	cacheLock sync.RWMutex
	ebsCache  map[string]float64
}

// NewClient creates a pricing Client. The region of cfg is ignored.
func NewClient(cfg aws.Config, stats *APIStats, logger zerolog.Logger) *Client {
	pricingCfg := cfg.Copy()
	pricingCfg.Region = pricingRegion
	return NewClientWithAPI(pricing.NewFromConfig(pricingCfg), stats, logger)
}

// NewClientWithAPI creates a Client on top of an existing API implementation.
// A nil api makes every lookup use the fallback table.
func NewClientWithAPI(api PricingAPI, stats *APIStats, logger zerolog.Logger) *Client {
	return &Client{
		api:      api,
		stats:    stats,
		logger:   logger.With().Str("component", "pricing").Logger(),
		ebsCache: make(map[string]float64),
	}
}

// GetPricingProducts gets multiple pricing products from AWS API
func (c *Client) GetPricingProducts(ctx context.Context, serviceCode string, filters []types.Filter, resourceType, region string) ([]string, error) {
	if c.api == nil {
		return nil, fmt.Errorf("AWS pricing client not initialized")
	}

	// Prepare the API input
	input := &pricing.GetProductsInput{
		ServiceCode: aws.String(serviceCode),
		Filters:     filters,
		MaxResults:  aws.Int32(100),
	}

	// Call the API
	resp, err := c.api.GetProducts(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("error calling AWS Pricing API: %w", err)
	}

	if len(resp.PriceList) == 0 {
		return nil, fmt.Errorf("no pricing found for %s in region %s", resourceType, region)
	}

	return resp.PriceList, nil
}
