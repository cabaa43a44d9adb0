package aws

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/arn"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/younsl/volcost/internal/models"
	"github.com/younsl/volcost/pkg/utils"
)

// DefaultVolumePageSize is the MaxResults sent with each DescribeVolumes call
const DefaultVolumePageSize int32 = 500

// EC2API is the subset of the EC2 client used for volume listing
type EC2API interface {
	DescribeVolumes(ctx context.Context, params *ec2.DescribeVolumesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeVolumesOutput, error)
}

// EBSClient lists EBS volumes one page at a time
type EBSClient struct {
	client    EC2API
	region    string
	accountID string
	pageSize  int32

	mu      sync.RWMutex
	catalog map[string]models.Volume // keyed by ARN
}

// NewEBSClient creates a new EBSClient for the region in cfg
func NewEBSClient(cfg aws.Config, accountID string) *EBSClient {
	return NewEBSClientWithAPI(ec2.NewFromConfig(cfg), cfg.Region, accountID)
}

// NewEBSClientWithAPI creates an EBSClient on top of an existing EC2 API implementation
func NewEBSClientWithAPI(client EC2API, region, accountID string) *EBSClient {
	return &EBSClient{
		client:    client,
		region:    region,
		accountID: accountID,
		pageSize:  DefaultVolumePageSize,
		catalog:   make(map[string]models.Volume),
	}
}

// ListVolumes returns one page of volumes in every state. start is the NextToken
// of the previous page, empty for the first page.
func (c *EBSClient) ListVolumes(ctx context.Context, start string) (*models.VolumePage, error) {
	input := &ec2.DescribeVolumesInput{
		MaxResults: aws.Int32(c.pageSize),
	}
	if start != "" {
		input.NextToken = aws.String(start)
	}

	result, err := c.client.DescribeVolumes(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("error querying EBS volumes: %w", err)
	}

	page := &models.VolumePage{
		Volumes: make([]models.Volume, 0, len(result.Volumes)),
	}

	for _, volume := range result.Volumes {
		info := c.toVolume(volume)
		page.Volumes = append(page.Volumes, info)

		c.mu.Lock()
		c.catalog[info.CRN] = info
		c.mu.Unlock()
	}

	if token := aws.ToString(result.NextToken); token != "" {
		page.Next = &models.PageLink{Start: token}
	}

	return page, nil
}

// Lookup returns a volume previously seen by ListVolumes
func (c *EBSClient) Lookup(resourceID string) (models.Volume, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	volume, ok := c.catalog[resourceID]
	return volume, ok
}

func (c *EBSClient) toVolume(volume types.Volume) models.Volume {
	volumeID := aws.ToString(volume.VolumeId)

	info := models.Volume{
		ID:              volumeID,
		CRN:             VolumeARN(c.region, c.accountID, volumeID),
		Name:            utils.GetName(volume.Tags),
		Capacity:        int(aws.ToInt32(volume.Size)),
		AttachmentState: AttachmentState(volume.State),
		VolumeType:      string(volume.VolumeType),
		Region:          c.region,
	}
	if volume.CreateTime != nil {
		info.CreateTime = *volume.CreateTime
	}
	return info
}

// AttachmentState maps an EBS volume state to the audit attachment state
func AttachmentState(state types.VolumeState) models.AttachmentState {
	switch state {
	case types.VolumeStateAvailable:
		return models.AttachmentStateUnattached
	case types.VolumeStateInUse:
		return models.AttachmentStateAttached
	case types.VolumeStateError:
		return models.AttachmentStateUnusable
	default:
		return models.AttachmentStateUnknown
	}
}

// VolumeARN builds the ARN of an EBS volume
func VolumeARN(region, accountID, volumeID string) string {
	return arn.ARN{
		Partition: partitionForRegion(region),
		Service:   "ec2",
		Region:    region,
		AccountID: accountID,
		Resource:  "volume/" + volumeID,
	}.String()
}

// ResourceIDFromARN returns the trailing resource id of an ARN ("vol-123" for
// ".../volume/vol-123"). Values that are not ARNs are returned unchanged.
func ResourceIDFromARN(value string) string {
	if !arn.IsARN(value) {
		return value
	}
	parsed, err := arn.Parse(value)
	if err != nil {
		return value
	}
	resource := parsed.Resource
	if i := strings.LastIndexAny(resource, "/:"); i >= 0 {
		return resource[i+1:]
	}
	return resource
}

func partitionForRegion(region string) string {
	switch {
	case strings.HasPrefix(region, "cn-"):
		return "aws-cn"
	case strings.HasPrefix(region, "us-gov-"):
		return "aws-us-gov"
	default:
		return "aws"
	}
}
