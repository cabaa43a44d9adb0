package utils

import (
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreviousBillingPeriod(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want string
	}{
		{"mid month", time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC), "2026-02"},
		{"january", time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC), "2025-12"},
		{"local time before utc rollover", time.Date(2026, time.April, 1, 5, 0, 0, 0, time.FixedZone("KST", 9*3600)), "2026-02"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PreviousBillingPeriod(tt.now))
		})
	}
}

func TestBillingPeriodBounds(t *testing.T) {
	start, end, err := BillingPeriodBounds("2025-12")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, time.December, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC), end)

	_, _, err = BillingPeriodBounds("2025/12")
	assert.Error(t, err)
}

func TestGetName(t *testing.T) {
	tags := []types.Tag{
		{Key: aws.String("team"), Value: aws.String("platform")},
		{Key: aws.String("Name"), Value: aws.String("db-data")},
		{Key: aws.String("empty")},
	}

	assert.Equal(t, "db-data", GetName(tags))
	assert.Equal(t, "platform", GetTagValue(tags, "team"))
	assert.Empty(t, GetTagValue(tags, "empty"))
	assert.Empty(t, GetName(nil))
}

func TestRegions(t *testing.T) {
	assert.True(t, IsValidRegion("ap-northeast-2"))
	assert.False(t, IsValidRegion("mars-east-1"))
	assert.Equal(t, "Asia Pacific (Seoul)", GetRegionDescriptiveName("ap-northeast-2"))
	assert.Equal(t, "US East (N. Virginia)", GetRegionDescriptiveName("mars-east-1"))
	assert.Equal(t, "us-east-1", GetDefaultRegion())
	assert.True(t, IsValidRegion(GetDefaultRegion()))
}

func TestUsageType(t *testing.T) {
	tests := []struct {
		region string
		want   string
	}{
		{"us-east-1", "EBS:VolumeUsage.gp3"},
		{"ap-northeast-2", "APN2-EBS:VolumeUsage.gp3"},
		{"eu-west-1", "EU-EBS:VolumeUsage.gp3"},
		{"mars-east-1", "EBS:VolumeUsage.gp3"},
	}

	for _, tt := range tests {
		t.Run(tt.region, func(t *testing.T) {
			assert.Equal(t, tt.want, UsageType(tt.region, "EBS:VolumeUsage.gp3"))
		})
	}
}
