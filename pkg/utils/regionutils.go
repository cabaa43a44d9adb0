package utils

// defaultRegion is scanned when no region is configured
const defaultRegion = "us-east-1"

// regionInfo holds the Pricing API location name and the billing usage type
// prefix of a region
type regionInfo struct {
	location    string
	usagePrefix string
}

// regions lists the regions with EBS list prices. us-east-1 usage types carry no prefix.
var regions = map[string]regionInfo{
	"us-east-1":      {"US East (N. Virginia)", ""},
	"us-east-2":      {"US East (Ohio)", "USE2"},
	"us-west-1":      {"US West (N. California)", "USW1"},
	"us-west-2":      {"US West (Oregon)", "USW2"},
	"af-south-1":     {"Africa (Cape Town)", "AFS1"},
	"ap-east-1":      {"Asia Pacific (Hong Kong)", "APE1"},
	"ap-south-1":     {"Asia Pacific (Mumbai)", "APS3"},
	"ap-northeast-1": {"Asia Pacific (Tokyo)", "APN1"},
	"ap-northeast-2": {"Asia Pacific (Seoul)", "APN2"},
	"ap-northeast-3": {"Asia Pacific (Osaka)", "APN3"},
	"ap-southeast-1": {"Asia Pacific (Singapore)", "APS1"},
	"ap-southeast-2": {"Asia Pacific (Sydney)", "APS2"},
	"ca-central-1":   {"Canada (Central)", "CAN1"},
	"eu-central-1":   {"EU (Frankfurt)", "EUC1"},
	"eu-west-1":      {"EU (Ireland)", "EU"},
	"eu-west-2":      {"EU (London)", "EUW2"},
	"eu-west-3":      {"EU (Paris)", "EUW3"},
	"eu-north-1":     {"EU (Stockholm)", "EUN1"},
	"eu-south-1":     {"EU (Milan)", "EUS1"},
	"me-south-1":     {"Middle East (Bahrain)", "MES1"},
	"sa-east-1":      {"South America (Sao Paulo)", "SAE1"},
}

// GetRegionDescriptiveName returns the Pricing API location name of a region.
// Unknown regions map to US East (N. Virginia).
func GetRegionDescriptiveName(region string) string {
	if info, ok := regions[region]; ok {
		return info.location
	}
	return regions[defaultRegion].location
}

// UsageType prefixes a billing usage type ("EBS:VolumeUsage.gp3") with the
// region code Cost Explorer reports it under ("APN2-EBS:VolumeUsage.gp3")
func UsageType(region, usage string) string {
	info, ok := regions[region]
	if !ok || info.usagePrefix == "" {
		return usage
	}
	return info.usagePrefix + "-" + usage
}

// IsValidRegion reports whether region has known list prices
func IsValidRegion(region string) bool {
	_, ok := regions[region]
	return ok
}

// GetDefaultRegion returns the region used when none is configured
func GetDefaultRegion() string {
	return defaultRegion
}
