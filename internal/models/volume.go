package models

import "time"

// AttachmentState describes whether a volume is connected to a compute instance
type AttachmentState string

const (
	// AttachmentStateUnattached is a volume not connected to any instance
	AttachmentStateUnattached AttachmentState = "unattached"

	// AttachmentStateAttached is a volume connected to at least one instance
	AttachmentStateAttached AttachmentState = "attached"

	// AttachmentStateUnusable is a volume in an error state
	AttachmentStateUnusable AttachmentState = "unusable"

	// AttachmentStateUnknown covers transitional states (creating, deleting, ...)
	AttachmentStateUnknown AttachmentState = "unknown"
)

// Volume represents a block-storage volume as it flows through the audit
type Volume struct {
	ID              string
	CRN             string // resource identifier used as the billing lookup key
	Name            string
	Capacity        int // GB
	AttachmentState AttachmentState
	VolumeType      string
	Region          string
	CreateTime      time.Time

	// Set by enrichment. Cost is 0 when CostErr is non-nil.
	Cost    float64
	CostErr error
}

// CostKnown reports whether the previous month cost was resolved
func (v Volume) CostKnown() bool {
	return v.CostErr == nil
}

// PageLink points at the next page of a volume listing
type PageLink struct {
	// Href is a full URL carrying a "start" query parameter
	Href string
	// Start is the raw cursor when the API hands it out directly
	Start string
}

// VolumePage is one page of a volume listing
type VolumePage struct {
	Volumes []Volume
	Next    *PageLink
}
