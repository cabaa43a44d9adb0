package audit

import (
	"context"
	"sync"

	"github.com/younsl/volcost/internal/models"
)

// fakePager serves pages in order and records the cursor of every call
type fakePager struct {
	pages  []*models.VolumePage
	err    error
	errAt  int
	starts []string
}

func (f *fakePager) ListVolumes(_ context.Context, start string) (*models.VolumePage, error) {
	f.starts = append(f.starts, start)
	call := len(f.starts)
	if f.err != nil && call == f.errAt {
		return nil, f.err
	}
	if call > len(f.pages) {
		return &models.VolumePage{}, nil
	}
	return f.pages[call-1], nil
}

// fakeReporter answers usage queries from a map keyed by resource id
type fakeReporter struct {
	reports map[string]*models.UsageReport
	errs    map[string]error
	queries []models.UsageQuery
}

func (f *fakeReporter) ResourceUsage(_ context.Context, q models.UsageQuery) (*models.UsageReport, error) {
	f.queries = append(f.queries, q)
	if err, ok := f.errs[q.ResourceID]; ok {
		return nil, err
	}
	return f.reports[q.ResourceID], nil
}

// fakeLookup returns fixed costs per resource id
type fakeLookup struct {
	mu    sync.Mutex
	costs map[string]float64
	errs  map[string]error
	calls []string
}

func (f *fakeLookup) PreviousMonthCost(_ context.Context, id string) (float64, error) {
	f.mu.Lock()
	f.calls = append(f.calls, id)
	f.mu.Unlock()
	if err, ok := f.errs[id]; ok {
		return 0, err
	}
	return f.costs[id], nil
}

// recordingNotifier keeps every report it was asked to send
type recordingNotifier struct {
	reports []models.Report
	err     error
}

func (n *recordingNotifier) Send(_ context.Context, report models.Report) error {
	n.reports = append(n.reports, report)
	return n.err
}

func vol(id string, state models.AttachmentState) models.Volume {
	return models.Volume{
		ID:              id,
		CRN:             "crn:" + id,
		Name:            "name-" + id,
		Capacity:        100,
		AttachmentState: state,
	}
}

func cost(v float64) *float64 {
	return &v
}
