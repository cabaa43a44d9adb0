package audit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/younsl/volcost/internal/models"
)

func newTestAuditor(pager VolumePager, reporter UsageReporter, notifier Notifier) *Auditor {
	logger := zerolog.Nop()
	resolver := NewCostResolver(reporter, "acct").
		WithClock(fixedClock(time.Date(2026, time.March, 3, 0, 0, 0, 0, time.UTC)))

	return NewAuditor(AuditorConfig{
		Lister:      NewLister(pager, 10, logger),
		Coordinator: NewCoordinator(resolver, logger),
		Resolver:    resolver,
		Notifier:    notifier,
		Report:      ReportOptions{Currency: "USD"},
		Logger:      logger,
	})
}

func TestAuditorRunSendsEmptyReportOnce(t *testing.T) {
	pager := &fakePager{pages: []*models.VolumePage{{Volumes: []models.Volume{vol("att", models.AttachmentStateAttached)}}}}
	reporter := &fakeReporter{}
	notifier := &recordingNotifier{}

	report, err := newTestAuditor(pager, reporter, notifier).Run(context.Background())
	require.NoError(t, err)

	require.Len(t, notifier.reports, 1)
	assert.Equal(t, 0.0, notifier.reports[0].TotalCost)
	assert.Empty(t, notifier.reports[0].Lines)
	assert.Equal(t, "2026-02", report.BillingPeriod)
	assert.Empty(t, reporter.queries)
}

func TestAuditorRunEndToEnd(t *testing.T) {
	pager := &fakePager{pages: []*models.VolumePage{
		{
			Volumes: []models.Volume{vol("1", models.AttachmentStateUnattached), vol("x", models.AttachmentStateAttached)},
			Next:    &models.PageLink{Href: "https://api/v1/volumes?start=p2"},
		},
		{Volumes: []models.Volume{vol("2", models.AttachmentStateUnattached), vol("3", models.AttachmentStateUnattached)}},
	}}
	reporter := &fakeReporter{
		reports: map[string]*models.UsageReport{
			"crn:1": {Resources: []models.ResourceUsage{{Usage: []models.UsageEntry{{Cost: cost(1.5)}, {Cost: cost(2.5)}}}}},
			"crn:3": {Resources: []models.ResourceUsage{{Usage: []models.UsageEntry{{Cost: cost(3)}}}}},
		},
		errs: map[string]error{"crn:2": errors.New("timeout")},
	}
	notifier := &recordingNotifier{}

	report, err := newTestAuditor(pager, reporter, notifier).Run(context.Background())
	require.NoError(t, err)

	require.Len(t, notifier.reports, 1)
	assert.Len(t, report.Lines, 3)
	assert.InDelta(t, 7.0, report.TotalCost, 1e-9)
	assert.Equal(t, 1, report.FailedLookups)
	assert.Equal(t, "Total cost: $7.00", report.TotalLine)
	for _, q := range reporter.queries {
		assert.Equal(t, "2026-02", q.BillingPeriod)
		assert.Equal(t, "acct", q.AccountID)
	}
}

func TestAuditorRunListingFailureSendsNothing(t *testing.T) {
	pager := &fakePager{err: errors.New("unauthorized"), errAt: 1}
	notifier := &recordingNotifier{}

	report, err := newTestAuditor(pager, &fakeReporter{}, notifier).Run(context.Background())
	require.Error(t, err)
	assert.Nil(t, report)
	assert.Empty(t, notifier.reports)
}

func TestAuditorRunDeliveryFailureIsNotFatal(t *testing.T) {
	pager := &fakePager{pages: []*models.VolumePage{{}}}
	notifier := &recordingNotifier{err: errors.New("webhook 500")}

	report, err := newTestAuditor(pager, &fakeReporter{}, notifier).Run(context.Background())
	require.NoError(t, err)
	require.NotNil(t, report)
	assert.Len(t, notifier.reports, 1)
}
