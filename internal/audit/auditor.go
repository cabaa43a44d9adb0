package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/younsl/volcost/internal/models"
)

// Auditor runs one full audit: list, enrich, report, notify.
type Auditor struct {
	lister      *Lister
	coordinator *Coordinator
	resolver    *CostResolver
	notifier    Notifier
	report      ReportOptions
	runTimeout  time.Duration
	now         func() time.Time
	logger      zerolog.Logger
}

// AuditorConfig wires the pipeline stages together
type AuditorConfig struct {
	Lister      *Lister
	Coordinator *Coordinator
	Resolver    *CostResolver
	Notifier    Notifier
	Report      ReportOptions
	RunTimeout  time.Duration
	Logger      zerolog.Logger
}

// NewAuditor creates an Auditor from its stages
func NewAuditor(cfg AuditorConfig) *Auditor {
	return &Auditor{
		lister:      cfg.Lister,
		coordinator: cfg.Coordinator,
		resolver:    cfg.Resolver,
		notifier:    cfg.Notifier,
		report:      cfg.Report,
		runTimeout:  cfg.RunTimeout,
		now:         time.Now,
		logger:      cfg.Logger,
	}
}

// Run executes the audit. A listing failure is returned and nothing is sent.
// Delivery failures are logged only; the report is still returned.
func (a *Auditor) Run(ctx context.Context) (*models.Report, error) {
	runCtx := ctx
	if a.runTimeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, a.runTimeout)
		defer cancel()
	}

	volumes, err := a.lister.ListUnattached(runCtx)
	if err != nil {
		return nil, fmt.Errorf("error listing unattached volumes: %w", err)
	}

	opts := a.report
	opts.GeneratedAt = a.now().UTC()
	if a.resolver != nil && opts.BillingPeriod == "" {
		opts.BillingPeriod = a.resolver.BillingPeriod()
	}

	var enriched []models.Volume
	if len(volumes) == 0 {
		a.logger.Info().Msg("no volumes with attachment state 'unattached' found")
	} else {
		a.logger.Info().Int("count", len(volumes)).Msg("found unattached volumes, resolving cost")

		var results []models.CostResult
		enriched, results = a.coordinator.Enrich(runCtx, volumes)

		failed := 0
		for _, result := range results {
			if !result.OK() {
				failed++
			}
		}
		if failed > 0 {
			a.logger.Warn().Int("failed", failed).Int("total", len(results)).Msg("some cost lookups failed")
		}
	}

	report := BuildReport(enriched, opts)

	if a.notifier == nil {
		a.logger.Info().Msg("no notifier configured, skipping delivery")
		return &report, nil
	}

	// Delivery is not bound by the run budget.
	if err := a.notifier.Send(ctx, report); err != nil {
		a.logger.Error().Err(err).Msg("failed to deliver report")
	} else {
		a.logger.Info().
			Int("volumes", len(report.Volumes)).
			Str("total", FormatMoney(report.TotalCost, report.Currency)).
			Msg("report delivered")
	}

	return &report, nil
}
