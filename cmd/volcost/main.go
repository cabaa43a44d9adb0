package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/briandowns/spinner"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/younsl/volcost/internal/audit"
	"github.com/younsl/volcost/internal/config"
	"github.com/younsl/volcost/internal/models"
	"github.com/younsl/volcost/internal/version"
	"github.com/younsl/volcost/pkg/aws"
	"github.com/younsl/volcost/pkg/formatter"
	"github.com/younsl/volcost/pkg/notifier"
	"github.com/younsl/volcost/pkg/pricing"
	"github.com/younsl/volcost/pkg/utils"
)

var (
	configFile  string
	showVersion bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "volcost",
		Short: "Report unattached block storage volumes and what they cost",
		Long: `volcost lists every unattached EBS volume in a region, looks up what
each one cost in the previous calendar month and posts the summary to a
Microsoft Teams or Slack webhook.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if showVersion {
				fmt.Println(version.Get())
				return nil
			}

			cfg, err := config.Load(cmd.Flags(), configFile)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return run(ctx, cfg)
		},
	}

	config.RegisterFlags(rootCmd.Flags())
	rootCmd.Flags().StringVarP(&configFile, "config", "c", "", "Path to a YAML config file")
	rootCmd.Flags().BoolVarP(&showVersion, "version", "v", false, "Show version information")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newLogger(cfg config.Config) zerolog.Logger {
	var out io.Writer = os.Stderr
	if cfg.LogFormat == "console" {
		out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	return zerolog.New(out).Level(level).With().
		Timestamp().
		Str("run_id", uuid.NewString()).
		Logger()
}

func run(ctx context.Context, cfg config.Config) error {
	logger := newLogger(cfg)
	startTime := time.Now()

	if !utils.IsValidRegion(cfg.Region) {
		logger.Warn().Str("region", cfg.Region).Msg("region is not in the known region list, continuing anyway")
	}

	awsCfg, err := aws.LoadConfig(ctx, cfg.Region)
	if err != nil {
		return err
	}

	accountID := cfg.AccountID
	if accountID == "" {
		accountID, err = aws.ResolveAccountID(ctx, aws.NewSTSClient(awsCfg))
		if err != nil {
			return fmt.Errorf("error resolving account id: %w", err)
		}
	}
	logger = logger.With().Str("account_id", accountID).Str("region", cfg.Region).Logger()

	stats := pricing.NewAPIStats()
	ebsClient := aws.NewEBSClient(awsCfg, accountID)

	var reporter audit.UsageReporter
	switch cfg.CostSource {
	case config.CostSourceEstimate:
		reporter = pricing.NewEstimator(pricing.NewClient(awsCfg, stats, logger), ebsClient)
	default:
		ce := aws.NewCostExplorerClient(awsCfg, stats)
		if err := ce.CheckPeriod(utils.PreviousBillingPeriod(time.Now())); err != nil {
			return fmt.Errorf("%w; use --cost-source %s for previous-month costs", err, config.CostSourceEstimate)
		}
		reporter = ce
	}

	resolver := audit.NewCostResolver(reporter, accountID)
	auditor := audit.NewAuditor(audit.AuditorConfig{
		Lister: audit.NewLister(ebsClient, cfg.MaxPages, logger),
		Coordinator: audit.NewCoordinator(resolver, logger,
			audit.WithConcurrency(cfg.Concurrency),
			audit.WithLookupTimeout(cfg.LookupTimeout),
		),
		Resolver: resolver,
		Notifier: newNotifier(cfg),
		Report: audit.ReportOptions{
			Title:    cfg.ReportTitle,
			Currency: cfg.Currency,
		},
		RunTimeout: cfg.RunTimeout,
		Logger:     logger,
	})

	var s *spinner.Spinner
	if !cfg.Quiet {
		s = spinner.New(spinner.CharSets[9], 200*time.Millisecond, spinner.WithWriter(os.Stderr))
		s.Suffix = fmt.Sprintf(" Auditing EBS volumes in %s ...", cfg.Region)
		s.Start()
	}

	report, err := auditor.Run(ctx)

	if s != nil {
		s.Stop()
	}
	if err != nil {
		return err
	}

	if !cfg.Quiet {
		printReport(*report, stats, startTime)
	}
	return nil
}

func newNotifier(cfg config.Config) audit.Notifier {
	var builder notifier.PayloadBuilder = notifier.Teams{}
	if cfg.Notifier == config.NotifierSlack {
		builder = notifier.Slack{Channel: cfg.SlackChannel}
	}

	if cfg.DryRun {
		return notifier.NewWriter(os.Stdout, builder)
	}
	return notifier.NewWebhook(cfg.WebhookURL, builder, nil)
}

func printReport(report models.Report, stats *pricing.APIStats, startTime time.Time) {
	fmt.Println()
	formatter.PrintReportTable(os.Stdout, report)
	formatter.PrintTypeSummary(os.Stdout, report)
	formatter.PrintAPIStats(os.Stdout, stats)
	formatter.PrintTimestamp(os.Stdout, startTime, time.Since(startTime))
}
