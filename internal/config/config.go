// Package config builds the run configuration from flags, environment and an optional YAML file.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/younsl/volcost/pkg/utils"
)

// Supported notifiers and cost sources
const (
	NotifierTeams = "teams"
	NotifierSlack = "slack"

	CostSourceBilling  = "billing"
	CostSourceEstimate = "estimate"
)

// Defaults
const (
	DefaultCurrency      = "USD"
	DefaultMaxPages      = 1000
	DefaultLookupTimeout = 30 * time.Second
	DefaultRunTimeout    = 15 * time.Minute
)

var (
	// ErrMissingWebhook is returned when delivery is enabled without a webhook URL
	ErrMissingWebhook = errors.New("webhook url is required unless --dry-run is set")
)

// Config is built once at startup and passed to every component
type Config struct {
	Region        string        `mapstructure:"region"`
	AccountID     string        `mapstructure:"account_id"`
	Notifier      string        `mapstructure:"notifier"`
	WebhookURL    string        `mapstructure:"webhook_url"`
	SlackChannel  string        `mapstructure:"slack_channel"`
	CostSource    string        `mapstructure:"cost_source"`
	Currency      string        `mapstructure:"currency"`
	ReportTitle   string        `mapstructure:"report_title"`
	Concurrency   int           `mapstructure:"concurrency"`
	MaxPages      int           `mapstructure:"max_pages"`
	LookupTimeout time.Duration `mapstructure:"lookup_timeout"`
	RunTimeout    time.Duration `mapstructure:"run_timeout"`
	DryRun        bool          `mapstructure:"dry_run"`
	Quiet         bool          `mapstructure:"quiet"`
	LogLevel      string        `mapstructure:"log_level"`
	LogFormat     string        `mapstructure:"log_format"`
}

// envAliases lists environment variables accepted for each key besides VOLCOST_<KEY>
var envAliases = map[string][]string{
	"region":      {"AWS_REGION"},
	"account_id":  {"ACCOUNT_ID"},
	"webhook_url": {"TEAMS_WORKFLOW_URL"},
}

// RegisterFlags adds every configuration flag to the given flag set
func RegisterFlags(flags *pflag.FlagSet) {
	flags.StringP("region", "r", utils.GetDefaultRegion(), "AWS region to scan")
	flags.String("account-id", "", "Account ID used for billing lookups (default: caller identity)")
	flags.String("notifier", NotifierTeams, "Chat notifier: teams or slack")
	flags.String("webhook-url", "", "Incoming webhook / Teams workflow URL")
	flags.String("slack-channel", "", "Override the Slack channel of the webhook")
	flags.String("cost-source", CostSourceEstimate, "Cost source: estimate (Pricing API) or billing (Cost Explorer, 14 day resource window)")
	flags.String("currency", DefaultCurrency, "Currency code shown in the report")
	flags.String("report-title", "", "Report headline")
	flags.Int("concurrency", 1, "Number of cost lookups in flight")
	flags.Int("max-pages", DefaultMaxPages, "Maximum volume pages to read (0 = unbounded)")
	flags.Duration("lookup-timeout", DefaultLookupTimeout, "Timeout for a single cost lookup (0 = none)")
	flags.Duration("run-timeout", DefaultRunTimeout, "Wall-clock budget for listing and cost lookups (0 = none)")
	flags.Bool("dry-run", false, "Print the report without sending it")
	flags.BoolP("quiet", "q", false, "Disable the progress spinner and table output")
	flags.String("log-level", "info", "Log level: debug, info, warn, error")
	flags.String("log-format", "console", "Log format: console or json")
}

// Load reads configuration in priority order flags > env > file > defaults.
// configFile may be empty.
func Load(flags *pflag.FlagSet, configFile string) (Config, error) {
	v := viper.New()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("error reading config file %s: %w", configFile, err)
		}
	}

	v.SetEnvPrefix("VOLCOST")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	for key, aliases := range envAliases {
		names := append([]string{"VOLCOST_" + strings.ToUpper(key)}, aliases...)
		if err := v.BindEnv(append([]string{key}, names...)...); err != nil {
			return Config{}, fmt.Errorf("error binding env for %s: %w", key, err)
		}
	}

	if flags != nil {
		var bindErr error
		flags.VisitAll(func(f *pflag.Flag) {
			key := strings.ReplaceAll(f.Name, "-", "_")
			if err := v.BindPFlag(key, f); err != nil && bindErr == nil {
				bindErr = fmt.Errorf("error binding flag %s: %w", f.Name, err)
			}
		})
		if bindErr != nil {
			return Config{}, bindErr
		}
	}

	setDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("error decoding config: %w", err)
	}
	cfg.normalize()

	return cfg, cfg.Validate()
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("region", utils.GetDefaultRegion())
	v.SetDefault("notifier", NotifierTeams)
	v.SetDefault("cost_source", CostSourceEstimate)
	v.SetDefault("currency", DefaultCurrency)
	v.SetDefault("concurrency", 1)
	v.SetDefault("max_pages", DefaultMaxPages)
	v.SetDefault("lookup_timeout", DefaultLookupTimeout)
	v.SetDefault("run_timeout", DefaultRunTimeout)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")
}

func (c *Config) normalize() {
	c.Notifier = strings.ToLower(strings.TrimSpace(c.Notifier))
	c.CostSource = strings.ToLower(strings.TrimSpace(c.CostSource))
	c.Currency = strings.ToUpper(strings.TrimSpace(c.Currency))
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	c.LogFormat = strings.ToLower(strings.TrimSpace(c.LogFormat))
	c.AccountID = strings.TrimSpace(c.AccountID)
	c.WebhookURL = strings.TrimSpace(c.WebhookURL)
}

// Validate checks the configuration for unusable values
func (c Config) Validate() error {
	if c.Region == "" {
		return fmt.Errorf("region must not be empty")
	}

	switch c.Notifier {
	case NotifierTeams, NotifierSlack:
	default:
		return fmt.Errorf("unsupported notifier %q (want %s or %s)", c.Notifier, NotifierTeams, NotifierSlack)
	}

	switch c.CostSource {
	case CostSourceBilling, CostSourceEstimate:
	default:
		return fmt.Errorf("unsupported cost source %q (want %s or %s)", c.CostSource, CostSourceBilling, CostSourceEstimate)
	}

	if !c.DryRun && c.WebhookURL == "" {
		return ErrMissingWebhook
	}
	if c.Concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1, got %d", c.Concurrency)
	}
	if c.MaxPages < 0 {
		return fmt.Errorf("max pages must not be negative, got %d", c.MaxPages)
	}
	if c.LookupTimeout < 0 || c.RunTimeout < 0 {
		return fmt.Errorf("timeouts must not be negative")
	}

	switch c.LogFormat {
	case "console", "json":
	default:
		return fmt.Errorf("unsupported log format %q", c.LogFormat)
	}

	return nil
}
