package helpers

import (
	"github.com/spf13/cobra"

	"github.com/zinc-sig/ghost-allure/cmd/config"
)

// SetupRootFlags adds the persistent flags to the root command
func SetupRootFlags(cmd *cobra.Command, flags *config.RootFlags) {
	cmd.PersistentFlags().StringVar(&flags.ConfigFile, "config", "", "Path to a .toml or .yaml config file (default: .ghost.toml, .ghost.yaml)")
	cmd.PersistentFlags().StringVar(&flags.ResultsDir, "results-dir", "", "Directory receiving Allure results (default: $ALLURE_RESULTS_DIR or allure-results)")
	cmd.PersistentFlags().StringVar(&flags.LogFormat, "log-format", "", "Log format: text or json")
	cmd.PersistentFlags().BoolVarP(&flags.Verbose, "verbose", "v", false, "Show execution details and a result summary on stderr")
	cmd.PersistentFlags().StringArrayVar(&flags.EnvFiles, "env-file", []string{".env"}, "dotenv files loaded before reading the environment")
}

// SetupTestFlags adds flags naming the recorded test
func SetupTestFlags(cmd *cobra.Command, flags *config.TestFlags) {
	cmd.Flags().StringVar(&flags.Name, "name", "", "Test name (default: the command line)")
	cmd.Flags().StringVar(&flags.Suite, "suite", "", "Suite the test belongs to (default: $GHOST_SUITE)")
	cmd.Flags().StringArrayVar(&flags.Attach, "attach", nil, "Attach a file after execution as name=path (can be used multiple times)")
}

// SetupMetaFlags adds test metadata flags to a command
func SetupMetaFlags(cmd *cobra.Command, flags *config.MetaFlags) {
	cmd.Flags().StringArrayVar(&flags.Labels, "label", nil, "Label name=value (can be used multiple times)")
	cmd.Flags().StringArrayVar(&flags.Params, "param", nil, "Parameter name=value (can be used multiple times)")
	cmd.Flags().StringArrayVar(&flags.Links, "link", nil, "Link name=url (can be used multiple times)")
	cmd.Flags().StringVar(&flags.Description, "description", "", "Markdown description of the test")
	cmd.Flags().StringVar(&flags.JSON, "meta", "", "Metadata as a JSON object with labels, parameters, links, description")
	cmd.Flags().StringVar(&flags.File, "meta-file", "", "Path to a JSON or YAML metadata file")
}

// SetupUploadFlags adds upload-related flags to a command
func SetupUploadFlags(cmd *cobra.Command, cfg *config.UploadConfig) {
	cmd.Flags().StringVar(&cfg.Provider, "upload-provider", "", "Mirror results to an upload provider (e.g., minio)")
	cmd.Flags().StringVar(&cfg.Timeout, "upload-timeout", "", "Timeout of a single upload (default 2m)")
	cmd.Flags().StringVar(&cfg.Config, "upload-config", "", "Upload configuration as JSON string")
	cmd.Flags().StringArrayVar(&cfg.ConfigKV, "upload-config-kv", nil, "Upload config key=value pairs (can be used multiple times)")
	cmd.Flags().StringVar(&cfg.ConfigFile, "upload-config-file", "", "Path to JSON or YAML file containing upload configuration")
}

// SetupCommonFlags adds commonly used flags to a command
func SetupCommonFlags(cmd *cobra.Command, flags *config.CommonFlags) {
	cmd.Flags().StringVarP(&flags.TimeoutStr, "timeout", "t", "", "Timeout duration (e.g., 30s, 2m, 500ms)")
	cmd.Flags().BoolVar(&flags.DryRun, "dry-run", false, "Record the test without executing anything or writing results")
}

// SetupWebhookFlags adds webhook-related flags to a command
func SetupWebhookFlags(cmd *cobra.Command, cfg *config.WebhookConfig) {
	// Direct configuration flags
	cmd.Flags().StringVar(&cfg.URL, "webhook-url", "", "Webhook URL to send results to")
	cmd.Flags().StringVar(&cfg.Method, "webhook-method", "POST", "HTTP method to use: GET, POST, PUT, PATCH, DELETE")
	cmd.Flags().StringVar(&cfg.AuthType, "webhook-auth-type", "none", "Authentication type: none, bearer, api-key")
	cmd.Flags().StringVar(&cfg.AuthToken, "webhook-auth-token", "", "Authentication token (use with --webhook-auth-type)")
	cmd.Flags().IntVar(&cfg.Retries, "webhook-retries", 3, "Maximum webhook retry attempts (0 = no retries)")
	cmd.Flags().StringVar(&cfg.RetryDelay, "webhook-retry-delay", "1s", "Initial delay between webhook retries")
	cmd.Flags().StringVar(&cfg.Timeout, "webhook-timeout", "30s", "Total timeout for webhook including retries")

	// Alternative configuration methods
	cmd.Flags().StringVar(&cfg.Config, "webhook-config", "", "Webhook configuration as JSON string")
	cmd.Flags().StringArrayVar(&cfg.ConfigKV, "webhook-config-kv", nil, "Webhook config key=value pairs (can be used multiple times)")
	cmd.Flags().StringVar(&cfg.ConfigFile, "webhook-config-file", "", "Path to JSON or YAML file containing webhook configuration")
}
