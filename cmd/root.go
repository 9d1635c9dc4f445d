package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/zinc-sig/ghost-allure/cmd/config"
	"github.com/zinc-sig/ghost-allure/cmd/helpers"
	appconfig "github.com/zinc-sig/ghost-allure/internal/config"
	"github.com/zinc-sig/ghost-allure/internal/logging"
	"github.com/zinc-sig/ghost-allure/internal/webhook"
	"github.com/zinc-sig/ghost-allure/pkg/allure"
	"github.com/zinc-sig/ghost-allure/pkg/sink"
)

var rootFlags config.RootFlags

// newRootCmd builds the command tree. Flags are bound afresh on every call,
// which resets the package flag variables to their defaults.
func newRootCmd() *cobra.Command {
	rootFlags = config.RootFlags{}
	rootCmd := &cobra.Command{
		Use:   "ghost",
		Short: "Record command runs as Allure test results",
		Long: `Ghost runs commands and comparisons as tests and records each one as an
Allure result: a <uuid>-result.json document with its step tree, plus the
captured output as attachment files.

Results are written to --results-dir, $ALLURE_RESULTS_DIR or ./allure-results,
and can be mirrored to object storage and announced to a webhook.`,
		SilenceUsage: true,
	}

	helpers.SetupRootFlags(rootCmd, &rootFlags)
	rootCmd.AddCommand(newRunCmd(), newDiffCmd())
	return rootCmd
}

func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// session is everything a command needs to record one test.
type session struct {
	cfg    *appconfig.Config
	logger *logrus.Logger
	rec    *allure.Context
}

// newSession loads configuration and builds the sink chain. A dry run records
// into memory and publishes nowhere.
func newSession(dryRun bool, uploadFlags *config.UploadConfig, webhookFlags *config.WebhookConfig) (*session, error) {
	if err := appconfig.LoadDotEnv(rootFlags.EnvFiles...); err != nil {
		return nil, err
	}
	cfg, err := appconfig.Load(rootFlags.ConfigFile)
	if err != nil {
		return nil, err
	}
	if rootFlags.ResultsDir != "" {
		cfg.ResultsDir = rootFlags.ResultsDir
	}
	if rootFlags.LogFormat != "" {
		cfg.Log.Format = rootFlags.LogFormat
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.Log.Format, cfg.Log.Level, rootFlags.Verbose)
	if err != nil {
		return nil, err
	}

	provider, uploadConf, err := helpers.SetupUploadProvider(uploadFlags, cfg.Upload)
	if err != nil {
		return nil, err
	}
	uploadTimeout, err := helpers.UploadTimeout(uploadFlags, cfg.Upload)
	if err != nil {
		return nil, err
	}
	hookConfig, retryConfig, err := helpers.ParseWebhookConfigToInternal(webhookFlags, cfg.Webhook)
	if err != nil {
		return nil, err
	}

	if dryRun {
		return &session{cfg: cfg, logger: logger, rec: helpers.NewRecorder(cfg, sink.NewMemory(), logger)}, nil
	}

	dest := helpers.Destinations{Provider: provider, UploadTimeout: uploadTimeout}
	if hookConfig != nil {
		dest.Webhook = webhook.NewClient(hookConfig, retryConfig, logger)
	}

	if rootFlags.Verbose {
		if provider != nil {
			helpers.PrintUploadInfo(os.Stderr, provider, uploadConf, cfg.ResultsDir)
		}
		if dest.Webhook != nil {
			fmt.Fprintf(os.Stderr, "[WEBHOOK] Results will be sent to %s\n", dest.Webhook.URL())
		}
	}

	s := helpers.BuildSink(sink.NewFileSink(cfg.ResultsDir, logger), dest, logger)
	return &session{cfg: cfg, logger: logger, rec: helpers.NewRecorder(cfg, s, logger)}, nil
}

// suite resolves the suite flag against the configuration.
func (s *session) suite(flag string) string {
	if flag != "" {
		return flag
	}
	return s.cfg.Suite
}
