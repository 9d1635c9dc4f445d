package helpers

import (
	"fmt"
	"io"
	"time"

	"github.com/zinc-sig/ghost-allure/cmd/config"
	appconfig "github.com/zinc-sig/ghost-allure/internal/config"
	"github.com/zinc-sig/ghost-allure/internal/meta"
	"github.com/zinc-sig/ghost-allure/internal/publish"
	"github.com/zinc-sig/ghost-allure/internal/upload"
)

// UploadEnvPrefix is the environment prefix of upload options:
// GHOST_UPLOAD_CONFIG_BUCKET=results sets the bucket option.
const UploadEnvPrefix = "GHOST_UPLOAD_CONFIG"

// BuildUploadConfig builds upload configuration from all sources.
// Precedence: config file < env < --upload-config-file < --upload-config < --upload-config-kv
func BuildUploadConfig(cfg *config.UploadConfig, defaults map[string]any) (map[string]any, error) {
	built, err := meta.BuildMap(UploadEnvPrefix, cfg.Config, cfg.ConfigKV, cfg.ConfigFile)
	if err != nil {
		return nil, fmt.Errorf("failed to build upload config: %w", err)
	}

	merged, _ := meta.Merge(defaults, built).(map[string]any)
	if merged == nil {
		merged = make(map[string]any)
	}
	return merged, nil
}

// SetupUploadProvider creates and configures the upload provider named by the
// flags or, failing that, by the config file. It returns a nil provider when
// no upload is configured.
func SetupUploadProvider(cfg *config.UploadConfig, file appconfig.UploadConfig) (upload.Provider, map[string]any, error) {
	name := cfg.Provider
	if name == "" {
		name = file.Provider
	}
	if name == "" {
		return nil, nil, nil
	}

	uploadConf, err := BuildUploadConfig(cfg, file.Options)
	if err != nil {
		return nil, nil, err
	}

	provider, err := upload.NewProvider(name)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create upload provider: %w", err)
	}

	if err := provider.Configure(uploadConf); err != nil {
		return nil, nil, fmt.Errorf("failed to configure upload provider: %w", err)
	}

	return provider, uploadConf, nil
}

// UploadTimeout resolves the per-file upload timeout from the flags or the config file.
func UploadTimeout(cfg *config.UploadConfig, file appconfig.UploadConfig) (time.Duration, error) {
	raw := cfg.Timeout
	if raw == "" {
		raw = file.Timeout
	}
	if raw == "" {
		return publish.DefaultUploadTimeout, nil
	}
	timeout, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid upload timeout: %w", err)
	}
	if timeout <= 0 {
		return 0, fmt.Errorf("upload timeout must be positive")
	}
	return timeout, nil
}

// PrintUploadInfo prints upload configuration in verbose mode
func PrintUploadInfo(w io.Writer, provider upload.Provider, config map[string]any, resultsDir string) {
	_, _ = fmt.Fprintln(w, "========================================")
	_, _ = fmt.Fprintln(w, "Upload Configuration")
	_, _ = fmt.Fprintln(w, "========================================")
	_, _ = fmt.Fprintf(w, "Provider:       %s\n", provider.Name())

	if provider.Name() == "minio" {
		if endpoint, ok := config["endpoint"]; ok {
			_, _ = fmt.Fprintf(w, "Endpoint:       %v\n", endpoint)
		}
		if bucket, ok := config["bucket"]; ok {
			_, _ = fmt.Fprintf(w, "Bucket:         %v\n", bucket)
		}
		if prefix, ok := config["prefix"]; ok && prefix != "" {
			_, _ = fmt.Fprintf(w, "Prefix:         %v\n", prefix)
		}
	}

	_, _ = fmt.Fprintf(w, "Results Dir:    %s\n", resultsDir)
	_, _ = fmt.Fprintln(w, "----------------------------------------")
}
