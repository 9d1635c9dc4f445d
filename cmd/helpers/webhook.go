package helpers

import (
	"fmt"
	"time"

	"github.com/zinc-sig/ghost-allure/cmd/config"
	"github.com/zinc-sig/ghost-allure/internal/meta"
	"github.com/zinc-sig/ghost-allure/internal/webhook"
)

// WebhookEnvPrefix is the environment prefix of webhook options:
// GHOST_WEBHOOK_URL=https://ci.example.com/hook sets the url.
const WebhookEnvPrefix = "GHOST_WEBHOOK"

// BuildWebhookConfig builds webhook configuration from all sources.
// Precedence: config file < env < file < json < kv < direct flags
func BuildWebhookConfig(cfg *config.WebhookConfig, defaults map[string]any) (map[string]any, error) {
	built, err := meta.BuildMap(WebhookEnvPrefix, cfg.Config, cfg.ConfigKV, cfg.ConfigFile)
	if err != nil {
		return nil, fmt.Errorf("failed to build webhook config: %w", err)
	}

	webhookConf, _ := meta.Merge(defaults, built).(map[string]any)
	if webhookConf == nil {
		webhookConf = make(map[string]any)
	}

	// Explicit flag values win, unless they are still at their defaults
	if cfg.URL != "" {
		webhookConf["url"] = cfg.URL
	}
	if cfg.Method != "" && cfg.Method != "POST" {
		webhookConf["method"] = cfg.Method
	}
	if cfg.AuthType != "" && cfg.AuthType != "none" {
		webhookConf["auth_type"] = cfg.AuthType
	}
	if cfg.AuthToken != "" {
		webhookConf["auth_token"] = cfg.AuthToken
	}
	if cfg.Timeout != "" && cfg.Timeout != "30s" {
		webhookConf["timeout"] = cfg.Timeout
	}
	if cfg.Retries != 3 {
		webhookConf["retries"] = cfg.Retries
	}
	if cfg.RetryDelay != "" && cfg.RetryDelay != "1s" {
		webhookConf["retry_delay"] = cfg.RetryDelay
	}

	return webhookConf, nil
}

// ParseWebhookConfigToInternal converts the built webhook config map to the
// webhook client structures. It returns nil configs when no URL is configured.
func ParseWebhookConfigToInternal(cfg *config.WebhookConfig, defaults map[string]any) (*webhook.Config, *webhook.RetryConfig, error) {
	configMap, err := BuildWebhookConfig(cfg, defaults)
	if err != nil {
		return nil, nil, err
	}

	url, _ := configMap["url"].(string)
	if url == "" {
		return nil, nil, nil
	}

	timeout, err := durationOption(configMap, "timeout", 30*time.Second)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid webhook timeout duration: %w", err)
	}

	retry := webhook.DefaultRetryConfig()
	retry.InitialDelay, err = durationOption(configMap, "retry_delay", retry.InitialDelay)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid webhook retry delay: %w", err)
	}

	// JSON numbers arrive as float64, TOML integers as int64
	switch r := configMap["retries"].(type) {
	case int:
		retry.MaxRetries = r
	case int64:
		retry.MaxRetries = int(r)
	case float64:
		retry.MaxRetries = int(r)
	}
	if retry.MaxRetries < 0 {
		return nil, nil, fmt.Errorf("webhook retries must not be negative")
	}

	method, _ := configMap["method"].(string)
	if method == "" {
		method = "POST"
	}
	authType, _ := configMap["auth_type"].(string)
	if authType == "" {
		authType = webhook.AuthNone
	}
	authToken, _ := configMap["auth_token"].(string)

	webhookConfig := &webhook.Config{
		URL:       url,
		Method:    method,
		Headers:   stringMap(configMap["headers"]),
		Timeout:   timeout,
		AuthType:  authType,
		AuthToken: authToken,
	}
	if err := webhookConfig.Validate(); err != nil {
		return nil, nil, err
	}

	return webhookConfig, retry, nil
}

func durationOption(m map[string]any, key string, fallback time.Duration) (time.Duration, error) {
	raw, ok := m[key].(string)
	if !ok || raw == "" {
		return fallback, nil
	}
	return time.ParseDuration(raw)
}

func stringMap(v any) map[string]string {
	raw, ok := v.(map[string]any)
	if !ok || len(raw) == 0 {
		return nil
	}
	out := make(map[string]string, len(raw))
	for k, val := range raw {
		out[k] = fmt.Sprint(val)
	}
	return out
}
