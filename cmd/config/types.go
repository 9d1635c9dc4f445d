package config

import "time"

// RootFlags holds the persistent flags shared by every command
type RootFlags struct {
	ConfigFile string
	ResultsDir string
	LogFormat  string
	Verbose    bool
	EnvFiles   []string
}

// TestFlags holds flags naming the recorded test
type TestFlags struct {
	Name   string
	Suite  string
	Attach []string // name=path
}

// MetaFlags holds test metadata flags
type MetaFlags struct {
	JSON        string
	File        string
	Labels      []string
	Params      []string
	Links       []string
	Description string
}

// UploadConfig holds upload-related flags
type UploadConfig struct {
	Provider   string
	Timeout    string
	Config     string
	ConfigKV   []string
	ConfigFile string
}

// CommonFlags holds commonly used flags across commands
type CommonFlags struct {
	DryRun     bool
	TimeoutStr string
	Timeout    time.Duration
}

// WebhookConfig holds webhook-related flags
type WebhookConfig struct {
	// Direct configuration flags
	URL        string
	Method     string // HTTP method (GET, POST, PUT, PATCH, DELETE)
	AuthType   string
	AuthToken  string
	Timeout    string
	Retries    int
	RetryDelay string

	// Alternative configuration methods
	Config     string   // JSON string configuration
	ConfigKV   []string // Key-value pairs
	ConfigFile string   // Path to JSON or YAML config file
}
