// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"
)

// StructuredConfig is the top-level configuration container for the
// life-sync client. It aggregates all sub-configurations and is populated by
// merging defaults, environment variables, command-line flags and an optional
// JSON file.
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env: direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds installation-level settings.
	App App `envPrefix:"APP_"`

	// Adapter holds the remote document store settings.
	Adapter Adapter `envPrefix:"ADAPTER_"`

	// Storage holds the local persistent store settings.
	Storage Storage `envPrefix:"STORAGE_"`

	// Workers holds timer and background worker settings.
	Workers Workers `envPrefix:"WORKERS_"`

	// Sync holds queue and retention policy settings.
	Sync Sync `envPrefix:"SYNC_"`

	// Metrics holds the Prometheus endpoint settings.
	Metrics Metrics `envPrefix:"METRICS_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// App holds installation-level configuration.
type App struct {
	// DeviceLabel is a human readable name of this installation, logged
	// alongside the generated device id.
	// Env: APP_DEVICE_LABEL
	DeviceLabel string `env:"DEVICE_LABEL"`

	// SchemaVersion is stamped into the metadata of every uploaded document.
	// Env: APP_SCHEMA_VERSION
	SchemaVersion int `env:"SCHEMA_VERSION"`

	// Modules is the list of module keys polled for remote changes.
	// Env: APP_MODULES (comma separated)
	Modules []string `env:"MODULES" envSeparator:","`

	// LogFile is the path of the rotated client log file.
	// Env: APP_LOG_FILE
	LogFile string `env:"LOG_FILE"`
}

// Adapter holds the settings of the remote document store.
type Adapter struct {
	// Backend selects the document store: "drive" or "http".
	// Env: ADAPTER_BACKEND
	Backend string `env:"BACKEND"`

	// HTTPAddress is the base URL of the REST document service
	// (used only by the "http" backend).
	// Env: ADAPTER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// AccessToken is a pre-issued bearer token for the REST document service.
	// Env: ADAPTER_ACCESS_TOKEN
	AccessToken string `env:"ACCESS_TOKEN"`

	// RequestTimeout bounds every single remote call.
	// Env: ADAPTER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`

	// RateLimit is the maximum number of remote calls per second.
	// Env: ADAPTER_RATE_LIMIT
	RateLimit float64 `env:"RATE_LIMIT"`

	// RateBurst is the token bucket size of the rate limiter.
	// Env: ADAPTER_RATE_BURST
	RateBurst int `env:"RATE_BURST"`

	// OAuth holds the Google OAuth client used by the "drive" backend.
	OAuth OAuth `envPrefix:"OAUTH_"`
}

// OAuth holds Google OAuth client credentials.
type OAuth struct {
	// Env: ADAPTER_OAUTH_CLIENT_ID
	ClientID string `env:"CLIENT_ID"`
	// Env: ADAPTER_OAUTH_CLIENT_SECRET
	ClientSecret string `env:"CLIENT_SECRET"`
	// Env: ADAPTER_OAUTH_REDIRECT_URL
	RedirectURL string `env:"REDIRECT_URL"`
}

// Storage groups local persistence settings.
type Storage struct {
	// DB holds the local SQLite database settings.
	DB DB `envPrefix:"DB_"`
}

// DB holds connection settings for the local SQLite database.
type DB struct {
	// DSN is the SQLite file path or URI.
	// Env: STORAGE_DB_DATABASE_URI
	DSN string `env:"DATABASE_URI"`
}

// Workers holds timer settings of the scheduler and background workers.
type Workers struct {
	// DrainInterval is the period of the upload drain timer.
	// Env: WORKERS_DRAIN_INTERVAL
	DrainInterval time.Duration `env:"DRAIN_INTERVAL"`

	// PollInterval is the period of the remote change poll timer.
	// Env: WORKERS_POLL_INTERVAL
	PollInterval time.Duration `env:"POLL_INTERVAL"`

	// EnqueueDelay batches near-simultaneous enqueues into one drain.
	// Env: WORKERS_ENQUEUE_DELAY
	EnqueueDelay time.Duration `env:"ENQUEUE_DELAY"`

	// ProbeURL is requested periodically to detect connectivity.
	// Empty disables the probe.
	// Env: WORKERS_PROBE_URL
	ProbeURL string `env:"PROBE_URL"`

	// ProbeInterval is the connectivity probe period.
	// Env: WORKERS_PROBE_INTERVAL
	ProbeInterval time.Duration `env:"PROBE_INTERVAL"`

	// ModulesDir is watched for <module>.json documents. Empty disables the watcher.
	// Env: WORKERS_MODULES_DIR
	ModulesDir string `env:"MODULES_DIR"`
}

// Sync holds queue and retention policy settings.
type Sync struct {
	// KeepVersions is the number of remote versions retained per module.
	// Env: SYNC_KEEP_VERSIONS
	KeepVersions int `env:"KEEP_VERSIONS"`

	// MaxRetries is the retry budget used when an operation is enqueued
	// without one.
	// Env: SYNC_MAX_RETRIES
	MaxRetries int `env:"MAX_RETRIES"`
}

// Metrics holds the Prometheus endpoint settings.
type Metrics struct {
	// Address is the host:port the /metrics endpoint listens on.
	// Empty disables the endpoint.
	// Env: METRICS_ADDRESS
	Address string `env:"ADDRESS"`
}

// GetStructuredConfig loads, merges, and validates the configuration from all
// available sources in the following priority order (last source wins for
// non-zero fields):
//  1. Built-in defaults
//  2. Environment variables
//  3. Command-line flags
//  4. JSON file (path resolved from sources 2 and 3)
func GetStructuredConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withDefaults().
		withEnv().
		withFlags().
		withJSON().
		build()
}
