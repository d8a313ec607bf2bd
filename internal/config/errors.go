package config

import "errors"

// Validation errors returned when required configuration groups are
// incomplete or invalid.
var (
	// ErrInvalidAdapterConfigs indicates invalid remote store settings
	// (unknown backend, missing address or OAuth client, zero timeout).
	ErrInvalidAdapterConfigs = errors.New("invalid adapter configuration")
	// ErrInvalidStorageConfigs indicates an empty or non-durable DSN.
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
	// ErrInvalidAppConfigs indicates invalid installation settings.
	ErrInvalidAppConfigs = errors.New("invalid app configuration")
	// ErrInvalidWorkerConfigs indicates zero or negative timer intervals.
	ErrInvalidWorkerConfigs = errors.New("invalid worker configuration")
	// ErrInvalidSyncConfigs indicates an unusable retention or retry policy.
	ErrInvalidSyncConfigs = errors.New("invalid sync configuration")
	// ErrInvalidConfigFile indicates an unusable JSON config file path.
	ErrInvalidConfigFile = errors.New("invalid config file")
)
