// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"strings"
)

// Supported remote document store backends.
const (
	BackendDrive = "drive"
	BackendHTTP  = "http"
)

// validate checks invariants that hold for every consumer of the merged
// configuration.
func (cfg *StructuredConfig) validate() error {
	if cfg.JSONFilePath != "" && !strings.HasSuffix(cfg.JSONFilePath, ".json") {
		return fmt.Errorf("%w: config file %q is not a .json file", ErrInvalidConfigFile, cfg.JSONFilePath)
	}

	return nil
}

func (cfg *ClientConfig) validate() error {
	// the queue must survive restarts
	if cfg.Storage.DB.DSN == "" || strings.Contains(cfg.Storage.DB.DSN, "memory") {
		return ErrInvalidStorageConfigs
	}

	switch cfg.Adapter.Backend {
	case BackendDrive:
		if cfg.Adapter.OAuth.ClientID == "" {
			return fmt.Errorf("%w: drive backend needs an oauth client id", ErrInvalidAdapterConfigs)
		}
	case BackendHTTP:
		if cfg.Adapter.HTTPAddress == "" {
			return fmt.Errorf("%w: http backend needs an address", ErrInvalidAdapterConfigs)
		}
	default:
		return fmt.Errorf("%w: unknown backend %q", ErrInvalidAdapterConfigs, cfg.Adapter.Backend)
	}

	if cfg.Adapter.RequestTimeout <= 0 || cfg.Adapter.RateLimit <= 0 || cfg.Adapter.RateBurst < 1 {
		return ErrInvalidAdapterConfigs
	}

	if cfg.Workers.DrainInterval <= 0 || cfg.Workers.PollInterval <= 0 || cfg.Workers.EnqueueDelay < 0 {
		return ErrInvalidWorkerConfigs
	}

	if cfg.Workers.ProbeURL != "" && cfg.Workers.ProbeInterval <= 0 {
		return ErrInvalidWorkerConfigs
	}

	if cfg.Sync.KeepVersions < 1 || cfg.Sync.MaxRetries < 1 {
		return ErrInvalidSyncConfigs
	}

	if cfg.App.SchemaVersion < 1 {
		return ErrInvalidAppConfigs
	}

	return nil
}
