package config

import (
	"fmt"
)

// ClientConfig is the validated configuration view consumed by the client
// runtime. It is assembled from [StructuredConfig].
type ClientConfig struct {
	App     App
	Adapter Adapter
	Storage Storage
	Workers Workers
	Sync    Sync
	Metrics Metrics
}

// GetClientConfig builds and validates the client config view from the merged
// structured configuration.
func GetClientConfig() (*ClientConfig, error) {
	cfg, err := GetStructuredConfig()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	return newClientConfig(cfg)
}

func newClientConfig(cfg *StructuredConfig) (*ClientConfig, error) {
	clientCfg := &ClientConfig{
		App:     cfg.App,
		Adapter: cfg.Adapter,
		Storage: cfg.Storage,
		Workers: cfg.Workers,
		Sync:    cfg.Sync,
		Metrics: cfg.Metrics,
	}

	return clientCfg, clientCfg.validate()
}
