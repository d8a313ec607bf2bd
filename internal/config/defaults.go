package config

import "time"

// Default values applied before any other configuration source.
const (
	DefaultBackend        = "drive"
	DefaultSchemaVersion  = 1
	DefaultRequestTimeout = 30 * time.Second
	DefaultRateLimit      = 10
	DefaultRateBurst      = 5
	DefaultDrainInterval  = 30 * time.Second
	DefaultPollInterval   = 120 * time.Second
	DefaultEnqueueDelay   = 500 * time.Millisecond
	DefaultProbeInterval  = 15 * time.Second
	DefaultKeepVersions   = 5
	DefaultMaxRetries     = 3
	DefaultDSN            = "life-sync.db"
)

// DefaultModules are the modules every installation polls.
var DefaultModules = []string{"profile", "health", "mood", "reminders", "tasks"}

func defaultConfig() *StructuredConfig {
	return &StructuredConfig{
		App: App{
			SchemaVersion: DefaultSchemaVersion,
			Modules:       append([]string(nil), DefaultModules...),
		},
		Adapter: Adapter{
			Backend:        DefaultBackend,
			RequestTimeout: DefaultRequestTimeout,
			RateLimit:      DefaultRateLimit,
			RateBurst:      DefaultRateBurst,
		},
		Storage: Storage{DB: DB{DSN: DefaultDSN}},
		Workers: Workers{
			DrainInterval: DefaultDrainInterval,
			PollInterval:  DefaultPollInterval,
			EnqueueDelay:  DefaultEnqueueDelay,
			ProbeInterval: DefaultProbeInterval,
		},
		Sync: Sync{
			KeepVersions: DefaultKeepVersions,
			MaxRetries:   DefaultMaxRetries,
		},
	}
}
