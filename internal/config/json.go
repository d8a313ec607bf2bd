package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig mirrors [StructuredConfig] with JSON tags and
// [Duration] fields.
type StructuredJSONConfig struct {
	App struct {
		DeviceLabel   string   `json:"device_label"`
		SchemaVersion int      `json:"schema_version"`
		Modules       []string `json:"modules"`
		LogFile       string   `json:"log_file"`
	} `json:"app,omitempty"`

	Adapter struct {
		Backend        string   `json:"backend"`
		HTTPAddress    string   `json:"http_address"`
		AccessToken    string   `json:"access_token"`
		RequestTimeout Duration `json:"request_timeout"`
		RateLimit      float64  `json:"rate_limit"`
		RateBurst      int      `json:"rate_burst"`
		OAuth          struct {
			ClientID     string `json:"client_id"`
			ClientSecret string `json:"client_secret"`
			RedirectURL  string `json:"redirect_url"`
		} `json:"oauth,omitempty"`
	} `json:"adapter,omitempty"`

	Storage struct {
		DB struct {
			DSN string `json:"dsn"`
		} `json:"db,omitempty"`
	} `json:"storage,omitempty"`

	Workers struct {
		DrainInterval Duration `json:"drain_interval"`
		PollInterval  Duration `json:"poll_interval"`
		EnqueueDelay  Duration `json:"enqueue_delay"`
		ProbeURL      string   `json:"probe_url"`
		ProbeInterval Duration `json:"probe_interval"`
		ModulesDir    string   `json:"modules_dir"`
	} `json:"workers,omitempty"`

	Sync struct {
		KeepVersions int `json:"keep_versions"`
		MaxRetries   int `json:"max_retries"`
	} `json:"sync,omitempty"`

	Metrics struct {
		Address string `json:"address"`
	} `json:"metrics,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		App: App{
			DeviceLabel:   jsonCfg.App.DeviceLabel,
			SchemaVersion: jsonCfg.App.SchemaVersion,
			Modules:       jsonCfg.App.Modules,
			LogFile:       jsonCfg.App.LogFile,
		},
		Adapter: Adapter{
			Backend:        jsonCfg.Adapter.Backend,
			HTTPAddress:    jsonCfg.Adapter.HTTPAddress,
			AccessToken:    jsonCfg.Adapter.AccessToken,
			RequestTimeout: time.Duration(jsonCfg.Adapter.RequestTimeout),
			RateLimit:      jsonCfg.Adapter.RateLimit,
			RateBurst:      jsonCfg.Adapter.RateBurst,
			OAuth: OAuth{
				ClientID:     jsonCfg.Adapter.OAuth.ClientID,
				ClientSecret: jsonCfg.Adapter.OAuth.ClientSecret,
				RedirectURL:  jsonCfg.Adapter.OAuth.RedirectURL,
			},
		},
		Storage: Storage{
			DB: DB{
				DSN: jsonCfg.Storage.DB.DSN,
			},
		},
		Workers: Workers{
			DrainInterval: time.Duration(jsonCfg.Workers.DrainInterval),
			PollInterval:  time.Duration(jsonCfg.Workers.PollInterval),
			EnqueueDelay:  time.Duration(jsonCfg.Workers.EnqueueDelay),
			ProbeURL:      jsonCfg.Workers.ProbeURL,
			ProbeInterval: time.Duration(jsonCfg.Workers.ProbeInterval),
			ModulesDir:    jsonCfg.Workers.ModulesDir,
		},
		Sync: Sync{
			KeepVersions: jsonCfg.Sync.KeepVersions,
			MaxRetries:   jsonCfg.Sync.MaxRetries,
		},
		Metrics: Metrics{
			Address: jsonCfg.Metrics.Address,
		},
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling
// from strings like "1h", "30s" as well as plain nanosecond numbers.
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
