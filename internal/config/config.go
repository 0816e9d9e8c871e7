// Package config loads the client runtime's JSON-on-disk configuration,
// following the same load/default-fallback shape as the rest of this
// codebase's config loader.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Config controls the tunables of the tile streaming runtime.
type Config struct {
	// Worker pool / async runtime
	WorkerCount int `json:"worker_count"`

	// Selection traversal back-pressure
	MaxLoadsPerFrame int `json:"max_loads_per_frame"`

	// Quantized-mesh decode
	SkirtHeightMeters float64 `json:"skirt_height_meters"`

	// Endpoint broker
	EndpointBaseURL   string        `json:"endpoint_base_url"`
	EndpointCacheTTL  time.Duration `json:"endpoint_cache_ttl"`
	RequestTimeout    time.Duration `json:"request_timeout"`
	PersistEndpoints  bool          `json:"persist_endpoints"`
	PersistencePath   string        `json:"persistence_path"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		WorkerCount:       4,
		MaxLoadsPerFrame:  16,
		SkirtHeightMeters: 200.0,
		EndpointBaseURL:   "https://api.cesium.com/",
		EndpointCacheTTL:  10 * time.Minute,
		RequestTimeout:    15 * time.Second,
		PersistEndpoints:  false,
		PersistencePath:   "endpoints.db",
	}
}

func configPath() string {
	execDir, err := os.Executable()
	if err != nil {
		return "config.json"
	}
	return filepath.Join(filepath.Dir(execDir), "config.json")
}

// Load reads configuration from the on-disk config.json next to the
// executable. A missing file is not an error: the defaults are returned.
func Load() *Config {
	cfg := DefaultConfig()

	data, err := os.ReadFile(configPath())
	if err != nil {
		return cfg
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return DefaultConfig()
	}

	return cfg
}

// Save writes the configuration to the on-disk config.json.
func (c *Config) Save() error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(configPath(), data, 0644)
}
