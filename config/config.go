// Copyright 2025 The eolscout Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config loads the service configuration from YAML, layered over
// built-in defaults.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration for YAML decoding of values like "15s".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config is the full service configuration.
type Config struct {
	// Listen is the HTTP server address.
	Listen string `yaml:"listen"`
	// RequestDeadline bounds one whole chat request end to end.
	RequestDeadline Duration `yaml:"request_deadline"`
	// ProviderTimeout bounds a single provider lookup attempt.
	ProviderTimeout Duration `yaml:"provider_timeout"`
	// PoolSize caps concurrent lookups per request.
	PoolSize int `yaml:"pool_size"`
	// Verbose enables debug logging.
	Verbose bool `yaml:"verbose"`

	Cache     CacheConfig     `yaml:"cache"`
	Providers ProviderConfig  `yaml:"providers"`
	Inventory InventoryConfig `yaml:"inventory"`
}

// CacheConfig configures the lookup cache.
type CacheConfig struct {
	// Path to the bbolt file; empty keeps the cache in memory only.
	Path string `yaml:"path"`
	// TTL for positive entries.
	TTL Duration `yaml:"ttl"`
	// NegativeTTL for cached not_found answers.
	NegativeTTL Duration `yaml:"negative_ttl"`
}

// ProviderConfig configures the provider set.
type ProviderConfig struct {
	// Disabled lists provider ids excluded from every cascade.
	Disabled []string `yaml:"disabled"`
	// BingAPIKey enables the web-search fallback when set.
	BingAPIKey string `yaml:"bing_api_key"`
}

// InventoryConfig configures inventory collection.
type InventoryConfig struct {
	// HeartbeatWindow bounds how old an OS heartbeat may be.
	HeartbeatWindow Duration `yaml:"heartbeat_window"`
	// RowLimit caps rows pulled per inventory query.
	RowLimit int `yaml:"row_limit"`
	// ExportPath points at a JSON inventory export served by the file
	// backend. Empty disables inventory tasks.
	ExportPath string `yaml:"export_path"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Listen:          ":8080",
		RequestDeadline: Duration(60 * time.Second),
		ProviderTimeout: Duration(15 * time.Second),
		PoolSize:        8,
		Cache: CacheConfig{
			TTL:         Duration(24 * time.Hour),
			NegativeTTL: Duration(time.Hour),
		},
		Inventory: InventoryConfig{
			HeartbeatWindow: Duration(30 * 24 * time.Hour),
			RowLimit:        5000,
		},
	}
}

// Load reads the YAML file at path over the defaults. A missing path returns
// the defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.PoolSize < 1 {
		return fmt.Errorf("pool_size must be positive, got %d", c.PoolSize)
	}
	if c.RequestDeadline <= 0 {
		return fmt.Errorf("request_deadline must be positive, got %v", c.RequestDeadline.Std())
	}
	if c.ProviderTimeout <= 0 {
		return fmt.Errorf("provider_timeout must be positive, got %v", c.ProviderTimeout.Std())
	}
	if c.ProviderTimeout.Std() > c.RequestDeadline.Std() {
		return fmt.Errorf("provider_timeout %v exceeds request_deadline %v",
			c.ProviderTimeout.Std(), c.RequestDeadline.Std())
	}
	return nil
}
