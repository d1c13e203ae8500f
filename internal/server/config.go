package server

import (
	"fmt"
	"time"
)

// Config holds the HTTP service settings
type Config struct {
	Addr            string
	Adapter         string
	Development     bool
	CatalogPath     string
	CacheSize       int
	ShutdownTimeout time.Duration
}

// DefaultConfig returns the settings used when nothing is overridden
func DefaultConfig() Config {
	return Config{
		Addr:            ":8080",
		Adapter:         AdapterEcho,
		CacheSize:       1024,
		ShutdownTimeout: 10 * time.Second,
	}
}

// Validate reports the first invalid setting
func (c Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("listen address cannot be empty")
	}
	switch c.Adapter {
	case AdapterEcho, AdapterGin, AdapterFiber:
	default:
		return fmt.Errorf("invalid adapter '%s'. Must be 'echo', 'gin', or 'fiber'", c.Adapter)
	}
	if c.CacheSize < 0 {
		return fmt.Errorf("cache size cannot be negative")
	}
	return nil
}
