// internal/workers/truth/ingest-contribution/config.go
package ingestcontribution

import "time"

type Config struct {
	Timeout          time.Duration
	DiscountRate     float64
	DiscountValidity time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout:          30 * time.Second,
		DiscountRate:     0.1,
		DiscountValidity: 90 * 24 * time.Hour,
	}
}
