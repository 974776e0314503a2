// internal/workers/personalization/compute-taste-vector/config.go
package computetastevector

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 30 * time.Second,
	}
}
