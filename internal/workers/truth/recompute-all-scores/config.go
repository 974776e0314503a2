// internal/workers/truth/recompute-all-scores/config.go
package recomputeallscores

import "time"

type Config struct {
	Concurrency int
	Timeout     time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Concurrency: 4,
		Timeout:     10 * time.Minute,
	}
}
