// internal/workers/personalization/embed-properties/config.go
package embedproperties

import "time"

const maxBatchSize = 200

type Config struct {
	BatchSize  int
	MaxBatches int
	Pause      time.Duration
}

func LoadConfig() *Config {
	return &Config{
		BatchSize:  50,
		MaxBatches: 10,
		Pause:      time.Second,
	}
}
