package searchdirectory

import (
	"time"

	"edudesk/internal/common/config"
)

type Config struct {
	Timeout time.Duration
	// MaxPageSize bounds the page size a caller may ask for.
	MaxPageSize int
}

func LoadConfig(cfg *config.Config) *Config {
	return &Config{
		Timeout:     config.GetDuration(cfg.Flow(TaskType).Timeout),
		MaxPageSize: 100,
	}
}
