package loadclassgrades

import (
	"time"

	"edudesk/internal/common/config"
)

type Config struct {
	Timeout time.Duration
	// MaxGrades caps how many grade records are loaded for one analysis.
	MaxGrades int
}

func LoadConfig(cfg *config.Config) *Config {
	return &Config{
		Timeout:   config.GetDuration(cfg.Flow(TaskType).Timeout),
		MaxGrades: 500,
	}
}
