package submissionreview

import (
	"time"

	"edudesk/internal/common/config"
)

type Config struct {
	Timeout time.Duration
	Model   string
}

func LoadConfig(cfg *config.Config) *Config {
	return &Config{
		Timeout: config.GetDuration(cfg.Flow(TaskType).Timeout),
		Model:   cfg.ModelFor(TaskType),
	}
}
