package app

import (
	"fmt"
	"time"

	"github.com/altruvue/fundraiser-backend/internal/platform/envutil"
	"github.com/altruvue/fundraiser-backend/internal/platform/logger"
	"github.com/altruvue/fundraiser-backend/internal/scoring"
)

type Config struct {
	Environment string
	Version     string

	HTTPAddr string

	Thresholds scoring.Thresholds

	SchedulerEnabled bool
	WorkerEnabled    bool

	ShutdownGrace time.Duration
}

// LoadConfig reads environment configuration. Scoring thresholds come from
// SCORING_THRESHOLDS_FILE when set; otherwise the standard tiers apply.
func LoadConfig(log *logger.Logger) (Config, error) {
	cfg := Config{
		Environment:      envutil.Str("APP_ENV", "development"),
		Version:          envutil.Str("APP_VERSION", "dev"),
		HTTPAddr:         envutil.Str("HTTP_ADDR", ":8080"),
		SchedulerEnabled: envutil.Bool("SCHEDULER_ENABLED", true),
		WorkerEnabled:    envutil.Bool("WORKER_ENABLED", true),
		ShutdownGrace:    envutil.Duration("SHUTDOWN_GRACE", 15*time.Second),
	}

	if path := envutil.Str("SCORING_THRESHOLDS_FILE", ""); path != "" {
		t, err := scoring.LoadThresholdsFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("load thresholds file %s: %w", path, err)
		}
		cfg.Thresholds = t
		log.Info("scoring thresholds loaded from file", "path", path)
	} else {
		cfg.Thresholds = scoring.DefaultThresholds()
	}

	return cfg, nil
}
