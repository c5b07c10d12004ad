package retention

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"alpha-hq/alpha/pkg/audit"
)

// Config controls retention pruning.
type Config struct {
	// RetentionDays is how long records are kept. Zero disables pruning.
	RetentionDays int `yaml:"retention_days"`

	// Schedule is a standard cron expression for automatic pruning, e.g.
	// "0 3 * * *" for daily at 3 AM. Empty disables the scheduler.
	Schedule string `yaml:"schedule"`
}

// DefaultConfig returns the default retention configuration: keep 90 days,
// prune daily at 3 AM.
func DefaultConfig() Config {
	return Config{
		RetentionDays: 90,
		Schedule:      "0 3 * * *",
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.RetentionDays < 0 {
		return fmt.Errorf("retention: retention_days cannot be negative")
	}
	return nil
}

// Pruner deletes audit records older than the retention window.
type Pruner struct {
	storage audit.Storage
	config  Config
	logger  *slog.Logger
}

// NewPruner creates a pruner over an audit storage backend.
func NewPruner(storage audit.Storage, config Config, logger *slog.Logger) *Pruner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pruner{
		storage: storage,
		config:  config,
		logger:  logger.With("component", "audit.retention"),
	}
}

// Prune deletes records older than the retention window and returns how
// many were removed. A zero RetentionDays is a no-op.
func (p *Pruner) Prune(ctx context.Context) (int64, error) {
	if p.config.RetentionDays == 0 {
		return 0, nil
	}

	cutoff := time.Now().UTC().AddDate(0, 0, -p.config.RetentionDays)
	deleted, err := p.storage.Delete(ctx, &audit.Query{Until: &cutoff})
	if err != nil {
		return 0, err
	}
	if deleted > 0 {
		p.logger.Info("pruned audit records",
			"deleted", deleted,
			"cutoff", cutoff,
		)
	}
	return deleted, nil
}
