package application

import (
	"context"
	"log/slog"
	"time"

	"spfs/domain/contracts"
	"spfs/infrastructure/metrics"
	"spfs/logging"
)

// JournalPruner removes journal entries older than the retention window.
type JournalPruner struct {
	journal   contracts.OperationRepository
	retention time.Duration
	interval  time.Duration
	now       func() time.Time
	logger    *logging.Logger
}

// NewJournalPruner creates a pruner. A non-positive retention disables pruning.
func NewJournalPruner(journal contracts.OperationRepository, retention, interval time.Duration) *JournalPruner {
	if interval <= 0 {
		interval = time.Hour
	}
	return &JournalPruner{
		journal:   journal,
		retention: retention,
		interval:  interval,
		now:       time.Now,
		logger:    logging.Default().WithComponent("journal_pruner"),
	}
}

// Enabled reports whether the pruner has anything to do.
func (p *JournalPruner) Enabled() bool {
	return p.journal != nil && p.retention > 0
}

// PruneOnce deletes everything recorded before now minus the retention window.
func (p *JournalPruner) PruneOnce(ctx context.Context) (int64, error) {
	if !p.Enabled() {
		return 0, nil
	}

	start := time.Now()
	cutoff := p.now().UTC().Add(-p.retention)
	removed, err := p.journal.Prune(ctx, cutoff)
	p.logger.Performance("journal_prune", time.Since(start), slog.Int64("removed", removed))
	if err != nil {
		p.logger.Error("Journal prune failed", "cutoff", cutoff, "error", err)
		return 0, err
	}

	metrics.RecordJournalPruned(removed)
	if removed > 0 {
		p.logger.Info("Pruned journal", "removed", removed, "cutoff", cutoff)
	}
	return removed, nil
}

// Run prunes immediately and then every interval until ctx is done.
func (p *JournalPruner) Run(ctx context.Context) {
	if !p.Enabled() {
		return
	}
	p.logger.Info("Journal retention enabled", "retention", p.retention, "interval", p.interval)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		// errors are logged by PruneOnce; the next tick retries
		_, _ = p.PruneOnce(ctx)

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
