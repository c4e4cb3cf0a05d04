package workers

import (
	"context"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// discardRatio follows the badger documentation default: rewrite a value
// log file when at least half of it is stale.
const discardRatio = 0.5

// BadgerGC runs Badger's value log garbage collection on a fixed
// interval. Badger never reclaims value log space on its own.
type BadgerGC struct {
	log      *slog.Logger
	db       *badger.DB
	interval time.Duration
}

func NewBadgerGC(log *slog.Logger, db *badger.DB, interval time.Duration) *BadgerGC {
	return &BadgerGC{log: log, db: db, interval: interval}
}

func (w *BadgerGC) Run(ctx context.Context) error {
	w.log.Info("Starting badger GC worker")
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			// RunValueLogGC rewrites at most one file per call;
			// loop until there is nothing left to collect.
			for {
				err := w.db.RunValueLogGC(discardRatio)
				if err == badger.ErrNoRewrite {
					break
				}
				if err != nil {
					w.log.Warn("Badger GC pass failed", "err", err)
					break
				}
				w.log.Debug("Badger GC rewrote a value log file")
			}
		}
	}
}
