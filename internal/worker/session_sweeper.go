package worker

import (
	"context"
	"time"

	"github.com/fonsecars/fonsecars-backend/internal/logger"
	"github.com/rs/zerolog"
)

// DefaultSweepInterval is how often idle sessions are purged.
const DefaultSweepInterval = time.Minute

// Sweeper removes expired entries and reports how many it dropped.
type Sweeper interface {
	Sweep(ctx context.Context) int
}

// SessionSweeper periodically purges expired sessions from an in-memory store.
// Expired sessions are already rejected on lookup; this only bounds memory.
type SessionSweeper struct {
	store    Sweeper
	interval time.Duration
	log      zerolog.Logger
}

// NewSessionSweeper creates a new SessionSweeper.
func NewSessionSweeper(store Sweeper, interval time.Duration, log zerolog.Logger) *SessionSweeper {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	return &SessionSweeper{
		store:    store,
		interval: interval,
		log:      logger.Component(log, "session_sweeper"),
	}
}

// Start begins the sweep loop. Call in a goroutine; it returns when ctx is done.
func (w *SessionSweeper) Start(ctx context.Context) {
	w.log.Info().Dur("interval", w.interval).Msg("Worker started")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Worker stopped")
			return
		case <-ticker.C:
			if n := w.store.Sweep(ctx); n > 0 {
				w.log.Debug().Int("expired", n).Msg("Swept idle sessions")
			}
		}
	}
}
