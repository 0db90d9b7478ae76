package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// Sweeper drops expired entries and reports how many it removed.
type Sweeper interface {
	Sweep() int
}

// SweepWorker periodically evicts expired in-memory view state and login
// rate-limit windows.
type SweepWorker struct {
	sweepers map[string]Sweeper
	interval time.Duration
}

// NewSweepWorker constructs a SweepWorker. sweepers are keyed by a name used
// in logs.
func NewSweepWorker(sweepers map[string]Sweeper, interval time.Duration) *SweepWorker {
	return &SweepWorker{
		sweepers: sweepers,
		interval: interval,
	}
}

// Start begins the sweep loop and listens for context cancellation.
func (w *SweepWorker) Start(ctx context.Context) {
	if w.interval <= 0 {
		log.Warn().Msg("Sweep worker disabled: interval must be positive")
		return
	}
	log.Info().Dur("interval", w.interval).Msg("Starting sweep worker")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.run()
		case <-ctx.Done():
			log.Info().Msg("Sweep worker stopped")
			return
		}
	}
}

func (w *SweepWorker) run() {
	for name, s := range w.sweepers {
		if n := s.Sweep(); n > 0 {
			log.Debug().Str("sweeper", name).Int("removed", n).Msg("Swept expired entries")
		}
	}
}
