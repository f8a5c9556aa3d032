package cleanup

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/iamasit07/connect-four/internal/service/game"
)

// GamePruner deletes archived games past the retention window.
type GamePruner interface {
	DeleteFinishedBefore(ctx context.Context, days int) (int64, error)
}

type Worker struct {
	SessionManager *game.SessionManager
	Pruner         GamePruner // nil without a database
	Interval       time.Duration
	RetentionDays  int
}

func NewWorker(sm *game.SessionManager, pruner GamePruner) *Worker {
	return &Worker{
		SessionManager: sm,
		Pruner:         pruner,
		Interval:       1 * time.Hour,
		RetentionDays:  30,
	}
}

// Run sweeps once immediately and then every Interval until ctx is done.
func (w *Worker) Run(ctx context.Context) error {
	log.Info().Dur("interval", w.Interval).Msg("[CLEANUP] background worker started")
	w.sweep(ctx, time.Now())

	ticker := time.NewTicker(w.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("[CLEANUP] background worker stopped")
			return nil
		case now := <-ticker.C:
			w.sweep(ctx, now)
		}
	}
}

func (w *Worker) sweep(ctx context.Context, now time.Time) {
	log.Debug().Msg("[CLEANUP] starting scheduled cleanup task")

	w.SessionManager.CleanupOldSessions(now)

	if w.Pruner == nil || w.RetentionDays <= 0 {
		return
	}
	deleted, err := w.Pruner.DeleteFinishedBefore(ctx, w.RetentionDays)
	if err != nil {
		log.Error().Err(err).Msg("[CLEANUP] error pruning archived games")
		return
	}
	if deleted > 0 {
		log.Info().Int64("deleted", deleted).Int("days", w.RetentionDays).Msg("[CLEANUP] removed archived games")
	}
}
