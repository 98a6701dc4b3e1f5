// Package expiration implements the expiration sweeper (C4): a single
// cooperative background task that flips timed-out active reservations to
// expired on a fixed cadence, and an Once entry point the
// /internal/expire_once endpoint drives directly.
package expiration

import (
	"context"
	"database/sql"
	"log"
	"sync"
	"time"

	"github.com/jomkit/kitchensync/internal/model"
	"github.com/jomkit/kitchensync/internal/notifier"
	"github.com/jomkit/kitchensync/internal/repository"
)

const defaultBatchSize = 500

// Sweeper flips overdue active reservations to expired. Exactly one
// instance's Start should run per process; the started flag guards
// against a double-start from a second call.
type Sweeper struct {
	DB           *sql.DB
	Reservations *repository.ReservationRepo
	Notifier     *notifier.Hub
	Interval     time.Duration

	startOnce sync.Once
}

// New builds a Sweeper with the given tick interval (EXPIRATION_INTERVAL_SECONDS).
func New(db *sql.DB, reservations *repository.ReservationRepo, hub *notifier.Hub, interval time.Duration) *Sweeper {
	return &Sweeper{DB: db, Reservations: reservations, Notifier: hub, Interval: interval}
}

// Once runs a single sweep: locks overdue active reservations, flips them
// to expired, commits, and broadcasts if anything changed. Returns the
// number of reservations expired.
func (s *Sweeper) Once(ctx context.Context) (int, error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	overdue, err := s.Reservations.LockExpiredActiveTx(ctx, tx, defaultBatchSize)
	if err != nil {
		return 0, err
	}
	for _, res := range overdue {
		if err := s.Reservations.UpdateStatusTx(ctx, tx, res.ID, model.ReservationExpired); err != nil {
			return 0, err
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	committed = true

	if len(overdue) > 0 && s.Notifier != nil {
		s.Notifier.Broadcast()
	}
	return len(overdue), nil
}

// Start launches the background sweep loop exactly once per Sweeper. It is
// the caller's responsibility to only invoke Start when
// ENABLE_INPROCESS_EXPIRATION_JOB is set and APP_ENV is not "test" (mirrors
// the original's _should_start_expiration_job skip logic).
func (s *Sweeper) Start(ctx context.Context) {
	s.startOnce.Do(func() {
		go s.loop(ctx)
	})
}

func (s *Sweeper) loop(ctx context.Context) {
	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.Once(ctx)
			if err != nil {
				log.Printf("expiration-sweeper: sweep failed: %v", err)
				continue
			}
			if n > 0 {
				log.Printf("expiration-sweeper: expired_count=%d", n)
			}
		}
	}
}
