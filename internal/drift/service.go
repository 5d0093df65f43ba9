package drift

import (
	"context"
	"log"
	"time"

	"roomtrack-backend/internal/store"
)

// Notifier is told about rooms that just became available.
type Notifier interface {
	Dispatch(roomID string)
}

// Service applies drift to stored rooms, either on demand from the read
// path or periodically in the background.
type Service struct {
	store    store.Store
	sim      *Simulator
	notifier Notifier
	interval time.Duration
	enabled  bool
}

// NewService wires a simulator to a store. notifier may be nil.
func NewService(st store.Store, sim *Simulator, notifier Notifier, enabled bool, interval time.Duration) *Service {
	return &Service{
		store:    st,
		sim:      sim,
		notifier: notifier,
		interval: interval,
		enabled:  enabled,
	}
}

// Reconcile re-evaluates every stale room and persists the result. It
// returns the rooms that were re-evaluated.
func (s *Service) Reconcile(ctx context.Context) ([]store.RoomChange, error) {
	changes, err := s.store.ReconcileRooms(ctx, s.sim.Evaluate)
	if err != nil {
		return nil, err
	}
	if s.notifier != nil {
		for _, c := range changes {
			if c.BecameAvailable() {
				s.notifier.Dispatch(c.After.ID)
			}
		}
	}
	return changes, nil
}

// Run reconciles on a timer until ctx is cancelled.
func (s *Service) Run(ctx context.Context) {
	if !s.enabled {
		log.Println("Background drift is disabled. Rooms drift on read only.")
		return
	}
	log.Println("Starting drift service...")

	s.reconcileOnce(ctx)

	timer := time.NewTimer(s.interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Drift service shutting down.")
			return
		case <-timer.C:
			s.reconcileOnce(ctx)
			timer.Reset(s.interval)
		}
	}
}

func (s *Service) reconcileOnce(ctx context.Context) {
	changes, err := s.Reconcile(ctx)
	if err != nil {
		log.Printf("Error reconciling rooms: %v", err)
		return
	}
	if len(changes) > 0 {
		log.Printf("Drift cycle finished: %d rooms re-evaluated.", len(changes))
	}
}
