package session

import (
	"context"
	"log"
	"time"
)

// Sweeper runs CleanupExpired on a fixed interval until its context is cancelled.
type Sweeper struct {
	service  *Service
	interval time.Duration
}

func NewSweeper(service *Service, interval time.Duration) *Sweeper {
	return &Sweeper{service: service, interval: interval}
}

// Run blocks until ctx is done. A non-positive interval disables sweeping.
func (s *Sweeper) Run(ctx context.Context) {
	if s.interval <= 0 {
		log.Printf("session sweeper disabled")
		return
	}
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	n, err := s.service.CleanupExpired(ctx)
	if err != nil {
		log.Printf("session cleanup failed: error=%v", err)
		return
	}
	if n > 0 {
		log.Printf("session cleanup: removed=%d", n)
	}
}
