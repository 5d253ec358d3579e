package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Sweeper periodically expires chat messages and removes chats whose team
// is gone.
type Sweeper struct {
	chat     *ChatService
	interval time.Duration
	log      *zap.Logger

	stopCh chan struct{}
	wg     sync.WaitGroup
}

func NewSweeper(chat *ChatService, interval time.Duration, log *zap.Logger) *Sweeper {
	return &Sweeper{
		chat:     chat,
		interval: interval,
		log:      log,
		stopCh:   make(chan struct{}),
	}
}

func (s *Sweeper) Start() {
	s.wg.Add(1)
	go s.run()
	s.log.Info("chat sweeper started", zap.Duration("interval", s.interval))
}

func (s *Sweeper) Stop() {
	close(s.stopCh)
	s.wg.Wait()
	s.log.Info("chat sweeper stopped")
}

func (s *Sweeper) run() {
	defer s.wg.Done()

	// Run once at startup so a long-down server catches up immediately.
	s.sweep()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.stopCh:
			return
		}
	}
}

func (s *Sweeper) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.chat.Sweep(ctx); err != nil {
		s.log.Error("chat sweep failed", zap.Error(err))
	}
}
