package worker

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ThiccTapeman/statistic.alexanderhellsten.se/internal/events"
	"github.com/ThiccTapeman/statistic.alexanderhellsten.se/internal/repository"
)

// TokenSweeper periodically deletes expired tokens. Validation never relies on
// it; FindValid checks expiry on every read.
type TokenSweeper struct {
	tokens     repository.TokenRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
	interval   time.Duration
	timeout    time.Duration
	now        func() time.Time

	stopOnce sync.Once
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// NewTokenSweeper creates a sweeper. A non-positive interval defaults to one minute.
func NewTokenSweeper(tokens repository.TokenRepository, dispatcher events.Dispatcher, logger *zap.Logger, interval, timeout time.Duration) *TokenSweeper {
	if interval <= 0 {
		interval = time.Minute
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &TokenSweeper{
		tokens:     tokens,
		dispatcher: dispatcher,
		logger:     logger,
		interval:   interval,
		timeout:    timeout,
		now:        time.Now,
		stopCh:     make(chan struct{}),
		doneCh:     make(chan struct{}),
	}
}

// Start launches the sweep loop. Call Stop to shut it down.
func (s *TokenSweeper) Start() {
	go s.run()
	s.logger.Info("token sweeper started", zap.Duration("interval", s.interval))
}

// Stop signals the loop and waits for an in-flight sweep to finish.
func (s *TokenSweeper) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopCh)
		<-s.doneCh
		s.logger.Info("token sweeper stopped")
	})
}

func (s *TokenSweeper) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.Sweep(context.Background())

	for {
		select {
		case <-ticker.C:
			s.Sweep(context.Background())
		case <-s.stopCh:
			return
		}
	}
}

// Sweep runs one deletion pass and returns the number of removed tokens.
func (s *TokenSweeper) Sweep(ctx context.Context) int64 {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	deleted, err := s.tokens.DeleteExpired(ctx, s.now())
	if err != nil {
		s.logger.Error("failed to delete expired tokens", zap.Error(err))
		return 0
	}

	_ = events.Publish(ctx, s.dispatcher, events.Event{
		Type:      events.EventTokensSwept,
		Timestamp: s.now(),
		Payload:   events.TokensSweptPayload{Deleted: deleted},
	})
	s.logger.Debug("token sweep completed", zap.Int64("deleted", deleted))
	return deleted
}
