package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"repomanage/internal/domain"
	"repomanage/internal/logger"
	"repomanage/internal/metrics"
	"repomanage/internal/repository"
)

// Option configures a service
type Option func(*base)

// WithClock replaces the wall clock used to stamp updated_at
func WithClock(now func() time.Time) Option {
	return func(b *base) {
		b.now = now
	}
}

// WithMetrics records every operation on m
func WithMetrics(m *metrics.Metrics) Option {
	return func(b *base) {
		b.metrics = m
	}
}

// base holds what every service shares
type base struct {
	store    *repository.Store
	eventBus *EventBus
	metrics  *metrics.Metrics
	now      func() time.Time
}

func newBase(store *repository.Store, eventBus *EventBus, opts []Option) base {
	b := base{
		store:    store,
		eventBus: eventBus,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

// run executes fn atomically and records its outcome. A panic inside fn is
// recorded as an error and then re-raised.
func (b *base) run(ctx context.Context, op string, fn func() error) error {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			b.observe(ctx, op, fmt.Errorf("panic: %v", r), time.Since(start))
			panic(r)
		}
	}()

	err := b.store.Atomic(fn)
	b.observe(ctx, op, err, time.Since(start))
	return err
}

func (b *base) observe(ctx context.Context, op string, err error, elapsed time.Duration) {
	b.metrics.ObserveOperation(op, err, elapsed)

	log := logger.From(ctx).With(logger.Op(op), logger.Duration(elapsed))
	switch {
	case err == nil:
		log.Debug("operation completed")
	case isRejection(err):
		log.Info("operation rejected", zap.String("reason", err.Error()))
	default:
		log.Error("operation failed", logger.Err(err))
	}
}

func (b *base) publish(t EventType, payload interface{}) {
	b.eventBus.Publish(Event{Type: t, Payload: payload})
}

// isRejection reports whether err is a typed result rather than a store failure
func isRejection(err error) bool {
	return errors.Is(err, domain.ErrNotFound) ||
		errors.Is(err, domain.ErrCreateFail) ||
		errors.Is(err, domain.ErrUpdateFail) ||
		errors.Is(err, ErrInvalidSnapshot)
}
