package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/angelmondragon/storefeed-backend/pkg/logger"
)

// BreakerConfig configures the circuit breaker placed in front of a Store.
type BreakerConfig struct {
	Name             string
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold uint32
}

// BreakerStore short-circuits calls to an unhealthy backend so a slow or
// unavailable cache degrades into misses instead of stalling requests.
// ErrMiss is not counted as a failure.
type BreakerStore struct {
	next Store
	cb   *gobreaker.CircuitBreaker[[]byte]
}

func NewBreakerStore(next Store, cfg BreakerConfig, logg *logger.Logger) (*BreakerStore, error) {
	if next == nil {
		return nil, errors.New("next store required")
	}
	threshold := cfg.FailureThreshold
	if threshold == 0 {
		threshold = 5
	}
	name := cfg.Name
	if name == "" {
		name = "cache"
	}
	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrMiss)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			if logg == nil {
				return
			}
			ctx := logg.WithFields(context.Background(), map[string]any{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			})
			logg.Warn(ctx, "cache circuit breaker state changed")
		},
	}
	return &BreakerStore{next: next, cb: gobreaker.NewCircuitBreaker[[]byte](settings)}, nil
}

// State reports the breaker state for health endpoints and tests.
func (s *BreakerStore) State() string {
	return s.cb.State().String()
}

func (s *BreakerStore) Get(ctx context.Context, key string) ([]byte, error) {
	payload, err := s.cb.Execute(func() ([]byte, error) {
		return s.next.Get(ctx, key)
	})
	if err != nil {
		return nil, s.translate(err)
	}
	return payload, nil
}

func (s *BreakerStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	_, err := s.cb.Execute(func() ([]byte, error) {
		return nil, s.next.Set(ctx, key, value, ttl)
	})
	return s.translate(err)
}

func (s *BreakerStore) Delete(ctx context.Context, key string) error {
	_, err := s.cb.Execute(func() ([]byte, error) {
		return nil, s.next.Delete(ctx, key)
	})
	return s.translate(err)
}

func (s *BreakerStore) translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("cache unavailable: %w", err)
	}
	return err
}
