// Harborview - Jellyfin Analytics Dashboard
// Copyright 2026 Harborview contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/harborview/harborview

package sync

import (
	"context"
	"errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/harborview/harborview/internal/logging"
	"github.com/harborview/harborview/internal/metrics"
	"github.com/harborview/harborview/internal/models"
)

// Ensure JellyfinBreakerClient implements JellyfinClientInterface
var _ JellyfinClientInterface = (*JellyfinBreakerClient)(nil)

// JellyfinBreakerClient wraps JellyfinClient with a circuit breaker.
// When Jellyfin is down or slow the breaker rejects calls immediately
// instead of letting every sync hang on the full client timeout.
//
// DETERMINISM NOTE: The circuit breaker uses real time (via sony/gobreaker)
// for its interval and timeout calculations. This is intentional for
// production resilience.
type JellyfinBreakerClient struct {
	client *JellyfinClient
	cb     *gobreaker.CircuitBreaker[interface{}]
	name   string
}

// NewJellyfinBreakerClient creates a Jellyfin client with circuit breaker.
// Circuit breaker configuration:
// - Max 3 concurrent requests in half-open state
// - 1 minute measurement window
// - 2 minute timeout before attempting recovery
// - Opens after 60% failure rate with minimum 10 requests
func NewJellyfinBreakerClient(baseURL, apiKey string) *JellyfinBreakerClient {
	client := NewJellyfinClient(baseURL, apiKey)
	cbName := "jellyfin-api"

	metrics.CircuitBreakerState.WithLabelValues(cbName).Set(0) // 0 = closed

	cb := gobreaker.NewCircuitBreaker[interface{}](gobreaker.Settings{
		Name:        cbName,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,

		// Opens when failure rate >= 60% with minimum 10 requests
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}

			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := failureRatio >= 0.6

			if shouldTrip {
				logging.Warn().Uint32("failures", counts.TotalFailures).Float64("failure_rate", failureRatio*100).Msg("[CIRCUIT BREAKER] Opening Jellyfin circuit")
			}

			return shouldTrip
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := stateToString(from)
			toStr := stateToString(to)

			logging.Info().Str("from", fromStr).Str("to", toStr).Msg("[CIRCUIT BREAKER] Jellyfin state transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
		},
	})

	return &JellyfinBreakerClient{
		client: client,
		cb:     cb,
		name:   cbName,
	}
}

// execute wraps a Jellyfin API call with circuit breaker protection
func (bc *JellyfinBreakerClient) execute(fn func() (interface{}, error)) (interface{}, error) {
	result, err := bc.cb.Execute(fn)
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			logging.Warn().Err(err).Msg("[CIRCUIT BREAKER] Jellyfin request rejected")
		}
		return nil, err
	}
	return result, nil
}

// Ping tests connectivity with circuit breaker protection
func (bc *JellyfinBreakerClient) Ping(ctx context.Context) error {
	_, err := bc.execute(func() (interface{}, error) {
		return nil, bc.client.Ping(ctx)
	})
	return err
}

// GetUsers retrieves all users with circuit breaker protection
func (bc *JellyfinBreakerClient) GetUsers(ctx context.Context) ([]models.JellyfinUser, error) {
	result, err := bc.execute(func() (interface{}, error) {
		return bc.client.GetUsers(ctx)
	})
	if err != nil {
		return nil, err
	}
	users, ok := result.([]models.JellyfinUser)
	if !ok {
		return nil, errors.New("circuit breaker: unexpected result type for GetUsers")
	}
	return users, nil
}

// GetSessions retrieves all sessions with circuit breaker protection
func (bc *JellyfinBreakerClient) GetSessions(ctx context.Context) ([]models.JellyfinSession, error) {
	result, err := bc.execute(func() (interface{}, error) {
		return bc.client.GetSessions(ctx)
	})
	if err != nil {
		return nil, err
	}
	sessions, ok := result.([]models.JellyfinSession)
	if !ok {
		return nil, errors.New("circuit breaker: unexpected result type for GetSessions")
	}
	return sessions, nil
}

// GetActivities retrieves activity-log entries with circuit breaker protection
func (bc *JellyfinBreakerClient) GetActivities(ctx context.Context, startIndex, limit int) ([]models.JellyfinActivity, error) {
	result, err := bc.execute(func() (interface{}, error) {
		return bc.client.GetActivities(ctx, startIndex, limit)
	})
	if err != nil {
		return nil, err
	}
	activities, ok := result.([]models.JellyfinActivity)
	if !ok {
		return nil, errors.New("circuit breaker: unexpected result type for GetActivities")
	}
	return activities, nil
}

// GetLibraryItems retrieves library items with circuit breaker protection
func (bc *JellyfinBreakerClient) GetLibraryItems(ctx context.Context) ([]models.JellyfinLibraryItem, error) {
	result, err := bc.execute(func() (interface{}, error) {
		return bc.client.GetLibraryItems(ctx)
	})
	if err != nil {
		return nil, err
	}
	items, ok := result.([]models.JellyfinLibraryItem)
	if !ok {
		return nil, errors.New("circuit breaker: unexpected result type for GetLibraryItems")
	}
	return items, nil
}

// State returns the current circuit breaker state
func (bc *JellyfinBreakerClient) State() gobreaker.State {
	return bc.cb.State()
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
