package circuitbreaker

import (
    "errors"
    "sync"
    "time"

    "go.uber.org/zap"

    "moderator/internal/pkg/logger"
    "moderator/internal/pkg/metrics"
)

var ErrCircuitOpen = errors.New("circuit breaker is open")

type State int

const (
    StateClosed State = iota
    StateHalfOpen
    StateOpen
)

func (s State) String() string {
    switch s {
    case StateClosed:
        return "closed"
    case StateHalfOpen:
        return "half-open"
    case StateOpen:
        return "open"
    }
    return "unknown"
}

// Protects a flaky dependency: after failureThreshold consecutive failures
// the circuit opens and calls fail fast until resetTimeout elapses, at which
// point a single test call is allowed through.
type CircuitBreaker struct {
    mutex            sync.Mutex
    failureCount     int
    lastFailure      time.Time
    resetTimeout     time.Duration
    failureThreshold int
    serviceName      string
    state            State
}

func New(serviceName string, failureThreshold int, resetTimeout time.Duration) *CircuitBreaker {
    cb := &CircuitBreaker{
        serviceName:      serviceName,
        failureThreshold: failureThreshold,
        resetTimeout:     resetTimeout,
        state:            StateClosed,
    }
    metrics.CircuitBreakerState.WithLabelValues(serviceName).Set(float64(StateClosed))
    return cb
}

func (cb *CircuitBreaker) Execute(fn func() error) error {
    cb.mutex.Lock()

    if cb.state == StateOpen {
        if time.Since(cb.lastFailure) > cb.resetTimeout {
            cb.setState(StateHalfOpen)
            logger.Log.Info("Circuit half-open, allowing test request",
                zap.String("service", cb.serviceName))
        } else {
            cb.mutex.Unlock()
            return ErrCircuitOpen
        }
    }

    cb.mutex.Unlock()

    err := fn()

    cb.mutex.Lock()
    defer cb.mutex.Unlock()

    if err != nil {
        cb.failureCount++
        cb.lastFailure = time.Now()

        if cb.state == StateHalfOpen || cb.failureCount >= cb.failureThreshold {
            cb.setState(StateOpen)
            logger.Log.Warn("Circuit opened due to failures",
                zap.String("service", cb.serviceName),
                zap.Int("failures", cb.failureCount),
                zap.Time("until", cb.lastFailure.Add(cb.resetTimeout)))
        }

        return err
    }

    if cb.state == StateHalfOpen {
        cb.setState(StateClosed)
        cb.failureCount = 0
        logger.Log.Info("Circuit closed after successful test",
            zap.String("service", cb.serviceName))
    }

    return nil
}

func (cb *CircuitBreaker) State() State {
    cb.mutex.Lock()
    defer cb.mutex.Unlock()
    return cb.state
}

// Caller must hold cb.mutex.
func (cb *CircuitBreaker) setState(state State) {
    cb.state = state
    metrics.CircuitBreakerState.WithLabelValues(cb.serviceName).Set(float64(state))
}
