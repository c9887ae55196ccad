package provider

import (
	"log"
	"sync"
	"time"
)

// CircuitBreaker halts upstream calls when the scraping API keeps failing,
// so a bad key or exhausted quota does not burn through retries all day.
type CircuitBreaker struct {
	failureThreshold int
	resetTimeout     time.Duration

	failures            int
	successes           int
	totalRequests       int
	consecutiveFailures int
	isOpen              bool
	lastFailureTime     time.Time

	mutex sync.Mutex
}

func NewCircuitBreaker(failureThreshold int, resetTimeout time.Duration) *CircuitBreaker {
	return &CircuitBreaker{
		failureThreshold: failureThreshold,
		resetTimeout:     resetTimeout,
	}
}

// RecordSuccess records a successful request
func (cb *CircuitBreaker) RecordSuccess() {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()

	cb.successes++
	cb.totalRequests++
	cb.consecutiveFailures = 0
}

// RecordFailure records a failed request (500, 429, 403)
func (cb *CircuitBreaker) RecordFailure(statusCode int) {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()

	cb.failures++
	cb.consecutiveFailures++
	cb.totalRequests++
	cb.lastFailureTime = time.Now()

	// Two consecutive quota/auth errors mean the key is dead right now.
	if cb.consecutiveFailures >= 2 && (statusCode == 500 || statusCode == 429 || statusCode == 403) {
		cb.isOpen = true
		log.Printf("[provider] circuit breaker OPEN: %d consecutive %d errors, pausing for %v",
			cb.consecutiveFailures, statusCode, cb.resetTimeout)
		return
	}

	if cb.totalRequests >= 20 {
		failureRate := float64(cb.failures) / float64(cb.totalRequests)
		if failureRate >= 0.40 {
			cb.isOpen = true
			log.Printf("[provider] circuit breaker OPEN: failure rate %.1f%% (%d/%d), pausing for %v",
				failureRate*100, cb.failures, cb.totalRequests, cb.resetTimeout)
		}
	}
}

// CanProceed checks if requests are allowed
func (cb *CircuitBreaker) CanProceed() bool {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()

	if !cb.isOpen {
		return true
	}

	if time.Since(cb.lastFailureTime) > cb.resetTimeout {
		log.Printf("[provider] circuit breaker half-open after %v", cb.resetTimeout)
		cb.isOpen = false
		cb.failures = 0
		cb.successes = 0
		cb.totalRequests = 0
		cb.consecutiveFailures = 0
		return true
	}

	return false
}

// GetStatus returns current circuit breaker status
func (cb *CircuitBreaker) GetStatus() (isOpen bool, failures int, total int) {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()
	return cb.isOpen, cb.failures, cb.totalRequests
}
