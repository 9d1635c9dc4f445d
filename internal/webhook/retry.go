package webhook

import (
	"math"
	"math/rand/v2"
	"net/http"
	"time"
)

// jitterFraction spreads retries of concurrent senders apart.
const jitterFraction = 0.1

// Backoff returns the delay before retry number attempt. The delay grows by
// Multiplier per attempt from InitialDelay, is capped at MaxDelay and varies
// by up to 10% either way. Attempt 0 is the first delivery and has no delay.
func (r *RetryConfig) Backoff(attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}

	delay := float64(r.InitialDelay) * math.Pow(r.Multiplier, float64(attempt-1))
	delay = math.Min(delay, float64(r.MaxDelay))

	jitter := delay * jitterFraction
	return time.Duration(delay + (rand.Float64()*2-1)*jitter)
}

// retryable reports whether a response status is worth another attempt.
func retryable(code int) bool {
	switch code {
	case http.StatusRequestTimeout,
		http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}
