package gateway

import (
	"math/rand"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// RetryPolicy decides how long to wait before the next reconnect
// attempt. Reset is called after a successful dial.
type RetryPolicy interface {
	NextDelay() time.Duration
	Reset()
}

type exponentialRetry struct {
	b *backoff.ExponentialBackOff
}

// NewExponentialRetry returns the default reconnect policy: jittered
// exponential backoff from 1s up to 30s, retrying indefinitely.
func NewExponentialRetry() RetryPolicy {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = time.Second
	b.MaxInterval = 30 * time.Second
	b.MaxElapsedTime = 0
	b.Reset()
	return &exponentialRetry{b: b}
}

func (r *exponentialRetry) NextDelay() time.Duration {
	return r.b.NextBackOff()
}

func (r *exponentialRetry) Reset() {
	r.b.Reset()
}

// sessionJitter spreads fresh identify attempts after a non-resumable
// session invalidation across a 1-6s window so a fleet of bots does
// not stampede the gateway at once.
func sessionJitter() time.Duration {
	return time.Second + time.Duration(rand.Int63n(int64(5*time.Second)))
}
