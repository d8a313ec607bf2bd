package classifier

import (
	"math/rand/v2"
	"time"
)

const (
	maxBackoff     = 16 * time.Second
	networkBackoff = 2 * time.Second
	defaultBackoff = time.Second
	maxJitter      = time.Second
)

// Backoff returns the delay before retry number retryCount of a failure of
// kind: min(16s, base*2^retryCount) plus up to one second of random jitter.
// The base is 2s for [Network] and 1s for everything else.
func Backoff(retryCount int, kind ErrorKind) time.Duration {
	return BaseBackoff(retryCount, kind) + rand.N(maxJitter)
}

// BaseBackoff is [Backoff] without jitter.
func BaseBackoff(retryCount int, kind ErrorKind) time.Duration {
	base := defaultBackoff
	if kind == Network {
		base = networkBackoff
	}

	if retryCount < 0 {
		retryCount = 0
	}

	delay := base
	for i := 0; i < retryCount; i++ {
		delay *= 2
		if delay >= maxBackoff {
			return maxBackoff
		}
	}

	return min(delay, maxBackoff)
}
