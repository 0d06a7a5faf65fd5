package credential

import (
	"sync"
)

// Rotator hands out pooled API keys in a thread-safe, round-robin manner.
// It is only consulted when a caller did not supply a credential.
type Rotator struct {
	keys  []string
	index int
	mutex sync.Mutex
}

// NewRotator creates a Rotator over the given keys. Blank keys are skipped.
func NewRotator(keys []string) *Rotator {
	pooled := make([]string, 0, len(keys))
	for _, k := range keys {
		if k != "" {
			pooled = append(pooled, k)
		}
	}
	return &Rotator{
		keys: pooled,
	}
}

// Len returns the number of pooled keys.
func (r *Rotator) Len() int {
	return len(r.keys)
}

// Next returns the next pooled key, or "" when the pool is empty.
func (r *Rotator) Next() string {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if len(r.keys) == 0 {
		return ""
	}

	key := r.keys[r.index]
	r.index = (r.index + 1) % len(r.keys)
	return key
}

// Resolve returns the caller's credential unchanged when it is set, and a
// pooled key otherwise.
func (r *Rotator) Resolve(credential string) string {
	if credential != "" {
		return credential
	}
	return r.Next()
}
