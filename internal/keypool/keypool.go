package keypool

import (
	"errors"
	"math/rand"
	"sync"
)

// ErrNoKeysConfigured indicates the pool was built without any credentials.
var ErrNoKeysConfigured = errors.New("no api keys configured")

// Pool tracks a fixed set of API credentials and which of them failed
// recently. Keys are never removed, only marked failed or succeeded.
type Pool struct {
	mu     sync.Mutex
	keys   []string
	failed map[string]struct{}
}

// New builds a pool from the given keys, preserving order and discarding
// duplicates and empty values.
func New(keys []string) *Pool {
	p := &Pool{failed: make(map[string]struct{})}
	seen := make(map[string]struct{}, len(keys))
	for _, key := range keys {
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		p.keys = append(p.keys, key)
	}
	return p
}

// Select returns a random key that has not failed recently. When every key is
// marked failed the failed set is cleared first, so a full outage is treated
// as transient rather than a permanent lockout.
func (p *Pool) Select() (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.keys) == 0 {
		return "", ErrNoKeysConfigured
	}

	available := p.availableLocked()
	if len(available) == 0 {
		p.failed = make(map[string]struct{})
		available = p.keys
	}

	return available[rand.Intn(len(available))], nil
}

// MarkFailed records a retryable failure against key. Unknown keys are
// ignored. Idempotent.
func (p *Pool) MarkFailed(key string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, k := range p.keys {
		if k == key {
			p.failed[key] = struct{}{}
			return
		}
	}
}

// MarkSucceeded clears any failed status for key. Idempotent.
func (p *Pool) MarkSucceeded(key string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.failed, key)
}

// Remaining returns the number of keys not currently marked failed.
func (p *Pool) Remaining() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.availableLocked())
}

// Size returns the total number of configured keys.
func (p *Pool) Size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.keys)
}

func (p *Pool) availableLocked() []string {
	available := make([]string, 0, len(p.keys))
	for _, k := range p.keys {
		if _, bad := p.failed[k]; !bad {
			available = append(available, k)
		}
	}
	return available
}
