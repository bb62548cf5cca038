package webhook

import (
	"context"
	"net/http"
	"sync"
	"time"
)

// ReplayStore remembers deliveries that were already accepted.
// Implementations must be safe for concurrent use.
type ReplayStore interface {
	// MarkSeen records key for ttl and reports whether this was the first
	// time the key was seen.
	MarkSeen(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

// Guard adds replay detection on top of a Webhook.
//
// The tolerance window bounds how long a captured delivery stays valid;
// the guard additionally rejects a second use of the same signature inside
// that window. The store is consulted only after the delivery has been
// authenticated, so unauthenticated traffic cannot fill it.
type Guard struct {
	webhook *Webhook
	store   ReplayStore
}

// NewGuard combines a verifier with a replay store.
func NewGuard(w *Webhook, store ReplayStore) *Guard {
	return &Guard{webhook: w, store: store}
}

// Verify verifies the delivery found in headers and rejects replays.
func (g *Guard) Verify(ctx context.Context, headers http.Header, payload []byte) (Payload, error) {
	p, auth, err := g.webhook.verifyDelivery(headers.Get, payload)
	if err != nil {
		return nil, err
	}

	// Entries must outlive the whole window on both sides of the timestamp.
	first, err := g.store.MarkSeen(ctx, auth.key(), 2*g.webhook.tolerance)
	if err != nil {
		return nil, err
	}
	if !first {
		return nil, verificationError(KindReplay, nil, "signature timestamp %d", auth.timestamp)
	}
	return p, nil
}

// MemoryReplayStore is an in-process ReplayStore.
// Suitable for a single receiver instance; use RedisReplayStore when
// several instances share the webhook endpoint.
type MemoryReplayStore struct {
	mu      sync.Mutex
	entries map[string]time.Time
	now     func() time.Time
	calls   int
}

// NewMemoryReplayStore creates an empty in-memory store.
func NewMemoryReplayStore() *MemoryReplayStore {
	return &MemoryReplayStore{
		entries: make(map[string]time.Time),
		now:     time.Now,
	}
}

// sweepEvery controls how often expired entries are purged.
const sweepEvery = 128

// MarkSeen implements ReplayStore.
func (s *MemoryReplayStore) MarkSeen(_ context.Context, key string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.calls++
	if s.calls%sweepEvery == 0 {
		for k, exp := range s.entries {
			if !now.Before(exp) {
				delete(s.entries, k)
			}
		}
	}

	if exp, ok := s.entries[key]; ok && now.Before(exp) {
		return false, nil
	}
	s.entries[key] = now.Add(ttl)
	return true, nil
}

// Len returns the number of tracked entries, expired ones included.
func (s *MemoryReplayStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
