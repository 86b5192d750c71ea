package intents

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	pkgerrors "github.com/rahulnair-dev/payflow/pkg/errors"
)

const storeShards = 16

// UpdateFn mutates a working copy of an intent. It reports whether the
// record changed; on error the stored record stays untouched.
type UpdateFn func(intent *PaymentIntent) (changed bool, err error)

// Store holds payment intents for the lifetime of the process. Keys are
// spread over sharded maps so updates for unrelated intents do not contend;
// operations on the same key serialize on the shard lock.
type Store struct {
	shards [storeShards]storeShard
	now    func() time.Time
}

type storeShard struct {
	mu      sync.RWMutex
	intents map[uuid.UUID]PaymentIntent
}

// NewStore builds an empty intent store.
func NewStore() *Store {
	s := &Store{
		now: func() time.Time { return time.Now().UTC() },
	}
	for i := range s.shards {
		s.shards[i].intents = make(map[uuid.UUID]PaymentIntent)
	}
	return s
}

func (s *Store) shardFor(id uuid.UUID) *storeShard {
	return &s.shards[int(id[0])%storeShards]
}

// Insert stores a freshly minted intent. Duplicate ids are rejected; with
// random ids this is unreachable in practice.
func (s *Store) Insert(ctx context.Context, intent PaymentIntent) error {
	shard := s.shardFor(intent.ID)
	shard.mu.Lock()
	defer shard.mu.Unlock()

	if _, exists := shard.intents[intent.ID]; exists {
		return pkgerrors.New(pkgerrors.CodeConflict, "payment intent already exists")
	}
	shard.intents[intent.ID] = intent
	return nil
}

// Get returns a copy of the stored intent.
func (s *Store) Get(ctx context.Context, id uuid.UUID) (PaymentIntent, error) {
	shard := s.shardFor(id)
	shard.mu.RLock()
	defer shard.mu.RUnlock()

	intent, ok := shard.intents[id]
	if !ok {
		return PaymentIntent{}, pkgerrors.New(pkgerrors.CodeNotFound, "payment not found")
	}
	return intent, nil
}

// Update runs fn against the current record inside the shard critical
// section. The result is written back, with a fresh UpdatedAt, only when fn
// succeeds and reports a change; a no-op success returns the record exactly
// as stored. Concurrent updates for the same id serialize here, which is
// what keeps duplicate webhook deliveries from producing lost or doubled
// transitions.
func (s *Store) Update(ctx context.Context, id uuid.UUID, fn UpdateFn) (PaymentIntent, error) {
	shard := s.shardFor(id)
	shard.mu.Lock()
	defer shard.mu.Unlock()

	current, ok := shard.intents[id]
	if !ok {
		return PaymentIntent{}, pkgerrors.New(pkgerrors.CodeNotFound, "payment not found")
	}

	next := current
	changed, err := fn(&next)
	if err != nil {
		return PaymentIntent{}, err
	}
	if !changed {
		return current, nil
	}

	next.UpdatedAt = s.now()
	shard.intents[id] = next
	return next, nil
}
