package ratelimit

import (
	"context"
	"sync"
)

var _ BucketStore = (*MemoryStore)(nil)

// MemoryStore keeps buckets in process memory. It suits single-instance deployments and tests.
type MemoryStore struct {
	mu      sync.Mutex
	buckets map[string]Bucket
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{buckets: make(map[string]Bucket)}
}

func bucketKey(descriptor, key string) string {
	return descriptor + "::" + key
}

// Get returns the stored bucket.
func (s *MemoryStore) Get(_ context.Context, descriptor, key string) (Bucket, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.buckets[bucketKey(descriptor, key)]
	return b, ok, nil
}

// Modify applies fn under the store lock.
func (s *MemoryStore) Modify(_ context.Context, descriptor, key string, fn func(b Bucket, found bool) (Bucket, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := bucketKey(descriptor, key)
	b, found := s.buckets[k]
	updated, err := fn(b, found)
	if err != nil {
		return err
	}
	s.buckets[k] = updated
	return nil
}
