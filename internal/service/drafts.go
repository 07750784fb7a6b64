package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/pageza/recipebox/backend/internal/metadata"
)

// DraftTTL bounds how long an unsaved edit survives.
const DraftTTL = 24 * time.Hour

func draftKey(id uuid.UUID) string {
	return fmt.Sprintf("recipe:draft:%s", id)
}

// RedisDraftStore keeps drafts in Redis as canonical metadata JSON.
type RedisDraftStore struct {
	redis redis.Cmdable
	ttl   time.Duration
}

// NewRedisDraftStore creates a new RedisDraftStore instance
func NewRedisDraftStore(client redis.Cmdable) *RedisDraftStore {
	return &RedisDraftStore{redis: client, ttl: DraftTTL}
}

// Get retrieves a draft from Redis
func (s *RedisDraftStore) Get(ctx context.Context, id uuid.UUID) (*metadata.Metadata, error) {
	data, err := s.redis.Get(ctx, draftKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get draft from Redis: %w", err)
	}

	m, err := metadata.DecodeStaged(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode draft: %w", err)
	}
	return &m, nil
}

// Put saves a draft to Redis, resetting its TTL
func (s *RedisDraftStore) Put(ctx context.Context, id uuid.UUID, m metadata.Metadata) error {
	data, err := metadata.Encode(m)
	if err != nil {
		return fmt.Errorf("failed to marshal draft: %w", err)
	}
	if err := s.redis.Set(ctx, draftKey(id), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save draft to Redis: %w", err)
	}
	return nil
}

// Delete removes a draft from Redis
func (s *RedisDraftStore) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.redis.Del(ctx, draftKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete draft from Redis: %w", err)
	}
	return nil
}

// MemoryDraftStore is a process local DraftStore used when Redis is not
// configured and in tests.
type MemoryDraftStore struct {
	mu     sync.Mutex
	drafts map[uuid.UUID]memoryDraft
	ttl    time.Duration
	now    func() time.Time
}

type memoryDraft struct {
	data    []byte
	expires time.Time
}

func NewMemoryDraftStore() *MemoryDraftStore {
	return &MemoryDraftStore{
		drafts: make(map[uuid.UUID]memoryDraft),
		ttl:    DraftTTL,
		now:    time.Now,
	}
}

func (s *MemoryDraftStore) Get(_ context.Context, id uuid.UUID) (*metadata.Metadata, error) {
	s.mu.Lock()
	d, ok := s.drafts[id]
	if ok && !s.now().Before(d.expires) {
		delete(s.drafts, id)
		ok = false
	}
	s.mu.Unlock()
	if !ok {
		return nil, nil
	}

	m, err := metadata.DecodeStaged(d.data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode draft: %w", err)
	}
	return &m, nil
}

func (s *MemoryDraftStore) Put(_ context.Context, id uuid.UUID, m metadata.Metadata) error {
	data, err := metadata.Encode(m)
	if err != nil {
		return fmt.Errorf("failed to marshal draft: %w", err)
	}
	s.mu.Lock()
	s.drafts[id] = memoryDraft{data: data, expires: s.now().Add(s.ttl)}
	s.mu.Unlock()
	return nil
}

func (s *MemoryDraftStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	delete(s.drafts, id)
	s.mu.Unlock()
	return nil
}
