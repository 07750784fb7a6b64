package service

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	pgvector "github.com/pgvector/pgvector-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recipebox/backend/internal/metadata"
)

func TestGenerateEmbedding(t *testing.T) {
	a := GenerateEmbedding("Roast chicken with lemon")
	b := GenerateEmbedding("roast CHICKEN, with lemon!")
	require.Len(t, a.Slice(), EmbeddingDimensions)
	assert.Equal(t, a.Slice(), b.Slice())

	var norm float64
	for _, v := range a.Slice() {
		norm += float64(v) * float64(v)
	}
	assert.InDelta(t, 1, norm, 1e-5)

	empty := GenerateEmbedding("a an of")
	for _, v := range empty.Slice() {
		assert.Zero(t, v)
	}
}

func TestEmbeddingDistance(t *testing.T) {
	q := GenerateEmbedding("chicken lemon")
	near := GenerateEmbedding("lemon chicken thighs")
	far := GenerateEmbedding("chocolate mousse")
	assert.Less(t, embeddingDistance(q, near), embeddingDistance(q, far))
	assert.InDelta(t, 0, embeddingDistance(q, q), 1e-9)
	assert.True(t, math.IsInf(embeddingDistance(q, pgvector.NewVector([]float32{1})), 1))
}

func TestMemoryDraftStoreExpiry(t *testing.T) {
	store := NewMemoryDraftStore()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	id := uuid.New()

	require.NoError(t, store.Put(context.Background(), id, metadata.Empty()))
	now = now.Add(DraftTTL)
	got, err := store.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestDraftKey(t *testing.T) {
	id := uuid.MustParse("6f1c2b8e-8d7a-4c3e-9a1b-2c3d4e5f6a7b")
	assert.Equal(t, "recipe:draft:6f1c2b8e-8d7a-4c3e-9a1b-2c3d4e5f6a7b", draftKey(id))
}
