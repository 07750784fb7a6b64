package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/pageza/recipebox/backend/internal/database"
	"github.com/pageza/recipebox/backend/internal/metadata"
)

type fakeMetadataStore struct {
	rows    []database.RawMetadata
	writes  int
	failFor uuid.UUID
}

func (f *fakeMetadataStore) ListRawMetadata(context.Context) ([]database.RawMetadata, error) {
	out := make([]database.RawMetadata, len(f.rows))
	copy(out, f.rows)
	return out, nil
}

func (f *fakeMetadataStore) UpdateRecipeMetadata(_ context.Context, id uuid.UUID, raw []byte) error {
	if id == f.failFor {
		return errors.New("write failed")
	}
	for i := range f.rows {
		if f.rows[i].ID == id {
			f.rows[i].Metadata = datatypes.JSON(raw)
			f.writes++
			return nil
		}
	}
	return errors.New("missing")
}

type fakeUploader struct {
	key  string
	body []byte
}

func (f *fakeUploader) UploadJSON(_ context.Context, key string, body []byte) error {
	f.key, f.body = key, body
	return nil
}

func newFakeStore(t *testing.T) *fakeMetadataStore {
	t.Helper()
	canonical, err := metadata.Encode(metadata.Empty())
	require.NoError(t, err)
	return &fakeMetadataStore{rows: []database.RawMetadata{
		{ID: uuid.New(), Title: "Canonical", Metadata: datatypes.JSON(canonical)},
		{ID: uuid.New(), Title: "Legacy text", Metadata: datatypes.JSON(`"{\"rating\":4,\"tried_status\":true}"`)},
		{ID: uuid.New(), Title: "Sparse", Metadata: datatypes.JSON(`{"rating":2}`)},
		{ID: uuid.New(), Title: "Broken", Metadata: datatypes.JSON(`[1,2]`)},
	}}
}

func TestMigrateMetadata(t *testing.T) {
	store := newFakeStore(t)
	broken := store.rows[3]
	uploader := &fakeUploader{}
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	report, err := migrateMetadata(context.Background(), store, uploader, false, now)
	require.NoError(t, err)
	assert.Equal(t, 4, report.Scanned)
	assert.Equal(t, 1, report.Canonical)
	assert.Equal(t, 2, report.Rewritten)
	require.Len(t, report.Malformed, 1)
	assert.Equal(t, "Broken", report.Malformed[0].Title)
	assert.ErrorIs(t, report.Malformed[0].Err, metadata.ErrMalformedMetadata)
	assert.Equal(t, "backups/metadata-20240501T120000Z.json", report.BackupKey)
	assert.Equal(t, report.BackupKey, uploader.key)

	var backedUp []database.RawMetadata
	require.NoError(t, json.Unmarshal(uploader.body, &backedUp))
	assert.Len(t, backedUp, 4)

	m, err := metadata.Decode(store.rows[1].Metadata)
	require.NoError(t, err)
	assert.Equal(t, 4, m.Rating)
	assert.True(t, m.TriedStatus)
	assert.Equal(t, broken.Metadata, store.rows[3].Metadata)

	report, err = migrateMetadata(context.Background(), store, nil, false, now)
	require.NoError(t, err)
	assert.Equal(t, 3, report.Canonical)
	assert.Zero(t, report.Rewritten)
	assert.Equal(t, 2, store.writes)
}

func TestMigrateMetadataDryRun(t *testing.T) {
	store := newFakeStore(t)
	uploader := &fakeUploader{}

	report, err := migrateMetadata(context.Background(), store, uploader, true, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 2, report.Rewritten)
	assert.Zero(t, store.writes)
	assert.Empty(t, uploader.key)

	var out bytes.Buffer
	printMigrationReport(&out, report, true)
	assert.Contains(t, out.String(), "Would rewrite: 2")
	assert.Contains(t, out.String(), "Broken")
}

func TestMigrateMetadataWriteFailure(t *testing.T) {
	store := newFakeStore(t)
	store.failFor = store.rows[2].ID

	report, err := migrateMetadata(context.Background(), store, nil, false, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, 1, report.Rewritten)
}

func TestSameJSON(t *testing.T) {
	assert.True(t, sameJSON([]byte(`{"a":1,"b":[2]}`), []byte(`{"b":[2],"a":1}`)))
	assert.False(t, sameJSON([]byte(`{"a":1}`), []byte(`{"a":2}`)))
	assert.False(t, sameJSON([]byte(`nope`), []byte(`{}`)))
}
