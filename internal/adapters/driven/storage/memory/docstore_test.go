package memory

import (
	"context"
	"errors"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/agsi-cli/internal/core/domain"
)

func TestDocumentStore_PutGet(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	payload := []byte(`{"id":"DOC1"}`)
	require.NoError(t, store.Put(ctx, domain.CatalogEntry{ID: "DOC1", Name: "first"}, payload))
	payload[0] = 'X'

	entry, data, err := store.Get(ctx, "DOC1")
	require.NoError(t, err)
	assert.Equal(t, "first", entry.Name)
	assert.Equal(t, `{"id":"DOC1"}`, string(data))

	require.NoError(t, store.Put(ctx, domain.CatalogEntry{ID: "DOC1", Name: "second"}, nil))
	entry, _, err = store.Get(ctx, "DOC1")
	require.NoError(t, err)
	assert.Equal(t, "second", entry.Name)
}

func TestDocumentStore_Errors(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	err := store.Put(ctx, domain.CatalogEntry{}, nil)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, _, err = store.Get(ctx, "missing")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	assert.True(t, errors.Is(store.Delete(ctx, "missing"), domain.ErrNotFound))

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	assert.ErrorIs(t, store.Put(cancelled, domain.CatalogEntry{ID: "A"}, nil), context.Canceled)

	require.NoError(t, store.Close())
	_, err = store.List(ctx)
	assert.Error(t, err)
}

func TestDocumentStore_ListDelete(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()
	for _, id := range []string{"B", "C", "A"} {
		require.NoError(t, store.Put(ctx, domain.CatalogEntry{ID: id}, nil))
	}

	entries, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "A", entries[0].ID)
	assert.Equal(t, "C", entries[2].ID)

	require.NoError(t, store.Delete(ctx, "B"))
	entries, err = store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestFileStore(t *testing.T) {
	store := NewFileStore()

	_, err := store.ReadFile("a.json")
	assert.True(t, errors.Is(err, fs.ErrNotExist))

	require.NoError(t, store.WriteFile("b.json", []byte("b")))
	require.NoError(t, store.WriteFile("a.json", []byte("a")))
	data, err := store.ReadFile("a.json")
	require.NoError(t, err)
	assert.Equal(t, "a", string(data))
	assert.Equal(t, []string{"a.json", "b.json"}, store.Paths())
}
