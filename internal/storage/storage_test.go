package storage_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mekedron/tableorder-cli/internal/storage"
)

type backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

func exerciseBackend(t *testing.T, store backend) {
	t.Helper()
	ctx := context.Background()
	key := "tableorder:cart:demo-restaurant-001"

	_, err := store.Get(ctx, key)
	require.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, store.Set(ctx, key, []byte(`{"restaurantId":"demo-restaurant-001"}`)))
	value, err := store.Get(ctx, key)
	require.NoError(t, err)
	require.JSONEq(t, `{"restaurantId":"demo-restaurant-001"}`, string(value))

	require.NoError(t, store.Set(ctx, key, []byte(`{"restaurantId":"demo-restaurant-001","total":15}`)))
	value, err = store.Get(ctx, key)
	require.NoError(t, err)
	require.JSONEq(t, `{"restaurantId":"demo-restaurant-001","total":15}`, string(value))

	_, err = store.Get(ctx, "tableorder:cart:restaurant-002")
	require.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, store.Delete(ctx, key))
	_, err = store.Get(ctx, key)
	require.ErrorIs(t, err, storage.ErrNotFound)
	require.NoError(t, store.Delete(ctx, key))
}

func TestMemory(t *testing.T) {
	exerciseBackend(t, storage.NewMemory())
}

func TestMemoryReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemory()
	value := []byte(`{"a":1}`)
	require.NoError(t, store.Set(ctx, "k", value))
	value[0] = 'x'

	got, err := store.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, `{"a":1}`, string(got))
	got[0] = 'y'

	again, err := store.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, `{"a":1}`, string(again))
	require.Equal(t, 1, store.Keys())
}

func TestFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "carts")
	store := storage.NewFile(dir)
	exerciseBackend(t, store)
	require.Equal(t, dir, store.Dir())
}

func TestFileEscapesKeys(t *testing.T) {
	dir := t.TempDir()
	store := storage.NewFile(dir)
	require.NoError(t, store.Set(context.Background(), "tableorder:cart:../escape", []byte(`{}`)))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "tableorder%3Acart%3A..%2Fescape.json", entries[0].Name())
}

func TestNewDefaultFileUsesEnvOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("TABLEORDER_STORAGE_DIR", dir)

	store, err := storage.NewDefaultFile()
	require.NoError(t, err)
	require.Equal(t, dir, store.Dir())
}

func TestPostgres(t *testing.T) {
	databaseURL := os.Getenv("TABLEORDER_TEST_DATABASE_URL")
	if databaseURL == "" {
		t.Skip("TABLEORDER_TEST_DATABASE_URL is not set")
	}
	store, err := storage.NewPostgres(context.Background(), databaseURL)
	require.NoError(t, err)
	t.Cleanup(store.Close)

	exerciseBackend(t, store)
}
