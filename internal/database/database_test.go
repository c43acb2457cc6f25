package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/school-console/internal/models"
)

func TestOpenActivityStoreFallsBackToSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "activity.db")

	db, err := OpenActivityStore("", path)
	require.NoError(t, err)
	require.True(t, db.Migrator().HasTable(&models.ActivityLog{}))
}

func TestConnectRedisRejectsEmptyURL(t *testing.T) {
	_, err := ConnectRedis("")
	require.Error(t, err)
}

func TestConnectNATSRejectsEmptyURL(t *testing.T) {
	_, err := ConnectNATS("", "school-console")
	require.Error(t, err)
}

func TestRedisStorageRoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := ConnectRedis("redis://" + mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	storage := NewRedisStorage(client, "limiter:")

	value, err := storage.Get("missing")
	require.NoError(t, err)
	require.Nil(t, value)

	require.NoError(t, storage.Set("10.0.0.1", []byte("3"), time.Minute))
	require.True(t, mr.Exists("limiter:10.0.0.1"))

	value, err = storage.Get("10.0.0.1")
	require.NoError(t, err)
	require.Equal(t, []byte("3"), value)

	require.NoError(t, storage.Delete("10.0.0.1"))
	require.False(t, mr.Exists("limiter:10.0.0.1"))

	require.NoError(t, storage.Set("a", []byte("1"), 0))
	require.NoError(t, client.Set(context.Background(), "other", "keep", 0).Err())
	require.NoError(t, storage.Reset())
	require.False(t, mr.Exists("limiter:a"))
	require.True(t, mr.Exists("other"))

}
