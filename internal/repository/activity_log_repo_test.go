package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/noah-isme/school-console/internal/models"
)

func TestActivityLogRepositoryListFiltersAndOrders(t *testing.T) {
	db := setupTestDB(t)
	repo := NewActivityLogRepository(db)
	ctx := context.Background()

	older := models.ActivityLog{Actor: "console", Action: "class.created", EntityType: "class", EntityID: "1", Metadata: datatypes.JSONMap{}, CreatedAt: time.Now().Add(-time.Hour)}
	newer := models.ActivityLog{Actor: "registrar", Action: "student.deleted", EntityType: "student", EntityID: "9", Metadata: datatypes.JSONMap{"name": "Ada"}, CreatedAt: time.Now()}
	require.NoError(t, repo.Create(ctx, &older))
	require.NoError(t, repo.Create(ctx, &newer))

	entries, total, err := repo.List(ctx, ActivityLogFilter{PageSize: 10})
	require.NoError(t, err)
	require.Equal(t, int64(2), total)
	require.Equal(t, "student.deleted", entries[0].Action, "expected newest entry first")

	entries, total, err = repo.List(ctx, ActivityLogFilter{EntityType: "class", PageSize: 10})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Equal(t, "1", entries[0].EntityID)

	entries, total, err = repo.List(ctx, ActivityLogFilter{Actor: "registrar", Action: "student.deleted"})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Equal(t, "9", entries[0].EntityID)

	entries, _, err = repo.List(ctx, ActivityLogFilter{Page: 2, PageSize: 1})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "class.created", entries[0].Action)
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.ActivityLog{}))
	return db
}
