package repository

import (
	"context"
	"testing"
	"time"

	"smart-schedule/core/database"
	"smart-schedule/modules/notification/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepo(t *testing.T) *NotificationRepository {
	t.Helper()
	db, err := database.InitDB(context.Background(), database.DatabaseConfig{Driver: database.DriverSQLite, Path: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewNotificationRepository(&db)
}

func seed(t *testing.T, r *NotificationRepository, id, user string, at time.Time) {
	t.Helper()
	require.NoError(t, r.Create(context.Background(), &entity.Notification{
		ID:        id,
		UserID:    user,
		Title:     "Scheduling conflict",
		Message:   "1 conflict(s) found",
		Type:      "schedule_conflict",
		Data:      entity.JSONB{"meeting_id": "m" + id},
		CreatedAt: at,
		UpdatedAt: at,
	}))
}

func TestNotificationRepository_Pagination(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()
	base := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)
	seed(t, r, "n1", "u1", base)
	seed(t, r, "n2", "u1", base.Add(time.Hour))
	seed(t, r, "n3", "u1", base.Add(2*time.Hour))
	seed(t, r, "n4", "u2", base)

	page, err := r.GetByUserID(ctx, "u1", 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, page.TotalItems)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "n3", page.Items[0].ID)
	assert.Equal(t, "n2", page.Items[1].ID)
	assert.Equal(t, "mn3", page.Items[0].Data["meeting_id"])

	page, err = r.GetByUserID(ctx, "u1", 2, 2)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "n1", page.Items[0].ID)

	page, err = r.GetByUserID(ctx, "nobody", 1, 10)
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.NotNil(t, page.Items)
}

func TestNotificationRepository_ReadState(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()
	base := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)
	seed(t, r, "n1", "u1", base)
	seed(t, r, "n2", "u1", base)
	seed(t, r, "n3", "u2", base)

	count, err := r.CountUnread(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	require.NoError(t, r.MarkAsRead(ctx, "u1", []string{"n1", "n3"}))
	count, err = r.CountUnread(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// n3 belongs to u2 and must be untouched.
	count, err = r.CountUnread(ctx, "u2")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	require.NoError(t, r.MarkAsRead(ctx, "u1", nil))
	require.NoError(t, r.MarkAllAsRead(ctx, "u1"))
	count, err = r.CountUnread(ctx, "u1")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestNotificationRepository_CreateIsIdempotent(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()
	at := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)
	seed(t, r, "n1", "u1", at)
	seed(t, r, "n1", "u1", at.Add(time.Minute))

	page, err := r.GetByUserID(ctx, "u1", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, page.TotalItems)
	require.Len(t, page.Items, 1)
	assert.True(t, page.Items[0].CreatedAt.Equal(at))
}
