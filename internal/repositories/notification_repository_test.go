package repositories

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/eyuppastirmaci/agenda-pulse/internal/models"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	// One connection, or the pool hands out fresh empty in-memory databases.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.Notification{}, &models.UserNotificationPreference{}))
	return db
}

func seedNotification(t *testing.T, repo NotificationRepository, userID string) *models.Notification {
	t.Helper()

	notification := &models.Notification{
		UserID:  userID,
		Type:    models.NotificationTypeTaskCreated,
		Channel: models.NotificationChannelInApp,
		Title:   "New Task Created",
		Message: "A new task 'Ship release' has been created.",
		Status:  models.NotificationStatusPending,
	}
	require.NoError(t, repo.Create(notification))
	return notification
}

func TestMarkAllAsReadThenListUnread(t *testing.T) {
	t.Parallel()

	repo := NewNotificationRepository(openTestDB(t))
	userID := uuid.NewString()
	otherID := uuid.NewString()

	seedNotification(t, repo, userID)
	seedNotification(t, repo, userID)
	otherRow := seedNotification(t, repo, otherID)

	// A row read an hour ago must keep its original read timestamp.
	firstReadAt := time.Now().Add(-time.Hour).UTC().Truncate(time.Second)
	alreadyRead := seedNotification(t, repo, userID)
	require.NoError(t, repo.MarkAsRead(alreadyRead.ID, firstReadAt))

	require.NoError(t, repo.MarkAllAsRead(userID, time.Now()))

	unread, err := repo.FindUnreadByUser(userID)
	require.NoError(t, err)
	assert.Empty(t, unread)

	count, err := repo.CountUnreadByUser(userID)
	require.NoError(t, err)
	assert.Zero(t, count)

	got, err := repo.FindByID(alreadyRead.ID)
	require.NoError(t, err)
	require.NotNil(t, got.ReadAt)
	assert.WithinDuration(t, firstReadAt, *got.ReadAt, time.Second)

	// The bulk update is scoped to one user.
	otherUnread, err := repo.FindUnreadByUser(otherID)
	require.NoError(t, err)
	require.Len(t, otherUnread, 1)
	assert.Equal(t, otherRow.ID, otherUnread[0].ID)
}

func TestMarkAsReadSetsStatusAndTimestamp(t *testing.T) {
	t.Parallel()

	repo := NewNotificationRepository(openTestDB(t))
	notification := seedNotification(t, repo, uuid.NewString())

	readAt := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, repo.MarkAsRead(notification.ID, readAt))

	got, err := repo.FindByID(notification.ID)
	require.NoError(t, err)
	assert.Equal(t, models.NotificationStatusRead, got.Status)
	require.NotNil(t, got.ReadAt)
	assert.WithinDuration(t, readAt, *got.ReadAt, time.Second)
}

func TestMarkAsReadUnknownID(t *testing.T) {
	t.Parallel()

	repo := NewNotificationRepository(openTestDB(t))

	err := repo.MarkAsRead(uuid.NewString(), time.Now())
	assert.ErrorIs(t, err, ErrNotificationNotFound)
}

func TestFindUnreadIgnoresDeliveryStatus(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	repo := NewNotificationRepository(db)
	userID := uuid.NewString()

	// A failed delivery is still unread until the user reads it.
	failed := seedNotification(t, repo, userID)
	failed.Status = models.NotificationStatusFailed
	require.NoError(t, repo.Save(failed))

	unread, err := repo.FindUnreadByUser(userID)
	require.NoError(t, err)
	require.Len(t, unread, 1)
	assert.Equal(t, failed.ID, unread[0].ID)
}

func TestPreferenceSaveUpsertsOnUserID(t *testing.T) {
	t.Parallel()

	repo := NewPreferenceRepository(openTestDB(t))
	userID := uuid.NewString()

	first := models.DefaultPreferences(userID)
	require.NoError(t, repo.Save(first))

	second := models.DefaultPreferences(userID)
	second.EmailEnabled = false
	second.ReminderMinutesBefore = 30
	require.NoError(t, repo.Save(second))

	got, err := repo.FindByUser(userID)
	require.NoError(t, err)
	assert.False(t, got.EmailEnabled)
	assert.Equal(t, 30, got.ReminderMinutesBefore)
}

func TestPreferenceFindByUserMissing(t *testing.T) {
	t.Parallel()

	repo := NewPreferenceRepository(openTestDB(t))

	_, err := repo.FindByUser(uuid.NewString())
	assert.ErrorIs(t, err, ErrPreferenceNotFound)
}
