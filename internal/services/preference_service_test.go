package services

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eyuppastirmaci/agenda-pulse/internal/models"
	"github.com/eyuppastirmaci/agenda-pulse/internal/repositories"
	"github.com/eyuppastirmaci/agenda-pulse/internal/services/dto"
	"github.com/eyuppastirmaci/agenda-pulse/pkg/apperrors"
)

type fakePreferenceRepo struct {
	rows    map[string]*models.UserNotificationPreference
	findErr error
	saveErr error
	saves   int
}

func newFakePreferenceRepo() *fakePreferenceRepo {
	return &fakePreferenceRepo{rows: make(map[string]*models.UserNotificationPreference)}
}

func (r *fakePreferenceRepo) FindByUser(userID string) (*models.UserNotificationPreference, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	p, ok := r.rows[userID]
	if !ok {
		return nil, repositories.ErrPreferenceNotFound
	}
	copied := *p
	return &copied, nil
}

func (r *fakePreferenceRepo) Save(p *models.UserNotificationPreference) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	copied := *p
	r.rows[p.UserID] = &copied
	r.saves++
	return nil
}

func TestGetPreferencesCreatesDefaultsOnFirstRead(t *testing.T) {
	repo := newFakePreferenceRepo()
	service := NewPreferenceService(repo)
	userID := uuid.NewString()

	resp, err := service.GetPreferences(userID)
	require.NoError(t, err)

	assert.Equal(t, userID, resp.UserID)
	assert.True(t, resp.EmailEnabled)
	assert.True(t, resp.PushEnabled)
	assert.True(t, resp.TaskNotifications)
	assert.True(t, resp.CalendarNotifications)
	assert.Equal(t, 15, resp.ReminderMinutesBefore)
	assert.Equal(t, 1, repo.saves)

	// Second read hits the stored row, no extra write.
	_, err = service.GetPreferences(userID)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.saves)
}

func TestUpdatePreferencesMergesOnlyProvidedFields(t *testing.T) {
	repo := newFakePreferenceRepo()
	service := NewPreferenceService(repo)
	userID := uuid.NewString()

	stored := models.DefaultPreferences(userID)
	stored.ReminderMinutesBefore = 30
	require.NoError(t, repo.Save(stored))

	emailOff := false
	resp, err := service.UpdatePreferences(userID, &dto.UpdatePreferenceRequest{
		EmailEnabled: &emailOff,
	})
	require.NoError(t, err)

	assert.False(t, resp.EmailEnabled)
	assert.True(t, resp.PushEnabled)
	assert.True(t, resp.TaskNotifications)
	assert.Equal(t, 30, resp.ReminderMinutesBefore)
}

func TestUpdatePreferencesStartsFromDefaultsWhenMissing(t *testing.T) {
	repo := newFakePreferenceRepo()
	service := NewPreferenceService(repo)
	userID := uuid.NewString()

	lead := 5
	pushOff := false
	resp, err := service.UpdatePreferences(userID, &dto.UpdatePreferenceRequest{
		PushEnabled:           &pushOff,
		ReminderMinutesBefore: &lead,
	})
	require.NoError(t, err)

	assert.True(t, resp.EmailEnabled)
	assert.False(t, resp.PushEnabled)
	assert.Equal(t, 5, resp.ReminderMinutesBefore)
}

func TestPreferenceRepositoryErrorsWrapped(t *testing.T) {
	repo := newFakePreferenceRepo()
	repo.findErr = errors.New("connection reset")
	service := NewPreferenceService(repo)

	_, err := service.GetPreferences(uuid.NewString())
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, apperrors.As(err, &appErr))
	assert.Equal(t, apperrors.CodeDatabaseError, appErr.Code)
}
