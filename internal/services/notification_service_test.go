package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eyuppastirmaci/agenda-pulse/internal/events"
	"github.com/eyuppastirmaci/agenda-pulse/internal/models"
	"github.com/eyuppastirmaci/agenda-pulse/internal/repositories"
	"github.com/eyuppastirmaci/agenda-pulse/internal/services/dto"
	"github.com/eyuppastirmaci/agenda-pulse/internal/workers"
	"github.com/eyuppastirmaci/agenda-pulse/pkg/apperrors"
)

// savedState is a snapshot of the row at one Save call, so tests can assert
// the per-attempt persistence order.
type savedState struct {
	Channel models.NotificationChannel
	Status  models.NotificationStatus
	SentAt  *time.Time
}

type fakeNotificationRepo struct {
	mu        sync.Mutex
	rows      map[string]*models.Notification
	createErr error
	saveErr   error
	created   []string
	saves     []savedState

	unread      []models.Notification
	unreadCount int64
	listRows    []models.Notification
	listTotal   int64
	findErr     error
	markErr     error
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{rows: make(map[string]*models.Notification)}
}

func (r *fakeNotificationRepo) Create(n *models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	n.CreatedAt = time.Now()
	copied := *n
	r.rows[n.ID] = &copied
	r.created = append(r.created, n.ID)
	return nil
}

func (r *fakeNotificationRepo) Save(n *models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	copied := *n
	r.rows[n.ID] = &copied
	r.saves = append(r.saves, savedState{Channel: n.Channel, Status: n.Status, SentAt: n.SentAt})
	return nil
}

func (r *fakeNotificationRepo) FindByID(id string) (*models.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.rows[id]
	if !ok {
		return nil, repositories.ErrNotificationNotFound
	}
	copied := *n
	return &copied, nil
}

func (r *fakeNotificationRepo) FindByUser(string, int, int) ([]models.Notification, int64, error) {
	if r.findErr != nil {
		return nil, 0, r.findErr
	}
	return r.listRows, r.listTotal, nil
}

func (r *fakeNotificationRepo) FindUnreadByUser(string) ([]models.Notification, error) {
	return r.unread, r.findErr
}

func (r *fakeNotificationRepo) CountUnreadByUser(string) (int64, error) {
	return r.unreadCount, r.findErr
}

func (r *fakeNotificationRepo) MarkAsRead(string, time.Time) error {
	return r.markErr
}

func (r *fakeNotificationRepo) MarkAllAsRead(string, time.Time) error {
	return r.markErr
}

func (r *fakeNotificationRepo) createdCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.created)
}

func (r *fakeNotificationRepo) savedStates() []savedState {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]savedState, len(r.saves))
	copy(out, r.saves)
	return out
}

type fakePreferenceService struct {
	preference *models.UserNotificationPreference
	err        error
}

func (f *fakePreferenceService) GetOrCreate(userID string) (*models.UserNotificationPreference, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.preference != nil {
		return f.preference, nil
	}
	return models.DefaultPreferences(userID), nil
}

func (f *fakePreferenceService) GetPreferences(userID string) (*dto.PreferenceResponse, error) {
	p, err := f.GetOrCreate(userID)
	if err != nil {
		return nil, err
	}
	resp := dto.FromPreference(p)
	return &resp, nil
}

func (f *fakePreferenceService) UpdatePreferences(userID string, _ *dto.UpdatePreferenceRequest) (*dto.PreferenceResponse, error) {
	return f.GetPreferences(userID)
}

type fakeSender struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (s *fakeSender) Send(*models.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.err
}

func (s *fakeSender) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type pipelineFixture struct {
	repo        *fakeNotificationRepo
	preferences *fakePreferenceService
	email       *fakeSender
	push        *fakeSender
	dispatcher  *workers.Dispatcher
	service     NotificationService
}

func newPipelineFixture() *pipelineFixture {
	f := &pipelineFixture{
		repo:        newFakeNotificationRepo(),
		preferences: &fakePreferenceService{},
		email:       &fakeSender{},
		push:        &fakeSender{},
		dispatcher:  workers.NewDispatcher(16),
	}
	f.dispatcher.Start(context.Background(), 1)
	f.service = NewNotificationService(f.repo, f.preferences, f.email, f.push, f.dispatcher)
	return f
}

// drain waits for every queued dispatch task to finish.
func (f *pipelineFixture) drain() {
	f.dispatcher.Stop()
}

func taskEvent(userID string) events.NotificationEvent {
	return events.NotificationEvent{
		UserID:  userID,
		Type:    models.NotificationTypeTaskCreated,
		Title:   "New Task Created",
		Message: "Your task 'Write report' has been created successfully.",
		Metadata: map[string]interface{}{
			"taskId": uuid.NewString(),
		},
	}
}

func TestProcessDeliversOnAllEnabledChannels(t *testing.T) {
	f := newPipelineFixture()
	userID := uuid.NewString()

	f.service.Process(context.Background(), taskEvent(userID))
	f.drain()

	assert.Equal(t, 1, f.repo.createdCount())
	assert.Equal(t, 1, f.email.callCount())
	assert.Equal(t, 1, f.push.callCount())

	saves := f.repo.savedStates()
	require.Len(t, saves, 3)

	assert.Equal(t, models.NotificationChannelEmail, saves[0].Channel)
	assert.Equal(t, models.NotificationStatusSent, saves[0].Status)
	require.NotNil(t, saves[0].SentAt)

	assert.Equal(t, models.NotificationChannelPush, saves[1].Channel)
	assert.Equal(t, models.NotificationStatusSent, saves[1].Status)

	assert.Equal(t, models.NotificationChannelInApp, saves[2].Channel)
	assert.Equal(t, models.NotificationStatusSent, saves[2].Status)
}

func TestProcessEmailFailureDoesNotBlockPush(t *testing.T) {
	f := newPipelineFixture()
	f.email.err = errors.New("smtp connection refused")

	f.service.Process(context.Background(), taskEvent(uuid.NewString()))
	f.drain()

	assert.Equal(t, 1, f.push.callCount())

	saves := f.repo.savedStates()
	require.Len(t, saves, 3)

	assert.Equal(t, models.NotificationChannelEmail, saves[0].Channel)
	assert.Equal(t, models.NotificationStatusFailed, saves[0].Status)
	assert.Nil(t, saves[0].SentAt)

	assert.Equal(t, models.NotificationChannelPush, saves[1].Channel)
	assert.Equal(t, models.NotificationStatusSent, saves[1].Status)

	assert.Equal(t, models.NotificationChannelInApp, saves[2].Channel)
}

func TestProcessEmailCategoryGate(t *testing.T) {
	f := newPipelineFixture()
	f.preferences.preference = &models.UserNotificationPreference{
		EmailEnabled:          true,
		PushEnabled:           true,
		TaskNotifications:     false,
		CalendarNotifications: true,
	}

	f.service.Process(context.Background(), taskEvent(uuid.NewString()))
	f.drain()

	// The category gate applies to email only; push is gated solely by the
	// push toggle.
	assert.Equal(t, 0, f.email.callCount())
	assert.Equal(t, 1, f.push.callCount())
}

func TestProcessAllChannelsDisabled(t *testing.T) {
	f := newPipelineFixture()
	f.preferences.preference = &models.UserNotificationPreference{
		EmailEnabled: false,
		PushEnabled:  false,
	}

	f.service.Process(context.Background(), taskEvent(uuid.NewString()))
	f.drain()

	assert.Equal(t, 0, f.email.callCount())
	assert.Equal(t, 0, f.push.callCount())

	// The record still exists in-app with no attempt recorded on it.
	saves := f.repo.savedStates()
	require.Len(t, saves, 1)
	assert.Equal(t, models.NotificationChannelInApp, saves[0].Channel)
	assert.Equal(t, models.NotificationStatusPending, saves[0].Status)
}

func TestProcessPreferenceLookupFailureFallsBackToDefaults(t *testing.T) {
	f := newPipelineFixture()
	f.preferences.err = errors.New("connection reset")

	f.service.Process(context.Background(), taskEvent(uuid.NewString()))
	f.drain()

	assert.Equal(t, 1, f.repo.createdCount())
	assert.Equal(t, 1, f.email.callCount())
	assert.Equal(t, 1, f.push.callCount())
}

func TestProcessPersistFailureSkipsDelivery(t *testing.T) {
	f := newPipelineFixture()
	f.repo.createErr = errors.New("insert failed")

	f.service.Process(context.Background(), taskEvent(uuid.NewString()))
	f.drain()

	assert.Equal(t, 0, f.email.callCount())
	assert.Equal(t, 0, f.push.callCount())
	assert.Empty(t, f.repo.savedStates())
}

func TestCreatePersistsAndReturnsInitialState(t *testing.T) {
	f := newPipelineFixture()

	resp, err := f.service.Create(context.Background(), &dto.CreateNotificationRequest{
		UserID:  uuid.NewString(),
		Type:    models.NotificationTypeTaskAssigned,
		Title:   "New Task Assignment",
		Message: "You have been assigned to task: 'Review PR'",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, models.NotificationChannelInApp, resp.Channel)
	assert.Equal(t, models.NotificationStatusPending, resp.Status)
	assert.Nil(t, resp.SentAt)

	f.drain()
	// The background pipeline persists its own record for delivery tracking.
	assert.Equal(t, 2, f.repo.createdCount())
}

func TestCreateRejectsUnknownType(t *testing.T) {
	f := newPipelineFixture()
	defer f.drain()

	_, err := f.service.Create(context.Background(), &dto.CreateNotificationRequest{
		UserID:  uuid.NewString(),
		Type:    "SOMETHING_ELSE",
		Title:   "t",
		Message: "m",
	})
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, apperrors.As(err, &appErr))
	assert.Equal(t, apperrors.CodeBadRequest, appErr.Code)
}

func TestGetNotificationByID(t *testing.T) {
	f := newPipelineFixture()
	defer f.drain()

	stored := &models.Notification{
		UserID:  uuid.NewString(),
		Type:    models.NotificationTypeTaskCreated,
		Channel: models.NotificationChannelInApp,
		Title:   "New Task Created",
		Message: "A new task 'Ship release' has been created.",
		Status:  models.NotificationStatusSent,
	}
	require.NoError(t, f.repo.Create(stored))

	resp, err := f.service.GetNotification(stored.ID)
	require.NoError(t, err)
	assert.Equal(t, stored.ID, resp.ID)
	assert.Equal(t, models.NotificationStatusSent, resp.Status)
}

func TestGetNotificationByIDNotFound(t *testing.T) {
	f := newPipelineFixture()
	defer f.drain()

	_, err := f.service.GetNotification(uuid.NewString())
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, apperrors.As(err, &appErr))
	assert.Equal(t, apperrors.CodeNotFound, appErr.Code)
}

func TestGetUserNotificationsPagination(t *testing.T) {
	f := newPipelineFixture()
	defer f.drain()
	f.repo.listRows = []models.Notification{
		{BaseModel: models.BaseModel{ID: uuid.NewString()}, UserID: uuid.NewString()},
	}
	f.repo.listTotal = 41

	resp, err := f.service.GetUserNotifications(uuid.NewString(), -1, 0)
	require.NoError(t, err)

	assert.Equal(t, 0, resp.Page)
	assert.Equal(t, DefaultPageSize, resp.PageSize)
	assert.Equal(t, int64(41), resp.Total)
	assert.Equal(t, 3, resp.TotalPages)
	assert.Len(t, resp.Notifications, 1)
}

func TestGetUnreadCount(t *testing.T) {
	f := newPipelineFixture()
	defer f.drain()
	f.repo.unreadCount = 7

	resp, err := f.service.GetUnreadCount(uuid.NewString())
	require.NoError(t, err)
	assert.Equal(t, int64(7), resp.Count)
}

func TestMarkAsReadNotFound(t *testing.T) {
	f := newPipelineFixture()
	defer f.drain()
	f.repo.markErr = repositories.ErrNotificationNotFound

	err := f.service.MarkAsRead(uuid.NewString())
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, apperrors.As(err, &appErr))
	assert.Equal(t, apperrors.CodeNotFound, appErr.Code)
}
