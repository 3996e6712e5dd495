package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/datatypes"

	"github.com/eyuppastirmaci/agenda-pulse/internal/events"
	"github.com/eyuppastirmaci/agenda-pulse/internal/logger"
	"github.com/eyuppastirmaci/agenda-pulse/internal/models"
	"github.com/eyuppastirmaci/agenda-pulse/internal/repositories"
	"github.com/eyuppastirmaci/agenda-pulse/internal/services/dto"
	"github.com/eyuppastirmaci/agenda-pulse/internal/workers"
	"github.com/eyuppastirmaci/agenda-pulse/pkg/apperrors"
)

// DefaultPageSize is used when a list request does not specify one.
const DefaultPageSize = 20

// ChannelSender delivers an already-persisted notification over one external
// channel. A non-nil error marks the attempt failed; it never aborts the
// pipeline.
type ChannelSender interface {
	Send(notification *models.Notification) error
}

type NotificationService interface {
	// Process runs the delivery pipeline for one normalized event: resolve
	// preferences, persist the record, then fan out asynchronously. It never
	// returns an error; everything past validation is logged and contained.
	Process(ctx context.Context, event events.NotificationEvent)
	Create(ctx context.Context, req *dto.CreateNotificationRequest) (*dto.NotificationResponse, error)
	GetNotification(notificationID string) (*dto.NotificationResponse, error)
	GetUserNotifications(userID string, page, pageSize int) (*dto.NotificationListResponse, error)
	GetUnread(userID string) ([]dto.NotificationResponse, error)
	GetUnreadCount(userID string) (*dto.UnreadCountResponse, error)
	MarkAsRead(notificationID string) error
	MarkAllAsRead(userID string) error
}

type notificationService struct {
	notificationRepo repositories.NotificationRepository
	preferences      PreferenceService
	emailSender      ChannelSender
	pushSender       ChannelSender
	dispatcher       *workers.Dispatcher
}

func NewNotificationService(
	notificationRepo repositories.NotificationRepository,
	preferences PreferenceService,
	emailSender ChannelSender,
	pushSender ChannelSender,
	dispatcher *workers.Dispatcher,
) NotificationService {
	return &notificationService{
		notificationRepo: notificationRepo,
		preferences:      preferences,
		emailSender:      emailSender,
		pushSender:       pushSender,
		dispatcher:       dispatcher,
	}
}

func (s *notificationService) Process(ctx context.Context, event events.NotificationEvent) {
	preference, err := s.preferences.GetOrCreate(event.UserID)
	if err != nil {
		// Deliver on defaults rather than dropping the notification.
		logger.Error("failed to resolve preferences, using defaults",
			"userId", event.UserID, "error", err)
		preference = models.DefaultPreferences(event.UserID)
	}

	notification := &models.Notification{
		UserID:   event.UserID,
		Type:     event.Type,
		Channel:  models.NotificationChannelInApp,
		Title:    event.Title,
		Message:  event.Message,
		Metadata: marshalMetadata(event.Metadata),
		Status:   models.NotificationStatusPending,
	}

	if err := s.notificationRepo.Create(notification); err != nil {
		logger.Error("failed to persist notification",
			"userId", event.UserID, "type", event.Type, "error", err)
		return
	}

	logger.Info("notification persisted",
		"notificationId", notification.ID, "userId", notification.UserID, "type", notification.Type)

	s.dispatcher.Submit(ctx, func(context.Context) {
		s.dispatch(notification, preference)
	})
}

// dispatch attempts each enabled external channel in turn. Attempts are
// isolated: an email failure is recorded on the row and push still runs.
// Afterwards the row is finalized back to IN_APP so it always reads as an
// in-app notification regardless of delivery history.
func (s *notificationService) dispatch(notification *models.Notification, preference *models.UserNotificationPreference) {
	if preference.EmailEnabled && preference.AllowsCategory(notification.Type) {
		s.applyOutcome(notification, s.attempt(notification, models.NotificationChannelEmail, s.emailSender))
	}

	if preference.PushEnabled {
		s.applyOutcome(notification, s.attempt(notification, models.NotificationChannelPush, s.pushSender))
	}

	notification.Channel = models.NotificationChannelInApp
	if err := s.notificationRepo.Save(notification); err != nil {
		logger.Error("failed to finalize notification",
			"notificationId", notification.ID, "error", err)
	}
}

// deliveryOutcome is the result of one channel attempt.
type deliveryOutcome struct {
	channel models.NotificationChannel
	sentAt  time.Time
	err     error
}

func (s *notificationService) attempt(notification *models.Notification, channel models.NotificationChannel, sender ChannelSender) deliveryOutcome {
	if sender == nil {
		return deliveryOutcome{channel: channel, err: errors.New("channel sender not configured")}
	}

	if err := sender.Send(notification); err != nil {
		return deliveryOutcome{channel: channel, err: err}
	}
	return deliveryOutcome{channel: channel, sentAt: time.Now()}
}

// applyOutcome records one attempt on the row and persists it, so a crash
// between attempts leaves the latest outcome visible.
func (s *notificationService) applyOutcome(notification *models.Notification, outcome deliveryOutcome) {
	notification.Channel = outcome.channel
	if outcome.err != nil {
		notification.Status = models.NotificationStatusFailed
		logger.Error("channel delivery failed",
			"notificationId", notification.ID, "channel", outcome.channel, "error", outcome.err)
	} else {
		notification.Status = models.NotificationStatusSent
		sentAt := outcome.sentAt
		notification.SentAt = &sentAt
		logger.Info("channel delivery succeeded",
			"notificationId", notification.ID, "channel", outcome.channel)
	}

	if err := s.notificationRepo.Save(notification); err != nil {
		logger.Error("failed to record delivery outcome",
			"notificationId", notification.ID, "channel", outcome.channel, "error", err)
	}
}

// Create persists the notification immediately and triggers the delivery
// pipeline in the background. The response reflects the synchronous save;
// delivery state shows up on subsequent reads.
func (s *notificationService) Create(ctx context.Context, req *dto.CreateNotificationRequest) (*dto.NotificationResponse, error) {
	if req.UserID == "" || req.Title == "" || req.Message == "" {
		return nil, apperrors.ValidationError("userId, title and message are required")
	}
	if !req.Type.IsValid() {
		return nil, apperrors.NewBadRequestError("unknown notification type: " + string(req.Type))
	}

	notification := &models.Notification{
		UserID:   req.UserID,
		Type:     req.Type,
		Channel:  models.NotificationChannelInApp,
		Title:    req.Title,
		Message:  req.Message,
		Metadata: marshalMetadata(req.Metadata),
		Status:   models.NotificationStatusPending,
	}

	if err := s.notificationRepo.Create(notification); err != nil {
		return nil, apperrors.DatabaseError(err)
	}

	event := events.NotificationEvent{
		UserID:   req.UserID,
		Type:     req.Type,
		Title:    req.Title,
		Message:  req.Message,
		Metadata: req.Metadata,
	}
	s.dispatcher.Submit(ctx, func(taskCtx context.Context) {
		s.Process(taskCtx, event)
	})

	resp := dto.FromNotification(notification)
	return &resp, nil
}

func (s *notificationService) GetNotification(notificationID string) (*dto.NotificationResponse, error) {
	notification, err := s.notificationRepo.FindByID(notificationID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotificationNotFound) {
			return nil, apperrors.NewNotFoundError("notification not found")
		}
		return nil, apperrors.DatabaseError(err)
	}

	resp := dto.FromNotification(notification)
	return &resp, nil
}

func (s *notificationService) GetUserNotifications(userID string, page, pageSize int) (*dto.NotificationListResponse, error) {
	if page < 0 {
		page = 0
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	notifications, total, err := s.notificationRepo.FindByUser(userID, page, pageSize)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}

	totalPages := int(total) / pageSize
	if int(total)%pageSize != 0 {
		totalPages++
	}

	return &dto.NotificationListResponse{
		Notifications: toResponses(notifications),
		Total:         total,
		Page:          page,
		PageSize:      pageSize,
		TotalPages:    totalPages,
	}, nil
}

func (s *notificationService) GetUnread(userID string) ([]dto.NotificationResponse, error) {
	notifications, err := s.notificationRepo.FindUnreadByUser(userID)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	return toResponses(notifications), nil
}

func (s *notificationService) GetUnreadCount(userID string) (*dto.UnreadCountResponse, error) {
	count, err := s.notificationRepo.CountUnreadByUser(userID)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	return &dto.UnreadCountResponse{Count: count}, nil
}

func (s *notificationService) MarkAsRead(notificationID string) error {
	err := s.notificationRepo.MarkAsRead(notificationID, time.Now())
	if err != nil {
		if errors.Is(err, repositories.ErrNotificationNotFound) {
			return apperrors.NewNotFoundError("notification not found")
		}
		return apperrors.DatabaseError(err)
	}
	return nil
}

func (s *notificationService) MarkAllAsRead(userID string) error {
	if err := s.notificationRepo.MarkAllAsRead(userID, time.Now()); err != nil {
		return apperrors.DatabaseError(err)
	}
	return nil
}

func toResponses(notifications []models.Notification) []dto.NotificationResponse {
	responses := make([]dto.NotificationResponse, 0, len(notifications))
	for i := range notifications {
		responses = append(responses, dto.FromNotification(&notifications[i]))
	}
	return responses
}

func marshalMetadata(metadata map[string]interface{}) datatypes.JSON {
	if len(metadata) == 0 {
		return nil
	}
	raw, err := json.Marshal(metadata)
	if err != nil {
		logger.Warn("failed to marshal notification metadata", "error", err)
		return nil
	}
	return datatypes.JSON(raw)
}
