package repositories

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/eyuppastirmaci/agenda-pulse/internal/models"
)

var ErrNotificationNotFound = errors.New("notification not found")

type NotificationRepository interface {
	Create(notification *models.Notification) error
	Save(notification *models.Notification) error
	FindByID(id string) (*models.Notification, error)
	FindByUser(userID string, page, pageSize int) ([]models.Notification, int64, error)
	FindUnreadByUser(userID string) ([]models.Notification, error)
	CountUnreadByUser(userID string) (int64, error)
	MarkAsRead(notificationID string, readAt time.Time) error
	MarkAllAsRead(userID string, readAt time.Time) error
}

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(notification *models.Notification) error {
	return r.db.Create(notification).Error
}

// Save persists channel/status mutations made during dispatch.
func (r *notificationRepository) Save(notification *models.Notification) error {
	return r.db.Save(notification).Error
}

func (r *notificationRepository) FindByID(id string) (*models.Notification, error) {
	var notification models.Notification
	err := r.db.First(&notification, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotificationNotFound
		}
		return nil, err
	}
	return &notification, nil
}

func (r *notificationRepository) FindByUser(userID string, page, pageSize int) ([]models.Notification, int64, error) {
	query := r.db.Model(&models.Notification{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var notifications []models.Notification
	err := query.Order("created_at DESC").
		Limit(pageSize).Offset(page * pageSize).
		Find(&notifications).Error

	return notifications, total, err
}

// FindUnreadByUser returns rows never marked read, regardless of delivery
// status.
func (r *notificationRepository) FindUnreadByUser(userID string) ([]models.Notification, error) {
	var notifications []models.Notification
	err := r.db.Where("user_id = ? AND read_at IS NULL", userID).
		Order("created_at DESC").
		Find(&notifications).Error
	return notifications, err
}

func (r *notificationRepository) CountUnreadByUser(userID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Notification{}).
		Where("user_id = ? AND read_at IS NULL", userID).
		Count(&count).Error
	return count, err
}

func (r *notificationRepository) MarkAsRead(notificationID string, readAt time.Time) error {
	result := r.db.Model(&models.Notification{}).
		Where("id = ?", notificationID).
		Updates(map[string]interface{}{
			"status":  models.NotificationStatusRead,
			"read_at": readAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

// MarkAllAsRead touches only rows with read_at still null, so rows already
// read keep their original read timestamp.
func (r *notificationRepository) MarkAllAsRead(userID string, readAt time.Time) error {
	return r.db.Model(&models.Notification{}).
		Where("user_id = ? AND read_at IS NULL", userID).
		Updates(map[string]interface{}{
			"status":  models.NotificationStatusRead,
			"read_at": readAt,
		}).Error
}
