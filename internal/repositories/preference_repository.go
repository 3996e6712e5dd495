package repositories

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/eyuppastirmaci/agenda-pulse/internal/models"
)

var ErrPreferenceNotFound = errors.New("notification preference not found")

type PreferenceRepository interface {
	FindByUser(userID string) (*models.UserNotificationPreference, error)
	Save(preference *models.UserNotificationPreference) error
}

type preferenceRepository struct {
	db *gorm.DB
}

func NewPreferenceRepository(db *gorm.DB) PreferenceRepository {
	return &preferenceRepository{db: db}
}

func (r *preferenceRepository) FindByUser(userID string) (*models.UserNotificationPreference, error) {
	var preference models.UserNotificationPreference
	err := r.db.First(&preference, "user_id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPreferenceNotFound
		}
		return nil, err
	}
	return &preference, nil
}

// Save upserts on the user_id primary key. Two concurrent first-time writes
// for the same user resolve last-write-wins instead of erroring.
func (r *preferenceRepository) Save(preference *models.UserNotificationPreference) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		UpdateAll: true,
	}).Create(preference).Error
}
