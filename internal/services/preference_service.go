package services

import (
	"errors"

	"github.com/eyuppastirmaci/agenda-pulse/internal/models"
	"github.com/eyuppastirmaci/agenda-pulse/internal/repositories"
	"github.com/eyuppastirmaci/agenda-pulse/internal/services/dto"
	"github.com/eyuppastirmaci/agenda-pulse/pkg/apperrors"
)

type PreferenceService interface {
	// GetOrCreate resolves a user's preference row, creating the default row
	// on first read.
	GetOrCreate(userID string) (*models.UserNotificationPreference, error)
	GetPreferences(userID string) (*dto.PreferenceResponse, error)
	UpdatePreferences(userID string, req *dto.UpdatePreferenceRequest) (*dto.PreferenceResponse, error)
}

type preferenceService struct {
	preferenceRepo repositories.PreferenceRepository
}

func NewPreferenceService(preferenceRepo repositories.PreferenceRepository) PreferenceService {
	return &preferenceService{preferenceRepo: preferenceRepo}
}

// GetOrCreate reads without a transaction spanning the create: two
// concurrent first-time reads for a new user both write the same default
// row and the upsert makes that last-write-wins.
func (s *preferenceService) GetOrCreate(userID string) (*models.UserNotificationPreference, error) {
	preference, err := s.preferenceRepo.FindByUser(userID)
	if err == nil {
		return preference, nil
	}
	if !errors.Is(err, repositories.ErrPreferenceNotFound) {
		return nil, err
	}

	preference = models.DefaultPreferences(userID)
	if err := s.preferenceRepo.Save(preference); err != nil {
		return nil, err
	}
	return preference, nil
}

func (s *preferenceService) GetPreferences(userID string) (*dto.PreferenceResponse, error) {
	preference, err := s.GetOrCreate(userID)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}

	resp := dto.FromPreference(preference)
	return &resp, nil
}

// UpdatePreferences merges only the provided fields into the stored row,
// starting from defaults when the user has no row yet.
func (s *preferenceService) UpdatePreferences(userID string, req *dto.UpdatePreferenceRequest) (*dto.PreferenceResponse, error) {
	preference, err := s.preferenceRepo.FindByUser(userID)
	if err != nil {
		if !errors.Is(err, repositories.ErrPreferenceNotFound) {
			return nil, apperrors.DatabaseError(err)
		}
		preference = models.DefaultPreferences(userID)
	}

	if req.EmailEnabled != nil {
		preference.EmailEnabled = *req.EmailEnabled
	}
	if req.PushEnabled != nil {
		preference.PushEnabled = *req.PushEnabled
	}
	if req.TaskNotifications != nil {
		preference.TaskNotifications = *req.TaskNotifications
	}
	if req.CalendarNotifications != nil {
		preference.CalendarNotifications = *req.CalendarNotifications
	}
	if req.ReminderMinutesBefore != nil {
		preference.ReminderMinutesBefore = *req.ReminderMinutesBefore
	}

	if err := s.preferenceRepo.Save(preference); err != nil {
		return nil, apperrors.DatabaseError(err)
	}

	resp := dto.FromPreference(preference)
	return &resp, nil
}
