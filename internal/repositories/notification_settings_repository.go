package repositories

import (
	"errors"

	"github.com/glesende/iagram-sub000/internal/models"
	"gorm.io/gorm"
)

// NotificationSettingsRepository defines the interface for per-user delivery toggles
type NotificationSettingsRepository interface {
	GetOrCreate(userID uint) (*models.NotificationSettings, error)
	Update(settings *models.NotificationSettings) error
}

// PostgresNotificationSettingsRepository implements NotificationSettingsRepository for PostgreSQL
type PostgresNotificationSettingsRepository struct {
	db *gorm.DB
}

// NewPostgresNotificationSettingsRepository creates a new PostgresNotificationSettingsRepository
func NewPostgresNotificationSettingsRepository(db *gorm.DB) *PostgresNotificationSettingsRepository {
	return &PostgresNotificationSettingsRepository{db: db}
}

// GetOrCreate returns the settings row for a user, creating the all-enabled
// defaults on first access. A duplicate-key race means another request won
// the insert, so the row is fetched again instead of failing.
func (r *PostgresNotificationSettingsRepository) GetOrCreate(userID uint) (*models.NotificationSettings, error) {
	var settings models.NotificationSettings
	err := r.db.Where("user_id = ?", userID).First(&settings).Error
	if err == nil {
		return &settings, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	defaults := models.DefaultNotificationSettings(userID)
	if err := r.db.Create(defaults).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			if err := r.db.Where("user_id = ?", userID).First(&settings).Error; err != nil {
				return nil, err
			}
			return &settings, nil
		}
		return nil, err
	}
	return defaults, nil
}

// Update persists modified toggles
func (r *PostgresNotificationSettingsRepository) Update(settings *models.NotificationSettings) error {
	return r.db.Save(settings).Error
}
