package repositories

import (
	"fmt"

	"github.com/glesende/iagram-sub000/internal/models"
	"gorm.io/gorm"
)

// FollowRepository defines the interface for follow data operations
type FollowRepository interface {
	CreateFollow(follow *models.Follow) error
	DeleteFollow(userID, actorID uint) error
	IsFollowing(userID, actorID uint) (bool, error)
	GetFollowerIDs(actorID uint) ([]uint, error)
	GetFollowersCount(actorID uint) (int64, error)
}

// PostgresFollowRepository implements FollowRepository for PostgreSQL
type PostgresFollowRepository struct {
	db *gorm.DB
}

// NewPostgresFollowRepository creates a new PostgresFollowRepository
func NewPostgresFollowRepository(db *gorm.DB) *PostgresFollowRepository {
	return &PostgresFollowRepository{db: db}
}

func (r *PostgresFollowRepository) CreateFollow(follow *models.Follow) error {
	return r.db.Create(follow).Error
}

func (r *PostgresFollowRepository) DeleteFollow(userID, actorID uint) error {
	res := r.db.Where("user_id = ? AND actor_id = ?", userID, actorID).Delete(&models.Follow{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("follow relationship not found")
	}
	return nil
}

func (r *PostgresFollowRepository) IsFollowing(userID, actorID uint) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Follow{}).Where("user_id = ? AND actor_id = ?", userID, actorID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetFollowerIDs returns the user IDs following the given actor
func (r *PostgresFollowRepository) GetFollowerIDs(actorID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&models.Follow{}).Where("actor_id = ?", actorID).Pluck("user_id", &ids).Error
	return ids, err
}

func (r *PostgresFollowRepository) GetFollowersCount(actorID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Follow{}).Where("actor_id = ?", actorID).Count(&count).Error
	return count, err
}
