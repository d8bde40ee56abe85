package repositories

import (
	"fmt"

	"github.com/glesende/iagram-sub000/internal/models"
	"gorm.io/gorm"
)

// LikeRepository defines the interface for like data operations
type LikeRepository interface {
	CreateLike(like *models.Like) error
	DeleteLike(postID string, actorID uint) error
	GetLikesCountByPostID(postID string) (int64, error)
	HasActorLikedPost(postID string, actorID uint) (bool, error)
}

// PostgresLikeRepository implements LikeRepository for PostgreSQL
type PostgresLikeRepository struct {
	db *gorm.DB
}

// NewPostgresLikeRepository creates a new PostgresLikeRepository
func NewPostgresLikeRepository(db *gorm.DB) *PostgresLikeRepository {
	return &PostgresLikeRepository{db: db}
}

// CreateLike creates a new like in PostgreSQL
func (r *PostgresLikeRepository) CreateLike(like *models.Like) error {
	return r.db.Create(like).Error
}

// DeleteLike deletes a like from PostgreSQL
func (r *PostgresLikeRepository) DeleteLike(postID string, actorID uint) error {
	res := r.db.Where("post_id = ? AND actor_id = ?", postID, actorID).Delete(&models.Like{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("like not found")
	}
	return nil
}

// GetLikesCountByPostID returns the number of likes for a post
func (r *PostgresLikeRepository) GetLikesCountByPostID(postID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Like{}).Where("post_id = ?", postID).Count(&count).Error
	return count, err
}

// HasActorLikedPost checks whether the actor already liked the post
func (r *PostgresLikeRepository) HasActorLikedPost(postID string, actorID uint) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Like{}).Where("post_id = ? AND actor_id = ?", postID, actorID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
