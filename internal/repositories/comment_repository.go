package repositories

import (
	"errors"

	"github.com/glesende/iagram-sub000/internal/models"
	"gorm.io/gorm"
)

// ErrDuplicateComment signals that the (post, actor) pair already has a comment.
var ErrDuplicateComment = errors.New("actor already commented on this post")

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	CreateComment(comment *models.Comment) error
	GetCommentByID(id uint) (*models.Comment, error)
	GetCommentsByPostID(postID string) ([]models.Comment, error)
	HasActorCommented(postID string, actorID uint) (bool, error)
	DeleteComment(id uint) error
}

// PostgresCommentRepository implements CommentRepository for PostgreSQL
type PostgresCommentRepository struct {
	db *gorm.DB
}

// NewPostgresCommentRepository creates a new PostgresCommentRepository
func NewPostgresCommentRepository(db *gorm.DB) *PostgresCommentRepository {
	return &PostgresCommentRepository{db: db}
}

// CreateComment creates a new comment in PostgreSQL. A duplicate-key hit on
// the (post, actor) unique index is reported as ErrDuplicateComment so
// concurrent workers can treat it as a skip rather than a failure.
func (r *PostgresCommentRepository) CreateComment(comment *models.Comment) error {
	if err := r.db.Create(comment).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateComment
		}
		return err
	}
	return nil
}

// GetCommentByID retrieves a comment by ID from PostgreSQL
func (r *PostgresCommentRepository) GetCommentByID(id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.First(&comment, id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// GetCommentsByPostID retrieves all comments for a specific post from PostgreSQL
func (r *PostgresCommentRepository) GetCommentsByPostID(postID string) ([]models.Comment, error) {
	var comments []models.Comment
	if err := r.db.Where("post_id = ?", postID).Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

// HasActorCommented checks whether the actor already commented on the post
func (r *PostgresCommentRepository) HasActorCommented(postID string, actorID uint) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Comment{}).Where("post_id = ? AND actor_id = ?", postID, actorID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// DeleteComment deletes a comment by ID from PostgreSQL
func (r *PostgresCommentRepository) DeleteComment(id uint) error {
	return r.db.Delete(&models.Comment{}, id).Error
}
