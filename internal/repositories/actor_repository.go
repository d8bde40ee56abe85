package repositories

import (
	"github.com/glesende/iagram-sub000/internal/models"
	"gorm.io/gorm"
)

// ActorRepository defines the interface for actor directory operations.
// The pipeline only reads actors; rows are created by the seed process.
type ActorRepository interface {
	ListActive() ([]models.Actor, error)
	GetActorByID(id uint) (*models.Actor, error)
	GetByHandles(handles []string) ([]models.Actor, error)
	GetByUserID(userID uint) (*models.Actor, error)
	IncrementFollowersCount(actorID uint, delta int) error
}

// PostgresActorRepository implements ActorRepository for PostgreSQL
type PostgresActorRepository struct {
	db *gorm.DB
}

// NewPostgresActorRepository creates a new PostgresActorRepository
func NewPostgresActorRepository(db *gorm.DB) *PostgresActorRepository {
	return &PostgresActorRepository{db: db}
}

// ListActive retrieves all active actors ordered by ID
func (r *PostgresActorRepository) ListActive() ([]models.Actor, error) {
	var actors []models.Actor
	if err := r.db.Where("is_active = ?", true).Order("id").Find(&actors).Error; err != nil {
		return nil, err
	}
	return actors, nil
}

// GetActorByID retrieves an actor by ID. Returns gorm.ErrRecordNotFound when absent.
func (r *PostgresActorRepository) GetActorByID(id uint) (*models.Actor, error) {
	var actor models.Actor
	if err := r.db.First(&actor, id).Error; err != nil {
		return nil, err
	}
	return &actor, nil
}

// GetByHandles retrieves the actors whose handles appear in the given list
func (r *PostgresActorRepository) GetByHandles(handles []string) ([]models.Actor, error) {
	if len(handles) == 0 {
		return nil, nil
	}
	var actors []models.Actor
	if err := r.db.Where("handle IN ?", handles).Find(&actors).Error; err != nil {
		return nil, err
	}
	return actors, nil
}

// GetByUserID retrieves the actor linked to the given user, if any
func (r *PostgresActorRepository) GetByUserID(userID uint) (*models.Actor, error) {
	var actor models.Actor
	if err := r.db.Where("user_id = ?", userID).First(&actor).Error; err != nil {
		return nil, err
	}
	return &actor, nil
}

// IncrementFollowersCount atomically adjusts an actor's follower counter
func (r *PostgresActorRepository) IncrementFollowersCount(actorID uint, delta int) error {
	return r.db.Model(&models.Actor{}).Where("id = ?", actorID).
		UpdateColumn("followers_count", gorm.Expr("followers_count + ?", delta)).Error
}
