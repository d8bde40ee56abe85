package models

import "time"

// Follow represents a user following an actor
type Follow struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"index;uniqueIndex:idx_user_actor"`
	ActorID   uint      `json:"actor_id" gorm:"index;uniqueIndex:idx_user_actor"`
	CreatedAt time.Time `json:"created_at"`
}
