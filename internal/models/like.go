package models

import "gorm.io/gorm"

// Like represents a like on a post
type Like struct {
	gorm.Model
	PostID  string `json:"post_id" gorm:"index;uniqueIndex:idx_like_post_actor"` // Mongo ObjectID of the liked post, as hex string
	ActorID uint   `json:"actor_id" gorm:"index;uniqueIndex:idx_like_post_actor"`
}
