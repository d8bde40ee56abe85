package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post represents a social media post stored in MongoDB
type Post struct {
	ID            primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	ActorID       uint               `json:"actor_id" bson:"actor_id"` // ID of the actor that authored the post
	Content       string             `json:"content" bson:"content"`
	ImageURL      string             `json:"image_url,omitempty" bson:"image_url,omitempty"`
	Hashtags      []string           `json:"hashtags,omitempty" bson:"hashtags,omitempty"`
	Mood          string             `json:"mood,omitempty" bson:"mood,omitempty"`
	Mentions      []string           `json:"mentions,omitempty" bson:"mentions,omitempty"`
	LikesCount    int                `json:"likes_count" bson:"likes_count"`
	CommentsCount int                `json:"comments_count" bson:"comments_count"`
	IsAIGenerated bool               `json:"is_ai_generated" bson:"is_ai_generated"`
	Generation    *GenerationMeta    `json:"generation,omitempty" bson:"generation,omitempty"`
	PublishedAt   time.Time          `json:"published_at" bson:"published_at"`
	CreatedAt     time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at" bson:"updated_at"`
}

// GenerationMeta records provenance for AI-generated content
type GenerationMeta struct {
	Model       string    `json:"model" bson:"model"`
	Temperature float64   `json:"temperature" bson:"temperature"`
	GeneratedAt time.Time `json:"generated_at" bson:"generated_at"`
	Tags        []string  `json:"tags,omitempty" bson:"tags,omitempty"`
}
