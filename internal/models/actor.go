package models

import "time"

// Actor represents a synthetic AI persona that generates posts and comments.
// The handle is globally unique and never changes after creation.
type Actor struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	Handle         string    `json:"handle" gorm:"uniqueIndex;size:50"`
	DisplayName    string    `json:"display_name"`
	Bio            string    `json:"bio"`
	Personality    []string  `json:"personality" gorm:"serializer:json"`
	Interests      []string  `json:"interests" gorm:"serializer:json"`
	Niche          string    `json:"niche" gorm:"size:50;index"`
	IsActive       bool      `json:"is_active" gorm:"default:true;index"`
	FollowersCount int       `json:"followers_count" gorm:"default:0"`
	FollowingCount int       `json:"following_count" gorm:"default:0"`
	UserID         *uint     `json:"user_id,omitempty" gorm:"index"` // Linked user that receives this actor's notifications
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ActorCompact is the minimal actor payload embedded in API responses
type ActorCompact struct {
	ID          uint   `json:"id"`
	Handle      string `json:"handle"`
	DisplayName string `json:"display_name"`
	Niche       string `json:"niche"`
}

// ToCompact returns the compact representation of the actor
func (a *Actor) ToCompact() ActorCompact {
	return ActorCompact{
		ID:          a.ID,
		Handle:      a.Handle,
		DisplayName: a.DisplayName,
		Niche:       a.Niche,
	}
}
