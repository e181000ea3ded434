package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ImageMetadata describes the stored rendition of a generated image.
type ImageMetadata struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Format string `json:"format"`
	Model  string `json:"model"`
}

// GeneratedImage is an AI-generated image owned by exactly one user. A record
// exists only if both generation and blob upload succeeded; deleting it also
// releases the external blob (best effort).
type GeneratedImage struct {
	ID         uuid.UUID                         `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID     uuid.UUID                         `json:"userId" gorm:"type:uuid;index;not null"`
	User       *User                             `json:"-" gorm:"foreignKey:UserID"`
	Prompt     string                            `json:"prompt" gorm:"not null"`
	ImageURL   string                            `json:"imageUrl" gorm:"not null"`
	StorageKey string                            `json:"storageKey"`
	Metadata   datatypes.JSONType[ImageMetadata] `json:"metadata"`
	CreatedAt  time.Time                         `json:"createdAt"`
	UpdatedAt  time.Time                         `json:"updatedAt"`
}
