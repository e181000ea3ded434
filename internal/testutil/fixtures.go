package testutil

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mbeckett/visage/internal/domain"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// UserBuilder creates test users with a builder pattern
type UserBuilder struct {
	username string
	email    string
	password string
	role     domain.Role
}

// NewUserBuilder creates a new UserBuilder with default values
func NewUserBuilder() *UserBuilder {
	suffix := uuid.New().String()[:8]
	return &UserBuilder{
		username: fmt.Sprintf("testuser_%s", suffix),
		email:    fmt.Sprintf("testuser_%s@example.com", suffix),
		password: "testpassword123",
		role:     domain.RoleUser,
	}
}

// WithUsername sets the username
func (b *UserBuilder) WithUsername(username string) *UserBuilder {
	b.username = username
	return b
}

// WithEmail sets the email
func (b *UserBuilder) WithEmail(email string) *UserBuilder {
	b.email = email
	return b
}

// WithPassword sets the password
func (b *UserBuilder) WithPassword(password string) *UserBuilder {
	b.password = password
	return b
}

// WithRole sets the role
func (b *UserBuilder) WithRole(role domain.Role) *UserBuilder {
	b.role = role
	return b
}

// Build creates the user in the database and returns the user with the raw password
func (b *UserBuilder) Build(t *testing.T, db *gorm.DB) (*domain.User, string) {
	t.Helper()

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(b.password), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &domain.User{
		ID:           uuid.New(),
		Username:     b.username,
		Email:        b.email,
		PasswordHash: string(hashedPassword),
		Role:         b.role,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return user, b.password
}

// ImageBuilder creates test images with a builder pattern
type ImageBuilder struct {
	userID    uuid.UUID
	prompt    string
	createdAt time.Time
}

// NewImageBuilder creates a new ImageBuilder with default values
func NewImageBuilder(userID uuid.UUID) *ImageBuilder {
	return &ImageBuilder{
		userID:    userID,
		prompt:    "a test prompt",
		createdAt: time.Now(),
	}
}

// WithPrompt sets the prompt
func (b *ImageBuilder) WithPrompt(prompt string) *ImageBuilder {
	b.prompt = prompt
	return b
}

// WithCreatedAt sets the creation time, used for quota-window tests
func (b *ImageBuilder) WithCreatedAt(createdAt time.Time) *ImageBuilder {
	b.createdAt = createdAt
	return b
}

// Build creates the image in the database
func (b *ImageBuilder) Build(t *testing.T, db *gorm.DB) *domain.GeneratedImage {
	t.Helper()

	key := fmt.Sprintf("ai-generated/%s.png", uuid.New().String())
	image := &domain.GeneratedImage{
		ID:         uuid.New(),
		UserID:     b.userID,
		Prompt:     b.prompt,
		ImageURL:   fmt.Sprintf("https://images.example.com/%s", key),
		StorageKey: key,
		Metadata: datatypes.NewJSONType(domain.ImageMetadata{
			Width:  768,
			Height: 768,
			Format: "png",
			Model:  "stabilityai/stable-diffusion-2-1",
		}),
		CreatedAt: b.createdAt,
		UpdatedAt: b.createdAt,
	}

	if err := db.Create(image).Error; err != nil {
		t.Fatalf("failed to create image: %v", err)
	}

	return image
}

// CreateOTP inserts an OTP record directly, bypassing the service
func CreateOTP(t *testing.T, db *gorm.DB, email, code string, expiresAt time.Time) *domain.OTPCode {
	t.Helper()

	otp := &domain.OTPCode{
		ID:        uuid.New(),
		Email:     email,
		Code:      code,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
	}

	if err := db.Create(otp).Error; err != nil {
		t.Fatalf("failed to create OTP: %v", err)
	}

	return otp
}
