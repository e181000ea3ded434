package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mbeckett/visage/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByEmailOrUsername(ctx context.Context, email, username string) (*domain.User, error)
	CountByRole(ctx context.Context, role domain.Role) (int64, error)
}

type OTPRepository interface {
	// Replace deletes any existing code for the email, then inserts the new
	// one. The two steps are not atomic; see the service-level notes on the
	// tolerated race.
	Replace(ctx context.Context, otp *domain.OTPCode) error
	GetLive(ctx context.Context, email, code string) (*domain.OTPCode, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByEmail(ctx context.Context, email string) error
}

type ImageRepository interface {
	Create(ctx context.Context, image *domain.GeneratedImage) error
	GetByIDAndUser(ctx context.Context, id, userID uuid.UUID) (*domain.GeneratedImage, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.GeneratedImage, error)
	CountByUser(ctx context.Context, userID uuid.UUID) (int64, error)
	CountByUserSince(ctx context.Context, userID uuid.UUID, since time.Time) (int64, error)
	DeleteByIDAndUser(ctx context.Context, id, userID uuid.UUID) error
	Count(ctx context.Context) (int64, error)
	ListRecent(ctx context.Context, limit int) ([]*domain.GeneratedImage, error)
}

type Repositories struct {
	User  UserRepository
	OTP   OTPRepository
	Image ImageRepository
}
