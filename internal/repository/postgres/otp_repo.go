package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mbeckett/visage/internal/domain"
	"gorm.io/gorm"
)

type otpRepository struct {
	db *gorm.DB
}

func NewOTPRepository(db *gorm.DB) *otpRepository {
	return &otpRepository{db: db}
}

func (r *otpRepository) Replace(ctx context.Context, otp *domain.OTPCode) error {
	// Delete-then-insert rather than upsert: concurrent issuance for the same
	// email can transiently leave two live codes, which verification tolerates
	// because it matches on (email, code).
	if err := r.db.WithContext(ctx).Delete(&domain.OTPCode{}, "email = ?", otp.Email).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(otp).Error
}

func (r *otpRepository) GetLive(ctx context.Context, email, code string) (*domain.OTPCode, error) {
	var otp domain.OTPCode
	err := r.db.WithContext(ctx).
		Where("email = ? AND code = ? AND expires_at > ?", email, code, time.Now()).
		First(&otp).Error
	if err != nil {
		return nil, err
	}
	return &otp, nil
}

func (r *otpRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.OTPCode{}, "id = ?", id).Error
}

func (r *otpRepository) DeleteByEmail(ctx context.Context, email string) error {
	return r.db.WithContext(ctx).Delete(&domain.OTPCode{}, "email = ?", email).Error
}
