package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mbeckett/visage/internal/domain"
	"gorm.io/gorm"
)

type imageRepository struct {
	db *gorm.DB
}

func NewImageRepository(db *gorm.DB) *imageRepository {
	return &imageRepository{db: db}
}

func (r *imageRepository) Create(ctx context.Context, image *domain.GeneratedImage) error {
	return r.db.WithContext(ctx).Create(image).Error
}

func (r *imageRepository) GetByIDAndUser(ctx context.Context, id, userID uuid.UUID) (*domain.GeneratedImage, error) {
	var image domain.GeneratedImage
	err := r.db.WithContext(ctx).
		First(&image, "id = ? AND user_id = ?", id, userID).Error
	if err != nil {
		return nil, err
	}
	return &image, nil
}

func (r *imageRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.GeneratedImage, error) {
	var images []*domain.GeneratedImage
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&images).Error
	if err != nil {
		return nil, err
	}
	return images, nil
}

func (r *imageRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.GeneratedImage{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

func (r *imageRepository) CountByUserSince(ctx context.Context, userID uuid.UUID, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.GeneratedImage{}).
		Where("user_id = ? AND created_at > ?", userID, since).
		Count(&count).Error
	return count, err
}

func (r *imageRepository) DeleteByIDAndUser(ctx context.Context, id, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Delete(&domain.GeneratedImage{}, "id = ? AND user_id = ?", id, userID).Error
}

func (r *imageRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.GeneratedImage{}).
		Count(&count).Error
	return count, err
}

func (r *imageRepository) ListRecent(ctx context.Context, limit int) ([]*domain.GeneratedImage, error) {
	var images []*domain.GeneratedImage
	err := r.db.WithContext(ctx).
		Preload("User").
		Order("created_at DESC").
		Limit(limit).
		Find(&images).Error
	if err != nil {
		return nil, err
	}
	return images, nil
}
