package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/mbeckett/visage/internal/config"
	"github.com/mbeckett/visage/internal/domain"
	"github.com/mbeckett/visage/internal/provider"
	"github.com/mbeckett/visage/internal/repository"
	"github.com/mbeckett/visage/internal/storage"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	quotaWindow     = 24 * time.Hour
	defaultPageSize = 10
)

// ImageService coordinates image generation against the model provider and
// blob store, under a rolling 24-hour per-user quota.
type ImageService struct {
	imageRepo repository.ImageRepository
	generator provider.Generator
	blobs     storage.BlobStore
	cfg       *config.Config
}

func NewImageService(imageRepo repository.ImageRepository, generator provider.Generator, blobs storage.BlobStore, cfg *config.Config) *ImageService {
	return &ImageService{
		imageRepo: imageRepo,
		generator: generator,
		blobs:     blobs,
		cfg:       cfg,
	}
}

// Pagination describes one page of a user's images.
type Pagination struct {
	Current int   `json:"current"`
	Total   int64 `json:"total"`
	HasMore bool  `json:"hasMore"`
}

// Generate renders the prompt, uploads the result and records the image. The
// quota is a sliding window over the trailing 24 hours, counted per request;
// two near-limit concurrent requests can both pass the check, a tolerated
// soft-limit property. No record is created unless generation and upload
// both succeed.
func (s *ImageService) Generate(ctx context.Context, userID uuid.UUID, prompt string) (*domain.GeneratedImage, error) {
	if prompt == "" {
		return nil, domain.ErrEmptyPrompt
	}

	count, err := s.imageRepo.CountByUserSince(ctx, userID, time.Now().Add(-quotaWindow))
	if err != nil {
		return nil, err
	}
	if count >= int64(s.cfg.DailyGenerationLimit) {
		return nil, domain.ErrQuotaExceeded
	}

	data, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		if errors.Is(err, provider.ErrRateLimited) {
			return nil, domain.ErrProviderRateLimited
		}
		log.Printf("ERROR [image.Generate] generation failed for user %s: %v", userID, err)
		return nil, domain.ErrGenerationFailed
	}

	upload, err := s.blobs.Upload(ctx, data)
	if err != nil {
		log.Printf("ERROR [image.Generate] upload failed for user %s: %v", userID, err)
		return nil, domain.ErrGenerationFailed
	}

	image := &domain.GeneratedImage{
		ID:         uuid.New(),
		UserID:     userID,
		Prompt:     prompt,
		ImageURL:   upload.URL,
		StorageKey: upload.Key,
		Metadata: datatypes.NewJSONType(domain.ImageMetadata{
			Width:  upload.Width,
			Height: upload.Height,
			Format: upload.Format,
			Model:  s.generator.ModelName(),
		}),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := s.imageRepo.Create(ctx, image); err != nil {
		// The blob is already stored; release it rather than leave an
		// unreferenced upload behind.
		if delErr := s.blobs.Delete(ctx, upload.Key); delErr != nil {
			log.Printf("ERROR [image.Generate] failed to clean up blob %s: %v", upload.Key, delErr)
		}
		return nil, err
	}

	return image, nil
}

// ListOwned returns one newest-first page of the caller's images. The query
// is hard-filtered on userID; other users' images are never visible here.
func (s *ImageService) ListOwned(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]*domain.GeneratedImage, *Pagination, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}

	images, err := s.imageRepo.ListByUser(ctx, userID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, nil, err
	}

	total, err := s.imageRepo.CountByUser(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	totalPages := total / int64(pageSize)
	if total%int64(pageSize) != 0 {
		totalPages++
	}

	return images, &Pagination{
		Current: page,
		Total:   totalPages,
		HasMore: int64(page*pageSize) < total,
	}, nil
}

// Delete removes an image the caller owns. Ownership is part of the lookup,
// so a foreign id fails identically to a missing one. Blob deletion is best
// effort; the DB record is removed regardless.
func (s *ImageService) Delete(ctx context.Context, userID, imageID uuid.UUID) error {
	image, err := s.imageRepo.GetByIDAndUser(ctx, imageID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrImageNotFound
		}
		return err
	}

	if image.StorageKey != "" {
		if err := s.blobs.Delete(ctx, image.StorageKey); err != nil {
			log.Printf("ERROR [image.Delete] failed to delete blob %s: %v", image.StorageKey, err)
		}
	}

	return s.imageRepo.DeleteByIDAndUser(ctx, imageID, userID)
}

// GetDetails returns a single owned image, with the same ownership-scoped
// lookup as Delete.
func (s *ImageService) GetDetails(ctx context.Context, userID, imageID uuid.UUID) (*domain.GeneratedImage, error) {
	image, err := s.imageRepo.GetByIDAndUser(ctx, imageID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrImageNotFound
		}
		return nil, err
	}
	return image, nil
}
