package service

import (
	"context"

	"github.com/mbeckett/visage/internal/domain"
	"github.com/mbeckett/visage/internal/repository"
)

const recentImageCount = 10

type AdminService struct {
	userRepo  repository.UserRepository
	imageRepo repository.ImageRepository
}

func NewAdminService(userRepo repository.UserRepository, imageRepo repository.ImageRepository) *AdminService {
	return &AdminService{userRepo: userRepo, imageRepo: imageRepo}
}

type Stats struct {
	UserCount    int64
	ImageCount   int64
	RecentImages []*domain.GeneratedImage
}

// GetStats returns a fixed snapshot: non-admin user count, global image
// count, and the 10 most recent images with their owners loaded.
func (s *AdminService) GetStats(ctx context.Context) (*Stats, error) {
	userCount, err := s.userRepo.CountByRole(ctx, domain.RoleUser)
	if err != nil {
		return nil, err
	}

	imageCount, err := s.imageRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	recent, err := s.imageRepo.ListRecent(ctx, recentImageCount)
	if err != nil {
		return nil, err
	}

	return &Stats{
		UserCount:    userCount,
		ImageCount:   imageCount,
		RecentImages: recent,
	}, nil
}
