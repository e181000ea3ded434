package service

import (
	"github.com/mbeckett/visage/internal/config"
	"github.com/mbeckett/visage/internal/notifier"
	"github.com/mbeckett/visage/internal/provider"
	"github.com/mbeckett/visage/internal/repository"
	"github.com/mbeckett/visage/internal/storage"
)

type Services struct {
	Token *TokenService
	Auth  *AuthService
	Image *ImageService
	Admin *AdminService
}

func NewServices(repos *repository.Repositories, cfg *config.Config, n notifier.Notifier, generator provider.Generator, blobs storage.BlobStore) *Services {
	tokens := NewTokenService(cfg)
	return &Services{
		Token: tokens,
		Auth:  NewAuthService(repos.User, repos.OTP, tokens, n, cfg),
		Image: NewImageService(repos.Image, generator, blobs, cfg),
		Admin: NewAdminService(repos.User, repos.Image),
	}
}
