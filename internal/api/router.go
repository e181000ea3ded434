package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/mbeckett/visage/internal/api/handlers"
	"github.com/mbeckett/visage/internal/api/middleware"
	"github.com/mbeckett/visage/internal/config"
	"github.com/mbeckett/visage/internal/service"
)

func NewRouter(services *service.Services, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(middleware.CORS)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(services.Auth, services.Token)
	imageHandler := handlers.NewImageHandler(services.Image)
	adminHandler := handlers.NewAdminHandler(services.Admin)

	// Public auth routes
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login/initiate", authHandler.InitiateLogin)
		r.Post("/login/verify", authHandler.VerifyOTP)
		r.Post("/login/resend-otp", authHandler.ResendOTP)
		r.Post("/refresh", authHandler.Refresh)
		r.Get("/check", authHandler.CheckAuth)
	})

	// Image routes
	r.Route("/images", func(r chi.Router) {
		r.Use(middleware.Auth(services.Token))
		r.Post("/generate", imageHandler.Generate)
		r.Get("/user-images", imageHandler.ListOwned)
		r.Get("/{id}", imageHandler.GetDetails)
		r.Delete("/{id}", imageHandler.Delete)
	})

	// Admin routes
	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.Auth(services.Token))
		r.Use(middleware.AdminOnly)
		r.Get("/stats", adminHandler.GetStats)
	})

	return r
}
