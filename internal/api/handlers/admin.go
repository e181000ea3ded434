package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/mbeckett/visage/internal/domain"
	"github.com/mbeckett/visage/internal/service"
)

type AdminHandler struct {
	adminService *service.AdminService
}

func NewAdminHandler(adminService *service.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

// RecentImageResponse projects a recent image with its owner's username.
type RecentImageResponse struct {
	ID        string `json:"id"`
	Prompt    string `json:"prompt"`
	ImageURL  string `json:"imageUrl"`
	Username  string `json:"username"`
	CreatedAt string `json:"createdAt"`
}

func (h *AdminHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.adminService.GetStats(r.Context())
	if err != nil {
		log.Printf("ERROR [admin.GetStats] %v", err)
		respondError(w, http.StatusInternalServerError, "Error fetching stats")
		return
	}

	recent := make([]RecentImageResponse, 0, len(stats.RecentImages))
	for _, img := range stats.RecentImages {
		recent = append(recent, toRecentImageResponse(img))
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"userCount":    stats.UserCount,
		"imageCount":   stats.ImageCount,
		"recentImages": recent,
	})
}

func toRecentImageResponse(img *domain.GeneratedImage) RecentImageResponse {
	resp := RecentImageResponse{
		ID:        img.ID.String(),
		Prompt:    img.Prompt,
		ImageURL:  img.ImageURL,
		CreatedAt: img.CreatedAt.Format(time.RFC3339),
	}
	if img.User != nil {
		resp.Username = img.User.Username
	}
	return resp
}
