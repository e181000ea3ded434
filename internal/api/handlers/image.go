package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/mbeckett/visage/internal/api/middleware"
	"github.com/mbeckett/visage/internal/domain"
	"github.com/mbeckett/visage/internal/service"
)

type ImageHandler struct {
	imageService *service.ImageService
}

func NewImageHandler(imageService *service.ImageService) *ImageHandler {
	return &ImageHandler{imageService: imageService}
}

type GenerateRequest struct {
	Prompt string `json:"prompt"`
}

func (h *ImageHandler) Generate(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	image, err := h.imageService.Generate(r.Context(), userID, req.Prompt)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEmptyPrompt):
			respondError(w, http.StatusBadRequest, "Prompt is required")
		case errors.Is(err, domain.ErrQuotaExceeded):
			respondError(w, http.StatusTooManyRequests, "Daily generation limit reached. Please try again tomorrow.")
		case errors.Is(err, domain.ErrProviderRateLimited):
			respondError(w, http.StatusTooManyRequests, "Too many requests. Please try again later.")
		default:
			log.Printf("ERROR [image.Generate] %v", err)
			respondError(w, http.StatusInternalServerError, "Error generating image")
		}
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"data":    image,
	})
}

func (h *ImageHandler) ListOwned(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	page := queryInt(r, "page", 1)
	pageSize := queryInt(r, "limit", 10)

	images, pagination, err := h.imageService.ListOwned(r.Context(), userID, page, pageSize)
	if err != nil {
		log.Printf("ERROR [image.ListOwned] %v", err)
		respondError(w, http.StatusInternalServerError, "Error fetching images")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"data":       images,
		"pagination": pagination,
	})
}

func (h *ImageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	imageID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusNotFound, "Image not found")
		return
	}

	if err := h.imageService.Delete(r.Context(), userID, imageID); err != nil {
		if errors.Is(err, domain.ErrImageNotFound) {
			respondError(w, http.StatusNotFound, "Image not found")
			return
		}
		log.Printf("ERROR [image.Delete] %v", err)
		respondError(w, http.StatusInternalServerError, "Error deleting image")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Image deleted successfully",
	})
}

func (h *ImageHandler) GetDetails(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	imageID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusNotFound, "Image not found")
		return
	}

	image, err := h.imageService.GetDetails(r.Context(), userID, imageID)
	if err != nil {
		if errors.Is(err, domain.ErrImageNotFound) {
			respondError(w, http.StatusNotFound, "Image not found")
			return
		}
		log.Printf("ERROR [image.GetDetails] %v", err)
		respondError(w, http.StatusInternalServerError, "Error fetching image details")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    image,
	})
}

func queryInt(r *http.Request, key string, fallback int) int {
	value := r.URL.Query().Get(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
