package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/mbeckett/visage/internal/domain"
	"github.com/mbeckett/visage/internal/service"
)

type AuthHandler struct {
	authService  *service.AuthService
	tokenService *service.TokenService
}

func NewAuthHandler(authService *service.AuthService, tokenService *service.TokenService) *AuthHandler {
	return &AuthHandler{authService: authService, tokenService: tokenService}
}

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type InitiateLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type VerifyOTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

type ResendOTPRequest struct {
	Email string `json:"email"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// UserResponse is the public user projection; no password hash ever leaves
// the service layer.
type UserResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func toUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:    user.ID.String(),
		Name:  user.Username,
		Email: user.Email,
		Role:  string(user.Role),
	}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Username == "" || req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "Username, email and password are required")
		return
	}

	email, err := h.authService.Register(r.Context(), service.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			respondError(w, http.StatusBadRequest, "User already exists")
			return
		}
		log.Printf("ERROR [auth.Register] %v", err)
		respondError(w, http.StatusInternalServerError, "Error creating user")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]string{
		"message": "Registration successful. Please verify your email with OTP",
		"email":   email,
	})
}

func (h *AuthHandler) InitiateLogin(w http.ResponseWriter, r *http.Request) {
	var req InitiateLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	err := h.authService.InitiateLogin(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			respondError(w, http.StatusNotFound, "User not found")
		case errors.Is(err, domain.ErrInvalidCredentials):
			respondError(w, http.StatusUnauthorized, "Invalid password")
		case errors.Is(err, domain.ErrNotifierFailure):
			respondError(w, http.StatusInternalServerError, "Error sending OTP email")
		default:
			log.Printf("ERROR [auth.InitiateLogin] %v", err)
			respondError(w, http.StatusInternalServerError, "Error initiating login")
		}
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message":     "OTP sent successfully",
		"email":       req.Email,
		"requiresOTP": true,
	})
}

func (h *AuthHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req VerifyOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.authService.VerifyOTP(r.Context(), req.Email, req.OTP)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidOTP):
			respondError(w, http.StatusUnauthorized, "Invalid or expired OTP")
		case errors.Is(err, domain.ErrUserNotFound):
			respondError(w, http.StatusNotFound, "User not found")
		default:
			log.Printf("ERROR [auth.VerifyOTP] %v", err)
			respondError(w, http.StatusInternalServerError, "Error verifying OTP")
		}
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"token": result.Token,
		"user":  toUserResponse(result.User),
	})
}

func (h *AuthHandler) ResendOTP(w http.ResponseWriter, r *http.Request) {
	var req ResendOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	err := h.authService.ResendOTP(r.Context(), req.Email)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			respondError(w, http.StatusNotFound, "User not found")
		case errors.Is(err, domain.ErrNotifierFailure):
			respondError(w, http.StatusInternalServerError, "Error sending OTP email")
		default:
			log.Printf("ERROR [auth.ResendOTP] %v", err)
			respondError(w, http.StatusInternalServerError, "Error resending OTP")
		}
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": "New OTP sent successfully",
		"email":   req.Email,
	})
}

// CheckAuth reads the bearer token itself rather than relying on the auth
// middleware, so an expired token yields a clean 401 instead of a middleware
// rejection with a different body.
func (h *AuthHandler) CheckAuth(w http.ResponseWriter, r *http.Request) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		respondError(w, http.StatusUnauthorized, "No token provided")
		return
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		respondError(w, http.StatusUnauthorized, "No token provided")
		return
	}

	user, err := h.authService.CheckAuth(r.Context(), parts[1])
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			respondError(w, http.StatusNotFound, "User not found")
		default:
			respondError(w, http.StatusUnauthorized, "Invalid token")
		}
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"user": toUserResponse(user),
	})
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	accessToken, err := h.tokenService.RefreshAccess(req.RefreshToken)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Invalid refresh token")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"accessToken": accessToken,
	})
}
