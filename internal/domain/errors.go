package domain

import "errors"

// Auth errors
var (
	ErrUserExists         = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidOTP         = errors.New("invalid or expired OTP")
	ErrNotifierFailure    = errors.New("failed to send OTP email")
)

// Token errors
var (
	ErrInvalidToken        = errors.New("invalid token")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
)

// Image errors
var (
	ErrEmptyPrompt         = errors.New("prompt is required")
	ErrQuotaExceeded       = errors.New("daily generation limit reached")
	ErrProviderRateLimited = errors.New("image provider rate limited")
	ErrGenerationFailed    = errors.New("image generation failed")
	ErrImageNotFound       = errors.New("image not found")
)
