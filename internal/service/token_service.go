package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/mbeckett/visage/internal/config"
	"github.com/mbeckett/visage/internal/domain"
)

const (
	accessTokenTTL  = 15 * time.Minute
	refreshTokenTTL = 7 * 24 * time.Hour
)

// Claims is the verified identity carried by a token. Role is empty on
// tokens that do not embed one (refresh tokens, refreshed access tokens).
type Claims struct {
	UserID   uuid.UUID
	Email    string
	Username string
	Role     domain.Role
}

// TokenPair is the short-lived access / long-lived refresh issuance mode.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// TokenService mints and verifies signed session tokens. Two issuance modes
// share the same signing mechanism: a single 24h login token carrying the
// full identity, and a 15m/7d access/refresh pair.
type TokenService struct {
	cfg *config.Config
}

func NewTokenService(cfg *config.Config) *TokenService {
	return &TokenService{cfg: cfg}
}

// MintLoginToken issues the full login token embedding id, email, username
// and role, valid for the configured window (24h by default).
func (s *TokenService) MintLoginToken(user *domain.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   user.ID.String(),
		"email": user.Email,
		"name":  user.Username,
		"role":  string(user.Role),
		"exp":   now.Add(time.Duration(s.cfg.JWTExpirationHours) * time.Hour).Unix(),
		"iat":   now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

// MintTokenPair issues the access/refresh pair. The refresh token embeds
// identity only and is signed with a separate secret.
func (s *TokenService) MintTokenPair(user *domain.User) (*TokenPair, error) {
	now := time.Now()

	access := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  user.ID.String(),
		"role": string(user.Role),
		"exp":  now.Add(accessTokenTTL).Unix(),
		"iat":  now.Unix(),
	})
	accessToken, err := access.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return nil, err
	}

	refresh := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": user.ID.String(),
		"exp": now.Add(refreshTokenTTL).Unix(),
		"iat": now.Unix(),
	})
	refreshToken, err := refresh.SignedString([]byte(s.cfg.RefreshSecret))
	if err != nil {
		return nil, err
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// Verify checks a token signed with the primary secret and returns its
// claims.
func (s *TokenService) Verify(tokenString string) (*Claims, error) {
	return s.verify(tokenString, s.cfg.JWTSecret, domain.ErrInvalidToken)
}

// RefreshAccess re-derives a new short-lived access token from a refresh
// token. The new token carries identity only; role is not re-embedded.
func (s *TokenService) RefreshAccess(refreshToken string) (string, error) {
	claims, err := s.verify(refreshToken, s.cfg.RefreshSecret, domain.ErrInvalidRefreshToken)
	if err != nil {
		return "", err
	}

	now := time.Now()
	access := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": claims.UserID.String(),
		"exp": now.Add(accessTokenTTL).Unix(),
		"iat": now.Unix(),
	})
	return access.SignedString([]byte(s.cfg.JWTSecret))
}

func (s *TokenService) verify(tokenString, secret string, verifyErr error) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, verifyErr
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, verifyErr
	}

	sub, ok := mapClaims["sub"].(string)
	if !ok {
		return nil, verifyErr
	}
	userID, err := uuid.Parse(sub)
	if err != nil {
		return nil, verifyErr
	}

	claims := &Claims{UserID: userID}
	if email, ok := mapClaims["email"].(string); ok {
		claims.Email = email
	}
	if name, ok := mapClaims["name"].(string); ok {
		claims.Username = name
	}
	if role, ok := mapClaims["role"].(string); ok {
		claims.Role = domain.Role(role)
	}
	return claims, nil
}
