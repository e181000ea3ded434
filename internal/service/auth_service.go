package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"math/big"
	"time"

	"github.com/google/uuid"
	"github.com/mbeckett/visage/internal/config"
	"github.com/mbeckett/visage/internal/domain"
	"github.com/mbeckett/visage/internal/notifier"
	"github.com/mbeckett/visage/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthService implements the two-step login flow: password check issues an
// OTP, OTP verification issues the session token. Possession of a valid
// token is the authenticated state; nothing is stored server-side.
type AuthService struct {
	userRepo repository.UserRepository
	otpRepo  repository.OTPRepository
	tokens   *TokenService
	notifier notifier.Notifier
	cfg      *config.Config
}

func NewAuthService(userRepo repository.UserRepository, otpRepo repository.OTPRepository, tokens *TokenService, n notifier.Notifier, cfg *config.Config) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		otpRepo:  otpRepo,
		tokens:   tokens,
		notifier: n,
		cfg:      cfg,
	}
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
}

type LoginResult struct {
	Token string
	User  *domain.User
}

// Register creates the user and sends a first OTP to the email. Registration
// does not authenticate the caller; the OTP email failing to send does not
// roll back the created user, a resend covers that case.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (string, error) {
	existing, err := s.userRepo.GetByEmailOrUsername(ctx, input.Email, input.Username)
	if err == nil && existing != nil {
		return "", domain.ErrUserExists
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	user := &domain.User{
		ID:           uuid.New(),
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: string(hashedPassword),
		Role:         domain.RoleUser,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return "", err
	}

	if err := s.issueOTP(ctx, input.Email); err != nil {
		// User creation stands even if the OTP email fails; the caller can
		// request a resend.
		log.Printf("ERROR [auth.Register] failed to send registration OTP to %s: %v", input.Email, err)
	}

	return user.Email, nil
}

// InitiateLogin verifies the password and issues a fresh OTP for the email.
func (s *AuthService) InitiateLogin(ctx context.Context, email, password string) error {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrUserNotFound
		}
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return domain.ErrInvalidCredentials
	}

	if err := s.issueOTP(ctx, email); err != nil {
		return err
	}
	return nil
}

// VerifyOTP consumes a live code and mints the login token. The code is
// single-use: it is deleted before the token is issued, so a replay with the
// same code fails.
func (s *AuthService) VerifyOTP(ctx context.Context, email, code string) (*LoginResult, error) {
	otp, err := s.otpRepo.GetLive(ctx, email, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvalidOTP
		}
		return nil, err
	}

	if err := s.otpRepo.Delete(ctx, otp.ID); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	token, err := s.tokens.MintLoginToken(user)
	if err != nil {
		return nil, err
	}

	return &LoginResult{Token: token, User: user}, nil
}

// ResendOTP replaces the live code for the email and sends it again. No
// password re-verification; the route must be rate limited by the caller.
func (s *AuthService) ResendOTP(ctx context.Context, email string) error {
	_, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrUserNotFound
		}
		return err
	}

	return s.issueOTP(ctx, email)
}

// CheckAuth resolves a verified token to the current user.
func (s *AuthService) CheckAuth(ctx context.Context, tokenString string) (*domain.User, error) {
	claims, err := s.tokens.Verify(tokenString)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *AuthService) GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// issueOTP replaces any live code for the email with a fresh one and sends
// it. The record is created before sending, so a notifier failure leaves a
// live code that a resend can replace.
func (s *AuthService) issueOTP(ctx context.Context, email string) error {
	code, err := generateOTPCode()
	if err != nil {
		return err
	}

	otp := &domain.OTPCode{
		ID:        uuid.New(),
		Email:     email,
		Code:      code,
		ExpiresAt: time.Now().Add(s.cfg.OTPTTL),
		CreatedAt: time.Now(),
	}

	if err := s.otpRepo.Replace(ctx, otp); err != nil {
		return err
	}

	if err := s.notifier.SendOTP(ctx, email, code); err != nil {
		log.Printf("ERROR [auth.issueOTP] failed to send OTP to %s: %v", email, err)
		return domain.ErrNotifierFailure
	}
	return nil
}

// generateOTPCode returns a 6-digit numeric code from crypto/rand.
func generateOTPCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
