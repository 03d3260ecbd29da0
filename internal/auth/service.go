package auth

import (
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/frahmantamala/leave-management/internal"
)

// Credentials is the stored login record for a user.
type Credentials struct {
	UserID       int64
	Email        string
	PasswordHash string
	IsActive     bool
}

type Repository interface {
	GetCredentialsByEmail(email string) (*Credentials, error)
	GetCredentialsByID(userID int64) (*Credentials, error)
	GetUserWithPermissions(userID int64) (*User, error)
	UpdatePasswordHash(userID int64, hash string) error
}

type Service struct {
	repo       Repository
	tokens     TokenGenerator
	bcryptCost int
	logger     *slog.Logger
}

func NewService(repo Repository, tokens TokenGenerator, bcryptCost int, logger *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		tokens:     tokens,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

// Authenticate verifies the email and password and issues a token pair.
func (s *Service) Authenticate(req LoginRequest) (*LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return nil, internal.ErrInvalidCredentials
	}

	creds, err := s.repo.GetCredentialsByEmail(email)
	if err != nil {
		s.logger.Warn("login failed: unknown email", "email", email)
		return nil, internal.ErrInvalidCredentials
	}
	if !creds.IsActive {
		return nil, internal.ErrUserInactive
	}

	if err := bcrypt.CompareHashAndPassword([]byte(creds.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Warn("login failed: wrong password", "user_id", creds.UserID)
		return nil, internal.ErrInvalidCredentials
	}

	user, err := s.repo.GetUserWithPermissions(creds.UserID)
	if err != nil {
		return nil, err
	}

	tokens, err := s.tokens.GenerateTokenPair(creds.UserID, creds.Email)
	if err != nil {
		s.logger.Error("failed to generate tokens", "error", err, "user_id", creds.UserID)
		return nil, err
	}

	return &LoginResponse{User: user, Tokens: tokens}, nil
}

// RefreshTokens exchanges a valid refresh token for a new token pair.
func (s *Service) RefreshTokens(refreshToken string) (*TokenPair, error) {
	claims, err := s.tokens.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}

	creds, err := s.repo.GetCredentialsByID(claims.UserID)
	if err != nil {
		return nil, internal.ErrInvalidToken
	}
	if !creds.IsActive {
		return nil, internal.ErrUserInactive
	}

	return s.tokens.GenerateTokenPair(creds.UserID, creds.Email)
}

// UserForToken resolves the access token into the context identity.
func (s *Service) UserForToken(tokenString string) (*User, error) {
	claims, err := s.tokens.ValidateAccessToken(tokenString)
	if err != nil {
		return nil, err
	}
	user, err := s.repo.GetUserWithPermissions(claims.UserID)
	if err != nil {
		return nil, internal.ErrInvalidToken
	}
	return user, nil
}

// ChangePassword verifies the current password before storing a new hash.
func (s *Service) ChangePassword(userID int64, req ChangePasswordRequest) error {
	if len(req.NewPassword) < 8 {
		return internal.ErrPasswordTooShort
	}
	if req.ConfirmPassword != "" && req.ConfirmPassword != req.NewPassword {
		return internal.NewValidationError("password confirmation does not match", internal.ErrCodeValidationFailed)
	}

	creds, err := s.repo.GetCredentialsByID(userID)
	if err != nil {
		return internal.ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(creds.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return internal.ErrWrongPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), s.bcryptCost)
	if err != nil {
		return err
	}
	return s.repo.UpdatePasswordHash(userID, string(hash))
}

// HashPassword is used by user provisioning when seeding initial credentials.
func (s *Service) HashPassword(password string) (string, error) {
	if len(password) < 8 {
		return "", internal.ErrPasswordTooShort
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
