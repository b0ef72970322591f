package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/peasy-money/peasy-money-backend/internal/api/request"
	"github.com/peasy-money/peasy-money-backend/internal/apperrors"
	"github.com/peasy-money/peasy-money-backend/internal/model"
	"github.com/peasy-money/peasy-money-backend/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

// TokenTypeBearer is returned alongside every access token.
const TokenTypeBearer = "bearer"

// AuthService registers users and issues HS256 access tokens whose subject is the user ID.
type AuthService struct {
	userRepo   *repository.UserRepository
	tokenAuth  *jwtauth.JWTAuth
	tokenTTL   time.Duration
	bcryptCost int
}

// NewAuthService creates a new AuthService.
//
// Parameters:
//   - userRepo: user storage
//   - tokenAuth: HS256 signer shared with the authentication middleware
//   - tokenTTL: access token lifetime
func NewAuthService(userRepo *repository.UserRepository, tokenAuth *jwtauth.JWTAuth, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		tokenAuth:  tokenAuth,
		tokenTTL:   tokenTTL,
		bcryptCost: bcrypt.DefaultCost,
	}
}

// WithBcryptCost returns the service using cost for new password hashes.
func (s *AuthService) WithBcryptCost(cost int) *AuthService {
	s.bcryptCost = cost
	return s
}

// Register creates a user with a hashed password.
// Returns apperrors.ErrUsernameTaken when the username or email is already registered.
func (s *AuthService) Register(ctx context.Context, req request.RegisterRequest) (model.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return model.User{}, fmt.Errorf("%w: %w", apperrors.ErrFailedToRegister, err)
	}

	user := model.User{
		Username:       strings.TrimSpace(req.Username),
		Email:          strings.TrimSpace(req.Email),
		HashedPassword: string(hash),
	}
	if err := s.userRepo.InsertUser(ctx, &user); err != nil {
		return model.User{}, err
	}
	return user, nil
}

// Login checks identifier (username or email) and password, and returns a signed access token.
// Returns apperrors.ErrInvalidCredentials when either is wrong.
func (s *AuthService) Login(ctx context.Context, req request.LoginRequest) (string, error) {
	user, err := s.userRepo.GetUserByLogin(ctx, strings.TrimSpace(req.Username))
	if errors.Is(err, apperrors.ErrUserNotFound) {
		return "", apperrors.ErrInvalidCredentials
	}
	if err != nil {
		return "", fmt.Errorf("%w: %w", apperrors.ErrFailedToLogin, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(req.Password)); err != nil {
		return "", apperrors.ErrInvalidCredentials
	}

	return s.IssueToken(user.ID)
}

// IssueToken signs an access token for userID.
func (s *AuthService) IssueToken(userID int64) (string, error) {
	claims := map[string]any{"sub": strconv.FormatInt(userID, 10)}
	jwtauth.SetIssuedNow(claims)
	jwtauth.SetExpiryIn(claims, s.tokenTTL)

	_, token, err := s.tokenAuth.Encode(claims)
	if err != nil {
		return "", fmt.Errorf("%w: %w", apperrors.ErrFailedToLogin, err)
	}
	return token, nil
}

// UserFromSubject loads the user named by a token subject.
func (s *AuthService) UserFromSubject(ctx context.Context, subject string) (model.User, error) {
	id, err := strconv.ParseInt(subject, 10, 64)
	if err != nil {
		return model.User{}, apperrors.ErrUserNotFound
	}
	return s.userRepo.GetUser(ctx, id)
}
