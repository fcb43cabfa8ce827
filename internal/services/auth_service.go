package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pethaul/internal/models"
	"pethaul/internal/repositories"

	"github.com/dgrijalva/jwt-go"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles business logic for authentication and authorization.
type AuthService struct {
	userRepo   repositories.UserRepository
	jwtSecret  []byte
	tokenDurat time.Duration // Duration for which a login JWT is valid
	issuer     string
	log        logrus.FieldLogger
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, jwtSecret string, tokenTTL time.Duration, issuer string, log logrus.FieldLogger) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtSecret:  []byte(jwtSecret),
		tokenDurat: tokenTTL,
		issuer:     issuer,
		log:        log,
	}
}

// RegisterUser registers a new local user with a bcrypt password hash.
func (s *AuthService) RegisterUser(ctx context.Context, user *models.User) error {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	existing, err := s.userRepo.GetByEmail(ctx, user.Email)
	if err == nil && existing != nil {
		return fmt.Errorf("email '%s' already registered: %w", user.Email, ErrConflict)
	}
	if err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = string(hashedPassword)
	user.Role = models.RoleUser
	user.Provider = "local"

	if err := s.userRepo.Create(ctx, user); err != nil {
		return fmt.Errorf("failed to register user: %w", err)
	}
	return nil
}

// EmailAvailable reports whether no account uses email yet.
func (s *AuthService) EmailAvailable(ctx context.Context, email string) (bool, error) {
	_, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, ErrNotFound) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return false, nil
}

// LoginUser authenticates a user and returns a signed JWT.
func (s *AuthService) LoginUser(ctx context.Context, email, password string) (string, *models.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		// Do not reveal whether the email exists.
		return "", nil, ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, ErrUnauthorized
	}

	token, err := s.SignToken(user, s.tokenDurat, nil)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// SignToken signs a JWT for user valid for ttl. extra claims are merged in.
func (s *AuthService) SignToken(user *models.User, ttl time.Duration, extra jwt.MapClaims) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"role":    user.Role,
		"iss":     s.issuer,
		"iat":     now.Unix(),
		"exp":     now.Add(ttl).Unix(),
	}
	for k, v := range extra {
		claims[k] = v
	}

	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken parses and validates a JWT and returns its principal.
func (s *AuthService) ValidateToken(tokenString string) (models.Principal, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		s.log.WithError(err).Debug("token validation failed")
		return models.Principal{}, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return models.Principal{}, errors.New("invalid token")
	}
	userID, _ := claims["user_id"].(string)
	role, _ := claims["role"].(string)
	if userID == "" {
		return models.Principal{}, errors.New("invalid token: missing user_id")
	}
	return models.Principal{UserID: userID, Role: role}, nil
}

// CurrentUser loads the user behind a principal.
func (s *AuthService) CurrentUser(ctx context.Context, principal models.Principal) (*models.User, error) {
	return s.userRepo.GetByID(ctx, principal.UserID)
}
