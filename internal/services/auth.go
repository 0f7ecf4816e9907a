package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofrs/uuid"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"taskdesk/internal/config"
	"taskdesk/internal/models"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

type AuthService struct {
	auth config.AuthConfig
}

func NewAuthService(auth config.AuthConfig) *AuthService {
	return &AuthService{auth: auth}
}

func (s *AuthService) RegisterUser(db *gorm.DB, email, password, displayName string) (models.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || !strings.Contains(email, "@") {
		return models.User{}, fmt.Errorf("%w: invalid email", ErrValidation)
	}
	if len(password) < 8 {
		return models.User{}, fmt.Errorf("%w: password must be at least 8 characters", ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	id, err := uuid.NewV4()
	if err != nil {
		return models.User{}, fmt.Errorf("failed to generate user ID: %w", err)
	}

	user := models.User{
		ID:          id,
		Email:       email,
		Password:    string(hash),
		DisplayName: displayName,
		IsActive:    true,
	}
	if err := db.Create(&user).Error; err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (s *AuthService) LoginUser(db *gorm.DB, email, password string) (models.User, string, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	var user models.User
	if err := db.First(&user, "email = ? AND is_active = ?", email, true).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, "", ErrInvalidCredentials
		}
		return models.User{}, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return models.User{}, "", ErrInvalidCredentials
	}

	token, err := s.GenerateToken(user)
	if err != nil {
		return models.User{}, "", err
	}

	now := time.Now()
	user.LastLoginAt = &now
	if err := db.Model(&user).Update("last_login_at", now).Error; err != nil {
		return models.User{}, "", err
	}

	return user, token, nil
}

func (s *AuthService) GenerateToken(user models.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID.String(),
		"email":   user.Email,
		"iss":     s.auth.Issuer,
		"iat":     time.Now().Unix(),
		"exp":     time.Now().Add(s.auth.AccessTokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.auth.JWTSecret))
}
