package service

import (
	"errors"
	"fmt"

	"flicklog/config"
	"flicklog/internal/auth"
	"flicklog/internal/models"
	"flicklog/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailExists    = errors.New("email already registered")
	ErrUsernameExists = errors.New("username already taken")
	ErrInvalidCreds   = errors.New("invalid email or password")
)

type AuthService struct {
	cfg      *config.Config
	userRepo *repository.UserRepository
}

func NewAuthService(cfg *config.Config, userRepo *repository.UserRepository) *AuthService {
	return &AuthService{cfg: cfg, userRepo: userRepo}
}

func (s *AuthService) Register(email, username, name, password string) (*models.User, string, string, error) {
	_, err := s.userRepo.GetByEmail(email)
	if err == nil {
		return nil, "", "", ErrEmailExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", "", err
	}
	_, err = s.userRepo.GetByUsername(username)
	if err == nil {
		return nil, "", "", ErrUsernameExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", "", err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", "", err
	}
	u := &models.User{
		Email:        email,
		Username:     username,
		Name:         name,
		PasswordHash: string(hash),
	}
	if err := s.userRepo.Create(u); err != nil {
		return nil, "", "", err
	}
	access, err := auth.GenerateAccessToken(&s.cfg.JWT, u.ID, u.Email, u.Username)
	if err != nil {
		return u, "", "", err
	}
	refresh, err := auth.GenerateRefreshToken(&s.cfg.JWT, u.ID)
	if err != nil {
		return u, access, "", err
	}
	return u, access, refresh, nil
}

func (s *AuthService) Login(email, password string) (*models.User, string, string, error) {
	u, err := s.userRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", "", ErrInvalidCreds
		}
		return nil, "", "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, "", "", ErrInvalidCreds
	}
	access, _ := auth.GenerateAccessToken(&s.cfg.JWT, u.ID, u.Email, u.Username)
	refresh, _ := auth.GenerateRefreshToken(&s.cfg.JWT, u.ID)
	return u, access, refresh, nil
}

func (s *AuthService) RefreshToken(refreshToken string) (access, refresh string, err error) {
	token, err := jwt.ParseWithClaims(refreshToken, &jwt.RegisteredClaims{}, func(_ *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWT.RefreshSecret), nil
	})
	if err != nil || !token.Valid {
		return "", "", auth.ErrInvalidToken
	}
	claims := token.Claims.(*jwt.RegisteredClaims)
	var userID uint
	fmt.Sscanf(claims.Subject, "%d", &userID)
	u, err := s.userRepo.GetByID(userID)
	if err != nil {
		return "", "", err
	}
	access, _ = auth.GenerateAccessToken(&s.cfg.JWT, u.ID, u.Email, u.Username)
	refresh, _ = auth.GenerateRefreshToken(&s.cfg.JWT, u.ID)
	return access, refresh, nil
}

// ChangePassword updates the user's password after verifying the current one.
func (s *AuthService) ChangePassword(userID uint, currentPassword, newPassword string) error {
	u, err := s.userRepo.GetByID(userID)
	if err != nil {
		return ErrInvalidCreds
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(currentPassword)); err != nil {
		return ErrInvalidCreds
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return s.userRepo.Update(u)
}
