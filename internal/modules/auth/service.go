package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/softionyx/site/internal/models"
	"github.com/softionyx/site/internal/pkg/jwt"
	"github.com/softionyx/site/internal/pkg/mail"
)

// PasswordCost is the bcrypt cost for stored password hashes.
const PasswordCost = 10

type Service struct {
	db      *gorm.DB
	mailer  mail.Mailer
	baseURL string
	log     *zap.Logger
}

func NewService(db *gorm.DB, mailer mail.Mailer, baseURL string, log *zap.Logger) *Service {
	return &Service{db: db, mailer: mailer, baseURL: strings.TrimRight(baseURL, "/"), log: log}
}

// NormalizeEmail trims and lowercases an address for lookup and storage.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// HashPassword hashes a plaintext password with PasswordCost.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), PasswordCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Register creates a user with role "user" and returns it with a session token.
func (s *Service) Register(ctx context.Context, dto *RegisterDTO) (*models.User, string, error) {
	if !jwt.Configured() {
		return nil, "", jwt.ErrNoSecret
	}
	email := NormalizeEmail(dto.Email)

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, "", fmt.Errorf("check email: %w", err)
	}
	if count > 0 {
		return nil, "", errEmailTaken
	}

	hash, err := HashPassword(dto.Password)
	if err != nil {
		return nil, "", err
	}
	u := models.User{
		Email:        email,
		PasswordHash: hash,
		FullName:     strings.TrimSpace(dto.FullName),
		CompanyName:  nonEmpty(dto.CompanyName),
		Phone:        nonEmpty(dto.Phone),
		Role:         models.RoleUser,
		IsActive:     true,
	}
	if err := s.db.WithContext(ctx).Create(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, "", errEmailTaken
		}
		return nil, "", fmt.Errorf("create user: %w", err)
	}

	token, err := jwt.Sign(u.ID, u.Email, string(u.Role), jwt.TokenTTL)
	if err != nil {
		return nil, "", err
	}
	s.log.Info("user registered", zap.Uint("id", u.ID), zap.String("email", u.Email))

	s.sendWelcome(ctx, &u)
	return &u, token, nil
}

func (s *Service) sendWelcome(ctx context.Context, u *models.User) {
	if s.mailer == nil || !s.mailer.Enabled() {
		return
	}
	msg, err := mail.WelcomeMessage(u.Email, mail.WelcomeData{Name: u.FullName, LoginURL: s.baseURL + "/login"})
	if err == nil {
		err = s.mailer.Send(ctx, msg)
	}
	if err != nil {
		s.log.Error("welcome email failed", zap.String("email", u.Email), zap.Error(err))
	}
}

// Login verifies credentials and issues a token.
func (s *Service) Login(ctx context.Context, dto *LoginDTO) (*models.User, string, error) {
	if !jwt.Configured() {
		return nil, "", jwt.ErrNoSecret
	}
	var u models.User
	err := s.db.WithContext(ctx).Where("email = ?", NormalizeEmail(dto.Email)).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", errInvalidCredentials
		}
		return nil, "", fmt.Errorf("find user: %w", err)
	}
	if !u.IsActive {
		return nil, "", errInactive
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(dto.Password)) != nil {
		return nil, "", errInvalidCredentials
	}

	token, err := jwt.Sign(u.ID, u.Email, string(u.Role), jwt.TokenTTL)
	if err != nil {
		return nil, "", err
	}
	s.log.Info("user logged in", zap.Uint("id", u.ID))
	return &u, token, nil
}

// Me loads the user behind a validated token.
func (s *Service) Me(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).First(&u, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func nonEmpty(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
