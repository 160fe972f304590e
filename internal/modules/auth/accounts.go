package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/softionyx/site/internal/models"
)

// Default operator account created by `useradmin default-admin`.
const (
	DefaultAdminEmail    = "admin@softionyx.com"
	DefaultAdminName     = "Admin User"
	DefaultAdminPassword = "admin123"
)

// ErrAccountExists is returned by CreateAccount when the email is taken.
var ErrAccountExists = errors.New("user with this email already exists")

// Account describes a user inserted directly by an operator.
type Account struct {
	Email       string
	Password    string
	FullName    string
	CompanyName string
	Phone       string
	Role        models.Role
}

// CreateAccount inserts a user without the registration rules. On
// ErrAccountExists the existing row is returned alongside the error.
func CreateAccount(ctx context.Context, db *gorm.DB, acc Account) (*models.User, error) {
	email := NormalizeEmail(acc.Email)
	if email == "" || acc.Password == "" || strings.TrimSpace(acc.FullName) == "" {
		return nil, errors.New("email, password and full name are required")
	}
	role := acc.Role
	if role == "" {
		role = models.RoleUser
	}
	if !role.Valid() {
		return nil, fmt.Errorf("invalid role %q", role)
	}

	var existing models.User
	err := db.WithContext(ctx).Where("email = ?", email).First(&existing).Error
	switch {
	case err == nil:
		return &existing, ErrAccountExists
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, fmt.Errorf("find user: %w", err)
	}

	hash, err := HashPassword(acc.Password)
	if err != nil {
		return nil, err
	}
	u := models.User{
		Email:        email,
		PasswordHash: hash,
		FullName:     strings.TrimSpace(acc.FullName),
		CompanyName:  nonEmpty(&acc.CompanyName),
		Phone:        nonEmpty(&acc.Phone),
		Role:         role,
		IsActive:     true,
	}
	if err := db.WithContext(ctx).Create(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAccountExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &u, nil
}
