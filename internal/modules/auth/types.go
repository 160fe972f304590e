package auth

import (
	"errors"

	"github.com/softionyx/site/internal/models"
	"github.com/softionyx/site/internal/pkg/validate"
)

type RegisterDTO struct {
	Email       string  `json:"email"        binding:"required,email"`
	Password    string  `json:"password"     binding:"required,min=6"`
	FullName    string  `json:"full_name"    binding:"required,min=2"`
	CompanyName *string `json:"company_name"`
	Phone       *string `json:"phone"`
}

type LoginDTO struct {
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

var messages = validate.Messages{
	"email":             "Invalid email address",
	"password.min":      "Password must be at least 6 characters",
	"password.required": "Password is required",
	"full_name":         "Full name is required",
}

// userResponse is the public projection returned by register and login.
type userResponse struct {
	ID          uint        `json:"id"`
	Email       string      `json:"email"`
	FullName    string      `json:"full_name"`
	CompanyName *string     `json:"company_name"`
	Role        models.Role `json:"role"`
}

// profileResponse is returned by /me.
type profileResponse struct {
	ID          uint        `json:"id"`
	Email       string      `json:"email"`
	FullName    string      `json:"full_name"`
	CompanyName *string     `json:"company_name"`
	Phone       *string     `json:"phone"`
	Role        models.Role `json:"role"`
}

type authResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message,omitempty"`
	Token   string       `json:"token"`
	User    userResponse `json:"user"`
}

func toUserResponse(u *models.User) userResponse {
	return userResponse{ID: u.ID, Email: u.Email, FullName: u.FullName, CompanyName: u.CompanyName, Role: u.Role}
}

func toProfileResponse(u *models.User) profileResponse {
	return profileResponse{
		ID: u.ID, Email: u.Email, FullName: u.FullName,
		CompanyName: u.CompanyName, Phone: u.Phone, Role: u.Role,
	}
}

var (
	errEmailTaken         = errors.New("email already registered")
	errInvalidCredentials = errors.New("invalid email or password")
	errInactive           = errors.New("account is inactive")
	errUserNotFound       = errors.New("user not found")
)
