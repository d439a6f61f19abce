package auth

import (
	"errors"
	"strings"

	"github.com/avatarctic/clinic-console/internal/core/domain/user"
)

// LoginRequest represents the login request
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResult is the backend's answer to a successful login
type LoginResult struct {
	Access   string        `json:"access"`
	Refresh  string        `json:"refresh"`
	Role     user.UserRole `json:"role"`
	ClinicID *int64        `json:"clinic_id"`
	Username string        `json:"username"`
}

var (
	ErrMissingAccessToken = errors.New("login result has no access token")
	ErrUnknownRole        = errors.New("login result carries an unknown role")
	ErrMissingClinic      = errors.New("login result has no clinic id")
)

// Validate checks the fields a session cannot exist without.
func (r *LoginResult) Validate() error {
	if r == nil || strings.TrimSpace(r.Access) == "" {
		return ErrMissingAccessToken
	}
	if !r.Role.IsValid() {
		return ErrUnknownRole
	}
	if r.ClinicID == nil {
		return ErrMissingClinic
	}
	return nil
}

// AuthUser is the signed-in identity
type AuthUser struct {
	Username string        `json:"username"`
	Role     user.UserRole `json:"role"`
	ClinicID *int64        `json:"clinic_id"`
}

// Session is the persisted authentication state of a workspace
type Session struct {
	User            *AuthUser `json:"user"`
	Token           string    `json:"token,omitempty"`
	RefreshToken    string    `json:"refresh_token,omitempty"`
	IsAuthenticated bool      `json:"is_authenticated"`
}

// Snapshot is an immutable view of a session store.
type Snapshot struct {
	Session
	HasHydrated bool `json:"has_hydrated"`
}

// Role is empty when nobody is signed in.
func (s Snapshot) Role() user.UserRole {
	if !s.IsAuthenticated || s.User == nil {
		return ""
	}
	return s.User.Role
}

func (s Snapshot) ClinicID() *int64 {
	if !s.IsAuthenticated || s.User == nil {
		return nil
	}
	return s.User.ClinicID
}

func (s Snapshot) Username() string {
	if s.User == nil {
		return ""
	}
	return s.User.Username
}

// Public strips the credentials for responses leaving the server.
func (s Snapshot) Public() Snapshot {
	out := s
	out.Token = ""
	out.RefreshToken = ""
	return out
}
