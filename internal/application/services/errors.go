package services

import (
	"errors"

	"github.com/avatarctic/clinic-console/internal/core/ports"
)

var (
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrNotHydrated         = errors.New("workspace is not hydrated")
	ErrNotAuthenticated    = errors.New("not authenticated")
	ErrNoActivePatient     = errors.New("no active patient")
	ErrNoActiveAppointment = errors.New("no active appointment")
	ErrSuperseded          = errors.New("superseded by a newer request")
)

const defaultLoginDetail = "invalid username or password"

// LoginError carries the reason a login was refused. It matches ErrInvalidCredentials.
type LoginError struct {
	Detail string
}

func (e *LoginError) Error() string {
	return e.Detail
}

func (e *LoginError) Unwrap() error {
	return ErrInvalidCredentials
}

func newLoginError(detail string) *LoginError {
	if detail == "" {
		detail = defaultLoginDetail
	}
	return &LoginError{Detail: detail}
}

// degrade reports whether a failed read may be answered with an empty result. A tenant
// mismatch must always reach the caller.
func degrade(err error) bool {
	return err != nil && !errors.Is(err, ports.ErrTenantMismatch)
}
