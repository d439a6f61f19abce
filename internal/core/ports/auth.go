package ports

import (
	"context"

	"github.com/avatarctic/clinic-console/internal/core/domain/auth"
)

// AuthGateway exchanges credentials for tokens with the clinic backend.
type AuthGateway interface {
	Login(ctx context.Context, scope RequestScope, req *auth.LoginRequest) (*auth.LoginResult, error)
}
