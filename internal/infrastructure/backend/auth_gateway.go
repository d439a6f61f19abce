package backend

import (
	"context"
	"net/http"

	"github.com/avatarctic/clinic-console/internal/core/domain/auth"
	"github.com/avatarctic/clinic-console/internal/core/ports"
)

// AuthGateway posts credentials to the tenant-routed login endpoint.
type AuthGateway struct {
	c *Client
}

func NewAuthGateway(c *Client) *AuthGateway {
	return &AuthGateway{c: c}
}

func (g *AuthGateway) Login(ctx context.Context, scope ports.RequestScope, req *auth.LoginRequest) (*auth.LoginResult, error) {
	raw, err := g.c.do(ctx, anonymous{scope}, http.MethodPost, "/auth/login/", nil, req)
	if err != nil {
		return nil, err
	}
	return decode[auth.LoginResult](raw)
}

// anonymous hides any token left in the scope so login requests never carry one.
type anonymous struct {
	ports.RequestScope
}

func (anonymous) AccessToken() string { return "" }
