package backend

import (
	"context"
	"net/http"
	"net/url"

	"github.com/avatarctic/clinic-console/internal/core/domain/user"
	"github.com/avatarctic/clinic-console/internal/core/ports"
)

const usersPath = "/auth/users/"

// StaffGateway reads the clinic's user directory.
type StaffGateway struct {
	c *Client
}

func NewStaffGateway(c *Client) *StaffGateway {
	return &StaffGateway{c: c}
}

// List returns the clinic users, restricted to role unless it is empty.
func (g *StaffGateway) List(ctx context.Context, scope ports.RequestScope, role user.UserRole) ([]user.StaffMember, error) {
	var params url.Values
	if role != "" {
		params = url.Values{"role": {role.String()}}
	}
	raw, err := g.c.do(ctx, scope, http.MethodGet, usersPath, params, nil)
	if err != nil {
		return nil, err
	}
	staff, _, err := decodeList[user.StaffMember](raw)
	return staff, err
}

func (g *StaffGateway) Get(ctx context.Context, scope ports.RequestScope, id int64) (*user.StaffMember, error) {
	raw, err := g.c.do(ctx, scope, http.MethodGet, idPath(usersPath, id), nil, nil)
	if err != nil {
		return nil, err
	}
	return decode[user.StaffMember](raw)
}
