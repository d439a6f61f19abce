package backend

import (
	"context"
	"net/http"

	"github.com/avatarctic/clinic-console/internal/core/domain/medical"
	"github.com/avatarctic/clinic-console/internal/core/ports"
)

const appointmentsPath = "/medical/appointments/"

// AppointmentGateway implements ports.AppointmentRepository; records are defaulted into the
// scheduler shape on the way in.
type AppointmentGateway struct {
	c *Client
}

func NewAppointmentGateway(c *Client) *AppointmentGateway {
	return &AppointmentGateway{c: c}
}

func (g *AppointmentGateway) List(ctx context.Context, scope ports.RequestScope) ([]medical.Appointment, error) {
	raw, err := g.c.do(ctx, scope, http.MethodGet, appointmentsPath, nil, nil)
	if err != nil {
		return nil, err
	}
	records, _, err := decodeList[medical.AppointmentRecord](raw)
	if err != nil {
		return nil, err
	}
	out := make([]medical.Appointment, 0, len(records))
	for _, r := range records {
		out = append(out, r.ToAppointment())
	}
	return out, nil
}

func (g *AppointmentGateway) Get(ctx context.Context, scope ports.RequestScope, id int64) (*medical.Appointment, error) {
	raw, err := g.c.do(ctx, scope, http.MethodGet, idPath(appointmentsPath, id), nil, nil)
	if err != nil {
		return nil, err
	}
	return toAppointment(raw)
}

func (g *AppointmentGateway) Create(ctx context.Context, scope ports.RequestScope, payload medical.AppointmentPayload) (*medical.Appointment, error) {
	raw, err := g.c.do(ctx, scope, http.MethodPost, appointmentsPath, nil, payload)
	if err != nil {
		return nil, err
	}
	return toAppointment(raw)
}

func (g *AppointmentGateway) Update(ctx context.Context, scope ports.RequestScope, id int64, patch medical.AppointmentPatch) (*medical.Appointment, error) {
	raw, err := g.c.do(ctx, scope, http.MethodPatch, idPath(appointmentsPath, id), nil, patch)
	if err != nil {
		return nil, err
	}
	return toAppointment(raw)
}

func (g *AppointmentGateway) Delete(ctx context.Context, scope ports.RequestScope, id int64) error {
	_, err := g.c.do(ctx, scope, http.MethodDelete, idPath(appointmentsPath, id), nil, nil)
	return err
}

func toAppointment(raw []byte) (*medical.Appointment, error) {
	rec, err := decode[medical.AppointmentRecord](raw)
	if err != nil {
		return nil, err
	}
	a := rec.ToAppointment()
	return &a, nil
}
