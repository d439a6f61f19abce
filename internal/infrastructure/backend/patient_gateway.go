package backend

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/avatarctic/clinic-console/internal/core/domain/medical"
	"github.com/avatarctic/clinic-console/internal/core/ports"
)

const patientsPath = "/medical/patients/"

// PatientGateway implements ports.PatientRepository against the backend.
type PatientGateway struct {
	c *Client
}

func NewPatientGateway(c *Client) *PatientGateway {
	return &PatientGateway{c: c}
}

func (g *PatientGateway) List(ctx context.Context, scope ports.RequestScope, q medical.PatientQuery) (*medical.PatientPage, error) {
	q = q.Normalized()
	params := url.Values{}
	if q.Search != "" {
		params.Set("search", q.Search)
	}
	params.Set("page", strconv.Itoa(q.Page))

	raw, err := g.c.do(ctx, scope, http.MethodGet, patientsPath, params, nil)
	if err != nil {
		return nil, err
	}
	list, count, err := decodeList[medical.Patient](raw)
	if err != nil {
		return nil, err
	}
	for i := range list {
		list[i].Normalize()
	}
	return &medical.PatientPage{Results: list, TotalCount: count}, nil
}

func (g *PatientGateway) Get(ctx context.Context, scope ports.RequestScope, id int64) (*medical.Patient, error) {
	raw, err := g.c.do(ctx, scope, http.MethodGet, idPath(patientsPath, id), nil, nil)
	if err != nil {
		return nil, err
	}
	return normalizedPatient(raw)
}

func (g *PatientGateway) Create(ctx context.Context, scope ports.RequestScope, req *medical.CreatePatientRequest) (*medical.Patient, error) {
	raw, err := g.c.do(ctx, scope, http.MethodPost, patientsPath, nil, req)
	if err != nil {
		return nil, err
	}
	return normalizedPatient(raw)
}

func (g *PatientGateway) Update(ctx context.Context, scope ports.RequestScope, id int64, req *medical.UpdatePatientRequest) (*medical.Patient, error) {
	raw, err := g.c.do(ctx, scope, http.MethodPatch, idPath(patientsPath, id), nil, req)
	if err != nil {
		return nil, err
	}
	return normalizedPatient(raw)
}

func (g *PatientGateway) Delete(ctx context.Context, scope ports.RequestScope, id int64) error {
	_, err := g.c.do(ctx, scope, http.MethodDelete, idPath(patientsPath, id), nil, nil)
	return err
}

func normalizedPatient(raw []byte) (*medical.Patient, error) {
	p, err := decode[medical.Patient](raw)
	if err != nil {
		return nil, err
	}
	p.Normalize()
	return p, nil
}
