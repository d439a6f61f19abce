package backend

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/avatarctic/clinic-console/internal/core/domain/medical"
	"github.com/avatarctic/clinic-console/internal/core/ports"
)

const (
	treatmentsPath = "/medical/treatments/"
	findingsPath   = "/medical/findings/"
)

// TreatmentGateway implements ports.TreatmentRepository.
type TreatmentGateway struct {
	c *Client
}

func NewTreatmentGateway(c *Client) *TreatmentGateway {
	return &TreatmentGateway{c: c}
}

func (g *TreatmentGateway) ListByPatient(ctx context.Context, scope ports.RequestScope, patientID int64) ([]medical.TreatmentStep, error) {
	params := url.Values{"patient": {strconv.FormatInt(patientID, 10)}}
	raw, err := g.c.do(ctx, scope, http.MethodGet, treatmentsPath, params, nil)
	if err != nil {
		return nil, err
	}
	steps, _, err := decodeList[medical.TreatmentStep](raw)
	return steps, err
}

func (g *TreatmentGateway) Create(ctx context.Context, scope ports.RequestScope, payload medical.TreatmentPayload) (*medical.TreatmentStep, error) {
	raw, err := g.c.do(ctx, scope, http.MethodPost, treatmentsPath, nil, payload)
	if err != nil {
		return nil, err
	}
	return decode[medical.TreatmentStep](raw)
}

// FindingGateway implements ports.FindingRepository.
type FindingGateway struct {
	c *Client
}

func NewFindingGateway(c *Client) *FindingGateway {
	return &FindingGateway{c: c}
}

func (g *FindingGateway) Create(ctx context.Context, scope ports.RequestScope, payload medical.FindingPayload) (*medical.ToothFinding, error) {
	raw, err := g.c.do(ctx, scope, http.MethodPost, findingsPath, nil, payload)
	if err != nil {
		return nil, err
	}
	return decode[medical.ToothFinding](raw)
}
