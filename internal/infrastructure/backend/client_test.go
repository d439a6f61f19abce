package backend_test

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avatarctic/clinic-console/configs"
	"github.com/avatarctic/clinic-console/internal/core/domain/auth"
	"github.com/avatarctic/clinic-console/internal/core/domain/medical"
	"github.com/avatarctic/clinic-console/internal/core/domain/user"
	"github.com/avatarctic/clinic-console/internal/core/ports"
	"github.com/avatarctic/clinic-console/internal/infrastructure/backend"
	"github.com/avatarctic/clinic-console/test/mocks"
)

type seenRequest struct {
	host  string
	auth  string
	path  string
	query string
	body  string
}

// newBackend starts a fake clinic backend and a client that dials it for every hostname.
func newBackend(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) (*backend.Client, *[]seenRequest) {
	t.Helper()
	var seen []seenRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		seen = append(seen, seenRequest{host: r.Host, auth: r.Header.Get("Authorization"), path: r.URL.Path, query: r.URL.RawQuery, body: string(b)})
		w.Header().Set("Content-Type", "application/json")
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	_, port, err := net.SplitHostPort(srv.Listener.Addr().String())
	require.NoError(t, err)
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	c := backend.NewClient(&configs.BackendConfig{
		Scheme:     "http",
		Port:       port,
		PathPrefix: "/api/",
		DialAddr:   srv.Listener.Addr().String(),
		Timeout:    2 * time.Second,
		HealthHost: "localhost",
	}, logger)
	return c, &seen
}

func scope() *mocks.RequestScopeMock {
	return &mocks.RequestScopeMock{Host: "clinic1.localhost", Token: "access-token"}
}

func TestOrigin(t *testing.T) {
	c := backend.NewClient(&configs.BackendConfig{Port: "8000", PathPrefix: "api"}, nil)
	assert.Equal(t, "http://clinic1.localhost:8000/api", c.Origin("clinic1.localhost"))

	c = backend.NewClient(&configs.BackendConfig{Scheme: "https", PathPrefix: "/"}, nil)
	assert.Equal(t, "https://smile.dentalapp.ma", c.Origin("smile.dentalapp.ma"))
}

func TestPatientListRoutesByHost(t *testing.T) {
	c, seen := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"count":31,"next":null,"results":[{"id":1,"first_name":"Amina","last_name":"Benali"}]}`)
	})
	page, err := backend.NewPatientGateway(c).List(context.Background(), scope(), medical.PatientQuery{Search: "ben"})
	require.NoError(t, err)

	require.Len(t, *seen, 1)
	req := (*seen)[0]
	assert.Contains(t, req.host, "clinic1.localhost:")
	assert.Equal(t, "Bearer access-token", req.auth)
	assert.Equal(t, "/api/medical/patients/", req.path)
	assert.Equal(t, "page=1&search=ben", req.query)

	assert.Equal(t, 31, page.TotalCount)
	require.Len(t, page.Results, 1)
	assert.Equal(t, "Amina Benali", page.Results[0].FullName)
	assert.NotNil(t, page.Results[0].Findings)
}

func TestListShapes(t *testing.T) {
	body := `[{"id":1,"StartTime":"2024-03-04T09:00:00Z","EndTime":"2024-03-04T09:30:00Z","patient_name":"Amina Benali"}]`
	c, _ := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, body)
	})
	list, err := backend.NewAppointmentGateway(c).List(context.Background(), scope())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Amina Benali", list[0].Subject)
	assert.Equal(t, medical.DefaultStatus, list[0].Status)

	body = `{"detail":"nothing here"}`
	list, err = backend.NewAppointmentGateway(c).List(context.Background(), scope())
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestStaffListFiltersRole(t *testing.T) {
	c, seen := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[{"id":3,"username":"dr.alami","role":"DOCTOR"}]`)
	})
	g := backend.NewStaffGateway(c)
	staff, err := g.List(context.Background(), scope(), user.RoleDoctor)
	require.NoError(t, err)
	require.Len(t, staff, 1)
	assert.Equal(t, "role=DOCTOR", (*seen)[0].query)

	_, err = g.List(context.Background(), scope(), "")
	require.NoError(t, err)
	assert.Empty(t, (*seen)[1].query)
}

func TestLoginIsAnonymous(t *testing.T) {
	c, seen := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"access":"a","refresh":"r","role":"ADMIN","clinic_id":4,"username":"amina"}`)
	})
	res, err := backend.NewAuthGateway(c).Login(context.Background(), scope(), &auth.LoginRequest{Username: "amina", Password: "pw"})
	require.NoError(t, err)
	require.NoError(t, res.Validate())
	assert.Equal(t, user.RoleAdmin, res.Role)

	req := (*seen)[0]
	assert.Empty(t, req.auth)
	assert.Equal(t, "/api/auth/login/", req.path)
	assert.JSONEq(t, `{"username":"amina","password":"pw"}`, req.body)
}

func TestTenantMismatchForcesLogout(t *testing.T) {
	c, _ := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = io.WriteString(w, `{"detail":"Cet utilisateur n'appartient pas à ce cabinet."}`)
	})
	sc := scope()
	_, err := backend.NewPatientGateway(c).Get(context.Background(), sc, 5)
	assert.ErrorIs(t, err, ports.ErrTenantMismatch)
	assert.Equal(t, []string{"Cet utilisateur n'appartient pas à ce cabinet."}, sc.LogoutReasons())
}

func TestPlainForbiddenIsBackendError(t *testing.T) {
	c, _ := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = io.WriteString(w, `{"detail":"You do not have permission to perform this action."}`)
	})
	sc := scope()
	err := backend.NewPatientGateway(c).Delete(context.Background(), sc, 5)

	var be *ports.BackendError
	require.True(t, errors.As(err, &be))
	assert.Equal(t, http.StatusForbidden, be.Status)
	assert.Equal(t, "You do not have permission to perform this action.", be.Detail)
	assert.Empty(t, sc.LogoutReasons())
}

func TestErrorDetailFallbacks(t *testing.T) {
	body := `{"non_field_errors":["Le médecin est déjà occupé"]}`
	status := http.StatusBadRequest
	c, _ := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	})
	g := backend.NewAppointmentGateway(c)

	_, err := g.Update(context.Background(), scope(), 1, medical.AppointmentPatch{})
	var be *ports.BackendError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, "Le médecin est déjà occupé", be.Detail)

	body, status = "Bad Gateway", http.StatusBadGateway
	_, err = g.Get(context.Background(), scope(), 1)
	require.ErrorAs(t, err, &be)
	assert.Equal(t, http.StatusBadGateway, be.Status)
	assert.Equal(t, "Bad Gateway", be.Detail)
}

func TestUnreachableBackend(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())

	c := backend.NewClient(&configs.BackendConfig{Port: "8000", DialAddr: addr, Timeout: time.Second, HealthHost: "localhost"}, nil)
	_, err = backend.NewPatientGateway(c).List(context.Background(), scope(), medical.PatientQuery{})
	assert.ErrorIs(t, err, ports.ErrBackendUnreachable)
	assert.ErrorIs(t, c.Ping(context.Background()), ports.ErrBackendUnreachable)
}

func TestPingAcceptsAnyStatus(t *testing.T) {
	c, seen := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	require.NoError(t, c.Ping(context.Background()))
	assert.Contains(t, (*seen)[0].host, "localhost:")
}

func TestIsTenantMismatch(t *testing.T) {
	assert.True(t, backend.IsTenantMismatch("User does not belong to this Cabinet"))
	assert.True(t, backend.IsTenantMismatch("TENANT mismatch"))
	assert.False(t, backend.IsTenantMismatch("You do not have permission to perform this action."))
}

func TestTreatmentsByPatient(t *testing.T) {
	c, seen := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"count":1,"results":[{"id":9,"tooth_number":36,"step_type":"filling","status":"pending"}]}`)
	})
	steps, err := backend.NewTreatmentGateway(c).ListByPatient(context.Background(), scope(), 8)
	require.NoError(t, err)
	require.Len(t, steps, 1)
	assert.Equal(t, medical.StepFilling, steps[0].StepType)
	assert.Equal(t, "patient=8", (*seen)[0].query)
}
