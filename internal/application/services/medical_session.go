package services

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/avatarctic/clinic-console/internal/core/domain/medical"
	"github.com/avatarctic/clinic-console/internal/core/ports"
	"github.com/goccy/go-json"
	"github.com/sirupsen/logrus"
)

// MedicalSessionStore tracks which chart a workspace has open.
type MedicalSessionStore struct {
	store  ports.Store
	key    string
	logger *logrus.Logger

	mu    sync.Mutex
	state atomic.Pointer[medical.Session]
}

func NewMedicalSessionStore(store ports.Store, key string, logger *logrus.Logger) *MedicalSessionStore {
	s := &MedicalSessionStore{store: store, key: key, logger: logger}
	closed := medical.ClosedSession()
	s.state.Store(&closed)
	return s
}

func (s *MedicalSessionStore) Snapshot() medical.Session {
	return *s.state.Load()
}

// Start opens a patient chart, writable only when an appointment is given.
func (s *MedicalSessionStore) Start(ctx context.Context, patientID int64, appointmentID *int64) (medical.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := medical.NewSession(patientID, appointmentID)
	data, err := json.Marshal(next)
	if err != nil {
		return medical.Session{}, fmt.Errorf("failed to encode medical session: %w", err)
	}
	if err := s.store.Set(ctx, s.key, data, 0); err != nil {
		return medical.Session{}, fmt.Errorf("failed to persist medical session: %w", err)
	}
	s.state.Store(&next)
	return next, nil
}

// Clear closes the chart and forgets it durably.
func (s *MedicalSessionStore) Clear(ctx context.Context) error {
	s.Reset()
	if err := s.store.Delete(ctx, s.key); err != nil {
		return fmt.Errorf("failed to delete medical session: %w", err)
	}
	return nil
}

// Reset closes the chart in memory only.
func (s *MedicalSessionStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	closed := medical.ClosedSession()
	s.state.Store(&closed)
}

func (s *MedicalSessionStore) Hydrate(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, ok, err := s.store.Get(ctx, s.key)
	if err != nil || !ok {
		if err != nil && s.logger != nil {
			s.logger.WithError(err).Warn("failed to read medical session")
		}
		return
	}
	var sess medical.Session
	if err := json.Unmarshal(data, &sess); err != nil || sess.CurrentPatientID == nil {
		if s.logger != nil {
			s.logger.Warn("discarding unusable medical session")
		}
		return
	}
	sess.IsReadOnly = sess.ActiveAppointmentID == nil
	s.state.Store(&sess)
}
