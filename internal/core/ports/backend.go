package ports

import (
	"context"
	"errors"
	"fmt"
)

// ErrTenantMismatch is returned when the backend refuses a call because the session belongs to
// another clinic. The session has already been logged out when a caller sees it.
var ErrTenantMismatch = errors.New("tenant mismatch")

// ErrBackendUnreachable wraps transport failures: nothing came back from the backend.
var ErrBackendUnreachable = errors.New("backend unreachable")

// BackendError is a non-2xx answer from the clinic backend.
type BackendError struct {
	Status int
	Detail string
}

func (e *BackendError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("backend responded %d", e.Status)
	}
	return fmt.Sprintf("backend responded %d: %s", e.Status, e.Detail)
}

// RequestScope is what a backend call needs to know about the workspace it is made for.
type RequestScope interface {
	// Hostname is the tenant hostname the backend must see.
	Hostname() string
	// AccessToken is empty when nobody is signed in.
	AccessToken() string
	// ForceLogout tears the session down after a cross-tenant rejection.
	ForceLogout(ctx context.Context, reason string)
}
