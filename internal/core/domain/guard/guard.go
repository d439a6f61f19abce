package guard

import (
	"github.com/avatarctic/clinic-console/internal/core/domain/permission"
	"github.com/avatarctic/clinic-console/internal/core/domain/user"
)

// State is the outcome of evaluating a guard.
type State string

const (
	// Pending means the session has not been hydrated; not a denial.
	Pending     State = "pending"
	Allowed     State = "allowed"
	Denied      State = "denied"
	PassThrough State = "pass_through"
)

// Mode selects how a requirement list is matched.
type Mode string

const (
	ModeAny Mode = "any"
	ModeAll Mode = "all"
)

const (
	DefaultRedirect = "/admin/default"
	SignInPath      = "/auth/sign-in"
)

// Requirement describes what a guarded route or region needs.
type Requirement struct {
	Permissions []permission.Permission `json:"permissions"`
	Mode        Mode                    `json:"mode,omitempty"`
	RedirectTo  string                  `json:"redirect_to,omitempty"`
	Fallback    string                  `json:"fallback,omitempty"`
}

// Any requires at least one of perms.
func Any(perms ...permission.Permission) Requirement {
	return Requirement{Permissions: perms, Mode: ModeAny}
}

// All requires every one of perms.
func All(perms ...permission.Permission) Requirement {
	return Requirement{Permissions: perms, Mode: ModeAll}
}

func (r Requirement) redirect() string {
	if r.RedirectTo != "" {
		return r.RedirectTo
	}
	return DefaultRedirect
}

// Decision is what a guard tells its caller to do.
type Decision struct {
	State      State  `json:"state"`
	RedirectTo string `json:"redirect_to,omitempty"`
	Fallback   string `json:"fallback,omitempty"`
}

// Renders reports whether protected content may be produced.
func (d Decision) Renders() bool {
	return d.State == Allowed || d.State == PassThrough
}

// Evaluate runs the guard state machine. An empty requirement always passes through; an
// unhydrated session is pending; otherwise the mode's predicate over the grant decides.
func Evaluate(req Requirement, hydrated bool, g permission.Grant) Decision {
	if len(req.Permissions) == 0 {
		return Decision{State: PassThrough}
	}
	if !hydrated {
		return Decision{State: Pending}
	}
	var ok bool
	if req.Mode == ModeAll {
		ok = g.HasAll(req.Permissions...)
	} else {
		ok = g.HasAny(req.Permissions...)
	}
	if ok {
		return Decision{State: Allowed}
	}
	if req.Fallback != "" {
		return Decision{State: Denied, Fallback: req.Fallback}
	}
	return Decision{State: Denied, RedirectTo: req.redirect()}
}

// Authenticated guards routes that only need a signed-in session.
func Authenticated(hydrated, authenticated bool) Decision {
	if !hydrated {
		return Decision{State: Pending}
	}
	if !authenticated {
		return Decision{State: Denied, RedirectTo: SignInPath}
	}
	return Decision{State: Allowed}
}

// RoleIn allows the session when its role is one of roles.
func RoleIn(hydrated bool, g permission.Grant, roles ...user.UserRole) Decision {
	if !hydrated {
		return Decision{State: Pending}
	}
	for _, r := range roles {
		if g.IsRole(r) {
			return Decision{State: Allowed}
		}
	}
	return Decision{State: Denied, RedirectTo: DefaultRedirect}
}

// AdminOnly allows administrators.
func AdminOnly(hydrated bool, g permission.Grant) Decision {
	return RoleIn(hydrated, g, user.RoleAdmin)
}

// DoctorOrAdmin allows doctors and administrators.
func DoctorOrAdmin(hydrated bool, g permission.Grant) Decision {
	return RoleIn(hydrated, g, user.RoleDoctor, user.RoleAdmin)
}
