package guard_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/avatarctic/clinic-console/internal/core/domain/guard"
	"github.com/avatarctic/clinic-console/internal/core/domain/permission"
	"github.com/avatarctic/clinic-console/internal/core/domain/tenant"
	"github.com/avatarctic/clinic-console/internal/core/domain/user"
)

func TestEvaluate(t *testing.T) {
	doctor := permission.NewGrant(user.RoleDoctor, tenant.Tier1)

	t.Run("empty requirement passes through even before hydration", func(t *testing.T) {
		d := guard.Evaluate(guard.Requirement{}, false, permission.Grant{})
		assert.Equal(t, guard.PassThrough, d.State)
		assert.True(t, d.Renders())
	})

	t.Run("unhydrated is pending, never denied", func(t *testing.T) {
		d := guard.Evaluate(guard.Any(permission.ViewPatients), false, doctor)
		assert.Equal(t, guard.Pending, d.State)
		assert.False(t, d.Renders())
		assert.Empty(t, d.RedirectTo)
	})

	t.Run("any mode", func(t *testing.T) {
		d := guard.Evaluate(guard.Any(permission.ViewBilling, permission.ViewPatients), true, doctor)
		assert.Equal(t, guard.Allowed, d.State)
	})

	t.Run("all mode", func(t *testing.T) {
		d := guard.Evaluate(guard.All(permission.ViewBilling, permission.ViewPatients), true, doctor)
		assert.Equal(t, guard.Denied, d.State)
		assert.Equal(t, guard.DefaultRedirect, d.RedirectTo)
	})

	t.Run("custom redirect", func(t *testing.T) {
		req := guard.Any(permission.ManageUsers)
		req.RedirectTo = "/admin/profile"
		d := guard.Evaluate(req, true, doctor)
		assert.Equal(t, guard.Denied, d.State)
		assert.Equal(t, "/admin/profile", d.RedirectTo)
	})

	t.Run("fallback replaces redirect", func(t *testing.T) {
		req := guard.Any(permission.UseAIDiagnosis)
		req.Fallback = "upgrade-banner"
		d := guard.Evaluate(req, true, doctor)
		assert.Equal(t, guard.Denied, d.State)
		assert.Equal(t, "upgrade-banner", d.Fallback)
		assert.Empty(t, d.RedirectTo)
	})

	t.Run("signed out grant is denied", func(t *testing.T) {
		d := guard.Evaluate(guard.Any(permission.ViewPatients), true, permission.NewGrant("", tenant.TierFree))
		assert.Equal(t, guard.Denied, d.State)
	})
}

func TestAuthenticated(t *testing.T) {
	assert.Equal(t, guard.Pending, guard.Authenticated(false, false).State)
	d := guard.Authenticated(true, false)
	assert.Equal(t, guard.Denied, d.State)
	assert.Equal(t, guard.SignInPath, d.RedirectTo)
	assert.Equal(t, guard.Allowed, guard.Authenticated(true, true).State)
}

func TestRoleGuards(t *testing.T) {
	admin := permission.NewGrant(user.RoleAdmin, tenant.TierFree)
	doctor := permission.NewGrant(user.RoleDoctor, tenant.Tier3)
	assistant := permission.NewGrant(user.RoleAssistant, tenant.Tier3)

	assert.Equal(t, guard.Allowed, guard.AdminOnly(true, admin).State)
	assert.Equal(t, guard.Denied, guard.AdminOnly(true, doctor).State)
	assert.Equal(t, guard.Pending, guard.AdminOnly(false, admin).State)

	assert.Equal(t, guard.Allowed, guard.DoctorOrAdmin(true, doctor).State)
	assert.Equal(t, guard.Allowed, guard.DoctorOrAdmin(true, admin).State)
	assert.Equal(t, guard.Denied, guard.DoctorOrAdmin(true, assistant).State)
}
