package user_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/avatarctic/clinic-console/internal/core/domain/user"
)

func TestResourceColor(t *testing.T) {
	assert.Equal(t, "#422afb", user.ResourceColor(0))
	assert.Equal(t, "#01b574", user.ResourceColor(1))
	assert.Equal(t, "#ff6b6b", user.ResourceColor(2))
	assert.Equal(t, "#ff6b6b", user.ResourceColor(7))
	assert.Equal(t, "#422afb", user.ResourceColor(-1))
}

func TestAsResource(t *testing.T) {
	m := user.StaffMember{ID: 3, Username: "dr.alami", FullName: "Youssef Alami", Role: user.RoleDoctor}
	r := m.AsResource(1)
	assert.Equal(t, int64(3), r.ID)
	assert.Equal(t, "Youssef Alami", r.FullName)
	assert.Equal(t, "#01b574", r.Color)

	m.FullName = " "
	assert.Equal(t, "dr.alami", m.AsResource(0).FullName)
}

func TestParseRole(t *testing.T) {
	r, ok := user.ParseRole("doctor")
	assert.True(t, ok)
	assert.Equal(t, user.RoleDoctor, r)

	_, ok = user.ParseRole("nurse")
	assert.False(t, ok)
	assert.False(t, user.UserRole("").IsValid())
}
