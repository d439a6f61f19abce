package user

import "strings"

// UserRole is the functional category assigned to a clinic user by the backend at login.
type UserRole string

const (
	RoleDoctor    UserRole = "DOCTOR"
	RoleAssistant UserRole = "ASSISTANT"
	RoleAdmin     UserRole = "ADMIN"
)

func (r UserRole) String() string {
	return string(r)
}

func (r UserRole) IsValid() bool {
	switch r {
	case RoleDoctor, RoleAssistant, RoleAdmin:
		return true
	default:
		return false
	}
}

// AllRoles returns every role in a stable order.
func AllRoles() []UserRole {
	return []UserRole{RoleDoctor, RoleAssistant, RoleAdmin}
}

// ParseRole accepts any letter case; unknown values report ok=false.
func ParseRole(s string) (UserRole, bool) {
	r := UserRole(strings.ToUpper(strings.TrimSpace(s)))
	return r, r.IsValid()
}

// StaffMember is a clinic user as listed by the backend staff directory.
type StaffMember struct {
	ID        int64    `json:"id"`
	Username  string   `json:"username"`
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	FullName  string   `json:"full_name"`
	Role      UserRole `json:"role"`
}

// DisplayName falls back to the username when the backend did not compute a full name.
func (s StaffMember) DisplayName() string {
	if strings.TrimSpace(s.FullName) != "" {
		return s.FullName
	}
	return s.Username
}

// DoctorResource is a doctor as consumed by the scheduler for resource grouping.
type DoctorResource struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Color    string `json:"color"`
}

var resourcePalette = []string{"#422afb", "#01b574", "#ff6b6b"}

// ResourceColor picks the calendar colour for the doctor at position index.
// Every doctor past the palette shares its last colour.
func ResourceColor(index int) string {
	if index < 0 {
		index = 0
	}
	if index >= len(resourcePalette) {
		return resourcePalette[len(resourcePalette)-1]
	}
	return resourcePalette[index]
}

// AsResource converts a staff member into a scheduler resource at position index.
func (s StaffMember) AsResource(index int) DoctorResource {
	return DoctorResource{
		ID:       s.ID,
		Username: s.Username,
		FullName: s.DisplayName(),
		Color:    ResourceColor(index),
	}
}
