package permission

import (
	"fmt"

	"github.com/avatarctic/clinic-console/internal/core/domain/tenant"
	"github.com/avatarctic/clinic-console/internal/core/domain/user"
)

// rolePermissions is what each role is capable of regardless of tier.
var rolePermissions = map[user.UserRole][]Permission{
	user.RoleDoctor: {
		ViewPatients,
		CreatePatients,
		EditPatients,
		ViewPatientHistory,
		ViewAppointments,
		CreateAppointments,
		EditAppointments,
		DeleteAppointments,
		ViewBilling,
		CreateInvoices,
	},
	user.RoleAssistant: {
		ViewPatients,
		CreatePatients,
		EditPatients,
		ViewAppointments,
		CreateAppointments,
		EditAppointments,
	},
	user.RoleAdmin: GetAllPermissions(),
}

type tierDelta struct {
	tier tenant.SubscriptionTier
	adds []Permission
}

// tierDeltas lists, from the lowest tier up, the features each tier unlocks on top of the
// previous one. A tier's feature set is the union of its delta and every delta before it.
var tierDeltas = []tierDelta{
	{tier: tenant.TierFree, adds: []Permission{
		ViewPatients,
		ViewAppointments,
	}},
	{tier: tenant.Tier1, adds: []Permission{
		CreatePatients,
		EditPatients,
		DeletePatients,
		ViewPatientHistory,
		CreateAppointments,
		EditAppointments,
		DeleteAppointments,
		ViewAllDoctorsAppointments,
		ManageUsers,
		ManageClinicSettings,
	}},
	{tier: tenant.Tier2, adds: []Permission{
		ViewBilling,
		CreateInvoices,
		EditInvoices,
		ViewFinancialReports,
		ViewAnalytics,
		ExportData,
		UseAdvancedReporting,
		IntegrationXRay,
	}},
	{tier: tenant.Tier3, adds: []Permission{
		UseAIDiagnosis,
		MultiClinicManagement,
	}},
}

var (
	roleTable = map[user.UserRole]Set{}
	tierTable = map[tenant.SubscriptionTier]Set{}
)

func init() {
	for role, perms := range rolePermissions {
		roleTable[role] = NewSet(perms...)
	}
	acc := NewSet()
	for _, d := range tierDeltas {
		acc = acc.Union(NewSet(d.adds...))
		tierTable[d.tier] = acc
	}
	if err := ValidateTables(); err != nil {
		panic(err)
	}
}

// RolePermissions returns a copy of the role's capabilities; unknown roles get an empty set.
func RolePermissions(role user.UserRole) Set {
	return roleTable[role].Clone()
}

// TierFeatures returns a copy of the tier's unlocked features; unknown tiers get an empty set.
func TierFeatures(tier tenant.SubscriptionTier) Set {
	return tierTable[tier].Clone()
}

// Effective is the permission set granted to a session: the role's capabilities intersected
// with the tier's features. Absent or unknown role or tier yields an empty set.
func Effective(role user.UserRole, tier tenant.SubscriptionTier) Set {
	r, ok := roleTable[role]
	if !ok {
		return NewSet()
	}
	t, ok := tierTable[tier]
	if !ok {
		return NewSet()
	}
	return r.Intersect(t)
}

// ValidateTables checks that every role and tier is declared, that only known permissions are
// referenced, that tiers are declared in rank order without repeating a feature, and that the
// highest tier unlocks every permission.
func ValidateTables() error {
	for _, role := range user.AllRoles() {
		perms, ok := rolePermissions[role]
		if !ok {
			return fmt.Errorf("role %s has no permission entry", role)
		}
		for _, p := range perms {
			if !p.IsValid() {
				return fmt.Errorf("role %s references unknown permission %q", role, p)
			}
		}
	}

	tiers := tenant.AllTiers()
	if len(tierDeltas) != len(tiers) {
		return fmt.Errorf("expected %d tier deltas, got %d", len(tiers), len(tierDeltas))
	}
	seen := NewSet()
	var prev Set
	for i, d := range tierDeltas {
		if d.tier != tiers[i] {
			return fmt.Errorf("tier delta %d is %s, expected %s", i, d.tier, tiers[i])
		}
		for _, p := range d.adds {
			if !p.IsValid() {
				return fmt.Errorf("tier %s references unknown permission %q", d.tier, p)
			}
			if seen.Has(p) {
				return fmt.Errorf("tier %s re-adds %s already unlocked by a lower tier", d.tier, p)
			}
			seen[p] = struct{}{}
		}
		cur := tierTable[d.tier]
		if prev != nil && !prev.IsSubsetOf(cur) {
			return fmt.Errorf("tier %s does not include every feature of the tier below", d.tier)
		}
		prev = cur
	}
	if top := tierTable[tiers[len(tiers)-1]]; !NewSet(GetAllPermissions()...).IsSubsetOf(top) {
		return fmt.Errorf("tier %s must unlock every permission", tiers[len(tiers)-1])
	}
	return nil
}

// Grant is the effective permission set of one session together with the role and tier it
// was computed from.
type Grant struct {
	Role        user.UserRole           `json:"role"`
	Tier        tenant.SubscriptionTier `json:"tier"`
	Permissions Set                     `json:"-"`
}

// NewGrant computes the grant for a role and tier.
func NewGrant(role user.UserRole, tier tenant.SubscriptionTier) Grant {
	return Grant{Role: role, Tier: tier, Permissions: Effective(role, tier)}
}

func (g Grant) HasPermission(p Permission) bool {
	return g.Permissions.Has(p)
}

func (g Grant) HasAny(perms ...Permission) bool {
	return g.Permissions.HasAny(perms...)
}

func (g Grant) HasAll(perms ...Permission) bool {
	return g.Permissions.HasAll(perms...)
}

// IsRole is strict equality against the session role; an absent role matches nothing.
func (g Grant) IsRole(r user.UserRole) bool {
	return g.Role != "" && g.Role == r
}
