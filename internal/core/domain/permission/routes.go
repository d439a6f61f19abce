package permission

import (
	"slices"
	"strings"
)

// RouteRule binds a console route to the permissions it needs. An empty list means the route
// is open to every authenticated session.
type RouteRule struct {
	Path        string       `json:"path"`
	Name        string       `json:"name"`
	Permissions []Permission `json:"permissions"`
}

var routeTable = []RouteRule{
	{Path: "/admin/default", Name: "Dashboard", Permissions: []Permission{ViewAppointments}},
	{Path: "/admin/agenda", Name: "Agenda", Permissions: []Permission{ViewAppointments}},
	{Path: "/admin/patients", Name: "Patients", Permissions: []Permission{ViewPatients}},
	{Path: "/admin/patients/:patientId/emr", Name: "Dossier médical", Permissions: []Permission{ViewPatients}},
	{Path: "/admin/data-tables", Name: "Data Tables", Permissions: []Permission{ViewPatients}},
	{Path: "/admin/profile", Name: "Profile", Permissions: []Permission{}},
	{Path: "/admin/settings", Name: "Settings", Permissions: []Permission{ManageClinicSettings}},
	{Path: "/admin/users", Name: "Users", Permissions: []Permission{ManageUsers}},
	{Path: "/admin/analytics", Name: "Analytics", Permissions: []Permission{ViewAnalytics}},
	{Path: "/admin/billing", Name: "Billing", Permissions: []Permission{ViewBilling}},
	{Path: "/admin/reports", Name: "Reports", Permissions: []Permission{UseAdvancedReporting}},
	{Path: "/admin/ai-diagnosis", Name: "AI Diagnosis", Permissions: []Permission{UseAIDiagnosis}},
}

// Routes returns a copy of the route table.
func Routes() []RouteRule {
	out := make([]RouteRule, len(routeTable))
	for i, r := range routeTable {
		out[i] = RouteRule{Path: r.Path, Name: r.Name, Permissions: slices.Clone(r.Permissions)}
	}
	return out
}

// MatchRoute finds the rule for a concrete path. Segments starting with ':' match any value.
func MatchRoute(path string) (RouteRule, bool) {
	want := splitPath(path)
	for _, r := range routeTable {
		if segmentsMatch(splitPath(r.Path), want) {
			return RouteRule{Path: r.Path, Name: r.Name, Permissions: slices.Clone(r.Permissions)}, true
		}
	}
	return RouteRule{}, false
}

func splitPath(p string) []string {
	p, _, _ = strings.Cut(p, "?")
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

func segmentsMatch(pattern, path []string) bool {
	if len(pattern) != len(path) {
		return false
	}
	for i, seg := range pattern {
		if strings.HasPrefix(seg, ":") {
			if path[i] == "" {
				return false
			}
			continue
		}
		if seg != path[i] {
			return false
		}
	}
	return true
}
