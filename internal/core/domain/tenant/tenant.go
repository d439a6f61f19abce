package tenant

import (
	"slices"
	"strings"
)

// SubscriptionTier is the clinic-level plan that decides which features are unlocked.
type SubscriptionTier string

const (
	TierFree SubscriptionTier = "FREE"
	Tier1    SubscriptionTier = "TIER_1"
	Tier2    SubscriptionTier = "TIER_2"
	Tier3    SubscriptionTier = "TIER_3"
)

var tierOrder = []SubscriptionTier{TierFree, Tier1, Tier2, Tier3}

func (t SubscriptionTier) String() string {
	return string(t)
}

func (t SubscriptionTier) IsValid() bool {
	return slices.Contains(tierOrder, t)
}

// Rank is the position of the tier in the ordering FREE < TIER_1 < TIER_2 < TIER_3, or -1.
func (t SubscriptionTier) Rank() int {
	return slices.Index(tierOrder, t)
}

// AllTiers returns the tiers from lowest to highest.
func AllTiers() []SubscriptionTier {
	return slices.Clone(tierOrder)
}

// LowestTier is used whenever the clinic tier is not known yet.
func LowestTier() SubscriptionTier {
	return TierFree
}

// ParseTier accepts any letter case; unknown values report ok=false.
func ParseTier(s string) (SubscriptionTier, bool) {
	t := SubscriptionTier(strings.ToUpper(strings.TrimSpace(s)))
	return t, t.IsValid()
}

// Resolution is the tenant identity derived from a hostname.
type Resolution struct {
	Subdomain *string `json:"subdomain"`
	IsPublic  bool    `json:"is_public"`
}

// SubdomainOr returns the subdomain, or fallback for the public schema.
func (r Resolution) SubdomainOr(fallback string) string {
	if r.Subdomain == nil {
		return fallback
	}
	return *r.Subdomain
}

// Hostname strips the port and a trailing root dot, and lower-cases the host.
func Hostname(host string) string {
	h, _, _ := strings.Cut(strings.TrimSpace(host), ":")
	return strings.TrimSuffix(strings.ToLower(h), ".")
}

// Resolve derives the tenant from a hostname. It never fails: anything that does not carry a
// subdomain is the public schema. No validation against known tenants happens here.
func Resolve(host string) Resolution {
	h := Hostname(host)
	if h == "" {
		return Resolution{IsPublic: true}
	}
	labels := strings.Split(h, ".")
	if strings.Contains(h, "localhost") {
		if len(labels) >= 2 && labels[0] != "localhost" && labels[0] != "" {
			return subdomain(labels[0])
		}
		return Resolution{IsPublic: true}
	}
	if len(labels) > 2 && labels[0] != "" {
		return subdomain(labels[0])
	}
	return Resolution{IsPublic: true}
}

func subdomain(label string) Resolution {
	return Resolution{Subdomain: &label, IsPublic: false}
}

// Context is the tenant a workspace talks to. It is derived from the hostname when the workspace
// is created and overwritten with the server-confirmed clinic id after login.
type Context struct {
	Hostname  string  `json:"hostname"`
	Subdomain *string `json:"subdomain"`
	IsPublic  bool    `json:"is_public"`
	ClinicID  *int64  `json:"clinic_id"`
}

// NewContext derives a context from a hostname with no clinic linkage.
func NewContext(host string) Context {
	res := Resolve(host)
	return Context{Hostname: Hostname(host), Subdomain: res.Subdomain, IsPublic: res.IsPublic}
}

// PublicLabel names the shared schema of hosts that carry no clinic subdomain.
const PublicLabel = "public"

// Label is the subdomain or PublicLabel.
func (c Context) Label() string {
	if c.Subdomain == nil {
		return PublicLabel
	}
	return *c.Subdomain
}

// Linkage is the durable record of which clinic a workspace is bound to.
type Linkage struct {
	ClinicID  int64  `json:"clinic_id"`
	Subdomain string `json:"clinic_subdomain"`
}
