package tenant_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avatarctic/clinic-console/internal/core/domain/tenant"
)

func TestResolve(t *testing.T) {
	cases := []struct {
		host      string
		subdomain string
		public    bool
	}{
		{host: "clinic1.localhost:3000", subdomain: "clinic1"},
		{host: "localhost:3000", public: true},
		{host: "atlas.example.com", subdomain: "atlas"},
		{host: "example.com", public: true},
		{host: "clinic1.localhost:5173", subdomain: "clinic1"},
		{host: "localhost:5173", public: true},
		{host: "localhost", public: true},
		{host: "smile.dentalapp.ma", subdomain: "smile"},
		{host: "dentalapp.ma", public: true},
		{host: "SMILE.DentalApp.ma.", subdomain: "smile"},
		{host: "", public: true},
	}
	for _, tc := range cases {
		t.Run(tc.host, func(t *testing.T) {
			res := tenant.Resolve(tc.host)
			assert.Equal(t, tc.public, res.IsPublic)
			if tc.public {
				assert.Nil(t, res.Subdomain)
				assert.Equal(t, "public", res.SubdomainOr("public"))
				return
			}
			require.NotNil(t, res.Subdomain)
			assert.Equal(t, tc.subdomain, *res.Subdomain)
		})
	}
}

func TestNewContextLabel(t *testing.T) {
	c := tenant.NewContext("clinic1.localhost:5173")
	assert.Equal(t, "clinic1.localhost", c.Hostname)
	assert.Equal(t, "clinic1", c.Label())
	assert.Nil(t, c.ClinicID)

	pub := tenant.NewContext("localhost")
	assert.True(t, pub.IsPublic)
	assert.Equal(t, "public", pub.Label())
}

func TestTierOrdering(t *testing.T) {
	tiers := tenant.AllTiers()
	require.Len(t, tiers, 4)
	for i, tier := range tiers {
		assert.Equal(t, i, tier.Rank())
	}
	assert.Equal(t, tenant.TierFree, tenant.LowestTier())
	assert.Equal(t, -1, tenant.SubscriptionTier("GOLD").Rank())

	got, ok := tenant.ParseTier(" tier_2 ")
	assert.True(t, ok)
	assert.Equal(t, tenant.Tier2, got)
	_, ok = tenant.ParseTier("premium")
	assert.False(t, ok)
}
