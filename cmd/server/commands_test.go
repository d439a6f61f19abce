package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avatarctic/clinic-console/internal/core/domain/tenant"
)

func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	err := cmd.Execute()
	return out.String(), err
}

func TestPermissionsEffective(t *testing.T) {
	cases := []struct {
		name    string
		args    []string
		want    []string
		wantErr string
	}{
		{
			name: "doctor on tier 1",
			args: []string{"effective", "--role", "DOCTOR", "--tier", "TIER_1"},
			want: []string{
				"VIEW_PATIENTS", "CREATE_PATIENTS", "EDIT_PATIENTS", "VIEW_PATIENT_HISTORY",
				"VIEW_APPOINTMENTS", "CREATE_APPOINTMENTS", "EDIT_APPOINTMENTS", "DELETE_APPOINTMENTS",
			},
		},
		{
			name: "assistant defaults to the free tier",
			args: []string{"effective", "--role", "ASSISTANT"},
			want: []string{"VIEW_PATIENTS", "VIEW_APPOINTMENTS"},
		},
		{name: "unknown role", args: []string{"effective", "--role", "NURSE"}, wantErr: `unknown role "NURSE"`},
		{name: "unknown tier", args: []string{"effective", "--role", "DOCTOR", "--tier", "GOLD"}, wantErr: `unknown tier "GOLD"`},
		{name: "role is required", args: []string{"effective"}, wantErr: "role"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := execute(t, permissionsCmd(), tc.args...)
			if tc.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.ElementsMatch(t, tc.want, strings.Fields(out))
		})
	}
}

func TestPermissionsMatrixAndVerify(t *testing.T) {
	out, err := execute(t, permissionsCmd(), "matrix")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.NotEmpty(t, lines)
	assert.Equal(t, []string{"ROLE", "TIER", "PERMISSIONS"}, strings.Fields(lines[0]))
	assert.Len(t, lines, 1+3*len(tenant.AllTiers()))
	assert.Contains(t, out, "ASSISTANT")

	out, err = execute(t, permissionsCmd(), "verify")
	require.NoError(t, err)
	assert.Equal(t, "permission tables OK\n", out)
}

func TestTenantResolve(t *testing.T) {
	cases := []struct {
		host      string
		subdomain *string
		public    bool
	}{
		{host: "clinic1.localhost:3000", subdomain: ptr("clinic1")},
		{host: "localhost:3000", public: true},
		{host: "atlas.example.com", subdomain: ptr("atlas")},
		{host: "example.com", public: true},
	}
	for _, tc := range cases {
		t.Run(tc.host, func(t *testing.T) {
			out, err := execute(t, tenantCmd(), "resolve", tc.host)
			require.NoError(t, err)
			var got tenant.Context
			require.NoError(t, json.Unmarshal([]byte(out), &got))
			assert.Equal(t, tc.public, got.IsPublic)
			assert.Equal(t, tc.subdomain, got.Subdomain)
			assert.Nil(t, got.ClinicID)
		})
	}
}

func TestTenantSetTierRejectsBadArguments(t *testing.T) {
	_, err := execute(t, tenantCmd(), "set-tier", "abc", "TIER_1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid clinic id "abc"`)

	_, err = execute(t, tenantCmd(), "set-tier", "1", "GOLD")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown tier "GOLD"`)

	_, err = execute(t, tenantCmd(), "resolve")
	assert.Error(t, err)
}

func ptr[T any](v T) *T { return &v }
