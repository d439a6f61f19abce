package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/avatarctic/clinic-console/internal/application/services"
	"github.com/avatarctic/clinic-console/internal/core/domain/permission"
	"github.com/avatarctic/clinic-console/internal/core/domain/tenant"
	"github.com/avatarctic/clinic-console/internal/core/domain/user"
)

func permissionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "permissions",
		Short: "Inspect the role and tier permission tables",
	}

	matrixCmd := &cobra.Command{
		Use:   "matrix",
		Short: "Print the effective permissions of every role at every tier",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ROLE\tTIER\tPERMISSIONS")
			for _, row := range services.NewPermissionService(nil).Matrix() {
				fmt.Fprintf(w, "%s\t%s\t%s\n", row.Role, row.Tier, joinPermissions(row.Permissions))
			}
			return w.Flush()
		},
	}

	verifyCmd := &cobra.Command{
		Use:   "verify",
		Short: "Check that higher tiers never lose permissions",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := permission.ValidateTables(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "permission tables OK")
			return nil
		},
	}

	effectiveCmd := &cobra.Command{
		Use:   "effective",
		Short: "Print the effective permissions of one role at one tier",
		RunE: func(cmd *cobra.Command, args []string) error {
			roleFlag, _ := cmd.Flags().GetString("role")
			tierFlag, _ := cmd.Flags().GetString("tier")
			role, ok := user.ParseRole(roleFlag)
			if !ok {
				return fmt.Errorf("unknown role %q", roleFlag)
			}
			tier, ok := tenant.ParseTier(tierFlag)
			if !ok {
				return fmt.Errorf("unknown tier %q", tierFlag)
			}
			for _, p := range permission.Effective(role, tier).Sorted() {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			return nil
		},
	}
	effectiveCmd.Flags().String("role", "", "role (DOCTOR, ASSISTANT, ADMIN)")
	effectiveCmd.Flags().String("tier", string(tenant.LowestTier()), "subscription tier")
	_ = effectiveCmd.MarkFlagRequired("role")

	cmd.AddCommand(matrixCmd, verifyCmd, effectiveCmd)
	return cmd
}

func joinPermissions(perms []permission.Permission) string {
	if len(perms) == 0 {
		return "-"
	}
	parts := make([]string, len(perms))
	for i, p := range perms {
		parts[i] = p.String()
	}
	return strings.Join(parts, ",")
}
