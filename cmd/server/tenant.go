package main

import (
	"fmt"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/avatarctic/clinic-console/internal/application/services"
	"github.com/avatarctic/clinic-console/internal/core/domain/tenant"
	"github.com/avatarctic/clinic-console/internal/infrastructure/db"
	"github.com/avatarctic/clinic-console/internal/infrastructure/repositories"
)

func tenantCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tenant",
		Short: "Inspect tenant resolution and subscription tiers",
	}

	resolveCmd := &cobra.Command{
		Use:   "resolve <host>",
		Short: "Show which clinic schema a hostname routes to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := json.MarshalIndent(tenant.NewContext(args[0]), "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}

	setTierCmd := &cobra.Command{
		Use:   "set-tier <clinic-id> <tier>",
		Short: "Record the subscription tier of a clinic",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			clinicID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid clinic id %q: %w", args[0], err)
			}
			tier, ok := tenant.ParseTier(args[1])
			if !ok {
				return fmt.Errorf("unknown tier %q", args[1])
			}
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			database, err := db.NewDatabaseWithConfig(&cfg.Database)
			if err != nil {
				return err
			}
			defer database.Close()

			svc := services.NewSubscriptionService(repositories.NewSubscriptionRepository(database, logger),
				cfg.Subscription.Clinics, cfg.Subscription.DefaultTier, logger)
			return svc.SetTier(cmd.Context(), clinicID, tier)
		},
	}

	cmd.AddCommand(resolveCmd, setTierCmd)
	return cmd
}
