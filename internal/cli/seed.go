package cli

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nextdash/dashboard-backend/internal/storage/postgres"
)

func newSeedCmd(open Opener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load the development customers and revenue",
		Long: `Insert the development customer set and the monthly revenue figures.
Customers whose email already exists and months already present are left
untouched, so seeding twice is safe.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			migrate, _ := cmd.Flags().GetBool("migrate")

			return withDB(cmd, open, func(ctx context.Context, db *sql.DB) error {
				if migrate {
					if err := postgres.Migrate(ctx, db); err != nil {
						return err
					}
				}
				added, err := postgres.Seed(ctx, db, postgres.DefaultCustomers)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d of %d customers.\n", added, len(postgres.DefaultCustomers))

				months, err := postgres.SeedRevenue(ctx, db, postgres.DefaultRevenue)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d of %d revenue months.\n", months, len(postgres.DefaultRevenue))
				return nil
			})
		},
	}
	cmd.Flags().Bool("migrate", false, "Apply the schema before seeding")
	return cmd
}
