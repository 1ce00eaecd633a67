package main

import (
	"fmt"

	checkoutapp "github.com/mbvogue/storefront/internal/application/checkout"
	"github.com/mbvogue/storefront/internal/infrastructure/persistence"
	"github.com/spf13/cobra"
)

var purgeCheckoutsCmd = &cobra.Command{
	Use:   "purge-checkouts",
	Short: "Delete expired pending checkouts that have no payment in flight",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := boot(cmd.Context())
		if err != nil {
			return err
		}
		defer e.Close()

		db := e.db.DB
		svc := checkoutapp.NewService(
			persistence.NewGormCartRepository(db),
			persistence.NewGormCheckoutRepository(db),
			persistence.NewGormUserRepository(db),
			checkoutapp.WithLogger(e.log),
		)
		n, err := svc.PurgeExpired(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "purged %d expired checkouts\n", n)
		return nil
	},
}
