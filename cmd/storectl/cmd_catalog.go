package main

import (
	"errors"
	"fmt"

	catalogapp "github.com/mbvogue/storefront/internal/application/catalog"
	"github.com/mbvogue/storefront/internal/infrastructure/persistence"
	"github.com/mbvogue/storefront/internal/infrastructure/storage"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the sample catalog; existing categories and products are kept",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := boot(cmd.Context())
		if err != nil {
			return err
		}
		defer e.Close()

		res, err := adminCatalog(e).Seed(cmd.Context(), catalogapp.SampleCatalog())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created %d categories, %d products, %d variants\n",
			res.Categories, res.Products, res.Variants)
		return nil
	},
}

var (
	newPrice     string
	pricesAgreed bool
)

var setPricesCmd = &cobra.Command{
	Use:   "set-prices",
	Short: "Set every product to one price and clear variant overrides",
	RunE: func(cmd *cobra.Command, args []string) error {
		price, err := decimal.NewFromString(newPrice)
		if err != nil {
			return fmt.Errorf("invalid --price %q: %w", newPrice, err)
		}
		if price.IsNegative() {
			return errors.New("--price must not be negative")
		}
		if !pricesAgreed {
			return errors.New("this rewrites every product price; re-run with --confirm")
		}

		e, err := boot(cmd.Context())
		if err != nil {
			return err
		}
		defer e.Close()

		n, err := adminCatalog(e).SetAllPrices(cmd.Context(), price)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "updated %d products to %s\n", n, price.StringFixed(2))
		return nil
	},
}

func init() {
	setPricesCmd.Flags().StringVar(&newPrice, "price", "", "new base price, e.g. 1 or 199.99")
	setPricesCmd.Flags().BoolVar(&pricesAgreed, "confirm", false, "apply the change")
	_ = setPricesCmd.MarkFlagRequired("price")
}

func adminCatalog(e *env) *catalogapp.AdminService {
	db := e.db.DB
	return catalogapp.NewAdminService(
		persistence.NewGormCategoryRepository(db),
		persistence.NewGormProductRepository(db),
		persistence.NewGormVariantRepository(db),
		persistence.NewGormImageRepository(db),
		storage.NewStubObjectStorage(e.cfg.Storage.PublicBaseURL),
		e.log,
	)
}
