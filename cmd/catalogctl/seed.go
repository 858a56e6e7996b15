// cmd/catalogctl/seed.go
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/aplv/catalogo-api/internal/config"
	"github.com/aplv/catalogo-api/internal/database"
	"github.com/aplv/catalogo-api/internal/services"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Upsert the products of a JSON export into the catalog database",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		path, _ := cmd.Flags().GetString("file")
		if path == "" {
			path = cfg.Catalog.File
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		src, err := services.DecodeCatalogJSON(data)
		if err != nil {
			return fmt.Errorf("failed to decode %s: %w", path, err)
		}

		logrus.WithField("dsn", cfg.Database.Redacted()).Info("Connecting to database")
		db, err := database.Initialize(cfg.Database)
		if err != nil {
			return err
		}
		defer database.Close(db)

		if migrate, _ := cmd.Flags().GetBool("migrate"); migrate {
			if err := database.RunMigrations(db); err != nil {
				return err
			}
		}

		created, updated, err := services.NewProductService(db, nil).Import(cmd.Context(), src.Products)
		if err != nil {
			return err
		}
		logrus.WithFields(logrus.Fields{
			"file":    path,
			"created": created,
			"updated": updated,
		}).Info("Catalog seeded")
		return nil
	},
}

func init() {
	seedCmd.Flags().StringP("file", "f", "", "catalog JSON file (default CATALOG_FILE)")
	seedCmd.Flags().Bool("migrate", true, "run migrations before importing")
	rootCmd.AddCommand(seedCmd)
}
