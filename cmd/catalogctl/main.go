// cmd/catalogctl/main.go
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/aplv/catalogo-api/internal/catalog"
	"github.com/aplv/catalogo-api/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "catalogctl",
	Short: "Maintenance tool for the product catalog",
	Long:  "catalogctl seeds the catalog database from a JSON export and evaluates filter queries offline.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
			logrus.SetLevel(logrus.DebugLevel)
		}
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().String("gate", "", "unknown-product gate policy (none, narrow, broad); defaults to CATALOG_UNKNOWN_GATE")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadModel builds the filter model from the environment, honouring --gate.
func loadModel(cmd *cobra.Command) (*config.Config, *catalog.Model, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	profile := cfg.Catalog.Profile()
	if gate, _ := cmd.Flags().GetString("gate"); gate != "" {
		profile.Gate = catalog.GatePolicy(gate)
	}
	model, err := catalog.NewModel(profile)
	if err != nil {
		return nil, nil, err
	}
	return cfg, model, nil
}
