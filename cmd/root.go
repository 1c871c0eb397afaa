package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Guillaume-Bsst/Time4-ZRR-QPV/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "zonage",
	Short: "SIRET zoning checker for ZRR and QPV schemes",
	Long:  "Resolves French establishments by SIRET and reports whether they sit in a Zone de Revitalisation Rurale or a Quartier Prioritaire de la Ville, including distance to the nearest priority district.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
