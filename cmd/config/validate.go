package config

import (
	"os"

	"github.com/markusressel/keepcool/internal/configuration"
	"github.com/markusressel/keepcool/internal/ui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validates the current configuration",
	Long:  ``,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		// note: config file path parameter comes from the root command (-c)
		if path := viper.ConfigFileUsed(); path != "" {
			ui.Info("Using configuration file at: %s", path)
		} else {
			ui.Info("No configuration file found, validating defaults and flags")
		}

		if err := configuration.Validate(); err != nil {
			ui.Error("Validation failed: %v", err)
			os.Exit(1)
		}

		ui.Success("Config looks good! :)")
	},
}

func init() {
	Command.AddCommand(validateCmd)
}
