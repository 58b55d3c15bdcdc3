package cmd

import (
	"github.com/markusressel/keepcool/internal"
	"github.com/markusressel/keepcool/internal/configuration"
	"github.com/markusressel/keepcool/internal/ui"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run forever (as daemon)",
	Long: `Controls the fans until SIGINT, SIGTERM or SIGHUP is received.
SIGUSR1 switches to the next curve, SIGUSR2 back to the configured one.
On exit the fans are handed back to the SMC.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		validateConfig()
		ui.Debug("Using curve %s, temperature key %s", configuration.CurrentConfig.Curve, configuration.CurrentConfig.TemperatureKey)

		if err := internal.RunDaemon(); err != nil {
			ui.Fatal("%v", err)
		}
		ui.Info("Done.")
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}
