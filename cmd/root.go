package cmd

import (
	"fmt"
	"os"

	"github.com/markusressel/keepcool/cmd/config"
	"github.com/markusressel/keepcool/cmd/curve"
	"github.com/markusressel/keepcool/cmd/fan"
	"github.com/markusressel/keepcool/cmd/global"
	"github.com/markusressel/keepcool/cmd/sensor"
	"github.com/markusressel/keepcool/cmd/service"
	"github.com/markusressel/keepcool/internal/configuration"
	"github.com/markusressel/keepcool/internal/ui"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "keepcool",
	Short: "Keeps your Mac cool by raising the minimum fan speed with the temperature.",
	Long: `keepcool reads a temperature sensor of the Apple System Management Controller
and adjusts the minimum speed of all fans following a configurable curve.
It only modifies the minimum fan speed, the SMC can always spin the fans faster.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		configuration.ReadConfigFile()
		setupUi()
	},
	// without a subcommand there is nothing to do
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
		os.Exit(1)
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&global.CfgFile, "config", "c", "", "config file (default is ./keepcool.yaml, $HOME/keepcool.yaml or /etc/keepcool/keepcool.yaml)")
	flags.BoolVarP(&global.NoColor, "no-color", "", false, "Disable all terminal output coloration")
	flags.BoolVarP(&global.NoStyle, "no-style", "", false, "Disable all terminal output styling")

	flags.StringP("curve", "a", "quadratic", "Fan speed curve: linear (e), logarithmic (c), quadratic (s), cubic (b) or inverse-cubic (i)")
	flags.BoolP("debug", "d", false, "Enable debug mode, dump internal state and values")
	flags.BoolP("dry-run", "n", false, "Dry run, do not actually modify fan speeds")
	flags.StringP("temperature-key", "T", "TCXC", "SMC key of the temperature sensor")
	flags.Uint32P("min-temperature", "m", 60, "Minimum temperature to start fan throttling (°C)")
	flags.Uint32P("max-temperature", "M", 92, "Temperature at which the fans run at maximum speed (°C)")

	bindFlag("curve", "curve")
	bindFlag("debug", "debug")
	bindFlag("dryRun", "dry-run")
	bindFlag("temperatureKey", "temperature-key")
	bindFlag("minTemperature", "min-temperature")
	bindFlag("maxTemperature", "max-temperature")

	rootCmd.AddCommand(config.Command)
	rootCmd.AddCommand(curve.Command)
	rootCmd.AddCommand(fan.Command)
	rootCmd.AddCommand(sensor.Command)
	rootCmd.AddCommand(service.Command)
}

func bindFlag(key string, flag string) {
	if err := viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
		panic(err)
	}
}

func setupUi() {
	ui.SetDebugEnabled(configuration.CurrentConfig.Debug)

	if global.NoColor {
		pterm.DisableColor()
		ui.SetColorEnabled(false)
	}
	if global.NoStyle {
		pterm.DisableStyling()
	}
}

// validateConfig exits the process if the effective configuration is invalid
func validateConfig() {
	if err := configuration.Validate(); err != nil {
		ui.Fatal("Config Validation Error: %v", err)
	}
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	cobra.OnInitialize(func() {
		configuration.InitConfig(global.CfgFile)
	})

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
