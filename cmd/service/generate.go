package service

import (
	"github.com/markusressel/keepcool/cmd/global"
	"github.com/markusressel/keepcool/internal/configuration"
	svc "github.com/markusressel/keepcool/internal/service"
	"github.com/markusressel/keepcool/internal/ui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var path string

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a launchd property list running keepcool with the current options",
	Long: `Writes a launchd property list that runs keepcool as daemon with the
effective configuration. Install it to /Library/LaunchDaemons/ and load it
with launchctl.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if err := configuration.Validate(); err != nil {
			ui.Fatal("Config Validation Error: %v", err)
		}

		config := configuration.CurrentConfig
		target := config.Service.Path
		if path != "" {
			target = path
		}

		configFile := global.CfgFile
		if configFile == "" {
			configFile = viper.ConfigFileUsed()
		}

		descriptor := svc.NewDescriptor(config, configFile)
		if err := svc.Write(target, descriptor); err != nil {
			ui.Fatal("%v", err)
		}
		ui.Success("Service descriptor written to %s", target)
	},
}

func init() {
	generateCmd.Flags().StringVarP(&path, "output", "o", "", "Output path (default is service.path of the configuration)")
	Command.AddCommand(generateCmd)
}
