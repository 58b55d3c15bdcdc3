package configuration

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/markusressel/keepcool/internal/controller"
	"github.com/markusressel/keepcool/internal/curves"
	"github.com/markusressel/keepcool/internal/smc"
	"github.com/markusressel/keepcool/internal/ui"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

type Configuration struct {
	TemperatureKey string `json:"temperatureKey"`
	MinTemperature uint32 `json:"minTemperature"`
	MaxTemperature uint32 `json:"maxTemperature"`

	MinSpeed uint32         `json:"minSpeed"`
	MaxSpeed uint32         `json:"maxSpeed"`
	Curve    curves.CurveId `json:"curve"`

	UpdatePeriod time.Duration `json:"updatePeriod"`
	// ImplausibleTemperature is the lowest temperature reading that is ignored as a sensor glitch
	ImplausibleTemperature float64 `json:"implausibleTemperature"`
	TemperatureWindowSize  int     `json:"temperatureWindowSize"`

	DryRun bool `json:"dryRun"`
	Debug  bool `json:"debug"`

	Channel    ChannelConfig    `json:"channel"`
	Statistics StatisticsConfig `json:"statistics"`
	Service    ServiceConfig    `json:"service"`
}

type ChannelConfig struct {
	// Type is one of iokit | serial | simulator
	Type   string       `json:"type"`
	Serial SerialConfig `json:"serial"`
}

type SerialConfig struct {
	// Port is the serial device, "auto" selects the first USB serial port
	Port        string        `json:"port"`
	BaudRate    int           `json:"baudRate"`
	ReadTimeout time.Duration `json:"readTimeout"`
}

type StatisticsConfig struct {
	Enabled bool `json:"enabled"`
	Port    int  `json:"port"`
}

type ServiceConfig struct {
	Path       string `json:"path"`
	Label      string `json:"label"`
	Executable string `json:"executable"`
}

var CurrentConfig Configuration

// InitConfig reads in config file and ENV variables if set.
func InitConfig(cfgFile string) {
	viper.SetConfigName("keepcool")

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			ui.Error("Couldn't detect home directory: %v", err)
			os.Exit(1)
		}

		viper.AddConfigPath(".")
		viper.AddConfigPath(home)
		viper.AddConfigPath("/etc/keepcool/")
	}

	viper.SetEnvPrefix("keepcool")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	setDefaultValues(viper.GetViper())
}

func setDefaultValues(v *viper.Viper) {
	v.SetDefault("temperatureKey", "TCXC")
	v.SetDefault("minTemperature", 60)
	v.SetDefault("maxTemperature", 92)
	v.SetDefault("minSpeed", 2000)
	v.SetDefault("maxSpeed", 6200)
	v.SetDefault("curve", curves.Quadratic.String())
	v.SetDefault("updatePeriod", 1*time.Second)
	v.SetDefault("implausibleTemperature", 120.0)
	v.SetDefault("temperatureWindowSize", 10)
	v.SetDefault("dryRun", false)
	v.SetDefault("debug", false)

	v.SetDefault("channel.type", smc.ChannelTypeIOKit)
	v.SetDefault("channel.serial.port", "auto")
	v.SetDefault("channel.serial.baudRate", 115200)
	v.SetDefault("channel.serial.readTimeout", 500*time.Millisecond)

	v.SetDefault("statistics.enabled", false)
	v.SetDefault("statistics.port", 9000)

	v.SetDefault("service.path", "./m.c.m.keepcool.plist")
	v.SetDefault("service.label", "m.c.m.keepcool")
	v.SetDefault("service.executable", "/usr/local/sbin/keepcool")
}

// ReadConfigFile reads the config file, if any, and loads the effective configuration.
// Without a config file the defaults (and flags) are used.
func ReadConfigFile() {
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			ui.Fatal("Error reading config file, %s", err)
		}
		ui.Debug("No configuration file found, using defaults")
	} else {
		// this is only populated _after_ ReadInConfig()
		ui.Debug("Using configuration file at: %s", viper.ConfigFileUsed())
	}

	LoadConfig()
}

func LoadConfig() {
	if err := unmarshal(viper.GetViper(), &CurrentConfig); err != nil {
		ui.Fatal("unable to decode into struct, %v", err)
	}
}

func unmarshal(v *viper.Viper, config *Configuration) error {
	return v.Unmarshal(config, viper.DecodeHook(decodeHook()))
}

// ControllerConfig converts the configuration for the fan controller.
// The configuration has to be valid.
func (c Configuration) ControllerConfig() (controller.Config, error) {
	key, err := smc.ParseKey(c.TemperatureKey)
	if err != nil {
		return controller.Config{}, err
	}
	return controller.Config{
		TemperatureKey:         key,
		MinTemperature:         c.MinTemperature,
		MaxTemperature:         c.MaxTemperature,
		Speeds:                 curves.SpeedRange{Min: c.MinSpeed, Max: c.MaxSpeed},
		Curve:                  c.Curve,
		DryRun:                 c.DryRun,
		ImplausibleTemperature: c.ImplausibleTemperature,
		WindowSize:             c.TemperatureWindowSize,
	}, nil
}

// ChannelConfig converts the configuration of the SMC channel
func (c Configuration) ChannelConfig() smc.ChannelConfig {
	port := c.Channel.Serial.Port
	if port == "auto" {
		port = ""
	}
	return smc.ChannelConfig{
		Type: c.Channel.Type,
		Serial: smc.SerialConfig{
			Port:        port,
			BaudRate:    c.Channel.Serial.BaudRate,
			ReadTimeout: c.Channel.Serial.ReadTimeout,
		},
	}
}
