package configuration

import (
	"strings"
	"testing"
	"time"

	"github.com/markusressel/keepcool/internal/curves"
	"github.com/markusressel/keepcool/internal/smc"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadFromYaml(t *testing.T, content string) Configuration {
	v := viper.New()
	setDefaultValues(v)
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(strings.NewReader(content)))

	var config Configuration
	require.NoError(t, unmarshal(v, &config))
	return config
}

func TestDefaults(t *testing.T) {
	// WHEN
	config := loadFromYaml(t, "")

	// THEN
	assert.Equal(t, "TCXC", config.TemperatureKey)
	assert.Equal(t, uint32(60), config.MinTemperature)
	assert.Equal(t, uint32(92), config.MaxTemperature)
	assert.Equal(t, uint32(2000), config.MinSpeed)
	assert.Equal(t, uint32(6200), config.MaxSpeed)
	assert.Equal(t, curves.Quadratic, config.Curve)
	assert.Equal(t, time.Second, config.UpdatePeriod)
	assert.Equal(t, 120.0, config.ImplausibleTemperature)
	assert.Equal(t, smc.ChannelTypeIOKit, config.Channel.Type)
	assert.Equal(t, 500*time.Millisecond, config.Channel.Serial.ReadTimeout)
	assert.False(t, config.DryRun)
	assert.NoError(t, validateConfig(&config))
}

func TestDecodeCurve(t *testing.T) {
	tests := []struct {
		value    string
		expected curves.CurveId
	}{
		{"linear", curves.Linear},
		{"e", curves.Linear},
		{"c", curves.Logarithmic},
		{"cubic", curves.Cubic},
		{"b", curves.Cubic},
		{"inverse-cubic", curves.InverseCubic},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			// WHEN
			config := loadFromYaml(t, "curve: "+tt.value)

			// THEN
			assert.Equal(t, tt.expected, config.Curve)
		})
	}
}

func TestDecodeCurve_Unknown(t *testing.T) {
	// GIVEN
	v := viper.New()
	setDefaultValues(v)
	v.Set("curve", "sine")

	// WHEN
	var config Configuration
	err := unmarshal(v, &config)

	// THEN
	assert.Error(t, err)
}

func TestDecodeNested(t *testing.T) {
	// WHEN
	config := loadFromYaml(t, `
temperatureKey: TC0P
updatePeriod: 2s
dryRun: true
channel:
  type: serial
  serial:
    port: /dev/ttyUSB0
    readTimeout: 1s
statistics:
  enabled: true
  port: 9100
`)

	// THEN
	assert.Equal(t, "TC0P", config.TemperatureKey)
	assert.Equal(t, 2*time.Second, config.UpdatePeriod)
	assert.True(t, config.DryRun)
	assert.Equal(t, smc.ChannelTypeSerial, config.Channel.Type)
	assert.Equal(t, "/dev/ttyUSB0", config.Channel.Serial.Port)
	assert.Equal(t, 115200, config.Channel.Serial.BaudRate)
	assert.Equal(t, time.Second, config.Channel.Serial.ReadTimeout)
	assert.True(t, config.Statistics.Enabled)
	assert.Equal(t, 9100, config.Statistics.Port)
}

func TestControllerConfig(t *testing.T) {
	// GIVEN
	config := loadFromYaml(t, "minSpeed: 1800\ncurve: s")

	// WHEN
	result, err := config.ControllerConfig()

	// THEN
	require.NoError(t, err)
	assert.Equal(t, smc.MustParseKey("TCXC"), result.TemperatureKey)
	assert.Equal(t, curves.SpeedRange{Min: 1800, Max: 6200}, result.Speeds)
	assert.Equal(t, curves.Quadratic, result.Curve)
	assert.Equal(t, 10, result.WindowSize)
}

func TestChannelConfig_AutoPort(t *testing.T) {
	// GIVEN
	config := loadFromYaml(t, "channel:\n  type: serial")

	// WHEN
	result := config.ChannelConfig()

	// THEN
	assert.Equal(t, smc.ChannelTypeSerial, result.Type)
	assert.Equal(t, "", result.Serial.Port)
	assert.Equal(t, 115200, result.Serial.BaudRate)
}
