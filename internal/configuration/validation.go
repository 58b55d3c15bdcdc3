package configuration

import (
	"fmt"

	"github.com/markusressel/keepcool/internal/curves"
	"github.com/markusressel/keepcool/internal/smc"
)

func Validate() error {
	return validateConfig(&CurrentConfig)
}

func validateConfig(config *Configuration) error {
	if _, err := smc.ParseKey(config.TemperatureKey); err != nil {
		return fmt.Errorf("temperatureKey: %w", err)
	}
	if config.MinTemperature >= config.MaxTemperature {
		return fmt.Errorf("minTemperature (%d) must be lower than maxTemperature (%d)", config.MinTemperature, config.MaxTemperature)
	}
	if config.MinSpeed >= config.MaxSpeed {
		return fmt.Errorf("minSpeed (%d) must be lower than maxSpeed (%d)", config.MinSpeed, config.MaxSpeed)
	}
	if config.MaxSpeed > 0x3fff {
		return fmt.Errorf("maxSpeed (%d) exceeds the largest speed the SMC can store (%d)", config.MaxSpeed, 0x3fff)
	}
	if config.ImplausibleTemperature <= float64(config.MaxTemperature) {
		return fmt.Errorf("implausibleTemperature (%.1f) must be higher than maxTemperature (%d)", config.ImplausibleTemperature, config.MaxTemperature)
	}
	if config.UpdatePeriod <= 0 {
		return fmt.Errorf("updatePeriod must be positive, was %s", config.UpdatePeriod)
	}
	if config.TemperatureWindowSize < 1 {
		return fmt.Errorf("temperatureWindowSize must be >= 1, was %d", config.TemperatureWindowSize)
	}

	if err := validateCurve(config.Curve); err != nil {
		return err
	}
	if err := validateChannel(config.Channel); err != nil {
		return err
	}

	if config.Statistics.Enabled && (config.Statistics.Port <= 0 || config.Statistics.Port >= 65535) {
		return fmt.Errorf("statistics.port is out of range: %d", config.Statistics.Port)
	}

	return nil
}

func validateCurve(curve curves.CurveId) error {
	for _, c := range curves.All() {
		if c == curve {
			return nil
		}
	}
	if curve == curves.Reset {
		return fmt.Errorf("curve '%s' cannot be used to control the fans", curve)
	}
	return fmt.Errorf("unknown curve: %s", curve)
}

func validateChannel(channel ChannelConfig) error {
	switch channel.Type {
	case smc.ChannelTypeIOKit, smc.ChannelTypeSimulator:
		return nil
	case smc.ChannelTypeSerial:
		if channel.Serial.BaudRate <= 0 {
			return fmt.Errorf("channel.serial.baudRate must be positive, was %d", channel.Serial.BaudRate)
		}
		if channel.Serial.ReadTimeout <= 0 {
			return fmt.Errorf("channel.serial.readTimeout must be positive, was %s", channel.Serial.ReadTimeout)
		}
		return nil
	default:
		return fmt.Errorf("unknown channel type '%s', use one of: %s | %s | %s",
			channel.Type, smc.ChannelTypeIOKit, smc.ChannelTypeSerial, smc.ChannelTypeSimulator)
	}
}
