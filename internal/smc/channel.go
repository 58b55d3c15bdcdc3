package smc

import (
	"fmt"
	"strings"
	"time"
)

// Channel is a connection to an SMC that can exchange key data blocks.
// Every call is a single synchronous request/response exchange.
type Channel interface {
	Call(request [BlockSize]byte) ([BlockSize]byte, error)
	Close() error
}

const (
	ChannelTypeIOKit     = "iokit"
	ChannelTypeSerial    = "serial"
	ChannelTypeSimulator = "simulator"
)

// ChannelConfig selects and parameterizes a Channel implementation
type ChannelConfig struct {
	Type   string
	Serial SerialConfig
}

type SerialConfig struct {
	// Port is the device name, an empty value (or "auto") selects the first USB serial port
	Port        string
	BaudRate    int
	ReadTimeout time.Duration
}

// OpenChannel opens the channel described by config.
// All failures wrap ErrConnection.
func OpenChannel(config ChannelConfig) (Channel, error) {
	var channel Channel
	var err error

	switch strings.ToLower(config.Type) {
	case ChannelTypeIOKit, "":
		channel, err = OpenIOKit()
	case ChannelTypeSerial:
		channel, err = OpenSerial(config.Serial)
	case ChannelTypeSimulator:
		channel = NewDefaultSimulator(2)
	default:
		err = fmt.Errorf("unknown channel type '%s'", config.Type)
	}

	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnection, err)
	}
	return channel, nil
}
