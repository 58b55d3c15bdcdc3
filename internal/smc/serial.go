package smc

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/markusressel/keepcool/internal/ui"
	"go.bug.st/serial"
	"go.bug.st/serial/enumerator"
	"go.uber.org/multierr"
)

const (
	DefaultBaudRate    = 115200
	DefaultReadTimeout = 500 * time.Millisecond
)

var ErrShortResponse = errors.New("short response")

// SerialChannel exchanges key data blocks with an SMC bridge attached to a serial line.
// Each request is written as a raw block and answered with exactly one raw block.
type SerialChannel struct {
	mu   sync.Mutex
	port serial.Port
}

// OpenSerial opens the serial port described by config
func OpenSerial(config SerialConfig) (*SerialChannel, error) {
	name := config.Port
	if name == "" || name == "auto" {
		detected, err := detectSerialPort()
		if err != nil {
			return nil, err
		}
		name = detected
	}

	baudRate := config.BaudRate
	if baudRate <= 0 {
		baudRate = DefaultBaudRate
	}
	readTimeout := config.ReadTimeout
	if readTimeout <= 0 {
		readTimeout = DefaultReadTimeout
	}

	port, err := serial.Open(name, &serial.Mode{
		BaudRate: baudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}

	if err = port.SetReadTimeout(readTimeout); err != nil {
		_ = port.Close()
		return nil, err
	}
	if err = port.ResetInputBuffer(); err != nil {
		_ = port.Close()
		return nil, err
	}
	if err = port.ResetOutputBuffer(); err != nil {
		_ = port.Close()
		return nil, err
	}

	ui.Debug("Opened SMC serial bridge on %s (%d baud)", name, baudRate)
	return &SerialChannel{port: port}, nil
}

func detectSerialPort() (string, error) {
	ports, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return "", err
	}
	for _, p := range ports {
		if p.IsUSB {
			ui.Info("Found serial device on %s - VID: %s - PID: %s - SN: %s", p.Name, p.VID, p.PID, p.SerialNumber)
			return p.Name, nil
		}
	}
	return "", errors.New("no USB serial device found")
}

func (c *SerialChannel) Call(request [BlockSize]byte) ([BlockSize]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return exchangeBlock(c.port, request)
}

func (c *SerialChannel) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return multierr.Combine(
		c.port.ResetInputBuffer(),
		c.port.ResetOutputBuffer(),
		c.port.Close(),
	)
}

// exchangeBlock writes the request and reads one full response block.
// A read returning no data means the read timeout expired.
func exchangeBlock(rw io.ReadWriter, request [BlockSize]byte) ([BlockSize]byte, error) {
	var response [BlockSize]byte

	written := 0
	for written < BlockSize {
		n, err := rw.Write(request[written:])
		if err != nil {
			return response, fmt.Errorf("write block: %w", err)
		}
		written += n
	}

	read := 0
	for read < BlockSize {
		n, err := rw.Read(response[read:])
		if err != nil && !errors.Is(err, io.EOF) {
			return response, fmt.Errorf("read block: %w", err)
		}
		if n == 0 {
			return response, fmt.Errorf("read block: got %d of %d bytes: %w", read, BlockSize, ErrShortResponse)
		}
		read += n
	}

	return response, nil
}
