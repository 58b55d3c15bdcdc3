package smc

import (
	"bytes"
	"strings"

	"github.com/markusressel/keepcool/internal/ui"
)

// FanInfo is the decoded state of all registers of a single fan
type FanInfo struct {
	Index   int
	ID      string
	Actual  float32
	Minimum float32
	Maximum float32
	Safe    float32
	Target  float32
	// Forced is true if the fan is in manual mode, false if the SMC controls it automatically
	Forced bool
}

// IsTemperatureKey matches all temperature sensor keys
func IsTemperatureKey(key Key) bool {
	return key[0] == 'T'
}

// ReadKeys enumerates all keys of the SMC and reads those matching filter.
// Keys that cannot be read are skipped.
func (b *Bridge) ReadKeys(filter func(Key) bool) ([]Value, error) {
	total, err := b.KeyCount()
	if err != nil {
		return nil, err
	}

	var result []Value
	for i := uint32(0); i < total; i++ {
		key, err := b.KeyAt(i)
		if err != nil {
			ui.Debug("Skipping key index %d: %v", i, err)
			continue
		}
		if filter != nil && !filter(key) {
			continue
		}
		value, err := b.ReadKey(key)
		if err != nil {
			ui.Debug("Skipping key %s: %v", key, err)
			continue
		}
		result = append(result, value)
	}
	return result, nil
}

// FanCount reads the number of fans reported by the SMC, capped at MaxFans
func (b *Bridge) FanCount() (int, error) {
	value, err := b.ReadKey(MustParseKey(KeyFanCount))
	if err != nil {
		return 0, err
	}
	count := int(DecodeUnsignedInteger(value.Bytes[:], value.DataSize))
	if count > MaxFans {
		ui.Debug("SMC reports %d fans, only the first %d are listed", count, MaxFans)
		count = MaxFans
	}
	return count, nil
}

// ReadFans reads all registers of every fan
func (b *Bridge) ReadFans() ([]FanInfo, error) {
	count, err := b.FanCount()
	if err != nil {
		return nil, err
	}

	var mode uint32
	if value, err := b.ReadKey(MustParseKey(KeyFanMode)); err == nil {
		mode = DecodeUnsignedInteger(value.Bytes[:], 2)
	}

	fans := make([]FanInfo, 0, count)
	for i := 0; i < count; i++ {
		info := FanInfo{
			Index:  i,
			Forced: mode&(1<<uint(i)) != 0,
		}
		if value, err := b.ReadKey(FanKey(i, FanSuffixID)); err == nil && value.DataSize > 4 {
			info.ID = strings.TrimSpace(cString(value.Data()[4:]))
		}
		info.Actual = b.readSpeed(i, FanSuffixActual)
		info.Minimum = b.readSpeed(i, FanSuffixMinimum)
		info.Maximum = b.readSpeed(i, FanSuffixMaximum)
		info.Safe = b.readSpeed(i, FanSuffixSafe)
		info.Target = b.readSpeed(i, FanSuffixTarget)
		fans = append(fans, info)
	}
	return fans, nil
}

func (b *Bridge) readSpeed(fan int, suffix string) float32 {
	value, err := b.ReadKey(FanKey(fan, suffix))
	if err != nil {
		ui.Debug("Cannot read %s: %v", FanKey(fan, suffix), err)
		return 0
	}
	return DecodeSignedFixedPoint(value.Bytes[:], value.DataSize, 2)
}

// cString returns the data up to the first NUL byte
func cString(data []byte) string {
	if i := bytes.IndexByte(data, 0); i >= 0 {
		data = data[:i]
	}
	return string(data)
}
