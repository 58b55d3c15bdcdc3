package smc

import (
	"bytes"
	"fmt"
)

// Key is the 4 character name of an SMC register, e.g. "TC0P" or "F0Mn".
// Shorter names are stored NUL padded.
type Key [4]byte

const (
	KeyCount    = "#KEY"
	KeyFanCount = "FNum"
	KeyFanMode  = "FS! "
)

// MaxFans is the highest fan count addressable with single digit fan keys
const MaxFans = 5

// per fan key suffixes, see FanKey
const (
	FanSuffixID      = "ID"
	FanSuffixActual  = "Ac"
	FanSuffixMinimum = "Mn"
	FanSuffixMaximum = "Mx"
	FanSuffixSafe    = "Sf"
	FanSuffixTarget  = "Tg"
)

// ParseKey validates the given name and converts it to a Key
func ParseKey(name string) (Key, error) {
	var key Key
	if len(name) < 1 || len(name) > len(key) {
		return key, fmt.Errorf("invalid key '%s': must be 1 to 4 characters long", name)
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c < 0x20 || c > 0x7e {
			return key, fmt.Errorf("invalid key '%s': contains non printable character %#02x", name, c)
		}
		key[i] = c
	}
	return key, nil
}

// MustParseKey is like ParseKey but panics on invalid names.
// Only use it for compile time constants.
func MustParseKey(name string) Key {
	key, err := ParseKey(name)
	if err != nil {
		panic(err)
	}
	return key
}

// FanKey returns the key of a per fan register, e.g. FanKey(1, FanSuffixMinimum) == "F1Mn"
func FanKey(index int, suffix string) Key {
	return MustParseKey(fmt.Sprintf("F%d%s", index, suffix))
}

func (k Key) String() string {
	return string(bytes.TrimRight(k[:], "\x00"))
}

// EncodeKey packs the 4 characters of the key big-endian into an uint32,
// the representation used in the key field of the SMC key data block.
func EncodeKey(key Key) uint32 {
	return DecodeUnsignedInteger(key[:], uint32(len(key)))
}

// DecodeKey is the inverse of EncodeKey
func DecodeKey(value uint32) Key {
	return Key{
		byte(value >> 24),
		byte(value >> 16),
		byte(value >> 8),
		byte(value),
	}
}
