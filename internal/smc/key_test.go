package smc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncodeDecodeKey_RoundTrip(t *testing.T) {
	for _, name := range []string{"TCXC", "TC0P", "FNum", "F0Mn", "F4Ac", "#KEY", "FS! ", "{pwm", "~~~~"} {
		// GIVEN
		key, err := ParseKey(name)
		assert.NoError(t, err)

		// WHEN
		result := DecodeKey(EncodeKey(key))

		// THEN
		assert.Equal(t, key, result)
		assert.Equal(t, name, result.String())
	}
}

func TestEncodeKey_BigEndian(t *testing.T) {
	// GIVEN
	key := MustParseKey("FNum")

	// WHEN
	result := EncodeKey(key)

	// THEN
	assert.Equal(t, uint32('F')<<24|uint32('N')<<16|uint32('u')<<8|uint32('m'), result)
}

func TestParseKey_Padding(t *testing.T) {
	// WHEN
	key, err := ParseKey("ab")

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, Key{'a', 'b', 0, 0}, key)
	assert.Equal(t, "ab", key.String())
	assert.Equal(t, key, DecodeKey(EncodeKey(key)))
}

func TestParseKey_Invalid(t *testing.T) {
	for _, name := range []string{"", "TOOLONG", "T\x01XC", "Tä"} {
		_, err := ParseKey(name)
		assert.Error(t, err, name)
	}
}

func TestFanKey(t *testing.T) {
	assert.Equal(t, "F0Mn", FanKey(0, FanSuffixMinimum).String())
	assert.Equal(t, "F3Ac", FanKey(3, FanSuffixActual).String())
	assert.Equal(t, "F1ID", FanKey(1, FanSuffixID).String())
}
