package smc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func call(s *Simulator, request KeyData) KeyData {
	response, err := s.Call(request.Encode())
	if err != nil {
		panic(err)
	}
	return DecodeKeyData(response)
}

func TestSimulator_ReadKeyInfo(t *testing.T) {
	// GIVEN
	s := NewDefaultSimulator(1)

	// WHEN
	response := call(s, KeyData{Key: EncodeKey(MustParseKey(KeyFanCount)), Command: CommandReadKeyInfo})

	// THEN
	assert.Equal(t, ResultSuccess, response.Result)
	assert.Equal(t, uint32(1), response.KeyInfo.DataSize)
	assert.Equal(t, DataTypeUInt8, response.KeyInfo.Type())
}

func TestSimulator_UnknownKey(t *testing.T) {
	// GIVEN
	s := NewDefaultSimulator(1)

	// WHEN
	response := call(s, KeyData{Key: EncodeKey(MustParseKey("NOPE")), Command: CommandReadBytes})

	// THEN
	assert.Equal(t, ResultKeyNotFound, response.Result)
}

func TestSimulator_WriteRejectsSizeMismatch(t *testing.T) {
	// GIVEN
	s := NewDefaultSimulator(1)
	request := KeyData{
		Key:     EncodeKey(FanKey(0, FanSuffixMinimum)),
		Command: CommandWriteBytes,
		KeyInfo: KeyInfo{DataSize: 1},
	}

	// WHEN
	response := call(s, request)

	// THEN
	assert.Equal(t, ResultFailure, response.Result)
	assert.Equal(t, uint32(2000), s.FanMinimum(0))
}

func TestSimulator_UnknownCommand(t *testing.T) {
	// GIVEN
	s := NewDefaultSimulator(1)

	// WHEN
	response := call(s, KeyData{Command: CommandReadVersion})

	// THEN
	assert.Equal(t, ResultFailure, response.Result)
	assert.Equal(t, uint64(1), s.Requests(CommandReadVersion))
}

func TestSimulator_KeyCountTracksRegisters(t *testing.T) {
	// GIVEN
	s := NewSimulator()

	// WHEN
	s.SetTemperature(MustParseKey("TC0P"), 40)
	s.SetTemperature(MustParseKey("TC0P"), 41)

	// THEN
	data, ok := s.Register(MustParseKey(KeyCount))
	assert.True(t, ok)
	assert.Equal(t, uint32(2), DecodeUnsignedInteger(data, 4))
}

func TestSimulator_Closed(t *testing.T) {
	// GIVEN
	s := NewDefaultSimulator(1)

	// WHEN
	assert.NoError(t, s.Close())

	// THEN
	_, err := s.Call(KeyData{}.Encode())
	assert.Error(t, err)
	assert.Error(t, s.Close())
}
