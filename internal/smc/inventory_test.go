package smc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadKeys_Temperatures(t *testing.T) {
	// GIVEN
	bridge, _ := createBridge()

	// WHEN
	values, err := bridge.ReadKeys(IsTemperatureKey)

	// THEN
	require.NoError(t, err)
	var names []string
	for _, v := range values {
		names = append(names, v.Key.String())
		assert.Equal(t, DataTypeSP78, v.DataType)
	}
	assert.Equal(t, []string{"TC0P", "TCXC", "TG0P", "Ts0P"}, names)
}

func TestReadKeys_SkipsUnreadableKeys(t *testing.T) {
	// GIVEN
	bridge, simulator := createBridge()
	simulator.Fail(MustParseKey("TG0P"), CommandReadBytes, ResultFailure)

	// WHEN
	values, err := bridge.ReadKeys(IsTemperatureKey)

	// THEN
	require.NoError(t, err)
	assert.Len(t, values, 3)
}

func TestReadFans(t *testing.T) {
	// GIVEN
	bridge, simulator := createBridge()
	simulator.SetFanSpeeds(1, 3050, 3120)
	simulator.SetRegister(MustParseKey(KeyFanMode), DataTypeUInt16, []byte{0x00, 0x02})

	// WHEN
	fans, err := bridge.ReadFans()

	// THEN
	require.NoError(t, err)
	require.Len(t, fans, 2)

	assert.Equal(t, FanInfo{
		Index: 0, ID: "Fan 0",
		Actual: 2000, Minimum: 2000, Maximum: 6200, Safe: 2000, Target: 2000,
		Forced: false,
	}, fans[0])
	assert.Equal(t, "Fan 1", fans[1].ID)
	assert.Equal(t, float32(3050), fans[1].Minimum)
	assert.Equal(t, float32(3120), fans[1].Actual)
	assert.True(t, fans[1].Forced)
}

func TestReadFans_FanCountCapped(t *testing.T) {
	// GIVEN
	bridge, simulator := createBridge()
	simulator.SetRegister(MustParseKey(KeyFanCount), DataTypeUInt8, []byte{12})

	// WHEN
	var fans []FanInfo
	var err error
	assert.NotPanics(t, func() {
		fans, err = bridge.ReadFans()
	})

	// THEN
	require.NoError(t, err)
	require.Len(t, fans, MaxFans)
	assert.Equal(t, "Fan 1", fans[1].ID)
	assert.Equal(t, "", fans[MaxFans-1].ID)
	assert.Equal(t, float32(0), fans[MaxFans-1].Actual)
}

func TestFanCount_Capped(t *testing.T) {
	// GIVEN
	bridge, simulator := createBridge()
	simulator.SetRegister(MustParseKey(KeyFanCount), DataTypeUInt8, []byte{0xff})

	// WHEN
	count, err := bridge.FanCount()

	// THEN
	require.NoError(t, err)
	assert.Equal(t, MaxFans, count)
}
