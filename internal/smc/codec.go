package smc

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// PayloadSize is the capacity of the data buffer of every SMC value
const PayloadSize = 32

// DataType is the 4 character type tag of an SMC register
type DataType string

const (
	DataTypeFP1F DataType = "fp1f"
	DataTypeFP4C DataType = "fp4c"
	DataTypeFP5B DataType = "fp5b"
	DataTypeFP6A DataType = "fp6a"
	DataTypeFP79 DataType = "fp79"
	DataTypeFP88 DataType = "fp88"
	DataTypeFPA6 DataType = "fpa6"
	DataTypeFPC4 DataType = "fpc4"
	DataTypeFPE2 DataType = "fpe2"

	DataTypeSP1E DataType = "sp1e"
	DataTypeSP3C DataType = "sp3c"
	DataTypeSP4B DataType = "sp4b"
	DataTypeSP5A DataType = "sp5a"
	DataTypeSP69 DataType = "sp69"
	DataTypeSP78 DataType = "sp78"
	DataTypeSP87 DataType = "sp87"
	DataTypeSP96 DataType = "sp96"
	DataTypeSPB4 DataType = "spb4"
	DataTypeSPF0 DataType = "spf0"

	DataTypeUInt8  DataType = "ui8 "
	DataTypeUInt16 DataType = "ui16"
	DataTypeUInt32 DataType = "ui32"

	DataTypeSInt8  DataType = "si8 "
	DataTypeSInt16 DataType = "si16"

	DataTypePWM  DataType = "{pwm"
	DataTypeFlag DataType = "flag"
	DataTypeFDS  DataType = "{fds"
)

var ErrUnsupportedDataType = errors.New("unsupported data type")

// fixed point formats stored in 2 bytes, mapped to their divisor
var (
	unsignedFixedPointDivisors = map[DataType]float64{
		DataTypeFP1F: 32768,
		DataTypeFP4C: 4096,
		DataTypeFP5B: 2048,
		DataTypeFP6A: 1024,
		DataTypeFP79: 512,
		DataTypeFP88: 256,
		DataTypeFPA6: 64,
		DataTypeFPC4: 16,
		DataTypeFPE2: 4,
		// spf0 is read unsigned by the vendor tools
		DataTypeSPF0: 1,
	}
	signedFixedPointDivisors = map[DataType]float64{
		DataTypeSP1E: 16384,
		DataTypeSP3C: 4096,
		DataTypeSP4B: 2048,
		DataTypeSP5A: 1024,
		DataTypeSP69: 512,
		DataTypeSP78: 256,
		DataTypeSP87: 128,
		DataTypeSP96: 64,
		DataTypeSPB4: 16,
	}
)

// DataTypeFromUint32 converts the packed type tag of a KeyInfo
func DataTypeFromUint32(value uint32) DataType {
	return DataType(DecodeKey(value).String())
}

// Uint32 packs the type tag the way it is transferred in a KeyInfo
func (t DataType) Uint32() uint32 {
	var key Key
	copy(key[:], t)
	return EncodeKey(key)
}

// Value is the raw payload of a register together with its metadata.
// Only the first DataSize bytes of Bytes are meaningful.
type Value struct {
	Key      Key
	DataSize uint32
	DataType DataType
	Bytes    [PayloadSize]byte
}

// Data returns the meaningful part of the payload
func (v Value) Data() []byte {
	return v.Bytes[:boundedSize(v.Bytes[:], v.DataSize)]
}

// boundedSize limits size to the buffer capacity and PayloadSize
func boundedSize(data []byte, size uint32) int {
	n := int(size)
	if n > len(data) {
		n = len(data)
	}
	if n > PayloadSize {
		n = PayloadSize
	}
	if n < 0 {
		n = 0
	}
	return n
}

// DecodeUnsignedInteger accumulates up to size bytes big-endian
func DecodeUnsignedInteger(data []byte, size uint32) uint32 {
	n := boundedSize(data, size)
	var total uint32
	for i := 0; i < n; i++ {
		total += uint32(data[i]) << (uint(n-1-i) * 8)
	}
	return total
}

// DecodeSignedFixedPoint decodes a fixed point value where the lowest fractionalBits bits
// of the last byte are fractional. Every byte but the last one is shifted by
// (8-fractionalBits) per position, the last one contributes its integer bits only.
// Any of the 2 lowest bits of the last byte add a quarter unit each, which is how the
// SMC firmware reports its sub-LSB precision.
func DecodeSignedFixedPoint(data []byte, size uint32, fractionalBits uint) float32 {
	n := boundedSize(data, size)
	if n == 0 {
		return 0
	}
	if fractionalBits > 8 {
		fractionalBits = 8
	}

	var total float32
	for i := 0; i < n; i++ {
		if i == n-1 {
			total += float32(data[i] >> fractionalBits)
		} else {
			total += float32(uint32(data[i]) << (uint(n-1-i) * (8 - fractionalBits)))
		}
	}
	total += float32(data[n-1]&0x03) * 0.25

	return total
}

// DecodeTemperature decodes a sp78 temperature in °C.
// The 2 lowest bits are reserved and discarded.
func DecodeTemperature(data []byte) float64 {
	if len(data) < 2 {
		return 0
	}
	value := (int(data[0])*256 + int(data[1])) >> 2
	return float64(value) / 64.0
}

// EncodeTemperature is the inverse of DecodeTemperature (with 1/64 °C resolution)
func EncodeTemperature(celsius float64) []byte {
	result := make([]byte, 2)
	binary.BigEndian.PutUint16(result, uint16(int16(celsius*64))<<2)
	return result
}

// EncodeFanSpeed encodes a speed in rpm in the fpe2 format used by the fan registers
func EncodeFanSpeed(rpm uint32) []byte {
	result := make([]byte, 2)
	binary.BigEndian.PutUint16(result, uint16(rpm<<2))
	return result
}

// DecodeFanSpeed decodes a fpe2 fan register
func DecodeFanSpeed(value Value) uint32 {
	return uint32(DecodeSignedFixedPoint(value.Bytes[:], value.DataSize, 2))
}

// DecodeNumeric interprets the payload of the given value according to its data type
func DecodeNumeric(value Value) (float64, error) {
	data := value.Data()

	switch value.DataType {
	case DataTypeUInt8, DataTypeUInt16, DataTypeUInt32:
		if len(data) == 0 {
			return 0, fmt.Errorf("%s: no data", value.Key)
		}
		return float64(DecodeUnsignedInteger(data, value.DataSize)), nil
	case DataTypeSInt8:
		if len(data) != 1 {
			break
		}
		return float64(int8(data[0])), nil
	case DataTypeSInt16:
		if len(data) != 2 {
			break
		}
		return float64(int16(binary.BigEndian.Uint16(data))), nil
	case DataTypePWM:
		if len(data) != 2 {
			break
		}
		return float64(binary.BigEndian.Uint16(data)) * 100 / 65536.0, nil
	default:
		if divisor, ok := unsignedFixedPointDivisors[value.DataType]; ok && len(data) == 2 {
			return float64(binary.BigEndian.Uint16(data)) / divisor, nil
		}
		if divisor, ok := signedFixedPointDivisors[value.DataType]; ok && len(data) == 2 {
			return float64(int16(binary.BigEndian.Uint16(data))) / divisor, nil
		}
	}

	return 0, fmt.Errorf("%s [%s] with %d bytes: %w", value.Key, value.DataType, len(data), ErrUnsupportedDataType)
}
