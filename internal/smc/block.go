package smc

import (
	"encoding/binary"
)

// BlockSize is the size of the key data block exchanged with the SMC driver
const BlockSize = 80

// selector of the SMC user client method taking a key data block
const kernelIndexSMC = 2

// Command is the operation requested in a key data block
type Command uint8

const (
	CommandReadBytes      Command = 5
	CommandWriteBytes     Command = 6
	CommandReadIndex      Command = 8
	CommandReadKeyInfo    Command = 9
	CommandReadPowerLimit Command = 11
	CommandReadVersion    Command = 12
)

func (c Command) String() string {
	switch c {
	case CommandReadBytes:
		return "read bytes"
	case CommandWriteBytes:
		return "write bytes"
	case CommandReadIndex:
		return "read index"
	case CommandReadKeyInfo:
		return "read key info"
	case CommandReadPowerLimit:
		return "read power limit"
	case CommandReadVersion:
		return "read version"
	default:
		return "unknown"
	}
}

// result codes reported by the SMC in a response block
const (
	ResultSuccess     uint8 = 0
	ResultFailure     uint8 = 1
	ResultKeyNotFound uint8 = 0x84
)

type VersionInfo struct {
	Major    uint8
	Minor    uint8
	Build    uint8
	Reserved uint8
	Release  uint16
}

type PowerLimitInfo struct {
	Version  uint16
	Length   uint16
	CPULimit uint32
	GPULimit uint32
	MemLimit uint32
}

// KeyInfo describes how to interpret the payload of a key
type KeyInfo struct {
	DataSize   uint32
	DataType   uint32
	Attributes uint8
}

// Type returns the unpacked type tag
func (i KeyInfo) Type() DataType {
	return DataTypeFromUint32(i.DataType)
}

// KeyData is the request/response block of the SMC user client.
// The same layout is used in both directions.
type KeyData struct {
	Key        uint32
	Version    VersionInfo
	PowerLimit PowerLimitInfo
	KeyInfo    KeyInfo
	Result     uint8
	Status     uint8
	Command    Command
	Index      uint32
	Bytes      [PayloadSize]byte
}

// field offsets of the C struct layout (natural alignment)
const (
	offsetKey             = 0
	offsetVersionMajor    = 4
	offsetVersionMinor    = 5
	offsetVersionBuild    = 6
	offsetVersionReserved = 7
	offsetVersionRelease  = 8
	offsetPLimitVersion   = 12
	offsetPLimitLength    = 14
	offsetPLimitCPU       = 16
	offsetPLimitGPU       = 20
	offsetPLimitMem       = 24
	offsetKeyInfoSize     = 28
	offsetKeyInfoType     = 32
	offsetKeyInfoAttr     = 36
	offsetResult          = 40
	offsetStatus          = 41
	offsetCommand         = 42
	offsetIndex           = 44
	offsetBytes           = 48
)

// blockOrder is the byte order of the numeric fields in the block.
// The driver expects host order, all supported hosts are little-endian.
var blockOrder = binary.LittleEndian

// Encode serializes the block in the driver's memory layout
func (d KeyData) Encode() [BlockSize]byte {
	var b [BlockSize]byte
	blockOrder.PutUint32(b[offsetKey:], d.Key)

	b[offsetVersionMajor] = d.Version.Major
	b[offsetVersionMinor] = d.Version.Minor
	b[offsetVersionBuild] = d.Version.Build
	b[offsetVersionReserved] = d.Version.Reserved
	blockOrder.PutUint16(b[offsetVersionRelease:], d.Version.Release)

	blockOrder.PutUint16(b[offsetPLimitVersion:], d.PowerLimit.Version)
	blockOrder.PutUint16(b[offsetPLimitLength:], d.PowerLimit.Length)
	blockOrder.PutUint32(b[offsetPLimitCPU:], d.PowerLimit.CPULimit)
	blockOrder.PutUint32(b[offsetPLimitGPU:], d.PowerLimit.GPULimit)
	blockOrder.PutUint32(b[offsetPLimitMem:], d.PowerLimit.MemLimit)

	blockOrder.PutUint32(b[offsetKeyInfoSize:], d.KeyInfo.DataSize)
	blockOrder.PutUint32(b[offsetKeyInfoType:], d.KeyInfo.DataType)
	b[offsetKeyInfoAttr] = d.KeyInfo.Attributes

	b[offsetResult] = d.Result
	b[offsetStatus] = d.Status
	b[offsetCommand] = uint8(d.Command)
	blockOrder.PutUint32(b[offsetIndex:], d.Index)
	copy(b[offsetBytes:], d.Bytes[:])
	return b
}

// DecodeKeyData parses a block produced by Encode or by the driver
func DecodeKeyData(b [BlockSize]byte) KeyData {
	d := KeyData{
		Key: blockOrder.Uint32(b[offsetKey:]),
		Version: VersionInfo{
			Major:    b[offsetVersionMajor],
			Minor:    b[offsetVersionMinor],
			Build:    b[offsetVersionBuild],
			Reserved: b[offsetVersionReserved],
			Release:  blockOrder.Uint16(b[offsetVersionRelease:]),
		},
		PowerLimit: PowerLimitInfo{
			Version:  blockOrder.Uint16(b[offsetPLimitVersion:]),
			Length:   blockOrder.Uint16(b[offsetPLimitLength:]),
			CPULimit: blockOrder.Uint32(b[offsetPLimitCPU:]),
			GPULimit: blockOrder.Uint32(b[offsetPLimitGPU:]),
			MemLimit: blockOrder.Uint32(b[offsetPLimitMem:]),
		},
		KeyInfo: KeyInfo{
			DataSize:   blockOrder.Uint32(b[offsetKeyInfoSize:]),
			DataType:   blockOrder.Uint32(b[offsetKeyInfoType:]),
			Attributes: b[offsetKeyInfoAttr],
		},
		Result:  b[offsetResult],
		Status:  b[offsetStatus],
		Command: Command(b[offsetCommand]),
		Index:   blockOrder.Uint32(b[offsetIndex:]),
	}
	copy(d.Bytes[:], b[offsetBytes:])
	return d
}
