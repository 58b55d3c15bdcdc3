package smc

import (
	"fmt"
	"sync/atomic"

	"github.com/markusressel/keepcool/internal/util"
	cmap "github.com/orcaman/concurrent-map/v2"
)

type simulatedRegister struct {
	info KeyInfo
	data [PayloadSize]byte
}

// A Simulator is an in-memory SMC. It answers key data blocks like the real
// hardware does and should only be used for dev & tests.
type Simulator struct {
	registers cmap.ConcurrentMap[string, simulatedRegister]
	failures  cmap.ConcurrentMap[string, uint8]
	requests  [256]atomic.Uint64
	closed    atomic.Bool
}

func NewSimulator() *Simulator {
	s := &Simulator{
		registers: cmap.New[simulatedRegister](),
		failures:  cmap.New[uint8](),
	}
	s.SetRegister(MustParseKey(KeyCount), DataTypeUInt32, []byte{0, 0, 0, 0})
	return s
}

// NewDefaultSimulator returns a simulator resembling a MacBook Pro with the given number of fans
func NewDefaultSimulator(fans int) *Simulator {
	s := NewSimulator()
	s.SetRegister(MustParseKey(KeyFanCount), DataTypeUInt8, []byte{byte(fans)})
	s.SetRegister(MustParseKey(KeyFanMode), DataTypeUInt16, []byte{0, 0})
	for i := 0; i < fans; i++ {
		id := make([]byte, 16)
		copy(id[4:], fmt.Sprintf("Fan %d", i))
		s.SetRegister(FanKey(i, FanSuffixID), DataTypeFDS, id)
		s.SetFanSpeeds(i, 2000, 2000)
		s.SetRegister(FanKey(i, FanSuffixMaximum), DataTypeFPE2, EncodeFanSpeed(6200))
		s.SetRegister(FanKey(i, FanSuffixSafe), DataTypeFPE2, EncodeFanSpeed(2000))
		s.SetRegister(FanKey(i, FanSuffixTarget), DataTypeFPE2, EncodeFanSpeed(2000))
	}
	s.SetTemperature(MustParseKey("TCXC"), 48.5)
	s.SetTemperature(MustParseKey("TC0P"), 45.25)
	s.SetTemperature(MustParseKey("TG0P"), 41)
	s.SetTemperature(MustParseKey("Ts0P"), 31.75)
	return s
}

// SetRegister creates or replaces a register. The register size is len(data).
func (s *Simulator) SetRegister(key Key, dataType DataType, data []byte) {
	register := simulatedRegister{
		info: KeyInfo{
			DataSize: uint32(len(data)),
			DataType: dataType.Uint32(),
		},
	}
	copy(register.data[:], data)
	s.registers.Set(key.String(), register)

	count := make([]byte, 4)
	n := s.registers.Count()
	count[0], count[1], count[2], count[3] = byte(n>>24), byte(n>>16), byte(n>>8), byte(n)
	countRegister := simulatedRegister{info: KeyInfo{DataSize: 4, DataType: DataTypeUInt32.Uint32()}}
	copy(countRegister.data[:], count)
	s.registers.Set(KeyCount, countRegister)
}

// SetTemperature creates or updates a sp78 temperature sensor
func (s *Simulator) SetTemperature(key Key, celsius float64) {
	s.SetRegister(key, DataTypeSP78, EncodeTemperature(celsius))
}

// SetFanSpeeds updates the minimum and actual speed registers of a fan
func (s *Simulator) SetFanSpeeds(fan int, minimum uint32, actual uint32) {
	s.SetRegister(FanKey(fan, FanSuffixMinimum), DataTypeFPE2, EncodeFanSpeed(minimum))
	s.SetRegister(FanKey(fan, FanSuffixActual), DataTypeFPE2, EncodeFanSpeed(actual))
}

// Register returns the current payload of a register
func (s *Simulator) Register(key Key) ([]byte, bool) {
	register, ok := s.registers.Get(key.String())
	if !ok {
		return nil, false
	}
	return register.data[:register.info.DataSize], true
}

// FanMinimum returns the decoded minimum speed register of a fan
func (s *Simulator) FanMinimum(fan int) uint32 {
	data, ok := s.Register(FanKey(fan, FanSuffixMinimum))
	if !ok {
		return 0
	}
	return uint32(DecodeSignedFixedPoint(data, uint32(len(data)), 2))
}

// Fail makes every request of the given command for key fail with the given result code
func (s *Simulator) Fail(key Key, command Command, code uint8) {
	s.failures.Set(failureKey(key, command), code)
}

// Recover removes a failure previously set with Fail
func (s *Simulator) Recover(key Key, command Command) {
	s.failures.Remove(failureKey(key, command))
}

// Requests returns the number of handled requests of the given command
func (s *Simulator) Requests(command Command) uint64 {
	return s.requests[command].Load()
}

func (s *Simulator) Closed() bool {
	return s.closed.Load()
}

func (s *Simulator) Close() error {
	if s.closed.Swap(true) {
		return fmt.Errorf("simulator already closed")
	}
	return nil
}

func (s *Simulator) Call(raw [BlockSize]byte) ([BlockSize]byte, error) {
	if s.closed.Load() {
		return [BlockSize]byte{}, fmt.Errorf("simulator is closed")
	}

	request := DecodeKeyData(raw)
	s.requests[request.Command].Add(1)

	response := KeyData{Key: request.Key}
	key := DecodeKey(request.Key)

	if code, ok := s.failures.Get(failureKey(key, request.Command)); ok {
		response.Result = code
		return response.Encode(), nil
	}

	switch request.Command {
	case CommandReadKeyInfo:
		register, ok := s.registers.Get(key.String())
		if !ok {
			response.Result = ResultKeyNotFound
			break
		}
		response.KeyInfo = register.info
	case CommandReadBytes:
		register, ok := s.registers.Get(key.String())
		if !ok {
			response.Result = ResultKeyNotFound
			break
		}
		response.KeyInfo.DataSize = register.info.DataSize
		copy(response.Bytes[:], register.data[:register.info.DataSize])
	case CommandWriteBytes:
		register, ok := s.registers.Get(key.String())
		if !ok {
			response.Result = ResultKeyNotFound
			break
		}
		if request.KeyInfo.DataSize != register.info.DataSize {
			response.Result = ResultFailure
			break
		}
		copy(register.data[:register.info.DataSize], request.Bytes[:])
		s.registers.Set(key.String(), register)
	case CommandReadIndex:
		keys := util.SortedKeys(s.registers.Items())
		if int(request.Index) >= len(keys) {
			response.Result = ResultFailure
			break
		}
		name, _ := ParseKey(keys[request.Index])
		response.Key = EncodeKey(name)
	default:
		response.Result = ResultFailure
	}

	return response.Encode(), nil
}

func failureKey(key Key, command Command) string {
	return fmt.Sprintf("%s/%d", key, command)
}
