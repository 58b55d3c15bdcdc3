package smc

import (
	"fmt"
	"sync"
)

// Bridge is the only way to access the SMC. It owns the channel and serializes
// every operation on it, so a single key read or write is never interleaved with
// another one, even if it is issued from a different goroutine.
type Bridge struct {
	mu      sync.Mutex
	channel Channel
	cache   *KeyInfoCache
}

func NewBridge(channel Channel, cache *KeyInfoCache) *Bridge {
	if cache == nil {
		cache = NewKeyInfoCache(KeyInfoCacheSize)
	}
	return &Bridge{
		channel: channel,
		cache:   cache,
	}
}

// Open opens the channel described by config and returns a Bridge using it
func Open(config ChannelConfig) (*Bridge, error) {
	channel, err := OpenChannel(config)
	if err != nil {
		return nil, err
	}
	return NewBridge(channel, NewKeyInfoCache(KeyInfoCacheSize)), nil
}

// Close releases the channel. Subsequent calls fail with ErrClosed.
func (b *Bridge) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.channel == nil {
		return nil
	}
	err := b.channel.Close()
	b.channel = nil
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConnection, err)
	}
	return nil
}

// KeyInfo returns the metadata of key, querying the SMC only if it is not cached yet
func (b *Bridge) KeyInfo(key Key) (KeyInfo, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	info, err := b.keyInfo(key)
	if err != nil {
		return info, &BridgeError{Op: "read key info", Key: key, Kind: ErrKeyInfoUnavailable, Err: err}
	}
	return info, nil
}

// ReadKey reads the current payload of key
func (b *Bridge) ReadKey(key Key) (Value, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.readKey(key)
}

// WriteKey writes value.Bytes to value.Key. The register is read first and the write
// is refused with ErrSizeMismatch if value.DataSize does not match the register size.
func (b *Bridge) WriteKey(value Value) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	current, err := b.readKey(value.Key)
	if err != nil {
		return err
	}
	if current.DataSize != value.DataSize {
		return &BridgeError{
			Op:   "write",
			Key:  value.Key,
			Kind: ErrSizeMismatch,
			Err:  fmt.Errorf("register has %d bytes, value has %d", current.DataSize, value.DataSize),
		}
	}

	request := KeyData{
		Key:     EncodeKey(value.Key),
		Command: CommandWriteBytes,
		KeyInfo: KeyInfo{DataSize: value.DataSize},
		Bytes:   value.Bytes,
	}
	_, err = b.call(request)
	if err != nil {
		return &BridgeError{Op: "write", Key: value.Key, Kind: ErrWriteFailed, Err: err}
	}
	return nil
}

// KeyCount returns the total number of keys known to the SMC
func (b *Bridge) KeyCount() (uint32, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	value, err := b.readKey(MustParseKey(KeyCount))
	if err != nil {
		return 0, err
	}
	return DecodeUnsignedInteger(value.Bytes[:], value.DataSize), nil
}

// KeyAt returns the name of the key at the given index in [0..KeyCount)
func (b *Bridge) KeyAt(index uint32) (Key, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	response, err := b.call(KeyData{
		Command: CommandReadIndex,
		Index:   index,
	})
	if err != nil {
		return Key{}, &BridgeError{Op: fmt.Sprintf("read index %d", index), Kind: ErrReadFailed, Err: err}
	}
	return DecodeKey(response.Key), nil
}

func (b *Bridge) keyInfo(key Key) (KeyInfo, error) {
	if info, ok := b.cache.Lookup(key); ok {
		return info, nil
	}

	response, err := b.call(KeyData{
		Key:     EncodeKey(key),
		Command: CommandReadKeyInfo,
	})
	if err != nil {
		return KeyInfo{}, err
	}

	b.cache.Insert(key, response.KeyInfo)
	return response.KeyInfo, nil
}

func (b *Bridge) readKey(key Key) (Value, error) {
	value := Value{Key: key}

	info, err := b.keyInfo(key)
	if err != nil {
		return value, &BridgeError{Op: "read", Key: key, Kind: ErrKeyInfoUnavailable, Err: err}
	}
	value.DataSize = info.DataSize
	value.DataType = info.Type()

	response, err := b.call(KeyData{
		Key:     EncodeKey(key),
		Command: CommandReadBytes,
		KeyInfo: KeyInfo{DataSize: info.DataSize},
	})
	if err != nil {
		return value, &BridgeError{Op: "read", Key: key, Kind: ErrReadFailed, Err: err}
	}

	value.Bytes = response.Bytes
	return value, nil
}

// call performs a single exchange, b.mu must be held
func (b *Bridge) call(request KeyData) (KeyData, error) {
	if b.channel == nil {
		return KeyData{}, ErrClosed
	}

	raw, err := b.channel.Call(request.Encode())
	if err != nil {
		return KeyData{}, err
	}

	response := DecodeKeyData(raw)
	if response.Result != ResultSuccess {
		return response, &ResultError{Command: request.Command, Code: response.Result}
	}
	return response, nil
}
