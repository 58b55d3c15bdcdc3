//go:build darwin && cgo

package smc

/*
#cgo LDFLAGS: -framework IOKit -framework CoreFoundation
#include <IOKit/IOKitLib.h>

static kern_return_t keepcool_smc_open(io_connect_t *conn) {
	io_iterator_t iterator;
	kern_return_t result = IOServiceGetMatchingServices(MACH_PORT_NULL, IOServiceMatching("AppleSMC"), &iterator);
	if (result != kIOReturnSuccess) {
		return result;
	}
	io_object_t device = IOIteratorNext(iterator);
	IOObjectRelease(iterator);
	if (device == 0) {
		return kIOReturnNoDevice;
	}
	result = IOServiceOpen(device, mach_task_self(), 0, conn);
	IOObjectRelease(device);
	return result;
}

static kern_return_t keepcool_smc_call(io_connect_t conn, uint32_t selector, const void *input, void *output, size_t size) {
	size_t outputSize = size;
	return IOConnectCallStructMethod(conn, selector, input, size, output, &outputSize);
}
*/
import "C"

import (
	"fmt"
	"sync"
	"unsafe"
)

// IOKitChannel talks to the AppleSMC kernel service
type IOKitChannel struct {
	mu   sync.Mutex
	conn C.io_connect_t
}

// OpenIOKit opens a connection to the AppleSMC service
func OpenIOKit() (Channel, error) {
	var conn C.io_connect_t
	if result := C.keepcool_smc_open(&conn); result != C.kIOReturnSuccess {
		return nil, fmt.Errorf("AppleSMC service not available: %#08x", uint32(result))
	}
	return &IOKitChannel{conn: conn}, nil
}

func (c *IOKitChannel) Call(request [BlockSize]byte) ([BlockSize]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var response [BlockSize]byte
	result := C.keepcool_smc_call(
		c.conn,
		C.uint32_t(kernelIndexSMC),
		unsafe.Pointer(&request[0]),
		unsafe.Pointer(&response[0]),
		C.size_t(BlockSize),
	)
	if result != C.kIOReturnSuccess {
		return response, fmt.Errorf("IOConnectCallStructMethod: %#08x", uint32(result))
	}
	return response, nil
}

func (c *IOKitChannel) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if result := C.IOServiceClose(c.conn); result != C.kIOReturnSuccess {
		return fmt.Errorf("IOServiceClose: %#08x", uint32(result))
	}
	return nil
}
