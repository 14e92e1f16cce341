package seep

import (
	"fmt"

	"periph.io/x/conn/v3/physic"
)

// Addr is a 7-bit I2C slave address.
type Addr uint16

const (
	// AddrMin..AddrMax bound the address range of the 24Cxx family. The low
	// bits come from the A2..A0 strap pins, where the part has them.
	// [AT24C02D|6.0 Device Addressing]
	AddrMin Addr = 0x50
	AddrMax Addr = 0x5D

	// DefaultAddr is a part with all strap pins low.
	DefaultAddr Addr = 0x50

	// Detect probes scanFirst..scanLast, the eight fully strappable addresses.
	scanFirst Addr = 0x50
	scanLast  Addr = 0x57
)

// Valid reports whether a lies in the family's address range.
func (a Addr) Valid() bool { return a >= AddrMin && a <= AddrMax }

func (a Addr) String() string { return fmt.Sprintf("0x%02X", uint16(a)) }

// Transport is the capability boundary to the physical or simulated bus.
// Implementations perform single transactions and never retry internally;
// retry policy lives in the Engine. Calls on one Transport are serialized
// by the Engine.
type Transport interface {
	// Probe issues a zero-length transaction and reports acknowledgement.
	Probe(addr Addr) bool

	// WriteBlock sends the word-address prefix (0, 1 or 2 bytes) followed by
	// payload in one transaction. An empty payload only sets the device's
	// internal address pointer.
	WriteBlock(addr Addr, prefix, payload []byte) error

	// ReadBlock fills buf sequentially from the device's current address
	// pointer.
	ReadBlock(addr Addr, buf []byte) error

	// Close releases the link. Idempotent.
	Close() error
}

// OpenFunc opens a transport at the given bus clock. Selecting the real
// bridge or the simulator happens here, at construction time.
type OpenFunc func(clock physic.Frequency) (Transport, error)
