package seep

import (
	"errors"
	"fmt"
	"sync/atomic"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"
	"periph.io/x/host/v3/ftdi"
)

var hostInitialized atomic.Bool

// OpenFTDI finds an FT232H bridge and opens its MPSSE/I2C engine at the
// given clock. It satisfies OpenFunc.
func OpenFTDI(clock physic.Frequency) (Transport, error) {
	if hostInitialized.CompareAndSwap(false, true) {
		if _, err := host.Init(); err != nil {
			return nil, fmt.Errorf("host initialization failed: %w", err)
		}
	}

	ft, err := findFT232H()
	if err != nil {
		return nil, err
	}

	// [FTDI-AN_113|2.1] MPSSE I2C needs the lines pulled up; the FT232H has
	// weak internal pull-ups on ADBUS.
	bus, err := ft.I2C(gpio.PullUp)
	if err != nil {
		return nil, fmt.Errorf("failed to open I2C bus: %w", err)
	}
	if err := bus.SetSpeed(clock); err != nil {
		bus.Close()
		return nil, fmt.Errorf("failed to set bus clock: %w", err)
	}

	return &ftdiBus{bus: bus}, nil
}

func findFT232H() (*ftdi.FT232H, error) {
	const (
		vendorID  = 0x0403 // FTDI
		productID = 0x6014 // FT232H
	)

	info := ftdi.Info{}
	for _, dev := range ftdi.All() {
		dev.Info(&info)
		if info.VenID != vendorID || info.DevID != productID {
			continue
		}
		if ft, ok := dev.(*ftdi.FT232H); ok {
			return ft, nil
		}
	}

	return nil, errors.New("FT232H device not found")
}

// ftdiBus adapts an i2c.BusCloser to the Transport contract. Every method
// is one bus transaction; no retries here.
type ftdiBus struct {
	bus    i2c.BusCloser
	closed bool
}

var _ Transport = (*ftdiBus)(nil)

func (f *ftdiBus) Probe(addr Addr) bool {
	return f.bus.Tx(uint16(addr), nil, nil) == nil
}

func (f *ftdiBus) WriteBlock(addr Addr, prefix, payload []byte) error {
	w := make([]byte, len(prefix)+len(payload))
	copy(w, prefix)
	copy(w[len(prefix):], payload)
	return f.bus.Tx(uint16(addr), w, nil)
}

func (f *ftdiBus) ReadBlock(addr Addr, buf []byte) error {
	return f.bus.Tx(uint16(addr), nil, buf)
}

func (f *ftdiBus) Close() error {
	if f.closed {
		return nil
	}
	f.closed = true
	return f.bus.Close()
}
