package seep

import (
	"context"
	"fmt"
	"time"

	"github.com/tgray/seep/trace"
)

// Confidence grades how much to trust an inferred profile.
type Confidence uint8

const (
	ConfidenceNone       Confidence = iota // no boundary read succeeded
	ConfidenceBehavioral                   // capacity inferred from read behavior
)

func (c Confidence) String() string {
	switch c {
	case ConfidenceBehavioral:
		return "behavioral"
	case ConfidenceNone:
		return "none"
	}
	return fmt.Sprintf("Confidence(%d)", uint8(c))
}

// Detection reports the outcome of a bus scan. Profile is advisory: the
// capacity is inferred from how far test reads keep succeeding, never from
// a chip ID, and is nil when no boundary read succeeded.
type Detection struct {
	Addr       Addr
	Profile    *Profile
	Confidence Confidence
}

// sizeBoundaries are the capacities probed during size inference, ascending.
// Parts larger than the last boundary read identically at every probe, so
// inference caps there.
var sizeBoundaries = []int{128, 256, 512, 1024, 2048, 4096}

// Detect scans the candidate address range, makes the lowest responder the
// working address, and infers a capacity for it by reading just below each
// size boundary. Detection never mutates device contents: every bus write it
// issues carries an empty payload.
func (e *Engine) Detect(ctx context.Context) (Detection, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.begin(trace.OpDetect, StateDetecting); err != nil {
		return Detection{}, err
	}
	defer e.end()

	addr, err := e.scan(ctx)
	if err != nil {
		return Detection{}, err
	}
	e.addr = addr
	e.event(trace.Event{Op: trace.OpDetect, Category: trace.CategoryState, Message: "device at " + addr.String()})

	size, err := e.inferSize(ctx)
	if err != nil {
		return Detection{}, err
	}
	det := Detection{Addr: addr}
	if p, ok := profileBySize(size); ok {
		det.Profile = &p
		det.Confidence = ConfidenceBehavioral
		e.event(trace.Event{Op: trace.OpDetect, Category: trace.CategoryState, Length: size, Message: "inferred " + p.Name})
	}
	return det, nil
}

// scan probes 0x50 through 0x57 and returns the lowest acking address.
func (e *Engine) scan(ctx context.Context) (Addr, error) {
	var found []Addr
	for addr := scanFirst; addr <= scanLast; addr++ {
		if err := ctx.Err(); err != nil {
			return 0, fmt.Errorf("cancelled at %s: %w", addr, err)
		}
		err := retry(e.policy.Attempts, e.policy.Interval, func() error {
			if !e.tr.Probe(addr) {
				return ErrDeviceNotResponding
			}
			return nil
		})
		if err == nil {
			found = append(found, addr)
			e.event(trace.Event{Op: trace.OpDetect, Category: trace.CategoryState, Addr: uint16(addr), Message: "ack"})
		}
	}
	if len(found) == 0 {
		e.event(trace.Event{Op: trace.OpDetect, Category: trace.CategoryError, Err: ErrNoDevice.Error()})
		return 0, ErrNoDevice
	}
	return found[0], nil
}

// inferSize reads one chunk just below each boundary, narrow-addressed below
// the wide threshold and wide-addressed at or above it, and returns the
// largest boundary that still reads back. The first failing boundary ends
// the probe; 0 means not even the smallest boundary read.
func (e *Engine) inferSize(ctx context.Context) (int, error) {
	buf := make([]byte, maxBlock)
	size := 0
	for _, boundary := range sizeBoundaries {
		if err := ctx.Err(); err != nil {
			return 0, fmt.Errorf("cancelled at boundary %d: %w", boundary, err)
		}

		width := Addr8
		if boundary >= wideThreshold {
			width = Addr16
		}
		off := boundary - maxBlock
		err := retry(e.policy.Attempts, e.policy.Interval, func() error {
			if err := e.tr.WriteBlock(e.addr, width.WordAddress(off), nil); err != nil {
				return err
			}
			time.Sleep(e.policy.Settle)
			return e.tr.ReadBlock(e.addr, buf)
		})
		if err != nil {
			break
		}
		size = boundary
	}
	return size, nil
}
