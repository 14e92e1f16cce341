package seep

import (
	"errors"
	"fmt"
)

var (
	// ErrNotConnected is returned by operations invoked without a live session.
	ErrNotConnected = errors.New("not connected")

	// ErrAlreadyConnected is returned by Connect while a session is live; the
	// engine never silently reconnects.
	ErrAlreadyConnected = errors.New("already connected")

	// ErrNoDevice is returned by Detect when no address in the scan range
	// acknowledges.
	ErrNoDevice = errors.New("no device found on bus")

	// ErrDeviceNotResponding is returned when the pre-operation presence
	// probe exhausts its retry budget. The session stays usable.
	ErrDeviceNotResponding = errors.New("device not responding")
)

// ConnectionError reports a failed attempt to open the transport. Fatal to
// the session it would have started; a later Connect may succeed.
type ConnectionError struct {
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connect failed: %v", e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// ReadError reports the chunk offset at which a read exhausted its retries.
// The operation was aborted; no partial image is returned.
type ReadError struct {
	Offset int
	Err    error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("read failed at offset 0x%04X: %v", e.Offset, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// WriteError reports the page offset at which a write exhausted its retries.
// Pages before Offset were written and verified; the device holds a partial
// image.
type WriteError struct {
	Offset int
	Err    error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write failed at offset 0x%04X: %v", e.Offset, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// SizeError reports caller-supplied data larger than the device. Detected
// before any bus I/O, never retried.
type SizeError struct {
	Len int
	Cap int
}

func (e *SizeError) Error() string {
	return fmt.Sprintf("image size %d exceeds device capacity %d", e.Len, e.Cap)
}
