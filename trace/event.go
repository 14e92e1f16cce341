package trace

import (
	"fmt"
	"time"
)

// Op identifies the engine operation an event belongs to.
type Op uint8

const (
	OpNone Op = iota
	OpConnect
	OpDisconnect
	OpDetect
	OpRead
	OpWrite
	OpErase
	OpVerify
)

func (o Op) String() string {
	switch o {
	case OpNone:
		return "none"
	case OpConnect:
		return "connect"
	case OpDisconnect:
		return "disconnect"
	case OpDetect:
		return "detect"
	case OpRead:
		return "read"
	case OpWrite:
		return "write"
	case OpErase:
		return "erase"
	case OpVerify:
		return "verify"
	}
	return fmt.Sprintf("Op(%d)", uint8(o))
}

// Category classifies what an event reports.
type Category uint8

const (
	// CategoryState marks session and operation state transitions.
	CategoryState Category = iota
	// CategoryTransfer marks a completed chunk or page.
	CategoryTransfer
	// CategoryRetry marks a failed attempt that will be retried.
	CategoryRetry
	// CategoryError marks a terminal failure.
	CategoryError
)

func (c Category) String() string {
	switch c {
	case CategoryState:
		return "state"
	case CategoryTransfer:
		return "transfer"
	case CategoryRetry:
		return "retry"
	case CategoryError:
		return "error"
	}
	return fmt.Sprintf("Category(%d)", uint8(c))
}

// Event is one engine activity record. Fields are keyed by integer in the
// CBOR encoding to keep capture files compact and stable across versions.
type Event struct {
	Timestamp time.Time `cbor:"1,keyasint"`
	Session   string    `cbor:"2,keyasint,omitempty"`
	Op        Op        `cbor:"3,keyasint"`
	Category  Category  `cbor:"4,keyasint"`
	Addr      uint16    `cbor:"5,keyasint,omitempty"`
	Offset    int       `cbor:"6,keyasint"`
	Length    int       `cbor:"7,keyasint"`
	Attempt   int       `cbor:"8,keyasint,omitempty"`
	Message   string    `cbor:"9,keyasint,omitempty"`
	Err       string    `cbor:"10,keyasint,omitempty"`
}
