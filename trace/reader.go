package trace

import (
	"io"

	"github.com/fxamacker/cbor/v2"
)

// Filter selects events during replay. Zero-valued fields match everything.
type Filter struct {
	// Session keeps only events from one session.
	Session string
	// Op keeps only events of one operation; OpNone keeps all.
	Op Op
	// Errors keeps only retry and terminal-failure events.
	Errors bool
}

func (f Filter) matches(event Event) bool {
	if f.Session != "" && event.Session != f.Session {
		return false
	}
	if f.Op != OpNone && event.Op != f.Op {
		return false
	}
	if f.Errors && event.Category != CategoryRetry && event.Category != CategoryError {
		return false
	}
	return true
}

// Reader replays events from a capture file.
type Reader struct {
	dec    *cbor.Decoder
	filter Filter
}

func NewReader(r io.Reader, filter Filter) *Reader {
	return &Reader{dec: NewDecoder(r), filter: filter}
}

// Next returns the next event passing the filter, or io.EOF when the
// capture is exhausted.
func (r *Reader) Next() (Event, error) {
	for {
		var event Event
		if err := r.dec.Decode(&event); err != nil {
			if err == io.EOF {
				return Event{}, io.EOF
			}
			return Event{}, err
		}
		if r.filter.matches(event) {
			return event, nil
		}
	}
}
