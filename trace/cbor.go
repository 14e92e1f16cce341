package trace

import (
	"io"

	"github.com/fxamacker/cbor/v2"
)

// Canonical options keep the encoding of identical events byte-stable, so
// capture files diff cleanly.
var encOpts = cbor.EncOptions{
	Sort:          cbor.SortCanonical,
	IndefLength:   cbor.IndefLengthForbidden,
	NilContainers: cbor.NilContainerAsNull,
	Time:          cbor.TimeRFC3339Nano,
}

var encMode = func() cbor.EncMode {
	em, err := encOpts.EncMode()
	if err != nil {
		panic(err)
	}
	return em
}()

// EncodeEvent encodes one event as canonical CBOR.
func EncodeEvent(event Event) ([]byte, error) {
	return encMode.Marshal(event)
}

// DecodeEvent decodes one event from CBOR bytes.
func DecodeEvent(data []byte) (Event, error) {
	var event Event
	err := cbor.Unmarshal(data, &event)
	return event, err
}

// NewEncoder returns a streaming encoder writing canonical CBOR to w.
func NewEncoder(w io.Writer) *cbor.Encoder {
	return encMode.NewEncoder(w)
}

// NewDecoder returns a streaming decoder reading from r.
func NewDecoder(r io.Reader) *cbor.Decoder {
	return cbor.NewDecoder(r)
}
