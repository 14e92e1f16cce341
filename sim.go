package seep

import (
	"errors"
	"fmt"
	"sync"

	"periph.io/x/conn/v3/physic"
)

var (
	errBusClosed = errors.New("bus closed")
	errNoAck     = errors.New("no acknowledgement")
	errInjected  = errors.New("injected fault")
)

// SimBus is a deterministic in-memory bus holding simulated EEPROMs. It
// honors the same transaction contract as the real bridge, plus per-offset
// fault budgets so retry behavior can be exercised without hardware.
type SimBus struct {
	mu     sync.Mutex
	chips  map[Addr]*SimChip
	clock  physic.Frequency
	closed bool

	probeFaults map[Addr]int // remaining probe NACKs per address
	readFaults  map[int]int  // remaining read failures keyed by start offset
	writeFaults map[int]int  // remaining data-write NACKs keyed by offset
	dropWrites  map[int]int  // remaining silently dropped data writes

	readsAt  map[int]int // reads begun at offset
	writesAt map[int]int // data writes begun at offset
}

var _ Transport = (*SimBus)(nil)

func NewSimBus() *SimBus {
	return &SimBus{
		chips:       make(map[Addr]*SimChip),
		probeFaults: make(map[Addr]int),
		readFaults:  make(map[int]int),
		writeFaults: make(map[int]int),
		dropWrites:  make(map[int]int),
		readsAt:     make(map[int]int),
		writesAt:    make(map[int]int),
	}
}

// Open satisfies OpenFunc; the bus itself is the transport, so tests keep
// fault and inspection access while a session is live.
func (b *SimBus) Open(clock physic.Frequency) (Transport, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.clock = clock
	b.closed = false
	return b, nil
}

// Clock returns the clock requested by the last Open.
func (b *SimBus) Clock() physic.Frequency {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.clock
}

// AddChip places a simulated chip at addr, erased to 0xFF.
func (b *SimBus) AddChip(addr Addr, p Profile) *SimChip {
	b.mu.Lock()
	defer b.mu.Unlock()
	c := &SimChip{bus: b, profile: p, mem: make([]byte, p.TotalBytes)}
	for i := range c.mem {
		c.mem[i] = 0xFF
	}
	b.chips[addr] = c
	return c
}

// Chip returns the chip at addr, or nil.
func (b *SimBus) Chip(addr Addr) *SimChip {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.chips[addr]
}

// FailProbes makes the next n probes of addr go unacknowledged.
func (b *SimBus) FailProbes(addr Addr, n int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.probeFaults[addr] = n
}

// FailReads fails the next n block reads that begin at offset off.
func (b *SimBus) FailReads(off, n int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.readFaults[off] = n
}

// FailWrites rejects the next n data writes addressed to offset off.
func (b *SimBus) FailWrites(off, n int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.writeFaults[off] = n
}

// DropWrites acknowledges but discards the next n data writes addressed to
// offset off, so the readback comparison sees stale contents.
func (b *SimBus) DropWrites(off, n int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.dropWrites[off] = n
}

// ReadsAt reports how many block reads began at offset off.
func (b *SimBus) ReadsAt(off int) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.readsAt[off]
}

// WritesAt reports how many data writes were addressed to offset off.
func (b *SimBus) WritesAt(off int) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.writesAt[off]
}

func (b *SimBus) Probe(addr Addr) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return false
	}
	if b.probeFaults[addr] > 0 {
		b.probeFaults[addr]--
		return false
	}
	_, ok := b.chips[addr]
	return ok
}

func (b *SimBus) WriteBlock(addr Addr, prefix, payload []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return errBusClosed
	}
	c, ok := b.chips[addr]
	if !ok {
		return errNoAck
	}

	switch len(prefix) {
	case 0:
		// bare ack, pointer untouched
	case 1:
		if err := c.point(int(prefix[0])); err != nil {
			return err
		}
	case 2:
		if err := c.point(int(prefix[0])<<8 | int(prefix[1])); err != nil {
			return err
		}
	default:
		return fmt.Errorf("word address is %d bytes, want at most 2", len(prefix))
	}

	if len(payload) == 0 {
		return nil
	}

	off := c.pointer
	b.writesAt[off]++
	if b.writeFaults[off] > 0 {
		b.writeFaults[off]--
		return errInjected
	}
	if b.dropWrites[off] > 0 {
		b.dropWrites[off]--
		return nil
	}
	c.write(payload)
	return nil
}

func (b *SimBus) ReadBlock(addr Addr, buf []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return errBusClosed
	}
	c, ok := b.chips[addr]
	if !ok {
		return errNoAck
	}

	off := c.pointer
	b.readsAt[off]++
	if b.readFaults[off] > 0 {
		b.readFaults[off]--
		return errInjected
	}
	for i := range buf {
		buf[i] = c.mem[(off+i)%len(c.mem)]
	}
	c.pointer = (off + len(buf)) % len(c.mem)
	return nil
}

func (b *SimBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	return nil
}

// SimChip models one EEPROM: a byte array, an address pointer that wraps
// modulo capacity on sequential reads, and page wrap-around on writes.
type SimChip struct {
	bus     *SimBus
	profile Profile
	mem     []byte
	pointer int
}

// point sets the address pointer, acknowledging only in-range offsets.
func (c *SimChip) point(off int) error {
	if off >= len(c.mem) {
		return errNoAck
	}
	c.pointer = off
	return nil
}

// write stores payload from the pointer, wrapping inside the page that
// contains it, the way the parts' internal write buffer does.
func (c *SimChip) write(payload []byte) {
	page := c.profile.PageBytes
	base := (c.pointer / page) * page
	for i, by := range payload {
		idx := base + (c.pointer-base+i)%page
		c.mem[idx%len(c.mem)] = by
	}
}

// Bytes returns a copy of the chip contents.
func (c *SimChip) Bytes() []byte {
	c.bus.mu.Lock()
	defer c.bus.mu.Unlock()
	out := make([]byte, len(c.mem))
	copy(out, c.mem)
	return out
}

// Set seeds contents at off for test setup, bypassing bus transactions.
func (c *SimChip) Set(off int, data []byte) {
	c.bus.mu.Lock()
	defer c.bus.mu.Unlock()
	copy(c.mem[off:], data)
}

// Fill sets every byte, bypassing bus transactions.
func (c *SimChip) Fill(by byte) {
	c.bus.mu.Lock()
	defer c.bus.mu.Unlock()
	for i := range c.mem {
		c.mem[i] = by
	}
}
