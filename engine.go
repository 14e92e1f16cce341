package seep

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"periph.io/x/conn/v3/physic"

	"github.com/tgray/seep/trace"
)

// DefaultClock is a bus clock every supported part accepts. The bridges are
// also happy at 20, 50, 400 and 750 kHz.
const DefaultClock = 100 * physic.KiloHertz

// maxBlock caps the payload of one bus transaction. USB bridges of the
// CH341/FT232H class get unreliable past this, regardless of the chip's
// page buffer.
const maxBlock = 8

// State names the engine's position in its operation cycle.
type State uint8

const (
	StateDisconnected State = iota
	StateIdle
	StateDetecting
	StateReading
	StateWriting
	StateErasing
	StateVerifying
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateIdle:
		return "idle"
	case StateDetecting:
		return "detecting"
	case StateReading:
		return "reading"
	case StateWriting:
		return "writing"
	case StateErasing:
		return "erasing"
	case StateVerifying:
		return "verifying"
	}
	return fmt.Sprintf("State(%d)", uint8(s))
}

// Progress reports operation advancement at chunk/page granularity.
type Progress struct {
	Op    trace.Op
	Done  int
	Total int
}

// ProgressFunc receives progress at every chunk/page boundary. It runs on
// the operation's goroutine; keep it fast.
type ProgressFunc func(p Progress)

// Engine turns the address-width-agnostic, page-constrained bus into
// whole-device read/write/erase/verify/detect operations with bounded
// retries and cycle-timing discipline. Operations serialize on the single
// underlying transport; state queries never block.
type Engine struct {
	open     OpenFunc
	policy   RetryPolicy
	log      trace.Logger
	progress ProgressFunc

	mu      sync.Mutex // serializes transport use
	tr      Transport
	addr    Addr
	profile Profile
	session string

	state atomic.Uint32
}

// Option configures an Engine.
type Option func(*Engine)

// WithRetryPolicy overrides DefaultRetryPolicy.
func WithRetryPolicy(p RetryPolicy) Option {
	return func(e *Engine) { e.policy = p }
}

// WithLogger sets the event logger. Defaults to a no-op.
func WithLogger(l trace.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithProgress sets the progress callback.
func WithProgress(fn ProgressFunc) Option {
	return func(e *Engine) { e.progress = fn }
}

// New builds an engine that opens its transport with open.
func New(open OpenFunc, opts ...Option) *Engine {
	e := &Engine{
		open:   open,
		policy: DefaultRetryPolicy(),
		log:    trace.NoopLogger{},
		addr:   DefaultAddr,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Connect opens the transport at clock and readies the engine for profile.
// A live session must be disconnected first; the engine never silently
// reconnects.
func (e *Engine) Connect(profile Profile, clock physic.Frequency) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.tr != nil {
		return ErrAlreadyConnected
	}
	if err := profile.Validate(); err != nil {
		return err
	}

	tr, err := e.open(clock)
	if err != nil {
		return &ConnectionError{Err: err}
	}
	time.Sleep(e.policy.ConnectSettle)

	e.tr = tr
	e.profile = profile
	e.session = uuid.NewString()
	e.setState(StateIdle)
	e.event(trace.Event{Op: trace.OpConnect, Category: trace.CategoryState, Message: "connected: " + profile.Name})
	return nil
}

// Disconnect releases the transport. Idempotent.
func (e *Engine) Disconnect() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.tr == nil {
		return nil
	}
	err := e.tr.Close()
	e.event(trace.Event{Op: trace.OpDisconnect, Category: trace.CategoryState, Message: "disconnected"})
	e.tr = nil
	e.session = ""
	e.setState(StateDisconnected)
	return err
}

// IsConnected reports whether a session is live.
func (e *Engine) IsConnected() bool {
	return e.State() != StateDisconnected
}

// State returns the current engine state without blocking on a running
// operation.
func (e *Engine) State() State {
	return State(e.state.Load())
}

func (e *Engine) setState(s State) {
	e.state.Store(uint32(s))
}

// Profile returns the session profile given to Connect.
func (e *Engine) Profile() Profile {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.profile
}

// Addr returns the working bus address.
func (e *Engine) Addr() Addr {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.addr
}

// SetAddr selects the working bus address for subsequent operations.
func (e *Engine) SetAddr(addr Addr) error {
	if !addr.Valid() {
		return fmt.Errorf("address %s outside %s..%s", addr, AddrMin, AddrMax)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.addr = addr
	return nil
}

// Read returns the full contents of the device described by profile.
// Cancellation is honored between chunks, never mid-transaction. On any
// chunk exhausting its retries the whole read fails; no partial image is
// returned.
func (e *Engine) Read(ctx context.Context, profile Profile) ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.begin(trace.OpRead, StateReading); err != nil {
		return nil, err
	}
	defer e.end()

	return e.readAll(ctx, trace.OpRead, profile)
}

// Write programs image into the device page by page, confirming every page
// by readback before moving on. A failed page aborts immediately and is
// reported with its offset; earlier pages remain written.
func (e *Engine) Write(ctx context.Context, profile Profile, image []byte) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.begin(trace.OpWrite, StateWriting); err != nil {
		return err
	}
	defer e.end()

	return e.writeAll(ctx, trace.OpWrite, profile, image)
}

// Erase writes 0xFF over the whole device.
func (e *Engine) Erase(ctx context.Context, profile Profile) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.begin(trace.OpErase, StateErasing); err != nil {
		return err
	}
	defer e.end()

	if err := profile.Validate(); err != nil {
		return err
	}
	blank := bytes.Repeat([]byte{0xFF}, profile.TotalBytes)
	return e.writeAll(ctx, trace.OpErase, profile, blank)
}

// Verify reads the device and compares it to expected in increasing offset
// order. It returns (false, k) for the smallest differing offset k, or
// (true, 0) when expected matches fully. A mismatch is a result, not an
// error; read failures propagate as errors.
func (e *Engine) Verify(ctx context.Context, profile Profile, expected []byte) (bool, int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.begin(trace.OpVerify, StateVerifying); err != nil {
		return false, 0, err
	}
	defer e.end()

	if err := profile.Validate(); err != nil {
		return false, 0, err
	}
	if len(expected) > profile.TotalBytes {
		err := &SizeError{Len: len(expected), Cap: profile.TotalBytes}
		e.event(trace.Event{Op: trace.OpVerify, Category: trace.CategoryError, Err: err.Error()})
		return false, 0, err
	}

	image, err := e.readAll(ctx, trace.OpVerify, profile)
	if err != nil {
		return false, 0, err
	}
	for i := range expected {
		if image[i] != expected[i] {
			e.event(trace.Event{Op: trace.OpVerify, Category: trace.CategoryState, Offset: i, Message: "mismatch"})
			return false, i, nil
		}
	}
	return true, 0, nil
}

// begin enters operation state s. Callers hold e.mu.
func (e *Engine) begin(op trace.Op, s State) error {
	if e.tr == nil {
		return ErrNotConnected
	}
	e.setState(s)
	e.event(trace.Event{Op: op, Category: trace.CategoryState, Message: s.String()})
	return nil
}

func (e *Engine) end() {
	e.setState(StateIdle)
}

// event stamps and emits ev. Callers hold e.mu.
func (e *Engine) event(ev trace.Event) {
	ev.Timestamp = time.Now()
	ev.Session = e.session
	if ev.Addr == 0 {
		ev.Addr = uint16(e.addr)
	}
	e.log.Log(ev)
}

// chunkDone logs a completed span and reports progress.
func (e *Engine) chunkDone(op trace.Op, off, n, total int) {
	e.event(trace.Event{Op: op, Category: trace.CategoryTransfer, Offset: off, Length: n})
	if e.progress != nil {
		e.progress(Progress{Op: op, Done: off + n, Total: total})
	}
}

// ensurePresent confirms the device acknowledges its address before a
// whole-device operation starts.
func (e *Engine) ensurePresent(op trace.Op) error {
	attempt := 0
	err := retry(e.policy.Attempts, e.policy.ProbeInterval, func() error {
		attempt++
		if !e.tr.Probe(e.addr) {
			if attempt < e.policy.Attempts {
				e.event(trace.Event{Op: op, Category: trace.CategoryRetry, Attempt: attempt, Message: "probe"})
			}
			return ErrDeviceNotResponding
		}
		return nil
	})
	if err != nil {
		e.event(trace.Event{Op: op, Category: trace.CategoryError, Err: ErrDeviceNotResponding.Error()})
		return ErrDeviceNotResponding
	}
	return nil
}

func (e *Engine) readAll(ctx context.Context, op trace.Op, profile Profile) ([]byte, error) {
	if err := profile.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("cancelled: %w", err)
	}
	if err := e.ensurePresent(op); err != nil {
		return nil, err
	}

	image := make([]byte, profile.TotalBytes)
	for off := 0; off < len(image); off += maxBlock {
		if err := ctx.Err(); err != nil {
			e.event(trace.Event{Op: op, Category: trace.CategoryError, Offset: off, Err: err.Error()})
			return nil, fmt.Errorf("cancelled at offset 0x%04X: %w", off, err)
		}

		n := min(maxBlock, len(image)-off)
		if err := e.readChunk(op, profile, off, image[off:off+n]); err != nil {
			return nil, err
		}
		e.chunkDone(op, off, n, len(image))

		if off+maxBlock < len(image) {
			time.Sleep(e.policy.ChunkPause)
		}
	}
	return image, nil
}

// readChunk points the device at off and reads one chunk. The retried unit
// is the whole point-settle-read sequence.
func (e *Engine) readChunk(op trace.Op, profile Profile, off int, buf []byte) error {
	prefix := profile.WordAddress(off)
	attempt := 0
	err := retry(e.policy.Attempts, e.policy.Interval, func() error {
		attempt++
		err := func() error {
			if err := e.tr.WriteBlock(e.addr, prefix, nil); err != nil {
				return err
			}
			time.Sleep(e.policy.Settle)
			return e.tr.ReadBlock(e.addr, buf)
		}()
		if err != nil && attempt < e.policy.Attempts {
			e.event(trace.Event{Op: op, Category: trace.CategoryRetry, Offset: off, Length: len(buf), Attempt: attempt, Err: err.Error()})
		}
		return err
	})
	if err != nil {
		e.event(trace.Event{Op: op, Category: trace.CategoryError, Offset: off, Length: len(buf), Err: err.Error()})
		return &ReadError{Offset: off, Err: err}
	}
	return nil
}

func (e *Engine) writeAll(ctx context.Context, op trace.Op, profile Profile, image []byte) error {
	if err := profile.Validate(); err != nil {
		return err
	}
	if len(image) > profile.TotalBytes {
		err := &SizeError{Len: len(image), Cap: profile.TotalBytes}
		e.event(trace.Event{Op: op, Category: trace.CategoryError, Err: err.Error()})
		return err
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("cancelled: %w", err)
	}
	if err := e.ensurePresent(op); err != nil {
		return err
	}

	page := min(profile.PageBytes, maxBlock)
	readback := make([]byte, page)
	for off := 0; off < len(image); off += page {
		if err := ctx.Err(); err != nil {
			e.event(trace.Event{Op: op, Category: trace.CategoryError, Offset: off, Err: err.Error()})
			return fmt.Errorf("cancelled at offset 0x%04X: %w", off, err)
		}

		n := min(page, len(image)-off)
		if err := e.writePage(op, profile, off, image[off:off+n], readback[:n]); err != nil {
			return err
		}
		e.chunkDone(op, off, n, len(image))
	}
	return nil
}

// writePage programs one page and confirms it by readback. The retried
// unit is the whole write, write-cycle wait, re-point, read, compare
// sequence, so a page only counts once its own readback matches.
func (e *Engine) writePage(op trace.Op, profile Profile, off int, data, readback []byte) error {
	prefix := profile.WordAddress(off)
	attempt := 0
	err := retry(e.policy.Attempts, e.policy.Interval, func() error {
		attempt++
		err := func() error {
			if err := e.tr.WriteBlock(e.addr, prefix, data); err != nil {
				return err
			}
			time.Sleep(e.policy.WriteCycle)
			if err := e.tr.WriteBlock(e.addr, prefix, nil); err != nil {
				return err
			}
			time.Sleep(e.policy.Settle)
			if err := e.tr.ReadBlock(e.addr, readback); err != nil {
				return err
			}
			if !bytes.Equal(readback, data) {
				return errors.New("readback mismatch")
			}
			return nil
		}()
		if err != nil && attempt < e.policy.Attempts {
			e.event(trace.Event{Op: op, Category: trace.CategoryRetry, Offset: off, Length: len(data), Attempt: attempt, Err: err.Error()})
		}
		return err
	})
	if err != nil {
		e.event(trace.Event{Op: op, Category: trace.CategoryError, Offset: off, Length: len(data), Err: err.Error()})
		return &WriteError{Offset: off, Err: err}
	}
	return nil
}
