package seep

import "time"

// RetryPolicy carries the retry budget and the bus/EEPROM timing delays used
// by every chunked operation. The delays model physical write-cycle and
// bus-settle times, not network latency; they are fixed per session, never
// adaptive.
type RetryPolicy struct {
	// Attempts is the retry budget for one probe, chunk read or page write.
	Attempts int
	// Interval separates attempts of a failed chunk or scan probe.
	Interval time.Duration
	// ProbeInterval separates attempts of the pre-operation presence probe.
	ProbeInterval time.Duration
	// Settle is the wait between setting the word address and reading.
	Settle time.Duration
	// WriteCycle is the non-volatile write time after a page write.
	// [AT24C02D|Table 8-2: tWR]
	WriteCycle time.Duration
	// ChunkPause is the bus recovery gap between consecutive chunks.
	ChunkPause time.Duration
	// ConnectSettle is the wait after opening the bridge before first use.
	ConnectSettle time.Duration
}

// DefaultRetryPolicy returns the timings tuned for CH341/FT232H class
// bridges and 24Cxx parts.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		Attempts:      3,
		Interval:      10 * time.Millisecond,
		ProbeInterval: 100 * time.Millisecond,
		Settle:        2 * time.Millisecond,
		WriteCycle:    5 * time.Millisecond,
		ChunkPause:    1 * time.Millisecond,
		ConnectSettle: 50 * time.Millisecond,
	}
}

// retry invokes fn up to attempts times, sleeping interval between failed
// attempts. It returns nil on the first success, or the last error once the
// budget is exhausted. attempts below one behaves as one.
func retry(attempts int, interval time.Duration, fn func() error) error {
	var err error
	for i := 0; ; i++ {
		if err = fn(); err == nil {
			return nil
		}
		if i+1 >= attempts {
			return err
		}
		time.Sleep(interval)
	}
}
