// Package trace records programmer engine activity as structured events.
//
// The engine takes a Logger as an explicit dependency instead of writing to
// process-wide state, so sessions stay independently observable. Events can
// fan out (MultiLogger), feed a slog handler for console output
// (SlogAdapter), or append to a compact CBOR capture file (FileLogger) that
// Reader replays with filtering.
package trace
