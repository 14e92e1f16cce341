package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"periph.io/x/conn/v3/physic"

	"github.com/tgray/seep"
	"github.com/tgray/seep/trace"
)

// busFlags are shared by every subcommand that touches the bus.
type busFlags struct {
	sim      bool
	chip     string
	clock    int
	addr     uint
	config   string
	verbose  bool
	capture  string
	progress bool
}

func addBusFlags(fs *flag.FlagSet) *busFlags {
	bf := &busFlags{}
	fs.BoolVar(&bf.sim, "sim", false, "drive a simulated bus instead of hardware")
	fs.StringVar(&bf.chip, "chip", "", "chip profile name (default 24C02)")
	fs.IntVar(&bf.clock, "clock", 0, "bus clock in kHz: 20, 50, 100, 400 or 750 (default 100)")
	fs.UintVar(&bf.addr, "addr", 0, "bus address (default 0x50)")
	fs.StringVar(&bf.config, "config", "", "YAML config file")
	fs.BoolVar(&bf.verbose, "v", false, "log bus activity to stderr")
	fs.StringVar(&bf.capture, "capture", "", "append a CBOR event capture to this file")
	fs.BoolVar(&bf.progress, "p", false, "print progress to stderr")
	return bf
}

// session bundles a connected engine with the profile it was opened for and
// a context cancelled by SIGINT, so a long transfer stops at the next
// chunk boundary instead of killing the process mid-transaction.
type session struct {
	eng     *seep.Engine
	profile seep.Profile
	cfg     *seep.Config
	ctx     context.Context
	sim     *seep.SimBus // nil on hardware

	stop    context.CancelFunc
	capture *trace.FileLogger
}

func openSession(bf *busFlags) *session {
	cfg := &seep.Config{}
	if bf.config != "" {
		c, err := seep.LoadConfig(bf.config)
		if err != nil {
			fatalf("%v", err)
		}
		cfg = c
	}

	chip := bf.chip
	if chip == "" {
		chip = "24C02"
	}
	profile, ok := cfg.Profile(chip)
	if !ok {
		fatalf("unknown chip %q, see seep list", chip)
	}

	clock := cfg.Clock()
	if bf.clock != 0 {
		if !validClockKHz(bf.clock) {
			fatalUsage("clock %d kHz not one of %v", bf.clock, seep.ClockPresets)
		}
		clock = physic.Frequency(bf.clock) * physic.KiloHertz
	}

	addr := seep.DefaultAddr
	if cfg.Addr != 0 {
		addr = seep.Addr(cfg.Addr)
	}
	if bf.addr != 0 {
		addr = seep.Addr(bf.addr)
	}

	s := &session{}

	var loggers []trace.Logger
	if bf.verbose {
		h := slog.NewTextHandler(os.Stderr, nil)
		loggers = append(loggers, trace.NewSlogAdapter(slog.New(h)))
	}
	if bf.capture != "" {
		fl, err := trace.NewFileLogger(bf.capture)
		if err != nil {
			fatalf("%v", err)
		}
		s.capture = fl
		loggers = append(loggers, fl)
	}

	opts := []seep.Option{seep.WithRetryPolicy(cfg.RetryPolicy())}
	switch len(loggers) {
	case 0:
	case 1:
		opts = append(opts, seep.WithLogger(loggers[0]))
	default:
		opts = append(opts, seep.WithLogger(trace.NewMultiLogger(loggers...)))
	}
	if bf.progress {
		opts = append(opts, seep.WithProgress(printProgress))
	}

	var open seep.OpenFunc = seep.OpenFTDI
	if bf.sim {
		s.sim = seep.NewSimBus()
		s.sim.AddChip(addr, profile)
		open = s.sim.Open
	}

	eng := seep.New(open, opts...)
	if err := eng.SetAddr(addr); err != nil {
		fatalUsage("%v", err)
	}
	if err := eng.Connect(profile, clock); err != nil {
		fatalf("%v", err)
	}

	s.eng = eng
	s.profile = profile
	s.cfg = cfg
	s.ctx, s.stop = signal.NotifyContext(context.Background(), os.Interrupt)
	return s
}

func (s *session) close() {
	s.stop()
	if err := s.eng.Disconnect(); err != nil {
		fmt.Fprintln(os.Stderr, "disconnect failed:", err)
	}
	if s.capture != nil {
		s.capture.Close()
	}
}

func validClockKHz(khz int) bool {
	for _, p := range seep.ClockPresets {
		if khz == p {
			return true
		}
	}
	return false
}

func printProgress(p seep.Progress) {
	fmt.Fprintf(os.Stderr, "\r%s %d/%d bytes", p.Op, p.Done, p.Total)
	if p.Done >= p.Total {
		fmt.Fprintln(os.Stderr)
	}
}
