package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/tgray/seep/trace"
)

func logCommand(args []string) {
	fs := flag.NewFlagSet("log", flag.ExitOnError)
	var (
		session string
		opName  string
		onlyErr bool
	)
	fs.StringVar(&session, "session", "", "only events from this session")
	fs.StringVar(&opName, "op", "", "only events of one operation (read, write, ...)")
	fs.BoolVar(&onlyErr, "errors", false, "only retries and failures")
	fs.Parse(args)

	if fs.NArg() != 1 {
		fatalUsage("capture file is required")
	}

	filter := trace.Filter{Session: session, Errors: onlyErr}
	if opName != "" {
		op, ok := opByName(opName)
		if !ok {
			fatalUsage("unknown operation %q", opName)
		}
		filter.Op = op
	}

	f, err := os.Open(fs.Arg(0))
	if err != nil {
		fatalf("failed to open capture file: %v", err)
	}
	defer f.Close()

	r := trace.NewReader(f, filter)
	for {
		ev, err := r.Next()
		if errors.Is(err, io.EOF) {
			return
		}
		if err != nil {
			fatalf("capture decode failed: %v", err)
		}
		printEvent(ev)
	}
}

func opByName(name string) (trace.Op, bool) {
	for op := trace.OpNone; op <= trace.OpVerify; op++ {
		if op.String() == name {
			return op, true
		}
	}
	return trace.OpNone, false
}

func printEvent(ev trace.Event) {
	line := fmt.Sprintf("%s %-10s %-8s", ev.Timestamp.Format("15:04:05.000"), ev.Op, ev.Category)
	switch ev.Category {
	case trace.CategoryTransfer, trace.CategoryRetry, trace.CategoryError:
		line += fmt.Sprintf(" offset=0x%04X len=%d", ev.Offset, ev.Length)
	}
	if ev.Attempt > 0 {
		line += fmt.Sprintf(" attempt=%d", ev.Attempt)
	}
	if ev.Message != "" {
		line += " " + ev.Message
	}
	if ev.Err != "" {
		line += " err=" + ev.Err
	}
	fmt.Println(line)
}
