package main

import (
	"bytes"
	"context"
	"encoding/hex"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/chzyer/readline"

	"github.com/tgray/seep"
)

type shell struct {
	s       *session
	rl      *readline.Instance
	profile seep.Profile
}

func shellCommand(args []string) {
	fs := flag.NewFlagSet("shell", flag.ExitOnError)
	bf := addBusFlags(fs)
	fs.Parse(args)

	s := openSession(bf)
	defer s.close()

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "seep> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		fatalf("failed to create readline: %v", err)
	}
	defer rl.Close()

	sh := &shell{s: s, rl: rl, profile: s.profile}
	sh.run()
}

// opCtx gives each shell command its own SIGINT-cancelled context, so ^C
// aborts a running transfer at the next chunk boundary without leaving
// later commands pre-cancelled.
func opCtx() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func (sh *shell) run() {
	sh.printHelp()

	for {
		line, err := sh.rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(sh.rl.Stdout(), "bye")
			return
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}
		parts := strings.Fields(input)
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		switch cmd {
		case "help", "?":
			sh.printHelp()

		case "detect", "d":
			sh.cmdDetect()

		case "read", "r":
			sh.cmdRead(args)

		case "write", "w":
			sh.cmdWrite(args)

		case "verify", "v":
			sh.cmdVerify(args)

		case "erase", "e":
			sh.cmdErase()

		case "fill":
			sh.cmdFill(args)

		case "chip":
			sh.cmdChip(args)

		case "addr":
			sh.cmdAddr(args)

		case "status":
			sh.cmdStatus()

		case "quit", "exit", "q":
			fmt.Fprintln(sh.rl.Stdout(), "bye")
			return

		default:
			fmt.Fprintf(sh.rl.Stdout(), "unknown command: %s (type 'help' for commands)\n", cmd)
		}
	}
}

func (sh *shell) printHelp() {
	fmt.Fprintln(sh.rl.Stdout(), `
Commands:
  detect             scan the bus and infer the chip
  read [file]        read the chip (hexdump, or raw bytes to file)
  write <file>       write an image (.hex parses as Intel HEX)
  verify <file>      compare the chip against an image
  erase              fill the chip with 0xFF
  fill <byte>        fill the chip with one value
  chip [name]        show or switch the working profile
  addr [address]     show or switch the bus address
  status             engine state and session settings
  quit               exit`)
}

func (sh *shell) cmdDetect() {
	ctx, stop := opCtx()
	defer stop()

	out := sh.rl.Stdout()
	det, err := sh.s.eng.Detect(ctx)
	if err != nil {
		fmt.Fprintln(out, "detect failed:", err)
		return
	}
	fmt.Fprintln(out, "address:", det.Addr)
	if det.Profile == nil {
		fmt.Fprintln(out, "profile: unknown")
		return
	}
	fmt.Fprintf(out, "profile: %s (%d bytes, confidence %s)\n",
		det.Profile.Name, det.Profile.TotalBytes, det.Confidence)
	if det.Profile.Name != sh.profile.Name {
		fmt.Fprintf(out, "type 'chip %s' to use it\n", det.Profile.Name)
	}
}

func (sh *shell) cmdRead(args []string) {
	ctx, stop := opCtx()
	defer stop()

	out := sh.rl.Stdout()
	data, err := sh.s.eng.Read(ctx, sh.profile)
	if err != nil {
		fmt.Fprintln(out, "read failed:", err)
		return
	}
	if len(args) == 0 {
		fmt.Fprintln(out, hex.Dump(data))
		return
	}
	if err := os.WriteFile(args[0], data, 0644); err != nil {
		fmt.Fprintln(out, "write file failed:", err)
		return
	}
	fmt.Fprintf(out, "%d bytes to %s\n", len(data), args[0])
}

func (sh *shell) cmdWrite(args []string) {
	out := sh.rl.Stdout()
	if len(args) == 0 {
		fmt.Fprintln(out, "usage: write <file>")
		return
	}
	image, err := readImage(args[0], false)
	if err != nil {
		fmt.Fprintln(out, err)
		return
	}

	ctx, stop := opCtx()
	defer stop()
	if err := sh.s.eng.Write(ctx, sh.profile, image); err != nil {
		fmt.Fprintln(out, "write failed:", err)
		return
	}
	fmt.Fprintf(out, "wrote %d bytes\n", len(image))
}

func (sh *shell) cmdVerify(args []string) {
	out := sh.rl.Stdout()
	if len(args) == 0 {
		fmt.Fprintln(out, "usage: verify <file>")
		return
	}
	expected, err := readImage(args[0], false)
	if err != nil {
		fmt.Fprintln(out, err)
		return
	}

	ctx, stop := opCtx()
	defer stop()
	ok, off, err := sh.s.eng.Verify(ctx, sh.profile, expected)
	if err != nil {
		fmt.Fprintln(out, "verify failed:", err)
		return
	}
	if !ok {
		fmt.Fprintf(out, "mismatch at offset 0x%04X\n", off)
		return
	}
	fmt.Fprintf(out, "verify ok, %d bytes match\n", len(expected))
}

func (sh *shell) cmdErase() {
	ctx, stop := opCtx()
	defer stop()

	out := sh.rl.Stdout()
	if err := sh.s.eng.Erase(ctx, sh.profile); err != nil {
		fmt.Fprintln(out, "erase failed:", err)
		return
	}
	fmt.Fprintf(out, "erased %d bytes\n", sh.profile.TotalBytes)
}

func (sh *shell) cmdFill(args []string) {
	out := sh.rl.Stdout()
	if len(args) == 0 {
		fmt.Fprintln(out, "usage: fill <byte>")
		return
	}
	v, err := strconv.ParseUint(args[0], 0, 8)
	if err != nil {
		fmt.Fprintf(out, "bad byte value %q: %v\n", args[0], err)
		return
	}

	ctx, stop := opCtx()
	defer stop()
	image := bytes.Repeat([]byte{byte(v)}, sh.profile.TotalBytes)
	if err := sh.s.eng.Write(ctx, sh.profile, image); err != nil {
		fmt.Fprintln(out, "fill failed:", err)
		return
	}
	fmt.Fprintf(out, "filled %d bytes with 0x%02X\n", len(image), byte(v))
}

func (sh *shell) cmdChip(args []string) {
	out := sh.rl.Stdout()
	if len(args) == 0 {
		fmt.Fprintf(out, "chip: %s (%d bytes, %d byte pages, %s addressing)\n",
			sh.profile.Name, sh.profile.TotalBytes, sh.profile.PageBytes, sh.profile.Width)
		return
	}
	p, ok := sh.s.cfg.Profile(args[0])
	if !ok {
		fmt.Fprintf(out, "unknown chip %q\n", args[0])
		return
	}
	sh.profile = p
	fmt.Fprintln(out, "chip:", p.Name)
}

func (sh *shell) cmdAddr(args []string) {
	out := sh.rl.Stdout()
	if len(args) == 0 {
		fmt.Fprintln(out, "addr:", sh.s.eng.Addr())
		return
	}
	v, err := strconv.ParseUint(args[0], 0, 16)
	if err != nil {
		fmt.Fprintf(out, "bad address %q: %v\n", args[0], err)
		return
	}
	if err := sh.s.eng.SetAddr(seep.Addr(v)); err != nil {
		fmt.Fprintln(out, err)
		return
	}
	fmt.Fprintln(out, "addr:", sh.s.eng.Addr())
}

func (sh *shell) cmdStatus() {
	out := sh.rl.Stdout()
	fmt.Fprintln(out, "state:", sh.s.eng.State())
	fmt.Fprintln(out, "addr: ", sh.s.eng.Addr())
	fmt.Fprintf(out, "chip:  %s (%d bytes)\n", sh.profile.Name, sh.profile.TotalBytes)
	if sh.s.sim != nil {
		fmt.Fprintln(out, "bus:   simulated")
	}
}
