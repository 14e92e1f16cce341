package main

import (
	"flag"
	"fmt"
)

func verifyCommand(args []string) {
	fs := flag.NewFlagSet("verify", flag.ExitOnError)
	bf := addBusFlags(fs)
	var (
		filename string
		asHex    bool
	)
	fs.StringVar(&filename, "f", "", "expected image (.hex parses as Intel HEX)")
	fs.BoolVar(&asHex, "ihex", false, "parse input as Intel HEX regardless of extension")
	fs.Parse(args)

	if filename == "" {
		fatalUsage("input file is required")
	}
	expected := loadImage(filename, asHex)

	s := openSession(bf)
	defer s.close()

	ok, off, err := s.eng.Verify(s.ctx, s.profile, expected)
	if err != nil {
		fatalf("verify failed: %v", err)
	}
	if !ok {
		fatalf("mismatch at offset 0x%04X", off)
	}
	fmt.Printf("verify ok, %d bytes match\n", len(expected))
}
