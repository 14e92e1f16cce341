package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tgray/seep/ihex"
)

func writeCommand(args []string) {
	fs := flag.NewFlagSet("write", flag.ExitOnError)
	bf := addBusFlags(fs)
	var (
		filename string
		asHex    bool
		doVerify bool
	)
	fs.StringVar(&filename, "f", "", "input file (.hex parses as Intel HEX)")
	fs.BoolVar(&asHex, "ihex", false, "parse input as Intel HEX regardless of extension")
	fs.BoolVar(&doVerify, "verify", false, "verify the whole chip after writing")
	fs.Parse(args)

	if filename == "" {
		fatalUsage("input file is required")
	}
	image := loadImage(filename, asHex)

	s := openSession(bf)
	defer s.close()

	if err := s.eng.Write(s.ctx, s.profile, image); err != nil {
		fatalf("write failed: %v", err)
	}
	fmt.Printf("wrote %d bytes\n", len(image))

	if doVerify {
		ok, off, err := s.eng.Verify(s.ctx, s.profile, image)
		if err != nil {
			fatalf("verify failed: %v", err)
		}
		if !ok {
			fatalf("verify mismatch at offset 0x%04X", off)
		}
		fmt.Println("verify ok")
	}
}

// readImage reads filename as raw bytes, or as Intel HEX when asHex is set
// or the extension says so.
func readImage(filename string, asHex bool) ([]byte, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	if !asHex && !strings.EqualFold(filepath.Ext(filename), ".hex") {
		return data, nil
	}
	image, err := ihex.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return image, nil
}

func loadImage(filename string, asHex bool) []byte {
	image, err := readImage(filename, asHex)
	if err != nil {
		fatalf("%v", err)
	}
	return image
}
