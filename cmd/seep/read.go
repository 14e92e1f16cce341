package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"os"

	"github.com/tgray/seep/ihex"
)

func readCommand(args []string) {
	fs := flag.NewFlagSet("read", flag.ExitOnError)
	bf := addBusFlags(fs)
	var (
		nread   int
		asHex   bool
		outFile string
	)
	fs.IntVar(&nread, "n", 0, "only keep the first n bytes")
	fs.BoolVar(&asHex, "ihex", false, "output Intel HEX instead of raw bytes")
	fs.StringVar(&outFile, "o", "", "output file (default: hexdump to stdout)")
	fs.Parse(args)

	s := openSession(bf)
	defer s.close()

	data, err := s.eng.Read(s.ctx, s.profile)
	if err != nil {
		fatalf("read failed: %v", err)
	}
	if nread > 0 && nread < len(data) {
		data = data[:nread]
	}

	if outFile == "" {
		if asHex {
			if err := ihex.Encode(os.Stdout, data); err != nil {
				fatalf("encode failed: %v", err)
			}
			return
		}
		fmt.Println(hex.Dump(data))
		return
	}

	if asHex {
		f, err := os.Create(outFile)
		if err != nil {
			fatalf("create file failed: %v", err)
		}
		if err := ihex.Encode(f, data); err != nil {
			f.Close()
			fatalf("encode failed: %v", err)
		}
		if err := f.Close(); err != nil {
			fatalf("write file failed: %v", err)
		}
		return
	}
	if err := os.WriteFile(outFile, data, 0644); err != nil {
		fatalf("write file failed: %v", err)
	}
}
