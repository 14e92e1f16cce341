package main

import (
	"flag"
	"fmt"
)

func detectCommand(args []string) {
	fs := flag.NewFlagSet("detect", flag.ExitOnError)
	bf := addBusFlags(fs)
	fs.Parse(args)

	s := openSession(bf)
	defer s.close()

	det, err := s.eng.Detect(s.ctx)
	if err != nil {
		fatalf("detect failed: %v", err)
	}

	fmt.Printf("address: %s\n", det.Addr)
	if det.Profile == nil {
		fmt.Println("profile: unknown")
		return
	}
	fmt.Printf("profile: %s (%d bytes, confidence %s)\n",
		det.Profile.Name, det.Profile.TotalBytes, det.Confidence)
}
