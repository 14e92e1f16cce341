package main

import (
	"flag"
	"fmt"
)

func eraseCommand(args []string) {
	fs := flag.NewFlagSet("erase", flag.ExitOnError)
	bf := addBusFlags(fs)
	fs.Parse(args)

	s := openSession(bf)
	defer s.close()

	if err := s.eng.Erase(s.ctx, s.profile); err != nil {
		fatalf("erase failed: %v", err)
	}
	fmt.Printf("erased %d bytes\n", s.profile.TotalBytes)
}
