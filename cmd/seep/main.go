package main

import (
	"flag"
	"fmt"
	"os"
)

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}

func fatalUsage(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(2)
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage:
	seep <command> [arguments]

Commands:
	detect	 scan the bus and infer the chip
	read	 read the whole chip
	write	 write an image to the chip
	erase	 fill the chip with 0xFF
	verify	 compare the chip against an image
	list	 list known chip profiles
	shell	 interactive session
	log	 print a capture file
`)
	os.Exit(2)
}

func main() {
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() == 0 {
		usage()
	}

	switch cmd := flag.Arg(0); cmd {
	case "detect":
		detectCommand(flag.Args()[1:])
	case "read":
		readCommand(flag.Args()[1:])
	case "write":
		writeCommand(flag.Args()[1:])
	case "erase":
		eraseCommand(flag.Args()[1:])
	case "verify":
		verifyCommand(flag.Args()[1:])
	case "list":
		listCommand(flag.Args()[1:])
	case "shell":
		shellCommand(flag.Args()[1:])
	case "log":
		logCommand(flag.Args()[1:])
	case "help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %q\n", cmd)
		usage()
	}
}
