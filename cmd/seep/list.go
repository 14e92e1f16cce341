package main

import (
	"flag"
	"fmt"

	"github.com/tgray/seep"
)

func listCommand(args []string) {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	var configPath string
	fs.StringVar(&configPath, "config", "", "YAML config file with extra profiles")
	fs.Parse(args)

	profiles := seep.Profiles()
	if configPath != "" {
		cfg, err := seep.LoadConfig(configPath)
		if err != nil {
			fatalf("%v", err)
		}
		for _, pc := range cfg.Profiles {
			profiles = append(profiles, seep.NewProfile(pc.Name, pc.TotalBytes, pc.PageBytes))
		}
	}

	for _, p := range profiles {
		fmt.Printf("%-8s %7d bytes  %3d byte pages  %s addressing\n",
			p.Name, p.TotalBytes, p.PageBytes, p.Width)
	}
}
