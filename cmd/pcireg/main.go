// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"flag"
	"fmt"
	"log"
	"os"
)

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), "usage: %v [options] <address|symbol> [data]\n", os.Args[0])
	flag.PrintDefaults()
}

func main() {
	opts := &Options{}

	flag.StringVar(&opts.Device, "d", "", "Device, as vendor:device or PCI address (env "+ENV_DEVICE+", default "+DEFAULT_DEVICE+")")
	flag.StringVar(&opts.Direct, "p", "", "Physical address to map directly, instead of a device")
	flag.IntVar(&opts.Region, "r", REGION_UNSET, "Resource region (env "+ENV_REGION+", default 0)")
	flag.StringVar(&opts.Defines, "f", "", "Symbol definitions file (env "+ENV_DEFINES+", default "+DEFAULT_DEFINES+")")
	flag.BoolVar(&opts.Wide, "w", false, "64-bit access")
	flag.BoolVar(&opts.Verbose, "v", false, "Verbose mode")
	flag.Usage = usage

	flag.Parse()

	if flag.NArg() < 1 || flag.NArg() > 2 {
		usage()
		os.Exit(1)
	}

	opts.Target = flag.Arg(0)
	opts.Data = flag.Args()[1:]

	log.SetFlags(0)

	err := opts.Defaults(os.Getenv)
	if err != nil {
		log.Fatalf("%v: %v", os.Args[0], err)
	}

	err = opts.Run(os.Stdout)
	if err != nil {
		log.Fatalf("%v: %v", os.Args[0], err)
	}
}
