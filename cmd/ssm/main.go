// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/k0kubun/pp/v3"

	"github.com/ezrec/ssm/cpu"
	"github.com/ezrec/ssm/emulator"
	"github.com/ezrec/ssm/io"
)

func main() {
	var config string
	var image string
	var limit int
	var listing bool
	var stack bool
	var dump bool
	var prompt bool
	var verbose bool

	flag.StringVar(&config, "c", "", ".toml machine configuration")
	flag.StringVar(&image, "i", "", "Text image to run")
	flag.IntVar(&limit, "n", 10000000, "Step limit, 0 for none")
	flag.BoolVar(&listing, "l", false, "Print the program listing")
	flag.BoolVar(&stack, "s", false, "Print the stack at exit")
	flag.BoolVar(&dump, "dump", false, "Dump the machine state at exit")
	flag.BoolVar(&prompt, "p", false, "Prompt before console input")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	if flag.NArg() != 0 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	if len(image) == 0 || image == "-" {
		log.Fatalf("%v: -i must name an image file, stdin is the console", os.Args[0])
	}

	cfg := emulator.DefaultConfig()
	if len(config) != 0 {
		var err error
		cfg, err = emulator.LoadConfig(config)
		if err != nil {
			log.Fatalf("%v: %v", config, err)
		}
	}

	console := &io.Console{
		Input:       os.Stdin,
		Output:      os.Stdout,
		Diagnostics: os.Stderr,
		Prompt:      prompt,
	}
	defer console.Flush()

	emu, err := emulator.NewEmulator(cfg, console)
	if err != nil {
		log.Fatalf("%v: %v", os.Args[0], err)
	}
	defer emu.Close()
	emu.Verbose = verbose

	inf, err := os.Open(image)
	if err != nil {
		log.Fatalf("%v: %v", image, err)
	}
	defer inf.Close()

	ip := &cpu.ImageParser{Verbose: verbose, Origin: cfg.Origin}
	for equ, value := range emu.Defines() {
		ip.Predefine(equ, value)
	}

	prog, err := ip.Parse(inf)
	if err != nil {
		log.Fatalf("%v: %v", image, err)
	}

	if listing {
		for line := range prog.Listing() {
			fmt.Println(line)
		}
	}

	emu.Program = prog
	err = emu.Reset()
	if err != nil {
		log.Fatalf("%v: %v", image, err)
	}

	stop, steps, err := emu.Run(limit)
	console.Flush()

	if stop == emulator.STOP_LIMIT {
		log.Printf("%v: stopped after %v steps", image, steps)
	}

	if stack {
		fmt.Fprint(os.Stderr, emu.Watch.String())
	}

	if dump {
		pp.Fprintln(os.Stderr, emu.Mark, emu.Registers.Values())
	}

	if err != nil {
		if verbose {
			log.Print(err)
		}
		console.Flush()
		os.Exit(1)
	}
}
