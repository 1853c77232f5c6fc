package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/antongulenko/golib"
	"github.com/antongulenko/optinit/config"
	"github.com/antongulenko/optinit/regplan"
	"github.com/google/shlex"
	log "github.com/sirupsen/logrus"
)

// Script lines:
//
//	apply <setting>...
//	init <setting>...
//	write <register> <value>
//	modify <register> <mask> <value>
//	bit <register> <index> <0|1>
//	gpio <gpio> <mode>
//	dump
//	sleep <duration>
//
// Everything after # is a comment.
func runScripts() error {
	if err := openRegisters(); err != nil {
		return err
	}
	files := flag.Args()
	if len(files) == 0 {
		return runScript("stdin", os.Stdin)
	}
	for _, file := range files {
		f, err := os.Open(file)
		if err != nil {
			return err
		}
		err = runScript(file, f)
		golib.Printerr(f.Close())
		if err != nil {
			return err
		}
	}
	return nil
}

func runScript(name string, r io.Reader) error {
	scanner := bufio.NewScanner(r)
	for lineNr := 1; scanner.Scan(); lineNr++ {
		line := scanner.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		args, err := shlex.Split(line)
		if err != nil {
			return fmt.Errorf("%v:%v: %v", name, lineNr, err)
		}
		if len(args) == 0 {
			continue
		}
		log.Debugf("%v:%v: %v", name, lineNr, args)
		if err := runScriptLine(args[0], args[1:]); err != nil {
			return fmt.Errorf("%v:%v: %v: %v", name, lineNr, args[0], err)
		}
	}
	return scanner.Err()
}

func runScriptLine(cmd string, args []string) error {
	switch cmd {
	case "apply":
		return applySettings(args, false)
	case "init":
		return applySettings(args, true)
	case "dump":
		return dumpRegisters()
	case "sleep":
		if len(args) != 1 {
			return fmt.Errorf("Expected 1 argument, got %v", len(args))
		}
		d, err := time.ParseDuration(args[0])
		if err != nil {
			return err
		}
		time.Sleep(d)
		return nil
	}
	entry, err := scriptEntry(cmd, args)
	if err != nil {
		return err
	}
	group, err := layout.Entries(entry)
	if err != nil {
		return err
	}
	return regplan.Execute(registers, group.Plan())
}

func scriptEntry(cmd string, args []string) (config.Entry, error) {
	expected := map[string]int{"write": 2, "modify": 3, "bit": 3, "gpio": 2}
	n, ok := expected[cmd]
	if !ok {
		return config.Entry{}, fmt.Errorf("Unknown script command")
	}
	if len(args) != n {
		return config.Entry{}, fmt.Errorf("Expected %v arguments, got %v", n, len(args))
	}
	if cmd == "gpio" {
		return config.Entry{Gpio: args[0], Mode: args[1]}, nil
	}
	numbers := make([]uint64, len(args)-1)
	for i, arg := range args[1:] {
		num, err := strconv.ParseUint(arg, 0, 32)
		if err != nil {
			return config.Entry{}, err
		}
		numbers[i] = num
	}
	entry := config.Entry{Register: args[0]}
	switch cmd {
	case "write":
		entry.Value = regplan.Word(numbers[0])
	case "modify":
		mask := regplan.Word(numbers[0])
		entry.Mask = &mask
		entry.Value = regplan.Word(numbers[1])
	case "bit":
		bit := uint(numbers[0])
		entry.Bit = &bit
		entry.Value = regplan.Word(numbers[1])
	}
	return entry, nil
}
