package main

import (
	"flag"
	"fmt"
	"sort"
	"strings"

	"github.com/antongulenko/golib"
	"github.com/antongulenko/optinit/ads1115"
	"github.com/antongulenko/optinit/bridge"
	"github.com/antongulenko/optinit/config"
	"github.com/antongulenko/optinit/ft260"
	"github.com/antongulenko/optinit/regfile"
	"github.com/antongulenko/optinit/regplan"
	log "github.com/sirupsen/logrus"
)

type commandFunc func() error

var (
	b            = bridge.DefaultBridge
	command      = "plan"
	configFile   = ""
	chipName     = ""
	target       = "sim"
	i2cAddr      = uint(0x20)
	mmapPath     = regfile.DevMem
	mmapBase     = uint64(0)
	mmapSize     = 4096
	strict       = false
	logRegisters = false
	adc          = ads1115.Adc{BatteryMin: 6.4, BatteryMax: 8.4}

	commands = map[string]commandFunc{
		"scan":    scan,
		"plan":    printPlan,
		"check":   check,
		"apply":   apply,
		"init":    initialize,
		"dump":    dump,
		"script":  runScripts,
		"battery": readBattery,
	}

	// Set up by the commands that access registers
	layout    *config.Layout
	registers regplan.RegisterFile
	cleanups  []func() error
)

func main() {
	b.RegisterFlags()
	flag.StringVar(&command, "c", command, fmt.Sprintf("Command to execute, one of: %v", commandNames()))
	flag.StringVar(&configFile, "config", configFile, "YAML register layout with named settings")
	flag.StringVar(&chipName, "chip", chipName, fmt.Sprintf("Builtin chip layout, if no -config is given (%v)", strings.Join(config.Chips(), ", ")))
	flag.StringVar(&target, "target", target, "Register file to work on: sim (in memory), i2c (-i2c-addr on the bridge bus), mem (mmap), ft260-gpio")
	flag.UintVar(&i2cAddr, "i2c-addr", i2cAddr, "I2C address of the device for -target i2c")
	flag.StringVar(&mmapPath, "mmap", mmapPath, "Device file mapped for -target mem")
	flag.Uint64Var(&mmapBase, "mmap-base", mmapBase, "Physical base address for -target mem (page aligned)")
	flag.IntVar(&mmapSize, "mmap-size", mmapSize, "Number of mapped byte for -target mem")
	flag.BoolVar(&strict, "strict", strict, "Fail on overlapping modifications instead of letting the later one win")
	flag.Float64Var(&adc.BatteryMin, "battery-min", adc.BatteryMin, "Voltage of an empty battery (battery command)")
	flag.Float64Var(&adc.BatteryMax, "battery-max", adc.BatteryMax, "Voltage of a full battery (battery command)")
	flag.BoolVar(&adc.SkipInit, "battery-skip-init", adc.SkipInit, "Do not configure the ADC before reading (battery command)")
	flag.BoolVar(&logRegisters, "log-registers", logRegisters, "Log every register access at info level (otherwise debug)")
	golib.RegisterLogFlags()
	flag.Parse()
	golib.ConfigureLogging()
	err := doMain()
	for i := len(cleanups) - 1; i >= 0; i-- {
		golib.Printerr(cleanups[i]())
	}
	golib.Checkerr(err)
}

func doMain() error {
	commandFunc, ok := commands[command]
	if !ok {
		return fmt.Errorf("Unknown command %v, available commands: %v", command, commandNames())
	}
	return commandFunc()
}

func commandNames() []string {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func loadLayout() error {
	var err error
	switch {
	case configFile != "":
		layout, err = config.Load(configFile)
	case chipName != "":
		layout, err = config.ForChip(chipName)
	default:
		return fmt.Errorf("Need either -config or -chip")
	}
	return err
}

func setupBridge() error {
	if err := b.Setup(); err != nil {
		return err
	}
	cleanups = append(cleanups, func() error {
		b.Cleanup()
		return nil
	})
	return nil
}

func openRegisters() error {
	if err := loadLayout(); err != nil {
		return err
	}
	var regs regplan.RegisterFile
	switch target {
	case "sim":
		regs = regfile.NewMemory(layout.Width(), layout.ResetValues())
	case "i2c":
		if i2cAddr > ft260.I2cMaxAddress {
			return fmt.Errorf("Invalid I2C address %02x", i2cAddr)
		}
		b.DummyDevices = append(b.DummyDevices, byte(i2cAddr))
		if err := setupBridge(); err != nil {
			return err
		}
		regs = &regfile.I2C{Bus: b.Bus(), Addr: uint16(i2cAddr), Width: layout.Width()}
	case "ft260-gpio":
		if err := setupBridge(); err != nil {
			return err
		}
		gpio := b.Gpio()
		if gpio == nil {
			return fmt.Errorf("The dummy bridge has no GPIO registers")
		}
		regs = gpio
	case "mem":
		mapped, err := regfile.MapRegisters(mmapPath, int64(mmapBase), mmapSize)
		if err != nil {
			return err
		}
		cleanups = append(cleanups, mapped.Close)
		regs = mapped
	default:
		return fmt.Errorf("Unknown target '%v'", target)
	}
	logged := &regfile.Logged{RegisterFile: regs, Name: target, Level: log.DebugLevel}
	if logRegisters {
		logged.Level = log.InfoLevel
	}
	registers = logged
	return nil
}

// plan resolves the settings named on the command line.
func plan(names []string) (regplan.Plan, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("No settings given, available settings: %v", layout.SettingNames())
	}
	group, err := layout.Resolve(names...)
	if err != nil {
		return nil, err
	}
	if strict {
		return regplan.PlanStrict(group)
	}
	return group.Plan(), nil
}

func scan() error {
	if err := setupBridge(); err != nil {
		return err
	}
	slaves, err := ft260.I2cScan(b.Bus())
	if err != nil {
		return err
	}
	log.Printf("Scanned slaves: %#02v", slaves)
	return nil
}

func printPlan() error {
	if err := loadLayout(); err != nil {
		return err
	}
	p, err := plan(flag.Args())
	if err != nil {
		return err
	}
	log.Printf("%v write(s) for %v:", len(p), strings.Join(flag.Args(), ", "))
	for _, w := range p {
		fmt.Println(w)
	}
	return nil
}

func check() error {
	if err := loadLayout(); err != nil {
		return err
	}
	names := flag.Args()
	if len(names) == 0 {
		names = layout.SettingNames()
	}
	failed := 0
	for _, name := range names {
		group, err := layout.Setting(name)
		if err != nil {
			return err
		}
		conflicts := regplan.Conflicts(group)
		for _, c := range conflicts {
			log.Warnf("Setting %v: %v", name, c)
		}
		if len(conflicts) > 0 {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%v of %v setting(s) contain overlapping modifications", failed, len(names))
	}
	log.Printf("No overlapping modifications in %v setting(s)", len(names))
	return nil
}

func apply() error {
	if err := openRegisters(); err != nil {
		return err
	}
	return applySettings(flag.Args(), false)
}

func initialize() error {
	if err := openRegisters(); err != nil {
		return err
	}
	return applySettings(flag.Args(), true)
}

func applySettings(names []string, presumed bool) error {
	p, err := plan(names)
	if err != nil {
		return err
	}
	e := regplan.Executor{Registers: registers}
	if presumed {
		err = e.Initialize(p, layout)
	} else {
		err = e.Execute(p)
	}
	if err != nil {
		return err
	}
	log.Printf("Applied %v write(s) for %v", len(p), strings.Join(names, ", "))
	return nil
}

func dump() error {
	if err := openRegisters(); err != nil {
		return err
	}
	return dumpRegisters()
}

func dumpRegisters() error {
	for _, reg := range layout.AllRegisters() {
		val, err := registers.ReadRegister(reg.Address)
		if err != nil {
			return fmt.Errorf("Failed to read %v: %v", reg, err)
		}
		fmt.Printf("%-10v %v = %#0*x\n", reg.Name, reg.Address, int(reg.Bits()/4), uint32(val))
	}
	return nil
}

// readBattery reads an ADS1115 with AIN0/AIN3 connected to the battery. Use with -chip ads1115.
func readBattery() error {
	if err := openRegisters(); err != nil {
		return err
	}
	if layout.Width() != 16 {
		return fmt.Errorf("The battery command needs a 16 bit register layout (-chip ads1115)")
	}
	adc.Registers = registers
	if err := adc.Init(); err != nil {
		return err
	}
	volt, err := adc.GetBatteryVoltage()
	if err != nil {
		return err
	}
	percentage := adc.ConvertVoltageToPercentage(volt)
	log.Printf("Battery percentage: %.2f%% (%.2fV)", percentage*100, volt)
	return nil
}
