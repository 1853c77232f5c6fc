package config

import (
	"bytes"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/antongulenko/optinit/hardware"
	"github.com/antongulenko/optinit/regplan"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Layout describes the registers of a device and named settings on top of them.
type Layout struct {
	Chip      string               `yaml:"chip"`
	Registers []RegisterDef        `yaml:"registers"`
	Gpios     map[string]GpioDef   `yaml:"gpios"`
	Settings  map[string]EntryList `yaml:"settings"`

	chip      *chip
	registers map[string]hardware.Register
	reset     regplan.PresumedValues
	gpios     map[string]hardware.Gpio
}

type RegisterDef struct {
	Name    string          `yaml:"name"`
	Address regplan.Address `yaml:"address"`
	Width   uint            `yaml:"width"`
	Reset   *regplan.Word   `yaml:"reset"`
}

// GpioDef selects a pin either by chip pin number, by chip port and bit, or by
// naming the direction and value registers.
type GpioDef struct {
	Pin  *int   `yaml:"pin"`
	Port string `yaml:"port"`
	Bit  uint   `yaml:"bit"`

	Direction string `yaml:"direction"`
	Value     string `yaml:"value"`
	Pull      string `yaml:"pull"`
	InputHigh bool   `yaml:"input-high"`
}

// Load reads and resolves a layout file.
func Load(path string) (*Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	l, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("Failed to load layout %v: %v", path, err)
	}
	log.Debugf("Loaded layout %v with %v registers, %v GPIOs and %v settings", path, len(l.registers), len(l.gpios), len(l.Settings))
	return l, nil
}

// Parse decodes a YAML layout. Unknown keys are rejected.
func Parse(data []byte) (*Layout, error) {
	l := new(Layout)
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(l); err != nil {
		return nil, err
	}
	if err := l.resolve(); err != nil {
		return nil, err
	}
	return l, nil
}

// ForChip returns the layout of a builtin chip without settings.
func ForChip(name string) (*Layout, error) {
	l := &Layout{Chip: name}
	if err := l.resolve(); err != nil {
		return nil, err
	}
	return l, nil
}

func (l *Layout) resolve() error {
	l.registers = make(map[string]hardware.Register)
	l.reset = make(regplan.PresumedValues)
	l.gpios = make(map[string]hardware.Gpio)

	if l.Chip != "" {
		newChip, ok := builtinChips[strings.ToLower(l.Chip)]
		if !ok {
			return fmt.Errorf("Unknown chip '%v', known chips: %v", l.Chip, strings.Join(Chips(), ", "))
		}
		l.chip = newChip()
		for _, reg := range l.chip.registers {
			l.registers[reg.Name] = reg
		}
		for addr, val := range l.chip.reset {
			l.reset[addr] = val
		}
	}
	for _, def := range l.Registers {
		if def.Name == "" {
			return fmt.Errorf("Register at address %v has no name", def.Address)
		}
		if _, exists := l.registers[def.Name]; exists {
			return fmt.Errorf("Duplicate register %v", def.Name)
		}
		if def.Width > 32 {
			return fmt.Errorf("Register %v: width %v exceeds 32 bit", def.Name, def.Width)
		}
		reg := hardware.Register{Name: def.Name, Address: def.Address, Width: def.Width}
		l.registers[def.Name] = reg
		if def.Reset != nil {
			l.reset[def.Address] = *def.Reset
		}
	}
	for name, def := range l.Gpios {
		gpio, err := l.resolveGpio(def)
		if err != nil {
			return fmt.Errorf("GPIO %v: %v", name, err)
		}
		l.gpios[name] = gpio
	}
	for _, name := range l.SettingNames() {
		if _, err := l.Setting(name); err != nil {
			return err
		}
	}
	return nil
}

func (l *Layout) resolveGpio(def GpioDef) (hardware.Gpio, error) {
	switch {
	case def.Pin != nil:
		if l.chip == nil || l.chip.pin == nil {
			return hardware.Gpio{}, fmt.Errorf("Pin numbers require a chip with pin numbering")
		}
		return l.chip.pin(*def.Pin)
	case def.Port != "":
		if l.chip == nil || l.chip.port == nil {
			return hardware.Gpio{}, fmt.Errorf("Ports require a chip with GPIO ports")
		}
		if len(def.Port) != 1 {
			return hardware.Gpio{}, fmt.Errorf("Invalid port name '%v'", def.Port)
		}
		return l.chip.port(strings.ToUpper(def.Port)[0], def.Bit)
	case def.Direction != "" && def.Value != "":
		dir, err := l.Register(def.Direction)
		if err != nil {
			return hardware.Gpio{}, err
		}
		val, err := l.Register(def.Value)
		if err != nil {
			return hardware.Gpio{}, err
		}
		if def.Bit >= dir.Bits() || def.Bit >= val.Bits() {
			return hardware.Gpio{}, fmt.Errorf("Bit %v out of range", def.Bit)
		}
		gpio := hardware.Gpio{Direction: dir.Address, Value: val.Address, Bit: def.Bit, InputHigh: def.InputHigh}
		if def.Pull != "" {
			pull, err := l.Register(def.Pull)
			if err != nil {
				return hardware.Gpio{}, err
			}
			gpio.Pull = pull.Address
			gpio.SeparatePull = true
		}
		return gpio, nil
	}
	return hardware.Gpio{}, fmt.Errorf("Needs either pin, port or direction and value registers")
}

// Register looks up a register by name. Numeric names (like "0x2A") address
// unnamed 8 bit registers.
func (l *Layout) Register(name string) (hardware.Register, error) {
	if reg, ok := l.registers[name]; ok {
		return reg, nil
	}
	if addr, err := strconv.ParseUint(name, 0, 32); err == nil {
		return hardware.Register{Name: name, Address: regplan.Address(addr)}, nil
	}
	return hardware.Register{}, fmt.Errorf("Unknown register '%v'", name)
}

func (l *Layout) Gpio(name string) (hardware.Gpio, error) {
	gpio, ok := l.gpios[name]
	if !ok {
		return hardware.Gpio{}, fmt.Errorf("Unknown GPIO '%v'", name)
	}
	return gpio, nil
}

// AllRegisters returns all named registers sorted by address.
func (l *Layout) AllRegisters() []hardware.Register {
	res := make([]hardware.Register, 0, len(l.registers))
	for _, reg := range l.registers {
		res = append(res, reg)
	}
	sort.Slice(res, func(i, j int) bool {
		if res[i].Address == res[j].Address {
			return res[i].Name < res[j].Name
		}
		return res[i].Address < res[j].Address
	})
	return res
}

// Width returns the widest register width, at least 8 bit.
func (l *Layout) Width() uint {
	width := uint(8)
	for _, reg := range l.registers {
		if reg.Bits() > width {
			width = reg.Bits()
		}
	}
	return width
}

func (l *Layout) GpioNames() []string {
	return sortedKeys(l.gpios)
}

func (l *Layout) SettingNames() []string {
	return sortedKeys(l.Settings)
}

// PresumedValue returns the reset value of a register, if known.
func (l *Layout) PresumedValue(addr regplan.Address) (regplan.Word, bool) {
	val, ok := l.reset[addr]
	return val, ok
}

// ResetValues returns a copy of all known register reset values.
func (l *Layout) ResetValues() regplan.PresumedValues {
	res := make(regplan.PresumedValues, len(l.reset))
	for addr, val := range l.reset {
		res[addr] = val
	}
	return res
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
