package config

import (
	"fmt"
	"strings"

	"github.com/antongulenko/optinit/hardware"
	"github.com/antongulenko/optinit/regplan"
)

// EntryList is the ordered content of a named setting.
type EntryList []Entry

// Entry is one element of a setting. Exactly one of Gpio, Register, Include,
// Preset or Group must be set.
type Entry struct {
	Gpio string `yaml:"gpio,omitempty"`
	Mode string `yaml:"mode,omitempty"`

	Register string        `yaml:"register,omitempty"`
	Bit      *uint         `yaml:"bit,omitempty"`
	Field    *FieldDef     `yaml:"field,omitempty"`
	Mask     *regplan.Word `yaml:"mask,omitempty"`
	Value    regplan.Word  `yaml:"value,omitempty"`

	Include string    `yaml:"include,omitempty"`
	Preset  string    `yaml:"preset,omitempty"`
	Group   EntryList `yaml:"group,omitempty"`
}

type FieldDef struct {
	Shift uint `yaml:"shift"`
	Width uint `yaml:"width"`
}

func (e *Entry) kinds() int {
	n := 0
	for _, set := range []bool{e.Gpio != "", e.Register != "", e.Include != "", e.Preset != "", len(e.Group) > 0} {
		if set {
			n++
		}
	}
	return n
}

// Setting resolves a named setting into a group, preserving the entry order.
func (l *Layout) Setting(name string) (regplan.Group, error) {
	return l.setting(name, nil)
}

// Resolve composes several named settings, in the given order.
func (l *Layout) Resolve(names ...string) (regplan.Group, error) {
	group := make(regplan.Group, 0, len(names))
	for _, name := range names {
		item, err := l.Setting(name)
		if err != nil {
			return nil, err
		}
		group = append(group, item)
	}
	return group, nil
}

// Entries resolves entries that are not part of a named setting, e.g. from a script.
func (l *Layout) Entries(entries ...Entry) (regplan.Group, error) {
	return l.entries(EntryList(entries), nil)
}

func (l *Layout) setting(name string, stack []string) (regplan.Group, error) {
	for _, outer := range stack {
		if outer == name {
			return nil, fmt.Errorf("Setting %v includes itself: %v", name, strings.Join(append(stack, name), " -> "))
		}
	}
	entries, ok := l.Settings[name]
	if !ok {
		return nil, fmt.Errorf("Unknown setting '%v'", name)
	}
	group, err := l.entries(entries, append(stack, name))
	if err != nil {
		return nil, fmt.Errorf("Setting %v: %v", name, err)
	}
	return group, nil
}

func (l *Layout) entries(entries EntryList, stack []string) (regplan.Group, error) {
	group := make(regplan.Group, 0, len(entries))
	for i, entry := range entries {
		item, err := l.entry(entry, stack)
		if err != nil {
			return nil, fmt.Errorf("Entry %v: %v", i, err)
		}
		group = append(group, item)
	}
	return group, nil
}

func (l *Layout) entry(e Entry, stack []string) (regplan.Item, error) {
	if n := e.kinds(); n != 1 {
		return nil, fmt.Errorf("Needs exactly one of gpio, register, include, preset or group (has %v)", n)
	}
	switch {
	case e.Gpio != "":
		return l.gpioEntry(e)
	case e.Register != "":
		return l.registerEntry(e)
	case e.Include != "":
		return l.setting(e.Include, stack)
	case e.Preset != "":
		preset, ok := presets[e.Preset]
		if !ok {
			return nil, fmt.Errorf("Unknown preset '%v', known presets: %v", e.Preset, strings.Join(Presets(), ", "))
		}
		return preset(), nil
	default:
		return l.entries(e.Group, stack)
	}
}

func (l *Layout) gpioEntry(e Entry) (regplan.Item, error) {
	gpio, err := l.Gpio(e.Gpio)
	if err != nil {
		return nil, err
	}
	mode, err := hardware.ParseMode(e.Mode)
	if err != nil {
		return nil, err
	}
	return gpio.Configure(mode), nil
}

func (l *Layout) registerEntry(e Entry) (regplan.Item, error) {
	reg, err := l.Register(e.Register)
	if err != nil {
		return nil, err
	}
	switch {
	case e.Bit != nil && e.Field == nil && e.Mask == nil:
		if *e.Bit >= reg.Bits() {
			return nil, fmt.Errorf("Bit %v out of range for %v bit register %v", *e.Bit, reg.Bits(), reg.Name)
		}
		if e.Value > 1 {
			return nil, fmt.Errorf("Value of bit %v in register %v must be 0 or 1, not %v", *e.Bit, reg.Name, e.Value)
		}
		return reg.Bit(*e.Bit).Set(e.Value == 1), nil
	case e.Field != nil && e.Bit == nil && e.Mask == nil:
		if e.Field.Width == 0 || e.Field.Shift+e.Field.Width > reg.Bits() {
			return nil, fmt.Errorf("Field at bit %v with width %v out of range for register %v", e.Field.Shift, e.Field.Width, reg.Name)
		}
		return reg.Field(e.Field.Shift, e.Field.Width).SetChecked(e.Value)
	case e.Mask != nil && e.Bit == nil && e.Field == nil:
		if *e.Mask&^reg.Mask() != 0 {
			return nil, fmt.Errorf("Mask %#x out of range for %v bit register %v", uint32(*e.Mask), reg.Bits(), reg.Name)
		}
		return reg.Modify(*e.Mask, e.Value), nil
	case e.Mask == nil && e.Bit == nil && e.Field == nil:
		return reg.Write(e.Value), nil
	}
	return nil, fmt.Errorf("Register %v: only one of bit, field or mask can be set", reg.Name)
}
