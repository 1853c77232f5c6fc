// Package avr contains GPIO port tables of 8-bit AVR microcontrollers and the
// digital pin numbering of the Arduino boards built on them.
// All addresses are data-space addresses (I/O address + 0x20).
package avr

import (
	"fmt"
	"sort"

	"github.com/antongulenko/optinit/hardware"
	"github.com/antongulenko/optinit/regplan"
)

// Port is one 8-bit GPIO port with its three registers.
type Port struct {
	Name byte // 'A', 'B', ...
	PIN  regplan.Address
	DDR  regplan.Address
	PORT regplan.Address
}

// Gpio returns pin bit of the port. Setting PORT on an input pin enables the pull-up.
func (p Port) Gpio(bit uint) hardware.Gpio {
	return hardware.Gpio{
		Direction: p.DDR,
		Value:     p.PORT,
		Bit:       bit,
	}
}

func (p Port) Registers() []hardware.Register {
	return []hardware.Register{
		{Name: fmt.Sprintf("PIN%c", p.Name), Address: p.PIN, Width: 8},
		{Name: fmt.Sprintf("DDR%c", p.Name), Address: p.DDR, Width: 8},
		{Name: fmt.Sprintf("PORT%c", p.Name), Address: p.PORT, Width: 8},
	}
}

// Chip is an AVR microcontroller with its GPIO ports.
type Chip struct {
	Name  string
	Ports map[byte]Port

	// Maps the Arduino digital pin number to the port and bit, nil if the chip
	// is not used on an Arduino board.
	digitalPin func(pin int) (byte, uint, bool)
}

// Port returns the port with the given letter.
func (c *Chip) Port(name byte) (Port, error) {
	port, ok := c.Ports[name]
	if !ok {
		return Port{}, fmt.Errorf("%v has no GPIO port %c", c.Name, name)
	}
	return port, nil
}

// Pin returns a GPIO by port letter and bit.
func (c *Chip) Pin(port byte, bit uint) (hardware.Gpio, error) {
	if bit > 7 {
		return hardware.Gpio{}, fmt.Errorf("Invalid bit %v for 8-bit port %c", bit, port)
	}
	p, err := c.Port(port)
	if err != nil {
		return hardware.Gpio{}, err
	}
	return p.Gpio(bit), nil
}

// DigitalPin resolves an Arduino digital pin number.
func (c *Chip) DigitalPin(pin int) (hardware.Gpio, error) {
	if c.digitalPin == nil {
		return hardware.Gpio{}, fmt.Errorf("%v has no Arduino pin numbering", c.Name)
	}
	port, bit, ok := c.digitalPin(pin)
	if !ok {
		return hardware.Gpio{}, fmt.Errorf("Arduino pin %v does not exist on %v", pin, c.Name)
	}
	return c.Pin(port, bit)
}

// Registers lists the PIN, DDR and PORT registers of all ports, sorted by address.
func (c *Chip) Registers() []hardware.Register {
	var res []hardware.Register
	for _, port := range c.Ports {
		res = append(res, port.Registers()...)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Address < res[j].Address })
	return res
}

func ports(ports ...Port) map[byte]Port {
	res := make(map[byte]Port, len(ports))
	for _, p := range ports {
		res[p.Name] = p
	}
	return res
}

// Ports A-G have consecutive PIN/DDR/PORT registers starting at 0x20.
func lowPort(name byte) Port {
	base := regplan.Address(0x20 + 3*int(name-'A'))
	return Port{Name: name, PIN: base, DDR: base + 1, PORT: base + 2}
}

// Ports H-L on the ATmega640/1280/2560 live in extended I/O space. There is no port I.
func highPort(name byte) Port {
	index := int(name - 'H')
	if name > 'I' {
		index--
	}
	base := regplan.Address(0x100 + 3*index)
	return Port{Name: name, PIN: base, DDR: base + 1, PORT: base + 2}
}

var ATmega328P = &Chip{
	Name:       "atmega328p",
	Ports:      ports(lowPort('B'), lowPort('C'), lowPort('D')),
	digitalPin: unoPin,
}

var ATmega2560 = &Chip{
	Name: "atmega2560",
	Ports: ports(
		lowPort('A'), lowPort('B'), lowPort('C'), lowPort('D'), lowPort('E'), lowPort('F'), lowPort('G'),
		highPort('H'), highPort('J'), highPort('K'), highPort('L'),
	),
	digitalPin: megaPin,
}

var chips = map[string]*Chip{
	ATmega328P.Name: ATmega328P,
	ATmega2560.Name: ATmega2560,
}

// Lookup returns a chip by name ("atmega328p", "atmega2560").
func Lookup(name string) (*Chip, bool) {
	c, ok := chips[name]
	return c, ok
}
