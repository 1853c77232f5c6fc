package mcp23017

import (
	"fmt"

	"github.com/antongulenko/optinit/hardware"
	"github.com/antongulenko/optinit/regplan"
)

// ============== General IO configuration
// IODIR: 0: output, 1: input (default: all input)
// IPOL: 1: GPIO reflects inverted value of the pin
// GPIO: Reading reads pin values. Writing modifies to OLAT.
// OLAT: Output values ("latches")
// GPPU: 1: enable internal pull-up for input pins (100 kOhm)

// ============== Interrupt configuration
// GPINTEN: 1: enable interrupt-on-change. Pins must also be input.
// DEFVAL: opposite value on input pin will cause interrupt (if INTCON is set)
// INTCON: for interrupt: 0: pins compared to previous value 1: pins compared to DEFVAL

// Register addresses with the BANK bit in IOCON cleared (default after reset).
// Only this layout is supported.
const (
	IODIR_A = byte(iota)
	IODIR_B
	IPOL_A
	IPOL_B
	GPINTEN_A
	GPINTEN_B
	DEFVAL_A
	DEFVAL_B
	INTCON_A
	INTCON_B
	IOCON
	_ // IOCON
	GPPU_A
	GPPU_B
	INTF_A
	INTF_B
	INTCAP_A
	INTCAP_B
	GPIO_A
	GPIO_B
	OLAT_A
	OLAT_B
)

const (
	_                = byte(1 << iota)
	IOCON_BIT_INTPOL // 1: INT pins active-high 0: INT pins active-low
	IOCON_BIT_ODR    // (overrides INTPOL) 1: INT pins are open-drain 0: active output (INTPOL sets polarity)
	IOCON_BIT_HAEN   // Enable hardware address pins (zero otherwise)
	IOCON_BIT_DISSLW // 0: slew rate control for SDA output enabled 1: disabled
	IOCON_BIT_SEQOP  // 0: sequential operation enabled 1: disabled (address stays after read/write)
	IOCON_BIT_MIRROR // 0: INT pins not mirrored 1: INT pins mirrored (both high if one is high)
	IOCON_BIT_BANK   // 1: registers grouped in banks 0: registers paired
)

const (
	ADDRESS     = byte(0x20) // 0010 0000
	MAX_ADDRESS = byte(0x27) // 0010 0111

	NumPins = 16
)

// Port is one of the two 8-bit ports, 'A' or 'B'.
type Port byte

const (
	PortA = Port('A')
	PortB = Port('B')
)

func (p Port) offset() byte {
	if p == PortB {
		return 1
	}
	return 0
}

func (p Port) register(portA byte) regplan.Address {
	return regplan.Address(portA + p.offset())
}

// Pin returns the GPIO builder for bit (0..7) of the port. Outputs are driven
// through OLAT, inputs use GPPU for the pull-up.
func (p Port) Pin(bit uint) hardware.Gpio {
	return hardware.Gpio{
		Direction:    p.register(IODIR_A),
		Value:        p.register(OLAT_A),
		Pull:         p.register(GPPU_A),
		Bit:          bit,
		SeparatePull: true,
		InputHigh:    true,
	}
}

// InvertInput makes the GPIO register report the inverted level of an input pin.
func (p Port) InvertInput(bit uint, invert bool) regplan.Modification {
	return hardware.Bit{Address: p.register(IPOL_A), Index: bit}.Set(invert)
}

// InterruptOnChange enables the interrupt-on-change for an input pin. If compareTo
// is nil, the pin is compared against its previous value, otherwise against DEFVAL.
func (p Port) InterruptOnChange(bit uint, compareTo *bool) regplan.Group {
	enable := hardware.Bit{Address: p.register(GPINTEN_A), Index: bit}.High()
	control := hardware.Bit{Address: p.register(INTCON_A), Index: bit}
	if compareTo == nil {
		return regplan.Compose(control.Low(), enable)
	}
	defval := hardware.Bit{Address: p.register(DEFVAL_A), Index: bit}.Set(*compareTo)
	return regplan.Compose(defval, control.High(), enable)
}

// Pin returns one of the 16 pins, numbered 0-7 for port A and 8-15 for port B.
func Pin(number int) (hardware.Gpio, error) {
	if number < 0 || number >= NumPins {
		return hardware.Gpio{}, fmt.Errorf("Invalid MCP23017 pin %v (must be 0..%v)", number, NumPins-1)
	}
	if number < 8 {
		return PortA.Pin(uint(number)), nil
	}
	return PortB.Pin(uint(number - 8)), nil
}

// Config sets or clears the given IOCON bits. The BANK bit can not be set, because
// it would move all register addresses.
func Config(set bool, bits byte) regplan.Modification {
	bits &^= IOCON_BIT_BANK
	var value regplan.Word
	if set {
		value = regplan.Word(bits)
	}
	return regplan.Modify(regplan.Address(IOCON), regplan.Word(bits), value)
}

// Registers lists the writable configuration registers.
func Registers() []hardware.Register {
	names := []string{"IODIR", "IPOL", "GPINTEN", "DEFVAL", "INTCON"}
	var res []hardware.Register
	for i, name := range names {
		res = append(res,
			hardware.Register{Name: name + "A", Address: regplan.Address(2 * i), Width: 8},
			hardware.Register{Name: name + "B", Address: regplan.Address(2*i + 1), Width: 8})
	}
	res = append(res, hardware.Register{Name: "IOCON", Address: regplan.Address(IOCON), Width: 8})
	for _, reg := range []struct {
		name string
		addr byte
	}{{"GPPU", GPPU_A}, {"GPIO", GPIO_A}, {"OLAT", OLAT_A}} {
		res = append(res,
			hardware.Register{Name: reg.name + "A", Address: regplan.Address(reg.addr), Width: 8},
			hardware.Register{Name: reg.name + "B", Address: regplan.Address(reg.addr + 1), Width: 8})
	}
	return res
}

// ResetValues are the register contents after power-on reset.
func ResetValues() regplan.PresumedValues {
	res := make(regplan.PresumedValues)
	for _, reg := range Registers() {
		res[reg.Address] = 0
	}
	res[regplan.Address(IODIR_A)] = 0xFF
	res[regplan.Address(IODIR_B)] = 0xFF
	return res
}
