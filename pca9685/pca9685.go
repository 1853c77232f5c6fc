package pca9685

import (
	"fmt"

	"github.com/antongulenko/optinit/hardware"
	"github.com/antongulenko/optinit/regplan"
)

const (
	MODE1 = byte(iota)
	MODE2

	// The I2C addresses are stored in the 7 MSBs. Addresses must be left-shifted once.
	SUBADR1
	SUBADR2
	SUBADR3
	ALLCALLADR

	PRE_SCALE = byte(0xFE) // Only settable in SLEEP mode. Default value: 0x1E
)

// Default values all zero, except ALLCALL and SLEEP
const (
	MODE1_ALLCALL = byte(1 << iota) // 1: Respond to ALLCALL address
	MODE1_SUB3                      // 1: Respond to SUB3 address
	MODE1_SUB2                      // 1: Respond to SUB2 address
	MODE1_SUB1                      // 1: Respond to SUB1 address
	MODE1_SLEEP                     // 0: normal mode 1: oscillator off, low power mode
	MODE1_AI                        // 1: Register auto increment
	MODE1_EXTCLK                    // 1: use EXTCLK pin as clock source. Can only be cleared by power cycle or software reset.
	MODE1_RESTART                   // Write 1: wake up from SLEEP (write 0 no effect). Only possible if read as 1, after setting SLEEP.
)

// Default values all zero, except OUTDRV
const (
	// Control led state for OE pin = 1 (leds disabled), 2 bit field
	MODE2_OUTNE0 = byte(1 << iota) // (only for OUTNE1=0) 0: leds off 1: [leds on if OUTDRV=1, high-impedance if OUTDRV=0]
	MODE2_OUTNE1                   // 1: high impedance 0: see OUTNE0

	MODE2_OUTDRV // 0: outputs are open drain 1: outputs are totem pole
	MODE2_OCH    // 0: output change on STOP 1: output change on ACK (after writing all 4 registers of an LED)
	MODE2_INVRT  // 1: invert output logic
)

const (
	ADDRESS     = byte(0x40) // 0100 0000
	ADDRESS_MAX = byte(0x7F) // 0111 1111

	DEFAULT_ALLCALL_ADDRESS = byte(0x70) // 0111 0000
)

// Output enable behaviour, values of the OUTNE field in MODE2
const (
	OutputDisabledLow = regplan.Word(iota)
	OutputDisabledHigh
	OutputDisabledHighImpedance
)

var (
	Mode1 = hardware.Register{Name: "MODE1", Address: regplan.Address(MODE1), Width: 8}
	Mode2 = hardware.Register{Name: "MODE2", Address: regplan.Address(MODE2), Width: 8}

	outne = Mode2.Field(0, 2)
)

func mode1Bit(bit byte, set bool) regplan.Modification {
	return Mode1.Modify(regplan.Word(bit), flag(bit, set))
}

func mode2Bit(bit byte, set bool) regplan.Modification {
	return Mode2.Modify(regplan.Word(bit), flag(bit, set))
}

func flag(bit byte, set bool) regplan.Word {
	if set {
		return regplan.Word(bit)
	}
	return 0
}

// Sleep switches the oscillator off. The RESTART bit is never written here, it
// is a one-shot trigger that must not be merged with other MODE1 changes.
func Sleep(sleep bool) regplan.Modification {
	return mode1Bit(MODE1_SLEEP, sleep)
}

func AutoIncrement(enabled bool) regplan.Modification {
	return mode1Bit(MODE1_AI, enabled)
}

func RespondAllCall(enabled bool) regplan.Modification {
	return mode1Bit(MODE1_ALLCALL, enabled)
}

// RespondSubAddress enables responding to sub address 1, 2 or 3.
func RespondSubAddress(sub int, enabled bool) (regplan.Modification, error) {
	bits := []byte{MODE1_SUB1, MODE1_SUB2, MODE1_SUB3}
	if sub < 1 || sub > len(bits) {
		return regplan.Modification{}, fmt.Errorf("PCA9685 has no sub address %v", sub)
	}
	return mode1Bit(bits[sub-1], enabled), nil
}

// TotemPole selects totem pole outputs, open drain otherwise.
func TotemPole(enabled bool) regplan.Modification {
	return mode2Bit(MODE2_OUTDRV, enabled)
}

func InvertOutputs(invert bool) regplan.Modification {
	return mode2Bit(MODE2_INVRT, invert)
}

// ChangeOnAck updates outputs on ACK instead of STOP.
func ChangeOnAck(enabled bool) regplan.Modification {
	return mode2Bit(MODE2_OCH, enabled)
}

// OutputDisabled selects the output state while the OE pin is high.
func OutputDisabled(state regplan.Word) regplan.Modification {
	return outne.Set(state)
}

// LedDriver is the configuration for directly driving LEDs: wake up, auto
// increment for multi-register PWM updates, respond to ALLCALL, totem pole outputs.
func LedDriver() regplan.Group {
	return regplan.Compose(
		regplan.Compose(RespondAllCall(true), AutoIncrement(true), Sleep(false)),
		regplan.Compose(TotemPole(true), InvertOutputs(false)),
	)
}

// ResetValues are the register contents after power-on reset.
func ResetValues() regplan.PresumedValues {
	return regplan.PresumedValues{
		regplan.Address(MODE1): regplan.Word(MODE1_ALLCALL | MODE1_SLEEP),
		regplan.Address(MODE2): regplan.Word(MODE2_OUTDRV),
	}
}
