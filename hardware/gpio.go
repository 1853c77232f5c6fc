package hardware

import (
	"fmt"
	"strings"

	"github.com/antongulenko/optinit/regplan"
)

// Gpio describes one pin of a GPIO port controlled by a direction register and
// a value register. On AVR the value register also enables the pull-up for inputs,
// other chips use a separate pull-up register.
type Gpio struct {
	Direction regplan.Address
	Value     regplan.Address
	Pull      regplan.Address // Only used if SeparatePull is set
	Bit       uint

	SeparatePull bool
	InputHigh    bool // Direction bit is 1 for input pins, e.g. IODIR on MCP23017
}

func (g Gpio) direction() Bit {
	return Bit{Address: g.Direction, Index: g.Bit}
}

func (g Gpio) value() Bit {
	return Bit{Address: g.Value, Index: g.Bit}
}

func (g Gpio) pull() Bit {
	if g.SeparatePull {
		return Bit{Address: g.Pull, Index: g.Bit}
	}
	return g.value()
}

// InputAny switches the pin to input without touching its value or pull-up.
func (g Gpio) InputAny() regplan.Modification {
	return g.direction().Set(g.InputHigh)
}

// OutputAny switches the pin to output without touching its value.
func (g Gpio) OutputAny() regplan.Modification {
	return g.direction().Set(!g.InputHigh)
}

func (g Gpio) Low() regplan.Modification {
	return g.value().Low()
}

func (g Gpio) High() regplan.Modification {
	return g.value().High()
}

func (g Gpio) PullUp(enabled bool) regplan.Modification {
	return g.pull().Set(enabled)
}

// Composite modes list the value (or pull-up) modification before the direction.

func (g Gpio) OutputLow() regplan.Group {
	return regplan.Compose(g.Low(), g.OutputAny())
}

func (g Gpio) OutputHigh() regplan.Group {
	return regplan.Compose(g.High(), g.OutputAny())
}

func (g Gpio) InputFloating() regplan.Group {
	return regplan.Compose(g.PullUp(false), g.InputAny())
}

func (g Gpio) InputPullup() regplan.Group {
	return regplan.Compose(g.PullUp(true), g.InputAny())
}

func (g Gpio) Input() regplan.Group {
	return g.InputFloating()
}

func (g Gpio) Output() regplan.Group {
	return regplan.Compose(g.OutputAny())
}

// Mode is a named pin configuration.
type Mode int

const (
	ModeInput Mode = iota
	ModeInputPullup
	ModeInputAny
	ModeOutput
	ModeOutputLow
	ModeOutputHigh
	ModeLow
	ModeHigh
)

var modeNames = map[Mode]string{
	ModeInput:       "input",
	ModeInputPullup: "input-pullup",
	ModeInputAny:    "input-any",
	ModeOutput:      "output",
	ModeOutputLow:   "output-low",
	ModeOutputHigh:  "output-high",
	ModeLow:         "low",
	ModeHigh:        "high",
}

func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode accepts the names returned by Mode.String, plus "input-floating"
// and "output-any" as aliases.
func ParseMode(name string) (Mode, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	switch name {
	case "input-floating":
		return ModeInput, nil
	case "output-any":
		return ModeOutput, nil
	}
	for mode, modeName := range modeNames {
		if modeName == name {
			return mode, nil
		}
	}
	return 0, fmt.Errorf("Unknown GPIO mode '%v'", name)
}

// Configure returns the modifications for the given mode.
func (g Gpio) Configure(mode Mode) regplan.Group {
	switch mode {
	case ModeInput:
		return g.Input()
	case ModeInputPullup:
		return g.InputPullup()
	case ModeInputAny:
		return regplan.Compose(g.InputAny())
	case ModeOutput:
		return g.Output()
	case ModeOutputLow:
		return g.OutputLow()
	case ModeOutputHigh:
		return g.OutputHigh()
	case ModeLow:
		return regplan.Compose(g.Low())
	case ModeHigh:
		return regplan.Compose(g.High())
	default:
		return nil
	}
}
