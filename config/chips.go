package config

import (
	"fmt"

	"github.com/antongulenko/optinit/ads1115"
	"github.com/antongulenko/optinit/avr"
	"github.com/antongulenko/optinit/hardware"
	"github.com/antongulenko/optinit/mcp23017"
	"github.com/antongulenko/optinit/pca9685"
	"github.com/antongulenko/optinit/regplan"
)

// chip is a builtin register table.
type chip struct {
	registers []hardware.Register
	reset     regplan.PresumedValues
	port      func(port byte, bit uint) (hardware.Gpio, error)
	pin       func(pin int) (hardware.Gpio, error)
}

func avrChip(c *avr.Chip) *chip {
	reset := make(regplan.PresumedValues)
	for _, port := range c.Ports {
		// PIN reflects the input level and has no defined content
		reset[port.DDR] = 0
		reset[port.PORT] = 0
	}
	return &chip{
		registers: c.Registers(),
		reset:     reset,
		port:      c.Pin,
		pin:       c.DigitalPin,
	}
}

var builtinChips = map[string]func() *chip{
	avr.ATmega328P.Name: func() *chip { return avrChip(avr.ATmega328P) },
	avr.ATmega2560.Name: func() *chip { return avrChip(avr.ATmega2560) },
	"mcp23017": func() *chip {
		return &chip{
			registers: mcp23017.Registers(),
			reset:     mcp23017.ResetValues(),
			port: func(port byte, bit uint) (hardware.Gpio, error) {
				if port != byte(mcp23017.PortA) && port != byte(mcp23017.PortB) {
					return hardware.Gpio{}, fmt.Errorf("mcp23017 has no GPIO port %c", port)
				}
				if bit > 7 {
					return hardware.Gpio{}, fmt.Errorf("Invalid bit %v for 8-bit port %c", bit, port)
				}
				return mcp23017.Port(port).Pin(bit), nil
			},
			pin: mcp23017.Pin,
		}
	},
	"pca9685": func() *chip {
		return &chip{
			registers: []hardware.Register{pca9685.Mode1, pca9685.Mode2},
			reset:     pca9685.ResetValues(),
		}
	},
	"ads1115": func() *chip {
		return &chip{
			registers: []hardware.Register{ads1115.Config},
			reset:     ads1115.ResetValues(),
		}
	},
}

// Chips returns the names of all builtin chips.
func Chips() []string {
	return sortedKeys(builtinChips)
}

// Presets are predefined settings that can be referenced from any layout.
var presets = map[string]func() regplan.Item{
	"pca9685-led-driver":      func() regplan.Item { return pca9685.LedDriver() },
	"pca9685-sleep":           func() regplan.Item { return pca9685.Sleep(true) },
	"ads1115-battery-monitor": func() regplan.Item { return ads1115.BatteryMonitor() },
	"ads1115-single-shot":     func() regplan.Item { return ads1115.SingleShot() },
	"mcp23017-sequential-off": func() regplan.Item { return mcp23017.Config(true, mcp23017.IOCON_BIT_SEQOP) },
}

func Presets() []string {
	return sortedKeys(presets)
}
