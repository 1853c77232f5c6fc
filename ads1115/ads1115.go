package ads1115

import (
	"github.com/antongulenko/optinit/hardware"
	"github.com/antongulenko/optinit/regplan"
)

const (
	// The ADDR pin can be connected to one of the following 4 pins to select the respective I2C address
	ADDR_GND = byte(0x48)
	ADDR_VDD = byte(0x49)
	ADDR_SDA = byte(0x4A)
	ADDR_SCL = byte(0x4B)
)

// The addresses of the writable/readable 16 bit registers (transferred MSB first)
const (
	REG_CONVERSION = byte(iota)
	REG_CONFIG
	REG_LO_THRESH // Default: 0x8000, relevant for CONFIG_COMP_* bits
	REG_HI_THRESH // Default: 0x7FFF
)

// Bits for the CONFIG register

const (
	// Operational State. If written, starts a one-short conversion.
	// If read, indicates whether conversion is taking place (1 = NO operation)
	CONFIG_OS = uint16(0x8000)
)

const (
	// Selection of inputs. First number is the positive input, second number the negative input.
	// Default: CONFIG_MUX_01
	CONFIG_MUX_01 = uint16(iota) << 12
	CONFIG_MUX_03
	CONFIG_MUX_13
	CONFIG_MUX_23
	CONFIG_MUX_0GND
	CONFIG_MUX_1GND
	CONFIG_MUX_2GND
	CONFIG_MUX_3GND
)

const (
	// Selection of Full Scale (max input voltage values when converting)
	// Default: CONFIG_PGA_2V
	CONFIG_PGA_6V   = uint16(iota) << 9 // 6.144V
	CONFIG_PGA_4V                       // 4.096V
	CONFIG_PGA_2V                       // 2.048V
	CONFIG_PGA_1V                       // 1.024V
	CONFIG_PGA_0_5V                     // 0.512V
	CONFIG_PGA_0_25V                    // 0.256V

	// Mode bit: 1 = single-shot mode/power down (default). 0 = continuous mode
	CONFIG_MODE = uint16(0x100)
)

const (
	// Data conversion rate (samples per second). Default: CONFIG_DR_128
	CONFIG_DR_8 = uint16(iota) << 5
	CONFIG_DR_16
	CONFIG_DR_32
	CONFIG_DR_64
	CONFIG_DR_128
	CONFIG_DR_250
	CONFIG_DR_475
	CONFIG_DR_860

	CONFIG_COMP_MODE = uint16(0x10) // 0 = traditional comparator (default), 1 = window comparator
	CONFIG_COMP_POL  = uint16(0x8)  // Polarity of ALERT/RDY pin. 0 = active low (default), 1 = active high
	CONFIG_COMP_LAT  = uint16(0x4)  // 1 = ALERT/RDY remains latched until data is read

	// Number of successive comparisons exceeding the thresholds before ALERT/RDY is asserted
	CONFIG_COMP_QUE_1   = uint16(0)
	CONFIG_COMP_QUE_2   = uint16(1)
	CONFIG_COMP_QUE_4   = uint16(2)
	CONFIG_COMP_QUE_OFF = uint16(3) // Default, ALERT/RDY pin high impedance
)

const (
	RESET_CONFIG = uint16(0x8583)

	// Volts per LSB of the conversion register for CONFIG_PGA_6V
	CONVERT_6V = 6.144 / 32768
)

var (
	Config = hardware.Register{Name: "CONFIG", Address: regplan.Address(REG_CONFIG), Width: 16}

	muxField   = Config.Field(12, 3)
	pgaField   = Config.Field(9, 3)
	drField    = Config.Field(5, 3)
	queueField = Config.Field(0, 2)
)

// The following take the already shifted CONFIG_* constants.

func Mux(mux uint16) regplan.Modification {
	return Config.Modify(muxField.Mask(), regplan.Word(mux))
}

func Gain(pga uint16) regplan.Modification {
	return Config.Modify(pgaField.Mask(), regplan.Word(pga))
}

func DataRate(dr uint16) regplan.Modification {
	return Config.Modify(drField.Mask(), regplan.Word(dr))
}

func ComparatorQueue(queue uint16) regplan.Modification {
	return Config.Modify(queueField.Mask(), regplan.Word(queue))
}

func flag(bit uint16, set bool) regplan.Modification {
	var value regplan.Word
	if set {
		value = regplan.Word(bit)
	}
	return Config.Modify(regplan.Word(bit), value)
}

func Continuous() regplan.Modification {
	return flag(CONFIG_MODE, false)
}

func SingleShot() regplan.Modification {
	return flag(CONFIG_MODE, true)
}

func WindowComparator(enabled bool) regplan.Modification {
	return flag(CONFIG_COMP_MODE, enabled)
}

func AlertActiveHigh(enabled bool) regplan.Modification {
	return flag(CONFIG_COMP_POL, enabled)
}

func LatchingComparator(enabled bool) regplan.Modification {
	return flag(CONFIG_COMP_LAT, enabled)
}

// BatteryMonitor measures AIN0 against AIN3 continuously in 0..6V with the comparator disabled.
func BatteryMonitor() regplan.Group {
	return regplan.Compose(
		Mux(CONFIG_MUX_03),
		Gain(CONFIG_PGA_6V),
		DataRate(CONFIG_DR_32),
		regplan.Compose(ComparatorQueue(CONFIG_COMP_QUE_OFF), Continuous()),
	)
}

func ResetValues() regplan.PresumedValues {
	return regplan.PresumedValues{
		regplan.Address(REG_CONFIG):    regplan.Word(RESET_CONFIG),
		regplan.Address(REG_LO_THRESH): 0x8000,
		regplan.Address(REG_HI_THRESH): 0x7FFF,
	}
}

// Voltage converts a conversion register value measured with CONFIG_PGA_6V.
func Voltage(raw int16) float64 {
	return float64(raw) * CONVERT_6V
}
