package ads1115

import (
	"github.com/antongulenko/optinit/regplan"
	log "github.com/sirupsen/logrus"
)

// Adc reads a battery voltage through the conversion register. Registers must
// give 16 bit access to the ADS1115, e.g. a regfile.I2C with Width 16.
type Adc struct {
	Registers regplan.RegisterFile

	BatteryMin float64
	BatteryMax float64
	SkipInit   bool
}

func (a *Adc) Init() error {
	if a.SkipInit {
		log.Println("Skipping initialization of ADC")
		return nil
	}
	log.Println("Initializing ADC for continuous battery monitoring...")
	return regplan.Apply(a.Registers, BatteryMonitor())
}

func (a *Adc) GetBatteryVoltage() (float64, error) {
	val, err := a.Registers.ReadRegister(regplan.Address(REG_CONVERSION))
	if err != nil {
		return 0, err
	}
	return Voltage(int16(uint16(val))), nil
}

func (a *Adc) ConvertVoltageToPercentage(voltage float64) float64 {
	if voltage < a.BatteryMin {
		return 0
	}
	if voltage > a.BatteryMax {
		return 1
	}
	return (voltage - a.BatteryMin) / (a.BatteryMax - a.BatteryMin)
}

func (a *Adc) GetBatteryPercentage() (float64, error) {
	val, err := a.GetBatteryVoltage()
	if err != nil {
		return 0, err
	}
	return a.ConvertVoltageToPercentage(val), nil
}
