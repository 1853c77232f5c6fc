package ft260

import (
	"fmt"

	"github.com/antongulenko/optinit/hardware"
	"github.com/antongulenko/optinit/regplan"
)

const (
	ReportID_GPIO = 0xB0 // Feature
)

// Register addresses of the GPIO report, as seen through GpioRegisters
const (
	GPIO_VALUE = byte(iota) // GPIO 0-5
	GPIO_DIR
	GPIO_VALUE_EX // GPIO A-H
	GPIO_DIR_EX
)

// ReportID_GPIO Feature In and Out
type ReportGpio struct {
	Value   byte // GPIO 0-5 bits
	Dir     byte // GPIO 0-5 direction bits
	ValueEx byte // GPIO A-H bits
	DirEx   byte // GPIO A-H direction bits
}

func (r *ReportGpio) ReportID() byte {
	return ReportID_GPIO
}

func (r *ReportGpio) ReportLen() int {
	return 4
}

func (r *ReportGpio) Marshall(b []byte) error {
	b[0] = r.Value
	b[1] = r.Dir
	b[2] = r.ValueEx
	b[3] = r.DirEx
	return nil
}

func (r *ReportGpio) Unmarshall(b []byte) error {
	if len(b) < 4 {
		return fmt.Errorf("Short GPIO report (%v byte)", len(b))
	}
	r.Value = b[0]
	r.Dir = b[1]
	r.ValueEx = b[2]
	r.DirEx = b[3]
	return nil
}

// GpioPin returns GPIO 0-5 (ex = false) or GPIO A-H (ex = true) for use with GpioRegisters.
// A direction bit of 1 configures an output.
func GpioPin(bit uint, ex bool) hardware.Gpio {
	if ex {
		return hardware.Gpio{Direction: regplan.Address(GPIO_DIR_EX), Value: regplan.Address(GPIO_VALUE_EX), Bit: bit}
	}
	return hardware.Gpio{Direction: regplan.Address(GPIO_DIR), Value: regplan.Address(GPIO_VALUE), Bit: bit}
}

func (r *ReportGpio) field(addr regplan.Address) (*byte, error) {
	switch addr {
	case regplan.Address(GPIO_VALUE):
		return &r.Value, nil
	case regplan.Address(GPIO_DIR):
		return &r.Dir, nil
	case regplan.Address(GPIO_VALUE_EX):
		return &r.ValueEx, nil
	case regplan.Address(GPIO_DIR_EX):
		return &r.DirEx, nil
	}
	return nil, fmt.Errorf("FT260 has no GPIO register %v", addr)
}

func (f *Ft260) Gpio() (ReportGpio, error) {
	var report ReportGpio
	err := f.request(nil, &report)
	return report, err
}

func (f *Ft260) SetGpio(report ReportGpio) error {
	return f.request(&report, nil)
}

// GpioRegisters exposes the four bytes of the GPIO report as 8 bit registers.
// Every access transfers the whole report.
type GpioRegisters struct {
	*Ft260
}

func (g GpioRegisters) ReadRegister(addr regplan.Address) (regplan.Word, error) {
	report, err := g.Gpio()
	if err != nil {
		return 0, err
	}
	val, err := report.field(addr)
	if err != nil {
		return 0, err
	}
	return regplan.Word(*val), nil
}

func (g GpioRegisters) WriteRegister(addr regplan.Address, value regplan.Word) error {
	report, err := g.Gpio()
	if err != nil {
		return err
	}
	val, err := report.field(addr)
	if err != nil {
		return err
	}
	*val = byte(value)
	return g.SetGpio(report)
}
