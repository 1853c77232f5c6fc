package hardware

import (
	"testing"

	"github.com/antongulenko/optinit/regplan"
	"github.com/stretchr/testify/assert"
)

func TestBits(t *testing.T) {
	a := assert.New(t)
	reg := Register{Name: "TCCR0B", Address: 0x45}
	a.Equal(regplan.Modify(0x45, 0x08, 0x00), reg.Bit(3).Low())
	a.Equal(regplan.Modify(0x45, 0x08, 0x08), reg.Bit(3).High())
	a.Equal(reg.Bit(3).High(), reg.Bit(3).Set(true))
	a.Equal(reg.Bit(3).Low(), reg.Bit(3).Set(false))
	a.Equal(regplan.Modify(0x45, 0xFF, 0x12), reg.Write(0x12))
	a.Equal("TCCR0B", reg.String())
	a.Equal("0x10", Register{Address: 0x10}.String())
}

func TestFields(t *testing.T) {
	a := assert.New(t)
	reg := Register{Address: 1, Width: 16}
	f := reg.Field(12, 3)
	a.Equal(regplan.Word(0x7000), f.Mask())
	a.Equal(regplan.Modify(1, 0x7000, 0x3000), f.Set(3))
	a.Equal(regplan.Modify(1, 0x7000, 0x1000), f.Set(9)) // Truncated
	a.Equal(regplan.Modify(1, 0xFFFF, 0xABCD), reg.Write(0xABCD))

	_, err := f.SetChecked(8)
	a.Error(err)
	m, err := f.SetChecked(7)
	a.NoError(err)
	a.Equal(regplan.Modify(1, 0x7000, 0x7000), m)

	a.Equal(^regplan.Word(0), Register{Width: 32}.Field(0, 32).Mask())
	a.Equal(regplan.Word(0xFF), Register{}.Mask())
	a.Equal(regplan.Word(0xFFFF), reg.Mask())
	a.Equal(^regplan.Word(0), Register{Width: 32}.Mask())
}

var avrPin = Gpio{Direction: 0x24, Value: 0x25, Bit: 5}

func TestAvrStyleGpio(t *testing.T) {
	a := assert.New(t)
	ddr := func(v regplan.Word) regplan.Modification { return regplan.Modify(0x24, 0x20, v) }
	port := func(v regplan.Word) regplan.Modification { return regplan.Modify(0x25, 0x20, v) }

	a.Equal(ddr(0), avrPin.InputAny())
	a.Equal(ddr(0x20), avrPin.OutputAny())
	a.Equal(regplan.Compose(port(0), ddr(0x20)), avrPin.OutputLow())
	a.Equal(regplan.Compose(port(0x20), ddr(0x20)), avrPin.OutputHigh())
	a.Equal(regplan.Compose(port(0), ddr(0)), avrPin.InputFloating())
	a.Equal(regplan.Compose(port(0x20), ddr(0)), avrPin.InputPullup())
	a.Equal(avrPin.InputFloating(), avrPin.Input())
	a.Equal(regplan.Compose(ddr(0x20)), avrPin.Output())
}

func TestSeparatePullAndInvertedDirection(t *testing.T) {
	a := assert.New(t)
	pin := Gpio{Direction: 0x00, Value: 0x14, Pull: 0x0C, Bit: 2, SeparatePull: true, InputHigh: true}
	a.Equal(regplan.Modify(0x00, 0x04, 0x04), pin.InputAny())
	a.Equal(regplan.Modify(0x00, 0x04, 0x00), pin.OutputAny())
	a.Equal(regplan.Compose(regplan.Modify(0x0C, 0x04, 0x04), regplan.Modify(0x00, 0x04, 0x04)), pin.InputPullup())
	a.Equal(regplan.Compose(regplan.Modify(0x14, 0x04, 0x04), regplan.Modify(0x00, 0x04, 0x00)), pin.OutputHigh())
}

func TestGpioPlansMergePerRegister(t *testing.T) {
	a := assert.New(t)
	pin0 := Gpio{Direction: 0x24, Value: 0x25, Bit: 0}
	pin1 := Gpio{Direction: 0x24, Value: 0x25, Bit: 1}
	pin7 := Gpio{Direction: 0x24, Value: 0x25, Bit: 7}
	plan := regplan.PlanOf(pin0.OutputHigh(), pin1.InputPullup(), pin7.OutputLow())
	a.Equal(regplan.Plan{
		regplan.Modify(0x25, 0x83, 0x03),
		regplan.Modify(0x24, 0x83, 0x81),
	}, plan)
}

func TestModes(t *testing.T) {
	a := assert.New(t)
	for mode, name := range modeNames {
		parsed, err := ParseMode(name)
		a.NoError(err)
		a.Equal(mode, parsed)
		a.Equal(name, mode.String())
		a.NotEmpty(avrPin.Configure(mode).Flatten(), "mode %v", mode)
	}
	m, err := ParseMode(" Output-Any ")
	a.NoError(err)
	a.Equal(ModeOutput, m)
	m, err = ParseMode("input-floating")
	a.NoError(err)
	a.Equal(ModeInput, m)
	_, err = ParseMode("tristate")
	a.Error(err)

	a.Equal(avrPin.InputPullup(), avrPin.Configure(ModeInputPullup))
	a.Nil(avrPin.Configure(Mode(42)))
	a.Equal("Mode(42)", Mode(42).String())
}
