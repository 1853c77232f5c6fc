package main

import (
	"testing"

	"github.com/antongulenko/optinit/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	a := assert.New(t)
	layout, err := config.Parse([]byte(`
chip: ads1115
registers:
  - {name: LED, address: 0x40}
settings:
  monitor:
    - preset: ads1115-battery-monitor
  led:
    - register: LED
      bit: 0
      value: 1
`))
	require.NoError(t, err)

	target = "regfile"
	src, err := generate(layout, nil)
	require.NoError(t, err)
	code := string(src)
	a.Contains(code, "func Led(regs regplan.RegisterFile) error {")
	a.Contains(code, "func Monitor(regs regplan.RegisterFile) error {")
	a.Contains(code, "{Address: 0x40, Mask: 0x1, Value: 0x1},")

	target = "volatile"
	src, err = generate(layout, []string{"monitor"})
	require.NoError(t, err)
	a.Contains(string(src), "(*volatile.Register16)(unsafe.Pointer(uintptr(0x01))).ReplaceBits(0x1043, 0x7fe3, 0)")
	a.NotContains(string(src), "func Led()")

	_, err = generate(layout, []string{"missing"})
	a.Error(err)
	target = "asm"
	_, err = generate(layout, nil)
	a.Error(err)
}
