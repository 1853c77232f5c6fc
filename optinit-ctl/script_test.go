package main

import (
	"strings"
	"testing"

	"github.com/antongulenko/optinit/config"
	"github.com/antongulenko/optinit/regfile"
	"github.com/antongulenko/optinit/regplan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testLayout = `
chip: atmega328p
gpios:
  led:
    pin: 13
settings:
  led-on:
    - gpio: led
      mode: output-high
  led-off:
    - gpio: led
      mode: output-low
`

func setupSim(t *testing.T) *regfile.Memory {
	var err error
	layout, err = config.Parse([]byte(testLayout))
	require.NoError(t, err)
	mem := regfile.NewMemory(8, layout.ResetValues())
	registers = mem
	return mem
}

func TestScript(t *testing.T) {
	a := assert.New(t)
	mem := setupSim(t)

	script := `
# Switch the LED on, then modify PORTD
apply led-on
modify PORTD 0xF0 0x50   # upper nibble
bit "DDRD" 7 1
write 0x44 3
`
	require.NoError(t, runScript("test", strings.NewReader(script)))
	a.Equal(regplan.Word(0x20), mem.Value(0x24)) // DDRB
	a.Equal(regplan.Word(0x20), mem.Value(0x25)) // PORTB
	a.Equal(regplan.Word(0x50), mem.Value(0x2B)) // PORTD
	a.Equal(regplan.Word(0x80), mem.Value(0x2A)) // DDRD
	a.Equal(regplan.Word(0x03), mem.Value(0x44))
}

func TestScriptErrors(t *testing.T) {
	a := assert.New(t)
	setupSim(t)

	a.EqualError(runScript("s", strings.NewReader("\nfrobnicate 1\n")), "s:2: frobnicate: Unknown script command")
	a.EqualError(runScript("s", strings.NewReader("write PORTB\n")), "s:1: write: Expected 2 arguments, got 1")
	a.EqualError(runScript("s", strings.NewReader("apply missing\n")), "s:1: apply: Unknown setting 'missing'")
	a.EqualError(runScript("s", strings.NewReader("gpio led sideways\n")), "s:1: gpio: Entry 0: Unknown GPIO mode 'sideways'")
	a.Error(runScript("s", strings.NewReader("write PORTB zero\n")))
	a.Error(runScript("s", strings.NewReader("apply \"unterminated\n")))
	a.Error(runScript("s", strings.NewReader("sleep forever\n")))
}

func TestInitializeWithPresumedValues(t *testing.T) {
	a := assert.New(t)
	mem := setupSim(t)
	require.NoError(t, runScript("s", strings.NewReader("init led-on\n")))
	reads, writes := mem.Counts()
	a.Equal(0, reads)
	a.Equal(2, writes)
}

func TestPlanStrictness(t *testing.T) {
	a := assert.New(t)
	setupSim(t)
	defer func() { strict = false }()

	p, err := plan([]string{"led-on", "led-off"})
	a.NoError(err)
	a.Len(p, 2)

	strict = true
	_, err = plan([]string{"led-on", "led-off"})
	a.Error(err)
	_, err = plan(nil)
	a.EqualError(err, "No settings given, available settings: [led-off led-on]")
}
