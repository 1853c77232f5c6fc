package regfile

import (
	"testing"

	"github.com/antongulenko/optinit/regplan"
	"github.com/stretchr/testify/assert"
)

func TestMemoryPlan(t *testing.T) {
	a := assert.New(t)
	mem := NewMemory(8, regplan.PresumedValues{0x24: 0xA0, 0x25: 0x0F})

	plan := regplan.PlanOf(
		regplan.Modify(0x24, 0x01, 0x01),
		regplan.Modify(0x25, 0xF0, 0x30),
		regplan.Modify(0x24, 0x80, 0x00),
	)
	a.NoError(regplan.Execute(mem, plan))
	a.Equal(regplan.Word(0x21), mem.Value(0x24))
	a.Equal(regplan.Word(0x3F), mem.Value(0x25))

	reads, writes := mem.Counts()
	a.Equal(2, reads)
	a.Equal(2, writes)
	a.Equal([]Access{
		{Address: 0x24, Value: 0xA0},
		{Write: true, Address: 0x24, Value: 0x21},
		{Address: 0x25, Value: 0x0F},
		{Write: true, Address: 0x25, Value: 0x3F},
	}, mem.Log())
	a.Equal("write 0x24 0x21", mem.Log()[1].String())
}

func TestMemoryWidth(t *testing.T) {
	a := assert.New(t)
	mem := new(Memory)
	a.NoError(mem.WriteRegister(1, 0x1234))
	a.Equal(regplan.Word(0x34), mem.Value(1))

	mem = &Memory{Width: 16}
	a.NoError(mem.WriteRegister(1, 0x51234))
	a.Equal(regplan.Word(0x1234), mem.Value(1))

	mem = &Memory{Width: 32}
	a.NoError(mem.WriteRegister(1, 0xFFFFFFFF))
	a.Equal(regplan.Word(0xFFFFFFFF), mem.Value(1))
}

func TestMemoryRestrict(t *testing.T) {
	a := assert.New(t)
	mem := NewMemory(8, regplan.PresumedValues{3: 0})
	mem.Restrict = true
	_, err := mem.ReadRegister(4)
	a.EqualError(err, "No register at address 0x04")
	a.EqualError(mem.WriteRegister(4, 1), "No register at address 0x04")
	a.NoError(mem.WriteRegister(3, 1))
	a.Equal([]regplan.Address{3}, mem.Addresses())
}

func TestMemoryResetClearsLog(t *testing.T) {
	a := assert.New(t)
	mem := new(Memory)
	a.NoError(mem.WriteRegister(2, 1))
	a.NoError(mem.WriteRegister(1, 1))
	a.Equal([]regplan.Address{1, 2}, mem.Addresses())
	a.Len(mem.Log(), 2)
	mem.ClearLog()
	a.Empty(mem.Log())

	mem.Reset(regplan.PresumedValues{5: 0x55})
	a.Equal(regplan.PresumedValues{5: 0x55}, mem.Values())
	a.Empty(mem.Log())
}
