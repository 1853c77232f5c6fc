package regplan

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

type access struct {
	write bool
	addr  Address
	value Word
}

type fakeRegisters struct {
	values   map[Address]Word
	accesses []access
	failAt   Address
}

func newFakeRegisters(values map[Address]Word) *fakeRegisters {
	if values == nil {
		values = make(map[Address]Word)
	}
	return &fakeRegisters{values: values, failAt: 0xFFFF}
}

func (f *fakeRegisters) ReadRegister(addr Address) (Word, error) {
	if addr == f.failAt {
		return 0, errors.New("bus error")
	}
	f.accesses = append(f.accesses, access{addr: addr, value: f.values[addr]})
	return f.values[addr], nil
}

func (f *fakeRegisters) WriteRegister(addr Address, value Word) error {
	f.accesses = append(f.accesses, access{write: true, addr: addr, value: value})
	f.values[addr] = value
	return nil
}

func (f *fakeRegisters) count(write bool) (res int) {
	for _, a := range f.accesses {
		if a.write == write {
			res++
		}
	}
	return
}

func TestExecutePreservesUntouchedBits(t *testing.T) {
	a := assert.New(t)
	regs := newFakeRegisters(map[Address]Word{4: 0xA})
	a.NoError(Execute(regs, Plan{Modify(4, 0x1, 0x1)}))
	a.Equal(Word(0xB), regs.values[4])
	a.Equal([]access{{addr: 4, value: 0xA}, {write: true, addr: 4, value: 0xB}}, regs.accesses)
}

func TestExecuteIgnoresValueBitsOutsideMask(t *testing.T) {
	a := assert.New(t)
	regs := newFakeRegisters(map[Address]Word{4: 0xF0})
	a.NoError(Execute(regs, Plan{Modify(4, 0x0F, 0xFF)}))
	a.Equal(Word(0xFF), regs.values[4])

	regs = newFakeRegisters(map[Address]Word{4: 0xF0})
	a.NoError(Execute(regs, Plan{Modify(4, 0x30, 0x0F)}))
	a.Equal(Word(0xC0), regs.values[4])
}

func TestExecuteEmptyPlan(t *testing.T) {
	a := assert.New(t)
	regs := newFakeRegisters(nil)
	a.NoError(Apply(regs, Compose(Compose())))
	a.NoError(Execute(regs, nil))
	a.Empty(regs.accesses)
}

func TestApplyOneCyclePerAddress(t *testing.T) {
	a := assert.New(t)
	regs := newFakeRegisters(map[Address]Word{1: 0xFF, 2: 0x00, 3: 0x0F})
	err := Apply(regs,
		Compose(Modify(1, 0x01, 0x00), Modify(2, 0x01, 0x01)),
		Compose(Modify(1, 0x02, 0x00), Modify(3, 0xF0, 0xF0), Modify(2, 0x80, 0x80)),
		Modify(1, 0x01, 0x01),
		Modify(3, 0x01, 0x00),
	)
	a.NoError(err)
	a.Equal(3, regs.count(false))
	a.Equal(3, regs.count(true))
	a.Equal(map[Address]Word{1: 0xFD, 2: 0x81, 3: 0xFE}, regs.values)

	var order []Address
	for _, acc := range regs.accesses {
		if acc.write {
			order = append(order, acc.addr)
		}
	}
	a.Equal([]Address{1, 2, 3}, order)
}

func TestExecuteStopsAtError(t *testing.T) {
	a := assert.New(t)
	regs := newFakeRegisters(nil)
	regs.failAt = 2
	err := Execute(regs, Plan{Modify(1, 1, 1), Modify(2, 1, 1), Modify(3, 1, 1)})
	a.Error(err)
	a.Contains(err.Error(), "bus error")
	a.Equal(1, regs.count(true))
	_, touched := regs.values[3]
	a.False(touched)
}

type countingLock struct {
	sync.Mutex
	locks int
}

func (l *countingLock) Lock() {
	l.Mutex.Lock()
	l.locks++
}

func TestExecutorLock(t *testing.T) {
	a := assert.New(t)
	lock := new(countingLock)
	e := Executor{Registers: newFakeRegisters(nil), Lock: lock}
	a.NoError(e.Execute(PlanOf(Modify(1, 1, 1), Modify(2, 1, 1), Modify(1, 2, 2))))
	a.Equal(2, lock.locks)
}

func TestInitializeWithoutReading(t *testing.T) {
	a := assert.New(t)
	regs := newFakeRegisters(map[Address]Word{1: 0x55, 2: 0x55})
	e := Executor{Registers: regs}
	presumed := PresumedValues{1: 0x80}
	err := e.Initialize(PlanOf(Modify(1, 0x03, 0x01), Modify(2, 0x01, 0x00)), presumed)
	a.NoError(err)

	// Register 1 is written from its presumed value, register 2 needs a read
	a.Equal(Word(0x81), regs.values[1])
	a.Equal(Word(0x54), regs.values[2])
	a.Equal([]access{
		{write: true, addr: 1, value: 0x81},
		{addr: 2, value: 0x55},
		{write: true, addr: 2, value: 0x54},
	}, regs.accesses)
}
