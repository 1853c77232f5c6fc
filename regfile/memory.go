package regfile

import (
	"fmt"
	"sort"
	"sync"

	"github.com/antongulenko/optinit/regplan"
)

// Access is one recorded register access of a Memory.
type Access struct {
	Write   bool
	Address regplan.Address
	Value   regplan.Word
}

func (a Access) String() string {
	op := "read"
	if a.Write {
		op = "write"
	}
	return fmt.Sprintf("%v %v %#x", op, a.Address, uint32(a.Value))
}

// Memory is a simulated register file. Registers that were never written read as zero,
// unless preloaded with Reset.
type Memory struct {
	Width uint // Register width in bits, defaults to 8

	// If set, only addresses preloaded through Reset are accessible
	Restrict bool

	lock   sync.Mutex
	values map[regplan.Address]regplan.Word
	log    []Access
}

// NewMemory returns a register file of the given width preloaded with the presumed reset values.
func NewMemory(width uint, reset regplan.PresumedValues) *Memory {
	m := &Memory{Width: width}
	m.Reset(reset)
	return m
}

func (m *Memory) mask() regplan.Word {
	width := m.Width
	if width == 0 {
		width = 8
	}
	if width >= 32 {
		return ^regplan.Word(0)
	}
	return regplan.Word(1)<<width - 1
}

// Reset replaces all register content and clears the access log.
func (m *Memory) Reset(values regplan.PresumedValues) {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.values = make(map[regplan.Address]regplan.Word, len(values))
	for addr, val := range values {
		m.values[addr] = val & m.mask()
	}
	m.log = nil
}

func (m *Memory) check(addr regplan.Address) error {
	if m.Restrict {
		if _, ok := m.values[addr]; !ok {
			return fmt.Errorf("No register at address %v", addr)
		}
	}
	return nil
}

func (m *Memory) ReadRegister(addr regplan.Address) (regplan.Word, error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	if err := m.check(addr); err != nil {
		return 0, err
	}
	val := m.values[addr]
	m.log = append(m.log, Access{Address: addr, Value: val})
	return val, nil
}

func (m *Memory) WriteRegister(addr regplan.Address, value regplan.Word) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	if err := m.check(addr); err != nil {
		return err
	}
	if m.values == nil {
		m.values = make(map[regplan.Address]regplan.Word)
	}
	value &= m.mask()
	m.values[addr] = value
	m.log = append(m.log, Access{Write: true, Address: addr, Value: value})
	return nil
}

// Value returns the register content without recording an access.
func (m *Memory) Value(addr regplan.Address) regplan.Word {
	m.lock.Lock()
	defer m.lock.Unlock()
	return m.values[addr]
}

// Values returns a copy of all register contents.
func (m *Memory) Values() regplan.PresumedValues {
	m.lock.Lock()
	defer m.lock.Unlock()
	result := make(regplan.PresumedValues, len(m.values))
	for addr, val := range m.values {
		result[addr] = val
	}
	return result
}

// Addresses returns all known register addresses in ascending order.
func (m *Memory) Addresses() []regplan.Address {
	m.lock.Lock()
	defer m.lock.Unlock()
	result := make([]regplan.Address, 0, len(m.values))
	for addr := range m.values {
		result = append(result, addr)
	}
	sort.Slice(result, func(i, j int) bool { return result[i] < result[j] })
	return result
}

// Log returns all accesses since the last Reset or ClearLog.
func (m *Memory) Log() []Access {
	m.lock.Lock()
	defer m.lock.Unlock()
	return append([]Access(nil), m.log...)
}

func (m *Memory) ClearLog() {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.log = nil
}

// Counts returns the number of recorded reads and writes.
func (m *Memory) Counts() (reads, writes int) {
	m.lock.Lock()
	defer m.lock.Unlock()
	for _, a := range m.log {
		if a.Write {
			writes++
		} else {
			reads++
		}
	}
	return
}
