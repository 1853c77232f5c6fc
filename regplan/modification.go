package regplan

import "fmt"

// Address identifies a register. Register files decide what it means: a data-space
// address on an AVR, a register index on an I2C device, an offset into a mapped window.
type Address uint32

// Word is the content of a register. Registers narrower than 32 bit use the low bits.
type Word uint32

func (a Address) String() string {
	return fmt.Sprintf("%#02x", uint32(a))
}

// Modification requests that the bits in Mask of the register at Address are set to the
// corresponding bits of Value. Bits of Value outside of Mask carry no meaning.
type Modification struct {
	Address Address
	Mask    Word
	Value   Word
}

// Modify constructs a Modification. A zero mask is legal and has no effect.
func Modify(addr Address, mask, value Word) Modification {
	return Modification{
		Address: addr,
		Mask:    mask,
		Value:   value,
	}
}

// Bits returns the meaningful part of the value.
func (m Modification) Bits() Word {
	return m.Value & m.Mask
}

// Apply computes the register content after applying m to current.
func (m Modification) Apply(current Word) Word {
	return (current &^ m.Mask) | m.Bits()
}

func (m Modification) normalized() Modification {
	m.Value = m.Bits()
	return m
}

// combine folds next into m: bits claimed by next override those of m,
// bits claimed only by m are retained.
func (m Modification) combine(next Modification) Modification {
	return Modification{
		Address: m.Address,
		Mask:    m.Mask | next.Mask,
		Value:   (m.Value &^ next.Mask) | next.Bits(),
	}
}

func (m Modification) String() string {
	return fmt.Sprintf("%v: mask %#x value %#x", m.Address, uint32(m.Mask), uint32(m.Bits()))
}

func (m Modification) appendTo(list []Modification) []Modification {
	return append(list, m)
}
