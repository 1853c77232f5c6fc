// Package hardware contains builders that turn named register features into
// regplan modifications. They only describe changes, nothing is written here.
package hardware

import (
	"fmt"

	"github.com/antongulenko/optinit/regplan"
)

// Register is a peripheral register at a fixed address.
type Register struct {
	Name    string
	Address regplan.Address
	Width   uint // in bits, 8 if zero
}

func (r Register) String() string {
	if r.Name != "" {
		return r.Name
	}
	return r.Address.String()
}

// Bits returns the width of the register.
func (r Register) Bits() uint {
	if r.Width == 0 {
		return 8
	}
	return r.Width
}

// Mask covers all bits of the register.
func (r Register) Mask() regplan.Word {
	return widthMask(r.Bits())
}

// Modify claims the bits in mask and sets them to value.
func (r Register) Modify(mask, value regplan.Word) regplan.Modification {
	return regplan.Modify(r.Address, mask, value)
}

// Write claims the entire register.
func (r Register) Write(value regplan.Word) regplan.Modification {
	return r.Modify(r.Mask(), value)
}

func (r Register) Bit(index uint) Bit {
	return Bit{Address: r.Address, Index: index}
}

// Field describes width bits starting at bit shift.
func (r Register) Field(shift, width uint) Field {
	return Field{Address: r.Address, Shift: shift, Width: width}
}

// Bit is a single bit of a register.
type Bit struct {
	Address regplan.Address
	Index   uint
}

func (b Bit) Mask() regplan.Word {
	return regplan.Word(1) << b.Index
}

func (b Bit) Low() regplan.Modification {
	return regplan.Modify(b.Address, b.Mask(), 0)
}

func (b Bit) High() regplan.Modification {
	return regplan.Modify(b.Address, b.Mask(), b.Mask())
}

func (b Bit) Set(high bool) regplan.Modification {
	if high {
		return b.High()
	}
	return b.Low()
}

// Field is a group of adjacent bits holding one numeric setting.
type Field struct {
	Address regplan.Address
	Shift   uint
	Width   uint
}

func (f Field) Mask() regplan.Word {
	return widthMask(f.Width) << f.Shift
}

// Set stores value (not shifted) in the field. Bits of value that do not fit are dropped.
func (f Field) Set(value regplan.Word) regplan.Modification {
	return regplan.Modify(f.Address, f.Mask(), (value<<f.Shift)&f.Mask())
}

// SetChecked is like Set, but fails if value does not fit into the field.
func (f Field) SetChecked(value regplan.Word) (regplan.Modification, error) {
	if value&^widthMask(f.Width) != 0 {
		return regplan.Modification{}, fmt.Errorf("Value %#x does not fit into %v-bit field at %v", uint32(value), f.Width, f.Address)
	}
	return f.Set(value), nil
}

func widthMask(width uint) regplan.Word {
	if width >= 32 {
		return ^regplan.Word(0)
	}
	return regplan.Word(1)<<width - 1
}
