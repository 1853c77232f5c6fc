package regfile

import (
	"fmt"

	"github.com/antongulenko/optinit/regplan"
	"tinygo.org/x/drivers"
)

// I2C accesses the registers of a register-pointer I2C device: the register address is
// written first, followed by the data (MSB first for 16 bit registers).
type I2C struct {
	Bus   drivers.I2C
	Addr  uint16
	Width uint // 8 (default) or 16
}

func (d *I2C) size() (int, error) {
	switch d.Width {
	case 0, 8:
		return 1, nil
	case 16:
		return 2, nil
	}
	return 0, fmt.Errorf("Unsupported I2C register width %v", d.Width)
}

func (d *I2C) pointer(addr regplan.Address) (byte, error) {
	if addr > 0xFF {
		return 0, fmt.Errorf("I2C register address %v out of range", addr)
	}
	return byte(addr), nil
}

func (d *I2C) ReadRegister(addr regplan.Address) (regplan.Word, error) {
	size, err := d.size()
	if err != nil {
		return 0, err
	}
	reg, err := d.pointer(addr)
	if err != nil {
		return 0, err
	}
	buf := make([]byte, size)
	if err := d.Bus.Tx(d.Addr, []byte{reg}, buf); err != nil {
		return 0, err
	}
	var val regplan.Word
	for _, b := range buf {
		val = val<<8 | regplan.Word(b)
	}
	return val, nil
}

func (d *I2C) WriteRegister(addr regplan.Address, value regplan.Word) error {
	size, err := d.size()
	if err != nil {
		return err
	}
	reg, err := d.pointer(addr)
	if err != nil {
		return err
	}
	buf := make([]byte, size+1)
	buf[0] = reg
	for i := size; i > 0; i-- {
		buf[i] = byte(value)
		value >>= 8
	}
	return d.Bus.Tx(d.Addr, buf, nil)
}
