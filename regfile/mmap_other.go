//go:build !linux

package regfile

import (
	"errors"

	"github.com/antongulenko/optinit/regplan"
)

func MapRegisters(path string, base int64, size int) (*Mapped, error) {
	return nil, errors.New("Memory-mapped registers are only supported on linux")
}

func (m *Mapped) ReadRegister(addr regplan.Address) (regplan.Word, error) {
	return 0, errors.New("Memory-mapped registers are only supported on linux")
}

func (m *Mapped) WriteRegister(addr regplan.Address, value regplan.Word) error {
	return errors.New("Memory-mapped registers are only supported on linux")
}

func (m *Mapped) Close() error {
	return nil
}
