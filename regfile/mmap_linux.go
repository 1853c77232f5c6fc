package regfile

import (
	"fmt"
	"os"
	"sync/atomic"
	"unsafe"

	"github.com/antongulenko/optinit/regplan"
	"golang.org/x/sys/unix"
)

// MapRegisters maps size byte of path starting at base.
func MapRegisters(path string, base int64, size int) (*Mapped, error) {
	if base%int64(os.Getpagesize()) != 0 {
		return nil, fmt.Errorf("Base address %#x of %v is not page aligned", base, path)
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_SYNC, 0)
	if err != nil {
		return nil, err
	}
	data, err := unix.Mmap(int(f.Fd()), base, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("Failed to map %v byte of %v at %#x: %v", size, path, base, err)
	}
	return &Mapped{
		Path: path,
		Base: base,
		data: data,
		file: f,
	}, nil
}

func (m *Mapped) word(addr regplan.Address) (*uint32, error) {
	if m.data == nil {
		return nil, fmt.Errorf("%v is not mapped", m.Path)
	}
	if addr%4 != 0 {
		return nil, fmt.Errorf("Unaligned register address %v", addr)
	}
	if uint64(addr)+4 > uint64(len(m.data)) {
		return nil, fmt.Errorf("Register address %v outside of mapped range (%#x byte)", addr, len(m.data))
	}
	return (*uint32)(unsafe.Pointer(&m.data[addr])), nil
}

func (m *Mapped) ReadRegister(addr regplan.Address) (regplan.Word, error) {
	w, err := m.word(addr)
	if err != nil {
		return 0, err
	}
	return regplan.Word(atomic.LoadUint32(w)), nil
}

func (m *Mapped) WriteRegister(addr regplan.Address, value regplan.Word) error {
	w, err := m.word(addr)
	if err != nil {
		return err
	}
	atomic.StoreUint32(w, uint32(value))
	return nil
}

func (m *Mapped) Close() error {
	if m.data == nil {
		return nil
	}
	err := unix.Munmap(m.data)
	m.data = nil
	if closeErr := m.file.Close(); err == nil {
		err = closeErr
	}
	return err
}
