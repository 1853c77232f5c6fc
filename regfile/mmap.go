package regfile

import (
	"os"
)

const (
	DevMem     = "/dev/mem"
	DevGpioMem = "/dev/gpiomem"
)

// Mapped accesses 32 bit memory-mapped registers. Register addresses are byte offsets
// relative to the mapped base address and must be 4 byte aligned.
type Mapped struct {
	Path string
	Base int64 // Physical base address, page aligned
	data []byte
	file *os.File
}
