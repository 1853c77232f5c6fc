package bridge

import (
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"
)

// DummyDevice simulates an I2C slave with 256 byte registers behind an auto-incrementing
// register pointer, like MCP23017 (IOCON.SEQOP=0), PCA9685 (MODE1.AI=1) and most sensors.
type DummyDevice struct {
	Registers [256]byte
	pointer   byte
}

func (d *DummyDevice) write(data []byte) {
	if len(data) == 0 {
		return
	}
	d.pointer = data[0]
	for _, b := range data[1:] {
		d.Registers[d.pointer] = b
		d.pointer++
	}
}

func (d *DummyDevice) read(data []byte) {
	for i := range data {
		data[i] = d.Registers[d.pointer]
		d.pointer++
	}
}

// DummyBus is an in-memory I2C bus. Transactions to addresses without a device fail
// like a missing acknowledge.
type DummyBus struct {
	lock    sync.Mutex
	devices map[byte]*DummyDevice
}

func NewDummyBus(addresses ...byte) *DummyBus {
	bus := &DummyBus{devices: make(map[byte]*DummyDevice)}
	for _, addr := range addresses {
		bus.devices[addr] = new(DummyDevice)
	}
	return bus
}

// Device returns the simulated device at addr, creating it if necessary.
func (b *DummyBus) Device(addr byte) *DummyDevice {
	b.lock.Lock()
	defer b.lock.Unlock()
	dev, ok := b.devices[addr]
	if !ok {
		dev = new(DummyDevice)
		b.devices[addr] = dev
	}
	return dev
}

func (b *DummyBus) device(addr byte) (*DummyDevice, error) {
	dev, ok := b.devices[addr]
	if !ok {
		return nil, fmt.Errorf("Dummy I2C bus: no slave at address %02x", addr)
	}
	return dev, nil
}

func (b *DummyBus) I2cWrite(addr byte, data ...byte) error {
	return b.I2cWriteRead(addr, data, nil)
}

func (b *DummyBus) I2cRead(addr byte, data []byte) error {
	return b.I2cWriteRead(addr, nil, data)
}

func (b *DummyBus) I2cWriteRead(addr byte, out, in []byte) error {
	b.lock.Lock()
	defer b.lock.Unlock()
	dev, err := b.device(addr)
	if err != nil {
		return err
	}
	dev.write(out)
	dev.read(in)
	log.WithFields(log.Fields{
		"addr":  fmt.Sprintf("%02x", addr),
		"write": fmt.Sprintf("% x", out),
		"read":  fmt.Sprintf("% x", in),
	}).Debugln("Dummy I2C transaction")
	return nil
}

func (b *DummyBus) I2cGet(addr byte, registerAddr byte, size int) ([]byte, error) {
	data := make([]byte, size)
	err := b.I2cWriteRead(addr, []byte{registerAddr}, data)
	return data, err
}

func (b *DummyBus) Tx(addr uint16, w, r []byte) error {
	if addr > 0x7F {
		return fmt.Errorf("Dummy I2C bus: invalid address %x", addr)
	}
	return b.I2cWriteRead(byte(addr), w, r)
}
