package bridge

import (
	"errors"
	"flag"
	"fmt"

	"github.com/antongulenko/golib"
	"github.com/antongulenko/optinit/ft260"
	log "github.com/sirupsen/logrus"
)

var DefaultBridge = Bridge{
	UsbDevice:       "",
	I2cFreq:         uint(400),
	I2cRequestQueue: 20,
}

// Bridge gives access to an I2C bus through an FT260 USB-HID bridge, or to a simulated bus.
type Bridge struct {
	UsbDevice       string
	I2cFreq         uint
	I2cRequestQueue int
	NoI2cSequencer  bool
	Dummy           bool

	// Devices on the simulated bus, used when Dummy is set
	DummyDevices []byte

	usb       *ft260.Ft260
	sequencer *sequencedI2cBus
	dummy     *DummyBus
}

func (b *Bridge) RegisterFlags() {
	flag.StringVar(&b.UsbDevice, "dev", b.UsbDevice, "Specify a USB path for FT260")
	flag.UintVar(&b.I2cFreq, "freq", b.I2cFreq, "The I2C bus frequency (60 - 3400)")
	flag.IntVar(&b.I2cRequestQueue, "i2c-queue", b.I2cRequestQueue, "Number of queued I2C requests for the I2C sequencer")
	flag.BoolVar(&b.NoI2cSequencer, "no-i2c-sequencer", b.NoI2cSequencer, "Disable the extra goroutine for sequencing I2C commands")
	flag.BoolVar(&b.Dummy, "dummy", b.Dummy, "Disable USB/I2C peripherals, simulate the I2C bus in memory")
}

func (b *Bridge) Setup() error {
	if b.Dummy {
		log.Println("Dummy bridge: skipping initialization of USB/I2C peripherals")
		b.dummy = NewDummyBus(b.DummyDevices...)
		return nil
	}

	usb, err := ft260.OpenPath(b.UsbDevice)
	if err != nil {
		return err
	}
	b.usb = usb
	if err := b.setupFt260(); err != nil {
		golib.Printerr(usb.Close())
		b.usb = nil
		return err
	}
	if !b.NoI2cSequencer {
		b.sequencer = startSequencer(b.usb, b.I2cRequestQueue)
	}
	log.Println("Successfully initialized USB/I2C peripherals")
	return nil
}

func (b *Bridge) setupFt260() error {
	if err := b.validateFt260ChipCode(); err != nil {
		return err
	}
	if err := b.configureFt260(); err != nil {
		return err
	}
	return b.validateFt260()
}

// Bus returns the I2C bus. Setup must have succeeded before.
func (b *Bridge) Bus() ft260.I2cBus {
	if b.Dummy {
		return b.dummy
	} else if b.NoI2cSequencer {
		return b.usb
	} else {
		return b.sequencer
	}
}

// Gpio returns the GPIO registers of the FT260, or nil for a dummy bridge.
func (b *Bridge) Gpio() *ft260.GpioRegisters {
	if b.usb == nil {
		return nil
	}
	return &ft260.GpioRegisters{Ft260: b.usb}
}

func (b *Bridge) Cleanup() {
	if b.sequencer != nil {
		b.sequencer.stop()
		b.sequencer = nil
	}
	if b.usb != nil {
		golib.Printerr(b.usb.Close())
		b.usb = nil
	}
}

func (b *Bridge) validateFt260ChipCode() error {
	code, err := b.usb.ChipCode()
	if err != nil {
		return err
	}
	if code != ft260.FT260_CHIP_CODE {
		return fmt.Errorf("Unexpected chip code %08x (expected %08x)", code, ft260.FT260_CHIP_CODE)
	}
	return nil
}

func (b *Bridge) configureFt260() (err error) {
	b.writeConfigValue(&err, ft260.SetSystemSetting_Clock, ft260.Clock48MHz)
	b.writeConfigValue(&err, ft260.SetSystemSetting_I2CReset, nil) // Reset i2c bus in case it was disturbed
	b.writeConfigValue(&err, ft260.SetSystemSetting_I2CSetClock, uint16(b.I2cFreq))
	b.writeConfigValue(&err, ft260.SetSystemSetting_GPIO_2, ft260.GPIO_2_Normal) // Set all GPIO pins to normal operation
	b.writeConfigValue(&err, ft260.SetSystemSetting_GPIO_A, ft260.GPIO_A_Normal)
	b.writeConfigValue(&err, ft260.SetSystemSetting_GPIO_G, ft260.GPIO_G_Normal)
	b.writeConfigValue(&err, ft260.SetSystemSetting_EnableWakeupInt, false)
	return
}

func (b *Bridge) writeConfigValue(outErr *error, request byte, val interface{}) {
	if *outErr == nil {
		*outErr = b.usb.SetSystemSetting(request, val)
	}
}

func (b *Bridge) validateFt260() error {
	status, err := b.usb.SystemStatus()
	if err != nil {
		return err
	}
	if err := checkSystemStatus(status); err != nil {
		return err
	}
	i2cStatus, err := b.usb.I2cStatus()
	if err != nil {
		return err
	}
	if i2cStatus.BusSpeed != uint16(b.I2cFreq) {
		return fmt.Errorf("FT260: unexpected I2C bus speed %v (expected %v)", i2cStatus.BusSpeed, b.I2cFreq)
	}
	return nil
}

func checkSystemStatus(status ft260.ReportSystemStatus) error {
	if status.ChipMode != 0x01 {
		return fmt.Errorf("FT260: unexpected chip mode %02x (expected %02x)", status.ChipMode, 0x01)
	}
	if status.Clock != ft260.Clock48MHz {
		return fmt.Errorf("FT260: unexpected clock value %02x (expected %02x)", status.Clock, ft260.Clock48MHz)
	}
	if status.GPIO2Function != ft260.GPIO_2_Normal {
		return fmt.Errorf("FT260: unexpected GPIO 2 function %02x (expected %02x)", status.GPIO2Function, ft260.GPIO_2_Normal)
	}
	if status.GPIOAFunction != ft260.GPIO_A_Normal {
		return fmt.Errorf("FT260: unexpected GPIO A function %02x (expected %02x)", status.GPIOAFunction, ft260.GPIO_A_Normal)
	}
	if status.GPIOGFunction != ft260.GPIO_G_Normal {
		return fmt.Errorf("FT260: unexpected GPIO G function %02x (expected %02x)", status.GPIOGFunction, ft260.GPIO_G_Normal)
	}
	if status.EnableWakeupInt {
		return errors.New("FT260: wakeup interrupt is enabled")
	}
	if status.Suspended {
		return errors.New("FT260: device is suspended")
	}
	if !status.PowerStatus {
		return errors.New("FT260: device is powered off")
	}
	if !status.I2CEnable {
		return errors.New("FT260: I2C is not enabled on the device")
	}
	return nil
}
