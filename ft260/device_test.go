package ft260

import (
	"errors"
	"testing"

	"github.com/antongulenko/optinit/regplan"
	"github.com/stretchr/testify/assert"
)

type fakeDevice struct {
	written   [][]byte
	responses [][]byte
	closed    bool
}

func (d *fakeDevice) Write(b []byte) (int, error) {
	d.written = append(d.written, append([]byte(nil), b...))
	return len(b), nil
}

func (d *fakeDevice) Read(b []byte) (int, error) {
	if len(d.responses) == 0 {
		return 0, errors.New("no response queued")
	}
	resp := d.responses[0]
	d.responses = d.responses[1:]
	return copy(b, resp), nil
}

func (d *fakeDevice) Close() error {
	d.closed = true
	return nil
}

func (d *fakeDevice) respond(data ...byte) {
	d.responses = append(d.responses, data)
}

func i2cIdle(d *fakeDevice) {
	d.respond(ReportID_I2CStatus, I2C_StatusControllerIdle, 0x64, 0x00, 0)
}

func TestChipCode(t *testing.T) {
	a := assert.New(t)
	dev := new(fakeDevice)
	dev.respond(ReportID_ChipCode, 0x02, 0x60, 0x02, 0x00, 0, 0, 0, 0, 0, 0, 0, 0)
	code, err := New(dev).ChipCode()
	a.NoError(err)
	a.Equal(uint32(FT260_CHIP_CODE), code)
}

func TestReadWrongReportID(t *testing.T) {
	a := assert.New(t)
	dev := new(fakeDevice)
	dev.respond(ReportID_SystemSetting, 0x02, 0x60, 0x02, 0x00, 0, 0, 0, 0, 0, 0, 0, 0)
	_, err := New(dev).ChipCode()
	a.EqualError(err, "Unexpected report id (expected a0, received a1)")
}

func TestSetSystemSetting(t *testing.T) {
	a := assert.New(t)
	dev := new(fakeDevice)
	f := New(dev)
	a.NoError(f.SetSystemSetting(SetSystemSetting_I2CSetClock, uint16(400)))
	a.NoError(f.SetSystemSetting(SetSystemSetting_I2CReset, nil))
	a.NoError(f.SetSystemSetting(SetSystemSetting_EnableWakeupInt, true))
	a.Equal([][]byte{
		{ReportID_SystemSetting, SetSystemSetting_I2CSetClock, 0x90, 0x01},
		{ReportID_SystemSetting, SetSystemSetting_I2CReset},
		{ReportID_SystemSetting, SetSystemSetting_EnableWakeupInt, 1},
	}, dev.written)
	a.Error(f.SetSystemSetting(SetSystemSetting_Clock, "fast"))
}

func TestI2cGet(t *testing.T) {
	a := assert.New(t)
	dev := new(fakeDevice)
	i2cIdle(dev)
	dev.respond(ReportID_I2CInOut, 2, 0xAB, 0xCD)

	data, err := New(dev).I2cGet(0x20, 0x12, 2)
	a.NoError(err)
	a.Equal([]byte{0xAB, 0xCD}, data)
	a.Equal([][]byte{
		{ReportID_I2CInOut, 0x20, I2C_MasterStart, 1, 0x12},
		{ReportID_I2CRead, 0x20, I2C_MasterRepStart | I2C_MasterStop, 2, 0},
	}, dev.written)
}

func TestI2cWrite(t *testing.T) {
	a := assert.New(t)
	dev := new(fakeDevice)
	i2cIdle(dev)
	a.NoError(New(dev).I2cWrite(0x40, 0x00, 0x31, 0x07))
	// Up to 4 payload byte are sent with report ID 0xD0
	a.Equal([][]byte{
		{ReportID_I2CInOut, 0x40, I2C_MasterStartStop, 3, 0x00, 0x31, 0x07},
	}, dev.written)
}

func TestI2cNoAck(t *testing.T) {
	a := assert.New(t)
	dev := new(fakeDevice)
	dev.respond(ReportID_I2CStatus, I2C_StatusError|I2C_StatusNoSlaveAck, 0x64, 0x00, 0)
	err := New(dev).I2cWrite(0x40, 0x00)
	a.EqualError(err, "I2C slave did not acknowledge address (status 06)")
}

func TestInvalidSlaveAddress(t *testing.T) {
	a := assert.New(t)
	dev := new(fakeDevice)
	a.Error(New(dev).I2cWrite(0x80, 0x00))
	a.Empty(dev.written)
}

func TestI2cScan(t *testing.T) {
	a := assert.New(t)
	bus := &scanBus{present: map[byte]bool{0x20: true, 0x48: true}}
	slaves, err := I2cScan(bus)
	a.NoError(err)
	a.Equal([]byte{0x20, 0x48}, slaves)
	a.Equal(I2cMaxAddress-I2cMinAddress+1, bus.probed)
}

type scanBus struct {
	I2cBus
	present map[byte]bool
	probed  int
}

func (b *scanBus) I2cRead(addr byte, data []byte) error {
	b.probed++
	if b.present[addr] {
		return nil
	}
	return errors.New("no ack")
}

func TestGpioRegisters(t *testing.T) {
	a := assert.New(t)
	dev := new(fakeDevice)
	// Every register access reads the whole report
	dev.respond(ReportID_GPIO, 0x01, 0x00, 0xF0, 0x00)
	dev.respond(ReportID_GPIO, 0x01, 0x00, 0xF0, 0x00)
	dev.respond(ReportID_GPIO, 0x05, 0x00, 0xF0, 0x00)
	dev.respond(ReportID_GPIO, 0x05, 0x00, 0xF0, 0x00)

	regs := GpioRegisters{New(dev)}
	pin := GpioPin(2, false)
	err := regplan.Apply(regs, pin.High(), pin.OutputAny())
	a.NoError(err)
	a.Equal([][]byte{
		{ReportID_GPIO, 0x05, 0x00, 0xF0, 0x00},
		{ReportID_GPIO, 0x05, 0x04, 0xF0, 0x00},
	}, dev.written)

	_, err = regs.ReadRegister(7)
	a.Error(err)
}

func TestGpioRegistersRejectWideAddresses(t *testing.T) {
	a := assert.New(t)
	dev := new(fakeDevice)
	dev.respond(ReportID_GPIO, 0x01, 0x00, 0xF0, 0x00)
	dev.respond(ReportID_GPIO, 0x01, 0x00, 0xF0, 0x00)
	regs := GpioRegisters{New(dev)}

	// The low byte would select GPIO_VALUE and GPIO_DIR_EX
	_, err := regs.ReadRegister(0x100)
	a.EqualError(err, "FT260 has no GPIO register 0x100")
	a.EqualError(regs.WriteRegister(0x203, 0xFF), "FT260 has no GPIO register 0x203")
	a.Empty(dev.written)
}

func TestClose(t *testing.T) {
	dev := new(fakeDevice)
	assert.NoError(t, New(dev).Close())
	assert.True(t, dev.closed)
}
