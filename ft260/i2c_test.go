package ft260

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestI2cSplitTransaction(t *testing.T) {
	a := assert.New(t)
	data := make([]byte, 130)
	for i := range data {
		data[i] = byte(i + 10)
	}

	for _, c := range []struct {
		size       int
		chunks     []int
		conditions []byte // With stop condition
	}{
		{0, nil, nil},
		{1, []int{1}, []byte{I2C_MasterStartStop}},
		{59, []int{59}, []byte{I2C_MasterStartStop}},
		{60, []int{60}, []byte{I2C_MasterStartStop}},
		{61, []int{60, 1}, []byte{I2C_MasterStart, I2C_MasterStop}},
		{120, []int{60, 60}, []byte{I2C_MasterStart, I2C_MasterStop}},
		{121, []int{60, 60, 1}, []byte{I2C_MasterStart, I2C_MasterNone, I2C_MasterStop}},
		{130, []int{60, 60, 10}, []byte{I2C_MasterStart, I2C_MasterNone, I2C_MasterStop}},
	} {
		var expected [][]byte
		start := 0
		for _, chunk := range c.chunks {
			expected = append(expected, data[start:start+chunk])
			start += chunk
		}

		payloads, conditions := i2cSplitTransaction(true, data[:c.size])
		a.Equal(expected, payloads, "Payload of %v byte", c.size)
		a.Equal(c.conditions, conditions, "Conditions of %v byte", c.size)

		// Without stop, the last chunk only differs by the missing stop bit
		var open []byte
		for _, cond := range c.conditions {
			open = append(open, cond&^I2C_MasterStop)
		}
		payloads, conditions = i2cSplitTransaction(false, data[:c.size])
		a.Equal(expected, payloads, "Payload of %v byte without stop", c.size)
		a.Equal(open, conditions, "Conditions of %v byte without stop", c.size)
	}
}

func TestTxSplitsLongWrite(t *testing.T) {
	a := assert.New(t)
	dev := new(fakeDevice)
	i2cIdle(dev)

	data := make([]byte, 61)
	for i := range data {
		data[i] = byte(i)
	}
	a.NoError(New(dev).Tx(0x20, data, nil))

	first := append([]byte{ReportID_I2CInOut_Max, 0x20, I2C_MasterStart, 60}, data[:60]...)
	a.Equal([][]byte{
		first,
		{ReportID_I2CInOut, 0x20, I2C_MasterStop, 1, 60},
	}, dev.written)
	a.Empty(dev.responses)
}

func TestTxReadOnly(t *testing.T) {
	a := assert.New(t)
	dev := new(fakeDevice)
	// The device may deliver the data in several input reports
	dev.respond(ReportID_I2CInOut, 2, 0x11, 0x22)
	dev.respond(ReportID_I2CInOut, 1, 0x33)

	in := make([]byte, 3)
	a.NoError(New(dev).Tx(0x48, nil, in))
	a.Equal([]byte{0x11, 0x22, 0x33}, in)
	a.Equal([][]byte{
		{ReportID_I2CRead, 0x48, I2C_MasterStartStop, 3, 0},
	}, dev.written)
}

func TestI2cWriteReadRepeatedStart(t *testing.T) {
	a := assert.New(t)
	dev := new(fakeDevice)
	i2cIdle(dev)
	dev.respond(ReportID_I2CInOut, 2, 0x80, 0x00)

	in := make([]byte, 2)
	a.NoError(New(dev).I2cWriteRead(0x48, []byte{0x01, 0x02}, in))
	a.Equal([]byte{0x80, 0x00}, in)
	a.Equal([][]byte{
		{ReportID_I2CInOut, 0x48, I2C_MasterStart, 2, 0x01, 0x02},
		{ReportID_I2CRead, 0x48, I2C_MasterRepStart | I2C_MasterStop, 2, 0},
	}, dev.written)
}

func TestTxEmptyResponse(t *testing.T) {
	a := assert.New(t)
	dev := new(fakeDevice)
	dev.respond(ReportID_I2CInOut, 0)
	err := New(dev).Tx(0x48, nil, make([]byte, 2))
	a.EqualError(err, "I2C read from 48 returned no data (received 0 of 2 byte)")
}

func TestTxNothing(t *testing.T) {
	dev := new(fakeDevice)
	assert.NoError(t, New(dev).Tx(0x48, nil, nil))
	assert.Empty(t, dev.written)
}
