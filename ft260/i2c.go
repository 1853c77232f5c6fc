package ft260

import (
	"fmt"
)

const (
	ReportID_I2CStatus    = 0xC0 // Feature In
	ReportID_I2CRead      = 0xC2 // Output
	ReportID_I2CInOut     = 0xD0 // 0xD0 - 0xDE, Input, Output
	ReportID_I2CInOut_Max = 0xDE
	// Max size of I2C write payload: (1 + Report ID - 0xD0) * 4 byte

	I2CMaxPayload = (1 + ReportID_I2CInOut_Max - ReportID_I2CInOut) * 4

	// Valid 7 bit slave addresses, excluding reserved addresses
	I2cMinAddress = 0x08
	I2cMaxAddress = 0x77
)

const (
	I2C_StatusControllerBusy = byte(1 << iota)
	I2C_StatusError
	I2C_StatusNoSlaveAck
	I2C_StatusNoDataAck
	I2C_StatusArbitrationLost
	I2C_StatusControllerIdle
	I2C_StatusBusBusy
)

const (
	I2C_MasterNone      = 0x0
	I2C_MasterStart     = 0x2
	I2C_MasterRepStart  = 0x3
	I2C_MasterStop      = 0x4
	I2C_MasterStartStop = 0x6
)

// I2cBus is a master on an I2C bus. Tx makes it usable as a tinygo drivers.I2C.
type I2cBus interface {
	I2cWrite(addr byte, data ...byte) error
	I2cRead(addr byte, data []byte) error
	I2cWriteRead(addr byte, out, in []byte) error
	I2cGet(addr byte, registerAddr byte, size int) ([]byte, error)
	Tx(addr uint16, w, r []byte) error
}

// Result of ReportID_I2CStatus Feature In
type ReportI2cStatus struct {
	BusStatus byte   // Bitmask of I2C_Status...
	BusSpeed  uint16 // 2 byte: LSB+MSB
	// 1 reserved
}

func (r *ReportI2cStatus) ReportID() byte {
	return ReportID_I2CStatus
}

func (r *ReportI2cStatus) ReportLen() int {
	return 4
}

func (r *ReportI2cStatus) Unmarshall(b []byte) error {
	if len(b) < 3 {
		return fmt.Errorf("Short I2C status report (%v byte)", len(b))
	}
	r.BusStatus = b[0]
	r.BusSpeed = uint16(b[1]) + uint16(b[2])<<8
	return nil
}

func (r *ReportI2cStatus) Err() error {
	if r.BusStatus&(I2C_StatusError|I2C_StatusNoSlaveAck|I2C_StatusNoDataAck|I2C_StatusArbitrationLost) == 0 {
		return nil
	}
	switch {
	case r.BusStatus&I2C_StatusNoSlaveAck != 0:
		return fmt.Errorf("I2C slave did not acknowledge address (status %02x)", r.BusStatus)
	case r.BusStatus&I2C_StatusNoDataAck != 0:
		return fmt.Errorf("I2C slave did not acknowledge data (status %02x)", r.BusStatus)
	case r.BusStatus&I2C_StatusArbitrationLost != 0:
		return fmt.Errorf("I2C arbitration lost (status %02x)", r.BusStatus)
	default:
		return fmt.Errorf("I2C error (status %02x)", r.BusStatus)
	}
}

// Data of ReportID_I2CRead Interrupt Out
type OperationI2cRead struct {
	SlaveAddr byte   // 0..127
	Condition byte   // I2C_Master...
	Len       uint16 // data length (little endian)
}

func (r *OperationI2cRead) ReportID() byte {
	return ReportID_I2CRead
}

func (r *OperationI2cRead) ReportLen() int {
	return 4
}

func (r *OperationI2cRead) Marshall(b []byte) error {
	if r.SlaveAddr&0x80 != 0 {
		return fmt.Errorf("Invalid I2C slave address: %02x", r.SlaveAddr)
	}
	b[0] = r.SlaveAddr
	b[1] = r.Condition
	b[2], b[3] = byte(r.Len), byte(r.Len>>8)
	return nil
}

// Data of ReportID_I2CInOut Interrupt Out
type OperationI2cWrite struct {
	SlaveAddr byte // 0..127
	Condition byte // I2C_Master...
	// 1 byte payload len
	Payload []byte
}

func (r *OperationI2cWrite) ReportID() byte {
	return ReportID_I2CInOut + byte((len(r.Payload)+3)/4) - 1
}

func (r *OperationI2cWrite) ReportLen() int {
	return len(r.Payload) + 3
}

func (r *OperationI2cWrite) Marshall(b []byte) error {
	if len(r.Payload) > I2CMaxPayload {
		return fmt.Errorf("Payload len %v exceeds maximum size of %v", len(r.Payload), I2CMaxPayload)
	}
	if r.SlaveAddr&0x80 != 0 {
		return fmt.Errorf("Invalid I2C slave address: %02x", r.SlaveAddr)
	}
	b[0] = r.SlaveAddr
	b[1] = r.Condition
	b[2] = byte(len(r.Payload))
	copy(b[3:], r.Payload)
	return nil
}

// Data of ReportID_I2CInOut Interrupt In
type OperationI2cInput struct {
	// 1 byte payload length
	Data []byte
	n    int
}

func (r *OperationI2cInput) IsVariableReportID() bool {
	return true
}

func (r *OperationI2cInput) ReportID() byte {
	// The report ID probably does not matter here
	return ReportID_I2CInOut
}

func (r *OperationI2cInput) ReportLen() int {
	return I2CMaxPayload + 1 // Max possible report length
}

func (r *OperationI2cInput) Unmarshall(d []byte) error {
	if len(d) < 1 {
		return fmt.Errorf("Empty I2C input report")
	}
	l := d[0]
	if len(d) < int(l)+1 {
		return fmt.Errorf("Short I2C read (%v, needed at least %v)", len(d), l+1)
	}
	r.n = copy(r.Data, d[1:1+l])
	return nil
}

// i2cSplitTransaction splits data into chunks fitting into one report each, along
// with the I2C condition for every chunk. Only the first chunk starts the transaction,
// only the last one stops it (if stop is set).
func i2cSplitTransaction(stop bool, data []byte) (payloads [][]byte, conditions []byte) {
	for start := 0; start < len(data); start += I2CMaxPayload {
		end := start + I2CMaxPayload
		if end > len(data) {
			end = len(data)
		}
		payloads = append(payloads, data[start:end])

		condition := byte(I2C_MasterNone)
		if start == 0 {
			condition |= I2C_MasterStart
		}
		if stop && end == len(data) {
			condition |= I2C_MasterStop
		}
		conditions = append(conditions, condition)
	}
	return
}

func (f *Ft260) i2cWrite(addr byte, stop bool, data []byte) error {
	payloads, conditions := i2cSplitTransaction(stop, data)
	if len(payloads) == 0 {
		return nil
	}
	for i, payload := range payloads {
		if err := f.Write(&OperationI2cWrite{SlaveAddr: addr, Condition: conditions[i], Payload: payload}); err != nil {
			return err
		}
	}
	return f.i2cCheckStatus()
}

func (f *Ft260) i2cRead(addr byte, condition byte, data []byte) error {
	err := f.Write(&OperationI2cRead{SlaveAddr: addr, Condition: condition, Len: uint16(len(data))})
	if err != nil {
		return err
	}
	for received := 0; received < len(data); {
		input := OperationI2cInput{Data: data[received:]}
		if err := f.Read(&input); err != nil {
			return err
		}
		if input.n == 0 {
			return fmt.Errorf("I2C read from %02x returned no data (received %v of %v byte)", addr, received, len(data))
		}
		received += input.n
	}
	return nil
}

func (f *Ft260) i2cCheckStatus() error {
	var status ReportI2cStatus
	if err := f.Read(&status); err != nil {
		return err
	}
	return status.Err()
}

func (f *Ft260) I2cStatus() (ReportI2cStatus, error) {
	var status ReportI2cStatus
	err := f.request(nil, &status)
	return status, err
}

func (f *Ft260) I2cWrite(addr byte, data ...byte) error {
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.i2cWrite(addr, true, data)
}

func (f *Ft260) I2cRead(addr byte, data []byte) error {
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.i2cRead(addr, I2C_MasterStartStop, data)
}

// I2cWriteRead writes out without a stop condition, then reads in with a repeated start.
func (f *Ft260) I2cWriteRead(addr byte, out, in []byte) error {
	f.lock.Lock()
	defer f.lock.Unlock()
	if len(out) > 0 {
		if err := f.i2cWrite(addr, len(in) == 0, out); err != nil {
			return err
		}
	}
	if len(in) > 0 {
		condition := byte(I2C_MasterStartStop)
		if len(out) > 0 {
			condition = I2C_MasterRepStart | I2C_MasterStop
		}
		return f.i2cRead(addr, condition, in)
	}
	return nil
}

// I2cGet reads size byte starting at the given register.
func (f *Ft260) I2cGet(addr byte, registerAddr byte, size int) ([]byte, error) {
	data := make([]byte, size)
	err := f.I2cWriteRead(addr, []byte{registerAddr}, data)
	return data, err
}

func (f *Ft260) Tx(addr uint16, w, r []byte) error {
	return f.I2cWriteRead(byte(addr), w, r)
}

// I2cScan returns the addresses of all slaves that respond to a 1 byte read.
func I2cScan(bus I2cBus) ([]byte, error) {
	var slaves []byte
	buf := make([]byte, 1)
	for addr := byte(I2cMinAddress); addr <= I2cMaxAddress; addr++ {
		if err := bus.I2cRead(addr, buf); err == nil {
			slaves = append(slaves, addr)
		}
	}
	return slaves, nil
}
