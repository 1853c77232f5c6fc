package ft260

import (
	"fmt"
)

const (
	ReportID_ChipCode      = 0xA0 // Feature In
	ReportID_SystemSetting = 0xA1 // Feature In/Out
)

// Requests for ReportID_SystemSetting Feature Out
const (
	SetSystemSetting_Clock           = 0x01 // Clock...
	SetSystemSetting_EnableWakeupInt = 0x05 // bool

	SetSystemSetting_GPIO_2 = 0x06 // GPIO_2_...
	SetSystemSetting_GPIO_A = 0x08 // GPIO_A_...
	SetSystemSetting_GPIO_G = 0x09 // GPIO_G_...

	SetSystemSetting_I2CReset    = 0x20 // <empty>
	SetSystemSetting_I2CSetClock = 0x22 // LSB+MSB of clock speed (60K-3400K bps)
)

const (
	Clock12MHz = byte(0)
	Clock24MHz = byte(1)
	Clock48MHz = byte(2)

	GPIO_2_Normal = byte(0)
	GPIO_A_Normal = byte(0)
	GPIO_G_Normal = byte(0)
)

// Result of ReportID_ChipCode Feature In
type ReportChipCode struct {
	ChipCode uint32 // 02600200
	// 8 reserved byte
}

func (r *ReportChipCode) ReportID() byte {
	return ReportID_ChipCode
}

func (r *ReportChipCode) ReportLen() int {
	return 12
}

func (r *ReportChipCode) Unmarshall(b []byte) error {
	r.ChipCode = uint32(b[3]) + uint32(b[2])<<8 + uint32(b[1])<<16 + uint32(b[0])<<24
	return nil
}

// Result of ReportID_SystemSetting Feature In
type ReportSystemStatus struct {
	ChipMode        byte // Bit 0: DCNF0, Bit 1: DCNF1
	Clock           byte // 0..2 (Clock...MHz)
	Suspended       bool
	PowerStatus     bool // Device Ready?
	I2CEnable       bool
	UartMode        byte
	GPIO2Function   byte // GPIO_2_...
	GPIOAFunction   byte // GPIO_A_...
	GPIOGFunction   byte // GPIO_G_...
	EnableWakeupInt bool // If disabled: pin acts as GPIO3
}

func (r *ReportSystemStatus) ReportID() byte {
	return ReportID_SystemSetting
}

func (r *ReportSystemStatus) ReportLen() int {
	// This should be 19 byte, but the device returns an error for less than 25...
	return 24
}

func (r *ReportSystemStatus) Unmarshall(b []byte) (err error) {
	if len(b) < 12 {
		return fmt.Errorf("Short system status report (%v byte)", len(b))
	}
	r.ChipMode = b[0]
	r.Clock = b[1]
	r.Suspended = readBool(b, 2, &err)
	r.PowerStatus = readBool(b, 3, &err)
	r.I2CEnable = readBool(b, 4, &err)
	r.UartMode = b[5]
	r.GPIO2Function = b[7]
	r.GPIOAFunction = b[8]
	r.GPIOGFunction = b[9]
	r.EnableWakeupInt = readBool(b, 11, &err)
	return
}

// SetSystemStatus is a ReportID_SystemSetting Feature Out request.
// Value must be nil, a byte, a bool or a uint16, depending on the request.
type SetSystemStatus struct {
	Request byte
	Value   interface{}
}

func (r *SetSystemStatus) ReportID() byte {
	return ReportID_SystemSetting
}

func (r *SetSystemStatus) ReportLen() int {
	switch r.Value.(type) {
	case nil:
		return 1
	case byte, bool:
		return 2
	case uint16:
		return 3
	default:
		return 1
	}
}

func (r *SetSystemStatus) Marshall(b []byte) error {
	b[0] = r.Request
	switch val := r.Value.(type) {
	case nil:
	case byte:
		b[1] = val
	case bool:
		if val {
			b[1] = 1
		} else {
			b[1] = 0
		}
	case uint16:
		b[1], b[2] = byte(val), byte(val>>8)
	default:
		return fmt.Errorf("System Setting Request ID %02x: unsupported value of type %T (%v)", r.Request, r.Value, r.Value)
	}
	return nil
}

func (f *Ft260) ChipCode() (uint32, error) {
	var code ReportChipCode
	err := f.request(nil, &code)
	return code.ChipCode, err
}

func (f *Ft260) SystemStatus() (ReportSystemStatus, error) {
	var status ReportSystemStatus
	err := f.request(nil, &status)
	return status, err
}

func (f *Ft260) SetSystemSetting(request byte, value interface{}) error {
	return f.request(&SetSystemStatus{Request: request, Value: value}, nil)
}
