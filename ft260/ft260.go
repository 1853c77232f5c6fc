package ft260

import (
	"errors"
	"fmt"
	"sync"

	"github.com/karalabe/hid"
	log "github.com/sirupsen/logrus"
)

const (
	FTDIVendorId   = 0x0403
	FT260ProductId = 0x6030

	FT260_CHIP_CODE = 0x02600200
)

type Ft260Driver struct {
	Vendor  uint16
	Product uint16
	Path    string // Optional, otherwise the first matching device is used
}

func (d *Ft260Driver) Open() (*Ft260, error) {
	if !hid.Supported() {
		return nil, errors.New("The library github.com/karalabe/hid is not supported on this platform")
	}
	vendor, product := d.Vendor, d.Product
	if vendor == 0 {
		vendor = FTDIVendorId
	}
	if product == 0 {
		product = FT260ProductId
	}
	devices := hid.Enumerate(vendor, product)
	if d.Path != "" {
		var matching []hid.DeviceInfo
		for _, info := range devices {
			if info.Path == d.Path {
				matching = append(matching, info)
			}
		}
		devices = matching
	}
	if len(devices) == 0 {
		return nil, fmt.Errorf("No USB HID device found with vendorID=%04x productID=%04x path=%v", vendor, product, d.Path)
	}
	if len(devices) > 1 {
		log.Warnf("Multiple devices connected with vendorID=%04x productID=%04x, using first", vendor, product)
	}
	info := devices[0]
	log.Printf("Opening USB HID device %v (USB %v): %v (%04x) from %v (%04x), Release %v",
		info.Path, info.Interface, info.Product, info.ProductID, info.Manufacturer, info.VendorID, info.Release)
	dev, err := info.Open()
	if err != nil {
		return nil, err
	}
	return &Ft260{
		dev: dev,
	}, nil
}

// Open opens the first connected FT260 device.
func Open() (*Ft260, error) {
	return (&Ft260Driver{}).Open()
}

// OpenPath opens the FT260 at the given HID path, or the first one if path is empty.
func OpenPath(path string) (*Ft260, error) {
	return (&Ft260Driver{Path: path}).Open()
}

// Device is the part of a HID device used by Ft260.
type Device interface {
	Write(b []byte) (int, error)
	Read(b []byte) (int, error)
	Close() error
}

type Ft260 struct {
	dev Device

	// Serializes request/response pairs
	lock sync.Mutex
}

// New wraps an already opened HID device.
func New(dev Device) *Ft260 {
	return &Ft260{dev: dev}
}

type ReportIn interface {
	Unmarshall(data []byte) error
	ReportID() byte
	ReportLen() int
}

type ReportOut interface {
	Marshall(data []byte) error
	ReportID() byte
	ReportLen() int
}

// Reports with a report ID that depends on the payload size
type variableReportID interface {
	IsVariableReportID() bool
}

// Write sends a report. The report ID is prepended to the marshalled data.
func (f *Ft260) Write(report ReportOut) error {
	data := make([]byte, report.ReportLen()+1)
	if err := report.Marshall(data[1:]); err != nil {
		return err
	}
	data[0] = report.ReportID()
	n, err := f.dev.Write(data)
	if err == nil && n != len(data) {
		err = fmt.Errorf("ft260: wrong write len (%v instead of %v)", n, len(data))
	}
	return err
}

// Read receives a report. The leading report ID is verified and stripped
// before unmarshalling.
func (f *Ft260) Read(report ReportIn) error {
	data := make([]byte, report.ReportLen()+1)
	data[0] = report.ReportID()
	n, err := f.dev.Read(data)
	if err != nil {
		return err
	}
	if n < 1 {
		return errors.New("ft260: empty read")
	}
	if v, ok := report.(variableReportID); !ok || !v.IsVariableReportID() {
		if n != len(data) {
			return fmt.Errorf("ft260: wrong read len (%v instead of %v)", n, len(data))
		}
		if data[0] != report.ReportID() {
			return fmt.Errorf("Unexpected report id (expected %02x, received %02x)", report.ReportID(), data[0])
		}
	}
	return report.Unmarshall(data[1:n])
}

// request writes out and reads the response into in while holding the device lock.
func (f *Ft260) request(out ReportOut, in ReportIn) error {
	f.lock.Lock()
	defer f.lock.Unlock()
	if out != nil {
		if err := f.Write(out); err != nil {
			return err
		}
	}
	if in != nil {
		return f.Read(in)
	}
	return nil
}

func (f *Ft260) Close() error {
	return f.dev.Close()
}

func readBool(b []byte, index int, e *error) bool {
	if *e == nil {
		if index >= len(b) {
			*e = fmt.Errorf("Report too short to read byte at index %v (length %v)", index, len(b))
			return false
		}
		val := b[index]
		if val == 0 {
			return false
		} else if val == 1 {
			return true
		} else {
			*e = fmt.Errorf("Expected 0 or 1 for byte at index %v, but got %02x", index, val)
		}
	}
	return false
}
