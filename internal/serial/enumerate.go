package serial

import (
	"fmt"

	"go.bug.st/serial/enumerator"
)

// PortInfo describes one serial port available on the system.
type PortInfo struct {
	// Name is the device path (e.g. /dev/ttyACM0 or COM3).
	Name string

	// Product is the USB product description, when known.
	Product string

	// VID and PID identify the USB device, when the port is USB-attached.
	VID string
	PID string
}

// String renders the port the way the CLI lists it.
func (p PortInfo) String() string {
	switch {
	case p.Product != "":
		return fmt.Sprintf("%s - %s", p.Name, p.Product)
	case p.VID != "":
		return fmt.Sprintf("%s - USB %s:%s", p.Name, p.VID, p.PID)
	default:
		return p.Name
	}
}

// ListPorts enumerates the serial ports available on the system.
//
// Returns:
//   - []PortInfo: One entry per detected port
//   - error: Wrapped ErrEnumerate on platform enumeration failure
func ListPorts() ([]PortInfo, error) {
	details, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEnumerate, err)
	}

	ports := make([]PortInfo, 0, len(details))
	for _, d := range details {
		info := PortInfo{Name: d.Name}
		if d.IsUSB {
			info.Product = d.Product
			info.VID = d.VID
			info.PID = d.PID
		}
		ports = append(ports, info)
	}
	return ports, nil
}
