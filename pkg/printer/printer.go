package printer

import (
	"context"
	"fmt"
	"net"
	"os"
	"time"
)

// Printer sends raw ESC/POS jobs to a receipt printer.
type Printer interface {
	Print(ctx context.Context, data []byte) error
	// Status reports whether the device can currently be reached.
	Status(ctx context.Context) Status
	Kind() string
	Close() error
}

// Status is the reachability of a printer at one point in time.
type Status struct {
	Kind      string    `json:"kind"`
	Target    string    `json:"target,omitempty"`
	Connected bool      `json:"connected"`
	Error     string    `json:"error,omitempty"`
	CheckedAt time.Time `json:"checked_at"`
}

// usbPrinter writes each job to a device file such as /dev/usb/lp0.
type usbPrinter struct {
	path string
}

func NewUSBPrinter(devicePath string) Printer {
	return &usbPrinter{path: devicePath}
}

func (p *usbPrinter) Print(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f, err := os.OpenFile(p.path, os.O_WRONLY, 0)
	if err != nil {
		return fmt.Errorf("printer: open %s: %w", p.path, err)
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("printer: write %s: %w", p.path, err)
	}
	return nil
}

func (p *usbPrinter) Status(context.Context) Status {
	st := Status{Kind: p.Kind(), Target: p.path, CheckedAt: time.Now()}
	if _, err := os.Stat(p.path); err != nil {
		st.Error = err.Error()
		return st
	}
	st.Connected = true
	return st
}

func (p *usbPrinter) Kind() string { return "usb" }

func (p *usbPrinter) Close() error { return nil }

// networkPrinter dials a raw TCP port (usually 9100) for every job.
type networkPrinter struct {
	address      string
	dialTimeout  time.Duration
	writeTimeout time.Duration
}

func NewNetworkPrinter(address string) Printer {
	return &networkPrinter{
		address:      address,
		dialTimeout:  5 * time.Second,
		writeTimeout: 10 * time.Second,
	}
}

func (p *networkPrinter) dial(ctx context.Context, timeout time.Duration) (net.Conn, error) {
	d := net.Dialer{Timeout: timeout}
	return d.DialContext(ctx, "tcp", p.address)
}

func (p *networkPrinter) Print(ctx context.Context, data []byte) error {
	conn, err := p.dial(ctx, p.dialTimeout)
	if err != nil {
		return fmt.Errorf("printer: connect %s: %w", p.address, err)
	}
	defer conn.Close()

	_ = conn.SetWriteDeadline(time.Now().Add(p.writeTimeout))
	if _, err := conn.Write(data); err != nil {
		return fmt.Errorf("printer: write %s: %w", p.address, err)
	}
	return nil
}

func (p *networkPrinter) Status(ctx context.Context) Status {
	st := Status{Kind: p.Kind(), Target: p.address, CheckedAt: time.Now()}
	conn, err := p.dial(ctx, 2*time.Second)
	if err != nil {
		st.Error = err.Error()
		return st
	}
	conn.Close()
	st.Connected = true
	return st
}

func (p *networkPrinter) Kind() string { return "network" }

func (p *networkPrinter) Close() error { return nil }

// nullPrinter swallows jobs on tills without a printer.
type nullPrinter struct{}

func NewNullPrinter() Printer {
	return nullPrinter{}
}

func (nullPrinter) Print(context.Context, []byte) error { return nil }

func (p nullPrinter) Status(context.Context) Status {
	return Status{Kind: p.Kind(), CheckedAt: time.Now()}
}

func (nullPrinter) Kind() string { return "none" }

func (nullPrinter) Close() error { return nil }

// NewPrinterFromConfig picks the printer for printerType: "usb", "network" or "none".
func NewPrinterFromConfig(printerType, usbPath, address string) (Printer, error) {
	switch printerType {
	case "usb":
		if usbPath == "" {
			return nil, fmt.Errorf("printer: USB path is required for USB printer type")
		}
		return NewUSBPrinter(usbPath), nil
	case "network":
		if address == "" {
			return nil, fmt.Errorf("printer: address is required for network printer type")
		}
		return NewNetworkPrinter(address), nil
	case "none", "":
		return NewNullPrinter(), nil
	default:
		return nil, fmt.Errorf("printer: unknown printer type %q (use usb, network, or none)", printerType)
	}
}
