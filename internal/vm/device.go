package vm

// device.go defines the channel abstraction behind Get/Put (Core) and
// Peek/Poke (Standard). A device is addressed by a small integer channel
// number; the machine itself is agnostic about what channel 0 means.

import (
	"errors"
	"io"
)

// ErrNoDevice is returned by the default device set when a program addresses
// a channel that was never attached.
var ErrNoDevice = errors.New("vm: no device on channel")

// Device is the Standard-tier I/O contract: a full cell in, a full cell out.
// Core-tier Get/Put narrow to a single byte through the separate
// [ByteDevice] interface.
type Device interface {
	Peek() (Cell, error)
	Poke(Cell) error
}

// ByteDevice is the Core-tier I/O contract used by Get/Put.
type ByteDevice interface {
	Get() (byte, error)
	Put(byte) error
}

// Devices maps channel numbers to attached devices. The zero value has no
// channels attached; Get/Put against an unattached channel report
// [ErrNoDevice], while Peek/Poke against one are no-ops.
type Devices struct {
	byteChans map[int64]ByteDevice
	cellChans map[int64]Device
}

// NewDevices creates an empty device table.
func NewDevices() *Devices {
	return &Devices{
		byteChans: make(map[int64]ByteDevice),
		cellChans: make(map[int64]Device),
	}
}

// AttachByte attaches a byte-oriented device to a channel for Get/Put.
func (d *Devices) AttachByte(channel int64, dev ByteDevice) {
	d.byteChans[channel] = dev
}

// AttachCell attaches a cell-oriented device to a channel for Peek/Poke.
func (d *Devices) AttachCell(channel int64, dev Device) {
	d.cellChans[channel] = dev
}

// Get reads one byte from a channel, widened into a [Cell]. A device that
// reports io.EOF yields the cell -1 rather than an error, matching
// StandardDevice's documented end-of-input sentinel.
func (d *Devices) Get(channel int64) (Cell, error) {
	dev, ok := d.byteChans[channel]
	if !ok {
		return 0, errNoDevice(channel)
	}

	b, err := dev.Get()
	if errors.Is(err, io.EOF) {
		return IntCell(-1), nil
	} else if err != nil {
		return 0, err
	}

	return IntCell(int64(b)), nil
}

// Put writes the low byte of a cell to a channel.
func (d *Devices) Put(channel int64, value Cell) error {
	dev, ok := d.byteChans[channel]
	if !ok {
		return errNoDevice(channel)
	}

	return dev.Put(byte(value.Int()))
}

// Peek reads one full cell from a channel. A channel with no cell device
// attached, but with a byte device attached, is undefined by spec and treated
// as unattached. A channel with nothing attached at all is a documented
// no-op, returning the zero cell -- see SPEC_FULL.md.
func (d *Devices) Peek(channel int64) (Cell, error) {
	dev, ok := d.cellChans[channel]
	if !ok {
		return 0, nil
	}

	return dev.Peek()
}

// Poke writes one full cell to a channel. As with Peek, an unattached channel
// is a no-op rather than an error.
func (d *Devices) Poke(channel int64, value Cell) error {
	dev, ok := d.cellChans[channel]
	if !ok {
		return nil
	}

	return dev.Poke(value)
}

func errNoDevice(channel int64) error {
	return &deviceError{channel: channel}
}

type deviceError struct {
	channel int64
}

func (e *deviceError) Error() string {
	return "vm: no device on channel " + Address(e.channel).String()[1:]
}

func (e *deviceError) Unwrap() error { return ErrNoDevice }
