package vm

import (
	"bufio"
	"io"
)

// StandardDevice is the default non-interactive device set described in
// spec.md section 6: channel 0 is a byte of stdin in, channel 0 is stdout
// out, channel 1 is stderr out. Peek/Poke are not implemented by this type;
// register it only on channel numbers Get/Put use.
type StandardDevice struct {
	in  *bufio.Reader
	out io.Writer
	err io.Writer
}

// NewStandardDevice wraps in/out/err for attachment to a [Devices] table via
// AttachStandardDevice.
func NewStandardDevice(in io.Reader, out, err io.Writer) *StandardDevice {
	return &StandardDevice{in: bufio.NewReader(in), out: out, err: err}
}

// AttachStandardDevice attaches sd's stdin on channel 0, stdout on channel
// 0, and stderr on channel 1, matching the channel numbering spec.md
// section 6 assigns.
func AttachStandardDevice(d *Devices, sd *StandardDevice) {
	d.AttachByte(0, stdInOut{sd})
	d.AttachByte(1, stdErr{sd})
}

// stdInOut is channel 0: Get reads a byte of stdin, Put writes a byte of
// stdout.
type stdInOut struct{ sd *StandardDevice }

// Get reads one byte of stdin. (*Devices).Get turns io.EOF into the
// documented -1 cell; a byte alone cannot carry that sentinel.
func (s stdInOut) Get() (byte, error) {
	return s.sd.in.ReadByte()
}

func (s stdInOut) Put(b byte) error {
	_, err := s.sd.out.Write([]byte{b})
	return err
}

// stdErr is channel 1: Put writes a byte of stderr. It is attached as the
// channel's byte device, and its Get always reports [ErrNoDevice].
type stdErr struct{ sd *StandardDevice }

func (s stdErr) Get() (byte, error) {
	return 0, errNoDevice(1)
}

func (s stdErr) Put(b byte) error {
	_, err := s.sd.err.Write([]byte{b})
	return err
}
