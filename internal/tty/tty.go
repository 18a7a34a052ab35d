/*
Package tty adapts a real Unix terminal into a [vm.ByteDevice] for channel 0
of `kiwi run`'s interactive mode: raw, unbuffered keystrokes in, bytes
written straight to the terminal out, instead of Go's line-buffered stdin.
It is the same concern the original LC-3 simulator's Console addressed for
its keyboard/display devices, re-targeted at this machine's channel-based
device interface.
*/
package tty

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
	"golang.org/x/term"

	"github.com/kiwi-lang/kiwi/internal/vm"
)

// ErrNoTTY is returned if standard input is not a terminal.
var ErrNoTTY error = errors.New("tty: not a TTY")

// Console is a [vm.ByteDevice] backed by a raw Unix terminal. Get blocks for
// a single keystroke; Put writes a single byte straight through.
type Console struct {
	in    *os.File
	out   *term.Terminal
	fd    int
	state *term.State
	keyCh chan byte
	errCh chan error
}

// NewConsole puts sin into raw mode and returns a Console reading from sin
// and writing to sout. Callers must call Restore to return the terminal to
// its original state.
func NewConsole(sin, sout *os.File) (*Console, error) {
	fd := int(sin.Fd())

	if !term.IsTerminal(fd) {
		return nil, ErrNoTTY
	}

	saved, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNoTTY, err)
	}

	cons := &Console{
		fd:    fd,
		in:    sin,
		out:   term.NewTerminal(sout, ""),
		state: saved,
		keyCh: make(chan byte, 1),
		errCh: make(chan error, 1),
	}

	if err := cons.setTerminalParams(1, 0); err != nil {
		_ = term.Restore(fd, saved)
		return nil, err
	}

	return cons, nil
}

// Run starts the background reader that feeds Get and returns at once. The
// reader stops when ctx is canceled or the input stream is closed.
func (c *Console) Run(ctx context.Context) {
	go c.readTerminal(ctx)
}

// Get implements [vm.ByteDevice]: it blocks for the next keystroke.
func (c *Console) Get() (byte, error) {
	select {
	case b := <-c.keyCh:
		return b, nil
	case err := <-c.errCh:
		return 0, err
	}
}

// Put implements [vm.ByteDevice]: it writes one byte straight to the
// terminal.
func (c *Console) Put(b byte) error {
	_, err := c.out.Write([]byte{b})
	return err
}

// Restore returns the terminal to its initial state and unblocks any
// in-progress read.
func (c *Console) Restore() {
	_ = c.in.SetReadDeadline(time.Now())
	_ = term.Restore(c.fd, c.state)
}

func (c *Console) setTerminalParams(vmin, vtime byte) error {
	_ = syscall.SetNonblock(c.fd, true)

	termIO, err := unix.IoctlGetTermios(c.fd, getTermiosIoctl)
	if err != nil {
		return err
	}

	termIO.Cc[unix.VMIN] = vmin
	termIO.Cc[unix.VTIME] = vtime

	if err := unix.IoctlSetTermios(c.fd, setTermiosIoctl, termIO); err != nil {
		return err
	}

	_ = c.in.SetReadDeadline(time.Time{})

	return nil
}

func (c *Console) readTerminal(ctx context.Context) {
	buf := bufio.NewReader(c.in)

	_ = syscall.SetNonblock(c.fd, false)

	for {
		select {
		case <-ctx.Done():
			return
		default:
			b, err := buf.ReadByte()
			if err != nil {
				c.errCh <- err
				return
			}

			c.keyCh <- b
		}
	}
}

var _ vm.ByteDevice = (*Console)(nil)
