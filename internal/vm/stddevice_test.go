package vm

import (
	"bytes"
	"strings"
	"testing"
)

// TestStandardDeviceChannels is S1's device wiring: channel 0 is stdin in,
// stdout out; channel 1 is stderr out.
func TestStandardDeviceChannels(tt *testing.T) {
	tt.Parallel()

	var out, errOut bytes.Buffer

	sd := NewStandardDevice(strings.NewReader("A"), &out, &errOut)
	devs := NewDevices()
	AttachStandardDevice(devs, sd)

	cell, err := devs.Get(0)
	if err != nil {
		tt.Fatalf("Get(0): %v", err)
	}

	if cell.Int() != 'A' {
		tt.Errorf("Get(0) = %d, want %d", cell.Int(), 'A')
	}

	if err := devs.Put(0, IntCell('x')); err != nil {
		tt.Fatalf("Put(0): %v", err)
	}

	if err := devs.Put(1, IntCell('y')); err != nil {
		tt.Fatalf("Put(1): %v", err)
	}

	if out.String() != "x" {
		tt.Errorf("stdout = %q, want %q", out.String(), "x")
	}

	if errOut.String() != "y" {
		tt.Errorf("stderr = %q, want %q", errOut.String(), "y")
	}
}

// TestStandardDeviceEOF exercises spec.md section 6's documented sentinel:
// reading past the end of stdin yields the cell -1, not an error.
func TestStandardDeviceEOF(tt *testing.T) {
	tt.Parallel()

	sd := NewStandardDevice(strings.NewReader(""), &bytes.Buffer{}, &bytes.Buffer{})
	devs := NewDevices()
	AttachStandardDevice(devs, sd)

	cell, err := devs.Get(0)
	if err != nil {
		tt.Fatalf("Get(0) at EOF: %v", err)
	}

	if cell.Int() != -1 {
		tt.Errorf("Get(0) at EOF = %d, want -1", cell.Int())
	}
}
