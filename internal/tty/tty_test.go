// Package tty_test tries to test ttys.
//
// The test is skipped when stdin is not a terminal (ErrNoTTY). Notably, this
// includes when run with "go test" because it redirects tests' standard
// input/output streams. You can test it by building a test binary and
// running it directly:
//
//	$ go test -c && ./tty.test
package tty_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/kiwi-lang/kiwi/internal/tty"
)

func TestNewConsoleSkipsWithoutTTY(tt *testing.T) {
	console, err := tty.NewConsole(os.Stdin, os.Stdout)
	if errors.Is(err, tty.ErrNoTTY) {
		tt.Skipf("error: %s", err)
	}

	if err != nil {
		tt.Fatalf("NewConsole: %s", err)
	}

	defer console.Restore()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	console.Run(ctx)

	if err := console.Put('!'); err != nil {
		tt.Errorf("Put: %s", err)
	}

	// Get blocks for a keystroke that a headless run can't supply; exercise
	// Restore unblocking it instead of waiting on real input.
	done := make(chan struct{})

	go func() {
		defer close(done)
		_, _ = console.Get()
	}()

	<-ctx.Done()
	console.Restore()

	select {
	case <-done:
	case <-time.After(time.Second):
		tt.Errorf("Get did not unblock after Restore")
	}
}
