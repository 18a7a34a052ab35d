package main_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/kiwi-lang/kiwi/internal/cli"
	"github.com/kiwi-lang/kiwi/internal/cli/cmd"
)

var commands = []cli.Command{cmd.Compile()}

// TestCompileRun exercises the wired Commander the way main() builds it,
// running a program that touches no device so it can't write to the real
// terminal during the test.
func TestCompileRun(tt *testing.T) {
	dir := tt.TempDir()
	src := filepath.Join(dir, "prog.asm")

	if err := os.WriteFile(src, []byte("Set 1\n"), 0o644); err != nil {
		tt.Fatalf("writing fixture: %s", err)
	}

	code := cli.New(context.Background()).
		WithLogger(os.Stderr).
		WithCommands(commands).
		WithHelp(cmd.Help(commands)).
		Execute([]string{"compile", "-t", "run", src})

	if code != 0 {
		tt.Errorf("Execute: exit code = %d, want 0", code)
	}
}

// TestCompileInvalidSourceKind exercises the error path: an unknown -s value
// should fail fast without touching the filesystem.
func TestCompileInvalidSourceKind(tt *testing.T) {
	code := cli.New(context.Background()).
		WithLogger(os.Stderr).
		WithCommands(commands).
		WithHelp(cmd.Help(commands)).
		Execute([]string{"compile", "-s", "nonsense", "prog.asm"})

	if code == 0 {
		tt.Errorf("Execute: exit code = 0, want nonzero for an invalid source kind")
	}
}

// TestHelpWithNoArgs matches cli.Commander.Execute's documented fallback:
// no sub-command name at all runs help and returns 1.
func TestHelpWithNoArgs(tt *testing.T) {
	code := cli.New(context.Background()).
		WithLogger(os.Stderr).
		WithCommands(commands).
		WithHelp(cmd.Help(commands)).
		Execute(nil)

	if code != 1 {
		tt.Errorf("Execute(nil): exit code = %d, want 1", code)
	}
}
