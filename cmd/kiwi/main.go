// cmd/kiwi is the command-line interface to the kiwi tape-machine
// compiler toolchain.
package main

import (
	"context"
	"os"
	"runtime"

	"github.com/kiwi-lang/kiwi/internal/cli"
	"github.com/kiwi-lang/kiwi/internal/cli/cmd"
)

var commands = []cli.Command{
	cmd.Compile(),
}

// Entry point. Compilation runs on a worker goroutine locked to its own OS
// thread, and main waits for its exit code. The goroutine's stack is an
// ordinary Go stack that grows on demand; no larger stack is requested. The
// shape mirrors original_source/src/cli.rs's main(), which spawns a
// 512 MiB-stack thread before calling into the compiler.
func main() {
	os.Exit(run())
}

func run() int {
	resultCh := make(chan int, 1)

	go func() {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()

		resultCh <- cli.New(context.Background()).
			WithLogger(os.Stderr).
			WithCommands(commands).
			WithHelp(cmd.Help(commands)).
			Execute(os.Args[1:])
	}()

	return <-resultCh
}
