package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/kiwi-lang/kiwi/internal/asm"
	"github.com/kiwi-lang/kiwi/internal/cli"
	"github.com/kiwi-lang/kiwi/internal/interp"
	"github.com/kiwi-lang/kiwi/internal/log"
	"github.com/kiwi-lang/kiwi/internal/target"
	"github.com/kiwi-lang/kiwi/internal/tty"
	"github.com/kiwi-lang/kiwi/internal/vm"
)

// ErrInvalidSource is returned when a source or target kind flag names
// something this compiler cannot produce, or when a source/target
// combination is nonsensical (e.g. compiling a VM program to assembly).
var ErrInvalidSource = errors.New("cli: invalid source")

// kiwiExt is the source-language extension appended after the kind-specific
// ".vm"/".asm" infix, giving the `.vm.{ext}`/`.asm.{ext}` file-naming
// convention (`.c`/`.s` carry no such suffix: a C
// or x86 file's own extension already says what it is).
const kiwiExt = ".kiwi"

// Compile is the command that drives the whole toolchain: read an input
// file of the given source kind, and either run it or emit it in the
// requested target kind, matching the single unified `Args` surface
// original_source/src/cli.rs exposes through clap.
func Compile() cli.Command {
	return &compiler{log: log.DefaultLogger()}
}

type compiler struct {
	output        string
	sourceKind    string
	targetKind    string
	callStackSize int64
	debug         bool

	log *log.Logger
}

func (compiler) Description() string {
	return "compile or run a program"
}

func (compiler) Usage(out io.Writer) error {
	_, err := fmt.Fprintln(out, `compile [-o out] [-s kind] [-t kind] [-c n] [-debug] FILE

Compile FILE from the source kind named by -s to the target kind named by
-t. -t run (the default) executes FILE in the interpreter instead of
writing a file.

Source/target kinds: core-asm, std-asm, core-vm, std-vm.
Target-only kinds: run, c, x86.

Output names: -o out writes out.vm.kiwi/out.asm.kiwi for the vm/asm kinds,
out.c for -t c, out.s for -t x86.`)

	return err
}

func (c *compiler) FlagSet() *cli.FlagSet {
	fs := flag.NewFlagSet("compile", flag.ExitOnError)
	fs.StringVar(&c.output, "o", "out", "output `filename` (ignored for -t run)")
	fs.StringVar(&c.sourceKind, "s", "std-asm", "source `kind`")
	fs.StringVar(&c.targetKind, "t", "run", "target `kind`")
	fs.Int64Var(&c.callStackSize, "c", asm.DefaultCallStackSize, "call stack size in cells")
	fs.BoolVar(&c.debug, "debug", false, "emit nested-indentation debug output for -t std-vm/core-vm")

	return fs
}

// Run implements [cli.Command].
func (c *compiler) Run(ctx context.Context, args []string, out io.Writer, logger *log.Logger) int {
	if len(args) == 0 {
		logger.Error("compile: missing input file")
		return 1
	}

	src, err := parseSourceKind(c.sourceKind)
	if err != nil {
		logger.Error(err.Error())
		return 1
	}

	tgt, err := parseTargetKind(c.targetKind)
	if err != nil {
		logger.Error(err.Error())
		return 1
	}

	text, err := os.ReadFile(args[0])
	if err != nil {
		logger.Error("reading input", "file", args[0], "err", err)
		return 1
	}

	core, std, err := compileToVM(src, text, c.callStackSize)
	if err != nil {
		logger.Error("compiling", "err", err)
		return 1
	}

	switch tgt {
	case TargetRun:
		return c.run(ctx, core, std, logger)
	case TargetCoreVM:
		return c.writeProgram(".vm", core, std, true, logger)
	case TargetStdVM:
		return c.writeProgram(".vm", core, std, false, logger)
	case TargetCoreASM, TargetStdASM:
		asmCore, asmStd, err := compileToASM(src, text)
		if err != nil {
			logger.Error("compiling", "err", err)
			return 1
		}

		return c.writeProgram(".asm", asmCore, asmStd, tgt == TargetCoreASM, logger)
	case TargetC:
		return c.build(target.C{}, core, std, ".c", logger)
	case TargetX86:
		return c.build(target.X86{}, core, std, ".s", logger)
	default:
		logger.Error(fmt.Sprintf("unhandled target kind %q", tgt))
		return 1
	}
}

// compileToASM resolves src against text down to the unassembled program: the
// ops as written, before Program.Assemble/AssembleCore inject the call-stack
// prologue and resolve symbolic calls. Only ASM-kind sources carry this
// representation; a VM source has already been assembled; there is nothing
// to recover it from.
func compileToASM(src SourceKind, text []byte) (vm.CoreProgram, vm.StandardProgram, error) {
	switch src {
	case SourceCoreASM, SourceStdASM:
		var p vm.StandardProgram
		if err := p.UnmarshalText(text); err != nil {
			return vm.CoreProgram{}, vm.StandardProgram{}, err
		}

		if src == SourceCoreASM {
			core, err := p.ToCore()
			return core, vm.StandardProgram{}, err
		}

		return vm.CoreProgram{}, p, nil

	case SourceCoreVM, SourceStdVM:
		return vm.CoreProgram{}, vm.StandardProgram{},
			fmt.Errorf("%w: cannot recover an unassembled program from a VM source", ErrInvalidSource)

	case SourceLIR, SourceFrontend:
		return vm.CoreProgram{}, vm.StandardProgram{},
			fmt.Errorf("%w: %s requires an external frontend collaborator not built into this repository (see internal/lir)", ErrInvalidSource, src)

	default:
		return vm.CoreProgram{}, vm.StandardProgram{}, fmt.Errorf("%w: %s", ErrInvalidSource, src)
	}
}

// compileToVM resolves src against text down to a flat VM program. Exactly
// one of the two returns is non-zero-valued: assembly sources lower through
// asm.Program.Assemble; VM sources parse directly.
func compileToVM(src SourceKind, text []byte, callStackSize int64) (vm.CoreProgram, vm.StandardProgram, error) {
	switch src {
	case SourceCoreVM:
		var p vm.CoreProgram
		if err := p.UnmarshalText(text); err != nil {
			return vm.CoreProgram{}, vm.StandardProgram{}, err
		}

		return p, vm.StandardProgram{}, nil

	case SourceStdVM:
		var p vm.StandardProgram
		if err := p.UnmarshalText(text); err != nil {
			return vm.CoreProgram{}, vm.StandardProgram{}, err
		}

		return vm.CoreProgram{}, p, nil

	case SourceCoreASM, SourceStdASM:
		var p vm.StandardProgram
		if err := p.UnmarshalText(text); err != nil {
			return vm.CoreProgram{}, vm.StandardProgram{}, err
		}

		prog := asm.Program{Ops: p.Ops}

		if src == SourceCoreASM {
			core, err := prog.AssembleCore(callStackSize)
			return core, vm.StandardProgram{}, err
		}

		std, err := prog.Assemble(callStackSize)

		return vm.CoreProgram{}, std, err

	case SourceLIR, SourceFrontend:
		return vm.CoreProgram{}, vm.StandardProgram{},
			fmt.Errorf("%w: %s requires an external frontend collaborator not built into this repository (see internal/lir)", ErrInvalidSource, src)

	default:
		return vm.CoreProgram{}, vm.StandardProgram{}, fmt.Errorf("%w: %s", ErrInvalidSource, src)
	}
}

func (c *compiler) run(ctx context.Context, core vm.CoreProgram, std vm.StandardProgram, logger *log.Logger) int {
	devices := vm.NewDevices()
	vm.AttachStandardDevice(devices, vm.NewStandardDevice(os.Stdin, os.Stdout, os.Stderr))

	console, err := tty.NewConsole(os.Stdin, os.Stdout)
	if err == nil {
		console.Run(ctx)
		defer console.Restore()

		devices.AttachByte(0, console)
	} else {
		logger.Debug("no interactive terminal, using standard streams", "err", err)
	}

	state := vm.NewState(0)

	if len(std.Ops) > 0 {
		_, err = interp.RunStandard(std, state, devices)
	} else {
		_, err = interp.RunCore(core, state, devices)
	}

	if err != nil {
		logger.Error("interpreter", "err", err)
		return 1
	}

	return 0
}

// writeProgram serializes core/std to text and writes it with a
// kind-and-language-qualified suffix: ext is ".vm" or ".asm", giving a final
// name of base+ext+kiwiExt (e.g. "out.vm.kiwi"). wantCore narrows the
// coalesced program down to its Core subset (erroring if it uses any
// Standard-only op) instead of writing it wide.
func (c *compiler) writeProgram(ext string, core vm.CoreProgram, std vm.StandardProgram, wantCore bool, logger *log.Logger) int {
	wide := coalesce(core, std)

	var (
		text []byte
		err  error
	)

	switch {
	case wantCore:
		var narrow vm.CoreProgram

		narrow, err = wide.ToCore()
		if err != nil {
			break
		}

		if c.debug {
			var s string
			s, err = narrow.Debug()
			text = []byte(s)
		} else {
			text, err = narrow.MarshalText()
		}
	case c.debug:
		var s string
		s, err = wide.Debug()
		text = []byte(s)
	default:
		text, err = wide.MarshalText()
	}

	if err != nil {
		logger.Error("serializing", "err", err)
		return 1
	}

	return c.writeFile(text, ext+kiwiExt, logger)
}

// coalesce widens whichever of core/std compileToVM actually populated (it
// sets exactly one, depending on the source kind) into a StandardProgram,
// the common representation both -t core-vm and -t std-vm narrow or
// serialize from.
func coalesce(core vm.CoreProgram, std vm.StandardProgram) vm.StandardProgram {
	if len(std.Ops) > 0 {
		return std
	}

	return core.AsStandard()
}

func (c *compiler) build(backend target.CompiledTarget, core vm.CoreProgram, std vm.StandardProgram, ext string, logger *log.Logger) int {
	text, err := backend.BuildStandard(coalesce(core, std))
	if err != nil {
		logger.Error("building", "err", err)
		return 1
	}

	return c.writeFile([]byte(text), ext, logger)
}

func (c *compiler) writeFile(data []byte, ext string, logger *log.Logger) int {
	name := c.output + ext

	if err := os.WriteFile(name, data, 0o644); err != nil {
		logger.Error("writing output", "file", name, "err", err)
		return 1
	}

	logger.Info("wrote output", "file", name, "bytes", len(data))

	return 0
}
