// Package prog supports building testable, composable programs.
//
// The main abstraction of this package is the [Program] interface, which can
// be combined using [Composite]. The [Run] function runs a Program with
// command-line arguments and returns the exit status.
package prog

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"src.cmdl.sh/pkg/config"
	"src.cmdl.sh/pkg/diag"
	"src.cmdl.sh/pkg/logutil"
)

var logger = logutil.GetLogger("[prog] ")

// Program represents a subprogram.
type Program interface {
	// RegisterFlags registers the flags the program uses.
	RegisterFlags(fs *FlagSet)
	// Run runs the subprogram. It may return ErrNextProgram to indicate that
	// the next program in a Composite should run instead.
	Run(fds [3]*os.File, args []string) error
}

func usage(out io.Writer, fs *flag.FlagSet) {
	fmt.Fprintln(out, "Usage: cmdl [flags] [script]")
	fmt.Fprintln(out, "Supported flags:")
	fs.SetOutput(out)
	fs.PrintDefaults()
}

// Run parses command-line flags and runs the program. It returns the exit
// status of the program.
func Run(fds [3]*os.File, args []string, p Program) int {
	fs := flag.NewFlagSet("cmdl", flag.ContinueOnError)
	// Error and usage will be printed explicitly.
	fs.SetOutput(io.Discard)

	var log, configPath string
	var help bool
	fs.StringVar(&log, "log", "", "A file to write debug log to")
	fs.StringVar(&configPath, "config", "",
		"A TOML or YAML configuration file; flags take precedence over it")
	fs.BoolVar(&help, "help", false, "Show usage help and quit")

	f := &FlagSet{FlagSet: fs, config: &config.Config{}}
	p.RegisterFlags(f)

	err := fs.Parse(args[1:])
	if err != nil {
		if err == flag.ErrHelp {
			// (*flag.FlagSet).Parse returns ErrHelp when -h or -help was
			// requested but *not* defined. -help is defined but -h is not, so
			// -h has been requested. Handle this by printing the same message
			// as an undefined flag.
			fmt.Fprintln(fds[2], "flag provided but not defined: -h")
		} else {
			fmt.Fprintln(fds[2], err)
		}
		usage(fds[2], fs)
		return 2
	}

	if configPath != "" {
		cfg, err := config.Load(configPath)
		if err != nil {
			diag.Complainf(fds[2], "cannot load config: %v", err)
			return 2
		}
		*f.config = *cfg
		diag.Color = cfg.ColorMode()
		logger.Printf("loaded config from %s", configPath)
	}
	if log == "" {
		log = f.config.Log
	}
	if log != "" {
		if err := logutil.SetOutputFile(log); err != nil {
			fmt.Fprintln(fds[2], err)
		}
	}

	if help {
		usage(fds[1], fs)
		return 0
	}

	err = p.Run(fds, fs.Args())
	if err == nil {
		return 0
	}
	if err == ErrNextProgram {
		err = errNoSuitableSubprogram
	}
	if msg := err.Error(); msg != "" {
		fmt.Fprintln(fds[2], msg)
	}
	switch err := err.(type) {
	case badUsageError:
		usage(fds[2], fs)
	case exitError:
		return err.exit
	}
	return 2
}

// Composite returns a Program made up from other programs that run in the
// order they appear in the argument list, until one that does not return
// ErrNextProgram.
func Composite(programs ...Program) Program {
	return composite(programs)
}

type composite []Program

func (cp composite) RegisterFlags(f *FlagSet) {
	for _, p := range cp {
		p.RegisterFlags(f)
	}
}

func (cp composite) Run(fds [3]*os.File, args []string) error {
	for _, p := range cp {
		err := p.Run(fds, args)
		if err != ErrNextProgram {
			return err
		}
	}
	// If we have reached here, all subprograms have returned ErrNextProgram
	return ErrNextProgram
}

// ErrNextProgram is a special error that may be returned by Program.Run that
// is part of a Composite program, indicating that the next program should be
// tried.
var ErrNextProgram = errors.New("next program")

var errNoSuitableSubprogram = errors.New("internal error: no suitable subprogram")

// BadUsage returns a special error that may be returned by Program.Run. It
// causes the main function to print out a message, the usage information and
// exit with 2.
func BadUsage(msg string) error { return badUsageError{msg} }

type badUsageError struct{ msg string }

func (e badUsageError) Error() string { return e.msg }

// Exit returns a special error that may be returned by Program.Run. It causes
// the main function to exit with the given code without printing any error
// messages. Exit(0) returns nil.
func Exit(exit int) error {
	if exit == 0 {
		return nil
	}
	return exitError{exit}
}

type exitError struct{ exit int }

func (e exitError) Error() string { return "" }
