package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"StegoPlane/pkg/config"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

// errUsage marks command line mistakes; the command has already printed why
var errUsage = errors.New("usage error")

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	global := flag.NewFlagSet("stegoplane", flag.ContinueOnError)
	global.SetOutput(stderr)
	configPath := global.String("config", "", "YAML file with default option values")
	verbose := global.Bool("verbose", false, "Enable verbose output")
	global.BoolVar(verbose, "v", false, "Enable verbose output (shorthand)")
	global.Usage = func() { printUsage(stderr, global) }

	if err := global.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}

	c := &console{out: stdout, err: stderr}

	cfg, err := config.Load(*configPath)
	if err != nil {
		c.printError("%v", err)
		return exitError
	}
	c.verbose = *verbose || cfg.Verbose

	rest := global.Args()
	if len(rest) == 0 {
		global.Usage()
		return exitUsage
	}

	var cmdErr error
	switch rest[0] {
	case "encode":
		cmdErr = runEncode(c, cfg, rest[1:])
	case "decode":
		cmdErr = runDecode(c, cfg, rest[1:])
	case "inspect":
		cmdErr = runInspect(c, cfg, rest[1:])
	case "help":
		global.Usage()
		return exitOK
	default:
		c.printError("unknown command %q", rest[0])
		global.Usage()
		return exitUsage
	}

	switch {
	case cmdErr == nil:
		return exitOK
	case errors.Is(cmdErr, flag.ErrHelp):
		return exitOK
	case errors.Is(cmdErr, errUsage):
		return exitUsage
	default:
		c.printError("%s", describeError(cmdErr))
		return exitError
	}
}

func printUsage(w io.Writer, global *flag.FlagSet) {
	fmt.Fprintln(w, "StegoPlane v1.0.0")
	fmt.Fprintln(w, "Hide files in one bit-plane of an image")
	fmt.Fprintln(w, "---------------------------------")
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  stegoplane [--config file] [-v] encode <image_path> <payload_path> [-b bit_idx] [-t out]")
	fmt.Fprintln(w, "  stegoplane [--config file] [-v] decode <image_path> [-b bit_idx] [-o out]")
	fmt.Fprintln(w, "  stegoplane [--config file] [-v] inspect <image_path>")
	fmt.Fprintf(w, "Image formats: %s\n", formatList())
	fmt.Fprintln(w, "Global options:")
	global.PrintDefaults()
}

// parseInterspersed parses flags that may appear before, between or after positional arguments.
// Everything after a "--" terminator is positional.
func parseInterspersed(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		rest := fs.Args()
		if consumed := len(args) - len(rest); consumed > 0 && args[consumed-1] == "--" {
			return append(positional, rest...), nil
		}
		if len(rest) == 0 {
			return positional, nil
		}
		positional = append(positional, rest[0])
		args = rest[1:]
	}
}

func newCommandFlags(c *console, name, synopsis string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(c.err)
	fs.Usage = func() {
		fmt.Fprintf(c.err, "Usage:\n  stegoplane %s %s\n", name, synopsis)
		fs.PrintDefaults()
	}
	return fs
}

// expectArgs checks the positional argument count and prints usage when it is wrong
func expectArgs(c *console, fs *flag.FlagSet, positional []string, names ...string) error {
	if len(positional) == len(names) {
		return nil
	}
	c.printError("%s expects %d argument(s) (%s), got %d",
		fs.Name(), len(names), strings.Join(names, ", "), len(positional))
	fs.Usage()
	return errUsage
}
