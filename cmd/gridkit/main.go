// Command gridkit exercises the gridkit toolkit: an animated demo dashboard,
// headless snapshots, scene replay and terminal capability reporting.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	goruntime "runtime"
)

var (
	version   = "0.1.0-dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func main() {
	if handled, code := dispatchSubcommand(os.Args[1:]); handled {
		os.Exit(code)
	}
	os.Exit(runCommand(runDemoCommand, os.Args[1:]))
}

// dispatchSubcommand runs the named subcommand. It returns false when args
// do not name one, in which case the demo runs with args as its flags.
func dispatchSubcommand(args []string) (bool, int) {
	if len(args) == 0 {
		return false, 0
	}
	switch args[0] {
	case "--version", "-v", "version":
		printVersion(os.Stdout)
		return true, 0
	case "--help", "-h", "help":
		printHelp(os.Stdout)
		return true, 0
	case "demo":
		return true, runCommand(runDemoCommand, args[1:])
	case "snapshot":
		return true, runCommand(runSnapshotCommand, args[1:])
	case "scene":
		return true, runCommand(runSceneCommand, args[1:])
	case "caps":
		return true, runCommand(runCapsCommand, args[1:])
	}
	return false, 0
}

func runCommand(handler func([]string) error, args []string) int {
	if err := handler(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitCodeForError(err)
	}
	return 0
}

func printVersion(w io.Writer) {
	fmt.Fprintf(w, "gridkit %s\n", version)
	if commit != "unknown" {
		fmt.Fprintf(w, "  Commit:     %s\n", commit)
	}
	if buildDate != "unknown" {
		fmt.Fprintf(w, "  Built:      %s\n", buildDate)
	}
	fmt.Fprintf(w, "  Go version: %s\n", goruntime.Version())
}

func printHelp(w io.Writer) {
	fmt.Fprintln(w, "gridkit - retained-mode terminal UI toolkit")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "USAGE:")
	fmt.Fprintln(w, "  gridkit [COMMAND] [FLAGS]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "COMMANDS:")
	fmt.Fprintln(w, "  demo                             Run the animated dashboard (default)")
	fmt.Fprintln(w, "  snapshot [-width N -height N]    Render the dashboard once and print it")
	fmt.Fprintln(w, "  scene <file.json|file.yaml>      Replay a recorded draw scene")
	fmt.Fprintln(w, "  caps                             Show detected terminal capabilities")
	fmt.Fprintln(w, "  version                          Show version information")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "COMMON FLAGS:")
	fmt.Fprintln(w, "  -config <path>                   Load configuration from path")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Configuration is read from ~/.gridkit/config.yaml and ./.gridkit/config.yaml,")
	fmt.Fprintln(w, "then .env and GRIDKIT_* environment variables.")
}

// newFlagSet creates a subcommand flag set with the shared -config flag.
func newFlagSet(name string, configPath *string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.StringVar(configPath, "config", "", "configuration file")
	return fs
}

// parseFlags wraps flag errors so they exit with the usage code.
func parseFlags(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return err
		}
		return withExitCode(err, exitUsage)
	}
	return nil
}
