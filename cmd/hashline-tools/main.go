// Command hashline-tools is a line-editing CLI meant to be driven by an
// LLM agent: every line it prints carries a content-derived hash, and
// every edit it accepts must cite that hash back, so a stale or misquoted
// edit is refused instead of silently corrupting the file.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"hashline-tools/internal/engine"
	"hashline-tools/internal/hlerr"
)

const version = "0.1.0"

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		printRootUsage(stderr)
		return hlerr.ExitArgs
	}

	switch args[0] {
	case "-h", "--help":
		printRootUsage(stdout)
		return 0
	case "--version":
		fmt.Fprintln(stdout, "hashline-tools "+version)
		return 0
	case "read":
		return runRead(args[1:], stdout, stderr)
	case "edit":
		return runEdit(args[1:], stdin, stdout, stderr)
	default:
		fmt.Fprintf(stderr, "unknown command %q\n", args[0])
		printRootUsage(stderr)
		return hlerr.ExitArgs
	}
}

func printRootUsage(w io.Writer) {
	prog := filepath.Base(os.Args[0])
	fmt.Fprintf(w, "Usage:\n")
	fmt.Fprintf(w, "  %s read <path> [--offset N] [--limit M]\n", prog)
	fmt.Fprintf(w, "  %s edit <path> (--edits <JSON> | --edits-stdin) [--dry-run] [--json]\n", prog)
	fmt.Fprintf(w, "  %s --version | -h\n", prog)
}

// readArgs is the read verb's parsed flag set; parseReadArgs fills it as a
// pure, testable parse step ahead of any I/O.
type readArgs struct {
	path           string
	offset, limit int
}

func parseReadArgs(args []string, stderr io.Writer) (readArgs, error) {
	fs := flag.NewFlagSet("read", flag.ContinueOnError)
	fs.SetOutput(stderr)
	offset := fs.Int("offset", 0, "0-indexed line to start at")
	limit := fs.Int("limit", 0, "max lines to emit (0 = default 2000)")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: hashline-tools read <path> [--offset N] [--limit M]")
		fs.PrintDefaults()
	}
	pos, err := parsePositional(fs, args)
	if err != nil {
		return readArgs{}, err
	}
	if len(pos) != 1 {
		fs.Usage()
		return readArgs{}, flag.ErrHelp
	}
	return readArgs{path: pos[0], offset: *offset, limit: *limit}, nil
}

// parsePositional parses fs over args, accepting flags both before and after
// positional arguments, and returns the positionals in order.
func parsePositional(fs *flag.FlagSet, args []string) ([]string, error) {
	var pos []string
	for {
		if err := fs.Parse(args); err != nil || fs.NArg() == 0 {
			return pos, err
		}
		pos = append(pos, fs.Arg(0))
		args = fs.Args()[1:]
	}
}

func runRead(args []string, stdout, stderr io.Writer) int {
	ra, err := parseReadArgs(args, stderr)
	if err != nil {
		return hlerr.ExitArgs
	}
	out, err := engine.ReadFile(ra.path, ra.offset, ra.limit)
	if err != nil {
		reportError(stderr, err)
		return hlerr.ExitCode(err)
	}
	fmt.Fprint(stdout, out)
	return 0
}

// editArgs is the edit verb's parsed, testable flag set.
type editArgs struct {
	path        string
	editsInline string
	fromStdin   bool
	dryRun      bool
	jsonOut     bool
}

func parseEditArgs(args []string, stderr io.Writer) (editArgs, error) {
	fs := flag.NewFlagSet("edit", flag.ContinueOnError)
	fs.SetOutput(stderr)
	edits := fs.String("edits", "", "inline edit batch JSON")
	stdinFlag := fs.Bool("edits-stdin", false, "read the edit batch JSON from stdin")
	dryRun := fs.Bool("dry-run", false, "validate and report the diff without writing to disk")
	jsonOut := fs.Bool("json", false, "emit a structured JSON result instead of plain text")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: hashline-tools edit <path> (--edits <JSON> | --edits-stdin) [--dry-run] [--json]")
		fs.PrintDefaults()
	}
	pos, err := parsePositional(fs, args)
	if err != nil {
		return editArgs{}, err
	}
	if len(pos) != 1 {
		fs.Usage()
		return editArgs{}, flag.ErrHelp
	}
	if *edits == "" && !*stdinFlag {
		fmt.Fprintln(stderr, "exactly one of --edits or --edits-stdin is required")
		fs.Usage()
		return editArgs{}, flag.ErrHelp
	}
	if *edits != "" && *stdinFlag {
		fmt.Fprintln(stderr, "--edits and --edits-stdin are mutually exclusive")
		return editArgs{}, flag.ErrHelp
	}
	return editArgs{
		path:        pos[0],
		editsInline: *edits,
		fromStdin:   *stdinFlag,
		dryRun:      *dryRun,
		jsonOut:     *jsonOut,
	}, nil
}

func runEdit(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	ea, err := parseEditArgs(args, stderr)
	if err != nil {
		return hlerr.ExitArgs
	}

	var data []byte
	if ea.fromStdin {
		data, err = io.ReadAll(stdin)
		if err != nil {
			ioErr := &hlerr.IoError{Op: "read", Path: "stdin", Err: err}
			reportError(stderr, ioErr)
			return hlerr.ExitCode(ioErr)
		}
	} else {
		data = []byte(ea.editsInline)
	}

	res, err := engine.Edit(ea.path, data, engine.Options{DryRun: ea.dryRun})
	if err != nil {
		if ea.jsonOut {
			printJSONError(stdout, err)
		} else {
			reportError(stderr, err)
		}
		return hlerr.ExitCode(err)
	}

	if ea.jsonOut {
		printJSONSuccess(stdout, res)
		return 0
	}
	fmt.Fprintln(stdout, res.Message)
	if res.Diff != "" {
		fmt.Fprint(stdout, res.Diff)
	}
	return 0
}
