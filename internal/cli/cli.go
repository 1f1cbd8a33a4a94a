package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/tonyandrewmeyer/cascade/internal/preview"
	"github.com/tonyandrewmeyer/cascade/pkg/patch"
)

// Run executes the cascade CLI using the provided arguments.
// It returns a POSIX-style exit code: 0 on success, 1 on any parse, apply,
// or IO failure, and 2 on flag errors.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if stdout == nil {
		stdout = io.Discard
	}
	if stderr == nil {
		stderr = io.Discard
	}

	if err := godotenv.Load(); err != nil {
		// A missing .env file is fine, but other errors should be surfaced to help with debugging.
		var pathErr *os.PathError
		if !errors.As(err, &pathErr) {
			fmt.Fprintf(stderr, "failed to load .env: %v\n", err)
			return 1
		}
	}

	defaultStrip := 0
	if raw := os.Getenv("CASCADE_STRIP"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil {
			defaultStrip = value
		}
	}
	defaultReverse := false
	if raw := os.Getenv("CASCADE_REVERSE"); raw != "" {
		if value, err := strconv.ParseBool(raw); err == nil {
			defaultReverse = value
		}
	}

	flagSet := flag.NewFlagSet("cascade", flag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.Usage = func() {
		fmt.Fprintln(stderr, "Usage: cascade [flags] <patch-file|-> [target-file]")
		flagSet.PrintDefaults()
	}
	var reverse bool
	flagSet.BoolVar(&reverse, "reverse", defaultReverse, "apply the patch in reverse, undoing a previous application")
	flagSet.BoolVar(&reverse, "R", defaultReverse, "shorthand for -reverse")
	strip := flagSet.Int("p", defaultStrip, "strip this many leading path components from file labels when deriving the target")
	dryRun := flagSet.Bool("dry-run", false, "parse and apply without writing the result")
	output := flagSet.String("o", "", "write the patched content to this path instead of the target")
	showPreview := flagSet.Bool("preview", false, "show the patch and ask for confirmation before applying")

	if err := flagSet.Parse(args); err != nil {
		return 2
	}
	if flagSet.NArg() < 1 || flagSet.NArg() > 2 {
		flagSet.Usage()
		return 2
	}

	patchText, err := readPatch(flagSet.Arg(0))
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	doc, err := patch.Parse(patchText)
	if err != nil {
		reportPatchError(stderr, err)
		return 1
	}
	if reverse {
		doc = patch.Reverse(doc)
	}

	if *showPreview {
		confirmed, err := preview.Confirm(doc, flagSet.Arg(1))
		if err != nil {
			fmt.Fprintf(stderr, "preview failed: %v\n", err)
			return 1
		}
		if !confirmed {
			fmt.Fprintln(stdout, "Patch not applied.")
			return 1
		}
	}

	result, err := patch.ApplyFilesystem(ctx, doc, patch.FilesystemOptions{
		Target: flagSet.Arg(1),
		Output: *output,
		Strip:  *strip,
		DryRun: *dryRun,
	})
	if err != nil {
		reportPatchError(stderr, err)
		return 1
	}

	if *dryRun {
		fmt.Fprintf(stdout, "%s %s (dry run, nothing written)\n", result.Status, result.Path)
	} else {
		fmt.Fprintf(stdout, "%s %s\n", result.Status, result.Path)
	}
	return 0
}

// readPatch loads the patch text from a file, or from stdin when the
// argument is "-".
func readPatch(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read patch from stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read patch %s: %w", path, err)
	}
	return string(data), nil
}

func reportPatchError(stderr io.Writer, err error) {
	var perr *patch.Error
	if errors.As(err, &perr) {
		fmt.Fprintln(stderr, patch.FormatError(perr))
		return
	}
	fmt.Fprintln(stderr, err)
}
