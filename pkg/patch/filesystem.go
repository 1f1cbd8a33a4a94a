package patch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FilesystemOptions augments Options with the filesystem concerns of a
// single patch application.
type FilesystemOptions struct {
	Options
	// WorkingDir resolves relative paths; defaults to the process working
	// directory.
	WorkingDir string
	// Target is the file to patch. When empty the path is derived from the
	// patch's file labels after Strip components are removed.
	Target string
	// Output redirects the patched content to a different path. Defaults to
	// the target path.
	Output string
	// Strip removes this many leading path components from file labels when
	// deriving the target. It never affects hunk application.
	Strip int
	// DryRun runs the full parse and apply but suppresses the write.
	DryRun bool
}

// Result describes the outcome for the patched file. Status follows the
// usual single-letter convention: "A" for a created file, "M" for a
// modified one.
type Result struct {
	Status string
	Path   string
}

// ApplyFilesystem applies an already parsed (and, if desired, already
// reversed) document to the filesystem. The Reverse option is not consulted
// here; callers that start from raw patch text should use
// ApplyFilesystemPatch instead.
func ApplyFilesystem(ctx context.Context, doc Document, opts FilesystemOptions) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, &Error{Message: err.Error()}
	}

	workingDir, err := resolveWorkingDir(opts.WorkingDir)
	if err != nil {
		return Result{}, err
	}

	target := strings.TrimSpace(opts.Target)
	if target == "" {
		target = TargetFromLabels(doc, opts.Strip)
	}
	if target == "" {
		return Result{}, &Error{Message: "patch does not name a target file; pass one explicitly"}
	}

	abs, rel := resolvePath(workingDir, target)
	original, isNew, mode, err := readTarget(abs, rel, doc)
	if err != nil {
		return Result{}, err
	}

	patched, err := Apply(SplitBuffer(original), doc)
	if err != nil {
		return Result{}, err
	}

	destAbs, destRel := abs, rel
	if out := strings.TrimSpace(opts.Output); out != "" {
		destAbs, destRel = resolvePath(workingDir, out)
	}

	status := "M"
	if isNew {
		status = "A"
	}
	if opts.DryRun {
		return Result{Status: status, Path: destRel}, nil
	}

	if err := os.MkdirAll(filepath.Dir(destAbs), 0o755); err != nil {
		return Result{}, &Error{Message: fmt.Sprintf("failed to create directory for %s: %v", destRel, err)}
	}
	perm := mode & fs.ModePerm
	if perm == 0 {
		perm = 0o644
	}
	if err := os.WriteFile(destAbs, []byte(JoinBuffer(patched)), perm); err != nil {
		return Result{}, &Error{Message: fmt.Sprintf("failed to write %s: %v", destRel, err)}
	}
	return Result{Status: status, Path: destRel}, nil
}

// ApplyFilesystemPatch parses a raw unified diff and applies it to the
// filesystem, reversing it first when opts.Reverse is set.
func ApplyFilesystemPatch(ctx context.Context, patchBody string, opts FilesystemOptions) (Result, error) {
	doc, err := Parse(patchBody)
	if err != nil {
		return Result{}, err
	}
	if opts.Reverse {
		doc = Reverse(doc)
	}
	return ApplyFilesystem(ctx, doc, opts)
}

// TargetFromLabels derives the file to patch from the document's `+++` and
// `---` labels, stripping count leading path components. The "/dev/null"
// placeholder never names a target.
func TargetFromLabels(doc Document, count int) string {
	for _, label := range []string{doc.NewLabel, doc.OldLabel} {
		path := cleanLabel(label)
		if path == "" {
			continue
		}
		return stripComponents(path, count)
	}
	return ""
}

// cleanLabel drops the timestamp some diff tools append after a tab, and
// filters out the null placeholder used for created and deleted files.
func cleanLabel(label string) string {
	path, _, _ := strings.Cut(label, "\t")
	path = strings.TrimSpace(path)
	if path == "" || path == "/dev/null" {
		return ""
	}
	return path
}

func stripComponents(path string, count int) string {
	for ; count > 0; count-- {
		_, rest, found := strings.Cut(path, "/")
		if !found {
			break
		}
		path = rest
	}
	return path
}

func resolveWorkingDir(dir string) (string, error) {
	workingDir := strings.TrimSpace(dir)
	if workingDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", &Error{Message: fmt.Sprintf("failed to determine working directory: %v", err)}
		}
		workingDir = wd
	}
	if abs, err := filepath.Abs(workingDir); err == nil {
		workingDir = abs
	}
	return workingDir, nil
}

func resolvePath(workingDir, relative string) (string, string) {
	cleaned := filepath.Clean(strings.TrimSpace(relative))
	if filepath.IsAbs(cleaned) {
		return cleaned, cleaned
	}
	return filepath.Clean(filepath.Join(workingDir, cleaned)), cleaned
}

// readTarget loads the file being patched. A missing file is tolerated only
// when the patch's old side is the null placeholder, meaning the patch
// creates the file.
func readTarget(abs, rel string, doc Document) (string, bool, fs.FileMode, error) {
	info, err := os.Stat(abs)
	switch {
	case err == nil:
		if info.IsDir() {
			return "", false, 0, &Error{Message: fmt.Sprintf("cannot patch directory %s", rel)}
		}
		content, readErr := os.ReadFile(abs)
		if readErr != nil {
			return "", false, 0, &Error{Message: fmt.Sprintf("failed to read %s: %v", rel, readErr)}
		}
		return string(content), false, info.Mode(), nil
	case errors.Is(err, fs.ErrNotExist):
		if cleanLabel(doc.OldLabel) == "" && doc.OldLabel != "" {
			return "", true, 0, nil
		}
		return "", false, 0, &Error{Message: fmt.Sprintf("failed to read %s: file does not exist", rel)}
	default:
		return "", false, 0, &Error{Message: fmt.Sprintf("failed to stat %s: %v", rel, err)}
	}
}
