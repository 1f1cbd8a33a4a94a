package patch

import (
	"context"
	"strings"
)

// MemoryOptions configure patch application against an in-memory document
// store.
type MemoryOptions struct {
	Options
	// Path selects the document to patch. When empty the key is derived
	// from the patch's file labels after Strip components are removed.
	Path string
	// Strip removes this many leading path components from file labels when
	// deriving the key.
	Strip int
}

// ApplyToMemory applies an already parsed document to an in-memory store
// represented by a map. The provided map is copied before mutation and the
// updated snapshot is returned; the caller's map is never touched.
func ApplyToMemory(ctx context.Context, doc Document, files map[string]string, opts MemoryOptions) (map[string]string, Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, Result{}, &Error{Message: err.Error()}
	}

	path := strings.TrimSpace(opts.Path)
	if path == "" {
		path = TargetFromLabels(doc, opts.Strip)
	}
	if path == "" {
		return nil, Result{}, &Error{Message: "patch does not name a target document; pass one explicitly"}
	}

	snapshot := make(map[string]string, len(files))
	for key, value := range files {
		snapshot[key] = value
	}

	original, exists := snapshot[path]
	if !exists {
		if !(cleanLabel(doc.OldLabel) == "" && doc.OldLabel != "") {
			return nil, Result{}, &Error{Message: "failed to read " + path + ": document does not exist"}
		}
	}

	patched, err := Apply(SplitBuffer(original), doc)
	if err != nil {
		return nil, Result{}, err
	}
	snapshot[path] = JoinBuffer(patched)

	status := "M"
	if !exists {
		status = "A"
	}
	return snapshot, Result{Status: status, Path: path}, nil
}

// ApplyMemoryPatch parses a raw unified diff and applies it to an in-memory
// map of documents, reversing it first when opts.Reverse is set.
func ApplyMemoryPatch(ctx context.Context, patchBody string, files map[string]string, opts MemoryOptions) (map[string]string, Result, error) {
	doc, err := Parse(patchBody)
	if err != nil {
		return nil, Result{}, err
	}
	if opts.Reverse {
		doc = Reverse(doc)
	}
	return ApplyToMemory(ctx, doc, files, opts)
}
