package patch

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// LineOp classifies the role of a single hunk body line.
type LineOp int

const (
	// OpContext marks a line present in both the original and the patched text.
	OpContext LineOp = iota
	// OpRemoved marks a line the hunk deletes from the original text.
	OpRemoved
	// OpAdded marks a line the hunk introduces.
	OpAdded
)

// Line pairs a LineOp with its payload, stripped of the leading marker
// character. Order within a hunk is significant and preserved exactly as it
// appears in the source patch.
type Line struct {
	Op   LineOp
	Text string
}

// Hunk captures one contiguous edit region of a unified diff.
//
// OldStart and OldCount locate the region in the original buffer (1-based).
// NewStart and NewCount describe the resulting buffer and are informational
// only; application recomputes the replacement span from the body. Header
// counts that disagree with the body are not rejected.
type Hunk struct {
	OldStart int
	OldCount int
	NewStart int
	NewCount int
	Section  string
	Lines    []Line
}

// Document is an ordered sequence of hunks, in the order they appear in the
// source diff, plus the file labels from any `---`/`+++` lines.
type Document struct {
	OldLabel string
	NewLabel string
	Hunks    []Hunk
}

// Error codes attached to *Error values returned by Parse and Apply.
const (
	// CodeMalformedHeader reports a line that starts with "@@" but does not
	// match the hunk header pattern.
	CodeMalformedHeader = "MALFORMED_HEADER"
	// CodeOutOfRange reports a hunk whose coordinates fall outside the
	// buffer being patched.
	CodeOutOfRange = "HUNK_OUT_OF_RANGE"
)

// Error represents a structured failure while parsing or applying a patch.
// It satisfies the error interface so it can be returned directly from the
// Parse and Apply helpers.
type Error struct {
	Message    string
	Code       string
	Line       string
	LineNumber int
	HunkNumber int
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	return "patch error"
}

// Options configure how a patch is applied.
type Options struct {
	// Reverse applies the logical inverse of the patch, undoing a previous
	// application.
	Reverse bool
}

var hunkHeaderPattern = regexp.MustCompile(`^@@ -(\d+)(?:,(\d+))? \+(\d+)(?:,(\d+))? @@(.*)$`)

// hunkHeader is the raw parse of an "@@" line. The counts stay nil when the
// comma form is omitted so that the unified-diff default of 1 is applied only
// at the point the Hunk is built, not silently during matching.
type hunkHeader struct {
	oldStart int
	oldCount *int
	newStart int
	newCount *int
	section  string
}

// parseHunkHeader matches one line against the hunk header pattern. It
// returns nil when the line is not a header at all; callers treat that as
// ordinary content.
func parseHunkHeader(line string) *hunkHeader {
	matches := hunkHeaderPattern.FindStringSubmatch(line)
	if matches == nil {
		return nil
	}
	header := &hunkHeader{
		oldStart: mustAtoi(matches[1]),
		newStart: mustAtoi(matches[3]),
		section:  strings.TrimSpace(matches[5]),
	}
	if matches[2] != "" {
		count := mustAtoi(matches[2])
		header.oldCount = &count
	}
	if matches[4] != "" {
		count := mustAtoi(matches[4])
		header.newCount = &count
	}
	return header
}

// mustAtoi converts digits already validated by the header pattern.
func mustAtoi(digits string) int {
	value, err := strconv.Atoi(digits)
	if err != nil {
		return 0
	}
	return value
}

func countOrDefault(count *int) int {
	if count == nil {
		return 1
	}
	return *count
}

// Parse converts the textual representation of a unified diff into a
// Document. Empty input yields an empty document, not an error.
func Parse(input string) (Document, error) {
	var (
		doc     Document
		current *Hunk
	)

	flushHunk := func() {
		if current == nil {
			return
		}
		doc.Hunks = append(doc.Hunks, *current)
		current = nil
	}

	for index, line := range splitLines(input) {
		if strings.HasPrefix(line, "--- ") {
			doc.OldLabel = strings.TrimSpace(line[4:])
			continue
		}
		if strings.HasPrefix(line, "+++ ") {
			doc.NewLabel = strings.TrimSpace(line[4:])
			continue
		}

		if strings.HasPrefix(line, "@@") {
			header := parseHunkHeader(line)
			if header == nil {
				// Skipping a broken header would desynchronize every body
				// line that follows it, so the whole parse fails.
				return Document{}, &Error{
					Message:    fmt.Sprintf("malformed hunk header at line %d: %q", index+1, line),
					Code:       CodeMalformedHeader,
					Line:       line,
					LineNumber: index + 1,
				}
			}
			flushHunk()
			current = &Hunk{
				OldStart: header.oldStart,
				OldCount: countOrDefault(header.oldCount),
				NewStart: header.newStart,
				NewCount: countOrDefault(header.newCount),
				Section:  header.section,
			}
			continue
		}

		if current != nil {
			switch {
			case strings.HasPrefix(line, " "):
				current.Lines = append(current.Lines, Line{Op: OpContext, Text: line[1:]})
				continue
			case strings.HasPrefix(line, "-"):
				current.Lines = append(current.Lines, Line{Op: OpRemoved, Text: line[1:]})
				continue
			case strings.HasPrefix(line, "+"):
				current.Lines = append(current.Lines, Line{Op: OpAdded, Text: line[1:]})
				continue
			case strings.HasPrefix(line, `\`):
				// "\ No newline at end of file" carries no payload.
				continue
			default:
				// Anything else ends the open hunk; the line is re-examined
				// below as patch-level content.
				flushHunk()
			}
		}

		// Patch-level content outside any hunk: blank separators and trailing
		// metadata (index lines, signatures) are tolerated and skipped.
	}

	flushHunk()
	return doc, nil
}

func splitLines(input string) []string {
	normalized := strings.ReplaceAll(input, "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")
	return strings.Split(normalized, "\n")
}
