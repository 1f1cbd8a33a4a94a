package patch

import (
	"fmt"
	"sort"
	"strings"
)

// Apply applies every hunk of doc to buffer and returns the resulting
// buffer. The input buffer is never modified; on error no partial result is
// returned.
//
// Hunks are applied in descending order of OldStart, bottom of the file
// first. Each application can change the buffer's total line count, and
// working upward keeps the coordinates of every not-yet-applied hunk valid:
// nothing above an unprocessed hunk has shifted. A top-down pass would have
// to re-derive every subsequent offset by the cumulative delta instead.
func Apply(buffer []string, doc Document) ([]string, error) {
	order := make([]int, len(doc.Hunks))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return doc.Hunks[order[a]].OldStart > doc.Hunks[order[b]].OldStart
	})

	result := append([]string(nil), buffer...)
	for _, index := range order {
		next, err := applyHunk(result, doc.Hunks[index])
		if err != nil {
			if perr, ok := err.(*Error); ok && perr.HunkNumber == 0 {
				perr.HunkNumber = index + 1
			}
			return nil, err
		}
		result = next
	}
	return result, nil
}

// ApplyPatch parses patchText, optionally reverses it, and applies it to
// original, returning the patched text.
func ApplyPatch(original, patchText string, opts Options) (string, error) {
	doc, err := Parse(patchText)
	if err != nil {
		return "", err
	}
	if opts.Reverse {
		doc = Reverse(doc)
	}
	result, err := Apply(SplitBuffer(original), doc)
	if err != nil {
		return "", err
	}
	return JoinBuffer(result), nil
}

// applyHunk replaces one hunk's region of the buffer and returns the new
// buffer. The hunk's coordinates are trusted as-is; the lines about to be
// replaced are not compared against the recorded payloads.
func applyHunk(buffer []string, hunk Hunk) ([]string, error) {
	start := hunk.OldStart - 1
	if start == -1 && hunk.OldCount == 0 {
		// git and GNU diff emit "@@ -0,0 +1,N @@" for a created file: an
		// empty old side at line 0 means insert at the top of the buffer.
		start = 0
	}
	if start < 0 || start > len(buffer) {
		return nil, &Error{
			Message: fmt.Sprintf("hunk start line %d is outside the %d-line buffer", hunk.OldStart, len(buffer)),
			Code:    CodeOutOfRange,
		}
	}

	eol := lineEnding(buffer)
	oldLen := 0
	position := start
	replacement := make([]string, 0, len(hunk.Lines))
	for _, line := range hunk.Lines {
		switch line.Op {
		case OpContext:
			if position < len(buffer) {
				// Reuse the buffer line so its terminator is preserved.
				replacement = append(replacement, buffer[position])
			} else {
				replacement = append(replacement, line.Text+eol)
			}
			position++
			oldLen++
		case OpRemoved:
			position++
			oldLen++
		case OpAdded:
			replacement = append(replacement, line.Text+eol)
		}
	}

	if start+oldLen > len(buffer) {
		return nil, &Error{
			Message: fmt.Sprintf("hunk at line %d spans %d lines past the end of the %d-line buffer",
				hunk.OldStart, start+oldLen-len(buffer), len(buffer)),
			Code: CodeOutOfRange,
		}
	}

	return splice(buffer, start, oldLen, replacement), nil
}

func splice(target []string, index, deleteCount int, replacement []string) []string {
	result := make([]string, 0, len(target)-deleteCount+len(replacement))
	result = append(result, target[:index]...)
	result = append(result, replacement...)
	result = append(result, target[index+deleteCount:]...)
	return result
}

// FormatError renders Error values into a human readable message suitable
// for surfacing to end users.
func FormatError(err *Error) string {
	if err == nil {
		return "Unknown error occurred."
	}
	message := err.Message
	if message == "" {
		message = "Unknown error occurred."
	}
	var parts []string
	parts = append(parts, message)
	if err.Code == CodeMalformedHeader && err.Line != "" {
		parts = append(parts, "", "Offending line:", err.Line)
	}
	if err.Code == CodeOutOfRange && err.HunkNumber > 0 {
		parts = append(parts, "", fmt.Sprintf("Hunk %d could not be applied.", err.HunkNumber))
	}
	return strings.Join(parts, "\n")
}
