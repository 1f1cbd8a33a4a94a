package patch

import "strings"

// SplitBuffer splits text into lines with each line keeping its terminator,
// so the file's line-ending style survives a round trip through JoinBuffer.
// A final line without a terminator is kept as-is; empty text yields nil.
func SplitBuffer(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.SplitAfter(text, "\n")
	// SplitAfter leaves a trailing empty element when the text ends with a
	// newline; dropping it keeps one element per actual line.
	if last := len(lines) - 1; lines[last] == "" {
		lines = lines[:last]
	}
	return lines
}

// JoinBuffer reassembles lines produced by SplitBuffer into a single blob.
func JoinBuffer(lines []string) string {
	return strings.Join(lines, "")
}

// lineEnding reports the terminator style used by the buffer, falling back
// to "\n" for empty buffers and buffers without any terminated line.
func lineEnding(lines []string) string {
	for _, line := range lines {
		if strings.HasSuffix(line, "\r\n") {
			return "\r\n"
		}
		if strings.HasSuffix(line, "\n") {
			return "\n"
		}
	}
	return "\n"
}
