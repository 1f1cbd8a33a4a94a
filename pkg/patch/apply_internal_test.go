package patch

import "testing"

func TestSplice(t *testing.T) {
	t.Parallel()

	got := splice([]string{"a", "b", "c"}, 1, 1, []string{"x", "y"})
	if len(got) != 4 || got[0] != "a" || got[1] != "x" || got[2] != "y" || got[3] != "c" {
		t.Fatalf("unexpected splice result: %#v", got)
	}

	if got := splice([]string{"a"}, 1, 0, []string{"b"}); len(got) != 2 || got[1] != "b" {
		t.Fatalf("append splice failed: %#v", got)
	}
}

func TestApplyHunkInsertionAtStart(t *testing.T) {
	t.Parallel()

	hunk := Hunk{OldStart: 1, OldCount: 0, NewStart: 1, NewCount: 1, Lines: []Line{{Op: OpAdded, Text: "NEW"}}}
	got, err := applyHunk([]string{"a\n", "b\n"}, hunk)
	if err != nil {
		t.Fatalf("applyHunk returned error: %v", err)
	}
	if len(got) != 3 || got[0] != "NEW\n" || got[1] != "a\n" {
		t.Fatalf("unexpected buffer: %#v", got)
	}
}

func TestApplyHunkLineZeroRequiresEmptyOldSide(t *testing.T) {
	t.Parallel()

	// Only the "-0,0" creation form is clamped; a hunk claiming to remove
	// lines starting at line 0 is still out of range.
	hunk := Hunk{OldStart: 0, OldCount: 1, Lines: []Line{{Op: OpRemoved, Text: "x"}}}
	if _, err := applyHunk([]string{"a\n"}, hunk); err == nil {
		t.Fatalf("expected out-of-range error")
	}
}

func TestApplyHunkStartBeyondBuffer(t *testing.T) {
	t.Parallel()

	hunk := Hunk{OldStart: 4, Lines: []Line{{Op: OpRemoved, Text: "x"}}}
	if _, err := applyHunk([]string{"a\n"}, hunk); err == nil {
		t.Fatalf("expected out-of-range error")
	}
}

func TestSplitBufferKeepsTerminators(t *testing.T) {
	t.Parallel()

	lines := SplitBuffer("a\nb\r\nc")
	if len(lines) != 3 || lines[0] != "a\n" || lines[1] != "b\r\n" || lines[2] != "c" {
		t.Fatalf("unexpected lines: %#v", lines)
	}
	if got := JoinBuffer(lines); got != "a\nb\r\nc" {
		t.Fatalf("round trip mismatch: %q", got)
	}
}

func TestSplitBufferTrailingNewline(t *testing.T) {
	t.Parallel()

	lines := SplitBuffer("a\n")
	if len(lines) != 1 || lines[0] != "a\n" {
		t.Fatalf("unexpected lines: %#v", lines)
	}
	if got := SplitBuffer(""); got != nil {
		t.Fatalf("expected nil for empty text, got %#v", got)
	}
}

func TestLineEndingDetection(t *testing.T) {
	t.Parallel()

	if got := lineEnding([]string{"a\r\n"}); got != "\r\n" {
		t.Fatalf("expected CRLF, got %q", got)
	}
	if got := lineEnding([]string{"a\n"}); got != "\n" {
		t.Fatalf("expected LF, got %q", got)
	}
	if got := lineEnding(nil); got != "\n" {
		t.Fatalf("expected LF fallback, got %q", got)
	}
}
