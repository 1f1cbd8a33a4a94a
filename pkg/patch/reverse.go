package patch

// Reverse maps a document to its logical inverse, suitable for undoing a
// previously applied patch: old and new coordinates are swapped in every
// hunk, added lines become removals and vice versa, context lines and
// payload text are untouched. Hunk order is preserved.
//
// Reverse is pure and total; the input document is never modified.
func Reverse(doc Document) Document {
	reversed := Document{
		OldLabel: doc.NewLabel,
		NewLabel: doc.OldLabel,
	}
	if doc.Hunks == nil {
		return reversed
	}
	reversed.Hunks = make([]Hunk, len(doc.Hunks))
	for i, hunk := range doc.Hunks {
		inverse := Hunk{
			OldStart: hunk.NewStart,
			OldCount: hunk.NewCount,
			NewStart: hunk.OldStart,
			NewCount: hunk.OldCount,
			Section:  hunk.Section,
			Lines:    make([]Line, len(hunk.Lines)),
		}
		for j, line := range hunk.Lines {
			switch line.Op {
			case OpAdded:
				inverse.Lines[j] = Line{Op: OpRemoved, Text: line.Text}
			case OpRemoved:
				inverse.Lines[j] = Line{Op: OpAdded, Text: line.Text}
			default:
				inverse.Lines[j] = line
			}
		}
		reversed.Hunks[i] = inverse
	}
	return reversed
}
