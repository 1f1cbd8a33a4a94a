package preview

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/require"

	"github.com/tonyandrewmeyer/cascade/pkg/patch"
)

func init() {
	// Plain output so assertions see the raw text, not ANSI sequences.
	lipgloss.SetColorProfile(termenv.Ascii)
}

func sampleDocument() patch.Document {
	return patch.Document{
		OldLabel: "a/notes.txt",
		NewLabel: "b/notes.txt",
		Hunks: []patch.Hunk{{
			OldStart: 2, OldCount: 2, NewStart: 2, NewCount: 1,
			Lines: []patch.Line{
				{Op: patch.OpContext, Text: "one"},
				{Op: patch.OpRemoved, Text: "two"},
				{Op: patch.OpAdded, Text: "TWO"},
			},
		}},
	}
}

func TestRenderShowsMarkersAndHeader(t *testing.T) {
	rendered := Render(sampleDocument(), "notes.txt")

	require.Contains(t, rendered, "Patch for notes.txt")
	require.Contains(t, rendered, "--- a/notes.txt")
	require.Contains(t, rendered, "+++ b/notes.txt")
	require.Contains(t, rendered, "@@ -2,2 +2,1 @@")
	require.Contains(t, rendered, " one")
	require.Contains(t, rendered, "-two")
	require.Contains(t, rendered, "+TWO")
}

func TestRenderIncludesSectionText(t *testing.T) {
	doc := patch.Document{Hunks: []patch.Hunk{{
		OldStart: 1, OldCount: 1, NewStart: 1, NewCount: 1,
		Section:  "func main() {",
	}}}

	rendered := Render(doc, "")
	require.Contains(t, rendered, "@@ -1,1 +1,1 @@ func main() {")
}

func TestModelConfirmKeys(t *testing.T) {
	m := model{content: Render(sampleDocument(), "")}

	sized, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m = sized.(model)
	require.True(t, m.ready)

	confirmed, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'y'}})
	require.True(t, confirmed.(model).confirmed)
	require.NotNil(t, cmd)
}

func TestModelDeclineKeys(t *testing.T) {
	m := model{content: "x"}
	sized, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m = sized.(model)

	declined, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}})
	require.False(t, declined.(model).confirmed)
	require.NotNil(t, cmd)
}

func TestViewBeforeFirstSizeMessage(t *testing.T) {
	m := model{content: "x"}
	require.Equal(t, "loading patch...", m.View())
}
