package exec

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Progress glyphs for banner and outcome lines.
const (
	glyphRun  = "❯"
	glyphOK   = "✔"
	glyphFail = "✖"
)

var (
	bannerStyle  = lipgloss.NewStyle().Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	failureStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	dimStyle     = lipgloss.NewStyle().Faint(true)

	// prefixPalette rotates label colors so concurrent invocations are
	// easy to tell apart.
	prefixPalette = []lipgloss.Color{"4", "6", "5", "3", "2", "1"}
)

// LogTo returns a Log sink that writes one line per call to w. Writes are
// serialized so concurrent invocations cannot garble each other's lines.
func LogTo(w io.Writer) Log {
	var mu sync.Mutex
	return func(line string) {
		mu.Lock()
		defer mu.Unlock()
		fmt.Fprintln(w, line)
	}
}

// styledLabel renders the display label for a prefix, colored by a stable
// hash of the prefix text. Color forcing is left to the child env policy;
// lipgloss degrades to plain text on dumb terminals.
func styledLabel(o Options) string {
	if o.Prefix == "" {
		return ""
	}

	label := o.Prefix + o.PrefixSuffix
	if o.Colors == ColorsOff {
		return label
	}

	var sum uint32
	for _, b := range []byte(o.Prefix) {
		sum = sum*31 + uint32(b)
	}
	color := prefixPalette[sum%uint32(len(prefixPalette))]
	return lipgloss.NewStyle().Foreground(color).Render(label)
}
