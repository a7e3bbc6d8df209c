package cmd

import (
	"io"
	"os"
	"strings"
)

const (
	defaultTermWidth = 80
	helpIndent       = "    "
)

// outputWidth returns the terminal width behind w, or defaultTermWidth when
// w is not a file.
func outputWidth(w io.Writer) int {
	if f, ok := w.(*os.File); ok {
		return terminalWidth(f.Fd())
	}
	return defaultTermWidth
}

// renderHelp lists every command with its summary wrapped to width columns.
func renderHelp(width int) string {
	var b strings.Builder
	for i, c := range commands {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(strings.ToUpper(c.name))
		if c.params != "" {
			b.WriteByte(' ')
			b.WriteString(c.params)
		}
		for _, line := range wrapWords(c.summary, width-len(helpIndent)) {
			b.WriteByte('\n')
			b.WriteString(helpIndent)
			b.WriteString(line)
		}
	}
	return b.String()
}

// wrapWords breaks text into lines of at most width bytes. A word longer
// than width gets a line of its own.
func wrapWords(text string, width int) []string {
	if width < 1 {
		width = 1
	}
	var (
		lines []string
		cur   strings.Builder
	)
	for _, word := range strings.Fields(text) {
		if cur.Len() > 0 && cur.Len()+1+len(word) > width {
			lines = append(lines, cur.String())
			cur.Reset()
		}
		if cur.Len() > 0 {
			cur.WriteByte(' ')
		}
		cur.WriteString(word)
	}
	if cur.Len() > 0 {
		lines = append(lines, cur.String())
	}
	return lines
}
