package stats

import (
	"io"
	"os"

	"golang.org/x/term"
)

const (
	colorReset          = "\x1b[0m"
	colorGreen          = "\x1b[32m"
	colorYellow         = "\x1b[33m"
	terminalWidthBackup = 80
)

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

// UseColor reports whether ANSI colors should be written to w.
func UseColor(w io.Writer, force bool) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if force {
		return true
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}

func streakColor(streak int) string {
	if streak > 0 {
		return colorGreen
	}
	return colorYellow
}

func colorize(s, code string, useColor bool) string {
	if !useColor || code == "" {
		return s
	}
	return code + s + colorReset
}
