package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// breakRunes may end a wrapped line; CJK text has no spaces between words.
const breakRunes = " ，。！？、；：,.!?;:"

type styledRune struct {
	s          string
	width      int
	breakAfter bool
	skip       bool
}

func buildStyledRunes(targetRunes, inputRunes []rune, cursorIndex int) []styledRune {
	out := make([]styledRune, 0, len(targetRunes))
	for i, target := range targetRunes {
		displayed := target
		style := pendingStyle
		if i < len(inputRunes) {
			switch {
			case inputRunes[i] == target:
				style = correctStyle
			case target == ' ':
				displayed = '•'
				style = incorrectStyle
			default:
				style = incorrectStyle
			}
		}
		if i == cursorIndex && i >= len(inputRunes) {
			style = style.Underline(true)
		}
		out = append(out, styledRune{
			s:          style.Render(string(displayed)),
			width:      runewidth.RuneWidth(displayed),
			breakAfter: strings.ContainsRune(breakRunes, target),
			skip:       target == ' ',
		})
	}
	return out
}

func renderStyledRunes(runes []styledRune) string {
	var b strings.Builder
	for _, item := range runes {
		b.WriteString(item.s)
	}
	return b.String()
}

// wrapStyledRunes breaks lines at the last break rune that fits, or hard-wraps
// when a run has none. Spaces at a break point are dropped.
func wrapStyledRunes(runes []styledRune, width int) string {
	if width <= 0 {
		return renderStyledRunes(runes)
	}
	var out strings.Builder
	line := make([]styledRune, 0, len(runes))
	lineWidth := 0
	lastBreak := -1

	for i := 0; i < len(runes); {
		item := runes[i]
		if lineWidth+item.width > width && len(line) > 0 {
			if lastBreak >= 0 {
				head := line[:lastBreak+1]
				if head[len(head)-1].skip {
					head = head[:len(head)-1]
				}
				out.WriteString(renderStyledRunes(head))
				out.WriteRune('\n')
				line = append([]styledRune{}, line[lastBreak+1:]...)
				lineWidth = lineWidthOf(line)
				lastBreak = lastBreakIndex(line)
			} else {
				out.WriteString(renderStyledRunes(line))
				out.WriteRune('\n')
				line = line[:0]
				lineWidth = 0
				lastBreak = -1
			}
			continue
		}
		line = append(line, item)
		lineWidth += item.width
		if item.breakAfter {
			lastBreak = len(line) - 1
		}
		i++
	}
	out.WriteString(renderStyledRunes(line))
	return out.String()
}

func lineWidthOf(line []styledRune) int {
	total := 0
	for _, item := range line {
		total += item.width
	}
	return total
}

func lastBreakIndex(line []styledRune) int {
	for i := len(line) - 1; i >= 0; i-- {
		if line[i].breakAfter {
			return i
		}
	}
	return -1
}
