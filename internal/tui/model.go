// Package tui provides the Bubble Tea drill interface.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/cangtype/internal/catalog"
	"github.com/verte-zerg/cangtype/internal/dictionary"
	"github.com/verte-zerg/cangtype/internal/drill"
)

// Dictionary resolves character details for the detail view.
type Dictionary interface {
	Lookup(ctx context.Context, char string) dictionary.Entry
}

type entryMsg struct {
	char  string
	entry dictionary.Entry
}

// Model implements the Bubble Tea drill UI.
type Model struct {
	ctx  context.Context
	ev   *drill.Evaluator
	dict Dictionary

	input textinput.Model
	state drill.State

	feedback     string
	feedbackKind drill.Outcome

	showDetail bool
	entry      *dictionary.Entry

	width  int
	height int
}

var (
	correctStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	incorrectStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	pendingStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cursorStyle    = pendingStyle.Copy().Underline(true)
	promptStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	glossStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#B0B0B0"))
	successStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A"))
	footerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	detailStyle    = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A")).
			Padding(0, 1)
)

// NewModel constructs a drill TUI model. The evaluator must already be started.
func NewModel(ctx context.Context, ev *drill.Evaluator, dict Dictionary) *Model {
	input := textinput.New()
	input.Prompt = "> "
	input.Placeholder = placeholderFor(ev.Mode())
	input.CharLimit = 256
	input.Focus()
	return &Model{
		ctx:   ctx,
		ev:    ev,
		dict:  dict,
		input: input,
		state: ev.State(),
	}
}

func placeholderFor(mode drill.AnswerMode) string {
	if mode == drill.ModeCode {
		return "type the Cangjie code"
	}
	return "type the character"
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = maxInt(10, m.contentWidth()-4)
		return m, nil
	case entryMsg:
		if msg.char == m.state.Prompt {
			e := msg.entry
			m.entry = &e
		}
		return m, nil
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			m.submit()
			return m, nil
		case tea.KeyTab:
			return m, m.toggleDetail()
		case tea.KeyCtrlR:
			m.state = m.ev.ResetSession()
			m.feedback = "Session reset."
			m.feedbackKind = drill.OutcomeIgnored
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) submit() {
	fb := m.ev.Submit(m.ctx, m.input.Value())
	if fb.Outcome == drill.OutcomeIgnored {
		return
	}
	prev := m.state.Position
	m.state = fb.State
	m.feedback = fb.Message
	m.feedbackKind = fb.Outcome
	if fb.ClearInput {
		m.input.SetValue("")
	}
	if m.state.Position != prev {
		m.showDetail = false
		m.entry = nil
	}
}

func (m *Model) toggleDetail() tea.Cmd {
	if m.showDetail {
		m.showDetail = false
		return nil
	}
	m.showDetail = true
	if m.state.Kind != catalog.KindCharacter {
		return nil
	}
	m.ev.Reveal(m.ctx)
	m.state = m.ev.State()
	if m.dict == nil || m.entry != nil {
		return nil
	}
	ctx, dict, char := m.ctx, m.dict, m.state.Prompt
	return func() tea.Msg {
		return entryMsg{char: char, entry: dict.Lookup(ctx, char)}
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	content := m.renderContent()
	if m.width == 0 || m.height == 0 {
		return content + "\n" + m.renderFooter()
	}
	footer := m.renderFooter()
	if m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	body := lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func (m *Model) contentWidth() int {
	w := int(float64(m.width) * 0.70)
	if w < 1 {
		return 1
	}
	return w
}

func (m *Model) renderContent() string {
	if m.state.Finished {
		return successStyle.Render("All exercises completed.") + "\n" +
			glossStyle.Render("Press esc to quit.")
	}
	lines := []string{
		glossStyle.Render(m.lessonHeader()),
		"",
		m.renderPrompt(),
	}
	if gloss := m.glossLine(); gloss != "" {
		lines = append(lines, glossStyle.Render(gloss))
	}
	lines = append(lines, "", m.input.View())
	if m.feedback != "" {
		lines = append(lines, "", m.feedbackStyle().Render(m.feedback))
	}
	if m.showDetail {
		lines = append(lines, "", m.renderDetail())
	}
	return lipgloss.NewStyle().Width(m.contentWidth()).Render(strings.Join(lines, "\n"))
}

// lessonHeader shows the lesson title and the 1-based position within it.
func (m *Model) lessonHeader() string {
	return fmt.Sprintf("%s  %d/%d", m.state.LessonTitle, m.state.LessonOffset, m.state.LessonSize)
}

func (m *Model) renderPrompt() string {
	if m.state.Kind != catalog.KindSentence {
		return promptStyle.Render(m.state.Prompt)
	}
	target := []rune(m.state.Prompt)
	typed := []rune(m.input.Value())
	cursorIndex := -1
	if len(typed) < len(target) {
		cursorIndex = len(typed)
	}
	runes := buildStyledRunes(target, typed, cursorIndex)
	if m.width == 0 {
		return renderStyledRunes(runes)
	}
	return wrapStyledRunes(runes, m.contentWidth())
}

func (m *Model) glossLine() string {
	switch {
	case m.state.Gloss != "" && m.state.GlossAlt != "":
		return m.state.Gloss + " / " + m.state.GlossAlt
	default:
		return m.state.Gloss
	}
}

func (m *Model) feedbackStyle() lipgloss.Style {
	switch m.feedbackKind {
	case drill.OutcomeIncorrect:
		return incorrectStyle
	case drill.OutcomeCorrect, drill.OutcomeLessonCompleted:
		return successStyle
	default:
		return glossStyle
	}
}

func (m *Model) renderDetail() string {
	if m.state.Kind != catalog.KindCharacter {
		return detailStyle.Render(glossStyle.Render("Type the sentence exactly as shown."))
	}
	lines := []string{fmt.Sprintf("Code: %s", m.state.Code)}
	for _, c := range catalog.Decompose(m.state.Code) {
		lines = append(lines, fmt.Sprintf("  %s %s  %s", c.Letter, c.Glyph, c.Name))
	}
	if m.entry != nil && !m.entry.Empty() {
		if len(m.entry.Readings) > 0 {
			lines = append(lines, "Readings: "+strings.Join(m.entry.Readings, ", "))
		}
		if len(m.entry.Definitions) > 0 {
			lines = append(lines, "Meaning: "+strings.Join(m.entry.Definitions, "; "))
		}
	}
	return detailStyle.Render(strings.Join(lines, "\n"))
}

func (m *Model) renderFooter() string {
	st := m.state
	segments := []string{
		st.ProfileName,
		fmt.Sprintf("Progress %d/%d", minInt(st.Position, st.Total), st.Total),
		fmt.Sprintf("Session %d✓ %d✗ · %.1f%% · %.1f/min", st.Correct, st.Incorrect, st.Accuracy*100, st.Speed),
		fmt.Sprintf("Streak %d", st.Streak),
		fmt.Sprintf("Due %d", st.Due),
		"tab: details  ctrl+r: reset",
	}
	return footerStyle.Render(strings.Join(segments, "  "))
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
