// Package statsui provides the Bubble Tea stats interface.
package statsui

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/cangtype/internal/stats"
)

const (
	tabOverview = iota
	tabLessons
	tabHistory
)

const defaultWindow = 5

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
)

// Model implements the Bubble Tea stats UI.
type Model struct {
	load   func() stats.Report
	report stats.Report
	window int

	tabs        []string
	activeTab   int
	viewports   []viewport.Model
	lessonTable table.Model

	width  int
	height int
}

// NewModel constructs a stats UI model. load is called again on refresh.
func NewModel(load func() stats.Report, window int) *Model {
	if window <= 0 {
		window = defaultWindow
	}
	m := &Model{
		load:   load,
		window: window,
		tabs:   []string{"Overview", "Lessons", "History"},
	}
	m.lessonTable = table.New(
		table.WithColumns(lessonColumns()),
		table.WithStyles(lessonTableStyles()),
	)
	m.viewports = make([]viewport.Model, len(m.tabs))
	for i := range m.viewports {
		m.viewports[i] = viewport.New(0, 0)
	}
	m.refreshReport()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.renderTabContents()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.String() == "q" {
			return m, tea.Quit
		}
		switch msg.String() {
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "r":
			m.refreshReport()
			return m, nil
		case "=":
			m.window++
			m.renderTabContents()
			return m, nil
		case "-":
			if m.window > 1 {
				m.window--
			}
			m.renderTabContents()
			return m, nil
		default:
			if m.activeTab == tabLessons {
				var cmd tea.Cmd
				m.lessonTable, cmd = m.lessonTable.Update(msg)
				return m, cmd
			}
			vp := m.viewports[m.activeTab]
			var cmd tea.Cmd
			vp, cmd = vp.Update(msg)
			m.viewports[m.activeTab] = vp
			return m, cmd
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(), m.width, bodyHeight)
	footer := fitLines(m.renderHelp(), m.width, 1)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight int) {
	tabsHeight := lipgloss.Height(activeNavStyle.Render("X"))
	if tabsHeight < 1 {
		tabsHeight = 1
	}
	headerHeight = tabsHeight + 1
	bodyHeight = m.height - headerHeight - 1
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	return headerHeight, bodyHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight := m.layoutHeights()
	for i := range m.viewports {
		m.viewports[i].Width = m.width
		m.viewports[i].Height = bodyHeight
	}
	m.lessonTable.SetWidth(m.width)
	m.lessonTable.SetHeight(maxInt(1, bodyHeight-1))
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	next := m.activeTab + delta
	if next < 0 {
		next = count - 1
	}
	if next >= count {
		next = 0
	}
	m.activeTab = next
	if m.activeTab == tabLessons {
		m.lessonTable.Focus()
	} else {
		m.lessonTable.Blur()
	}
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderHeader() string {
	tabs := padLines(m.renderTabs(), m.width)
	summary := fmt.Sprintf("Profile: %s  window=%d", m.report.ProfileName, m.window)
	return tabs + "\n" + padLine(headerStyle.Render(truncateLine(summary, m.width)), m.width)
}

func (m *Model) renderHelp() string {
	return headerStyle.Render("Nav: left/right  Scroll: up/down/pgup/pgdn  Window: -/=  Refresh: r  Quit: q")
}

func (m *Model) renderBody() string {
	if m.activeTab == tabLessons {
		if len(m.report.Lessons) == 0 {
			return "No lessons loaded."
		}
		return tableMutedStyle.Render(m.lessonTable.View())
	}
	return m.viewports[m.activeTab].View()
}

func (m *Model) refreshReport() {
	if m.load != nil {
		m.report = m.load()
	}
	m.lessonTable.SetRows(lessonRows(m.report.Lessons))
	m.renderTabContents()
}

func (m *Model) renderTabContents() {
	width := m.width
	if width <= 0 {
		width = 80
	}
	m.viewports[tabOverview].SetContent(renderOverview(m.report, m.window, width))
	m.viewports[tabHistory].SetContent(renderHistory(m.report, m.window))
}

func renderOverview(r stats.Report, window, width int) string {
	cards := []string{
		metricCard("Known", fmt.Sprintf("%d", r.Known)),
		metricCard("Learned today", fmt.Sprintf("%d", r.LearnedToday)),
		metricCard("Due", fmt.Sprintf("%d", r.Due)),
		metricCard("Lessons done", fmt.Sprintf("%d", r.Summary.TotalSessions)),
		metricCard("Streak", fmt.Sprintf("%d / %d", r.Summary.Streak, r.Summary.LongestStreak)),
	}
	var out string
	if width < 80 {
		out = strings.Join(cards, "\n")
	} else {
		row1 := lipgloss.JoinHorizontal(lipgloss.Top, cards[0], cards[1], cards[2])
		row2 := lipgloss.JoinHorizontal(lipgloss.Top, cards[3], cards[4])
		out = lipgloss.JoinVertical(lipgloss.Left, row1, row2)
	}
	if len(r.Attempts) == 0 {
		return out + "\n\nNo lesson runs yet."
	}
	accs := make([]float64, 0, len(r.Attempts))
	for i := len(r.Attempts) - 1; i >= 0; i-- {
		accs = append(accs, r.Attempts[i].Accuracy*100)
	}
	spark := stats.Sparkline(stats.MovingAverage(accs, window))
	if room := width - len("Accuracy trend: "); room > 0 && len(spark) > room {
		spark = spark[len(spark)-room:]
	}
	return out + "\n\n" + cardTitleStyle.Render("Accuracy trend: ") + spark
}

func renderHistory(r stats.Report, window int) string {
	var buf bytes.Buffer
	if err := stats.RenderHistory(&buf, r, 0, window); err != nil {
		return fmt.Sprintf("Failed to render history: %v", err)
	}
	return strings.TrimRight(buf.String(), "\n")
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func lessonColumns() []table.Column {
	return []table.Column{
		{Title: "Lesson", Width: 24},
		{Title: "Exercises", Width: 9},
		{Title: "Runs", Width: 5},
		{Title: "Best Acc", Width: 9},
		{Title: "Best Speed", Width: 10},
	}
}

func lessonRows(lessons []stats.LessonRow) []table.Row {
	rows := make([]table.Row, 0, len(lessons))
	for _, l := range lessons {
		best, speed := "-", "-"
		if l.Completion.Count > 0 {
			best = fmt.Sprintf("%.1f%%", l.Completion.BestAccuracy*100)
			speed = fmt.Sprintf("%.2f", l.Completion.BestSpeed)
		}
		rows = append(rows, table.Row{
			l.Title,
			fmt.Sprintf("%d", l.Exercises),
			fmt.Sprintf("%d", l.Completion.Count),
			best,
			speed,
		})
	}
	return rows
}

func lessonTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func padLines(s string, width int) string {
	if width <= 0 || s == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	return strings.Join(lines, "\n")
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}
