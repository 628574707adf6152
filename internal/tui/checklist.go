package tui

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/rnwolfe/tally/internal/ui"
)

// Row is one habit in the checklist.
type Row struct {
	HabitID    string
	Icon       string
	Name       string
	Repeatable bool
	Count      int
}

// Actions apply checklist key presses to the ledger. Both return the habit's
// count for the day after the change.
type Actions interface {
	Toggle(habitID string) (int, error)
	Decrease(habitID string) (int, error)
}

// Checklist is the interactive daily habit list built on Bubbletea.
type Checklist struct {
	title   string
	date    string
	rows    []Row
	actions Actions
	height  int

	filtered  []scored
	query     string
	filtering bool
	cursor    int
	offset    int // viewport scroll offset
	status    string
	err       error

	termWidth  int
	termHeight int
}

type scored struct {
	index int
	score int
}

// countMsg carries the result of an action back into Update.
type countMsg struct {
	habitID string
	count   int
	err     error
}

// NewChecklist creates a checklist for date.
func NewChecklist(title, date string, rows []Row, actions Actions) *Checklist {
	c := &Checklist{
		title:      title,
		date:       date,
		rows:       rows,
		actions:    actions,
		height:     15,
		termWidth:  80,
		termHeight: 24,
	}
	c.applyFilter()
	return c
}

// RunChecklist shows the checklist until the user quits and returns the final
// rows.
func RunChecklist(title, date string, rows []Row, actions Actions) ([]Row, error) {
	c := NewChecklist(title, date, rows, actions)
	m, err := tea.NewProgram(c, tea.WithAltScreen()).Run()
	if err != nil {
		return nil, fmt.Errorf("checklist: %w", err)
	}
	return m.(*Checklist).rows, nil
}

// IsTTY returns true when stdin is connected to a terminal.
func IsTTY() bool {
	return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
}

// --- Bubbletea model implementation ---

func (c *Checklist) Init() tea.Cmd {
	return nil
}

func (c *Checklist) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		c.termWidth = msg.Width
		c.termHeight = msg.Height
		return c, nil

	case countMsg:
		if msg.err != nil {
			c.err = msg.err
			return c, nil
		}
		c.err = nil
		for i := range c.rows {
			if c.rows[i].HabitID == msg.habitID {
				c.rows[i].Count = msg.count
				c.status = statusLine(c.rows[i])
			}
		}
		return c, nil

	case tea.KeyMsg:
		if c.filtering {
			return c.updateFilter(msg)
		}
		switch msg.String() {
		case "ctrl+c", "esc", "q":
			return c, tea.Quit
		case "/":
			c.filtering = true
			return c, nil
		case "up", "k", "ctrl+p":
			c.moveCursor(-1)
			return c, nil
		case "down", "j", "ctrl+n":
			c.moveCursor(1)
			return c, nil
		case " ", "enter", "+":
			return c, c.act(c.actions.Toggle, false)
		case "-", "backspace":
			return c, c.act(c.actions.Decrease, true)
		}
	}
	return c, nil
}

func (c *Checklist) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return c, tea.Quit
	case "esc":
		c.filtering = false
		c.query = ""
		c.applyFilter()
	case "enter":
		c.filtering = false
	case "up", "ctrl+p":
		c.moveCursor(-1)
	case "down", "ctrl+n":
		c.moveCursor(1)
	case "backspace":
		if c.query != "" {
			_, size := utf8.DecodeLastRuneInString(c.query)
			c.query = c.query[:len(c.query)-size]
			c.applyFilter()
		}
	default:
		if msg.Type == tea.KeyRunes {
			c.query += string(msg.Runes)
			c.applyFilter()
		}
	}
	return c, nil
}

func (c *Checklist) View() string {
	var b strings.Builder

	b.WriteString("  " + ui.Title.Render(c.title) + "  " + ui.Muted.Render(c.date) + "\n\n")

	if c.filtering || c.query != "" {
		prompt := lipgloss.NewStyle().Foreground(ui.Leaf).Bold(true).Render("/ ")
		b.WriteString("  " + prompt + c.query + "\n\n")
	}

	if len(c.filtered) == 0 {
		b.WriteString("  " + ui.Muted.Render("No matches") + "\n")
	} else {
		end := c.offset + c.visibleHeight()
		if end > len(c.filtered) {
			end = len(c.filtered)
		}
		for i := c.offset; i < end; i++ {
			b.WriteString(c.renderRow(c.rows[c.filtered[i].index], i == c.cursor) + "\n")
		}
	}

	b.WriteString("\n")
	switch {
	case c.err != nil:
		b.WriteString("  " + ui.Error.Render(c.err.Error()) + "\n")
	case c.status != "":
		b.WriteString("  " + ui.Success.Render(c.status) + "\n")
	}

	done := 0
	for _, r := range c.rows {
		if r.Count > 0 {
			done++
		}
	}
	progress := ui.Muted.Render(fmt.Sprintf("  %d/%d done", done, len(c.rows)))
	help := ui.Muted.Render(" · ↑↓ move · space toggle · - decrease · / filter · q quit")
	b.WriteString(progress + help + "\n")

	return b.String()
}

// --- internal helpers ---

// act runs fn against the selected habit as a command. Decrease is skipped
// for once-per-day habits.
func (c *Checklist) act(fn func(string) (int, error), repeatableOnly bool) tea.Cmd {
	if len(c.filtered) == 0 {
		return nil
	}
	row := c.rows[c.filtered[c.cursor].index]
	if repeatableOnly && !row.Repeatable {
		c.status = row.Name + " is once per day; press space to toggle"
		return nil
	}
	id := row.HabitID
	return func() tea.Msg {
		n, err := fn(id)
		return countMsg{habitID: id, count: n, err: err}
	}
}

func (c *Checklist) moveCursor(delta int) {
	next := c.cursor + delta
	if next < 0 || next >= len(c.filtered) {
		return
	}
	c.cursor = next
	if c.cursor < c.offset {
		c.offset = c.cursor
	}
	if vis := c.visibleHeight(); c.cursor >= c.offset+vis {
		c.offset = c.cursor - vis + 1
	}
}

func (c *Checklist) visibleHeight() int {
	h := c.height
	if h <= 0 || h > c.termHeight-8 {
		h = c.termHeight - 8
	}
	if h < 3 {
		h = 3
	}
	return h
}

func (c *Checklist) applyFilter() {
	c.filtered = c.filtered[:0]
	for i, r := range c.rows {
		if ok, sc := FuzzyMatch(c.query, r.Name); ok {
			c.filtered = append(c.filtered, scored{index: i, score: sc})
		}
	}
	if c.query != "" {
		sortScored(c.filtered)
	}
	c.cursor = 0
	c.offset = 0
}

func (c *Checklist) renderRow(r Row, selected bool) string {
	pointer := "  "
	nameStyle := lipgloss.NewStyle()
	if selected {
		pointer = ui.Accent.Render(ui.IconArrow + " ")
		nameStyle = lipgloss.NewStyle().Foreground(ui.Leaf).Bold(true)
	}

	mark := ui.Muted.Render("[ ]")
	if r.Count > 0 {
		mark = ui.Success.Render("[x]")
	}
	line := "  " + pointer + mark + " " + r.Icon + " " + nameStyle.Render(r.Name)
	if r.Repeatable {
		line += "  " + ui.Muted.Render(fmt.Sprintf("×%d", r.Count))
	}
	return line
}

func statusLine(r Row) string {
	switch {
	case r.Repeatable:
		return fmt.Sprintf("%s: %d today", r.Name, r.Count)
	case r.Count > 0:
		return r.Name + " done"
	default:
		return r.Name + " not done"
	}
}

// sortScored sorts by score descending using insertion sort (stable, good for small N).
func sortScored(items []scored) {
	for i := 1; i < len(items); i++ {
		key := items[i]
		j := i - 1
		for j >= 0 && items[j].score < key.score {
			items[j+1] = items[j]
			j--
		}
		items[j+1] = key
	}
}
