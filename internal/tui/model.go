// Package tui provides the Bubble Tea typing interface.
package tui

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/typespeed/internal/diag"
	"github.com/verte-zerg/typespeed/internal/engine"
	"github.com/verte-zerg/typespeed/internal/model"
)

const (
	// previewWords bounds how much of the queue is styled per frame.
	previewWords     = 60
	maxWordLines     = 12
	entryWidth       = 35
	idleHint         = "Press enter to begin test."
	resultHint       = "Press enter to continue."
	quitConfirmation = "Do you want to exit this application? (y/n)"
)

type tickMsg struct {
	session int
}

type keyMap struct {
	Start key.Binding
	End   key.Binding
	Quit  key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Start, k.End, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

func defaultKeyMap() keyMap {
	return keyMap{
		Start: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "start test")),
		End:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "end test")),
		Quit:  key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "exit")),
	}
}

// Model implements the Bubble Tea typing UI. It is also the engine's Display.
type Model struct {
	engine *engine.Engine
	log    *diag.Logger

	input textinput.Model
	help  help.Model
	keys  keyMap

	width  int
	height int

	queue     []string
	cpm       int
	wpm       int
	remaining float64
	highCPM   int
	highWPM   int

	result      *model.Result
	confirmQuit bool
	err         error
}

var (
	correctStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	incorrectStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	pendingStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	currentWordStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	cursorStyle      = currentWordStyle.Underline(true)
	highScoreStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	statsStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#B0B0B0")).Bold(true)
	headerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true).MarginTop(1)
	errorStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	hintStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C")).Italic(true)
	panelStyle       = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#C89A3A")).
				Padding(1, 2)
)

// NewModel builds the engine around the model and loads the stored high score.
func NewModel(cfg model.Config, bank []string, sel engine.WordSelector, store engine.HighScoreStore, log *diag.Logger) (*Model, error) {
	if log == nil {
		log = diag.Discard()
	}
	input := textinput.New()
	input.Prompt = "> "
	input.CharLimit = 64
	input.Width = entryWidth

	m := &Model{
		log:   log,
		input: input,
		help:  help.New(),
		keys:  defaultKeyMap(),
	}
	eng, err := engine.New(cfg, bank, sel, store, m)
	if err != nil {
		return nil, err
	}
	m.engine = eng
	if err := eng.Prepare(context.Background()); err != nil {
		log.LogError("prepare", err)
		return nil, err
	}
	m.syncKeys()
	return m, nil
}

// Err returns the fatal error that stopped the program, if any.
func (m *Model) Err() error {
	return m.err
}

// Result returns the most recent session result.
func (m *Model) Result() *model.Result {
	return m.result
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
		m.help.Width = msg.Width
		return m, nil
	case tickMsg:
		return m.handleTick(msg)
	case tea.KeyMsg:
		return m.handleKey(msg)
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.err != nil {
		return m, tea.Quit
	}
	if m.confirmQuit {
		m.confirmQuit = false
		if msg.Type == tea.KeyRunes && strings.EqualFold(string(msg.Runes), "y") {
			return m, tea.Quit
		}
		return m, nil
	}
	if key.Matches(msg, m.keys.Quit) {
		m.confirmQuit = true
		return m, nil
	}

	switch m.engine.State() {
	case engine.StateIdle:
		if !key.Matches(msg, m.keys.Start) {
			return m, nil
		}
		if m.result != nil {
			m.result = nil
			return m, nil
		}
		return m.start()
	case engine.StateRunning:
		if key.Matches(msg, m.keys.End) {
			res, err := m.engine.End(context.Background())
			return m.sessionDone(res, err)
		}
		if msg.Type == tea.KeySpace {
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	default:
		return m, nil
	}
}

func (m *Model) start() (tea.Model, tea.Cmd) {
	if err := m.engine.Start(); err != nil {
		return m.fatal("start test", err)
	}
	focus := m.input.Focus()
	m.syncKeys()
	m.log.Slog().Debug("session started", "session", m.engine.Session(), "words", len(m.engine.Queue()))
	return m, tea.Batch(focus, m.scheduleTick())
}

func (m *Model) scheduleTick() tea.Cmd {
	session := m.engine.Session()
	return tea.Tick(m.engine.Config().TickInterval, func(time.Time) tea.Msg {
		return tickMsg{session: session}
	})
}

func (m *Model) handleTick(msg tickMsg) (tea.Model, tea.Cmd) {
	// Ticks from an ended or older session are dropped.
	if msg.session != m.engine.Session() || m.engine.State() != engine.StateRunning {
		return m, nil
	}
	res, err := m.engine.Tick(context.Background())
	if err != nil || res != nil {
		return m.sessionDone(res, err)
	}
	return m, m.scheduleTick()
}

func (m *Model) sessionDone(res *model.Result, err error) (tea.Model, tea.Cmd) {
	m.result = res
	m.input.Blur()
	m.syncKeys()
	if err != nil {
		return m.fatal("end test", err)
	}
	if res != nil {
		m.log.Slog().Info("session finished",
			"cpm", res.CPM,
			"wpm", res.WPM,
			"reason", res.Reason.String(),
			"new_high_score", res.NewHighScore,
		)
	}
	return m, nil
}

func (m *Model) fatal(activity string, err error) (tea.Model, tea.Cmd) {
	m.err = err
	m.log.LogError(activity, err)
	return m, tea.Quit
}

func (m *Model) syncKeys() {
	running := m.engine.State() == engine.StateRunning
	m.keys.Start.SetEnabled(!running)
	m.keys.End.SetEnabled(running)
	if m.result != nil {
		m.keys.Start.SetHelp("enter", "continue")
	} else {
		m.keys.Start.SetHelp("enter", "start test")
	}
}

// RenderWordQueue implements engine.Display.
func (m *Model) RenderWordQueue(words []string) error {
	n := len(words)
	if n > previewWords {
		n = previewWords
	}
	m.queue = append(m.queue[:0], words[:n]...)
	return nil
}

// RenderStats implements engine.Display.
func (m *Model) RenderStats(cpm, wpm int, remaining float64) error {
	m.cpm = cpm
	m.wpm = wpm
	m.remaining = remaining
	return nil
}

// RenderHighScore implements engine.Display.
func (m *Model) RenderHighScore(cpm, wpm int) error {
	m.highCPM = cpm
	m.highWPM = wpm
	return nil
}

// InputBuffer implements engine.Display.
func (m *Model) InputBuffer() string {
	return m.input.Value()
}

// ClearInputBuffer implements engine.Display.
func (m *Model) ClearInputBuffer() {
	m.input.SetValue("")
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.err != nil {
		return m.renderError()
	}

	contentWidth := int(float64(m.width) * 0.70)
	if contentWidth < entryWidth {
		contentWidth = entryWidth
	}

	var middle string
	switch {
	case m.confirmQuit:
		middle = panelStyle.Render(quitConfirmation)
	case m.result != nil:
		middle = panelStyle.Render(formatResult(m.result))
	default:
		middle = m.renderWords(contentWidth)
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		highScoreStyle.Render(formatHighScore(m.highCPM, m.highWPM)),
		statsStyle.Render(formatStats(m.cpm, m.wpm, m.remaining)),
		headerStyle.Render(fmt.Sprintf("Words to Type (Max = %d)", m.engine.Config().Words)),
		middle,
		"",
		m.input.View(),
		hintStyle.Render(m.hint()),
	)
	footer := m.help.View(m.keys)
	if m.width == 0 || m.height < 3 {
		return content + "\n" + footer
	}
	body := lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func (m *Model) hint() string {
	switch {
	case m.engine.State() == engine.StateRunning:
		return ""
	case m.result != nil:
		return resultHint
	default:
		return idleHint
	}
}

func (m *Model) renderWords(width int) string {
	var input []rune
	if m.engine.State() == engine.StateRunning {
		input = []rune(m.input.Value())
	}
	styled := buildStyledRunes(m.queue, input)
	wrapped := limitLines(wrapStyledRunes(styled, width), maxWordLines)
	return lipgloss.NewStyle().Width(width).Render(wrapped)
}

func (m *Model) renderError() string {
	lines := []string{errorStyle.Render(fmt.Sprintf("Error: %v", m.err))}
	if m.result != nil {
		lines = append(lines, "", formatResult(m.result))
	}
	if path := m.log.Path(); path != "" {
		lines = append(lines, "", fmt.Sprintf("Details were written to %s", path))
	}
	return strings.Join(lines, "\n") + "\n"
}

func formatHighScore(cpm, wpm int) string {
	return fmt.Sprintf("HIGH SCORE: %d CPM (%d WPM)", cpm, wpm)
}

func formatStats(cpm, wpm int, remaining float64) string {
	return fmt.Sprintf("CPM: %d     WPM: %d     Remaining Time: %.1f", cpm, wpm, math.Abs(remaining))
}

func formatResult(res *model.Result) string {
	lines := []string{
		"FINAL METRICS:",
		fmt.Sprintf("CPM: %d", res.CPM),
		fmt.Sprintf("WPM: %d", res.WPM),
		fmt.Sprintf("Test ended: %s", res.Reason),
	}
	if res.NewHighScore {
		lines = append(lines,
			"",
			"You have achieved a new high score!",
			"Previous high score:",
			fmt.Sprintf("CPM: %d", res.PreviousCPM),
			fmt.Sprintf("WPM: %d", res.PreviousWPM),
		)
	}
	return strings.Join(lines, "\n")
}
