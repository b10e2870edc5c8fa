package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/typespeed/internal/engine"
	"github.com/verte-zerg/typespeed/internal/generator"
	"github.com/verte-zerg/typespeed/internal/model"
)

type memStore struct {
	cpm      int
	writeErr error
}

func (s *memStore) HighScore(context.Context) (int, error) {
	return s.cpm, nil
}

func (s *memStore) SetHighScore(_ context.Context, cpm int) error {
	if s.writeErr != nil {
		return s.writeErr
	}
	s.cpm = cpm
	return nil
}

func newTestModel(t *testing.T, words int, st engine.HighScoreStore) *Model {
	t.Helper()
	cfg := model.Config{Duration: time.Second, TickInterval: 10 * time.Millisecond, Words: words}
	m, err := NewModel(cfg, []string{"cat"}, generator.NewSeeded(1), st, nil)
	if err != nil {
		t.Fatalf("new model: %v", err)
	}
	return m
}

func press(m *Model, msg tea.KeyMsg) tea.Cmd {
	_, cmd := m.Update(msg)
	return cmd
}

func typeText(m *Model, s string) {
	press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

func tick(m *Model) tea.Cmd {
	_, cmd := m.Update(tickMsg{session: m.engine.Session()})
	return cmd
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

var (
	enterKey = tea.KeyMsg{Type: tea.KeyEnter}
	escKey   = tea.KeyMsg{Type: tea.KeyEsc}
	ctrlCKey = tea.KeyMsg{Type: tea.KeyCtrlC}
)

func TestModelInitialView(t *testing.T) {
	m := newTestModel(t, 3, &memStore{cpm: 250})
	out := m.View()
	for _, want := range []string{
		"HIGH SCORE: 250 CPM (50 WPM)",
		"CPM: 0     WPM: 0     Remaining Time: 1.0",
		"Words to Type (Max = 3)",
		idleHint,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("view missing %q:\n%s", want, out)
		}
	}
}

func TestModelIgnoresTypingWhileIdle(t *testing.T) {
	m := newTestModel(t, 3, &memStore{})
	typeText(m, "cat")
	if m.input.Value() != "" {
		t.Fatalf("expected idle input to stay empty, got %q", m.input.Value())
	}
	if m.engine.State() != engine.StateIdle {
		t.Fatalf("expected idle, got %s", m.engine.State())
	}
}

func TestModelStartTypeAndTick(t *testing.T) {
	m := newTestModel(t, 3, &memStore{})
	if cmd := press(m, enterKey); cmd == nil {
		t.Fatalf("expected tick command after start")
	}
	if m.engine.State() != engine.StateRunning {
		t.Fatalf("expected running, got %s", m.engine.State())
	}

	typeText(m, "cat")
	if got := m.InputBuffer(); got != "cat" {
		t.Fatalf("expected input %q, got %q", "cat", got)
	}
	if cmd := tick(m); cmd == nil {
		t.Fatalf("expected next tick to be scheduled")
	}
	if m.cpm != 3 || m.wpm != 1 {
		t.Fatalf("expected 3 CPM / 1 WPM, got %d / %d", m.cpm, m.wpm)
	}
	if m.InputBuffer() != "" {
		t.Fatalf("expected input cleared after match")
	}
	if len(m.queue) != 2 {
		t.Fatalf("expected 2 words left, got %d", len(m.queue))
	}
}

func TestModelDropsStaleTicks(t *testing.T) {
	m := newTestModel(t, 3, &memStore{})
	press(m, enterKey)
	before := m.remaining
	_, cmd := m.Update(tickMsg{session: m.engine.Session() - 1})
	if cmd != nil {
		t.Fatalf("expected stale tick to schedule nothing")
	}
	if m.remaining != before {
		t.Fatalf("expected stale tick to leave time untouched")
	}
}

func TestModelSwallowsSpace(t *testing.T) {
	m := newTestModel(t, 3, &memStore{})
	press(m, enterKey)
	typeText(m, "ca")
	press(m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	if got := m.InputBuffer(); got != "ca" {
		t.Fatalf("expected space to be ignored, got %q", got)
	}
}

func TestModelEndShowsResultsAndDismisses(t *testing.T) {
	st := &memStore{}
	m := newTestModel(t, 3, st)
	press(m, enterKey)
	typeText(m, "cat")
	tick(m)
	press(m, escKey)

	if m.engine.State() != engine.StateIdle {
		t.Fatalf("expected idle after end, got %s", m.engine.State())
	}
	res := m.Result()
	if res == nil || res.CPM != 3 || res.Reason != model.EndCancelled || !res.NewHighScore {
		t.Fatalf("unexpected result %+v", res)
	}
	if st.cpm != 3 {
		t.Fatalf("expected stored high score 3, got %d", st.cpm)
	}
	out := m.View()
	for _, want := range []string{"FINAL METRICS:", "You have achieved a new high score!", "HIGH SCORE: 3 CPM (1 WPM)"} {
		if !strings.Contains(out, want) {
			t.Fatalf("view missing %q:\n%s", want, out)
		}
	}

	press(m, enterKey)
	if m.Result() != nil {
		t.Fatalf("expected enter to dismiss results")
	}
	if m.engine.State() != engine.StateIdle {
		t.Fatalf("expected dismiss to leave the engine idle")
	}
	press(m, enterKey)
	if m.engine.State() != engine.StateRunning {
		t.Fatalf("expected second enter to start a new session")
	}
}

func TestModelQuitConfirmation(t *testing.T) {
	m := newTestModel(t, 3, &memStore{})
	press(m, ctrlCKey)
	if !strings.Contains(m.View(), quitConfirmation) {
		t.Fatalf("expected confirmation prompt")
	}
	if cmd := press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("n")}); isQuit(cmd) {
		t.Fatalf("expected n to cancel exit")
	}
	if m.confirmQuit {
		t.Fatalf("expected prompt dismissed")
	}
	press(m, ctrlCKey)
	if cmd := press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")}); !isQuit(cmd) {
		t.Fatalf("expected y to quit")
	}
}

func TestModelPersistenceFailureIsFatal(t *testing.T) {
	m := newTestModel(t, 1, &memStore{writeErr: errors.New("disk full")})
	press(m, enterKey)
	typeText(m, "cat")
	cmd := tick(m)

	if !errors.Is(m.Err(), model.ErrPersistence) {
		t.Fatalf("expected persistence error, got %v", m.Err())
	}
	if !isQuit(cmd) {
		t.Fatalf("expected program to quit")
	}
	if res := m.Result(); res == nil || res.CPM != 3 || res.Reason != model.EndWordsExhausted {
		t.Fatalf("expected final metrics to survive, got %+v", res)
	}
	out := m.View()
	if !strings.Contains(out, "Error:") || !strings.Contains(out, "CPM: 3") {
		t.Fatalf("expected error view with metrics:\n%s", out)
	}
}
