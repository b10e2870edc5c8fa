package engine

import (
	"context"
	"errors"
	"slices"
)

type fakeDisplay struct {
	input     string
	words     []string
	cpm       int
	wpm       int
	remaining float64
	highCPM   int
	highWPM   int
	statsErr  error
	renders   int
}

func (d *fakeDisplay) RenderWordQueue(words []string) error {
	d.words = slices.Clone(words)
	return nil
}

func (d *fakeDisplay) RenderStats(cpm, wpm int, remaining float64) error {
	if d.statsErr != nil {
		return d.statsErr
	}
	d.cpm = cpm
	d.wpm = wpm
	d.remaining = remaining
	d.renders++
	return nil
}

func (d *fakeDisplay) RenderHighScore(cpm, wpm int) error {
	d.highCPM = cpm
	d.highWPM = wpm
	return nil
}

func (d *fakeDisplay) InputBuffer() string { return d.input }

func (d *fakeDisplay) ClearInputBuffer() { d.input = "" }

type memStore struct {
	cpm       int
	reads     int
	writes    int
	readErr   error
	writeErrs []error
}

func (s *memStore) HighScore(context.Context) (int, error) {
	s.reads++
	if s.readErr != nil {
		return 0, s.readErr
	}
	return s.cpm, nil
}

func (s *memStore) SetHighScore(_ context.Context, cpm int) error {
	s.writes++
	if len(s.writeErrs) > 0 {
		err := s.writeErrs[0]
		s.writeErrs = s.writeErrs[1:]
		if err != nil {
			return err
		}
	}
	s.cpm = cpm
	return nil
}

// scriptedSelector hands out the same queue on every draw.
type scriptedSelector struct {
	words []string
	calls int
}

func (s *scriptedSelector) Select(_ []string, _ int) ([]string, error) {
	s.calls++
	return slices.Clone(s.words), nil
}

var errBoom = errors.New("boom")
