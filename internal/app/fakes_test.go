package app

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"survival-quiz/internal/domain"
)

type fakeTimer struct {
	d       time.Duration
	f       func()
	stopped bool
	fired   bool
}

// fakeScheduler captures callbacks so tests decide when time passes.
type fakeScheduler struct {
	mu     sync.Mutex
	timers []*fakeTimer
}

func (s *fakeScheduler) AfterFunc(d time.Duration, f func()) func() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &fakeTimer{d: d, f: f}
	s.timers = append(s.timers, t)
	return func() bool {
		s.mu.Lock()
		defer s.mu.Unlock()
		active := !t.stopped && !t.fired
		t.stopped = true
		return active
	}
}

// fire runs every live timer of duration d and reports how many fired.
func (s *fakeScheduler) fire(d time.Duration) int {
	return s.run(d, false)
}

// fireStale runs timers of duration d even if they were stopped, as a timer racing
// its Stop would.
func (s *fakeScheduler) fireStale(d time.Duration) int {
	return s.run(d, true)
}

func (s *fakeScheduler) run(d time.Duration, includeStopped bool) int {
	s.mu.Lock()
	var due []func()
	for _, t := range s.timers {
		if t.d != d || t.fired || (t.stopped && !includeStopped) {
			continue
		}
		t.fired = true
		due = append(due, t.f)
	}
	s.mu.Unlock()
	for _, f := range due {
		f()
	}
	return len(due)
}

// recorder is a Presenter that buffers updates for inspection.
type recorder struct {
	updates chan Update
}

func newRecorder() *recorder {
	return &recorder{updates: make(chan Update, 512)}
}

func (r *recorder) Present(update Update) {
	r.updates <- update
}

// next returns the next update of type want, skipping others.
func (r *recorder) next(t *testing.T, want string) Update {
	t.Helper()
	timeout := time.After(2 * time.Second)
	for {
		select {
		case u := <-r.updates:
			if u.Type == want {
				return u
			}
		case <-timeout:
			t.Fatalf("timed out waiting for %s update", want)
			return Update{}
		}
	}
}

type memScores struct {
	mu      sync.Mutex
	records []domain.ScoreRecord
	err     error
}

func (m *memScores) RecordScore(_ context.Context, rec domain.ScoreRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.records = append(m.records, rec)
	return nil
}

func (m *memScores) TopScores(_ context.Context, n int) ([]domain.ScoreRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := append([]domain.ScoreRecord(nil), m.records...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if len(out) > n {
		out = out[:n]
	}
	return out, nil
}

func (m *memScores) NameExists(_ context.Context, name string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return false, m.err
	}
	for _, r := range m.records {
		if r.PlayerName == name {
			return true, nil
		}
	}
	return false, nil
}

func (m *memScores) saved() []domain.ScoreRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.ScoreRecord(nil), m.records...)
}

type memSessions struct {
	mu       sync.Mutex
	sessions map[string]*Session
	touches  int
}

func newMemSessions() *memSessions {
	return &memSessions{sessions: make(map[string]*Session)}
}

func (m *memSessions) Register(_ context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, live := range m.sessions {
		if live.Player == s.Player {
			return domain.ErrPlayerNameTaken
		}
	}
	m.sessions[s.ID] = s
	return nil
}

func (m *memSessions) Get(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	return s, ok
}

func (m *memSessions) Touch(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return domain.ErrSessionNotFound
	}
	m.touches++
	return nil
}

func (m *memSessions) touched() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.touches
}

func (m *memSessions) Remove(_ context.Context, id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}

type staticBank []domain.Question

func (b staticBank) Bank(context.Context) ([]domain.Question, error) {
	if len(b) == 0 {
		return nil, domain.ErrEmptyBank
	}
	return b, nil
}

var errOffline = errors.New("offline")

func testBank() staticBank {
	return staticBank{
		{Prompt: "2 + 2?", Category: "Math", Options: []string{"3", "4", "5", "6"}, CorrectIndex: 1},
		{Prompt: "Capital of Italy?", Category: "Geography", Options: []string{"Rome", "Milan", "Turin", "Naples"}, CorrectIndex: 0},
		{Prompt: "H2O is?", Category: "Science", Options: []string{"Salt", "Air", "Water", "Gold"}, CorrectIndex: 2},
	}
}
