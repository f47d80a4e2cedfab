package game

import (
	"fmt"

	"survival-quiz/internal/domain"
)

// Phase is the position of a session in its lifecycle.
type Phase uint8

const (
	PhaseIdle Phase = iota + 1
	PhaseAccepting
	PhaseSettling
	PhaseEnded
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseAccepting:
		return "accepting"
	case PhaseSettling:
		return "settling"
	case PhaseEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// State is the whole mutable state of one session. Only Engine methods change it.
type State struct {
	Questions  []domain.Question
	Index      int
	Current    domain.ShuffledQuestion
	Score      int
	Streak     int
	MaxStreak  int
	Lives      int
	Multiplier float64
	TimeLeft   int
	Phase      Phase
	// Generation changes on every question load and reset. Deferred callbacks
	// carry the generation they were scheduled under and are dropped on mismatch.
	Generation uint64
	Reshuffles int
	Answered   int
}

func (s *State) Accepting() bool {
	return s.Phase == PhaseAccepting
}

func (s *State) Ended() bool {
	return s.Phase == PhaseEnded
}

func (s *State) Summary(playerName string) domain.SessionSummary {
	return domain.SessionSummary{
		PlayerName:        playerName,
		Score:             s.Score,
		BestStreak:        s.MaxStreak,
		QuestionsAnswered: s.Answered,
	}
}

// Advance reports what advancing after an outcome did.
type Advance struct {
	Question   domain.ShuffledQuestion
	Reshuffled bool
	Ended      bool
}

// Engine applies the survival rules to a State over a fixed question bank.
type Engine struct {
	cfg  Config
	bank []domain.Question
	rnd  Rand
}

func NewEngine(cfg Config, bank []domain.Question, rnd Rand) (*Engine, error) {
	if err := domain.ValidateBank(bank); err != nil {
		return nil, err
	}
	if cfg.MaxLives <= 0 {
		return nil, fmt.Errorf("max lives must be positive, got %d", cfg.MaxLives)
	}
	if rnd == nil {
		rnd = FastRand()
	}
	owned := make([]domain.Question, len(bank))
	copy(owned, bank)
	return &Engine{cfg: cfg, bank: owned, rnd: rnd}, nil
}

func (e *Engine) Config() Config {
	return e.cfg
}

// NewState returns an idle session with defaults and a freshly shuffled order.
func (e *Engine) NewState() *State {
	s := &State{}
	e.Reset(s)
	return s
}

// Reset returns s to Idle with default counters and a new order. The generation
// moves forward so callbacks from the previous run are ignored.
func (e *Engine) Reset(s *State) {
	gen := s.Generation
	*s = State{
		Questions:  e.shuffledBank(),
		Lives:      e.cfg.MaxLives,
		Multiplier: Multiplier(0),
		Phase:      PhaseIdle,
		Generation: gen + 1,
	}
}

// LoadQuestion presents the question at index with a fresh option layout and opens it
// for answers. Loading the same index twice may produce different layouts.
func (e *Engine) LoadQuestion(s *State, index int) (domain.ShuffledQuestion, error) {
	if s.Phase == PhaseEnded {
		return domain.ShuffledQuestion{}, domain.ErrSessionEnded
	}
	if index < 0 || index >= len(s.Questions) {
		return domain.ShuffledQuestion{}, fmt.Errorf("%w: %d of %d", domain.ErrQuestionIndex, index, len(s.Questions))
	}

	q := s.Questions[index]
	type option struct {
		text    string
		correct bool
	}
	opts := make([]option, len(q.Options))
	for i, text := range q.Options {
		opts[i] = option{text: text, correct: i == q.CorrectIndex}
	}
	Shuffle(e.rnd, opts)

	shuffled := domain.ShuffledQuestion{
		Index:    index,
		Number:   s.Answered + 1,
		Prompt:   q.Prompt,
		Category: q.Category,
		Options:  make([]string, len(opts)),
	}
	for i, o := range opts {
		shuffled.Options[i] = o.text
		if o.correct {
			shuffled.CorrectIndex = i
		}
	}

	s.Index = index
	s.Current = shuffled
	s.TimeLeft = e.cfg.TimerSeconds
	s.Phase = PhaseAccepting
	s.Generation++
	return shuffled, nil
}

// Tick counts the open question's timer down by one second and returns what is left.
func (e *Engine) Tick(s *State) int {
	if s.Phase == PhaseAccepting && s.TimeLeft > 0 {
		s.TimeLeft--
	}
	return s.TimeLeft
}

// SubmitAnswer scores the selected option. At most one answer is accepted per
// question; anything after that returns ErrNotAccepting and changes nothing.
func (e *Engine) SubmitAnswer(s *State, selected, timeLeft int) (domain.AnswerOutcome, error) {
	if s.Phase != PhaseAccepting {
		return domain.AnswerOutcome{}, domain.ErrNotAccepting
	}
	s.Phase = PhaseSettling
	s.Answered++

	if selected != s.Current.CorrectIndex {
		return e.miss(s, false), nil
	}

	timeLeft = max(0, min(timeLeft, e.cfg.TimerSeconds))
	points := e.cfg.Points(timeLeft, s.Streak, s.Multiplier)
	s.Score += points
	s.Streak++
	s.MaxStreak = max(s.MaxStreak, s.Streak)
	s.Multiplier = Multiplier(s.Streak)
	return e.outcome(s, true, false, points), nil
}

// ExpireTimer treats the open question as missed.
func (e *Engine) ExpireTimer(s *State) (domain.AnswerOutcome, error) {
	if s.Phase != PhaseAccepting {
		return domain.AnswerOutcome{}, domain.ErrNotAccepting
	}
	s.Phase = PhaseSettling
	s.Answered++
	s.TimeLeft = 0
	return e.miss(s, true), nil
}

// Advance moves past a settled outcome: next question, a reshuffled order when the
// current one is exhausted, or nothing once the session has ended.
func (e *Engine) Advance(s *State) (Advance, error) {
	switch s.Phase {
	case PhaseEnded:
		return Advance{Ended: true}, nil
	case PhaseSettling:
	default:
		return Advance{}, domain.ErrNotSettling
	}

	if s.Index < len(s.Questions)-1 {
		q, err := e.LoadQuestion(s, s.Index+1)
		return Advance{Question: q}, err
	}

	s.Questions = e.shuffledBank()
	s.Reshuffles++
	q, err := e.LoadQuestion(s, 0)
	return Advance{Question: q, Reshuffled: true}, err
}

func (e *Engine) miss(s *State, timedOut bool) domain.AnswerOutcome {
	s.Streak = 0
	s.Multiplier = Multiplier(0)
	s.Lives = max(0, s.Lives-1)
	if s.Lives == 0 {
		s.Phase = PhaseEnded
	}
	return e.outcome(s, false, timedOut, 0)
}

func (e *Engine) outcome(s *State, correct, timedOut bool, points int) domain.AnswerOutcome {
	return domain.AnswerOutcome{
		Correct:        correct,
		TimedOut:       timedOut,
		PointsAwarded:  points,
		LivesRemaining: s.Lives,
		SessionEnded:   s.Phase == PhaseEnded,
		CorrectIndex:   s.Current.CorrectIndex,
		Score:          s.Score,
		Streak:         s.Streak,
		Multiplier:     s.Multiplier,
	}
}

func (e *Engine) shuffledBank() []domain.Question {
	order := make([]domain.Question, len(e.bank))
	copy(order, e.bank)
	Shuffle(e.rnd, order)
	return order
}
