package memory

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
	"gopkg.in/yaml.v3"

	"survival-quiz/internal/domain"
)

const bankKey = "bank"

// BankLoader fetches the question bank from a backing store (file, database, ...).
type BankLoader interface {
	LoadBank(ctx context.Context) ([]domain.Question, error)
}

// QuestionRepository caches the bank with TTL to avoid repeated loads. Loaded banks
// are validated; a bank with a malformed question is rejected whole.
type QuestionRepository struct {
	loader BankLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand

	mu        sync.RWMutex
	bank      []domain.Question
	expiresAt time.Time
}

func NewQuestionRepository(loader BankLoader, ttl time.Duration) *QuestionRepository {
	return &QuestionRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *QuestionRepository) Bank(ctx context.Context) ([]domain.Question, error) {
	if bank, ok := r.cached(r.clock()); ok {
		return bank, nil
	}

	result, err, _ := r.sf.Do(bankKey, func() (interface{}, error) {
		now := r.clock()
		if bank, ok := r.cached(now); ok {
			return bank, nil
		}

		bank, err := r.loader.LoadBank(ctx)
		if err != nil {
			return nil, err
		}
		if err := domain.ValidateBank(bank); err != nil {
			return nil, err
		}

		r.mu.Lock()
		r.bank = bank
		r.expiresAt = now.Add(r.ttlWithJitter())
		r.mu.Unlock()
		return bank, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Question), nil
}

func (r *QuestionRepository) cached(now time.Time) ([]domain.Question, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.bank != nil && r.expiresAt.After(now) {
		return r.bank, true
	}
	return nil, false
}

func (r *QuestionRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}

// StaticBankLoader is a simple loader backed by an in-memory slice (useful for tests/demos).
type StaticBankLoader struct {
	questions []domain.Question
}

func NewStaticBankLoader(questions []domain.Question) *StaticBankLoader {
	return &StaticBankLoader{questions: questions}
}

func (l *StaticBankLoader) LoadBank(_ context.Context) ([]domain.Question, error) {
	if len(l.questions) == 0 {
		return nil, domain.ErrEmptyBank
	}
	return l.questions, nil
}

// FileBankLoader reads a YAML list of questions from disk on every load.
type FileBankLoader struct {
	path string
}

func NewFileBankLoader(path string) *FileBankLoader {
	return &FileBankLoader{path: path}
}

func (l *FileBankLoader) LoadBank(_ context.Context) ([]domain.Question, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("read bank: %w", err)
	}
	var bank struct {
		Questions []domain.Question `yaml:"questions"`
	}
	if err := yaml.Unmarshal(data, &bank); err != nil {
		return nil, fmt.Errorf("parse bank %s: %w", l.path, err)
	}
	return bank.Questions, nil
}
