package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"survival-quiz/internal/domain"
	"survival-quiz/internal/infra/memory"
)

const bankKey = "quiz:bank"

// BankCache caches the question bank in Redis as a JSON string and falls back to a
// loader on cache miss. Redis errors are treated as misses.
type BankCache struct {
	client *redis.Client
	loader memory.BankLoader
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewBankCache(client *redis.Client, loader memory.BankLoader, ttl time.Duration) *BankCache {
	return &BankCache{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *BankCache) Bank(ctx context.Context) ([]domain.Question, error) {
	if bank, ok := c.cached(ctx); ok {
		return bank, nil
	}

	result, err, _ := c.sf.Do(bankKey, func() (interface{}, error) {
		// Re-check cache in case another caller filled it.
		if bank, ok := c.cached(ctx); ok {
			return bank, nil
		}

		bank, err := c.loader.LoadBank(ctx)
		if err != nil {
			return nil, err
		}
		if err := domain.ValidateBank(bank); err != nil {
			return nil, err
		}

		if raw, err := json.Marshal(bank); err == nil {
			_ = c.client.Set(ctx, bankKey, raw, c.ttlWithJitter()).Err()
		}
		return bank, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Question), nil
}

func (c *BankCache) cached(ctx context.Context) ([]domain.Question, bool) {
	raw, err := c.client.Get(ctx, bankKey).Bytes()
	if err != nil {
		return nil, false
	}
	var bank []domain.Question
	if err := json.Unmarshal(raw, &bank); err != nil {
		return nil, false
	}
	if domain.ValidateBank(bank) != nil {
		return nil, false
	}
	return bank, true
}

func (c *BankCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
