package supabase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"survival-quiz/internal/config"
)

// ErrMissingCredentials is returned when no store url or key is known.
var ErrMissingCredentials = errors.New("supabase credentials missing")

const defaultFetchTimeout = 10 * time.Second

// CredentialsSource resolves the store url and key.
type CredentialsSource interface {
	Credentials(ctx context.Context) (config.Credentials, error)
}

// StaticCredentials serves fixed credentials, usually from SUPABASE_URL/SUPABASE_KEY.
type StaticCredentials config.Credentials

func (c StaticCredentials) Credentials(context.Context) (config.Credentials, error) {
	creds := config.Credentials(c)
	if creds.URL == "" || creds.Key == "" {
		return creds, ErrMissingCredentials
	}
	return creds, nil
}

// ConfigEndpoint fetches credentials from a /config endpoint the first time they are
// needed and keeps them for the life of the process. Failed fetches are retried on the
// next call.
type ConfigEndpoint struct {
	url    string
	client *http.Client
	sf     singleflight.Group

	mu     sync.RWMutex
	creds  config.Credentials
	loaded bool
}

func NewConfigEndpoint(url string, client *http.Client) *ConfigEndpoint {
	if client == nil {
		client = &http.Client{Timeout: defaultFetchTimeout}
	}
	return &ConfigEndpoint{url: url, client: client}
}

func (e *ConfigEndpoint) Credentials(ctx context.Context) (config.Credentials, error) {
	e.mu.RLock()
	creds, loaded := e.creds, e.loaded
	e.mu.RUnlock()
	if loaded {
		return creds, nil
	}

	// The shared fetch outlives any one caller; the client timeout bounds it.
	ch := e.sf.DoChan(e.url, func() (interface{}, error) {
		creds, err := e.fetch(context.WithoutCancel(ctx))
		if err != nil {
			return config.Credentials{}, err
		}
		e.mu.Lock()
		e.creds, e.loaded = creds, true
		e.mu.Unlock()
		return creds, nil
	})
	var result singleflight.Result
	select {
	case <-ctx.Done():
		return config.Credentials{}, ctx.Err()
	case result = <-ch:
	}
	if result.Err != nil {
		return config.Credentials{}, result.Err
	}
	return result.Val.(config.Credentials), nil
}

func (e *ConfigEndpoint) fetch(ctx context.Context) (config.Credentials, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.url, nil)
	if err != nil {
		return config.Credentials{}, fmt.Errorf("build config request: %w", err)
	}
	resp, err := e.client.Do(req)
	if err != nil {
		return config.Credentials{}, fmt.Errorf("fetch config: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return config.Credentials{}, fmt.Errorf("fetch config: status %d", resp.StatusCode)
	}

	var creds config.Credentials
	if err := json.NewDecoder(resp.Body).Decode(&creds); err != nil {
		return config.Credentials{}, fmt.Errorf("decode config: %w", err)
	}
	if creds.URL == "" || creds.Key == "" {
		return config.Credentials{}, ErrMissingCredentials
	}
	return creds, nil
}
