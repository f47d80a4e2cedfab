package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"survival-quiz/internal/domain"
)

const restPath = "/rest/v1/"

// ScoreStore talks PostgREST to a hosted scores table.
type ScoreStore struct {
	creds  CredentialsSource
	table  string
	client *http.Client
}

func NewScoreStore(creds CredentialsSource, table string, client *http.Client) *ScoreStore {
	if table == "" {
		table = "scores"
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &ScoreStore{creds: creds, table: table, client: client}
}

func (s *ScoreStore) RecordScore(ctx context.Context, record domain.ScoreRecord) error {
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}
	body, err := json.Marshal([]domain.ScoreRecord{record})
	if err != nil {
		return err
	}
	resp, err := s.do(ctx, http.MethodPost, nil, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("insert score: %w", err)
	}
	resp.Body.Close()
	return nil
}

func (s *ScoreStore) TopScores(ctx context.Context, n int) ([]domain.ScoreRecord, error) {
	query := url.Values{}
	query.Set("select", "*")
	query.Set("order", "score.desc")
	query.Set("limit", strconv.Itoa(n))

	var records []domain.ScoreRecord
	if err := s.query(ctx, query, &records); err != nil {
		return nil, fmt.Errorf("query scores: %w", err)
	}
	return records, nil
}

func (s *ScoreStore) NameExists(ctx context.Context, name string) (bool, error) {
	query := url.Values{}
	query.Set("select", "player_name")
	query.Set("player_name", "eq."+name)
	query.Set("limit", "1")

	var rows []struct {
		PlayerName string `json:"player_name"`
	}
	if err := s.query(ctx, query, &rows); err != nil {
		return false, fmt.Errorf("check name: %w", err)
	}
	return len(rows) > 0, nil
}

func (s *ScoreStore) query(ctx context.Context, query url.Values, out interface{}) error {
	resp, err := s.do(ctx, http.MethodGet, query, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (s *ScoreStore) do(ctx context.Context, method string, query url.Values, body io.Reader) (*http.Response, error) {
	creds, err := s.creds.Credentials(ctx)
	if err != nil {
		return nil, err
	}

	endpoint := strings.TrimRight(creds.URL, "/") + restPath + s.table
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("apikey", creds.Key)
	req.Header.Set("Authorization", "Bearer "+creds.Key)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Prefer", "return=minimal")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		resp.Body.Close()
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	return resp, nil
}
