package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"

	"survival-quiz/internal/app"
	"survival-quiz/internal/config"
	"survival-quiz/internal/domain"
)

type lobbyResponse struct {
	Entries []domain.LeaderboardEntry `json:"entries"`
	Remote  bool                      `json:"remote"`
}

// serveConfig hands the store credentials to browsers. Missing credentials answer
// 503 so clients fall back to local-only play.
func serveConfig(creds config.Credentials) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		if creds.URL == "" || creds.Key == "" {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "store credentials not configured"})
			return
		}
		writeJSON(w, http.StatusOK, creds)
	}
}

func serveLeaderboard(service *app.GameService) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		entries, remote := service.Lobby(r.Context())
		writeJSON(w, http.StatusOK, lobbyResponse{Entries: entries, Remote: remote})
	}
}

func serveSnapshot(service *app.GameService) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		session, err := service.Get(ps.ByName("id"))
		if err == nil {
			var snap app.Snapshot
			snap, err = session.Snapshot(r.Context())
			if err == nil {
				writeJSON(w, http.StatusOK, snap)
				return
			}
		}
		if errors.Is(err, domain.ErrSessionNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}

func serveHealth(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	_, _ = w.Write([]byte("ok"))
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// logRequests logs every request at debug level.
func logRequests(next http.Handler, logger *zap.SugaredLogger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Debugw("request", "method", r.Method, "path", r.URL.Path)
		next.ServeHTTP(w, r)
	})
}
