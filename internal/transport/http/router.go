package http

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"

	"survival-quiz/internal/app"
	"survival-quiz/internal/config"
	"survival-quiz/internal/logging"
	"survival-quiz/internal/metrics"
)

// RouterDeps are the collaborators behind the HTTP surface.
type RouterDeps struct {
	Service     *app.GameService
	Credentials config.Credentials
	Metrics     *metrics.Metrics
	Logger      *zap.SugaredLogger
}

// NewRouter registers every route and returns the root handler.
func NewRouter(deps RouterDeps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = logging.DefaultLogger()
	}

	mux := httprouter.New()
	mux.GET("/config", serveConfig(deps.Credentials))
	mux.GET("/api/config", serveConfig(deps.Credentials))
	mux.GET("/api/leaderboard", serveLeaderboard(deps.Service))
	mux.GET("/api/sessions/:id", serveSnapshot(deps.Service))
	mux.GET("/ws", NewWSHandler(deps.Service, logger).ServeWS)
	mux.GET("/healthz", serveHealth)
	if deps.Metrics != nil {
		mux.Handler(http.MethodGet, "/metrics", deps.Metrics.Handler())
	}

	return logRequests(mux, logger)
}
