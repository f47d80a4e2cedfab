package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"

	"survival-quiz/internal/app"
	"survival-quiz/internal/domain"
)

const sendBuffer = 32

type WSHandler struct {
	service  *app.GameService
	logger   *zap.SugaredLogger
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.GameService, logger *zap.SugaredLogger) *WSHandler {
	return &WSHandler{
		service: service,
		logger:  logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type answerPayload struct {
	Index *int `json:"index"`
}

type errorPayload struct {
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// ServeWS upgrades the request and runs one survival session over the socket.
// The player is given by the name and avatar query parameters.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	name := r.URL.Query().Get("name")
	avatar := r.URL.Query().Get("avatar")

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warnw("ws upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	send := make(chan app.Update, sendBuffer)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				h.logger.Debugw("ws write error", "error", err)
				return
			}
		}
	}()

	presenter := app.PresenterFunc(func(update app.Update) {
		select {
		case send <- update:
		case <-closeSignals:
		}
	})

	session, err := h.service.Start(r.Context(), name, avatar, presenter)
	if err != nil {
		send <- errorUpdate(err)
		close(send)
		<-writerDone
		return
	}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		switch inbound.Type {
		case "answer":
			var payload answerPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil || payload.Index == nil {
				presenter.Present(errorUpdate(errors.New("invalid answer payload")))
				continue
			}
			session.Answer(*payload.Index)
		case "restart":
			session.Restart()
		default:
			presenter.Present(errorUpdate(errors.New("unsupported message type")))
		}
	}

	close(closeSignals)
	h.service.End(context.WithoutCancel(r.Context()), session)
	close(send)
	<-writerDone
}

func errorUpdate(err error) app.Update {
	payload := errorPayload{Message: err.Error()}
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		payload.Field = verr.Field
	}
	return app.Update{Type: "error", Payload: payload}
}
