package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"wavefront/internal/types"
)

// streamWriteTimeout bounds each websocket write so a stalled client
// cannot pin the handler goroutine.
const streamWriteTimeout = 10 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// The stream carries no credentials and no mutating operations.
	CheckOrigin: func(*http.Request) bool { return true },
}

// HandleStream handles GET /v1/events/{eventID}/stream. It upgrades to a
// websocket and pushes a fresh EventState at the cadence the scheduler
// derives for the observer's position, closing normally once the event no
// longer warrants observation.
func (h *EventHandler) HandleStream(w http.ResponseWriter, r *http.Request) {
	pos, err := parsePosition(r)
	if err != nil {
		Error(w, r, err)
		return
	}

	eventID := chi.URLParam(r, "eventID")

	// Resolve the event before upgrading so lookup failures still map to
	// plain HTTP statuses.
	if _, _, err := h.areaFor(r.Context(), eventID); err != nil {
		Error(w, r, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error response.
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// The stream is server-push only, but control frames must still be
	// read for close detection to work.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	h.streamLoop(ctx, conn, eventID, pos)
}

func (h *EventHandler) streamLoop(ctx context.Context, conn *websocket.Conn, eventID string, pos *types.Position) {
	logger := h.logger.With(slog.String("event_id", eventID))

	for {
		st, tr, err := h.stateFor(ctx, eventID, pos)
		if err != nil {
			logger.Warn("stream state derivation failed", "error", err)
			h.closeStream(conn, websocket.CloseInternalServerErr, "state unavailable")
			return
		}

		_ = conn.SetWriteDeadline(time.Now().Add(streamWriteTimeout))
		if err := conn.WriteJSON(st); err != nil {
			logger.Debug("stream write failed", "error", err)
			return
		}

		sched := h.scheduler.Schedule(tr.Definition(), st, h.clock.Now())
		if !sched.ShouldObserve {
			logger.Info("stream complete", slog.String("reason", sched.Reason))
			h.closeStream(conn, websocket.CloseNormalClosure, sched.Reason)
			return
		}

		if err := h.clock.Sleep(ctx, sched.Interval); err != nil {
			return
		}
	}
}

func (h *EventHandler) closeStream(conn *websocket.Conn, code int, reason string) {
	msg := websocket.FormatCloseMessage(code, reason)
	deadline := time.Now().Add(streamWriteTimeout)
	_ = conn.WriteControl(websocket.CloseMessage, msg, deadline)
}
