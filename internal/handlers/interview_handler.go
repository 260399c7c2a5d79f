package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"vocalhire/interview/internal/middleware"
	"vocalhire/interview/internal/models"
	"vocalhire/interview/internal/session"
	"vocalhire/interview/internal/speech"
	"vocalhire/interview/internal/store"
	"vocalhire/interview/internal/utils"
)

const (
	endTimeout = 15 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
	maxFrame   = 1 << 20
)

type InterviewHandler struct {
	sessions *session.Manager
	store    store.Store
	logger   *zap.Logger
	upgrader websocket.Upgrader
}

func NewInterviewHandler(sessions *session.Manager, st store.Store, logger *zap.Logger) *InterviewHandler {
	return &InterviewHandler{
		sessions: sessions,
		store:    st,
		logger:   logger,
		upgrader: websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
	}
}

// CreateHandler handles POST /api/v1/interviews
func (h *InterviewHandler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.CreateInterviewRequest](r)
	settings := req.InterviewSettings
	settings.Role = utils.NormalizeRole(settings.Role)

	record, questions, err := h.sessions.Create(r.Context(), settings)
	if err != nil {
		h.logger.Error("Failed to create interview", zap.Error(err))
		utils.Error(w, http.StatusInternalServerError, "create_failed", "Failed to create interview")
		return
	}

	utils.JSON(w, http.StatusCreated, models.CreateInterviewResponse{
		Interview: record,
		Questions: questions,
		SocketURL: "/api/v1/interviews/" + record.ID + "/ws",
	})
}

// ListHandler handles GET /api/v1/interviews
func (h *InterviewHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	records, err := h.store.ListInterviews(r.Context())
	if err != nil {
		h.logger.Error("Failed to list interviews", zap.Error(err))
		utils.Error(w, http.StatusInternalServerError, "store_error", "Failed to list interviews")
		return
	}
	utils.JSON(w, http.StatusOK, records)
}

// GetHandler handles GET /api/v1/interviews/{id}
func (h *InterviewHandler) GetHandler(w http.ResponseWriter, r *http.Request) {
	record, ok := loadInterview(w, r, h.store, h.logger)
	if !ok {
		return
	}
	utils.JSON(w, http.StatusOK, record)
}

// SessionHandler handles GET /api/v1/interviews/{id}/session
func (h *InterviewHandler) SessionHandler(w http.ResponseWriter, r *http.Request) {
	snap, err := h.sessions.Snapshot(chi.URLParam(r, "id"))
	if err != nil {
		utils.Error(w, http.StatusNotFound, "session_not_found", "No live session for this interview")
		return
	}
	utils.JSON(w, http.StatusOK, snap)
}

// EndHandler handles POST /api/v1/interviews/{id}/end
func (h *InterviewHandler) EndHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	req := middleware.GetValidatedRequest[*models.EndInterviewRequest](r)

	ctx, cancel := context.WithTimeout(r.Context(), endTimeout)
	defer cancel()

	err := h.sessions.End(ctx, id, req.Reason, req.RecordingURL)
	switch {
	case errors.Is(err, session.ErrNotFound), errors.Is(err, session.ErrEnded):
		utils.Error(w, http.StatusConflict, "session_not_active", "Interview is not running")
		return
	case err != nil:
		h.logger.Error("Failed to end interview", zap.String("interview_id", id), zap.Error(err))
		utils.Error(w, http.StatusGatewayTimeout, "end_timeout", "Interview did not finish in time")
		return
	}

	record, err := h.store.GetInterview(r.Context(), id)
	if err != nil {
		h.logger.Error("Ended interview missing from store", zap.String("interview_id", id), zap.Error(err))
		utils.Error(w, http.StatusInternalServerError, "store_error", "Failed to load interview")
		return
	}
	utils.JSON(w, http.StatusOK, record)
}

// WebSocketHandler handles GET /api/v1/interviews/{id}/ws. The browser owns
// speech synthesis, recognition and media; this socket carries its events in
// and the session's commands out.
func (h *InterviewHandler) WebSocketHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	runner, err := h.sessions.Get(id)
	if err != nil {
		utils.Error(w, http.StatusNotFound, "session_not_found", "No live session for this interview")
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("WebSocket upgrade failed", zap.String("interview_id", id), zap.Error(err))
		return
	}
	defer conn.Close()

	transport := speech.NewWSTransport(conn)
	runner.Attach(transport)
	defer runner.Detach(transport)

	logger := h.logger.With(zap.String("interview_id", id))
	logger.Info("Browser attached to interview")

	conn.SetReadLimit(maxFrame)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	stopPing := make(chan struct{})
	defer close(stopPing)
	go keepAlive(conn, stopPing)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Warn("WebSocket closed unexpectedly", zap.Error(err))
			}
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))

		var frame speech.InboundFrame
		if err := json.Unmarshal(data, &frame); err != nil {
			_ = transport.Send(speech.Frame{Type: speech.CmdError, Data: "invalid_frame"})
			continue
		}
		ev, err := session.DecodeEvent(frame)
		if err != nil {
			_ = transport.Send(speech.Frame{Type: speech.CmdError, Data: err.Error()})
			continue
		}
		if err := runner.Send(ev); err != nil {
			return
		}
	}
}

func keepAlive(conn *websocket.Conn, stop <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second)); err != nil {
				return
			}
		case <-stop:
			return
		}
	}
}

func loadInterview(w http.ResponseWriter, r *http.Request, st store.Store, logger *zap.Logger) (*models.InterviewRecord, bool) {
	id := chi.URLParam(r, "id")
	record, err := st.GetInterview(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		utils.Error(w, http.StatusNotFound, "interview_not_found", "Interview not found")
		return nil, false
	}
	if err != nil {
		logger.Error("Failed to load interview", zap.String("interview_id", id), zap.Error(err))
		utils.Error(w, http.StatusInternalServerError, "store_error", "Failed to load interview")
		return nil, false
	}
	return record, true
}
