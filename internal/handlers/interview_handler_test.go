package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"vocalhire/interview/internal/models"
	"vocalhire/interview/internal/session"
	"vocalhire/interview/internal/speech"
	"vocalhire/interview/internal/store"
)

func newTestInterviewHandler(t *testing.T) (*InterviewHandler, *store.MemoryStore) {
	t.Helper()
	st := store.NewMemoryStore()
	sessions, _ := newTestSessions(t, st)
	return NewInterviewHandler(sessions, st, zap.NewNop()), st
}

func createInterview(t *testing.T, h *InterviewHandler) models.CreateInterviewResponse {
	t.Helper()
	rec := route(http.MethodPost, "/interviews", h.CreateHandler, "/interviews",
		map[string]any{"role": "  Software   Engineer ", "duration": 15, "difficulty": "Medium", "cameraEnabled": true, "microphoneEnabled": true},
		validated[*models.CreateInterviewRequest]())
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}
	return decodeBody[models.CreateInterviewResponse](t, rec)
}

func TestCreateHandler_StartsSession(t *testing.T) {
	h, st := newTestInterviewHandler(t)

	resp := createInterview(t, h)

	if resp.Interview == nil || resp.Interview.ID == "" {
		t.Fatal("expected an interview record with an id")
	}
	if resp.Interview.Role != "Software Engineer" {
		t.Errorf("expected normalized role, got %q", resp.Interview.Role)
	}
	if resp.Interview.Category != "Technology" {
		t.Errorf("expected category Technology, got %q", resp.Interview.Category)
	}
	if len(resp.Questions) == 0 {
		t.Error("expected questions for the role")
	}
	if want := "/api/v1/interviews/" + resp.Interview.ID + "/ws"; resp.SocketURL != want {
		t.Errorf("expected socket url %s, got %s", want, resp.SocketURL)
	}

	stored, err := st.GetInterview(context.Background(), resp.Interview.ID)
	if err != nil {
		t.Fatalf("interview not persisted: %v", err)
	}
	if stored.Status != models.StatusInProgress {
		t.Errorf("expected status %s, got %s", models.StatusInProgress, stored.Status)
	}
	if h.sessions.Count() != 1 {
		t.Errorf("expected one live session, got %d", h.sessions.Count())
	}
}

func TestCreateHandler_RejectsMissingRole(t *testing.T) {
	h, _ := newTestInterviewHandler(t)

	rec := route(http.MethodPost, "/interviews", h.CreateHandler, "/interviews",
		map[string]any{"duration": 15}, validated[*models.CreateInterviewRequest]())

	expectError(t, rec, http.StatusBadRequest, "missing_role")
}

func TestListAndGetHandlers(t *testing.T) {
	h, _ := newTestInterviewHandler(t)

	rec := route(http.MethodGet, "/interviews", h.ListHandler, "/interviews", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	records := decodeBody[[]models.InterviewRecord](t, rec)
	if len(records) != 2 {
		t.Errorf("expected the two seeded interviews, got %d", len(records))
	}

	rec = route(http.MethodGet, "/interviews/{id}", h.GetHandler, "/interviews/sample-2", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if got := decodeBody[models.InterviewRecord](t, rec); got.Role != "Marketing Manager" {
		t.Errorf("expected sample-2 role, got %q", got.Role)
	}

	rec = route(http.MethodGet, "/interviews/{id}", h.GetHandler, "/interviews/missing", nil)
	expectError(t, rec, http.StatusNotFound, "interview_not_found")
}

func TestSessionHandler(t *testing.T) {
	h, _ := newTestInterviewHandler(t)
	created := createInterview(t, h)

	rec := route(http.MethodGet, "/interviews/{id}/session", h.SessionHandler, "/interviews/"+created.Interview.ID+"/session", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	snap := decodeBody[session.Snapshot](t, rec)
	if snap.TimeRemaining != 15*60 {
		t.Errorf("expected full time remaining, got %d", snap.TimeRemaining)
	}
	if snap.Active {
		t.Error("session should wait for the browser before starting")
	}

	rec = route(http.MethodGet, "/interviews/{id}/session", h.SessionHandler, "/interviews/sample-1/session", nil)
	expectError(t, rec, http.StatusNotFound, "session_not_found")
}

func TestEndHandler_CompletesInterview(t *testing.T) {
	h, _ := newTestInterviewHandler(t)
	created := createInterview(t, h)
	path := "/interviews/" + created.Interview.ID + "/end"

	rec := route(http.MethodPost, "/interviews/{id}/end", h.EndHandler, path,
		map[string]string{"recordingUrl": "blob:video"}, validated[*models.EndInterviewRequest]())
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	record := decodeBody[models.InterviewRecord](t, rec)
	if record.Status != models.StatusCompleted {
		t.Errorf("expected completed record, got %s", record.Status)
	}
	if record.EndReason != session.EndManual {
		t.Errorf("expected manual end reason, got %q", record.EndReason)
	}
	if record.VideoRecording != "blob:video" {
		t.Errorf("expected recording url to be kept, got %q", record.VideoRecording)
	}

	rec = route(http.MethodPost, "/interviews/{id}/end", h.EndHandler, path, map[string]string{}, validated[*models.EndInterviewRequest]())
	expectError(t, rec, http.StatusConflict, "session_not_active")
}

func TestWebSocketHandler_UnknownSession(t *testing.T) {
	h, _ := newTestInterviewHandler(t)

	rec := route(http.MethodGet, "/interviews/{id}/ws", h.WebSocketHandler, "/interviews/nope/ws", nil)

	expectError(t, rec, http.StatusNotFound, "session_not_found")
}

func readUntil(t *testing.T, conn *websocket.Conn, frameType string) speech.InboundFrame {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for {
		_ = conn.SetReadDeadline(deadline)
		var frame speech.InboundFrame
		if err := conn.ReadJSON(&frame); err != nil {
			t.Fatalf("did not receive %q frame: %v", frameType, err)
		}
		if frame.Type == frameType {
			return frame
		}
	}
}

func TestWebSocketHandler_DrivesSession(t *testing.T) {
	h, st := newTestInterviewHandler(t)
	created := createInterview(t, h)

	router := chi.NewRouter()
	router.Get("/interviews/{id}/ws", h.WebSocketHandler)
	server := httptest.NewServer(router)
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/interviews/" + created.Interview.ID + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	defer conn.Close()

	if err := conn.WriteMessage(websocket.TextMessage, []byte("not json")); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	readUntil(t, conn, speech.CmdError)

	if err := conn.WriteJSON(map[string]any{"type": "start", "data": map[string]bool{"permissionsGranted": true, "speechSupported": true}}); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	readUntil(t, conn, speech.CmdState)

	if err := conn.WriteJSON(map[string]any{"type": "end", "data": map[string]string{"reason": session.EndManual}}); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	ended := readUntil(t, conn, speech.CmdEnded)

	var payload session.EndedFrame
	if err := json.Unmarshal(ended.Data, &payload); err != nil {
		t.Fatalf("invalid ended payload: %v", err)
	}
	if payload.Record.Status != models.StatusCompleted {
		t.Errorf("expected completed record in ended frame, got %s", payload.Record.Status)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if stored, err := st.GetInterview(context.Background(), created.Interview.ID); err == nil && stored.Status == models.StatusCompleted {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Error("completed interview was not persisted")
}
