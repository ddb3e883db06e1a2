package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	chatmodel "github.com/zhouzirui/persona-widget/internal/model/chat"
	"github.com/zhouzirui/persona-widget/internal/model/persona"
	chatservice "github.com/zhouzirui/persona-widget/internal/service/chat"
)

type brokenResponder struct{}

func (brokenResponder) Reply(context.Context, persona.Persona, []chatmodel.Turn, string) (string, error) {
	return "", errors.New("quota exceeded")
}

func setupRouter(responder chatservice.Responder) (*chi.Mux, *chatservice.Service) {
	chatSvc := chatservice.NewService(responder)
	store := persona.NewMemoryStore(persona.Seed())
	handler := New(chatSvc, store, zerolog.Nop())

	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	return r, chatSvc
}

func post(r http.Handler, path string, body any) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func decodeBody(t *testing.T, resp *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var out map[string]string
	if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return out
}

func TestChatValidPersona(t *testing.T) {
	r, _ := setupRouter(nil)

	resp := post(r, "/chat", map[string]string{"message": "ahoy", "persona": "pirate", "session_id": "s1"})

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	body := decodeBody(t, resp)
	if body["message"] != "*Pirate here.* You said: ahoy" {
		t.Fatalf("unexpected reply %q", body["message"])
	}
	if body["persona"] != "pirate" {
		t.Fatalf("unexpected persona %q", body["persona"])
	}
}

func TestChatDefaultsPersona(t *testing.T) {
	r, _ := setupRouter(nil)

	resp := post(r, "/chat", map[string]string{"message": "hi"})

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if got := decodeBody(t, resp)["persona"]; got != "default" {
		t.Fatalf("expected default persona, got %q", got)
	}
}

func TestChatInvalidPersona(t *testing.T) {
	r, _ := setupRouter(nil)

	resp := post(r, "/chat", map[string]string{"message": "hi", "persona": "non-existent"})

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
	if got := decodeBody(t, resp)["error"]; got != "Invalid persona" {
		t.Fatalf("unexpected error %q", got)
	}
}

func TestChatMissingMessage(t *testing.T) {
	r, _ := setupRouter(nil)

	resp := post(r, "/chat", map[string]string{"persona": "pirate"})

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
	if got := decodeBody(t, resp)["error"]; got != "No message provided" {
		t.Fatalf("unexpected error %q", got)
	}
}

func TestChatResponderFailure(t *testing.T) {
	r, _ := setupRouter(brokenResponder{})

	resp := post(r, "/chat", map[string]string{"message": "hi"})

	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.Code)
	}
	if got := decodeBody(t, resp)["error"]; got != "quota exceeded" {
		t.Fatalf("unexpected error %q", got)
	}
}

func TestClearResetsSession(t *testing.T) {
	r, svc := setupRouter(nil)

	post(r, "/chat", map[string]string{"message": "hi", "session_id": "s1"})
	resp := post(r, "/clear", map[string]string{"session_id": "s1", "persona": "default"})

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if got := decodeBody(t, resp)["status"]; got != "success" {
		t.Fatalf("unexpected status %q", got)
	}
	turns, err := svc.LoadTranscript(context.Background(), "s1")
	if err != nil {
		t.Fatalf("LoadTranscript err: %v", err)
	}
	if len(turns) != 0 {
		t.Fatalf("expected empty history, got %d turns", len(turns))
	}
}

func TestChatInvalidBody(t *testing.T) {
	r, _ := setupRouter(nil)

	req := httptest.NewRequest(http.MethodPost, "/chat", bytes.NewReader([]byte("{")))
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestHistoryListsTurns(t *testing.T) {
	r, _ := setupRouter(nil)
	post(r, "/chat", map[string]string{"message": "ahoy", "persona": "pirate", "session_id": "s1"})

	req := httptest.NewRequest(http.MethodGet, "/history/s1", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var body struct {
		SessionID string           `json:"session_id"`
		Turns     []chatmodel.Turn `json:"turns"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.SessionID != "s1" || len(body.Turns) != 2 {
		t.Fatalf("unexpected history %+v", body)
	}
	if body.Turns[0].Content != "ahoy" || body.Turns[1].PersonaID != "pirate" {
		t.Fatalf("unexpected turns %+v", body.Turns)
	}
}

func TestHistoryUnknownSession(t *testing.T) {
	r, _ := setupRouter(nil)

	req := httptest.NewRequest(http.MethodGet, "/history/missing", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
	if got := decodeBody(t, resp)["error"]; got != "Session not found" {
		t.Fatalf("unexpected error %q", got)
	}
}
