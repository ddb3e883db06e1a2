package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhouzirui/persona-widget/internal/handler"
	"github.com/zhouzirui/persona-widget/internal/model/persona"
	chatservice "github.com/zhouzirui/persona-widget/internal/service/chat"
)

func newUpstream(t *testing.T) *httptest.Server {
	t.Helper()
	router := handler.NewRouter(persona.NewMemoryStore(persona.Seed()), chatservice.NewService(nil), zerolog.Nop())
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func TestPersonasAgainstUpstream(t *testing.T) {
	srv := newUpstream(t)
	c := New(srv.URL + "/")

	catalog, err := c.Personas(context.Background())
	require.NoError(t, err)

	list := catalog.List()
	require.Len(t, list, 8)
	assert.Equal(t, "default", list[0].ID)
	assert.Equal(t, "Default Assistant", list[0].Name)
	assert.Equal(t, "surfer", list[7].ID)
}

func TestChatAgainstUpstream(t *testing.T) {
	srv := newUpstream(t)
	c := New(srv.URL)

	reply, err := c.Chat(context.Background(), ChatRequest{Message: "ahoy", Persona: "pirate", SessionID: "session_1"})
	require.NoError(t, err)
	assert.Equal(t, "*Pirate here.* You said: ahoy", reply.Message)
	assert.Equal(t, "pirate", reply.Persona)
}

func TestChatServerReportedError(t *testing.T) {
	srv := newUpstream(t)
	c := New(srv.URL)

	_, err := c.Chat(context.Background(), ChatRequest{Message: "hi", Persona: "ghost", SessionID: "s"})

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "Invalid persona", apiErr.Message)
	assert.False(t, errors.Is(err, ErrTransport))
}

func TestChatSendsWireFormat(t *testing.T) {
	var got map[string]string
	r := chi.NewRouter()
	r.Post("/api/chat", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"message":"ok"}`))
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	_, err := New(srv.URL).Chat(context.Background(), ChatRequest{Message: "m", Persona: "p", SessionID: "s"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"message": "m", "persona": "p", "session_id": "s"}, got)
}

func TestChatErrorWithoutMessage(t *testing.T) {
	r := chi.NewRouter()
	r.Post("/api/chat", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{}`))
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	_, err := New(srv.URL).Chat(context.Background(), ChatRequest{Message: "m"})

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Empty(t, apiErr.Message)
	assert.Equal(t, "chat upstream returned 500", apiErr.Error())
}

func TestChatUndecodableBodyIsTransportError(t *testing.T) {
	r := chi.NewRouter()
	r.Post("/api/chat", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`<html>bad gateway</html>`))
	})
	r.Post("/api/clear", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	srv := httptest.NewServer(r)
	defer srv.Close()
	c := New(srv.URL)

	_, err := c.Chat(context.Background(), ChatRequest{Message: "m"})
	assert.ErrorIs(t, err, ErrTransport)

	err = c.Clear(context.Background(), ClearRequest{SessionID: "s"})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
}

func TestUnreachableUpstream(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	c := New(url)
	ctx := context.Background()

	_, err := c.Personas(ctx)
	assert.ErrorIs(t, err, ErrTransport)

	_, err = c.Chat(ctx, ChatRequest{Message: "m"})
	assert.ErrorIs(t, err, ErrTransport)

	err = c.Clear(ctx, ClearRequest{SessionID: "s"})
	assert.ErrorIs(t, err, ErrTransport)
}

func TestClearAgainstUpstream(t *testing.T) {
	srv := newUpstream(t)

	err := New(srv.URL).Clear(context.Background(), ClearRequest{SessionID: "s", Persona: "default"})
	assert.NoError(t, err)
}

func TestWithTimeout(t *testing.T) {
	release := make(chan struct{})
	r := chi.NewRouter()
	r.Post("/api/chat", func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	srv := httptest.NewServer(r)
	defer srv.Close()
	defer close(release)

	_, err := New(srv.URL, WithTimeout(50*time.Millisecond)).Chat(context.Background(), ChatRequest{Message: "m"})
	assert.ErrorIs(t, err, ErrTransport)
}
