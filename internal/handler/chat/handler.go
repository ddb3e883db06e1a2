package chat

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/zhouzirui/persona-widget/internal/model/persona"
	chatService "github.com/zhouzirui/persona-widget/internal/service/chat"
	"github.com/zhouzirui/persona-widget/pkg/utils"
)

// Handler 聊天服务的HTTP处理器
type Handler struct {
	chatSvc      *chatService.Service
	personaStore persona.Store
	logger       zerolog.Logger
}

// New 创建聊天处理器
func New(chatSvc *chatService.Service, personaStore persona.Store, logger zerolog.Logger) *Handler {
	return &Handler{
		chatSvc:      chatSvc,
		personaStore: personaStore,
		logger:       logger,
	}
}

// RegisterRoutes 注册聊天相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/chat", h.handleChat)
	r.Post("/clear", h.handleClear)
	r.Get("/history/{sessionID}", h.handleHistory)
}

// handleChat 处理一轮对话
func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Message   string `json:"message"`
		Persona   string `json:"persona"`
		SessionID string `json:"session_id"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if payload.Message == "" {
		utils.RespondError(w, http.StatusBadRequest, "No message provided")
		return
	}

	if payload.Persona == "" {
		payload.Persona = persona.DefaultID
	}
	p, ok := h.personaStore.FindByID(payload.Persona)
	if !ok {
		utils.RespondError(w, http.StatusBadRequest, "Invalid persona")
		return
	}

	reply, err := h.chatSvc.Reply(r.Context(), payload.SessionID, p, payload.Message)
	if err != nil {
		h.logger.Error().Err(err).Str("persona", p.ID).Str("session", payload.SessionID).Msg("[chat] reply failed")
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]string{
		"message": reply,
		"persona": p.ID,
	})
}

// handleClear 清空会话历史
func (h *Handler) handleClear(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		SessionID string `json:"session_id"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	h.chatSvc.Clear(r.Context(), payload.SessionID)
	utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

// handleHistory 返回会话的历史记录，便于排查上游状态
func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	turns, err := h.chatSvc.LoadTranscript(r.Context(), sessionID)
	if err != nil {
		if errors.Is(err, chatService.ErrSessionNotFound) {
			utils.RespondError(w, http.StatusNotFound, "Session not found")
			return
		}
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"session_id": sessionID,
		"turns":      turns,
	})
}
