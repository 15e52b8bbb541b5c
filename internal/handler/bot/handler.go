// Package bot exposes the conversation orchestrator to the widget.
package bot

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fuadeditingzone/fuadbot-backend/internal/model/persona"
	"github.com/fuadeditingzone/fuadbot-backend/internal/service/conversation"
	"github.com/fuadeditingzone/fuadbot-backend/internal/service/settings"
	"github.com/fuadeditingzone/fuadbot-backend/internal/service/unlock"
	"github.com/fuadeditingzone/fuadbot-backend/pkg/utils"
)

// Handler routes widget requests to the orchestrator.
type Handler struct {
	orch     *conversation.Orchestrator
	settings *settings.Service
}

// New creates the bot handler.
func New(orch *conversation.Orchestrator, settingsSvc *settings.Service) *Handler {
	return &Handler{orch: orch, settings: settingsSvc}
}

// RegisterRoutes mounts every widget operation.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/bot/state", h.handleState)
	r.Get("/bot/history", h.handleHistory)
	r.Post("/bot/open", h.handleOpen)
	r.Post("/bot/messages", h.handleSend)
	r.Post("/bot/messages/{messageID}/reactions", h.handleToggleReaction)
	r.Delete("/bot/messages/{messageID}", h.handleDelete)
	r.Post("/bot/reply", h.handleStartReply)
	r.Delete("/bot/reply", h.handleCancelReply)
	r.Put("/bot/language", h.handleSwitchLanguage)
	r.Post("/bot/unlock", h.handleUnlock)
	r.Post("/bot/unlock/submit", h.handleUnlockSubmit)
	r.Post("/bot/lock", h.handleLock)
	r.Get("/bot/settings", h.handleGetSettings)
	r.Put("/bot/settings", h.handleUpdateSettings)
}

func (h *Handler) handleState(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.orch.Snapshot())
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.orch.History())
}

func (h *Handler) handleOpen(w http.ResponseWriter, r *http.Request) {
	if err := h.orch.OpenSurface(r.Context()); err != nil {
		respondOrchestratorError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, h.orch.Snapshot())
}

func (h *Handler) handleSend(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Text    string `json:"text"`
		ReplyTo string `json:"replyTo"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.orch.SendUserMessage(r.Context(), payload.Text, payload.ReplyTo); err != nil {
		respondOrchestratorError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, h.orch.History())
}

func (h *Handler) handleToggleReaction(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Emoji string `json:"emoji"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Emoji == "" {
		utils.RespondError(w, http.StatusBadRequest, "emoji is required")
		return
	}

	if err := h.orch.ToggleReaction(chi.URLParam(r, "messageID"), payload.Emoji); err != nil {
		respondOrchestratorError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.orch.DeleteMessage(chi.URLParam(r, "messageID")); err != nil {
		respondOrchestratorError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) handleStartReply(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		MessageID string `json:"messageId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.MessageID == "" {
		utils.RespondError(w, http.StatusBadRequest, "messageId is required")
		return
	}

	if err := h.orch.StartReply(payload.MessageID); err != nil {
		respondOrchestratorError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, h.orch.Snapshot())
}

func (h *Handler) handleCancelReply(w http.ResponseWriter, r *http.Request) {
	h.orch.CancelReply()
	utils.RespondJSON(w, http.StatusOK, h.orch.Snapshot())
}

func (h *Handler) handleSwitchLanguage(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Language string `json:"language"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	lang, ok := persona.ParseLanguage(payload.Language)
	if !ok {
		utils.RespondError(w, http.StatusBadRequest, "unknown language")
		return
	}

	h.orch.SwitchLanguage(lang)
	utils.RespondJSON(w, http.StatusOK, h.orch.Snapshot())
}

type unlockResponse struct {
	Opened       bool              `json:"opened"`
	Challenge    *unlock.Challenge `json:"challenge,omitempty"`
	AttemptsLeft int               `json:"attemptsLeft,omitempty"`
	State        conversation.State `json:"state"`
}

func (h *Handler) handleUnlock(w http.ResponseWriter, r *http.Request) {
	opened := h.orch.UnlockPrivate()
	resp := unlockResponse{Opened: opened, State: h.orch.Snapshot()}
	if opened {
		if challenge, attemptsLeft, ok := h.orch.Gate().Current(); ok {
			resp.Challenge = &challenge
			resp.AttemptsLeft = attemptsLeft
		}
	}
	utils.RespondJSON(w, http.StatusOK, resp)
}

type submitResponse struct {
	unlock.Result
	Challenge *unlock.Challenge  `json:"challenge,omitempty"`
	State     conversation.State `json:"state"`
}

func (h *Handler) handleUnlockSubmit(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Input string `json:"input"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result := h.orch.Gate().Submit(payload.Input)
	resp := submitResponse{Result: result, State: h.orch.Snapshot()}
	if result.Outcome == unlock.OutcomeAdvanced || result.Outcome == unlock.OutcomeDenied {
		if challenge, _, ok := h.orch.Gate().Current(); ok {
			resp.Challenge = &challenge
		}
	}
	utils.RespondJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleLock(w http.ResponseWriter, r *http.Request) {
	h.orch.LockPrivate()
	utils.RespondJSON(w, http.StatusOK, h.orch.Snapshot())
}

func (h *Handler) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.settings.Get())
}

func (h *Handler) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var next settings.Settings
	if err := json.NewDecoder(r.Body).Decode(&next); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.settings.Update(next); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	utils.RespondJSON(w, http.StatusOK, h.settings.Get())
}

func respondOrchestratorError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, conversation.ErrEmptyMessage):
		utils.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, conversation.ErrSendInFlight):
		utils.RespondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, conversation.ErrMessageNotFound):
		utils.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, conversation.ErrBotOffline), errors.Is(err, conversation.ErrBotInitializing):
		utils.RespondError(w, http.StatusServiceUnavailable, err.Error())
	default:
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
	}
}
