package handlers

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"vocalhire/interview/internal/llm"
	"vocalhire/interview/internal/middleware"
	"vocalhire/interview/internal/models"
	"vocalhire/interview/internal/store"
	"vocalhire/interview/internal/utils"
)

// ChatClient answers mentor messages.
type ChatClient interface {
	Chat(ctx context.Context, req models.ChatRequest, apiKey string) (*models.ChatResponse, error)
}

type MentorHandler struct {
	client ChatClient
	store  store.Store
	logger *zap.Logger
}

func NewMentorHandler(client ChatClient, st store.Store, logger *zap.Logger) *MentorHandler {
	return &MentorHandler{
		client: client,
		store:  st,
		logger: logger,
	}
}

type providerErrorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable"`
}

// ChatHandler handles POST /api/v1/mentor/chat
func (mh *MentorHandler) ChatHandler(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.ChatRequest](r)
	req.Settings.Language = utils.NormalizeLanguage(req.Settings.Language)

	resp, err := mh.client.Chat(r.Context(), *req, apiKeyOverride(r.Context(), mh.store))
	if err != nil {
		var perr *llm.ProviderError
		if errors.As(err, &perr) {
			utils.JSON(w, perr.HTTPStatus(), providerErrorResponse{
				Code:      perr.Code,
				Message:   perr.UserMessage(),
				Retryable: perr.Retryable(),
			})
			return
		}
		mh.logger.Error("Mentor chat failed", zap.String("request_id", req.RequestID), zap.Error(err))
		utils.Error(w, http.StatusInternalServerError, "chat_error", "Failed to generate a reply")
		return
	}

	utils.JSON(w, http.StatusOK, resp)
}
