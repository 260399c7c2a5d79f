package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"vocalhire/interview/internal/feedback"
	"vocalhire/interview/internal/models"
	"vocalhire/interview/internal/store"
	"vocalhire/interview/internal/utils"
)

type FeedbackHandler struct {
	feedback *feedback.Manager
	store    store.Store
	logger   *zap.Logger
}

func NewFeedbackHandler(fm *feedback.Manager, st store.Store, logger *zap.Logger) *FeedbackHandler {
	return &FeedbackHandler{
		feedback: fm,
		store:    st,
		logger:   logger,
	}
}

// GenerateHandler handles POST /api/v1/interviews/{id}/feedback. The response
// is always a report; model failures degrade to the local fallback.
func (fh *FeedbackHandler) GenerateHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	resp, err := fh.feedback.Generate(r.Context(), id, apiKeyOverride(r.Context(), fh.store))
	switch {
	case errors.Is(err, store.ErrNotFound):
		utils.Error(w, http.StatusNotFound, "interview_not_found", "Interview not found")
		return
	case errors.Is(err, feedback.ErrNotCompleted):
		utils.Error(w, http.StatusConflict, "interview_in_progress", "Feedback is available once the interview has ended")
		return
	case err != nil:
		fh.logger.Error("Failed to generate feedback", zap.String("interview_id", id), zap.Error(err))
		utils.Error(w, http.StatusInternalServerError, "feedback_error", "Failed to save feedback")
		return
	}

	utils.JSON(w, http.StatusOK, resp)
}

// apiKeyOverride reads the user's Gemini key from settings. The value is a
// JSON string or an object with an apiKey field; anything else means no key.
func apiKeyOverride(ctx context.Context, st store.Store) string {
	raw, err := st.GetSetting(ctx, models.SettingGeminiAPIKey)
	if err != nil {
		return ""
	}
	var key string
	if err := json.Unmarshal(raw, &key); err == nil {
		return strings.TrimSpace(key)
	}
	var obj struct {
		APIKey string `json:"apiKey"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		return strings.TrimSpace(obj.APIKey)
	}
	return ""
}
