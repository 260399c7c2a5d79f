package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"vocalhire/interview/internal/middleware"
	"vocalhire/interview/internal/models"
	"vocalhire/interview/internal/store"
	"vocalhire/interview/internal/utils"
)

type SettingsHandler struct {
	store  store.Store
	logger *zap.Logger
}

func NewSettingsHandler(st store.Store, logger *zap.Logger) *SettingsHandler {
	return &SettingsHandler{store: st, logger: logger}
}

// GetHandler handles GET /api/v1/settings/{key}
func (sh *SettingsHandler) GetHandler(w http.ResponseWriter, r *http.Request) {
	key, ok := settingKey(w, r)
	if !ok {
		return
	}

	value, err := sh.store.GetSetting(r.Context(), key)
	if errors.Is(err, store.ErrNotFound) {
		utils.Error(w, http.StatusNotFound, "setting_not_found", "Setting not found")
		return
	}
	if err != nil {
		sh.logger.Error("Failed to read setting", zap.String("key", key), zap.Error(err))
		utils.Error(w, http.StatusInternalServerError, "store_error", "Failed to read setting")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(value)
}

// PutHandler handles PUT /api/v1/settings/{key}. The body is stored as-is
// and must be valid JSON.
func (sh *SettingsHandler) PutHandler(w http.ResponseWriter, r *http.Request) {
	key, ok := settingKey(w, r)
	if !ok {
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, middleware.MaxBodyBytes))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			utils.Error(w, http.StatusRequestEntityTooLarge, "body_too_large", "Request body is too large")
			return
		}
		utils.Error(w, http.StatusBadRequest, "invalid_body", "Failed to read request body")
		return
	}
	if !json.Valid(body) {
		utils.Error(w, http.StatusBadRequest, "invalid_json", "Setting value must be valid JSON")
		return
	}

	if err := sh.store.PutSetting(r.Context(), key, json.RawMessage(body)); err != nil {
		sh.logger.Error("Failed to save setting", zap.String("key", key), zap.Error(err))
		utils.Error(w, http.StatusInternalServerError, "store_error", "Failed to save setting")
		return
	}
	sh.logger.Info("Setting saved", zap.String("key", key))
	utils.JSON(w, http.StatusOK, models.Resp{OK: true, Info: key})
}

func settingKey(w http.ResponseWriter, r *http.Request) (string, bool) {
	key := chi.URLParam(r, "key")
	if !models.ValidSettingKeys[key] {
		utils.Error(w, http.StatusNotFound, "unknown_setting", "Unknown setting key")
		return "", false
	}
	return key, true
}
