package handlers

import (
	"net/http"

	"github.com/kozaktomas/face-reader/internal/config"
	"github.com/kozaktomas/face-reader/internal/constants"
)

// ConfigHandler handles configuration endpoints
type ConfigHandler struct {
	config *config.Config
	model  string
}

// NewConfigHandler creates a new config handler
func NewConfigHandler(cfg *config.Config, model string) *ConfigHandler {
	return &ConfigHandler{
		config: cfg,
		model:  model,
	}
}

// ConfigResponse represents the configuration response
type ConfigResponse struct {
	Provider      string `json:"provider"`
	Model         string `json:"model"`
	MaxUploadSize int64  `json:"max_upload_size"`
}

// Get returns the active provider and client-side upload limit
func (h *ConfigHandler) Get(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, ConfigResponse{
		Provider:      h.config.AI.Provider,
		Model:         h.model,
		MaxUploadSize: constants.MaxClientImageSize,
	})
}
