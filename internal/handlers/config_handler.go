package handlers

import (
	"net/http"

	"cfp-engine/internal/config"
	"cfp-engine/internal/models"
)

// ConfigHandler handles configuration requests
type ConfigHandler struct {
	config *config.Config
}

// NewConfigHandler creates a new config handler
func NewConfigHandler(cfg *config.Config) *ConfigHandler {
	return &ConfigHandler{
		config: cfg,
	}
}

// AppConfigResponse is the public configuration for frontends
type AppConfigResponse struct {
	Name                     string   `json:"name"`
	Version                  string   `json:"version"`
	ConferenceURL            string   `json:"conference_url"`
	MaxSubmissionsPerSpeaker int      `json:"max_submissions_per_speaker"`
	ReviewScoreMax           int      `json:"review_score_max"`
	SubmissionTypes          []string `json:"submission_types"`
	Levels                   []string `json:"levels"`
}

// GetAppConfig returns the public app configuration for the frontend
// @Summary Get app configuration
// @Description Get public CFP configuration (quota, score range, talk types)
// @Tags Configuration
// @Produce json
// @Success 200 {object} AppConfigResponse "App configuration"
// @Router /config/app [get]
func (h *ConfigHandler) GetAppConfig(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, AppConfigResponse{
		Name:                     h.config.App.Name,
		Version:                  h.config.App.Version,
		ConferenceURL:            h.config.App.ConferenceURL,
		MaxSubmissionsPerSpeaker: h.config.CFP.MaxSubmissionsPerSpeaker,
		ReviewScoreMax:           h.config.CFP.ReviewScoreMax,
		SubmissionTypes:          []string{models.TypeLightning, models.TypeStandard, models.TypeWorkshop},
		Levels:                   []string{models.LevelBeginner, models.LevelIntermediate, models.LevelAdvanced},
	})
}
