package handlers

import (
	"net/http"

	"cfp-engine/internal/apperr"
	"cfp-engine/internal/middleware"
	"cfp-engine/internal/models"
	"cfp-engine/internal/service"
)

// SpeakerHandler handles the speaker's own profile
type SpeakerHandler struct {
	speakerService *service.SpeakerService
}

// NewSpeakerHandler creates a new speaker handler
func NewSpeakerHandler(speakerService *service.SpeakerService) *SpeakerHandler {
	return &SpeakerHandler{
		speakerService: speakerService,
	}
}

// SpeakerProfileResponse is a speaker profile with its completeness
type SpeakerProfileResponse struct {
	*models.Speaker
	ProfileComplete bool     `json:"profile_complete"`
	MissingFields   []string `json:"missing_fields"`
}

// currentSpeaker returns the speaker of an authenticated request
func currentSpeaker(w http.ResponseWriter, r *http.Request) (*models.Speaker, bool) {
	p, ok := middleware.GetPrincipal(r)
	if !ok || p.Speaker == nil {
		respondWithError(w, http.StatusForbidden, apperr.KindForbidden, ErrMsgSpeakerRequired)
		return nil, false
	}
	return p.Speaker, true
}

func newProfileResponse(sp *models.Speaker) SpeakerProfileResponse {
	return SpeakerProfileResponse{
		Speaker:         sp,
		ProfileComplete: service.IsProfileComplete(sp),
		MissingFields:   service.MissingProfileFields(sp),
	}
}

// GetProfile returns the current speaker's profile
// @Summary Get speaker profile
// @Description Get the authenticated speaker's profile and whether it is complete enough to submit
// @Tags Speakers
// @Produce json
// @Security BearerAuth
// @Success 200 {object} SpeakerProfileResponse "Speaker profile"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 403 {object} ErrorResponse "Not a speaker"
// @Router /speakers/me [get]
func (h *SpeakerHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	sp, ok := currentSpeaker(w, r)
	if !ok {
		return
	}

	fresh, err := h.speakerService.GetSpeaker(r.Context(), sp.ID)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, newProfileResponse(fresh))
}

// UpdateProfile replaces the current speaker's profile
// @Summary Update speaker profile
// @Description Update the authenticated speaker's profile. URLs must be absolute http(s) URLs.
// @Tags Speakers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.ProfileInput true "Profile"
// @Success 200 {object} SpeakerProfileResponse "Updated profile"
// @Failure 400 {object} ErrorResponse "Validation failed"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Router /speakers/me [put]
func (h *SpeakerHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	sp, ok := currentSpeaker(w, r)
	if !ok {
		return
	}

	var req service.ProfileInput
	if !decodeJSON(w, r, &req) {
		return
	}

	updated, err := h.speakerService.UpdateProfile(r.Context(), sp.ID, req)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, newProfileResponse(updated))
}

// GetEligibility reports whether the speaker may submit another talk
// @Summary Get submission eligibility
// @Description Check profile completeness and the submission quota
// @Tags Speakers
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.Eligibility "Eligibility"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Router /speakers/me/eligibility [get]
func (h *SpeakerHandler) GetEligibility(w http.ResponseWriter, r *http.Request) {
	sp, ok := currentSpeaker(w, r)
	if !ok {
		return
	}

	eligibility, err := h.speakerService.CanSubmit(r.Context(), sp.ID)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, eligibility)
}
