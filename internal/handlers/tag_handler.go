package handlers

import (
	"net/http"

	"cfp-engine/internal/service"
)

// TagHandler handles tag search and the suggested tag list
type TagHandler struct {
	tagService *service.TagService
}

// NewTagHandler creates a new tag handler
func NewTagHandler(tagService *service.TagService) *TagHandler {
	return &TagHandler{
		tagService: tagService,
	}
}

// CreateTagRequest represents a suggested tag
type CreateTagRequest struct {
	Name string `json:"name"`
}

// Search finds tags by prefix
// @Summary Search tags
// @Tags Tags
// @Produce json
// @Security BearerAuth
// @Param q query string false "Name prefix"
// @Param suggested query bool false "Only suggested tags"
// @Param limit query int false "Maximum results"
// @Success 200 {array} models.Tag "Tags"
// @Router /tags [get]
func (h *TagHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	tags, err := h.tagService.Search(r.Context(), q.Get("q"), q.Get("suggested") == "true", queryInt(r, "limit", 0))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, tags)
}

// Create adds a suggested tag, or marks an existing tag as suggested
// @Summary Create suggested tag
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateTagRequest true "Tag"
// @Success 201 {object} models.Tag "Tag"
// @Failure 400 {object} ErrorResponse "Validation failed"
// @Router /admin/tags [post]
func (h *TagHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateTagRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	tag, err := h.tagService.CreateSuggested(r.Context(), req.Name)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, tag)
}

// Delete removes a tag
// @Summary Delete tag
// @Tags Admin
// @Security BearerAuth
// @Param id path int true "Tag ID"
// @Success 204 "Deleted"
// @Failure 404 {object} ErrorResponse "Not found"
// @Router /admin/tags/{id} [delete]
func (h *TagHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.tagService.Delete(r.Context(), id); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
