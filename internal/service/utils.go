package service

import (
	"errors"
	"strings"

	"cfp-engine/internal/apperr"
	"cfp-engine/internal/models"
	"cfp-engine/pkg/validator"
)

// SystemActor is recorded as changed_by for automatic transitions
const SystemActor = "system"

// decisionTemplates are the templates cancelled when a decision no longer holds
var decisionTemplates = []string{models.TemplateDecisionAccepted, models.TemplateDecisionRejected}

// validationError converts validator output into a ValidationFailed error
func validationError(err error) error {
	var fields validator.FieldErrors
	if errors.As(err, &fields) {
		return apperr.Validation(fields)
	}
	return apperr.Validation(map[string]string{"body": err.Error()})
}

// normalizeTagNames trims names and drops blanks and case-insensitive duplicates, keeping the first spelling
func normalizeTagNames(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.Join(strings.Fields(validator.SanitizeString(n)), " ")
		if n == "" {
			continue
		}
		key := strings.ToLower(n)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, n)
	}
	return out
}

func tagIDs(tags []models.Tag) []uint {
	ids := make([]uint, len(tags))
	for i, t := range tags {
		ids[i] = t.ID
	}
	return ids
}

func stringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
