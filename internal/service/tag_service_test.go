package service

import (
	"context"
	"errors"
	"testing"

	"cfp-engine/internal/apperr"
	"cfp-engine/internal/models"
	"cfp-engine/internal/repository"
)

func TestNormalizeTagNames(t *testing.T) {
	got := normalizeTagNames([]string{" Go ", "go", "Cloud   Native", "", "cloud native", "Rust"})
	want := []string{"Go", "Cloud Native", "Rust"}
	if len(got) != len(want) {
		t.Fatalf("Expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Position %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestSuggestedTags(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()

	if _, err := svc.tags.CreateSuggested(ctx, "Kubernetes"); err != nil {
		t.Fatalf("CreateSuggested failed: %v", err)
	}
	if _, err := svc.tags.CreateSuggested(ctx, "kubernetes"); !errors.Is(err, apperr.ErrConflict) {
		t.Errorf("Expected Conflict, got %v", err)
	}

	created, err := svc.tags.ImportSuggested(ctx, []string{"Kubernetes", "Kafka", "Keycloak"})
	if err != nil {
		t.Fatalf("ImportSuggested failed: %v", err)
	}
	if created != 2 {
		t.Errorf("Expected 2 new tags, got %d", created)
	}

	tags, err := svc.tags.Search(ctx, "k", true, 0)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(tags) != 3 {
		t.Fatalf("Expected 3 suggested tags, got %+v", tags)
	}

	if err := svc.tags.Delete(ctx, tags[0].ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := svc.tags.Delete(ctx, tags[0].ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("Expected NotFound on second delete, got %v", err)
	}
}

func TestSearchEscapesWildcards(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()

	for _, name := range []string{"100% Go", "1000 services"} {
		if _, err := svc.tags.CreateSuggested(ctx, name); err != nil {
			t.Fatalf("CreateSuggested failed: %v", err)
		}
	}
	tags, err := svc.tags.Search(ctx, "100%", false, 10)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(tags) != 1 || tags[0].Name != "100% Go" {
		t.Errorf("Expected only the literal match, got %+v", tags)
	}
}

func TestAuditList(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()

	for _, action := range []string{"decision.make", "reviewer.invite", "decision.make"} {
		svc.audit.Log(ctx, &models.AuditLog{
			ActorKind:  "admin",
			ActorEmail: "chair@example.com",
			Action:     action,
			Resource:   "submission",
		})
	}

	page, err := svc.audit.List(ctx, repository.AuditFilter{Action: "decision.make"}, 1, 0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if page.Total != 2 || len(page.Logs) != 2 {
		t.Errorf("Expected 2 decision entries, got total=%d logs=%d", page.Total, len(page.Logs))
	}
	if page.PageSize != 50 {
		t.Errorf("Expected default page size 50, got %d", page.PageSize)
	}
}
