package service

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"cfp-engine/internal/analytics"
	"cfp-engine/internal/auth"
	"cfp-engine/internal/config"
	"cfp-engine/internal/testutil"
	"cfp-engine/internal/vault"
)

var testDB *testutil.TestDB

func TestMain(m *testing.M) {
	flag.Parse()
	if testing.Short() {
		os.Exit(m.Run())
	}

	ctx := context.Background()
	dir, err := testutil.FindMigrationsDir()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	testDB, err = testutil.StartPostgres(ctx, dir)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	code := m.Run()
	_ = testDB.Terminate(ctx)
	os.Exit(code)
}

// recordingSink captures analytics events
type recordingSink struct {
	mu     sync.Mutex
	events []string
}

func (r *recordingSink) Track(_ context.Context, event string, _ analytics.Props) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *recordingSink) count(event string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e == event {
			n++
		}
	}
	return n
}

type services struct {
	speakers      *SpeakerService
	submissions   *SubmissionService
	tags          *TagService
	reviewers     *ReviewerService
	reviews       *ReviewService
	decisions     *DecisionService
	notifications *NotificationService
	audit         *AuditService
	sink          *recordingSink
}

// setup resets the shared database and wires fresh services
func setup(t *testing.T) *services {
	t.Helper()
	if testDB == nil {
		t.Skip("skipping container test in short mode")
	}
	testDB.Reset(t)

	db := testDB.DB
	sink := &recordingSink{}
	tokens := auth.NewService(&config.JWTConfig{Expiration: time.Hour})
	return &services{
		speakers:      NewSpeakerService(db, 5),
		submissions:   NewSubmissionService(db, sink, 5),
		tags:          NewTagService(db),
		reviewers:     NewReviewerService(db, tokens, "https://cfp.example.com/activate"),
		reviews:       NewReviewService(db, vault.PlainSealer{}, 10),
		decisions:     NewDecisionService(db, sink, "https://conf.example.com"),
		notifications: NewNotificationService(db),
		audit:         NewAuditService(db),
		sink:          sink,
	}
}

func validInput(title string) SubmissionInput {
	return SubmissionInput{
		Title:    title,
		Abstract: "What we learned running Go in production.",
		Type:     "standard",
		Level:    "intermediate",
		Tags:     []string{"go", "Databases"},
	}
}
