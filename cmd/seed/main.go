package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/oksasatya/go-ddd-scheduler/config"
	"github.com/oksasatya/go-ddd-scheduler/internal/container"
	"github.com/oksasatya/go-ddd-scheduler/internal/domain/apperror"
	repo "github.com/oksasatya/go-ddd-scheduler/internal/domain/repository"
	"github.com/oksasatya/go-ddd-scheduler/pkg/helpers"
)

// seed creates a demo user with two consecutive events through the services,
// so validation, conflict checks and back-references all apply.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env)
	ctx := context.Background()

	store, err := container.OpenStore(ctx, cfg, logger, true)
	if err != nil {
		log.Fatalf("store: %v", err)
	}
	defer store.Close()

	c := container.New(container.Deps{Config: cfg, Logger: logger, Store: store})

	email := "demo.user@example.com"
	users, err := store.Users().Find(ctx, repo.Eq(repo.FieldEmail, email), nil)
	if err != nil {
		log.Fatalf("failed to look up demo user: %v", err)
	}
	var userID string
	if len(users) > 0 {
		userID = users[0].ID
		fmt.Printf("demo user exists: id=%s\n", userID)
	} else {
		u, err := c.Users.Create(ctx, map[string]any{
			"firstName":   "Demo",
			"lastName":    "User",
			"email":       email,
			"phoneNumber": "+15550100",
		})
		if err != nil {
			log.Fatalf("failed to seed user: %v", err)
		}
		userID = u.ID
		fmt.Printf("seeded user: id=%s email=%s\n", u.ID, u.Email)
	}

	day := time.Now().UTC().Truncate(24 * time.Hour).AddDate(0, 0, 7)
	slots := []struct {
		title, description string
		start, end         time.Time
	}{
		{"Kickoff", "Project kickoff with the whole team", day.Add(9 * time.Hour), day.Add(10 * time.Hour)},
		{"Design review", "Walk through the scheduling design", day.Add(11 * time.Hour), day.Add(12 * time.Hour)},
	}
	for _, s := range slots {
		ev, err := c.Events.Create(ctx, map[string]any{
			"title":       s.title,
			"description": s.description,
			"startDate":   s.start.Format(time.RFC3339),
			"endDate":     s.end.Format(time.RFC3339),
			"user":        userID,
		})
		if apperror.Is(err, apperror.KindConflict) {
			fmt.Printf("skipped %q: slot already taken\n", s.title)
			continue
		}
		if err != nil {
			log.Fatalf("failed to seed event %q: %v", s.title, err)
		}
		fmt.Printf("seeded event: id=%s title=%q\n", ev.ID, ev.Title)
	}
}
