// Package seeder generates synthetic webhook traffic against a running
// gateway. Intended for load testing and local development.
package seeder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/hookgate-io/hookgate/internal/handlers"
	"github.com/hookgate-io/hookgate/internal/logging"
	"github.com/hookgate-io/hookgate/internal/signature"
)

// Config controls a seeding run.
type Config struct {
	// GatewayURL is the base URL of the gateway (e.g., "http://localhost:8080").
	GatewayURL string

	// Count is the number of deliveries to send.
	Count int

	// Interval is the pause between deliveries.
	Interval time.Duration

	// Secret, when set, signs GitHub deliveries with X-Hub-Signature-256.
	Secret string

	// Kinds lists the delivery kinds to generate. Valid values are
	// "generic", "push" and "pull_request". Empty means all three.
	Kinds []string
}

// Stats tallies the outcome of a seeding run.
type Stats struct {
	Sent   int
	Failed int
}

// Seeder sends generated deliveries to a gateway.
type Seeder struct {
	cfg    Config
	client *http.Client
	logger *logging.Logger
}

func New(cfg Config, logger *logging.Logger) *Seeder {
	if len(cfg.Kinds) == 0 {
		cfg.Kinds = []string{"generic", "push", "pull_request"}
	}
	return &Seeder{
		cfg: cfg,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// Run sends cfg.Count deliveries, pausing cfg.Interval between each. It
// stops early when the context is cancelled.
func (s *Seeder) Run(ctx context.Context) (Stats, error) {
	gofakeit.Seed(time.Now().UnixNano())

	var stats Stats
	for i := 0; i < s.cfg.Count; i++ {
		select {
		case <-ctx.Done():
			return stats, ctx.Err()
		default:
		}

		kind := s.cfg.Kinds[rand.Intn(len(s.cfg.Kinds))]
		if err := s.sendOne(ctx, kind); err != nil {
			stats.Failed++
			s.logger.Warn("delivery failed", logging.Error(err), logging.Event(kind))
		} else {
			stats.Sent++
			if stats.Sent%50 == 0 {
				s.logger.Info("seeding progress",
					slog.Int("sent", stats.Sent),
					slog.Int("total", s.cfg.Count),
				)
			}
		}

		if s.cfg.Interval > 0 && i < s.cfg.Count-1 {
			select {
			case <-ctx.Done():
				return stats, ctx.Err()
			case <-time.After(s.cfg.Interval):
			}
		}
	}
	return stats, nil
}

func (s *Seeder) sendOne(ctx context.Context, kind string) error {
	var (
		path    string
		body    map[string]interface{}
		headers map[string]string
	)

	switch kind {
	case "push":
		path = "/webhook/github"
		body = generatePushEvent()
		headers = map[string]string{
			handlers.HeaderGitHubEvent:    "push",
			handlers.HeaderGitHubDelivery: gofakeit.UUID(),
		}
	case "pull_request":
		path = "/webhook/github"
		body = generatePullRequestEvent()
		headers = map[string]string{
			handlers.HeaderGitHubEvent:    "pull_request",
			handlers.HeaderGitHubDelivery: gofakeit.UUID(),
		}
	default:
		path = "/webhook"
		body = generateGenericEvent()
	}

	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode delivery: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.GatewayURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	if s.cfg.Secret != "" && path == "/webhook/github" {
		req.Header.Set(handlers.HeaderHubSignature, signature.Sign(s.cfg.Secret, data))
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("gateway returned status %d", resp.StatusCode)
	}
	return nil
}

func generateGenericEvent() map[string]interface{} {
	events := []string{"user.created", "order.placed", "payment.settled", "job.completed"}

	return map[string]interface{}{
		"event":     events[rand.Intn(len(events))],
		"timestamp": time.Now().Unix(),
		"data": map[string]interface{}{
			"id":      gofakeit.UUID(),
			"user":    gofakeit.Username(),
			"email":   gofakeit.Email(),
			"message": gofakeit.Sentence(6),
		},
	}
}

func generatePushEvent() map[string]interface{} {
	branches := []string{"main", "develop", "feature/" + gofakeit.Word()}

	commits := make([]map[string]interface{}, rand.Intn(3)+1)
	for i := range commits {
		commits[i] = map[string]interface{}{
			"id":      gofakeit.UUID(),
			"message": gofakeit.Sentence(5),
			"author": map[string]interface{}{
				"name":  gofakeit.Name(),
				"email": gofakeit.Email(),
			},
		}
	}

	return map[string]interface{}{
		"ref":     "refs/heads/" + branches[rand.Intn(len(branches))],
		"commits": commits,
		"repository": map[string]interface{}{
			"full_name": gofakeit.Username() + "/" + gofakeit.Word(),
		},
		"pusher": map[string]interface{}{
			"name": gofakeit.Username(),
		},
	}
}

func generatePullRequestEvent() map[string]interface{} {
	actions := []string{"opened", "closed", "synchronize", "reopened"}

	return map[string]interface{}{
		"action": actions[rand.Intn(len(actions))],
		"number": rand.Intn(5000) + 1,
		"pull_request": map[string]interface{}{
			"title": gofakeit.Sentence(4),
			"user": map[string]interface{}{
				"login": gofakeit.Username(),
			},
			"head": map[string]interface{}{
				"ref": "feature/" + gofakeit.Word(),
			},
			"base": map[string]interface{}{
				"ref": "main",
			},
		},
		"repository": map[string]interface{}{
			"full_name": gofakeit.Username() + "/" + gofakeit.Word(),
		},
	}
}
