package main

import (
	"context"
	"fmt"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/hookgate-io/hookgate/internal/logging"
	"github.com/hookgate-io/hookgate/internal/seeder"
)

var (
	seedURL      string
	seedCount    int
	seedInterval time.Duration
	seedSecret   string
	seedKinds    string
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Send synthetic webhook deliveries to a gateway",
	Long: `Generate and send synthetic deliveries for testing and development.

Examples:
  # Send 100 mixed deliveries to a local gateway
  hookgate seed

  # Signed GitHub push events only
  hookgate seed --kinds push --secret my-webhook-secret --count 500`,
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().StringVar(&seedURL, "url", "http://localhost:8080", "gateway base URL")
	seedCmd.Flags().IntVar(&seedCount, "count", 100, "number of deliveries to send")
	seedCmd.Flags().DurationVar(&seedInterval, "interval", 100*time.Millisecond, "interval between deliveries")
	seedCmd.Flags().StringVar(&seedSecret, "secret", "", "sign GitHub deliveries with this secret")
	seedCmd.Flags().StringVar(&seedKinds, "kinds", "", "comma-separated delivery kinds: generic, push, pull_request (default all)")
}

func runSeed(cmd *cobra.Command, args []string) error {
	logger := logging.Default().With(logging.Service("hookgate-seeder"))

	var kinds []string
	for _, k := range strings.Split(seedKinds, ",") {
		if k = strings.TrimSpace(k); k != "" {
			kinds = append(kinds, k)
		}
	}

	s := seeder.New(seeder.Config{
		GatewayURL: seedURL,
		Count:      seedCount,
		Interval:   seedInterval,
		Secret:     seedSecret,
		Kinds:      kinds,
	}, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	stats, err := s.Run(ctx)
	fmt.Printf("Seeding complete: %d sent, %d failed\n", stats.Sent, stats.Failed)
	if err != nil && err != context.Canceled {
		return err
	}
	return nil
}
