package main

import (
	"context"
	"flag"
	"os"
	"strconv"
	"time"

	"github.com/okian/academy/internal/fixtures"
	"github.com/okian/academy/pkg/logger"
)

// Default configuration constants.
const (
	defaultOutputDir   = "fixtures"
	defaultTopN        = 100
	defaultTimeout     = 30 * time.Second
	defaultToolTimeout = 10 * time.Minute
)

func main() {
	var (
		players   = flag.Int("players", fixtures.DefaultPlayers, "Number of players to generate")
		seed      = flag.Uint64("seed", 1, "Generator seed")
		boxes     = flag.Int("boxes", fixtures.DefaultBoxes, "Storage boxes per player")
		perBox    = flag.Int("per-box", fixtures.DefaultMaxPerBox, "Maximum creatures per storage box")
		shinyRate = flag.Float64("shiny-rate", fixtures.DefaultShinyRate, "Probability that a creature is shiny")
		malformed = flag.Float64("malformed-rate", 0, "Probability of an unusable slot")
		out       = flag.String("out", defaultOutputDir, "Output directory for the collection files")
		verifyURL = flag.String("verify", "", "Base URL of a running service to verify instead of generating")
		topN      = flag.Int("top", defaultTopN, "Academy entries to verify")
		timeout   = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultToolTimeout)
	defer cancel()

	if *verifyURL != "" {
		rep, err := fixtures.Verify(ctx, fixtures.VerifyConfig{BaseURL: *verifyURL, TopN: *topN, Timeout: *timeout})
		if err != nil {
			os.Stderr.WriteString("verification failed: " + err.Error() + "\n")
			os.Exit(1)
		}
		for _, v := range rep.Violations {
			os.Stderr.WriteString(v + "\n")
		}
		if !rep.OK() {
			os.Stderr.WriteString(strconv.Itoa(len(rep.Violations)) + " violations\n")
			os.Exit(1)
		}
		return
	}

	set, err := fixtures.Generate(ctx, fixtures.Config{
		Players:       *players,
		Seed:          *seed,
		Boxes:         *boxes,
		MaxPerBox:     *perBox,
		ShinyRate:     *shinyRate,
		MalformedRate: *malformed,
	})
	if err != nil {
		os.Stderr.WriteString("generation failed: " + err.Error() + "\n")
		os.Exit(1)
	}
	if err := set.WriteDir(*out); err != nil {
		os.Stderr.WriteString("write failed: " + err.Error() + "\n")
		os.Exit(1)
	}
	logger.Get().Info(ctx, "fixtures written", logger.String("dir", *out))
}
