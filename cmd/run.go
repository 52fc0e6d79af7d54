package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ktnk/toeiq/internal/app"
	"github.com/ktnk/toeiq/internal/billing"
	"github.com/ktnk/toeiq/internal/history"
	"github.com/ktnk/toeiq/internal/llm"
	"github.com/ktnk/toeiq/internal/questiongen"
	"github.com/ktnk/toeiq/internal/questionstore"
)

// newLogger builds the application logger. The TUI owns the terminal, so
// logs go to the file named by TOEIQ_LOG, or nowhere.
func newLogger() *slog.Logger {
	if path := os.Getenv("TOEIQ_LOG"); path != "" {
		if f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644); err == nil {
			return slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
		}
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// runApp opens the stores, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	ctx := cmd.Context()
	log := newLogger()

	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return fmt.Errorf("resolve DB path: %w", err)
	}
	hist, err := history.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open history store: %w", err)
	}
	defer hist.Close()

	cache := questionstore.Open(ctx, log)

	opts := app.Options{
		Cache:        cache,
		History:      hist,
		Tracker:      history.NewTracker(hist, log),
		Entitlements: billing.FromEnv(),
		Logger:       log,
	}

	provider, err := llm.NewProviderFromEnv(ctx, log)
	if err != nil {
		fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
		fmt.Fprintln(os.Stderr, "Question generation and example sentences will be unavailable.")
	} else {
		opts.Provider = provider
		opts.Questions = questiongen.New(provider, cache, questiongen.DefaultConfig(), log)
	}

	return app.Run(opts)
}
