package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"lawlow/internal/config"
	models "lawlow/internal/domain/models/law"
	"lawlow/internal/domain/services"
	"lawlow/internal/service/law"
	"lawlow/internal/service/law/external"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:          "lawctl",
	Short:        "Query law.go.kr and run AI summaries from the command line",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging to stderr")
}

// newLogger logs to stderr so command output stays pipeable.
func newLogger() *slog.Logger {
	if !verbose {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// newLawService builds the uncached upstream client; each run is one shot.
func newLawService(cfg *config.Config, logger *slog.Logger) services.LawService {
	client := external.NewLawGoClient(cfg.LawAPIKey, cfg.LawAPIBaseURL, cfg.LawAPITimeout)
	return law.NewLawService(client, cfg.FanOutLimit, logger)
}

func parseType(arg string) (models.LawType, error) {
	lawType, err := models.ParseLawType(arg)
	if err != nil {
		return "", fmt.Errorf("type must be %q or %q", models.TypePrecedent, models.TypeStatute)
	}
	return lawType, nil
}
