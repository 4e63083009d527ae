// Package journal parses journal command flags and prints recent rolls
// from a roll journal database.
package journal

import (
	"context"
	"errors"
	"flag"
	"fmt"

	"github.com/louisbranch/crawlspace/internal/core/rng"
	"github.com/louisbranch/crawlspace/internal/journal"
	entrypoint "github.com/louisbranch/crawlspace/internal/platform/cmd"
)

// Config holds journal command configuration.
type Config struct {
	Journal string `env:"CRAWLSPACE_JOURNAL"`
	Limit   int    `env:"CRAWLSPACE_JOURNAL_LIMIT" envDefault:"20"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.Journal, "journal", cfg.Journal, "Path to the roll journal database")
	fs.IntVar(&cfg.Limit, "limit", cfg.Limit, "Maximum number of rolls to print")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run executes the journal command.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceJournal, func(ctx context.Context) error {
		return run(ctx, cfg)
	})
}

func run(ctx context.Context, cfg Config) error {
	if cfg.Journal == "" {
		return fmt.Errorf("journal path is required")
	}
	store, err := journal.Open(cfg.Journal)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer store.Close()

	seed, err := store.LastSeed(ctx, rng.StreamGameplay.String())
	switch {
	case errors.Is(err, journal.ErrNoSeed):
		// A journal written without seeding is still listable.
	case err != nil:
		return err
	default:
		fmt.Printf("last gameplay seed: %d\n", seed)
	}

	rolls, err := store.ListRolls(ctx, cfg.Limit)
	if err != nil {
		return err
	}
	for _, roll := range rolls {
		fmt.Printf("%s  %s: %v = %d\n",
			roll.CreatedAt.Format("2006-01-02 15:04:05"), roll.Expression, roll.Results, roll.Total)
	}
	return nil
}
