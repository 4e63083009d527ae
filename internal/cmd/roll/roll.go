// Package roll parses roll command flags and rolls dice expressions or
// runs randomness scripts against a seeded generator registry.
package roll

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel"

	"github.com/louisbranch/crawlspace/internal/core/dice"
	"github.com/louisbranch/crawlspace/internal/core/rng"
	"github.com/louisbranch/crawlspace/internal/journal"
	entrypoint "github.com/louisbranch/crawlspace/internal/platform/cmd"
	"github.com/louisbranch/crawlspace/internal/scripting"
)

// Config holds roll command configuration.
type Config struct {
	Seed    uint64 `env:"CRAWLSPACE_SEED"`
	Journal string `env:"CRAWLSPACE_JOURNAL"`
	Script  string

	// Expressions are the positional dice expressions, e.g. "2d6".
	Expressions []string
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.Uint64Var(&cfg.Seed, "seed", cfg.Seed, "Generator seed (0 draws one from system entropy)")
	fs.StringVar(&cfg.Journal, "journal", cfg.Journal, "Path to the roll journal database (empty disables journaling)")
	fs.StringVar(&cfg.Script, "script", "", "Run a Lua script instead of rolling expressions")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	cfg.Expressions = fs.Args()
	return cfg, nil
}

// ParseExpression parses a dice expression of the form "NdS" into a spec.
// The count defaults to 1 when omitted, so "d20" rolls one die.
func ParseExpression(expr string) (dice.Spec, error) {
	countText, sidesText, ok := strings.Cut(strings.ToLower(strings.TrimSpace(expr)), "d")
	if !ok {
		return dice.Spec{}, fmt.Errorf("parse %q: expected the form NdS", expr)
	}

	count := 1
	if countText != "" {
		n, err := strconv.Atoi(countText)
		if err != nil {
			return dice.Spec{}, fmt.Errorf("parse %q: bad die count: %w", expr, err)
		}
		count = n
	}
	sides, err := strconv.Atoi(sidesText)
	if err != nil {
		return dice.Spec{}, fmt.Errorf("parse %q: bad die size: %w", expr, err)
	}
	if count <= 0 || sides <= 0 {
		return dice.Spec{}, fmt.Errorf("parse %q: %w", expr, dice.ErrInvalidDiceSpec)
	}
	return dice.Spec{Sides: sides, Count: count}, nil
}

// Run executes the roll command.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceRoll, func(ctx context.Context) error {
		ctx, span := otel.Tracer("crawlspace/roll").Start(ctx, "roll")
		defer span.End()
		return run(ctx, cfg)
	})
}

func run(ctx context.Context, cfg Config) error {
	seed := cfg.Seed
	if seed == 0 {
		var err error
		seed, err = rng.NewSeed()
		if err != nil {
			return fmt.Errorf("draw entropy seed: %w", err)
		}
		log.Printf("using seed %d", seed)
	}
	reg := rng.New(seed)

	var store *journal.Store
	if cfg.Journal != "" {
		var err error
		store, err = journal.Open(cfg.Journal)
		if err != nil {
			return fmt.Errorf("open journal: %w", err)
		}
		defer func() {
			if err := store.Close(); err != nil {
				log.Printf("close journal: %v", err)
			}
		}()
		if err := store.RecordSeed(ctx, rng.StreamGameplay.String(), seed); err != nil {
			return err
		}
	}

	if cfg.Script != "" {
		return scripting.New(reg).RunFile(cfg.Script)
	}

	if len(cfg.Expressions) == 0 {
		return fmt.Errorf("no dice expressions given")
	}

	src := reg.Get(rng.StreamGameplay)
	for _, expr := range cfg.Expressions {
		spec, err := ParseExpression(expr)
		if err != nil {
			return err
		}
		result, err := dice.RollSpecs(src, []dice.Spec{spec})
		if err != nil {
			return err
		}
		roll := result.Rolls[0]
		fmt.Printf("%s: %v = %d\n", expr, roll.Results, roll.Total)

		if store != nil {
			if err := store.RecordRoll(ctx, expr, roll.Results, roll.Total); err != nil {
				return err
			}
		}
	}
	return nil
}
