package cli

import (
	"fmt"
	"os"

	"github.com/banca-dev/banca/internal/assistant"
	"github.com/banca-dev/banca/internal/billing"
	"github.com/banca-dev/banca/internal/config"
	"github.com/banca-dev/banca/internal/lesson"
	"github.com/banca-dev/banca/internal/log"
	"github.com/banca-dev/banca/internal/roster"
	"github.com/banca-dev/banca/internal/store"
)

// workspace bundles the services every command works against.
type workspace struct {
	dir      string
	cfg      *config.Config
	kv       store.KV
	events   *log.Logger
	students *roster.Roster
	lessons  *lesson.Controller
	billing  *billing.Aggregator
}

// dataDir returns --dir or the user's home directory.
func dataDir() (string, error) {
	if dirFlag != "" {
		return dirFlag, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	return home, nil
}

// openWorkspace reads the configuration and wires the store, event log,
// assistant and domain services together. A missing config means defaults.
func openWorkspace() (*workspace, error) {
	dir, err := dataDir()
	if err != nil {
		return nil, err
	}

	cfg, err := config.ReadConfig(dir)
	if err != nil {
		if _, statErr := os.Stat(config.Dir(dir)); statErr == nil {
			fmt.Fprintf(os.Stderr, "Warning: %v, using defaults\n", err)
		}
		cfg = config.DefaultConfig()
	}
	config.LoadEnv(dir)

	events, err := log.NewLogger(dir)
	if err != nil {
		return nil, err
	}

	driver := cfg.Store.Driver
	if memoryFlag {
		driver = store.DriverMemory
	}
	kv, err := store.Open(driver, cfg.StorePath(dir))
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}

	gen, err := assistant.NewGenerator(cfg.Assistant, config.APIKey())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v, AI features disabled\n", err)
		gen = nil
	}
	ai := assistant.New(gen, assistant.Options{
		Provider:   cfg.Assistant.Provider,
		Currency:   cfg.Currency,
		DateLayout: cfg.DateLayout,
		Timeout:    cfg.Assistant.Timeout(),
		Events:     events,
	})

	students := roster.New(kv, events)
	return &workspace{
		dir:      dir,
		cfg:      cfg,
		kv:       kv,
		events:   events,
		students: students,
		lessons:  lesson.New(kv, students, events, lesson.WithSuggester(ai)),
		billing:  billing.New(kv, students, ai, events),
	}, nil
}

// Close releases the store.
func (w *workspace) Close() error {
	return w.kv.Close()
}
