// init.go implements the "banca init" command.
package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/banca-dev/banca/internal/assistant"
	"github.com/banca-dev/banca/internal/config"
	"github.com/banca-dev/banca/internal/store"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the banca data directory and default configuration",
	Long: `Initialize <dir>/.banca/ with config.yaml and an empty lesson store.
Set assistant.provider to "gemini" and put GEMINI_API_KEY in .banca/.env
to use Gemini instead of the local claude CLI.`,
	RunE: runInit,
}

var (
	initCurrency string
	initProvider string
	initForce    bool
)

func init() {
	initCmd.Flags().StringVar(&initCurrency, "currency", "", "Currency symbol printed before amounts")
	initCmd.Flags().StringVar(&initProvider, "provider", "", "Assistant provider: claude, gemini or none")
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing configuration without asking")
}

func runInit(cmd *cobra.Command, args []string) error {
	dir, err := dataDir()
	if err != nil {
		return err
	}

	if _, statErr := os.Stat(config.Dir(dir)); statErr == nil && !initForce {
		fmt.Printf("Warning: %s already exists.\n", config.Dir(dir))
		fmt.Print("Rewrite config.yaml? [y/N]: ")
		reader := bufio.NewReader(os.Stdin)
		answer, _ := reader.ReadString('\n')
		answer = strings.TrimSpace(strings.ToLower(answer))
		if answer != "y" && answer != "yes" {
			fmt.Println("Aborted.")
			return nil
		}
	}

	cfg := config.DefaultConfig()
	if initCurrency != "" {
		cfg.Currency = initCurrency
	}
	switch initProvider {
	case "":
	case assistant.ProviderClaude, assistant.ProviderGemini, assistant.ProviderNone:
		cfg.Assistant.Provider = initProvider
	default:
		return fmt.Errorf("unknown assistant provider %q", initProvider)
	}

	if err := config.WriteConfig(dir, cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	// Touch the store so the database file exists from the start.
	kv, err := store.Open(cfg.Store.Driver, cfg.StorePath(dir))
	if err != nil {
		return fmt.Errorf("creating store: %w", err)
	}
	if err := kv.Close(); err != nil {
		return fmt.Errorf("closing store: %w", err)
	}

	fmt.Printf("Initialized %s\n", config.Dir(dir))
	fmt.Println("Next: banca student add --name \"Ana\" --subject Math --rate 50")
	return nil
}
