// Package main provides the StoreBuddy command line client.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/avvvet/storebuddy-assistant/internal/config"
	"github.com/avvvet/storebuddy-assistant/internal/observability"
)

// cli holds state shared by the subcommands.
type cli struct {
	catalogPath string
	outputJSON  bool
	verbose     bool

	cfg    *config.Config
	logger zerolog.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:   "storebuddy",
		Short: "Store assistant for product, FAQ and store policy questions",
		Long: `storebuddy answers customer questions from the local catalog.

Messages are matched against the store intents, then the FAQs and the
product catalog. Anything else goes to the configured text generation
provider, or gets a fixed apology when none is configured.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			_ = godotenv.Load()

			c.cfg = config.Load()
			if c.catalogPath != "" {
				c.cfg.CatalogPath = c.catalogPath
			}

			level := "warn"
			if c.verbose {
				level = "debug"
			}
			c.logger = observability.NewLogger(observability.LogConfig{
				Level:       level,
				Format:      "console",
				Output:      cmd.ErrOrStderr(),
				ServiceName: "storebuddy-cli",
			})
			return nil
		},
	}

	root.PersistentFlags().StringVar(&c.catalogPath, "catalog", "", "catalog file (default: CATALOG_PATH)")
	root.PersistentFlags().BoolVar(&c.outputJSON, "json", false, "output in JSON format")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose output")

	root.AddCommand(
		newAskCmd(c),
		newChatCmd(c),
		newSearchCmd(c),
		newClassifyCmd(c),
	)
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
