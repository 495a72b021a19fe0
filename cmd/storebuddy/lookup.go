package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/avvvet/storebuddy-assistant/internal/catalog"
	"github.com/avvvet/storebuddy-assistant/internal/intent"
)

func newSearchCmd(c *cli) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search the FAQs and the product catalog",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := catalog.LoadFile(c.cfg.CatalogPath)
			if err != nil {
				return err
			}
			engine := catalog.NewEngine(cat, catalog.WithLimit(limit), catalog.WithCurrency(c.cfg.CurrencySymbol))

			results := engine.Search(strings.Join(args, " "))
			out := cmd.OutOrStdout()
			if c.outputJSON {
				return json.NewEncoder(out).Encode(results)
			}

			if len(results) == 0 {
				fmt.Fprintln(out, "No matches.")
				return nil
			}
			for _, r := range results {
				fmt.Fprintf(out, "[%s] %s\n", r.Kind, r.Content)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", catalog.DefaultLimit, "maximum number of product results")
	return cmd
}

func newClassifyCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "classify [message]",
		Short: "Show the intent rule a message matches",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			classifier, err := intent.NewClassifier(c.cfg.StoreInfo(), intent.WithGreetingMaxLen(c.cfg.GreetingMaxLen))
			if err != nil {
				return err
			}

			text := strings.Join(args, " ")
			rule, ok := classifier.Match(text)
			_, response := classifier.Respond(text)

			out := cmd.OutOrStdout()
			if c.outputJSON {
				return json.NewEncoder(out).Encode(map[string]any{
					"intent":   classifier.Classify(text),
					"rule":     rule.Name,
					"matched":  ok,
					"response": response,
				})
			}

			if !ok {
				fmt.Fprintln(out, intent.None)
				return nil
			}
			fmt.Fprintf(out, "%s (%s)\n\n%s\n", rule.Intent, rule.Name, response)
			return nil
		},
	}
}
