package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/avvvet/storebuddy-assistant/internal/app"
	"github.com/avvvet/storebuddy-assistant/internal/memory"
)

func newAskCmd(c *cli) *cobra.Command {
	var sessionID string

	cmd := &cobra.Command{
		Use:   "ask [message]",
		Short: "Send one message and print the reply",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := app.Build(ctx, c.cfg, c.logger)
			if err != nil {
				return err
			}
			defer a.Close()

			if sessionID == "" {
				sessionID, _, err = a.Assistant.StartSession(ctx)
				if err != nil {
					return err
				}
			}

			msgs, err := a.Assistant.Submit(ctx, sessionID, strings.Join(args, " "))
			if err != nil {
				return err
			}
			return printMessages(cmd.OutOrStdout(), msgs, c.outputJSON)
		},
	}

	cmd.Flags().StringVar(&sessionID, "session", "", "session id (default: a new session)")
	return cmd
}

func newChatCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive conversation",
		Long:  "Reads one message per line from standard input until EOF or \"exit\".",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := app.Build(ctx, c.cfg, c.logger)
			if err != nil {
				return err
			}
			defer a.Close()

			return runChat(ctx, a, cmd.InOrStdin(), cmd.OutOrStdout(), c.outputJSON)
		},
	}
}

func runChat(ctx context.Context, a *app.App, in io.Reader, out io.Writer, asJSON bool) error {
	sessionID, welcome, err := a.Assistant.StartSession(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = a.Assistant.EndSession(context.WithoutCancel(ctx), sessionID) }()

	if err := printMessages(out, []memory.Message{welcome}, asJSON); err != nil {
		return err
	}

	scanner := bufio.NewScanner(in)
	for {
		if !asJSON {
			promptColor.Fprint(out, "> ")
		}
		if !scanner.Scan() {
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "exit", "quit":
			return nil
		}

		msgs, err := a.Assistant.Submit(ctx, sessionID, line)
		if err != nil {
			return err
		}
		if err := printMessages(out, msgs, asJSON); err != nil {
			return err
		}
	}
}

var (
	promptColor  = color.New(color.Bold)
	productColor = color.New(color.FgCyan)
)

func printMessages(out io.Writer, msgs []memory.Message, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(out)
		for _, m := range msgs {
			if err := enc.Encode(m); err != nil {
				return err
			}
		}
		return nil
	}

	for _, m := range msgs {
		fmt.Fprintln(out, m.Content)
		for _, r := range m.Results {
			if r.Product != nil {
				productColor.Fprintf(out, "  • %s\n", r.Content)
			}
		}
		fmt.Fprintln(out)
	}
	return nil
}
