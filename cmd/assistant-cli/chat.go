package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive conversation",
	Long: `Start an interactive conversation with the assistant.

References like "it" or "that" resolve to what was mentioned earlier in the
same conversation. Type "exit" or press Ctrl-D to leave.`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

var askCmd = &cobra.Command{
	Use:   "ask <message>",
	Short: "Send a single message and print the reply",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAsk,
}

func runChat(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	p, err := newPipeline(ctx)
	if err != nil {
		return err
	}
	defer p.Close()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Session %s. Type \"exit\" to leave.\n", p.session)

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "exit", "quit":
			return nil
		}

		output, err := p.send(ctx, line)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, output.Reply)
	}
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	p, err := newPipeline(ctx)
	if err != nil {
		return err
	}
	defer p.Close()

	output, err := p.send(ctx, strings.Join(args, " "))
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), output.Reply)
	return nil
}
