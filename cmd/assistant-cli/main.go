// Command assistant-cli talks to the household assistant from a terminal.
// It runs the same resolution pipeline as the API in-process.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	flagUser      string
	flagName      string
	flagRole      string
	flagWorkspace string
	flagSession   string
	flagOffline   bool
	flagVerbose   bool
)

var rootCmd = &cobra.Command{
	Use:   "assistant-cli",
	Short: "Household assistant for tasks, events, the budget and the shopping list",
	Long: `assistant-cli sends natural-language messages to the family hub assistant.

Available subcommands:
  chat           - Start an interactive conversation
  ask            - Send a single message and print the reply
  rules          - List the offline rules in evaluation order
  calendar-auth  - Save a Google Calendar token for the event mirror`,
	SilenceUsage: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagUser, "user", "cli", "member id")
	pf.StringVar(&flagName, "name", "", "member display name")
	pf.StringVar(&flagRole, "role", "parent", "member role: admin, parent or child")
	pf.StringVar(&flagWorkspace, "workspace", "home", "family workspace id")
	pf.StringVar(&flagSession, "session", "", "conversation id (random when empty)")
	pf.BoolVar(&flagOffline, "offline", false, "skip the language model and use the offline rules only")
	pf.BoolVarP(&flagVerbose, "verbose", "v", false, "log to stdout")

	rootCmd.AddCommand(chatCmd, askCmd, rulesCmd, calendarAuthCmd)
}

func main() {
	_ = godotenv.Load()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
