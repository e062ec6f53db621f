package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
)

var flagTokenPath string

var calendarAuthCmd = &cobra.Command{
	Use:   "calendar-auth [credentials.json]",
	Short: "Save a Google Calendar token for the event mirror",
	Long: `Authorize Google Calendar access with OAuth desktop credentials.

Run this once on a machine with a browser. Open the printed URL, sign in,
paste the authorization code back, and the token is written to --token.
Point google_calendar.token_path at that file to enable the event mirror.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCalendarAuth,
}

func init() {
	calendarAuthCmd.Flags().StringVar(&flagTokenPath, "token", "token.json", "where to write the token")
}

func runCalendarAuth(cmd *cobra.Command, args []string) error {
	credsPath := "google-credentials.json"
	if len(args) > 0 {
		credsPath = args[0]
	}

	data, err := os.ReadFile(credsPath)
	if err != nil {
		return fmt.Errorf("read credentials file %q: %w", credsPath, err)
	}

	conf, err := google.ConfigFromJSON(data, calendar.CalendarScope)
	if err != nil {
		return fmt.Errorf("parse credentials: %w (%q must be an OAuth desktop app credentials file)", err, credsPath)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "1. Open this URL and sign in with the family's Google account:")
	fmt.Fprintln(out)
	fmt.Fprintln(out, conf.AuthCodeURL("family-hub", oauth2.AccessTypeOffline))
	fmt.Fprintln(out)
	fmt.Fprint(out, "2. Paste the authorization code here: ")

	var code string
	if _, err := fmt.Fscan(cmd.InOrStdin(), &code); err != nil {
		return fmt.Errorf("read authorization code: %w", err)
	}

	tok, err := conf.Exchange(cmd.Context(), code)
	if err != nil {
		return fmt.Errorf("exchange authorization code: %w", err)
	}

	f, err := os.OpenFile(flagTokenPath, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("create %s: %w", flagTokenPath, err)
	}
	defer f.Close()

	if err := json.NewEncoder(f).Encode(tok); err != nil {
		return fmt.Errorf("write %s: %w", flagTokenPath, err)
	}

	fmt.Fprintf(out, "\nToken saved to %s. Restart the API to enable the calendar mirror.\n", flagTokenPath)
	return nil
}
