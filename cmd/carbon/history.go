package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history [id]",
	Short: "Show recorded job events",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runHistoryCmd,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntP("limit", "n", 20, "Number of events to show")
	historyCmd.Flags().Int("offset", 0, "Skip this many of the newest events")
	historyCmd.Flags().Duration("since", 0, "Only show events from this far back (e.g. 2h)")
}

func runHistoryCmd(cmd *cobra.Command, args []string) error {
	limit, offset := 20, 0
	var window time.Duration
	if cmd != nil {
		limit, _ = cmd.Flags().GetInt("limit")
		offset, _ = cmd.Flags().GetInt("offset")
		window, _ = cmd.Flags().GetDuration("since")
	}
	var since time.Time
	if window > 0 {
		since = time.Now().Add(-window)
	}

	client := newClient()
	var (
		events *ListEventsResponse
		err    error
	)
	if len(args) == 1 {
		id, resolveErr := resolveID(client, args[0])
		if resolveErr != nil {
			// Deleted jobs keep their history, so fall back to the raw id.
			id = args[0]
		}
		events, err = client.JobEvents(id)
	} else {
		events, err = client.Events(limit, offset, since)
	}
	if err != nil {
		return fmt.Errorf("failed to fetch events: %w", err)
	}

	if jsonOutput {
		printJSON(events)
		return nil
	}

	if len(events.Items) == 0 {
		fmt.Println("No events")
		return nil
	}

	fmt.Printf("Events (%d of %d):\n\n", len(events.Items), events.Total)
	fmt.Printf("  %-16s %-16s %-15s %s\n", "TIME", "TYPE", "ENTITY", "DETAIL")
	fmt.Println("  " + strings.Repeat("-", 70))

	for _, e := range events.Items {
		entity := e.EntityType
		if e.EntityID != e.EntityType {
			entity = fmt.Sprintf("%s/%s", e.EntityType, shortID(e.EntityID))
		}
		fmt.Printf("  %-16s %-16s %-15s %s\n", formatTimeAgo(e.OccurredAt), e.EventType, entity, truncate(e.Detail, 60))
	}
	return nil
}
