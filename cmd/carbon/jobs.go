package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/vmunix/carbon/internal/job"
)

var addCmd = &cobra.Command{
	Use:   "add <url>...",
	Short: "Queue URLs on the daemon",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAddCmd,
}

var queueCmd = &cobra.Command{
	Use:   "queue",
	Short: "Show the daemon's jobs",
	RunE:  runQueueCmd,
}

var cancelCmd = &cobra.Command{
	Use:   "cancel <id>",
	Short: "Cancel a queued or running job",
	Args:  cobra.ExactArgs(1),
	RunE:  runCancelCmd,
}

var rmCmd = &cobra.Command{
	Use:   "rm <id>...",
	Short: "Remove finished jobs",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runRmCmd,
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every finished job",
	Args:  cobra.NoArgs,
	RunE:  runClearCmd,
}

var limitCmd = &cobra.Command{
	Use:   "limit [n]",
	Short: "Show or set how many jobs run at once",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runLimitCmd,
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show daemon status",
	Args:  cobra.NoArgs,
	RunE:  runStatusCmd,
}

func init() {
	rootCmd.AddCommand(addCmd, queueCmd, cancelCmd, rmCmd, clearCmd, limitCmd, statusCmd)
	addCmd.Flags().StringP("quality", "q", "", "Quality preset or yt-dlp format selector")
	queueCmd.Flags().StringP("state", "s", "", "Filter by state (queued, downloading, converting, completed, failed, cancelled)")
	cancelCmd.Flags().Duration("timeout", 15*time.Second, "How long to wait for the job to stop")
}

// resolveID expands the short id shown by 'carbon queue' to a full job id.
func resolveID(client *Client, arg string) (string, error) {
	if len(arg) == 36 {
		return arg, nil
	}
	jobs, err := client.Jobs("")
	if err != nil {
		return "", fmt.Errorf("queue fetch failed: %w", err)
	}
	var matches []string
	for _, j := range jobs.Items {
		if strings.HasSuffix(j.ID, arg) || strings.HasPrefix(j.ID, arg) {
			matches = append(matches, j.ID)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("no job matches %q", arg)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%q matches %d jobs, use more characters", arg, len(matches))
	}
}

func runAddCmd(cmd *cobra.Command, args []string) error {
	var quality string
	if cmd != nil {
		quality, _ = cmd.Flags().GetString("quality")
	}

	client := newClient()
	var added []*job.Job
	for _, u := range args {
		j, err := client.AddJob(u, quality)
		if err != nil {
			return fmt.Errorf("add %s: %w", u, err)
		}
		added = append(added, j)
	}

	if jsonOutput {
		printJSON(added)
		return nil
	}
	for _, j := range added {
		fmt.Printf("Queued %s  %s (%s)\n", shortID(j.ID), j.URL, j.Quality)
	}
	return nil
}

func runQueueCmd(cmd *cobra.Command, args []string) error {
	var state string
	if cmd != nil {
		state, _ = cmd.Flags().GetString("state")
	}

	client := newClient()
	jobs, err := client.Jobs(strings.ToLower(state))
	if err != nil {
		return fmt.Errorf("queue fetch failed: %w", err)
	}

	if jsonOutput {
		printJSON(jobs)
		return nil
	}
	printQueue(jobs)
	return nil
}

func printQueue(r *JobsResponse) {
	if len(r.Items) == 0 {
		fmt.Println("No jobs")
		return
	}

	fmt.Printf("Jobs (%d, %d active, limit %d):\n\n", r.Total, r.Active, r.MaxConcurrent)
	fmt.Printf("  %-8s %-11s %-40s %s\n", "ID", "STATE", "TITLE", "PROGRESS")
	fmt.Println("  " + strings.Repeat("-", 78))

	for _, j := range r.Items {
		fmt.Printf("  %-8s %-11s %-40s %s\n", shortID(j.ID), j.Status, truncate(jobLabel(j), 40), formatProgress(j))
		if j.Status == job.StatusFailed && j.Error != "" {
			fmt.Printf("  %-8s %-11s %s\n", "", "", truncate(j.Error, 60))
		}
	}
}

func runCancelCmd(cmd *cobra.Command, args []string) error {
	timeout := 15 * time.Second
	if cmd != nil {
		timeout, _ = cmd.Flags().GetDuration("timeout")
	}

	client := newClient()
	id, err := resolveID(client, args[0])
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	j, settled, err := client.CancelJob(ctx, id)
	if err != nil {
		return fmt.Errorf("cancel failed: %w", err)
	}

	if jsonOutput {
		printJSON(j)
		return nil
	}
	switch {
	case !settled:
		fmt.Printf("Cancelling %s (still stopping)\n", shortID(id))
	case j.Status == job.StatusCancelled:
		fmt.Printf("Cancelled %s\n", shortID(id))
	default:
		fmt.Printf("Job %s already %s\n", shortID(id), j.Status)
	}
	return nil
}

func runRmCmd(_ *cobra.Command, args []string) error {
	client := newClient()
	var errs []error
	for _, arg := range args {
		id, err := resolveID(client, arg)
		if err == nil {
			err = client.Delete(context.Background(), id)
		}
		if err != nil {
			var apiErr *APIError
			if errors.As(err, &apiErr) && apiErr.Code == "JOB_ACTIVE" {
				err = fmt.Errorf("%s is still running, cancel it first", arg)
			}
			errs = append(errs, err)
			continue
		}
		fmt.Printf("Removed %s\n", shortID(id))
	}
	return errors.Join(errs...)
}

func runClearCmd(_ *cobra.Command, _ []string) error {
	client := newClient()
	n, err := client.ClearJobs(context.Background())
	if err != nil {
		return fmt.Errorf("clear failed: %w", err)
	}
	fmt.Printf("Cleared %d finished job(s)\n", n)
	return nil
}

func runLimitCmd(_ *cobra.Command, args []string) error {
	client := newClient()

	var (
		resp *ConcurrencyResponse
		err  error
	)
	if len(args) == 0 {
		resp, err = client.Concurrency()
	} else {
		n, convErr := strconv.Atoi(args[0])
		if convErr != nil {
			return fmt.Errorf("invalid limit: %s", args[0])
		}
		resp, err = client.SetConcurrency(n)
	}
	if err != nil {
		return fmt.Errorf("limit failed: %w", err)
	}

	if jsonOutput {
		printJSON(resp)
		return nil
	}
	fmt.Printf("Max concurrent: %d (%d active)\n", resp.MaxConcurrent, resp.Active)
	return nil
}

func runStatusCmd(_ *cobra.Command, _ []string) error {
	client := newClient()
	s, err := client.Status()
	if err != nil {
		return fmt.Errorf("status failed: %w", err)
	}

	if jsonOutput {
		printJSON(s)
		return nil
	}
	fmt.Printf("Server:     %s (%s)\n", client.baseURL, s.Status)
	fmt.Printf("Version:    %s\n", s.Version)
	fmt.Printf("Uptime:     %s\n", s.Uptime)
	fmt.Printf("Jobs:       %d total, %d active, limit %d\n", s.Total, s.Active, s.MaxConcurrent)
	for _, st := range []job.Status{job.StatusQueued, job.StatusDownloading, job.StatusConverting,
		job.StatusCompleted, job.StatusFailed, job.StatusCancelled} {
		if n := s.Jobs[string(st)]; n > 0 {
			fmt.Printf("  %-12s %d\n", st, n)
		}
	}
	return nil
}
