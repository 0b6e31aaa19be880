package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/vmunix/carbon/internal/job"
)

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

// shortID is the suffix of a job id shown in listings. uuid v7 ids share
// their leading timestamp digits, so the tail is what tells them apart.
func shortID(id string) string {
	if len(id) > 8 {
		return id[len(id)-8:]
	}
	return id
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func jobLabel(j job.Job) string {
	if j.Title != "" {
		return j.Title
	}
	return j.URL
}

// formatProgress renders the progress column for a job.
func formatProgress(j job.Job) string {
	switch j.Status {
	case job.StatusDownloading, job.StatusConverting:
		s := fmt.Sprintf("%5.1f%%", j.Progress.Percent)
		if j.Progress.Speed != "" {
			s += " " + j.Progress.Speed
		}
		if j.Progress.ETA != "" {
			s += " eta " + j.Progress.ETA
		}
		return s
	case job.StatusCompleted:
		return "100%"
	default:
		return "-"
	}
}

func formatTimeAgo(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return humanize.Time(t)
}
