package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/vmunix/carbon/internal/app"
	"github.com/vmunix/carbon/internal/config"
	"github.com/vmunix/carbon/internal/job"
	"github.com/vmunix/carbon/internal/queue"
	"github.com/vmunix/carbon/internal/tui"
)

var getCmd = &cobra.Command{
	Use:   "get <url>...",
	Short: "Download and convert URLs in this terminal",
	Long: `Runs the pipeline in-process: every URL is downloaded with yt-dlp and,
unless --no-convert is given, converted with ffmpeg. Exits once every job
has finished. The exit code is 1 if any job failed.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runGetCmd,
}

func init() {
	rootCmd.AddCommand(getCmd)
	getCmd.Flags().StringP("quality", "q", "", "Quality preset or yt-dlp format selector")
	getCmd.Flags().StringP("output", "o", "", "Output directory")
	getCmd.Flags().IntP("jobs", "j", 0, "Maximum concurrent jobs")
	getCmd.Flags().Bool("no-convert", false, "Keep the downloaded file as is")
	getCmd.Flags().Bool("plain", false, "Print progress lines instead of the interactive view")
}

// applyGetFlags overrides config values with the flags that were set.
func applyGetFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("quality") {
		cfg.Output.Quality, _ = flags.GetString("quality")
	}
	if flags.Changed("output") {
		dir, _ := flags.GetString("output")
		cfg.Output.Directory = config.ExpandHome(dir)
	}
	if flags.Changed("jobs") {
		cfg.Queue.MaxConcurrent, _ = flags.GetInt("jobs")
	}
	if noConvert, _ := flags.GetBool("no-convert"); noConvert {
		cfg.Output.AutoConvert = false
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		return &config.ConfigError{Errors: errs}
	}
	return nil
}

func runGetCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := applyGetFlags(cmd, cfg); err != nil {
		return err
	}
	if err := app.CheckTools(cfg); err != nil {
		return err
	}

	plain, _ := cmd.Flags().GetBool("plain")
	if !plain && !isatty.IsTerminal(os.Stdout.Fd()) {
		plain = true
	}
	// The interactive view owns the terminal, so logs only go to the file.
	var console io.Writer = os.Stderr
	if !plain {
		console = nil
	}
	logger, closeLog := config.SetupLogger(cfg.Log, console)
	defer func() { _ = closeLog() }()

	p, err := app.Build(cfg, nil, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runCtx, cancelRun := context.WithCancel(ctx)
	runErr := make(chan error, 1)
	go func() { runErr <- p.Scheduler.Run(runCtx) }()
	defer func() {
		cancelRun()
		<-runErr
	}()

	snaps, unsubscribe := p.Scheduler.Subscribe()
	defer unsubscribe()

	submitted := 0
	for _, u := range args {
		if _, err := p.Scheduler.Submit(u); err != nil {
			fmt.Fprintf(os.Stderr, "skipping %q: %v\n", u, err)
			continue
		}
		submitted++
	}
	if submitted == 0 {
		return errors.New("no valid URLs given")
	}

	var last queue.Snapshot
	if plain {
		last, err = tui.RunPlain(ctx, os.Stdout, snaps, true)
	} else {
		last, err = tui.Run(tui.Local{Scheduler: p.Scheduler}, snaps, tui.Options{ExitWhenSettled: true})
		printSummary(last)
	}

	if errors.Is(err, context.Canceled) {
		return &exitError{code: 130, msg: "interrupted"}
	}
	if err != nil {
		return err
	}
	if n := last.Counts()[job.StatusFailed]; n > 0 {
		return &exitError{code: 1, msg: fmt.Sprintf("%d job(s) failed", n)}
	}
	return nil
}

// printSummary lists where each job ended up.
func printSummary(snap queue.Snapshot) {
	for _, j := range snap.Jobs {
		switch j.Status {
		case job.StatusCompleted:
			fmt.Printf("✓ %s -> %s\n", tui.Label(j), j.OutputPath)
		case job.StatusFailed:
			fmt.Printf("✗ %s: %s\n", tui.Label(j), j.Error)
		default:
			fmt.Printf("- %s: %s\n", tui.Label(j), j.Status)
		}
	}
}
