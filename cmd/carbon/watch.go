package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/vmunix/carbon/internal/tui"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow the daemon's queue live",
	Args:  cobra.NoArgs,
	RunE:  runWatchCmd,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().Bool("plain", false, "Print progress lines instead of the interactive view")
}

func runWatchCmd(cmd *cobra.Command, _ []string) error {
	plain, _ := cmd.Flags().GetBool("plain")
	if !plain && !isatty.IsTerminal(os.Stdout.Fd()) {
		plain = true
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := newClient()
	snaps, err := client.Stream(ctx)
	if err != nil {
		return fmt.Errorf("watch failed: %w", err)
	}

	if plain {
		_, err = tui.RunPlain(ctx, os.Stdout, snaps, false)
	} else {
		_, err = tui.Run(client, snaps, tui.Options{})
	}
	switch {
	case errors.Is(err, context.Canceled):
		return nil
	case errors.Is(err, tui.ErrStreamClosed):
		return errors.New("connection to carbond lost")
	}
	return err
}
