package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vmunix/carbon/internal/config"
)

var version = "dev"

var (
	serverURL  string
	configPath string
	jsonOutput bool
)

var rootCmd = &cobra.Command{
	Use:   "carbon",
	Short: "Download media and convert it for editing",
	Long: `carbon - download media with yt-dlp and convert it for editing

Run 'carbon get URL...' to download and convert in this terminal, or start
'carbond' and manage its queue with the other commands.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		var exitErr *exitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.code)
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "Server URL (default from config)")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	rootCmd.Version = version
	rootCmd.SetVersionTemplate("carbon {{.Version}}\n")
}

// exitError carries a process exit code through cobra.
type exitError struct {
	code int
	msg  string
}

func (e *exitError) Error() string {
	return e.msg
}

// loadConfig finds and loads the config file. With no file anywhere the
// defaults are used.
func loadConfig() (*config.Config, error) {
	path := configPath
	if path == "" {
		found, err := config.Discover()
		if err != nil {
			if os.Getenv("CARBON_CONFIG") != "" {
				return nil, fmt.Errorf("config: %w", err)
			}
			cfg := config.Default()
			cfg.Output.Directory = config.ExpandHome(cfg.Output.Directory)
			return cfg, nil
		}
		path = found
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// newClient returns a client for --server, or for the configured daemon.
func newClient() *Client {
	if serverURL != "" {
		return NewClient(serverURL)
	}
	cfg, err := loadConfig()
	if err != nil {
		return NewClient(config.Default().URL())
	}
	return NewClient(cfg.URL())
}
