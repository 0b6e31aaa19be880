package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vmunix/carbon/internal/app"
	"github.com/vmunix/carbon/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management",
}

var configCheckCmd = &cobra.Command{
	Use:   "check [path]",
	Short: "Validate configuration file",
	Long:  "Validates config.toml syntax, values, environment variable substitution and the external tools it names.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runConfigCheck,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version",
	Args:  cobra.NoArgs,
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Printf("carbon %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(configCmd, versionCmd)
	configCmd.AddCommand(configCheckCmd)
}

func runConfigCheck(_ *cobra.Command, args []string) error {
	path := configPath
	if len(args) > 0 {
		path = args[0]
	}
	if path == "" {
		found, err := config.Discover()
		if err != nil {
			return err
		}
		path = found
	}

	fmt.Printf("Validating %s...\n\n", path)

	cfg, err := config.Load(path)
	if err != nil {
		var configErr *config.ConfigError
		if errors.As(err, &configErr) {
			printConfigErrors(configErr)
			return fmt.Errorf("configuration invalid")
		}
		return fmt.Errorf("failed to load config: %w", err)
	}

	printConfigSummary(cfg)
	if err := app.CheckTools(cfg); err != nil {
		fmt.Printf("\nTools:\n  - %v\n", err)
		return fmt.Errorf("configuration invalid")
	}
	fmt.Println("\nConfiguration valid!")
	return nil
}

func printConfigErrors(e *config.ConfigError) {
	if len(e.Missing) > 0 {
		fmt.Println("Missing environment variables:")
		for _, m := range e.Missing {
			fmt.Printf("  - %s\n", m)
		}
		fmt.Println()
	}

	if len(e.Errors) > 0 {
		fmt.Println("Validation errors:")
		for _, err := range e.Errors {
			fmt.Printf("  - %s\n", err)
		}
		fmt.Println()
	}
}

func printConfigSummary(cfg *config.Config) {
	fmt.Println("Configuration Summary:")
	fmt.Printf("  Output:     %s (quality %s, convert %t)\n", cfg.Output.Directory, cfg.Output.Quality, cfg.Output.AutoConvert)
	fmt.Printf("  Queue:      %d concurrent, cancel timeout %s\n", cfg.Queue.MaxConcurrent, cfg.Queue.CancelTimeout)
	fmt.Printf("  Tools:      %s, %s, %s\n", cfg.Tools.YtDlp, cfg.Tools.FFmpeg, cfg.Tools.FFprobe)
	fmt.Printf("  Server:     %s (log: %s)\n", cfg.Addr(), cfg.Log.Level)
	fmt.Printf("  Database:   %s (retention %s)\n", cfg.Database.Path, cfg.Database.Retention)
}
