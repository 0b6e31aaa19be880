// Package config handles TOML configuration loading with environment variable substitution.
package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the root configuration structure.
type Config struct {
	Output   OutputConfig   `toml:"output"`
	Queue    QueueConfig    `toml:"queue"`
	Tools    ToolsConfig    `toml:"tools"`
	Server   ServerConfig   `toml:"server"`
	Log      LogConfig      `toml:"log"`
	Database DatabaseConfig `toml:"database"`
}

type OutputConfig struct {
	Directory   string `toml:"directory"`
	Quality     string `toml:"quality"`
	AutoConvert bool   `toml:"auto_convert"`
}

type QueueConfig struct {
	MaxConcurrent int           `toml:"max_concurrent"`
	CancelTimeout time.Duration `toml:"cancel_timeout"`
}

type ToolsConfig struct {
	YtDlp   string `toml:"ytdlp"`
	FFmpeg  string `toml:"ffmpeg"`
	FFprobe string `toml:"ffprobe"`
}

type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

type DatabaseConfig struct {
	Path      string        `toml:"path"`
	Retention time.Duration `toml:"retention"`
}

// Default returns the configuration used when a file leaves a value unset.
func Default() *Config {
	return &Config{
		Output: OutputConfig{
			Directory:   "~/Videos/carbon",
			Quality:     "best",
			AutoConvert: true,
		},
		Queue: QueueConfig{
			MaxConcurrent: 3,
			CancelTimeout: 5 * time.Second,
		},
		Tools: ToolsConfig{
			YtDlp:   "yt-dlp",
			FFmpeg:  "ffmpeg",
			FFprobe: "ffprobe",
		},
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: 8585,
		},
		Log: LogConfig{
			Level: "info",
		},
		Database: DatabaseConfig{
			Path:      DefaultDatabasePath(),
			Retention: 720 * time.Hour,
		},
	}
}

// Addr returns the server listen address.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

// URL returns the base URL clients use to reach the server.
func (c *Config) URL() string {
	host := c.Server.Host
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	return "http://" + net.JoinHostPort(host, strconv.Itoa(c.Server.Port))
}

// Load reads, substitutes and validates the configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	content, missing := substituteEnvVars(string(data))
	if len(missing) > 0 {
		return nil, &ConfigError{Path: path, Missing: missing}
	}

	cfg := Default()
	if _, err := toml.Decode(content, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.Output.Directory = ExpandHome(cfg.Output.Directory)
	cfg.Database.Path = ExpandHome(cfg.Database.Path)
	cfg.Log.File = ExpandHome(cfg.Log.File)

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, &ConfigError{Path: path, Errors: errs}
	}
	return cfg, nil
}

// LoadOrCreate loads path, first writing the default config there if no
// file exists yet.
func LoadOrCreate(path string) (*Config, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := WriteDefault(path); err != nil {
			return nil, fmt.Errorf("writing default config: %w", err)
		}
	}
	return Load(path)
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// envVarPattern matches ${VAR}, ${VAR:-default} and ${VAR:?message}.
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?:(:-|:\?)([^}]*))?\}`)

// substituteEnvVars replaces variable references with environment values.
// References that cannot be resolved are left in place and reported.
// Comment lines are copied unchanged.
func substituteEnvVars(content string) (string, []string) {
	var missing []string
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}
		var lineMissing []string
		lines[i], lineMissing = substituteLine(line)
		missing = append(missing, lineMissing...)
	}
	return strings.Join(lines, "\n"), missing
}

func substituteLine(line string) (string, []string) {
	var missing []string
	out := envVarPattern.ReplaceAllStringFunc(line, func(match string) string {
		m := envVarPattern.FindStringSubmatch(match)
		name, op, arg := m[1], m[2], m[3]
		value, ok := os.LookupEnv(name)
		switch op {
		case ":-":
			if !ok || value == "" {
				return arg
			}
			return value
		case ":?":
			if !ok || value == "" {
				missing = append(missing, name+": "+arg)
				return match
			}
			return value
		}
		if !ok {
			missing = append(missing, name)
			return match
		}
		return value
	})
	return out, missing
}
