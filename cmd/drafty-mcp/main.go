package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	internal "github.com/ZanzyTHEbar/drafty-mcp/drafty"
	"github.com/ZanzyTHEbar/drafty-mcp/drafty/config"
	"github.com/ZanzyTHEbar/drafty-mcp/drafty/gateway"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	configPath string
	envFile    string
	logLevel   string

	stderr io.Writer = os.Stderr
	logger           = newLogger("info", "console")
)

var rootCmd = &cobra.Command{
	Use:           internal.DefaultAppName,
	Short:         "MCP server exposing Drafty blog publishing tools over stdio",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the Drafty tools on stdin/stdout (default)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Print the tool catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		return printCatalog(cmd.OutOrStdout(), format)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default: ./config.yaml, ~/.config/drafty-mcp/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before configuration")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override log.level (trace, debug, info, warn, error)")

	catalogCmd.Flags().String("format", "yaml", "output format: yaml or json")

	rootCmd.AddCommand(serveCmd, catalogCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		reportError(err)
		os.Exit(1)
	}
}

// reportError is the single place a failed command reaches stderr.
func reportError(err error) {
	logger.Error().Msg(err.Error())
}

// loadConfig reads .env, then config, and reconfigures the stderr logger.
func loadConfig() (*config.Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			logger.Warn().Err(err).Str("file", envFile).Msg("could not load env file")
		}
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}

	logger = newLogger(cfg.Log.Level, cfg.Log.Format)
	return cfg, nil
}

func runServe(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Nothing is served without a credential.
	if err := cfg.Validate(); err != nil {
		return err
	}

	srv, err := gateway.NewFactory(cfg, logger).CreateServer()
	if err != nil {
		return err
	}

	if err := srv.ServeStdio(ctx, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("server stopped: %w", err)
	}
	return nil
}

// catalogEntry is the printable form of a tool descriptor.
type catalogEntry struct {
	Name        string         `json:"name" yaml:"name"`
	Description string         `json:"description" yaml:"description"`
	InputSchema map[string]any `json:"inputSchema" yaml:"inputSchema"`
}

func printCatalog(w io.Writer, format string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	catalog, err := gateway.NewFactory(cfg, zerolog.Nop()).CreateCatalog(nil)
	if err != nil {
		return err
	}

	entries := make([]catalogEntry, 0, len(catalog.Specs()))
	for _, spec := range catalog.Specs() {
		var schema map[string]any
		if err := json.Unmarshal(spec.JSONSchema, &schema); err != nil {
			return fmt.Errorf("invalid schema for %s: %w", spec.Name, err)
		}
		entries = append(entries, catalogEntry{Name: spec.Name, Description: spec.Description, InputSchema: schema})
	}

	switch strings.ToLower(format) {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{"tools": entries})
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(map[string]any{"tools": entries})
	default:
		return fmt.Errorf("unknown format %q (want yaml or json)", format)
	}
}

// newLogger builds the process logger. Output always goes to stderr so the
// protocol stream on stdout stays clean.
func newLogger(level, format string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	w := stderr
	if format != "json" {
		w = zerolog.ConsoleWriter{Out: stderr, TimeFormat: time.RFC3339, NoColor: true}
	}

	return zerolog.New(w).Level(lvl).With().Timestamp().Str("app", internal.DefaultAppName).Logger()
}
