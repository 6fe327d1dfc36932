package main

import (
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/ats-optimizer/internal/config"
	"github.com/jonathan/ats-optimizer/internal/server"
	"github.com/jonathan/ats-optimizer/internal/session"
)

var (
	servePort    int
	serveConfig  string
	serveVerbose bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes REST endpoints for creating optimization sessions, toggling suggestions and keywords, and reading live score breakdowns.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on")
	serveCmd.Flags().StringVar(&serveConfig, "config", "", "Path to a JSON config file")
	serveCmd.Flags().BoolVarP(&serveVerbose, "verbose", "v", false, "Log the effective configuration at startup")
	rootCmd.AddCommand(serveCmd)
}

// serveFlags captures which flags the user set explicitly, so they can
// override config file values.
type serveFlags struct {
	Port       int
	PortSet    bool
	Verbose    bool
	VerboseSet bool
}

// resolveServeConfig layers configuration: config file values, overridden
// by explicitly set flags, then defaults for anything still unset, then
// environment variables for empty secrets and URLs.
func resolveServeConfig(path string, flags serveFlags) (config.Config, error) {
	cfg := &config.Config{}
	if path != "" {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return config.Config{}, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if flags.PortSet {
		cfg.Port = flags.Port
	}
	if flags.VerboseSet {
		cfg.Verbose = flags.Verbose
	}

	merged := cfg.MergeWithDefaults(config.Config{
		Port:              flags.Port,
		SessionTTLMinutes: int(session.DefaultSessionTTL / time.Minute),
	})
	merged.FromEnv()

	if err := merged.Validate(); err != nil {
		return config.Config{}, err
	}
	return merged, nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	merged, err := resolveServeConfig(serveConfig, serveFlags{
		Port:       servePort,
		PortSet:    cmd.Flags().Changed("port"),
		Verbose:    serveVerbose,
		VerboseSet: cmd.Flags().Changed("verbose"),
	})
	if err != nil {
		return err
	}

	if merged.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET environment variable or jwt_secret config value is required")
	}

	if merged.Verbose {
		log.Printf("Effective configuration: port=%d database=%t redis=%t llm=%t session_ttl=%dm",
			merged.Port, merged.DatabaseURL != "", merged.RedisURL != "", merged.APIKey != "", merged.SessionTTLMinutes)
	}

	srv, err := server.New(server.Config{
		Port:        merged.Port,
		DatabaseURL: merged.DatabaseURL,
		RedisURL:    merged.RedisURL,
		APIKey:      merged.APIKey,
		JWTSecret:   merged.JWTSecret,
		SessionTTL:  time.Duration(merged.SessionTTLMinutes) * time.Minute,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}
