package totg

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/soundprediction/totg"
	"github.com/soundprediction/totg/pkg/config"
	totgLogger "github.com/soundprediction/totg/pkg/logger"
	"github.com/soundprediction/totg/pkg/server"
	"github.com/soundprediction/totg/pkg/telemetry"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the TOTG HTTP server",
	Long: `Start the TOTG HTTP server to provide REST API access to the temporal graph.

The server provides endpoints for:
- Ingesting documents and relationships
- Temporal reachability queries (future, past, paths)
- Bidirectional attention scoring
- Chunked long-chain analysis
- Graph export and statistics
- Health checks

Configuration can be provided through config files, environment variables, or command-line flags.`,
	RunE: runServer,
}

var (
	serverHost string
	serverPort int
	serverMode string
)

func init() {
	rootCmd.AddCommand(serverCmd)

	// Server-specific flags
	serverCmd.Flags().StringVar(&serverHost, "host", "localhost", "Server host")
	serverCmd.Flags().IntVar(&serverPort, "port", 8080, "Server port")
	serverCmd.Flags().StringVar(&serverMode, "mode", "debug", "Server mode (debug, release, test)")

	// Graph flags
	serverCmd.Flags().Int("layer-duration-days", 0, "Width of a temporal layer bucket in days")

	// Analyzer flags
	serverCmd.Flags().Int("chunk-size-days", 0, "Chunk size for long-chain analysis in days")
	serverCmd.Flags().String("checkpoint-dir", "", "Directory for analysis checkpoints (enables checkpointing)")

	// Export flags
	serverCmd.Flags().String("export-dir", "", "Directory for graph snapshots")

	// Telemetry flags
	serverCmd.Flags().String("telemetry-parquet-path", "", "Path to directory for telemetry (errors and analysis metrics)")
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	overrideConfigWithFlags(cmd, cfg)

	if err := validateServerConfig(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	fmt.Println("Initializing TOTG...")
	client, err := initializeClient(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize TOTG: %w", err)
	}

	srv := server.New(cfg, client)
	srv.Setup()

	// Handle signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Start server in a goroutine
	serverErrChan := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil {
			serverErrChan <- err
		}
	}()

	// Wait for shutdown signal or server error
	select {
	case err := <-serverErrChan:
		return fmt.Errorf("server error: %w", err)
	case sig := <-sigChan:
		fmt.Printf("\nReceived signal: %v\n", sig)

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Stop(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}

		fmt.Println("Server stopped gracefully")
		return nil
	}
}

func overrideConfigWithFlags(cmd *cobra.Command, cfg *config.Config) {
	// Server flags
	if cmd.Flags().Changed("host") {
		cfg.Server.Host = serverHost
	}
	if cmd.Flags().Changed("port") {
		cfg.Server.Port = serverPort
	}
	if cmd.Flags().Changed("mode") {
		cfg.Server.Mode = serverMode
	}

	// Graph flags
	if cmd.Flags().Changed("layer-duration-days") {
		cfg.Graph.LayerDurationDays, _ = cmd.Flags().GetInt("layer-duration-days")
	}

	// Analyzer flags
	if cmd.Flags().Changed("chunk-size-days") {
		cfg.Analyzer.ChunkSizeDays, _ = cmd.Flags().GetInt("chunk-size-days")
	}
	if cmd.Flags().Changed("checkpoint-dir") {
		cfg.Analyzer.CheckpointDir, _ = cmd.Flags().GetString("checkpoint-dir")
		cfg.Analyzer.CheckpointsEnabled = true
	}

	// Export flags
	if cmd.Flags().Changed("export-dir") {
		cfg.Export.Dir, _ = cmd.Flags().GetString("export-dir")
	}

	// Telemetry flags
	if cmd.Flags().Changed("telemetry-parquet-path") {
		cfg.Telemetry.ParquetPath, _ = cmd.Flags().GetString("telemetry-parquet-path")
		cfg.Telemetry.Enabled = true
	}
}

func validateServerConfig(cfg *config.Config) error {
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", cfg.Server.Port)
	}
	if cfg.Graph.LayerDurationDays < 0 {
		return fmt.Errorf("invalid layer duration: %d", cfg.Graph.LayerDurationDays)
	}
	return nil
}

// buildLogger creates the application logger, routing records through the
// parquet telemetry sink when telemetry is enabled.
func buildLogger(cfg *config.Config) *slog.Logger {
	colorHandler := totgLogger.NewColorHandler(totgLogger.Options{
		Level:     totgLogger.ParseLevel(cfg.Log.Level),
		Output:    os.Stderr,
		UseColors: true,
	})

	if !cfg.Telemetry.Enabled {
		return slog.New(colorHandler)
	}

	trackingPath := cfg.Telemetry.ParquetPath
	if err := os.MkdirAll(trackingPath, 0755); err != nil {
		fmt.Printf("Warning: Failed to create telemetry directory: %v\n", err)
		return slog.New(colorHandler)
	}

	parquetHandler, err := telemetry.NewParquetHandler(colorHandler, trackingPath)
	if err != nil {
		fmt.Printf("Warning: Failed to initialize error tracking: %v\n", err)
		return slog.New(colorHandler)
	}

	fmt.Printf("Error tracking enabled at: %s\n", trackingPath)
	return slog.New(parquetHandler)
}

func initializeClient(cfg *config.Config) (*totg.Client, error) {
	// Config-derived wiring lives in NewFromConfig; the CLI only swaps in
	// its telemetry-aware logger.
	client, err := totg.NewFromConfig(cfg, totg.WithLogger(buildLogger(cfg)))
	if err != nil {
		return nil, err
	}

	if cfg.Analyzer.CheckpointsEnabled {
		fmt.Printf("Checkpointing enabled at: %s\n", cfg.Analyzer.CheckpointDir)
	}

	fmt.Println("TOTG initialized successfully")
	return client, nil
}
