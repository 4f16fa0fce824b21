package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/mazurko/prospekt/internal/api"
	"github.com/mazurko/prospekt/internal/blob"
	"github.com/mazurko/prospekt/internal/config"
	"github.com/mazurko/prospekt/internal/convert"
	"github.com/mazurko/prospekt/internal/pdfspan"
	"github.com/mazurko/prospekt/internal/profile"
	"github.com/mazurko/prospekt/internal/sharepoint"
	"github.com/mazurko/prospekt/internal/storage"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the prospekt server (foreground)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer()
	},
}

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the running prospekt server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return stopServer()
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show prospekt system status",
	RunE: func(cmd *cobra.Command, args []string) error {
		return showStatus()
	},
}

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the MCP interface on stdio",
	Long: `Serve the MCP interface on stdio.

Tools can queue conversions and read stored profiles. Queued work is
processed by the next prospekt serve run sharing the same data directory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMCP()
	},
}

func pidFilePath(dataDir string) string {
	return filepath.Join(dataDir, "prospekt.pid")
}

func writePIDFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(strconv.Itoa(os.Getpid())), 0o644)
}

func readPIDFile(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(string(data)))
}

func removePIDFile(path string) {
	os.Remove(path)
}

func setupLogging(level string) {
	logLevel := slog.LevelInfo
	switch {
	case strings.EqualFold(level, "debug"):
		logLevel = slog.LevelDebug
	case strings.EqualFold(level, "warn"):
		logLevel = slog.LevelWarn
	case strings.EqualFold(level, "error"):
		logLevel = slog.LevelError
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))
}

func runServer() error {
	fmt.Fprintf(os.Stderr, "prospekt version %s\n", version)

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.ValidateServer(); err != nil {
		return err
	}

	setupLogging(cfg.Log.Level)

	// Write PID file. Check if server is already running via health endpoint.
	pidPath := pidFilePath(cfg.Storage.DataDir)
	healthURL := fmt.Sprintf("http://127.0.0.1:%d/health", cfg.Server.Port)
	healthClient := &http.Client{Timeout: 2 * time.Second}
	if resp, err := healthClient.Get(healthURL); err == nil {
		resp.Body.Close()
		if pid, pidErr := readPIDFile(pidPath); pidErr == nil {
			printWarning("prospekt is already running (PID %d)", pid)
			return fmt.Errorf("server already running (PID %d)", pid)
		}
		printWarning("prospekt is already running on port %d", cfg.Server.Port)
		return fmt.Errorf("server already running on port %d", cfg.Server.Port)
	}
	if err := writePIDFile(pidPath); err != nil {
		return fmt.Errorf("writing PID file: %w", err)
	}
	defer removePIDFile(pidPath)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Open storage.
	store, err := storage.Open(cfg.Storage.DataDir)
	if err != nil {
		return fmt.Errorf("opening storage: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "warning: closing storage: %v\n", err)
		}
	}()

	// Build the conversion worker.
	graph := sharepoint.NewClient(sharepoint.Credentials{
		ClientID:     cfg.Graph.ClientID,
		ClientSecret: cfg.Graph.ClientSecret,
		AuthorityURL: cfg.Graph.AuthorityURL,
		Scope:        cfg.Graph.Scope,
	})
	artifacts := blob.NewContainer(cfg.Blob.OutputDir)
	parser := profile.NewParser()
	parser.BulletNormalization = cfg.Parse.BulletNormalization

	pollInterval, err := time.ParseDuration(cfg.Worker.PollInterval)
	if err != nil {
		slog.Warn("invalid poll interval, using default 500ms", "value", cfg.Worker.PollInterval, "error", err)
		pollInterval = 500 * time.Millisecond
	}
	worker := convert.NewWorker(store, graph, convert.ExtractorFunc(pdfspan.Extract), artifacts, parser, pollInterval)

	// Build HTTP handler and server.
	appHandler := api.NewAppHandler(api.AppDeps{
		Store:       store,
		Token:       cfg.Auth.APIToken,
		MaxAttempts: cfg.Worker.MaxAttempts,
	})

	addr := fmt.Sprintf("127.0.0.1:%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: appHandler,
	}

	// Run the worker pool and HTTP server until a signal or server error.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		worker.RunPool(gctx, cfg.Worker.Concurrency)
		return nil
	})
	g.Go(func() error {
		fmt.Fprintf(os.Stderr, "prospekt listening on %s\n", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		fmt.Fprintln(os.Stderr, "shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func runMCP() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	setupLogging(cfg.Log.Level)

	store, err := storage.Open(cfg.Storage.DataDir)
	if err != nil {
		return fmt.Errorf("opening storage: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "warning: closing storage: %v\n", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mcpSrv := api.NewMCPServer(api.MCPDeps{
		Store:       store,
		MaxAttempts: cfg.Worker.MaxAttempts,
	})
	stdioSrv := server.NewStdioServer(mcpSrv)
	if err := stdioSrv.Listen(ctx, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("mcp stdio server: %w", err)
	}
	return nil
}

func stopServer() error {
	cfg, err := config.Load()
	if err != nil {
		printError("could not load config: %v", err)
		return err
	}

	pidPath := pidFilePath(cfg.Storage.DataDir)
	pid, err := readPIDFile(pidPath)
	if err != nil {
		printError("prospekt is not running (no PID file)")
		return fmt.Errorf("not running: %w", err)
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		printError("could not find process %d", pid)
		return err
	}

	if err := process.Signal(syscall.SIGTERM); err != nil {
		printError("could not stop prospekt (PID %d): %v", pid, err)
		removePIDFile(pidPath)
		return err
	}

	printSuccess("Sent stop signal to prospekt (PID %d)", pid)
	return nil
}

func showStatus() error {
	cfg, err := config.Load()
	if err != nil {
		// Still show partial status even if config fails.
		printError("config error: %v", err)
		return nil
	}

	// Check server health.
	serverURL := fmt.Sprintf("http://127.0.0.1:%d", cfg.Server.Port)
	client := &http.Client{Timeout: 2 * time.Second}

	resp, err := client.Get(serverURL + "/health")
	if err != nil {
		printStatus("Server", "stopped")
	} else {
		resp.Body.Close()
		if resp.StatusCode == 200 {
			printStatus("Server", "running on port %d", cfg.Server.Port)
		} else {
			printStatus("Server", "error (HTTP %d)", resp.StatusCode)
		}
	}

	// Show conversion/profile counts if server is running.
	if cfg.Auth.APIToken != "" && resp != nil && resp.StatusCode == 200 {
		convResp, err := apiGet(client, serverURL+"/conversions?limit=100", cfg.Auth.APIToken)
		if err == nil {
			var conversions []json.RawMessage
			if json.NewDecoder(convResp.Body).Decode(&conversions) == nil {
				printStatus("Conversions", "%s", countLabel(len(conversions), 100))
			}
			convResp.Body.Close()
		}
		profResp, err2 := apiGet(client, serverURL+"/profiles?limit=100", cfg.Auth.APIToken)
		if err2 == nil {
			var profiles []json.RawMessage
			if json.NewDecoder(profResp.Body).Decode(&profiles) == nil {
				printStatus("Profiles", "%s", countLabel(len(profiles), 100))
			}
			profResp.Body.Close()
		}
	}

	if cfg.Graph.AuthorityURL != "" {
		printStatus("Graph authority", "%s", cfg.Graph.AuthorityURL)
	}
	printStatus("Output dir", "%s", cfg.Blob.OutputDir)
	printStatus("Data dir", "%s", cfg.Storage.DataDir)
	return nil
}

func countLabel(count, limit int) string {
	if count >= limit {
		return fmt.Sprintf("%d+", count)
	}
	return fmt.Sprintf("%d", count)
}

func apiGet(client *http.Client, url, token string) (*http.Response, error) {
	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return client.Do(req)
}
