// Command tilemerge runs the tile-merge game.
//
// Subcommands:
//   - serve    – HTTP server exposing REST API, WebSocket, and an /mcp endpoint
//   - play     – interactive terminal UI against a local service
//   - mcp      – MCP stdio server, reusing an external API or an internal one
//   - autoplay – plays games unattended with a strategy and reports results
//   - validate – checks the config directory for broken presets
//
// Flags control host/port, config directory, session storage (flat files
// or SQLite), debug logging, and optional ngrok tunneling.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/urfave/cli/v3"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"

	"github.com/tilemerge/tilemerge/api"
	"github.com/tilemerge/tilemerge/autoplay"
	"github.com/tilemerge/tilemerge/game/config"
	"github.com/tilemerge/tilemerge/game/service"
	"github.com/tilemerge/tilemerge/game/session"
	"github.com/tilemerge/tilemerge/transport/mcp"
	"github.com/tilemerge/tilemerge/transport/websocket"
	"github.com/tilemerge/tilemerge/tui"
	"github.com/tilemerge/tilemerge/validate"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Tile Merge Game Server"
)

func main() {
	// Load .env file if it exists (ignore error if not found)
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Warning: Error loading .env file: %v", err)
		}
	} else {
		log.Println("Loaded environment variables from .env file")
	}

	cmd := rootCommand()
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func rootCommand() *cli.Command {
	return &cli.Command{
		Name:    "tilemerge",
		Usage:   "sliding tile-merge game server and tools",
		Version: Version,
		// Serve flags live on the root too so `tilemerge` with no
		// subcommand starts the server.
		Flags: append(serveFlags(),
			&cli.StringFlag{
				Name:    "config-dir",
				Value:   "configs",
				Usage:   "Directory containing game configurations",
				Sources: cli.EnvVars("CONFIG_DIR"),
			},
			&cli.StringFlag{
				Name:    "sessions-dir",
				Value:   "sessions",
				Usage:   "Directory for flat-file session storage",
				Sources: cli.EnvVars("SESSIONS_DIR"),
			},
			&cli.StringFlag{
				Name:    "db",
				Usage:   "SQLite database path for session storage (overrides --sessions-dir)",
				Sources: cli.EnvVars("TILEMERGE_DB"),
			},
			&cli.BoolFlag{
				Name:    "debug",
				Usage:   "Enable debug logging",
				Sources: cli.EnvVars("DEBUG"),
			},
		),
		Commands: []*cli.Command{
			serveCommand(),
			playCommand(),
			mcpCommand(),
			autoplayCommand(),
			validateCommand(),
		},
		// Running without a subcommand starts the server.
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runServe(ctx, cmd)
		},
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP server with REST API, WebSocket, and MCP endpoint",
		Flags: serveFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runServe(ctx, cmd)
		},
	}
}

func serveFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "host",
			Value:   "localhost",
			Usage:   "HTTP server host",
			Sources: cli.EnvVars("HOST"),
		},
		&cli.IntFlag{
			Name:    "port",
			Value:   8080,
			Usage:   "HTTP server port",
			Sources: cli.EnvVars("PORT"),
		},
		&cli.BoolFlag{
			Name:    "ngrok",
			Usage:   "Enable ngrok tunnel",
			Sources: cli.EnvVars("NGROK_ENABLED"),
		},
		&cli.StringFlag{
			Name:    "ngrok-auth",
			Usage:   "Ngrok auth token",
			Sources: cli.EnvVars("NGROK_AUTHTOKEN"),
		},
		&cli.StringFlag{
			Name:    "ngrok-domain",
			Usage:   "Custom ngrok domain (optional)",
			Sources: cli.EnvVars("NGROK_DOMAIN"),
		},
	}
}

func playCommand() *cli.Command {
	return &cli.Command{
		Name:  "play",
		Usage: "Play interactively in the terminal",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "Config ID to play (defaults to the server default)",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			setupLogging(cmd)
			svcs, err := buildServices(cmd)
			if err != nil {
				return err
			}
			defer svcs.close()

			return tui.Run(svcs.game, cmd.String("config"))
		},
	}
}

func mcpCommand() *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "Run an MCP stdio server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "api-url",
				Value: "http://localhost:8080",
				Usage: "External API server to proxy; an internal one is started when unreachable",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			setupLogging(cmd)
			svcs, err := buildServices(cmd)
			if err != nil {
				return err
			}
			defer svcs.close()

			return runStdioMCP(svcs.game, cmd.String("api-url"))
		},
	}
}

func autoplayCommand() *cli.Command {
	return &cli.Command{
		Name:  "autoplay",
		Usage: "Play games unattended and report results",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "Config ID to play (defaults to the server default)",
			},
			&cli.IntFlag{
				Name:  "games",
				Value: 10,
				Usage: "Number of games to play",
			},
			&cli.StringFlag{
				Name:  "strategy",
				Value: "corner",
				Usage: "Strategy: random, greedy, or corner",
			},
			&cli.IntFlag{
				Name:  "seed",
				Usage: "RNG seed for reproducible runs (0 means time-seeded)",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Print the full report as JSON",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			setupLogging(cmd)

			configManager, err := config.NewManager(cmd.String("config-dir"))
			if err != nil {
				return fmt.Errorf("failed to create config manager: %w", err)
			}

			gameConfig := configManager.GetDefault()
			if name := cmd.String("config"); name != "" {
				gameConfig, err = configManager.LoadConfig(name)
				if err != nil {
					return fmt.Errorf("failed to load config %q: %w", name, err)
				}
			}

			runner, err := autoplay.NewRunner(gameConfig, autoplay.Options{
				Games:    int(cmd.Int("games")),
				Strategy: cmd.String("strategy"),
				Seed:     int64(cmd.Int("seed")),
			})
			if err != nil {
				return err
			}

			report, err := runner.Run(ctx)
			if err != nil {
				return err
			}

			if cmd.Bool("json") {
				data, err := json.MarshalIndent(report, "", "  ")
				if err != nil {
					return err
				}
				fmt.Println(string(data))
				return nil
			}

			fmt.Print(report)
			return nil
		},
	}
}

func validateCommand() *cli.Command {
	return &cli.Command{
		Name:  "validate",
		Usage: "Validate all configuration files in the config directory",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			results, err := validate.Dir(cmd.String("config-dir"))
			if err != nil {
				return err
			}

			fmt.Print(validate.Summary(results))

			for _, r := range results {
				if !r.Valid {
					return cli.Exit("", 1)
				}
			}
			return nil
		},
	}
}

func setupLogging(cmd *cli.Command) {
	if cmd.Bool("debug") {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	} else {
		log.SetFlags(log.LstdFlags)
	}
}

// services bundles the wired-up backend shared by all subcommands.
type services struct {
	game        service.GameService
	sessions    *session.Manager
	persistence session.SessionPersistence
}

func (s *services) close() {
	if err := s.persistence.Close(); err != nil {
		log.Printf("Warning: Failed to close session storage: %v", err)
	}
}

// buildServices wires the config manager, session storage, and game
// service from the command flags.
func buildServices(cmd *cli.Command) (*services, error) {
	configManager, err := config.NewManager(cmd.String("config-dir"))
	if err != nil {
		return nil, fmt.Errorf("failed to create config manager: %w", err)
	}

	var persistence session.SessionPersistence
	if dbPath := cmd.String("db"); dbPath != "" {
		persistence, err = session.NewSQLitePersistence(dbPath, configManager)
		if err != nil {
			return nil, fmt.Errorf("failed to open session database: %w", err)
		}
		log.Printf("Session storage: SQLite (%s)", dbPath)
	} else {
		persistence, err = session.NewFilePersistence(cmd.String("sessions-dir"), configManager)
		if err != nil {
			return nil, fmt.Errorf("failed to create session persistence: %w", err)
		}
		log.Printf("Session storage: files (%s)", cmd.String("sessions-dir"))
	}

	sessionManager := session.NewManagerWithPersistence(persistence)
	if err := sessionManager.LoadPersistedSessions(); err != nil {
		log.Printf("Warning: Failed to load persisted sessions: %v", err)
	}

	return &services{
		game:        service.NewGameService(sessionManager, configManager),
		sessions:    sessionManager,
		persistence: persistence,
	}, nil
}

func runServe(ctx context.Context, cmd *cli.Command) error {
	setupLogging(cmd)
	log.Printf("Starting %s v%s", AppName, Version)

	svcs, err := buildServices(cmd)
	if err != nil {
		return err
	}
	defer svcs.close()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	go sessionCleanupRoutine(ctx, svcs.sessions)
	go storageSyncRoutine(ctx, svcs.sessions, svcs.persistence)

	return runHTTPServer(ctx, cmd, svcs.game)
}

// runHTTPServer starts the HTTP server with REST API, WebSocket hub, and
// an /mcp proxy endpoint. If ngrok is enabled it also provisions a
// public tunnel. It blocks until ctx is cancelled.
func runHTTPServer(ctx context.Context, cmd *cli.Command, gameService service.GameService) error {
	hub := websocket.NewHub()
	go hub.Run()

	apiServer := api.NewServer(gameService, hub)

	addr := fmt.Sprintf("%s:%d", cmd.String("host"), cmd.Int("port"))

	// MCP client for the /mcp endpoint proxies back to this server.
	baseURL := fmt.Sprintf("http://%s", addr)
	mcpClient := mcp.NewClient(baseURL)

	mainRouter := http.NewServeMux()
	mainRouter.Handle("/", apiServer)
	mainRouter.HandleFunc("/mcp", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		response := mcpClient.GetMCPServer().HandleMessage(r.Context(), body)

		w.Header().Set("Content-Type", "application/json")
		responseData, err := json.Marshal(response)
		if err != nil {
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}
		w.Write(responseData)
	})

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      mainRouter,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()

		log.Printf("HTTP server listening on %s", addr)
		log.Printf("REST API: http://%s/api", addr)
		log.Printf("WebSocket: ws://%s/ws?session=<session_id>", addr)
		log.Printf("MCP endpoint: http://%s/mcp", addr)

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server failed: %v", err)
		}
	}()

	if cmd.Bool("ngrok") {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runNgrokTunnel(ctx, cmd, mainRouter)
		}()
	}

	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	wg.Wait()
	log.Println("Server stopped")
	return nil
}

func runNgrokTunnel(ctx context.Context, cmd *cli.Command, handler http.Handler) {
	authToken := cmd.String("ngrok-auth")
	if authToken == "" {
		log.Println("WARNING: Ngrok enabled but no auth token provided (use --ngrok-auth or NGROK_AUTHTOKEN)")
		return
	}

	log.Println("Starting ngrok tunnel...")

	var tunnel ngrokConfig.Tunnel
	if domain := cmd.String("ngrok-domain"); domain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(domain))
		log.Printf("Using custom ngrok domain: %s", domain)
	} else {
		tunnel = ngrokConfig.HTTPEndpoint()
	}

	tun, err := ngrok.Listen(ctx,
		tunnel,
		ngrok.WithAuthtoken(authToken),
	)
	if err != nil {
		log.Printf("Failed to start ngrok tunnel: %v", err)
		return
	}
	defer func() {
		if err := tun.Close(); err != nil {
			log.Printf("Failed to close ngrok tunnel: %v", err)
		}
	}()

	ngrokURL := tun.URL()
	log.Printf("Ngrok tunnel established: %s", ngrokURL)
	log.Printf("  REST API (ngrok): %s/api", ngrokURL)
	log.Printf("  WebSocket (ngrok): %s/ws?session=<session_id>", ngrokURL)
	log.Printf("  MCP endpoint (ngrok): %s/mcp", ngrokURL)

	if err := http.Serve(tun, handler); err != nil && err != http.ErrServerClosed {
		log.Printf("Ngrok server error: %v", err)
	}
	log.Println("Ngrok tunnel closed")
}

// sessionCleanupRoutine periodically removes sessions that have not been
// accessed within the retention window.
func sessionCleanupRoutine(ctx context.Context, manager *session.Manager) {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed := manager.CleanupOldSessions(24 * time.Hour)
			if removed > 0 {
				log.Printf("Cleaned up %d expired sessions", removed)
			}
		}
	}
}

// storageSyncRoutine prunes in-memory sessions whose backing records were
// deleted out from under the server, and writes back any state that has
// not hit storage yet.
func storageSyncRoutine(ctx context.Context, manager *session.Manager, persistence session.SessionPersistence) {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if err := manager.SaveAllSessions(); err != nil {
				log.Printf("Warning: Failed to save sessions on shutdown: %v", err)
			}
			return
		case <-ticker.C:
			pruned := 0
			for _, s := range manager.List() {
				if !persistence.Exists(s.ID) {
					if err := manager.DeleteFromMemory(s.ID); err == nil {
						pruned++
					}
				}
			}
			if pruned > 0 {
				log.Printf("Storage sync: pruned %d orphaned sessions from memory", pruned)
			}
		}
	}
}

// runStdioMCP runs an MCP stdio server. It reuses the external API at
// apiURL when one responds; otherwise it starts a minimal internal HTTP
// API on a random loopback port and targets that.
func runStdioMCP(gameService service.GameService, apiURL string) error {
	baseURL := apiURL

	log.Printf("Checking for external API server at %s...", apiURL)
	testClient := &http.Client{Timeout: 2 * time.Second}
	resp, err := testClient.Get(apiURL + "/api/health")
	if err == nil && resp.StatusCode < 500 {
		resp.Body.Close()
		log.Printf("External API server found at %s, using it for MCP", apiURL)
	} else {
		log.Printf("No external API server found, starting internal HTTP server")

		listener, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			return fmt.Errorf("failed to get available port: %w", err)
		}

		internalAddr := fmt.Sprintf("127.0.0.1:%d", listener.Addr().(*net.TCPAddr).Port)
		log.Printf("Starting internal HTTP server on %s for MCP stdio", internalAddr)

		hub := websocket.NewHub()
		go hub.Run()

		httpServer := &http.Server{Handler: api.NewServer(gameService, hub)}
		go func() {
			if err := httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
				log.Printf("Internal HTTP server error: %v", err)
			}
		}()

		// Give the listener a beat to come up.
		time.Sleep(100 * time.Millisecond)
		baseURL = fmt.Sprintf("http://%s", internalAddr)
	}

	mcpClient := mcp.NewClient(baseURL)
	log.Println("MCP stdio server ready")

	if err := mcpserver.ServeStdio(mcpClient.GetMCPServer()); err != nil {
		return fmt.Errorf("MCP stdio server error: %w", err)
	}
	return nil
}
