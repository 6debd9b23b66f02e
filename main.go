// Command merge2048 serves the sliding-tile merge game.
//
// It supports three commands:
//  1. "server" (default) runs the HTTP server exposing the REST API, the
//     WebSocket hub and an /mcp HTTP endpoint, plus the tick loop that
//     resolves queued directions
//  2. "stdio-mcp" runs an MCP stdio server and spins up an internal HTTP API
//     if none is reachable
//  3. "token" mints a bearer token for the mutating API routes
//
// Every flag can also come from the environment (or a .env file), and an
// optional ngrok tunnel exposes the server publicly during development.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"

	"github.com/wricardo/merge2048/api"
	"github.com/wricardo/merge2048/game/config"
	"github.com/wricardo/merge2048/game/service"
	"github.com/wricardo/merge2048/game/session"
	"github.com/wricardo/merge2048/transport/mcp"
	"github.com/wricardo/merge2048/transport/websocket"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "merge2048"
)

// options is the process configuration collected from flags and environment
type options struct {
	host          string
	port          int
	configDir     string
	defaultConfig string
	tickInterval  time.Duration
	sessionTTL    time.Duration
	jwtSecret     string
	ngrokEnabled  bool
	ngrokAuth     string
	ngrokDomain   string
}

func (o options) addr() string {
	return fmt.Sprintf("%s:%d", o.host, o.port)
}

func (o options) validate() error {
	if o.tickInterval <= 0 {
		return fmt.Errorf("--tick-interval must be positive, got %s", o.tickInterval)
	}
	if o.sessionTTL <= 0 {
		return fmt.Errorf("--session-ttl must be positive, got %s", o.sessionTTL)
	}
	return nil
}

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Warning: error loading .env file: %v\n", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().Run(ctx, os.Args); err != nil {
		log.Fatal().Err(err).Msg("exiting")
	}
}

func newRootCommand() *cli.Command {
	return &cli.Command{
		Name:    AppName,
		Usage:   "2048-style merge game server with REST, WebSocket and MCP access",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "host", Value: "localhost", Usage: "HTTP server host", Sources: cli.EnvVars("HOST")},
			&cli.IntFlag{Name: "port", Value: 8080, Usage: "HTTP server port", Sources: cli.EnvVars("PORT")},
			&cli.StringFlag{Name: "config-dir", Value: "configs", Usage: "directory containing game configurations", Sources: cli.EnvVars("CONFIG_DIR")},
			&cli.StringFlag{Name: "default-config", Usage: "config used when a session names none", Sources: cli.EnvVars("DEFAULT_CONFIG")},
			&cli.DurationFlag{Name: "tick-interval", Value: 50 * time.Millisecond, Usage: "how often queued directions are resolved", Sources: cli.EnvVars("TICK_INTERVAL")},
			&cli.DurationFlag{Name: "session-ttl", Value: 24 * time.Hour, Usage: "idle time before a session is dropped", Sources: cli.EnvVars("SESSION_TTL")},
			&cli.StringFlag{Name: "log-level", Value: "info", Usage: "trace|debug|info|warn|error", Sources: cli.EnvVars("LOG_LEVEL")},
			&cli.StringFlag{Name: "log-format", Value: "console", Usage: "console|json", Sources: cli.EnvVars("LOG_FORMAT")},
			&cli.BoolFlag{Name: "debug", Usage: "shorthand for --log-level debug", Sources: cli.EnvVars("DEBUG")},
			&cli.StringFlag{Name: "jwt-secret", Usage: "HS256 secret; when set, mutating routes need a bearer token", Sources: cli.EnvVars("JWT_SECRET")},
			&cli.BoolFlag{Name: "ngrok", Usage: "expose the server through an ngrok tunnel", Sources: cli.EnvVars("NGROK_ENABLED")},
			&cli.StringFlag{Name: "ngrok-auth", Usage: "ngrok auth token", Sources: cli.EnvVars("NGROK_AUTHTOKEN", "NGROK_AUTH_TOKEN")},
			&cli.StringFlag{Name: "ngrok-domain", Usage: "custom ngrok domain", Sources: cli.EnvVars("NGROK_DOMAIN")},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			if err := setupLogging(os.Stderr, cmd.String("log-level"), cmd.String("log-format"), cmd.Bool("debug")); err != nil {
				return ctx, err
			}
			return ctx, optionsFrom(cmd).validate()
		},
		Action: runServerCommand,
		Commands: []*cli.Command{
			{
				Name:    "server",
				Aliases: []string{"http"},
				Usage:   "run the HTTP server with API, WebSocket and MCP endpoint",
				Action:  runServerCommand,
			},
			{
				Name:    "stdio-mcp",
				Aliases: []string{"mcp-stdio", "mcp"},
				Usage:   "run an MCP stdio server backed by the HTTP API",
				Action:  runStdioCommand,
			},
			{
				Name:  "token",
				Usage: "mint a bearer token signed with --jwt-secret",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "subject", Value: "agent", Usage: "token subject"},
					&cli.DurationFlag{Name: "ttl", Value: api.DefaultTokenTTL, Usage: "token lifetime"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return writeToken(cmd.Root().Writer, cmd.String("jwt-secret"), cmd.String("subject"), cmd.Duration("ttl"))
				},
			},
		},
	}
}

func optionsFrom(cmd *cli.Command) options {
	return options{
		host:          cmd.String("host"),
		port:          cmd.Int("port"),
		configDir:     cmd.String("config-dir"),
		defaultConfig: cmd.String("default-config"),
		tickInterval:  cmd.Duration("tick-interval"),
		sessionTTL:    cmd.Duration("session-ttl"),
		jwtSecret:     cmd.String("jwt-secret"),
		ngrokEnabled:  cmd.Bool("ngrok"),
		ngrokAuth:     cmd.String("ngrok-auth"),
		ngrokDomain:   cmd.String("ngrok-domain"),
	}
}

// setupLogging configures the global zerolog logger. Logs always go to w so
// that stdout stays free for the MCP stdio protocol.
func setupLogging(w io.Writer, level, format string, debug bool) error {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	if debug {
		lvl = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(lvl)

	switch format {
	case "json":
		log.Logger = zerolog.New(w).With().Timestamp().Logger()
	case "console", "":
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}).With().Timestamp().Logger()
	default:
		return fmt.Errorf("invalid log format %q", format)
	}
	return nil
}

func writeToken(w io.Writer, secret, subject string, ttl time.Duration) error {
	token, exp, err := api.NewAuthenticator(secret).SignToken(subject, ttl)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, token)
	log.Info().Str("subject", subject).Time("expires", exp).Msg("token issued")
	return nil
}

func runServerCommand(ctx context.Context, cmd *cli.Command) error {
	opts := optionsFrom(cmd)
	log.Info().Str("version", Version).Str("mode", "server").Msg("starting " + AppName)

	gameService, sessions, err := initializeServices(opts)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}
	return runHTTPServer(ctx, opts, gameService, sessions)
}

func runStdioCommand(ctx context.Context, cmd *cli.Command) error {
	opts := optionsFrom(cmd)
	log.Info().Str("version", Version).Str("mode", "stdio-mcp").Msg("starting " + AppName)

	gameService, sessions, err := initializeServices(opts)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}
	return runStdioMCPWithInternalServer(ctx, opts, gameService, sessions)
}

// initializeServices wires the config and session managers into the game service
func initializeServices(opts options) (service.GameService, *session.Manager, error) {
	configManager, err := config.NewManager(opts.configDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create config manager: %w", err)
	}
	if opts.defaultConfig != "" {
		if err := configManager.SetDefault(opts.defaultConfig); err != nil {
			return nil, nil, fmt.Errorf("failed to set default config: %w", err)
		}
	}

	sessionManager := session.NewManager()
	gameService := service.NewGameService(sessionManager, configManager)

	log.Info().Str("config_dir", opts.configDir).Str("default", configManager.GetDefault().Name).Msg("services ready")
	return gameService, sessionManager, nil
}

// newHub creates a WebSocket hub whose inbound directions are queued on the service
func newHub(gameService service.GameService) *websocket.Hub {
	hub := websocket.NewHub()
	hub.SetCommandHandler(func(ctx context.Context, sessionID, direction string) (interface{}, error) {
		return gameService.Submit(ctx, sessionID, direction)
	})
	return hub
}

// serviceToken signs a token for in-process API callers when auth is enabled
func serviceToken(auth *api.Authenticator, subject string) string {
	if !auth.Enabled() {
		return ""
	}
	token, _, err := auth.SignToken(subject, api.DefaultTokenTTL)
	if err != nil {
		log.Error().Err(err).Msg("failed to sign service token")
		return ""
	}
	return token
}

// newMainRouter mounts the REST API at the root and the MCP proxy at /mcp
func newMainRouter(apiServer http.Handler, mcpClient *mcp.Client) http.Handler {
	mainRouter := http.NewServeMux()
	mainRouter.Handle("/", apiServer)
	mainRouter.HandleFunc("/mcp", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
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

		responseData, err := json.Marshal(response)
		if err != nil {
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(responseData)
	})
	return mainRouter
}

// runHTTPServer serves the API until ctx is cancelled. If ngrok is enabled it
// also serves the same handler through a public tunnel.
func runHTTPServer(ctx context.Context, opts options, gameService service.GameService, sessions *session.Manager) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	auth := api.NewAuthenticator(opts.jwtSecret)
	hub := newHub(gameService)
	apiServer := api.NewServer(gameService, hub, api.WithAuthenticator(auth))

	addr := opts.addr()
	mcpClient := mcp.NewClient("http://"+addr, mcp.WithToken(serviceToken(auth, "mcp-http")))
	handler := newMainRouter(apiServer, mcpClient)

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		hub.Run(ctx)
	}()
	go func() {
		defer wg.Done()
		tickLoop(ctx, gameService, hub, opts.tickInterval)
	}()
	go func() {
		defer wg.Done()
		sessionCleanupRoutine(ctx, sessions, opts.sessionTTL)
	}()

	serveErr := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", addr).
			Str("api", "http://"+addr+"/api").
			Str("websocket", "ws://"+addr+"/ws?session=<session_id>").
			Str("mcp", "http://"+addr+"/mcp").
			Bool("auth", auth.Enabled()).
			Msg("HTTP server listening")

		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	if opts.ngrokEnabled {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runNgrokTunnel(ctx, opts, handler)
		}()
	}

	var err error
	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down")
	case err = <-serveErr:
		log.Error().Err(err).Msg("HTTP server failed")
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if shutdownErr := httpServer.Shutdown(shutdownCtx); shutdownErr != nil {
		log.Error().Err(shutdownErr).Msg("HTTP server shutdown error")
	}

	wg.Wait()
	log.Info().Msg("server stopped")
	return err
}

// runNgrokTunnel serves handler through an ngrok endpoint until ctx is done
func runNgrokTunnel(ctx context.Context, opts options, handler http.Handler) {
	if opts.ngrokAuth == "" {
		log.Warn().Msg("ngrok enabled but no auth token provided (use --ngrok-auth or NGROK_AUTHTOKEN)")
		return
	}

	log.Info().Msg("starting ngrok tunnel")

	var tunnel ngrokConfig.Tunnel
	if opts.ngrokDomain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(opts.ngrokDomain))
		log.Info().Str("domain", opts.ngrokDomain).Msg("using custom ngrok domain")
	} else {
		tunnel = ngrokConfig.HTTPEndpoint()
	}

	tun, err := ngrok.Listen(ctx, tunnel, ngrok.WithAuthtoken(opts.ngrokAuth))
	if err != nil {
		log.Error().Err(err).Msg("failed to start ngrok tunnel")
		return
	}

	go func() {
		<-ctx.Done()
		if err := tun.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close ngrok tunnel")
		}
	}()

	ngrokURL := tun.URL()
	log.Info().
		Str("url", ngrokURL).
		Str("api", ngrokURL+"/api").
		Str("websocket", ngrokURL+"/ws?session=<session_id>").
		Str("mcp", ngrokURL+"/mcp").
		Msg("ngrok tunnel established")

	if err := http.Serve(tun, handler); err != nil && !errors.Is(err, http.ErrServerClosed) && ctx.Err() == nil {
		log.Error().Err(err).Msg("ngrok server error")
	}
	log.Info().Msg("ngrok tunnel closed")
}

// tickLoop resolves queued directions once per interval and pushes every
// resulting snapshot to the session's WebSocket clients
func tickLoop(ctx context.Context, gameService service.GameService, hub *websocket.Hub, interval time.Duration) {
	if interval <= 0 {
		log.Error().Dur("interval", interval).Msg("tick loop not started: interval must be positive")
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			reports, err := gameService.Tick(ctx)
			if err != nil && ctx.Err() == nil {
				log.Error().Err(err).Msg("tick failed")
			}
			broadcastReports(hub, reports)
		}
	}
}

func broadcastReports(hub *websocket.Hub, reports []service.TickReport) {
	for _, report := range reports {
		hub.BroadcastSnapshot(report.SessionID, &report.Snapshot)
		hub.BroadcastEvent(report.SessionID, websocket.EventTick, report.Result)
	}
}

// sessionCleanupRoutine periodically removes sessions that have not been
// accessed within ttl
func sessionCleanupRoutine(ctx context.Context, manager *session.Manager, ttl time.Duration) {
	if ttl <= 0 {
		log.Error().Dur("ttl", ttl).Msg("session cleanup not started: ttl must be positive")
		return
	}
	interval := time.Hour
	if ttl < interval {
		interval = ttl
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := manager.CleanupExpiredSessions(ttl); removed > 0 {
				log.Info().Int("removed", removed).Int("remaining", manager.Count()).Msg("cleaned up expired sessions")
			}
		}
	}
}

// externalAPIAvailable reports whether an API server already answers at baseURL
func externalAPIAvailable(baseURL string) bool {
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(baseURL + "/api/health")
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// runStdioMCPWithInternalServer runs an MCP stdio server. It reuses an API
// already listening on host:port; otherwise it starts an internal one on a
// random loopback port, with its own tick loop, and targets that.
func runStdioMCPWithInternalServer(ctx context.Context, opts options, gameService service.GameService, sessions *session.Manager) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	auth := api.NewAuthenticator(opts.jwtSecret)
	baseURL := "http://" + opts.addr()

	if externalAPIAvailable(baseURL) {
		log.Info().Str("url", baseURL).Msg("external API server found, using it for MCP")
	} else {
		log.Info().Msg("no external API server found, starting internal HTTP server")

		listener, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			return fmt.Errorf("failed to get available port: %w", err)
		}
		baseURL = "http://" + listener.Addr().String()

		hub := newHub(gameService)
		go hub.Run(ctx)
		go tickLoop(ctx, gameService, hub, opts.tickInterval)
		go sessionCleanupRoutine(ctx, sessions, opts.sessionTTL)

		httpServer := &http.Server{Handler: api.NewServer(gameService, hub, api.WithAuthenticator(auth))}
		go func() {
			if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error().Err(err).Msg("internal HTTP server error")
			}
		}()
		defer httpServer.Close()

		log.Info().Str("url", baseURL).Msg("internal HTTP server started")
	}

	mcpClient := mcp.NewClient(baseURL, mcp.WithToken(serviceToken(auth, "mcp-stdio")))
	log.Info().Str("api", baseURL).Msg("MCP stdio server ready")

	if err := server.ServeStdio(mcpClient.GetMCPServer()); err != nil {
		return fmt.Errorf("MCP stdio server error: %w", err)
	}
	return nil
}
