package app

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/caarlos0/env/v11"

	server "emberwood/server"
	"emberwood/server/internal/auth"
	gamenet "emberwood/server/internal/net"
	"emberwood/server/internal/net/ws"
	"emberwood/server/internal/sim"
	"emberwood/server/internal/telemetry"
	"emberwood/server/logging"
	"emberwood/server/logging/sinks"
)

// Config is populated from the environment.
type Config struct {
	Port           int           `env:"PORT" envDefault:"8080"`
	TickIntervalMS int           `env:"TICK_INTERVAL_MS" envDefault:"1000"`
	BoardWidth     int           `env:"BOARD_WIDTH" envDefault:"32"`
	BoardHeight    int           `env:"BOARD_HEIGHT" envDefault:"32"`
	TokenTTL       time.Duration `env:"TOKEN_TTL" envDefault:"24h"`
	ClientDir      string        `env:"CLIENT_DIR"`
	LogJSON        bool          `env:"LOG_JSON" envDefault:"false"`
}

// LoadConfig reads the configuration from the environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	if cfg.TickIntervalMS <= 0 {
		cfg.TickIntervalMS = 1000
	}
	return cfg, nil
}

// App owns the process-level wiring: world, hub, router, HTTP server.
type App struct {
	cfg     Config
	hub     *server.Hub
	router  *logging.Router
	httpSrv *http.Server
	logger  telemetry.Logger
	metrics *telemetry.CounterSet
	stopSim chan struct{}
}

// New assembles an application from its configuration.
func New(cfg Config) (*App, error) {
	stdLogger := log.New(os.Stdout, "", log.LstdFlags)
	logger := telemetry.WrapLogger(stdLogger)
	metrics := telemetry.NewCounterSet()

	var sink logging.Sink
	if cfg.LogJSON {
		sink = sinks.NewJSON(os.Stdout)
	} else {
		sink = sinks.NewConsole(os.Stdout)
	}
	router := logging.NewRouter(nil, logging.DefaultConfig(), []logging.NamedSink{
		{Name: "stdout", Sink: sink},
	})

	worldCfg := sim.WorldConfig{
		Width:  cfg.BoardWidth,
		Height: cfg.BoardHeight,
	}
	world := sim.NewWorld(worldCfg, sim.DefaultMapConfig(), router)

	hub := server.NewHub(server.HubConfig{
		World:     world,
		Loop:      sim.LoopConfig{TickInterval: time.Duration(cfg.TickIntervalMS) * time.Millisecond},
		Logger:    logger,
		Metrics:   metrics,
		Publisher: router,
	})

	accounts := auth.NewAccountManager()
	tokens, err := auth.NewTokenIssuer(cfg.TokenTTL)
	if err != nil {
		return nil, fmt.Errorf("init token issuer: %w", err)
	}

	socket := ws.NewHandler(hub, tokens, logger)
	mux := gamenet.NewMux(gamenet.MuxConfig{
		Accounts:  accounts,
		Tokens:    tokens,
		Hub:       hub,
		Socket:    socket,
		ClientDir: cfg.ClientDir,
		Logger:    logger,
	})

	return &App{
		cfg:     cfg,
		hub:     hub,
		router:  router,
		logger:  logger,
		metrics: metrics,
		httpSrv: &http.Server{
			Addr:    fmt.Sprintf(":%d", cfg.Port),
			Handler: mux,
		},
		stopSim: make(chan struct{}),
	}, nil
}

// Run starts the simulation loop and serves HTTP until the context is
// cancelled, then shuts both down.
func (a *App) Run(ctx context.Context) error {
	go a.hub.RunSimulation(a.stopSim)

	errCh := make(chan error, 1)
	go func() {
		a.logger.Printf("[app] listening on %s (tick=%dms board=%dx%d)",
			a.httpSrv.Addr, a.cfg.TickIntervalMS, a.cfg.BoardWidth, a.cfg.BoardHeight)
		if err := a.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		close(a.stopSim)
		a.router.Close(context.Background())
		return err
	case <-ctx.Done():
	}

	close(a.stopSim)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := a.httpSrv.Shutdown(shutdownCtx)
	if closeErr := a.router.Close(shutdownCtx); err == nil {
		err = closeErr
	}
	return err
}
