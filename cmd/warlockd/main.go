package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"github.com/warlock/server/internal/bus"
	"github.com/warlock/server/internal/catalog"
	"github.com/warlock/server/internal/config"
	"github.com/warlock/server/internal/game"
	"github.com/warlock/server/internal/handler"
	"github.com/warlock/server/internal/httpapi"
	gonet "github.com/warlock/server/internal/net"
	"github.com/warlock/server/internal/registry"
	"github.com/warlock/server/internal/scripting"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

func printBanner(serverName string) {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Println("\033[36;1m  │\033[0m            warlockd  v0.1.0               \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  │\033[0m     hidden-role co-op battle server       \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
	fmt.Printf("  \033[1mserver:\033[0m %s\n\n", serverName)
}

func printSection(title string) {
	lineLen := 46 - len(title) - 1
	if lineLen < 3 {
		lineLen = 3
	}
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := fmt.Sprintf("%d", count)
	dotsLen := 42 - len(label) - len(numStr)
	if dotsLen < 3 {
		dotsLen = 3
	}
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), numStr)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

func printReady(msg string) {
	fmt.Printf("  \033[32m▶\033[0m %s\n", msg)
}

// ── Main server logic ─────────────────────────────────────────────

func run() error {
	// 1. Load config
	cfgPath := "config/server.toml"
	if p := os.Getenv("WARLOCK_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	printBanner(cfg.Server.Name)

	// 3. Load the game catalog
	printSection("catalog")
	cat, err := catalog.LoadDir(cfg.Data.Dir)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	printStat("races", len(cat.Races()))
	printStat("classes", len(cat.Classes()))
	abilityCount := 0
	for _, c := range cat.Classes() {
		abilityCount += len(c.Abilities)
	}
	printStat("class abilities", abilityCount)

	// 4. Initialize Lua scripting engine for the balance curves
	luaEngine, err := scripting.NewEngine(cfg.Data.ScriptsDir, cat.Balance(), log)
	if err != nil {
		return fmt.Errorf("lua engine: %w", err)
	}
	defer luaEngine.Close()
	printOK("lua scripts loaded")
	fmt.Println()

	// 5. Build the room registry and the outbound hub
	hub := bus.NewHub(log)
	rooms := registry.New(cfg.Game.MaxRooms, cfg.Game.IdleTimeout, cfg.Game.CreateInterval, func(code string) *game.Room {
		return game.NewRoom(code, game.Options{
			Catalog:        cat,
			Formulas:       luaEngine,
			Notifier:       hub,
			Log:            log,
			MinPlayers:     cfg.Game.MinPlayers,
			MaxPlayers:     cfg.Game.MaxPlayers,
			TurnTimeout:    cfg.Game.TurnTimeout,
			ReconnectGrace: cfg.Game.ReconnectGrace,
		})
	}, log)

	// 6. Create the command registry and register handlers
	deps := &handler.Deps{
		Registry: rooms,
		Hub:      hub,
		Catalog:  cat,
		Config:   cfg,
		Formulas: luaEngine,
		Log:      log,
	}
	cmdReg := handler.NewRegistry(log)
	handler.RegisterAll(cmdReg, deps)

	// 7. Create network servers
	netServer, err := gonet.NewServer(
		cfg.Server.BindAddress,
		cfg.Network.InQueueSize,
		cfg.Network.OutQueueSize,
		cfg.Network.MaxFramesPerSec,
		cfg.Network.WriteTimeout,
		log,
	)
	if err != nil {
		return fmt.Errorf("net server: %w", err)
	}

	httpServer := &http.Server{
		Addr:    cfg.HTTP.BindAddress,
		Handler: httpapi.NewServer(cat, cfg.HTTP.AllowedOrigins, log).Handler(),
	}

	printSection("server ready")
	printReady(fmt.Sprintf("game listener %s", netServer.Addr().String()))
	printReady(fmt.Sprintf("catalog api   %s", cfg.HTTP.BindAddress))
	fmt.Println()

	// 8. Run everything until a signal arrives
	g, ctx := errgroup.WithContext(context.Background())

	g.Go(func() error {
		netServer.AcceptLoop()
		return nil
	})

	g.Go(func() error {
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		for {
			select {
			case sess := <-netServer.NewSessions():
				go func() {
					handler.ServeSession(sess, cmdReg, deps)
					netServer.NotifyDead(sess.ID)
				}()
			case id := <-netServer.DeadSessions():
				log.Debug("session gone", zap.Uint64("session", id))
			case <-ctx.Done():
				return nil
			}
		}
	})

	g.Go(func() error {
		shutdownCh := make(chan os.Signal, 1)
		signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)
		select {
		case sig := <-shutdownCh:
			log.Info("shutdown signal received", zap.String("signal", sig.String()))
		case <-ctx.Done():
			return nil
		}

		rooms.CloseAll("server shutting down")
		netServer.Shutdown()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Warn("http shutdown", zap.Error(err))
		}
		log.Info("server stopped")
		return nil
	})

	return g.Wait()
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
