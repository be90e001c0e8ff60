package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	adaptertcp "tronbot/bot/adapter/tcp"
	adapterwebsocket "tronbot/bot/adapter/websocket"
	"tronbot/bot/application"
	"tronbot/bot/domain"
	"tronbot/config"
	"tronbot/utils"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", utils.GetEnvDefault("CONFIG_FILE", ""), "path to YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err)
		return 2
	}
	level, _ := cfg.Level()
	logger, closer := newLogger(cfg.LogFile, level)
	defer closer.Close()
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dir, _ := cfg.Direction()
	app, err := application.NewTronApplication(
		application.NewWorld(),
		application.NewRuleBotController(dir, cfg.Jitter),
		cfg.Chat,
	)
	if err != nil {
		slog.Error("failed to create application", "err", err)
		return 1
	}

	var dialer domain.Dialer = adaptertcp.NewDialer(cfg.DialTimeout)
	if adapterwebsocket.IsWebSocketAddr(cfg.Addr) {
		dialer = adapterwebsocket.NewDialer()
	}

	endpoint, err := domain.NewSessionEndpoint(domain.NewSession(), dialer, app, domain.EndpointConfig{
		Addr:         cfg.Addr,
		Name:         cfg.Name,
		Token:        cfg.Token,
		MaxLineBytes: cfg.MaxLineBytes,
	})
	if err != nil {
		slog.Error("failed to create session endpoint", "err", err)
		return 1
	}

	slog.Info("starting bot", "addr", cfg.Addr, "name", cfg.Name, "sessionID", endpoint.Session().ID())
	if err := endpoint.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return 1
	}
	slog.Info("bot stopped")
	return 0
}
