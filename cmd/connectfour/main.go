package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/lawnchairsociety/connectfour/internal/client"
	"github.com/lawnchairsociety/connectfour/internal/config"
	"github.com/lawnchairsociety/connectfour/internal/console"
	"github.com/lawnchairsociety/connectfour/internal/engine"
	"github.com/lawnchairsociety/connectfour/internal/logger"
	"github.com/lawnchairsociety/connectfour/internal/match"
)

type flags struct {
	configFile  string
	loggingFile string
	envFile     string
	host        string
	port        int
	user        string
	columns     int
	rows        int
	trace       bool
}

func main() {
	var f flags
	flag.StringVar(&f.configFile, "config", "data/client.yaml", "Path to client config YAML file")
	flag.StringVar(&f.loggingFile, "logging", "data/logging.yaml", "Path to logging config YAML file")
	flag.StringVar(&f.envFile, "env", ".env", "Path to .env file")
	flag.StringVar(&f.host, "host", "", "Game server host (overrides config)")
	flag.IntVar(&f.port, "port", 0, "Game server port (overrides config)")
	flag.StringVar(&f.user, "user", "", "Username (prompted for when empty)")
	flag.IntVar(&f.columns, "cols", 0, "Grid columns (overrides config)")
	flag.IntVar(&f.rows, "rows", 0, "Grid rows (overrides config)")
	flag.BoolVar(&f.trace, "trace", false, "Log every protocol line sent and received")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	// A second Ctrl+C kills the process if shutdown hangs.
	context.AfterFunc(ctx, stop)

	if err := run(ctx, f, console.New(os.Stdin, os.Stdout)); err != nil {
		logger.Error("Client stopped", "error", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, f flags, con *console.Console) error {
	// Env file first so its values reach both config loaders.
	if err := config.LoadEnvFile(f.envFile); err != nil {
		return fmt.Errorf("failed to load env file: %w", err)
	}

	cfg, err := config.LoadConfig(f.configFile)
	if err != nil {
		return fmt.Errorf("failed to load client config: %w", err)
	}
	if err := applyFlags(cfg, f); err != nil {
		return err
	}

	logConfig, err := logger.LoadConfig(f.loggingFile)
	if err != nil {
		return fmt.Errorf("failed to load logging config: %w", err)
	}
	logConfig.Trace = logConfig.Trace || cfg.Protocol.Trace
	if err := logger.Initialize(logConfig); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	username := cfg.Player.Username
	if username == "" {
		if username, err = con.Username(ctx); err != nil {
			return err
		}
	}

	logger.Info("Connecting to game server", "addr", cfg.Server.Address(), "scheme", cfg.Server.Scheme)
	session, err := client.Connect(ctx, cfg.Server.Host, cfg.Server.Port, client.Options{
		HelloCommand: cfg.Protocol.HelloCommand,
		Trace:        cfg.Protocol.Trace,
		Logger:       logger.Logger(),
		Transport:    cfg.TransportOptions(),
	})
	if err != nil {
		return err
	}
	defer session.Close()
	interrupt := context.AfterFunc(ctx, session.Interrupt)
	defer interrupt()

	if err := session.Login(username); err != nil {
		return interrupted(ctx, err)
	}
	if err := session.StartGame(cfg.Game.Columns, cfg.Game.Rows); err != nil {
		return interrupted(ctx, err)
	}

	game, err := engine.NewGame(cfg.Game.Columns, cfg.Game.Rows)
	if err != nil {
		return err
	}

	con.Banner()
	con.PrintBoard(game)

	result, err := match.Play(ctx, session, game, con, match.Options{
		OnMove:     con.Moved,
		OnRejected: con.Rejected,
	})
	if err != nil {
		return err
	}

	con.Winner(result.Winner)
	logger.Info("Game finished", "winner", result.Winner.String(), "moves", len(result.Moves))
	return nil
}

// interrupted reports ctx.Err() in place of the transport failure caused by
// cancelling ctx.
func interrupted(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return err
}

// applyFlags overrides config values with flags that were set and
// revalidates the result.
func applyFlags(cfg *config.ClientConfig, f flags) error {
	if f.host != "" {
		cfg.Server.Host = f.host
	}
	if f.port != 0 {
		cfg.Server.Port = f.port
	}
	if f.user != "" {
		cfg.Player.Username = f.user
	}
	if f.columns != 0 {
		cfg.Game.Columns = f.columns
	}
	if f.rows != 0 {
		cfg.Game.Rows = f.rows
	}
	if f.trace {
		cfg.Protocol.Trace = true
	}
	return cfg.Validate()
}
