package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/rxtech-lab/argo-moonshot/internal/api"
	"github.com/rxtech-lab/argo-moonshot/internal/config"
	"github.com/rxtech-lab/argo-moonshot/internal/engine"
	"github.com/rxtech-lab/argo-moonshot/internal/logger"
	"github.com/rxtech-lab/argo-moonshot/internal/types"
	"github.com/rxtech-lab/argo-moonshot/internal/version"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// loadConfig loads env files, then the YAML config at path on top of the defaults.
// An empty path uses the defaults with secrets taken from the environment.
func loadConfig(path string, envFiles []string) (*config.Config, error) {
	if err := config.LoadEnv(envFiles...); err != nil {
		return nil, err
	}

	if path != "" {
		return config.Load(path)
	}

	cfg := config.Default()
	config.LoadSecrets(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func runAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd.String("config"), cmd.StringSlice("env"))
	if err != nil {
		return err
	}

	if addr := cmd.String("api-addr"); addr != "" {
		cfg.API.Addr = addr
	}

	l, err := logger.NewLoggerWithLevel(cmd.String("log-level"))
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer l.Sync() //nolint:errcheck

	l.Info("Starting argo-moonshot",
		zap.String("version", version.GetVersion()),
		zap.String("exchange", string(cfg.Exchange.Kind)),
		zap.String("api_key", config.MaskSecret(cfg.Exchange.APIKey)),
	)

	onTrade := engine.OnTradeCallback(func(trade types.Trade) {
		l.Info("Trade executed",
			zap.String("strategy", string(trade.Strategy)),
			zap.String("symbol", trade.Symbol),
			zap.String("side", string(trade.Side)),
			zap.Float64("price", trade.Price),
			zap.Float64("quantity", trade.Quantity),
			zap.Float64("pnl", trade.PnL),
			zap.String("reason", trade.Reason),
		)
	})
	onHalted := engine.OnStrategyHaltedCallback(func(id types.StrategyID, err error) {
		l.Error("Strategy halted", zap.String("strategy", string(id)), zap.Error(err))
	})

	eng, err := engine.New(*cfg, engine.Dependencies{Logger: l}, engine.Callbacks{
		OnTrade:          &onTrade,
		OnStrategyHalted: &onHalted,
	})
	if err != nil {
		return err
	}
	defer eng.Close() //nolint:errcheck

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return eng.Run(ctx)
	})

	if cfg.API.Addr != "" {
		server := api.NewServer(eng, cfg.API, l)

		g.Go(func() error {
			return server.ListenAndServe(ctx)
		})
	}

	return g.Wait()
}

func schemaAction(_ context.Context, cmd *cli.Command) error {
	schema, err := config.Schema()
	if err != nil {
		return err
	}

	return writeOutput(cmd.Root().Writer, schema)
}

func configAction(_ context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd.String("config"), cmd.StringSlice("env"))
	if err != nil {
		return err
	}

	data, err := cfg.Marshal()
	if err != nil {
		return err
	}

	return writeOutput(cmd.Root().Writer, string(data))
}

func writeOutput(w io.Writer, s string) error {
	if w == nil {
		w = os.Stdout
	}

	_, err := fmt.Fprintln(w, s)

	return err
}

func newCommand() *cli.Command {
	configFlags := []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to the YAML config file. Defaults are used when omitted",
		},
		&cli.StringSliceFlag{
			Name:  "env",
			Usage: "Env files with exchange credentials. Defaults to ./.env when present",
		},
	}

	return &cli.Command{
		Name:    "argo-moonshot",
		Usage:   "Paper-trade a core and a moonshot crypto strategy side by side",
		Version: version.GetVersion(),
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Run the engine until interrupted",
				Flags: append(configFlags,
					&cli.StringFlag{
						Name:  "log-level",
						Usage: "Log level: debug, info, warn, error",
						Value: "info",
					},
					&cli.StringFlag{
						Name:  "api-addr",
						Usage: "Serve the status API on this address, overriding the config",
					},
				),
				Action: runAction,
			},
			{
				Name:   "schema",
				Usage:  "Print the JSON schema of the config file",
				Action: schemaAction,
			},
			{
				Name:   "config",
				Usage:  "Print the effective config as YAML",
				Flags:  configFlags,
				Action: configAction,
			},
		},
	}
}

func main() {
	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
