package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/fxnlabs/contract-wrappers/fixtures"
	"github.com/fxnlabs/contract-wrappers/internal/app"
	"github.com/fxnlabs/contract-wrappers/internal/config"
	"github.com/fxnlabs/contract-wrappers/internal/logger"
	"github.com/fxnlabs/contract-wrappers/internal/registry"
	"github.com/fxnlabs/contract-wrappers/pkg/ethclient"
	"github.com/fxnlabs/contract-wrappers/pkg/wrappers"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "cw",
		Usage: "Read 0x OrderValidator and staking contract state",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Value:   config.DefaultConfigFile,
				Usage:   "Load configuration from `FILE`",
				EnvVars: []string{"CW_CONFIG"},
			},
		},
		Commands: []*cli.Command{
			initCommand(),
			artifactsCommands(),
			orderValidatorCommands(),
			stakingCommands(),
			serveCommand(),
		},
	}
}

func initCommand() *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "Write a config template",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "force", Usage: "Overwrite an existing file"},
		},
		Action: func(c *cli.Context) error {
			path := c.String("config")
			if _, err := os.Stat(path); err == nil && !c.Bool("force") {
				return fmt.Errorf("%s already exists, use --force to overwrite", path)
			}
			if err := os.WriteFile(path, fixtures.ConfigTemplate, 0644); err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "Wrote %s\n", path)
			return nil
		},
	}
}

// env is what every network command needs: the loaded config and a logger.
type env struct {
	cfg *config.Config
	log *zap.Logger
}

func loadEnv(c *cli.Context) (*env, error) {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	encoding := cfg.Logger.Encoding
	if encoding == "" {
		encoding = "console"
	}
	zapLogger, err := logger.New(cfg.Logger.Verbosity, encoding)
	if err != nil {
		return nil, err
	}
	return &env{cfg: cfg, log: zapLogger.Named("cli")}, nil
}

// loadArtifacts uses the configured artifacts directory when a config file
// exists and the embedded artifacts otherwise.
func loadArtifacts(c *cli.Context) (*registry.Registry, error) {
	e, err := loadEnv(c)
	if errors.Is(err, os.ErrNotExist) {
		return registry.Default(), nil
	}
	if err != nil {
		return nil, err
	}
	return app.NewArtifacts(e.cfg, e.log)
}

// withWrappers runs fn against wrappers built from the config. The provider
// is dialed on the first call and closed when fn returns.
func withWrappers(c *cli.Context, fn func(ctx context.Context, cw *wrappers.ContractWrappers) (interface{}, error)) error {
	e, err := loadEnv(c)
	if err != nil {
		return err
	}
	artifacts, err := app.NewArtifacts(e.cfg, e.log)
	if err != nil {
		return err
	}
	// The wrappers validate before their first call, so a rejected argument
	// never opens a connection.
	client := ethclient.DialLazy(e.cfg.RpcProvider)
	defer client.Close()

	cw, err := app.NewContractWrappers(e.cfg, client, artifacts, e.log)
	if err != nil {
		return err
	}
	result, err := fn(c.Context, cw)
	if err != nil {
		e.log.Error("Call failed", zap.Error(err))
		return err
	}
	return printJSON(c.App.Writer, result)
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
