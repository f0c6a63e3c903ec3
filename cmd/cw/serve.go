package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/common-nighthawk/go-figure"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/fxnlabs/contract-wrappers/internal/app"
)

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the wrappers over HTTP",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "quiet", Usage: "Skip the startup banner"},
		},
		Action: func(c *cli.Context) error {
			e, err := loadEnv(c)
			if err != nil {
				return err
			}
			if !c.Bool("quiet") {
				figure.NewFigure("Contract Wrappers", "", true).Print()
				fmt.Fprintf(c.App.Writer, "\nNetwork: %d\nProvider: %s\nListening: %s\n\n", e.cfg.NetworkID, e.cfg.RpcProvider, e.cfg.ListenAddr())
			}

			fxApp := app.New(e.cfg)
			if err := fxApp.Start(c.Context); err != nil {
				e.log.Error("Failed to start", zap.Error(err))
				return err
			}

			sig := make(chan os.Signal, 1)
			signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
			select {
			case s := <-sig:
				e.log.Info("Shutting down", zap.String("signal", s.String()))
			case <-c.Context.Done():
			}
			return fxApp.Stop(context.Background())
		},
	}
}
