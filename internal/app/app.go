// Package app wires the contract wrappers and the HTTP server into an fx
// application.
package app

import (
	"context"
	"fmt"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/fxnlabs/contract-wrappers/internal/config"
	"github.com/fxnlabs/contract-wrappers/internal/logger"
	"github.com/fxnlabs/contract-wrappers/internal/registry"
	"github.com/fxnlabs/contract-wrappers/internal/server"
	"github.com/fxnlabs/contract-wrappers/pkg/contracts"
	"github.com/fxnlabs/contract-wrappers/pkg/ethclient"
	"github.com/fxnlabs/contract-wrappers/pkg/wrappers"
)

// Module provides everything below the provider. Callers supply the
// *config.Config and an ethclient.EthClient.
var Module = fx.Options(
	fx.Provide(
		NewLogger,
		NewArtifacts,
		NewContractWrappers,
		NewServer,
	),
	fx.Invoke(registerServer),
)

// ClientModule dials the configured RPC provider.
var ClientModule = fx.Options(
	fx.Provide(NewEthClient),
	fx.Invoke(checkChainID),
)

// New builds the application serving cfg.
func New(cfg *config.Config, opts ...fx.Option) *fx.App {
	return fx.New(
		fx.Supply(cfg),
		ClientModule,
		Module,
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log.Named("fx")}
		}),
		fx.Options(opts...),
	)
}

func NewLogger(cfg *config.Config) (*zap.Logger, error) {
	return logger.New(cfg.Logger.Verbosity, cfg.Logger.Encoding)
}

func NewEthClient(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (ethclient.EthClient, error) {
	client, err := ethclient.Dial(context.Background(), cfg.RpcProvider)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.StopHook(func() {
		log.Debug("Closing RPC client")
		client.Close()
	}))
	return client, nil
}

// NewArtifacts loads the artifact directory from the config, falling back
// to the embedded artifacts.
func NewArtifacts(cfg *config.Config, log *zap.Logger) (*registry.Registry, error) {
	if cfg.ArtifactsDir == "" {
		return registry.Default(), nil
	}
	return registry.LoadDir(cfg.ArtifactsDir, log)
}

func NewContractWrappers(cfg *config.Config, client ethclient.EthClient, artifacts *registry.Registry, log *zap.Logger) (*wrappers.ContractWrappers, error) {
	defaults, err := CallDefaults(cfg)
	if err != nil {
		return nil, err
	}
	return wrappers.New(client, cfg.NetworkID,
		wrappers.WithArtifacts(artifacts),
		wrappers.WithCallDefaults(defaults),
		wrappers.WithLogger(log),
	), nil
}

// CallDefaults converts the configured call defaults.
func CallDefaults(cfg *config.Config) (contracts.CallDefaults, error) {
	from, err := cfg.CallDefaults.FromAddress()
	if err != nil {
		return contracts.CallDefaults{}, err
	}
	block, err := cfg.CallDefaults.Block()
	if err != nil {
		return contracts.CallDefaults{}, err
	}
	return contracts.CallDefaults{From: from, Gas: cfg.CallDefaults.Gas, BlockNumber: block}, nil
}

func NewServer(cfg *config.Config, cw *wrappers.ContractWrappers, artifacts *registry.Registry, log *zap.Logger) *server.Server {
	return server.New(cfg.ListenAddr(), server.NewHandler(cw, artifacts, log), log)
}

func registerServer(lc fx.Lifecycle, srv *server.Server) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			return srv.Start()
		},
		OnStop: srv.Stop,
	})
}

// checkChainID warns when the provider's chain id differs from the
// configured network id. Development chains use different values for the
// two, so a mismatch is not fatal.
func checkChainID(lc fx.Lifecycle, cfg *config.Config, client ethclient.EthClient, log *zap.Logger) {
	lc.Append(fx.StartHook(func(ctx context.Context) error {
		chainID, err := client.ChainID(ctx)
		if err != nil {
			return fmt.Errorf("failed to query chain id: %w", err)
		}
		if chainID.Uint64() != cfg.NetworkID {
			log.Warn("Provider chain id differs from configured network id",
				zap.Uint64("chainId", chainID.Uint64()),
				zap.Uint64("networkId", cfg.NetworkID))
		}
		return nil
	}))
}
