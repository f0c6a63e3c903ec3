package wrappers

import (
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/fxnlabs/contract-wrappers/internal/metrics"
	"github.com/fxnlabs/contract-wrappers/internal/registry"
	"github.com/fxnlabs/contract-wrappers/pkg/contracts"
	"github.com/fxnlabs/contract-wrappers/pkg/ethclient"
)

// ArtifactSource resolves a contract name to its ABI and deployment address
// on a network. *registry.Registry implements it.
type ArtifactSource interface {
	Resolve(name string, networkID uint64) (abi.ABI, common.Address, error)
}

// Option configures wrappers at construction.
type Option func(*options)

type options struct {
	artifacts    ArtifactSource
	callDefaults contracts.CallDefaults
	logger       *zap.Logger
}

// WithArtifacts replaces the embedded artifact registry.
func WithArtifacts(source ArtifactSource) Option {
	return func(o *options) { o.artifacts = source }
}

// WithCallDefaults sets the sender, gas and block used for every call.
func WithCallDefaults(defaults contracts.CallDefaults) Option {
	return func(o *options) { o.callDefaults = defaults }
}

// WithLogger sets the logger. Wrappers only log at debug level.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) { o.logger = logger }
}

func buildOptions(opts []Option) options {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.artifacts == nil {
		o.artifacts = registry.Default()
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	return o
}

// provider is the network context wrappers build their instances against.
// Wrappers created together share one.
type provider struct {
	mu        sync.RWMutex
	client    ethclient.EthClient
	networkID uint64
	defaults  contracts.CallDefaults
}

func (p *provider) get() (ethclient.EthClient, uint64, contracts.CallDefaults) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.client, p.networkID, p.defaults
}

func (p *provider) set(client ethclient.EthClient, networkID uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.client = client
	p.networkID = networkID
}

// ContractWrapper owns the lazily built instance of one contract.
type ContractWrapper struct {
	contractName string
	provider     *provider
	artifacts    ArtifactSource
	rootLogger   *zap.Logger
	logger       *zap.Logger

	mu       sync.Mutex
	instance *contracts.BoundContract
}

func newContractWrapper(contractName string, p *provider, o options) *ContractWrapper {
	return &ContractWrapper{
		contractName: contractName,
		provider:     p,
		artifacts:    o.artifacts,
		rootLogger:   o.logger,
		logger:       o.logger.Named("wrappers").With(zap.String("contract", contractName)),
	}
}

// ContractName is the artifact name the wrapper binds.
func (w *ContractWrapper) ContractName() string {
	return w.contractName
}

// NetworkID is the network the next instance is resolved for.
func (w *ContractWrapper) NetworkID() uint64 {
	_, networkID, _ := w.provider.get()
	return networkID
}

// Contract returns the cached instance, building it from the artifact for
// the current network on first use. Building is a local lookup; it never
// calls the network. The cache holds either nothing or a complete instance.
func (w *ContractWrapper) Contract() (*contracts.BoundContract, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.instance != nil {
		return w.instance, nil
	}

	client, networkID, defaults := w.provider.get()
	contractABI, address, err := w.artifacts.Resolve(w.contractName, networkID)
	if err != nil {
		return nil, err
	}
	instance := contracts.NewBoundContract(w.contractName, contractABI, address, client, defaults, w.rootLogger)
	w.instance = instance
	metrics.ContractInstancesCreated.WithLabelValues(w.contractName).Inc()
	w.logger.Debug("Created contract instance", zap.String("contractAddress", address.Hex()), zap.Uint64("networkId", networkID))
	return instance, nil
}

// InvalidateContractInstance drops the cached instance so the next call
// rebuilds it against the current provider and network. Safe to call when
// nothing is cached.
func (w *ContractWrapper) InvalidateContractInstance() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.instance != nil {
		w.logger.Debug("Invalidated contract instance")
	}
	w.instance = nil
}
