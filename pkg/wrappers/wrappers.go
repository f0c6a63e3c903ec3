// Package wrappers exposes typed, read-only access to the 0x OrderValidator
// and staking contracts. Wrappers resolve their contract instance lazily
// from the artifact registry and keep it until the provider changes.
package wrappers

import (
	"go.uber.org/zap"

	"github.com/fxnlabs/contract-wrappers/pkg/ethclient"
)

// ContractWrappers groups one wrapper per supported contract. All of them
// share a provider, so SetProvider moves them to a new network together.
type ContractWrappers struct {
	OrderValidator *OrderValidatorWrapper
	Staking        *StakingWrapper
	ZrxVault       *ZrxVaultWrapper

	provider *provider
	logger   *zap.Logger
}

// New creates wrappers for every supported contract on networkID.
func New(client ethclient.EthClient, networkID uint64, opts ...Option) *ContractWrappers {
	o := buildOptions(opts)
	p := newProvider(client, networkID, o)
	return &ContractWrappers{
		OrderValidator: newOrderValidatorWrapper(p, o),
		Staking:        newStakingWrapper(p, o),
		ZrxVault:       newZrxVaultWrapper(p, o),
		provider:       p,
		logger:         o.logger.Named("wrappers"),
	}
}

func newProvider(client ethclient.EthClient, networkID uint64, o options) *provider {
	return &provider{client: client, networkID: networkID, defaults: o.callDefaults}
}

// NetworkID is the network every wrapper currently targets.
func (c *ContractWrappers) NetworkID() uint64 {
	_, networkID, _ := c.provider.get()
	return networkID
}

// SetProvider points every wrapper at client and networkID. Cached instances
// are dropped and rebuilt on their next use.
func (c *ContractWrappers) SetProvider(client ethclient.EthClient, networkID uint64) {
	c.provider.set(client, networkID)
	for _, w := range c.all() {
		w.InvalidateContractInstance()
	}
	c.logger.Debug("Provider changed", zap.Uint64("networkId", networkID))
}

func (c *ContractWrappers) all() []*ContractWrapper {
	return []*ContractWrapper{
		c.OrderValidator.ContractWrapper,
		c.Staking.ContractWrapper,
		c.ZrxVault.ContractWrapper,
	}
}
