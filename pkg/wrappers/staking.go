package wrappers

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/sync/errgroup"

	"github.com/fxnlabs/contract-wrappers/internal/registry"
	"github.com/fxnlabs/contract-wrappers/pkg/assert"
	"github.com/fxnlabs/contract-wrappers/pkg/contracts"
	"github.com/fxnlabs/contract-wrappers/pkg/ethclient"
)

var (
	stakeLayout = contracts.Layout{"stake"}
	vaultLayout = contracts.Layout{"zrxVault"}
)

// StakingWrapper reads stake balances from the Staking contract.
type StakingWrapper struct {
	*ContractWrapper
}

// NewStakingWrapper creates a wrapper bound to client and networkID.
func NewStakingWrapper(client ethclient.EthClient, networkID uint64, opts ...Option) *StakingWrapper {
	o := buildOptions(opts)
	return newStakingWrapper(newProvider(client, networkID, o), o)
}

func newStakingWrapper(p *provider, o options) *StakingWrapper {
	return &StakingWrapper{ContractWrapper: newContractWrapper(registry.Staking, p, o)}
}

// GetTotalStake is all stake owner holds, active or not.
func (w *StakingWrapper) GetTotalStake(ctx context.Context, owner string) (*big.Int, error) {
	return w.stake(ctx, "getTotalStake", owner)
}

// GetActivatedStake is the stake that currently counts toward rewards.
func (w *StakingWrapper) GetActivatedStake(ctx context.Context, owner string) (*big.Int, error) {
	return w.stake(ctx, "getActivatedStake", owner)
}

// GetDeactivatedStake is the stake owner has deactivated, whether or not it is withdrawable yet.
func (w *StakingWrapper) GetDeactivatedStake(ctx context.Context, owner string) (*big.Int, error) {
	return w.stake(ctx, "getDeactivatedStake", owner)
}

// GetActivatableStake is the deactivated stake that can be activated again
// without a timelock.
func (w *StakingWrapper) GetActivatableStake(ctx context.Context, owner string) (*big.Int, error) {
	return w.stake(ctx, "getActivatableStake", owner)
}

// GetWithdrawableStake is the deactivated stake whose timelock has passed.
func (w *StakingWrapper) GetWithdrawableStake(ctx context.Context, owner string) (*big.Int, error) {
	return w.stake(ctx, "getWithdrawableStake", owner)
}

// GetStakeDelegatedByOwner is the part of owner's stake delegated to staking pools.
func (w *StakingWrapper) GetStakeDelegatedByOwner(ctx context.Context, owner string) (*big.Int, error) {
	return w.stake(ctx, "getStakeDelegatedByOwner", owner)
}

// GetStakeBalances reads every stake balance of owner. The reads run
// concurrently and the first failure fails the whole result.
func (w *StakingWrapper) GetStakeBalances(ctx context.Context, owner string) (*StakeBalances, error) {
	if err := firstError(assert.IsETHAddressHex("owner", owner)); err != nil {
		return nil, err
	}
	contract, err := w.Contract()
	if err != nil {
		return nil, err
	}

	var balances StakeBalances
	reads := []struct {
		method string
		dst    **big.Int
	}{
		{"getTotalStake", &balances.Total},
		{"getActivatedStake", &balances.Activated},
		{"getDeactivatedStake", &balances.Deactivated},
		{"getActivatableStake", &balances.Activatable},
		{"getWithdrawableStake", &balances.Withdrawable},
		{"getStakeDelegatedByOwner", &balances.DelegatedByOwner},
	}
	g, gctx := errgroup.WithContext(ctx)
	for _, r := range reads {
		g.Go(func() error {
			return contract.CallInto(gctx, r.method, stakeLayout, []interface{}{r.dst}, common.HexToAddress(owner))
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &balances, nil
}

// GetZrxVault returns the address of the vault the staking contract holds
// ZRX in.
func (w *StakingWrapper) GetZrxVault(ctx context.Context) (common.Address, error) {
	contract, err := w.Contract()
	if err != nil {
		return common.Address{}, err
	}
	var vault common.Address
	if err := contract.CallInto(ctx, "getZrxVault", vaultLayout, []interface{}{&vault}); err != nil {
		return common.Address{}, err
	}
	return vault, nil
}

func (w *StakingWrapper) stake(ctx context.Context, method, owner string) (*big.Int, error) {
	if err := firstError(assert.IsETHAddressHex("owner", owner)); err != nil {
		return nil, err
	}
	contract, err := w.Contract()
	if err != nil {
		return nil, err
	}
	var amount *big.Int
	if err := contract.CallInto(ctx, method, stakeLayout, []interface{}{&amount}, common.HexToAddress(owner)); err != nil {
		return nil, err
	}
	return amount, nil
}
