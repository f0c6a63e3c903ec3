package wrappers

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/fxnlabs/contract-wrappers/internal/registry"
	"github.com/fxnlabs/contract-wrappers/pkg/assert"
	"github.com/fxnlabs/contract-wrappers/pkg/contracts"
	"github.com/fxnlabs/contract-wrappers/pkg/ethclient"
)

var (
	vaultBalanceLayout = contracts.Layout{"balance"}
	vaultFailureLayout = contracts.Layout{"isInCatastrophicFailure"}
)

// ZrxVaultWrapper reads the ZRX deposited in the staking vault.
type ZrxVaultWrapper struct {
	*ContractWrapper
}

// NewZrxVaultWrapper creates a wrapper bound to client and networkID.
func NewZrxVaultWrapper(client ethclient.EthClient, networkID uint64, opts ...Option) *ZrxVaultWrapper {
	o := buildOptions(opts)
	return newZrxVaultWrapper(newProvider(client, networkID, o), o)
}

func newZrxVaultWrapper(p *provider, o options) *ZrxVaultWrapper {
	return &ZrxVaultWrapper{ContractWrapper: newContractWrapper(registry.ZrxVault, p, o)}
}

// BalanceOf is the ZRX owner has deposited in the vault.
func (w *ZrxVaultWrapper) BalanceOf(ctx context.Context, owner string) (*big.Int, error) {
	if err := firstError(assert.IsETHAddressHex("owner", owner)); err != nil {
		return nil, err
	}
	contract, err := w.Contract()
	if err != nil {
		return nil, err
	}
	var balance *big.Int
	if err := contract.CallInto(ctx, "balanceOf", vaultBalanceLayout, []interface{}{&balance}, common.HexToAddress(owner)); err != nil {
		return nil, err
	}
	return balance, nil
}

// BalanceOfZrxVault is the total ZRX held by the vault.
func (w *ZrxVaultWrapper) BalanceOfZrxVault(ctx context.Context) (*big.Int, error) {
	contract, err := w.Contract()
	if err != nil {
		return nil, err
	}
	var balance *big.Int
	if err := contract.CallInto(ctx, "balanceOfZrxVault", vaultBalanceLayout, []interface{}{&balance}); err != nil {
		return nil, err
	}
	return balance, nil
}

func (w *ZrxVaultWrapper) IsInCatastrophicFailure(ctx context.Context) (bool, error) {
	contract, err := w.Contract()
	if err != nil {
		return false, err
	}
	var failed bool
	if err := contract.CallInto(ctx, "isInCatastrophicFailure", vaultFailureLayout, []interface{}{&failed}); err != nil {
		return false, err
	}
	return failed, nil
}
