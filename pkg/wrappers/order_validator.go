package wrappers

import (
	"context"
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/samber/lo"

	"github.com/fxnlabs/contract-wrappers/internal/registry"
	"github.com/fxnlabs/contract-wrappers/pkg/assert"
	"github.com/fxnlabs/contract-wrappers/pkg/contracts"
	"github.com/fxnlabs/contract-wrappers/pkg/ethclient"
	"github.com/fxnlabs/contract-wrappers/pkg/orders"
)

// Positions of each OrderValidator method's return tuple.
var (
	orderAndTraderInfoLayout     = contracts.Layout{"orderInfo", "traderInfo"}
	ordersAndTradersInfoLayout   = contracts.Layout{"ordersInfo", "tradersInfo"}
	traderInfoLayout             = contracts.Layout{"traderInfo"}
	tradersInfoLayout            = contracts.Layout{"tradersInfo"}
	balanceAndAllowanceLayout    = contracts.Layout{"balance", "allowance"}
	balancesAndAllowancesLayout  = contracts.Layout{"balances", "allowances"}
	erc721TokenOwnerLayout       = contracts.Layout{"owner"}
	lengthMismatchMessage        = "Expected orders.length to equal takerAddresses.length"
	assetDataLengthMismatchError = "Expected balances.length to equal allowances.length"
)

// OrderValidatorWrapper reads order and trader state from the OrderValidator
// contract. Every method validates its arguments, then makes exactly one
// eth_call.
type OrderValidatorWrapper struct {
	*ContractWrapper
}

// NewOrderValidatorWrapper creates a wrapper bound to client and networkID.
func NewOrderValidatorWrapper(client ethclient.EthClient, networkID uint64, opts ...Option) *OrderValidatorWrapper {
	o := buildOptions(opts)
	return newOrderValidatorWrapper(newProvider(client, networkID, o), o)
}

func newOrderValidatorWrapper(p *provider, o options) *OrderValidatorWrapper {
	return &OrderValidatorWrapper{ContractWrapper: newContractWrapper(registry.OrderValidator, p, o)}
}

// GetOrderAndTraderInfo returns the on-chain state of order and the balances
// and allowances of its maker and of takerAddress.
func (w *OrderValidatorWrapper) GetOrderAndTraderInfo(ctx context.Context, order orders.SignedOrder, takerAddress string) (*OrderAndTraderInfo, error) {
	if err := firstError(
		assert.DoesConformToSchema("order", order, assert.SignedOrderSchema),
		assert.IsETHAddressHex("takerAddress", takerAddress),
	); err != nil {
		return nil, err
	}
	contract, err := w.Contract()
	if err != nil {
		return nil, err
	}

	var result OrderAndTraderInfo
	err = contract.CallInto(ctx, "getOrderAndTraderInfo", orderAndTraderInfoLayout,
		[]interface{}{&result.OrderInfo, &result.TraderInfo},
		order.Tuple(), common.HexToAddress(takerAddress),
	)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// GetOrdersAndTradersInfo is the batch form of GetOrderAndTraderInfo.
// takerAddresses[i] is the taker of signedOrders[i].
func (w *OrderValidatorWrapper) GetOrdersAndTradersInfo(ctx context.Context, signedOrders []orders.SignedOrder, takerAddresses []string) (*OrdersAndTradersInfo, error) {
	if err := validateOrdersAndTakers(signedOrders, takerAddresses); err != nil {
		return nil, err
	}
	contract, err := w.Contract()
	if err != nil {
		return nil, err
	}

	var result OrdersAndTradersInfo
	err = contract.CallInto(ctx, "getOrdersAndTradersInfo", ordersAndTradersInfoLayout,
		[]interface{}{&result.OrdersInfo, &result.TradersInfo},
		toTuples(signedOrders), toAddresses(takerAddresses),
	)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// GetTraderInfo returns the balances and allowances of the order's maker and
// of takerAddress.
func (w *OrderValidatorWrapper) GetTraderInfo(ctx context.Context, order orders.SignedOrder, takerAddress string) (*TraderInfo, error) {
	if err := firstError(
		assert.DoesConformToSchema("order", order, assert.SignedOrderSchema),
		assert.IsETHAddressHex("takerAddress", takerAddress),
	); err != nil {
		return nil, err
	}
	contract, err := w.Contract()
	if err != nil {
		return nil, err
	}

	var result TraderInfo
	err = contract.CallInto(ctx, "getTraderInfo", traderInfoLayout,
		[]interface{}{&result},
		order.Tuple(), common.HexToAddress(takerAddress),
	)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// GetTradersInfo is the batch form of GetTraderInfo. Results are in input
// order.
func (w *OrderValidatorWrapper) GetTradersInfo(ctx context.Context, signedOrders []orders.SignedOrder, takerAddresses []string) ([]TraderInfo, error) {
	if err := validateOrdersAndTakers(signedOrders, takerAddresses); err != nil {
		return nil, err
	}
	contract, err := w.Contract()
	if err != nil {
		return nil, err
	}

	var result []TraderInfo
	err = contract.CallInto(ctx, "getTradersInfo", tradersInfoLayout,
		[]interface{}{&result},
		toTuples(signedOrders), toAddresses(takerAddresses),
	)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// GetBalanceAndAllowance returns the balance of address in the asset
// described by assetData and the allowance it granted the asset's proxy.
func (w *OrderValidatorWrapper) GetBalanceAndAllowance(ctx context.Context, address, assetData string) (*BalanceAndAllowance, error) {
	if err := firstError(
		assert.IsETHAddressHex("address", address),
		assert.IsHexString("assetData", assetData),
	); err != nil {
		return nil, err
	}
	contract, err := w.Contract()
	if err != nil {
		return nil, err
	}

	var result BalanceAndAllowance
	err = contract.CallInto(ctx, "getBalanceAndAllowance", balanceAndAllowanceLayout,
		[]interface{}{&result.Balance, &result.Allowance},
		common.HexToAddress(address), common.FromHex(assetData),
	)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// GetBalancesAndAllowances is GetBalanceAndAllowance for several assets of
// one address in a single call.
func (w *OrderValidatorWrapper) GetBalancesAndAllowances(ctx context.Context, address string, assetData []string) ([]BalanceAndAllowance, error) {
	if err := firstError(
		assert.IsETHAddressHex("address", address),
		hexStringsConform("assetData", assetData),
	); err != nil {
		return nil, err
	}
	contract, err := w.Contract()
	if err != nil {
		return nil, err
	}

	var balances, allowances []*big.Int
	err = contract.CallInto(ctx, "getBalancesAndAllowances", balancesAndAllowancesLayout,
		[]interface{}{&balances, &allowances},
		common.HexToAddress(address), toBytes(assetData),
	)
	if err != nil {
		return nil, err
	}
	if len(balances) != len(allowances) || len(balances) != len(assetData) {
		return nil, &contracts.CallError{
			Contract: registry.OrderValidator,
			Method:   "getBalancesAndAllowances",
			Stage:    contracts.StageUnpack,
			Err:      errors.New(assetDataLengthMismatchError),
		}
	}
	return lo.Map(balances, func(balance *big.Int, i int) BalanceAndAllowance {
		return BalanceAndAllowance{Balance: balance, Allowance: allowances[i]}
	}), nil
}

// GetERC721TokenOwner returns the owner of tokenID in the token contract, or
// the zero address when the token does not exist.
func (w *OrderValidatorWrapper) GetERC721TokenOwner(ctx context.Context, tokenAddress string, tokenID *big.Int) (common.Address, error) {
	if err := firstError(
		assert.IsETHAddressHex("tokenAddress", tokenAddress),
		assert.Assert(orders.IsUint256(tokenID), "tokenId", "Expected tokenId to be a non-negative integer that fits in uint256"),
	); err != nil {
		return common.Address{}, err
	}
	contract, err := w.Contract()
	if err != nil {
		return common.Address{}, err
	}

	var owner common.Address
	err = contract.CallInto(ctx, "getERC721TokenOwner", erc721TokenOwnerLayout,
		[]interface{}{&owner},
		common.HexToAddress(tokenAddress), tokenID,
	)
	if err != nil {
		return common.Address{}, err
	}
	return owner, nil
}

func validateOrdersAndTakers(signedOrders []orders.SignedOrder, takerAddresses []string) error {
	return firstError(
		assert.DoesConformToSchema("orders", signedOrders, assert.SignedOrdersSchema),
		addressesConform("takerAddresses", takerAddresses),
		assert.Assert(len(signedOrders) == len(takerAddresses), "takerAddresses", lengthMismatchMessage),
	)
}

func toTuples(signedOrders []orders.SignedOrder) []orders.Tuple {
	return lo.Map(signedOrders, func(o orders.SignedOrder, _ int) orders.Tuple {
		return o.Tuple()
	})
}
