package wrappers

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// OrderStatus mirrors LibOrder.OrderStatus of the 0x v2 exchange.
type OrderStatus uint8

const (
	OrderStatusInvalid OrderStatus = iota
	OrderStatusInvalidMakerAssetAmount
	OrderStatusInvalidTakerAssetAmount
	OrderStatusFillable
	OrderStatusExpired
	OrderStatusFullyFilled
	OrderStatusCancelled
)

var orderStatusNames = [...]string{
	"INVALID",
	"INVALID_MAKER_ASSET_AMOUNT",
	"INVALID_TAKER_ASSET_AMOUNT",
	"FILLABLE",
	"EXPIRED",
	"FULLY_FILLED",
	"CANCELLED",
}

func (s OrderStatus) String() string {
	if int(s) < len(orderStatusNames) {
		return orderStatusNames[s]
	}
	return "UNKNOWN"
}

// OrderInfo is the on-chain state of an order. Fields follow the order of
// the contract's OrderInfo struct.
type OrderInfo struct {
	OrderStatus                 uint8       `json:"orderStatus"`
	OrderHash                   common.Hash `json:"orderHash"`
	OrderTakerAssetFilledAmount *big.Int    `json:"orderTakerAssetFilledAmount"`
}

// Status returns OrderStatus as an enum.
func (i OrderInfo) Status() OrderStatus {
	return OrderStatus(i.OrderStatus)
}

// TraderInfo holds the balances and proxy allowances of an order's maker and
// taker, for the traded assets and for ZRX fees. Fields follow the order of
// the contract's TraderInfo struct.
type TraderInfo struct {
	MakerBalance      *big.Int `json:"makerBalance"`
	MakerAllowance    *big.Int `json:"makerAllowance"`
	TakerBalance      *big.Int `json:"takerBalance"`
	TakerAllowance    *big.Int `json:"takerAllowance"`
	MakerZrxBalance   *big.Int `json:"makerZrxBalance"`
	MakerZrxAllowance *big.Int `json:"makerZrxAllowance"`
	TakerZrxBalance   *big.Int `json:"takerZrxBalance"`
	TakerZrxAllowance *big.Int `json:"takerZrxAllowance"`
}

// OrderAndTraderInfo is the result of GetOrderAndTraderInfo.
type OrderAndTraderInfo struct {
	OrderInfo  OrderInfo  `json:"orderInfo"`
	TraderInfo TraderInfo `json:"traderInfo"`
}

// OrdersAndTradersInfo holds one OrderInfo and one TraderInfo per input order, in input order.
type OrdersAndTradersInfo struct {
	OrdersInfo  []OrderInfo  `json:"ordersInfo"`
	TradersInfo []TraderInfo `json:"tradersInfo"`
}

// BalanceAndAllowance is an owner's balance of an asset and the allowance
// its asset proxy may spend.
type BalanceAndAllowance struct {
	Balance   *big.Int `json:"balance"`
	Allowance *big.Int `json:"allowance"`
}

// StakeBalances summarises an owner's position in the staking contract.
type StakeBalances struct {
	Total            *big.Int `json:"total"`
	Activated        *big.Int `json:"activated"`
	Deactivated      *big.Int `json:"deactivated"`
	Activatable      *big.Int `json:"activatable"`
	Withdrawable     *big.Int `json:"withdrawable"`
	DelegatedByOwner *big.Int `json:"delegatedByOwner"`
}
