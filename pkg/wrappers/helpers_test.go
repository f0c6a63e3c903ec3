package wrappers

import (
	"bytes"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/fxnlabs/contract-wrappers/internal/registry"
	"github.com/fxnlabs/contract-wrappers/pkg/orders"
)

const (
	testNetworkID     = uint64(50)
	testTakerAddress  = "0xe36ea790bc9d7ab70c55260c66d52b1eca985f84"
	testMakerAddress  = "0x5409ed021d9299bf6814279a6a1411a7e866a631"
	testZRXAssetData  = "0xf47261b0000000000000000000000000871dd7c2b4b25e1aa18728e9d5f2af4c4e431f5c"
	testWETHAssetData = "0xf47261b00000000000000000000000000b1ba0af832d7c05fd64161e0db78e85978e8082"
)

var (
	orderValidatorAddress = common.HexToAddress("0x32eecaf51dfea9618e9bc94e9fbfddb1bbdcba15")
	stakingAddress        = common.HexToAddress("0x0d8b0dd11f5d34ed41d556def5f841900d5b1c6b")
	zrxVaultAddress       = common.HexToAddress("0x3b2b3e2bf7a79b7c2ad6a9a69ef8d6a3bb3e3b07")
)

func testABI(t *testing.T, contractName string) abi.ABI {
	t.Helper()
	artifact, ok := registry.Default().Get(contractName)
	require.True(t, ok, "artifact %s", contractName)
	return artifact.ABI()
}

// packOutputs encodes values the way the contract would return them.
func packOutputs(t *testing.T, contractName, method string, values ...interface{}) []byte {
	t.Helper()
	m, ok := testABI(t, contractName).Methods[method]
	require.True(t, ok, "method %s", method)
	data, err := m.Outputs.Pack(values...)
	require.NoError(t, err)
	return data
}

// callTo matches an eth_call of method on the contract at address.
func callTo(t *testing.T, contractName string, address common.Address, method string) interface{} {
	t.Helper()
	id := testABI(t, contractName).Methods[method].ID
	return mock.MatchedBy(func(msg ethereum.CallMsg) bool {
		return msg.To != nil && *msg.To == address && len(msg.Data) >= 4 && bytes.Equal(msg.Data[:4], id)
	})
}

// callWith matches an eth_call whose data is exactly the packed arguments.
func callWith(t *testing.T, contractName string, address common.Address, method string, args ...interface{}) interface{} {
	t.Helper()
	data, err := testABI(t, contractName).Pack(method, args...)
	require.NoError(t, err)
	return mock.MatchedBy(func(msg ethereum.CallMsg) bool {
		return msg.To != nil && *msg.To == address && bytes.Equal(msg.Data, data)
	})
}

func testSignedOrder(salt int64) orders.SignedOrder {
	return orders.SignedOrder{
		Order: orders.Order{
			ExchangeAddress:       common.HexToAddress("0x48bacb9266a570d521063ef5dd96e61686dbe788"),
			MakerAddress:          common.HexToAddress(testMakerAddress),
			MakerAssetAmount:      orders.Amount(big.NewInt(100)),
			TakerAssetAmount:      orders.Amount(big.NewInt(200)),
			MakerFee:              orders.Amount(big.NewInt(0)),
			TakerFee:              orders.Amount(big.NewInt(0)),
			ExpirationTimeSeconds: orders.Amount(big.NewInt(1561000000)),
			Salt:                  orders.Amount(big.NewInt(salt)),
			MakerAssetData:        common.FromHex(testZRXAssetData),
			TakerAssetData:        common.FromHex(testWETHAssetData),
		},
		Signature: common.FromHex("0x1b61a3ed31b43c8780e905a260a35faefcc527be7516aa11c0256729b5b351bc3340349190569279751135161d22529dc25add4f6069af05be04cacbda2ace225403"),
	}
}

func testTraderInfo(seed int64) TraderInfo {
	n := func(i int64) *big.Int { return big.NewInt(seed*100 + i) }
	return TraderInfo{
		MakerBalance:      n(1),
		MakerAllowance:    n(2),
		TakerBalance:      n(3),
		TakerAllowance:    n(4),
		MakerZrxBalance:   n(5),
		MakerZrxAllowance: n(6),
		TakerZrxBalance:   n(7),
		TakerZrxAllowance: n(8),
	}
}

func testOrderInfo(seed int64, status OrderStatus) OrderInfo {
	return OrderInfo{
		OrderStatus:                 uint8(status),
		OrderHash:                   common.BigToHash(big.NewInt(seed)),
		OrderTakerAssetFilledAmount: big.NewInt(seed * 10),
	}
}

func requireSameTraderInfo(t *testing.T, want, got TraderInfo) {
	t.Helper()
	pairs := [][2]*big.Int{
		{want.MakerBalance, got.MakerBalance},
		{want.MakerAllowance, got.MakerAllowance},
		{want.TakerBalance, got.TakerBalance},
		{want.TakerAllowance, got.TakerAllowance},
		{want.MakerZrxBalance, got.MakerZrxBalance},
		{want.MakerZrxAllowance, got.MakerZrxAllowance},
		{want.TakerZrxBalance, got.TakerZrxBalance},
		{want.TakerZrxAllowance, got.TakerZrxAllowance},
	}
	for i, p := range pairs {
		require.NotNil(t, p[1], "field %d", i)
		require.Zero(t, p[0].Cmp(p[1]), "field %d: want %s, got %s", i, p[0], p[1])
	}
}

func requireSameOrderInfo(t *testing.T, want, got OrderInfo) {
	t.Helper()
	require.Equal(t, want.OrderStatus, got.OrderStatus)
	require.Equal(t, want.OrderHash, got.OrderHash)
	require.Zero(t, want.OrderTakerAssetFilledAmount.Cmp(got.OrderTakerAssetFilledAmount))
}
