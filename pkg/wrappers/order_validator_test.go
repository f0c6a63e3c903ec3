package wrappers

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/fxnlabs/contract-wrappers/internal/metrics"
	"github.com/fxnlabs/contract-wrappers/internal/registry"
	mocks "github.com/fxnlabs/contract-wrappers/mocks/ethclient"
	"github.com/fxnlabs/contract-wrappers/pkg/contracts"
	"github.com/fxnlabs/contract-wrappers/pkg/orders"
)

func TestOrderValidatorWrapper_GetOrderAndTraderInfo(t *testing.T) {
	client := mocks.NewMockEthClient(t)
	w := NewOrderValidatorWrapper(client, testNetworkID)
	order := testSignedOrder(1)
	orderInfo := testOrderInfo(7, OrderStatusFillable)
	traderInfo := testTraderInfo(1)

	client.EXPECT().
		CallContract(mock.Anything, callWith(t, registry.OrderValidator, orderValidatorAddress, "getOrderAndTraderInfo", order.Tuple(), common.HexToAddress(testTakerAddress)), (*big.Int)(nil)).
		Return(packOutputs(t, registry.OrderValidator, "getOrderAndTraderInfo", orderInfo, traderInfo), nil).
		Once()

	result, err := w.GetOrderAndTraderInfo(context.Background(), order, testTakerAddress)
	require.NoError(t, err)
	assert.Equal(t, OrderStatusFillable, result.OrderInfo.Status())
	assert.Equal(t, "FILLABLE", result.OrderInfo.Status().String())
	requireSameOrderInfo(t, orderInfo, result.OrderInfo)
	requireSameTraderInfo(t, traderInfo, result.TraderInfo)
}

func TestOrderValidatorWrapper_BatchMatchesSingle(t *testing.T) {
	client := mocks.NewMockEthClient(t)
	w := NewOrderValidatorWrapper(client, testNetworkID)
	signedOrders := []orders.SignedOrder{testSignedOrder(1), testSignedOrder(2)}
	takers := []string{testTakerAddress, testMakerAddress}
	ordersInfo := []OrderInfo{testOrderInfo(1, OrderStatusFillable), testOrderInfo(2, OrderStatusExpired)}
	tradersInfo := []TraderInfo{testTraderInfo(1), testTraderInfo(2)}

	client.EXPECT().
		CallContract(mock.Anything, callTo(t, registry.OrderValidator, orderValidatorAddress, "getOrdersAndTradersInfo"), mock.Anything).
		Return(packOutputs(t, registry.OrderValidator, "getOrdersAndTradersInfo", ordersInfo, tradersInfo), nil).
		Once()
	client.EXPECT().
		CallContract(mock.Anything, callWith(t, registry.OrderValidator, orderValidatorAddress, "getOrderAndTraderInfo", signedOrders[1].Tuple(), common.HexToAddress(takers[1])), mock.Anything).
		Return(packOutputs(t, registry.OrderValidator, "getOrderAndTraderInfo", ordersInfo[1], tradersInfo[1]), nil).
		Once()

	batch, err := w.GetOrdersAndTradersInfo(context.Background(), signedOrders, takers)
	require.NoError(t, err)
	require.Len(t, batch.OrdersInfo, 2)
	require.Len(t, batch.TradersInfo, 2)

	single, err := w.GetOrderAndTraderInfo(context.Background(), signedOrders[1], takers[1])
	require.NoError(t, err)

	requireSameOrderInfo(t, single.OrderInfo, batch.OrdersInfo[1])
	requireSameTraderInfo(t, single.TraderInfo, batch.TradersInfo[1])
	assert.Equal(t, OrderStatusExpired, batch.OrdersInfo[1].Status())
}

func TestOrderValidatorWrapper_GetTraderInfo(t *testing.T) {
	client := mocks.NewMockEthClient(t)
	w := NewOrderValidatorWrapper(client, testNetworkID)
	order := testSignedOrder(3)
	traderInfo := testTraderInfo(3)

	client.EXPECT().
		CallContract(mock.Anything, callWith(t, registry.OrderValidator, orderValidatorAddress, "getTraderInfo", order.Tuple(), common.HexToAddress(testTakerAddress)), mock.Anything).
		Return(packOutputs(t, registry.OrderValidator, "getTraderInfo", traderInfo), nil).
		Once()

	result, err := w.GetTraderInfo(context.Background(), order, testTakerAddress)
	require.NoError(t, err)
	requireSameTraderInfo(t, traderInfo, *result)
}

func TestOrderValidatorWrapper_GetTradersInfo(t *testing.T) {
	t.Run("results follow input order", func(t *testing.T) {
		client := mocks.NewMockEthClient(t)
		w := NewOrderValidatorWrapper(client, testNetworkID)
		signedOrders := []orders.SignedOrder{testSignedOrder(1), testSignedOrder(2), testSignedOrder(3)}
		takers := []string{testTakerAddress, testTakerAddress, testMakerAddress}
		tradersInfo := []TraderInfo{testTraderInfo(1), testTraderInfo(2), testTraderInfo(3)}

		tuples := []orders.Tuple{signedOrders[0].Tuple(), signedOrders[1].Tuple(), signedOrders[2].Tuple()}
		addresses := []common.Address{common.HexToAddress(takers[0]), common.HexToAddress(takers[1]), common.HexToAddress(takers[2])}
		client.EXPECT().
			CallContract(mock.Anything, callWith(t, registry.OrderValidator, orderValidatorAddress, "getTradersInfo", tuples, addresses), mock.Anything).
			Return(packOutputs(t, registry.OrderValidator, "getTradersInfo", tradersInfo), nil).
			Once()

		result, err := w.GetTradersInfo(context.Background(), signedOrders, takers)
		require.NoError(t, err)
		require.Len(t, result, 3)
		for i := range tradersInfo {
			requireSameTraderInfo(t, tradersInfo[i], result[i])
		}
	})

	t.Run("empty batch still makes one call", func(t *testing.T) {
		client := mocks.NewMockEthClient(t)
		w := NewOrderValidatorWrapper(client, testNetworkID)

		client.EXPECT().
			CallContract(mock.Anything, callTo(t, registry.OrderValidator, orderValidatorAddress, "getTradersInfo"), mock.Anything).
			Return(packOutputs(t, registry.OrderValidator, "getTradersInfo", []TraderInfo{}), nil).
			Once()

		result, err := w.GetTradersInfo(context.Background(), []orders.SignedOrder{}, []string{})
		require.NoError(t, err)
		assert.Empty(t, result)
	})
}

func TestOrderValidatorWrapper_Validation(t *testing.T) {
	ctx := context.Background()
	badOrder := testSignedOrder(1)
	badOrder.Signature = nil

	tests := []struct {
		name  string
		call  func(w *OrderValidatorWrapper) error
		field string
	}{
		{
			name: "batch length mismatch",
			call: func(w *OrderValidatorWrapper) error {
				_, err := w.GetOrdersAndTradersInfo(ctx,
					[]orders.SignedOrder{testSignedOrder(1), testSignedOrder(2), testSignedOrder(3)},
					[]string{testTakerAddress, testTakerAddress})
				return err
			},
			field: "takerAddresses",
		},
		{
			name: "traders info length mismatch",
			call: func(w *OrderValidatorWrapper) error {
				_, err := w.GetTradersInfo(ctx, []orders.SignedOrder{testSignedOrder(1)}, []string{})
				return err
			},
			field: "takerAddresses",
		},
		{
			name: "malformed taker in batch",
			call: func(w *OrderValidatorWrapper) error {
				_, err := w.GetOrdersAndTradersInfo(ctx,
					[]orders.SignedOrder{testSignedOrder(1), testSignedOrder(2)},
					[]string{testTakerAddress, "0x1234"})
				return err
			},
			field: "takerAddresses[1]",
		},
		{
			name: "malformed order in batch",
			call: func(w *OrderValidatorWrapper) error {
				_, err := w.GetTradersInfo(ctx, []orders.SignedOrder{testSignedOrder(1), badOrder}, []string{testTakerAddress, testTakerAddress})
				return err
			},
			field: "orders[1].signature",
		},
		{
			name: "malformed taker",
			call: func(w *OrderValidatorWrapper) error {
				_, err := w.GetOrderAndTraderInfo(ctx, testSignedOrder(1), "not an address")
				return err
			},
			field: "takerAddress",
		},
		{
			name: "malformed order",
			call: func(w *OrderValidatorWrapper) error {
				_, err := w.GetTraderInfo(ctx, badOrder, testTakerAddress)
				return err
			},
			field: "order.signature",
		},
		{
			name: "order amount above uint256",
			call: func(w *OrderValidatorWrapper) error {
				o := testSignedOrder(1)
				o.MakerAssetAmount = orders.Amount(new(big.Int).Lsh(big.NewInt(1), 256))
				_, err := w.GetTraderInfo(ctx, o, testTakerAddress)
				return err
			},
			field: "order.makerAssetAmount",
		},
		{
			name: "asset data without prefix",
			call: func(w *OrderValidatorWrapper) error {
				_, err := w.GetBalanceAndAllowance(ctx, testMakerAddress, "f47261b0")
				return err
			},
			field: "assetData",
		},
		{
			name: "malformed asset data in batch",
			call: func(w *OrderValidatorWrapper) error {
				_, err := w.GetBalancesAndAllowances(ctx, testMakerAddress, []string{testZRXAssetData, "0xzz"})
				return err
			},
			field: "assetData[1]",
		},
		{
			name: "nil token id",
			call: func(w *OrderValidatorWrapper) error {
				_, err := w.GetERC721TokenOwner(ctx, testMakerAddress, nil)
				return err
			},
			field: "tokenId",
		},
		{
			name: "negative token id",
			call: func(w *OrderValidatorWrapper) error {
				_, err := w.GetERC721TokenOwner(ctx, testMakerAddress, big.NewInt(-1))
				return err
			},
			field: "tokenId",
		},
		{
			name: "token id above uint256",
			call: func(w *OrderValidatorWrapper) error {
				tokenID := new(big.Int).Add(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(5))
				_, err := w.GetERC721TokenOwner(ctx, testMakerAddress, tokenID)
				return err
			},
			field: "tokenId",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// No expectations: any remote call fails the test. The network has
			// no deployment, so resolving the instance would fail differently.
			client := mocks.NewMockEthClient(t)
			w := NewOrderValidatorWrapper(client, 1337)

			err := tt.call(w)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrValidation)
			assert.NotErrorIs(t, err, ErrMissingDeployment)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.field, verr.Field)
		})
	}

	t.Run("length mismatch message", func(t *testing.T) {
		w := NewOrderValidatorWrapper(mocks.NewMockEthClient(t), testNetworkID)
		_, err := w.GetTradersInfo(ctx, []orders.SignedOrder{testSignedOrder(1)}, nil)
		assert.ErrorContains(t, err, "Expected orders.length to equal takerAddresses.length")
	})

	t.Run("failures are counted by rule", func(t *testing.T) {
		w := NewOrderValidatorWrapper(mocks.NewMockEthClient(t), testNetworkID)
		failures := metrics.ValidationFailures.WithLabelValues("addressSchema")
		before := testutil.ToFloat64(failures)

		_, err := w.GetBalanceAndAllowance(ctx, "0x00", testZRXAssetData)
		require.Error(t, err)
		require.Equal(t, before+1, testutil.ToFloat64(failures))
	})
}

func TestOrderValidatorWrapper_GetBalanceAndAllowance(t *testing.T) {
	tests := []struct {
		name      string
		assetData string
		encoded   []byte
	}{
		{"erc20 asset data", testZRXAssetData, common.FromHex(testZRXAssetData)},
		{"odd length asset data is left padded", "0x0", []byte{0x00}},
		{"empty asset data", "0x", []byte{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := mocks.NewMockEthClient(t)
			w := NewOrderValidatorWrapper(client, testNetworkID)

			client.EXPECT().
				CallContract(mock.Anything, callWith(t, registry.OrderValidator, orderValidatorAddress, "getBalanceAndAllowance", common.HexToAddress(testMakerAddress), tt.encoded), mock.Anything).
				Return(packOutputs(t, registry.OrderValidator, "getBalanceAndAllowance", big.NewInt(1000), big.NewInt(250)), nil).
				Once()

			result, err := w.GetBalanceAndAllowance(context.Background(), testMakerAddress, tt.assetData)
			require.NoError(t, err)
			assert.Zero(t, big.NewInt(1000).Cmp(result.Balance))
			assert.Zero(t, big.NewInt(250).Cmp(result.Allowance))
		})
	}
}

func TestOrderValidatorWrapper_GetBalancesAndAllowances(t *testing.T) {
	t.Run("zips balances with allowances", func(t *testing.T) {
		client := mocks.NewMockEthClient(t)
		w := NewOrderValidatorWrapper(client, testNetworkID)
		assetData := []string{testZRXAssetData, testWETHAssetData}

		client.EXPECT().
			CallContract(mock.Anything, callWith(t, registry.OrderValidator, orderValidatorAddress, "getBalancesAndAllowances",
				common.HexToAddress(testMakerAddress), [][]byte{common.FromHex(testZRXAssetData), common.FromHex(testWETHAssetData)}), mock.Anything).
			Return(packOutputs(t, registry.OrderValidator, "getBalancesAndAllowances",
				[]*big.Int{big.NewInt(10), big.NewInt(20)}, []*big.Int{big.NewInt(1), big.NewInt(2)}), nil).
			Once()

		result, err := w.GetBalancesAndAllowances(context.Background(), testMakerAddress, assetData)
		require.NoError(t, err)
		require.Len(t, result, 2)
		assert.Zero(t, big.NewInt(20).Cmp(result[1].Balance))
		assert.Zero(t, big.NewInt(2).Cmp(result[1].Allowance))
	})

	t.Run("short result is an unpack error", func(t *testing.T) {
		client := mocks.NewMockEthClient(t)
		w := NewOrderValidatorWrapper(client, testNetworkID)

		client.EXPECT().
			CallContract(mock.Anything, mock.Anything, mock.Anything).
			Return(packOutputs(t, registry.OrderValidator, "getBalancesAndAllowances",
				[]*big.Int{big.NewInt(10)}, []*big.Int{big.NewInt(1)}), nil).
			Once()

		_, err := w.GetBalancesAndAllowances(context.Background(), testMakerAddress, []string{testZRXAssetData, testWETHAssetData})
		var callErr *CallError
		require.True(t, errors.As(err, &callErr))
		assert.Equal(t, contracts.StageUnpack, callErr.Stage)
	})
}

func TestOrderValidatorWrapper_GetERC721TokenOwner(t *testing.T) {
	client := mocks.NewMockEthClient(t)
	w := NewOrderValidatorWrapper(client, testNetworkID)
	token := "0x07f96aa816c1f244cbc6ef114bb2b023ba54a2eb"
	owner := common.HexToAddress(testMakerAddress)

	client.EXPECT().
		CallContract(mock.Anything, callWith(t, registry.OrderValidator, orderValidatorAddress, "getERC721TokenOwner", common.HexToAddress(token), big.NewInt(5)), mock.Anything).
		Return(packOutputs(t, registry.OrderValidator, "getERC721TokenOwner", owner), nil).
		Once()

	result, err := w.GetERC721TokenOwner(context.Background(), token, big.NewInt(5))
	require.NoError(t, err)
	assert.Equal(t, owner, result)
}

func TestOrderValidatorWrapper_Failures(t *testing.T) {
	ctx := context.Background()

	t.Run("remote error keeps its cause", func(t *testing.T) {
		client := mocks.NewMockEthClient(t)
		w := NewOrderValidatorWrapper(client, testNetworkID)
		remoteErr := errors.New("execution reverted")
		client.EXPECT().CallContract(mock.Anything, mock.Anything, mock.Anything).Return(nil, remoteErr).Once()

		_, err := w.GetTraderInfo(ctx, testSignedOrder(1), testTakerAddress)
		require.Error(t, err)
		assert.ErrorIs(t, err, remoteErr)

		var callErr *CallError
		require.True(t, errors.As(err, &callErr))
		assert.Equal(t, contracts.StageCall, callErr.Stage)
		assert.Equal(t, "getTraderInfo", callErr.Method)
	})

	t.Run("undecodable result", func(t *testing.T) {
		client := mocks.NewMockEthClient(t)
		w := NewOrderValidatorWrapper(client, testNetworkID)
		client.EXPECT().CallContract(mock.Anything, mock.Anything, mock.Anything).Return([]byte{0x01}, nil).Once()

		_, err := w.GetOrderAndTraderInfo(ctx, testSignedOrder(1), testTakerAddress)
		var callErr *CallError
		require.True(t, errors.As(err, &callErr))
		assert.Equal(t, contracts.StageUnpack, callErr.Stage)
	})

	t.Run("missing deployment", func(t *testing.T) {
		client := mocks.NewMockEthClient(t)
		w := NewOrderValidatorWrapper(client, 1337)

		_, err := w.GetBalanceAndAllowance(ctx, testMakerAddress, testZRXAssetData)
		assert.ErrorIs(t, err, ErrMissingDeployment)
	})

	t.Run("call defaults are sent", func(t *testing.T) {
		client := mocks.NewMockEthClient(t)
		defaults := contracts.CallDefaults{From: common.HexToAddress(testTakerAddress), Gas: 6000000, BlockNumber: big.NewInt(1234)}
		w := NewOrderValidatorWrapper(client, testNetworkID, WithCallDefaults(defaults))

		client.EXPECT().
			CallContract(mock.Anything, mock.Anything, big.NewInt(1234)).
			Run(func(_ context.Context, msg ethereum.CallMsg, _ *big.Int) {
				assert.Equal(t, defaults.From, msg.From)
				assert.Equal(t, defaults.Gas, msg.Gas)
			}).
			Return(packOutputs(t, registry.OrderValidator, "getBalanceAndAllowance", big.NewInt(1), big.NewInt(2)), nil).
			Once()

		_, err := w.GetBalanceAndAllowance(ctx, testMakerAddress, testZRXAssetData)
		require.NoError(t, err)
	})
}
