package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/fxnlabs/contract-wrappers/pkg/orders"
	"github.com/fxnlabs/contract-wrappers/pkg/wrappers"
)

var (
	orderFlag = &cli.StringFlag{
		Name:     "order",
		Usage:    "Signed order JSON `FILE`",
		Required: true,
	}
	ordersFlag = &cli.StringFlag{
		Name:     "orders",
		Usage:    "JSON `FILE` holding an array of signed orders",
		Required: true,
	}
	takerFlag = &cli.StringFlag{
		Name:     "taker",
		Usage:    "Taker `ADDRESS`",
		Required: true,
	}
	takersFlag = &cli.StringSliceFlag{
		Name:  "taker",
		Usage: "Taker `ADDRESS`, once per order and in order",
	}
)

func orderValidatorCommands() *cli.Command {
	return &cli.Command{
		Name:    "order-validator",
		Aliases: []string{"ov"},
		Usage:   "Query the OrderValidator contract",
		Subcommands: []*cli.Command{
			{
				Name:  "order-and-trader-info",
				Usage: "Order state plus maker and taker balances",
				Flags: []cli.Flag{orderFlag, takerFlag},
				Action: func(c *cli.Context) error {
					order, err := readOrder(c.String("order"))
					if err != nil {
						return err
					}
					return withWrappers(c, func(ctx context.Context, cw *wrappers.ContractWrappers) (interface{}, error) {
						return cw.OrderValidator.GetOrderAndTraderInfo(ctx, order, c.String("taker"))
					})
				},
			},
			{
				Name:  "orders-and-traders-info",
				Usage: "Batch form of order-and-trader-info",
				Flags: []cli.Flag{ordersFlag, takersFlag},
				Action: func(c *cli.Context) error {
					signedOrders, err := readOrders(c.String("orders"))
					if err != nil {
						return err
					}
					return withWrappers(c, func(ctx context.Context, cw *wrappers.ContractWrappers) (interface{}, error) {
						return cw.OrderValidator.GetOrdersAndTradersInfo(ctx, signedOrders, c.StringSlice("taker"))
					})
				},
			},
			{
				Name:  "trader-info",
				Usage: "Maker and taker balances and allowances for an order",
				Flags: []cli.Flag{orderFlag, takerFlag},
				Action: func(c *cli.Context) error {
					order, err := readOrder(c.String("order"))
					if err != nil {
						return err
					}
					return withWrappers(c, func(ctx context.Context, cw *wrappers.ContractWrappers) (interface{}, error) {
						return cw.OrderValidator.GetTraderInfo(ctx, order, c.String("taker"))
					})
				},
			},
			{
				Name:  "traders-info",
				Usage: "Batch form of trader-info",
				Flags: []cli.Flag{ordersFlag, takersFlag},
				Action: func(c *cli.Context) error {
					signedOrders, err := readOrders(c.String("orders"))
					if err != nil {
						return err
					}
					return withWrappers(c, func(ctx context.Context, cw *wrappers.ContractWrappers) (interface{}, error) {
						return cw.OrderValidator.GetTradersInfo(ctx, signedOrders, c.StringSlice("taker"))
					})
				},
			},
			{
				Name:  "balance-and-allowance",
				Usage: "Balance and proxy allowance of an address for one or more assets",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "address", Usage: "Owner `ADDRESS`", Required: true},
					&cli.StringSliceFlag{Name: "asset-data", Usage: "Encoded asset `DATA`, repeatable", Required: true},
				},
				Action: func(c *cli.Context) error {
					assetData := c.StringSlice("asset-data")
					return withWrappers(c, func(ctx context.Context, cw *wrappers.ContractWrappers) (interface{}, error) {
						if len(assetData) == 1 {
							return cw.OrderValidator.GetBalanceAndAllowance(ctx, c.String("address"), assetData[0])
						}
						return cw.OrderValidator.GetBalancesAndAllowances(ctx, c.String("address"), assetData)
					})
				},
			},
			{
				Name:      "erc721-owner",
				Usage:     "Owner of an ERC721 token",
				ArgsUsage: "TOKEN_ADDRESS TOKEN_ID",
				Action: func(c *cli.Context) error {
					if c.NArg() != 2 {
						return fmt.Errorf("expected TOKEN_ADDRESS and TOKEN_ID")
					}
					tokenID, ok := new(big.Int).SetString(c.Args().Get(1), 0)
					if !ok {
						return fmt.Errorf("invalid token id %q", c.Args().Get(1))
					}
					return withWrappers(c, func(ctx context.Context, cw *wrappers.ContractWrappers) (interface{}, error) {
						return cw.OrderValidator.GetERC721TokenOwner(ctx, c.Args().Get(0), tokenID)
					})
				},
			},
		},
	}
}

func readOrder(path string) (orders.SignedOrder, error) {
	var order orders.SignedOrder
	data, err := os.ReadFile(path)
	if err != nil {
		return order, err
	}
	if err := json.Unmarshal(data, &order); err != nil {
		return order, fmt.Errorf("failed to decode order %s: %w", path, err)
	}
	return order, nil
}

func readOrders(path string) ([]orders.SignedOrder, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var list []orders.SignedOrder
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("failed to decode orders %s: %w", path, err)
	}
	return list, nil
}
