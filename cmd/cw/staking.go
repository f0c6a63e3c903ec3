package main

import (
	"context"
	"math/big"

	"github.com/urfave/cli/v2"

	"github.com/fxnlabs/contract-wrappers/pkg/wrappers"
)

type vaultStatus struct {
	Address                 string   `json:"address"`
	Balance                 *big.Int `json:"balance"`
	IsInCatastrophicFailure bool     `json:"isInCatastrophicFailure"`
}

func stakingCommands() *cli.Command {
	return &cli.Command{
		Name:  "staking",
		Usage: "Query the staking contracts",
		Subcommands: []*cli.Command{
			{
				Name:  "balances",
				Usage: "Stake balances of an owner",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "owner", Usage: "Staker `ADDRESS`", Required: true},
				},
				Action: func(c *cli.Context) error {
					return withWrappers(c, func(ctx context.Context, cw *wrappers.ContractWrappers) (interface{}, error) {
						return cw.Staking.GetStakeBalances(ctx, c.String("owner"))
					})
				},
			},
			{
				Name:  "vault",
				Usage: "ZRX vault totals, or an owner's deposit with --owner",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "owner", Usage: "Depositor `ADDRESS`"},
				},
				Action: func(c *cli.Context) error {
					return withWrappers(c, func(ctx context.Context, cw *wrappers.ContractWrappers) (interface{}, error) {
						if owner := c.String("owner"); owner != "" {
							return cw.ZrxVault.BalanceOf(ctx, owner)
						}
						vault, err := cw.ZrxVault.Contract()
						if err != nil {
							return nil, err
						}
						balance, err := cw.ZrxVault.BalanceOfZrxVault(ctx)
						if err != nil {
							return nil, err
						}
						failed, err := cw.ZrxVault.IsInCatastrophicFailure(ctx)
						if err != nil {
							return nil, err
						}
						return vaultStatus{Address: vault.Address().Hex(), Balance: balance, IsInCatastrophicFailure: failed}, nil
					})
				},
			},
		},
	}
}
