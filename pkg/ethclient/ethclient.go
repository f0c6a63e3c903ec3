// Package ethclient defines the provider the contract wrappers talk to.
package ethclient

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	goethclient "github.com/ethereum/go-ethereum/ethclient"
)

// EthClient executes read-only calls against a network. Timeouts, retries
// and cancellation belong to the implementation; callers only pass a context.
type EthClient interface {
	CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	ChainID(ctx context.Context) (*big.Int, error)
}

var _ EthClient = (*goethclient.Client)(nil)

// Dial connects to a JSON-RPC endpoint.
func Dial(ctx context.Context, rawurl string) (*goethclient.Client, error) {
	client, err := goethclient.DialContext(ctx, rawurl)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RPC provider %s: %w", rawurl, err)
	}
	return client, nil
}
