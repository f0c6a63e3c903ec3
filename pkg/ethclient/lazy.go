package ethclient

import (
	"context"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum"
	goethclient "github.com/ethereum/go-ethereum/ethclient"
)

// LazyClient connects to rawurl on its first call, so callers that reject
// their arguments never open a connection. A failed dial is retried by the
// next call.
type LazyClient struct {
	rawurl string

	mu     sync.Mutex
	client *goethclient.Client
}

var _ EthClient = (*LazyClient)(nil)

// DialLazy returns a client that has not connected yet.
func DialLazy(rawurl string) *LazyClient {
	return &LazyClient{rawurl: rawurl}
}

func (c *LazyClient) connect(ctx context.Context) (*goethclient.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.client != nil {
		return c.client, nil
	}
	client, err := Dial(ctx, c.rawurl)
	if err != nil {
		return nil, err
	}
	c.client = client
	return client, nil
}

func (c *LazyClient) CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	client, err := c.connect(ctx)
	if err != nil {
		return nil, err
	}
	return client.CallContract(ctx, call, blockNumber)
}

func (c *LazyClient) ChainID(ctx context.Context) (*big.Int, error) {
	client, err := c.connect(ctx)
	if err != nil {
		return nil, err
	}
	return client.ChainID(ctx)
}

// Connected reports whether a connection was opened.
func (c *LazyClient) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.client != nil
}

// Close closes the connection if one was opened.
func (c *LazyClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.client != nil {
		c.client.Close()
		c.client = nil
	}
}
