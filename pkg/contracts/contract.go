// Package contracts binds a parsed ABI and a deployment address to a
// provider and executes read-only calls against it.
package contracts

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/fxnlabs/contract-wrappers/internal/metrics"
	"github.com/fxnlabs/contract-wrappers/pkg/ethclient"
)

// CallDefaults are copied into every eth_call. A nil BlockNumber reads the
// latest block.
type CallDefaults struct {
	From        common.Address
	Gas         uint64
	BlockNumber *big.Int
}

// Stage names the step of a contract call that failed.
type Stage string

const (
	StagePack   Stage = "pack"
	StageCall   Stage = "call"
	StageUnpack Stage = "unpack"
)

// CallError wraps a failed contract call. The provider's error is kept as
// the cause for StageCall.
type CallError struct {
	Contract string
	Method   string
	Stage    Stage
	Err      error
}

func (e *CallError) Error() string {
	switch e.Stage {
	case StagePack:
		return fmt.Sprintf("failed to pack data for %s.%s: %v", e.Contract, e.Method, e.Err)
	case StageUnpack:
		return fmt.Sprintf("failed to unpack %s.%s result: %v", e.Contract, e.Method, e.Err)
	default:
		return fmt.Sprintf("failed to call %s.%s: %v", e.Contract, e.Method, e.Err)
	}
}

func (e *CallError) Unwrap() error {
	return e.Err
}

// BoundContract is a deployed contract reachable through a provider.
// Building one performs no network access.
type BoundContract struct {
	name     string
	address  common.Address
	abi      abi.ABI
	caller   ethclient.EthClient
	defaults CallDefaults
	logger   *zap.Logger
}

func NewBoundContract(
	name string,
	contractABI abi.ABI,
	address common.Address,
	caller ethclient.EthClient,
	defaults CallDefaults,
	logger *zap.Logger,
) *BoundContract {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BoundContract{
		name:     name,
		address:  address,
		abi:      contractABI,
		caller:   caller,
		defaults: defaults,
		logger:   logger.Named("contract").With(zap.String("contract", name)),
	}
}

func (c *BoundContract) Name() string {
	return c.name
}

func (c *BoundContract) Address() common.Address {
	return c.address
}

func (c *BoundContract) ABI() abi.ABI {
	return c.abi
}

func (c *BoundContract) Defaults() CallDefaults {
	return c.defaults
}

// Call executes method as an eth_call and returns its outputs in ABI order.
func (c *BoundContract) Call(ctx context.Context, method string, args ...interface{}) ([]interface{}, error) {
	callData, err := c.abi.Pack(method, args...)
	if err != nil {
		metrics.ContractCalls.WithLabelValues(c.name, method, metrics.StatusPackError).Inc()
		return nil, &CallError{Contract: c.name, Method: method, Stage: StagePack, Err: err}
	}

	msg := ethereum.CallMsg{
		From: c.defaults.From,
		To:   &c.address,
		Gas:  c.defaults.Gas,
		Data: callData,
	}
	start := time.Now()
	result, err := c.caller.CallContract(ctx, msg, c.defaults.BlockNumber)
	elapsed := time.Since(start)
	metrics.ContractCallDuration.WithLabelValues(c.name, method).Observe(float64(elapsed.Microseconds()) / 1000)
	if err != nil {
		metrics.ContractCalls.WithLabelValues(c.name, method, metrics.StatusRemoteError).Inc()
		c.logger.Debug("Call failed", zap.String("method", method), zap.String("contractAddress", c.address.Hex()), zap.Error(err))
		return nil, &CallError{Contract: c.name, Method: method, Stage: StageCall, Err: err}
	}

	out, err := c.abi.Unpack(method, result)
	if err != nil {
		metrics.ContractCalls.WithLabelValues(c.name, method, metrics.StatusUnpackError).Inc()
		return nil, &CallError{Contract: c.name, Method: method, Stage: StageUnpack, Err: err}
	}

	metrics.ContractCalls.WithLabelValues(c.name, method, metrics.StatusSuccess).Inc()
	c.logger.Debug("Call succeeded", zap.String("method", method), zap.Duration("elapsed", elapsed), zap.Int("outputs", len(out)))
	return out, nil
}

// CallInto executes method and assigns its outputs through layout.
func (c *BoundContract) CallInto(ctx context.Context, method string, layout Layout, dsts []interface{}, args ...interface{}) error {
	out, err := c.Call(ctx, method, args...)
	if err != nil {
		return err
	}
	if err := layout.Reshape(out, dsts...); err != nil {
		metrics.ContractCalls.WithLabelValues(c.name, method, metrics.StatusUnpackError).Inc()
		return &CallError{Contract: c.name, Method: method, Stage: StageUnpack, Err: err}
	}
	return nil
}
