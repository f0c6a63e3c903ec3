package wrappers

import (
	"github.com/fxnlabs/contract-wrappers/internal/registry"
	"github.com/fxnlabs/contract-wrappers/pkg/assert"
	"github.com/fxnlabs/contract-wrappers/pkg/contracts"
)

// Errors returned by the wrappers, for use with errors.Is and errors.As.
var (
	// ErrValidation matches any rejected argument. No call was made.
	ErrValidation = assert.ErrValidation
	// ErrUnknownContract means the artifact source has no such contract.
	ErrUnknownContract = registry.ErrUnknownContract
	// ErrMissingDeployment means the contract has no address on the network.
	ErrMissingDeployment = registry.ErrMissingDeployment
)

type (
	ValidationError = assert.ValidationError
	CallError       = contracts.CallError
)
