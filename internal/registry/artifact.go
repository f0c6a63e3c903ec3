package registry

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

var (
	// ErrUnknownContract is returned when no artifact is registered under a name.
	ErrUnknownContract = errors.New("unknown contract")
	// ErrMissingDeployment is returned when an artifact has no address for a network.
	ErrMissingDeployment = errors.New("missing deployment")
)

// Deployment is the per-network entry of an artifact.
type Deployment struct {
	Address         string            `json:"address"`
	Links           map[string]string `json:"links,omitempty"`
	ConstructorArgs string            `json:"constructorArgs,omitempty"`
}

// CompilerOutput is the subset of solc output kept in an artifact.
type CompilerOutput struct {
	ABI    json.RawMessage `json:"abi"`
	DevDoc json.RawMessage `json:"devdoc,omitempty"`
	EVM    struct {
		Bytecode struct {
			Object string `json:"object"`
		} `json:"bytecode"`
		DeployedBytecode struct {
			Object string `json:"object"`
		} `json:"deployedBytecode"`
	} `json:"evm"`
}

// Compiler identifies the compiler that produced an artifact.
type Compiler struct {
	Name     string          `json:"name"`
	Version  string          `json:"version"`
	Settings json.RawMessage `json:"settings,omitempty"`
}

// Artifact is the compiled metadata of one contract: its ABI, bytecode and
// the address it is deployed at on each network. Artifacts are never mutated
// after parsing.
type Artifact struct {
	SchemaVersion  string                `json:"schemaVersion"`
	ContractName   string                `json:"contractName"`
	CompilerOutput CompilerOutput        `json:"compilerOutput"`
	Compiler       Compiler              `json:"compiler"`
	Networks       map[string]Deployment `json:"networks"`

	abi abi.ABI
}

// ParseArtifact decodes an artifact document and its ABI.
func ParseArtifact(data []byte) (*Artifact, error) {
	var a Artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("failed to decode artifact: %w", err)
	}
	if a.ContractName == "" {
		return nil, errors.New("artifact has no contractName")
	}
	if len(a.CompilerOutput.ABI) == 0 {
		return nil, fmt.Errorf("artifact %s has no ABI", a.ContractName)
	}
	parsedABI, err := abi.JSON(bytes.NewReader(a.CompilerOutput.ABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s ABI: %w", a.ContractName, err)
	}
	a.abi = parsedABI
	return &a, nil
}

// MustParseArtifact is like ParseArtifact but panics on error. Only meant for
// embedded artifacts.
func MustParseArtifact(data []byte) *Artifact {
	a, err := ParseArtifact(data)
	if err != nil {
		panic(err)
	}
	return a
}

// ABI returns the parsed ABI of the contract.
func (a *Artifact) ABI() abi.ABI {
	return a.abi
}

// Bytecode decodes the creation bytecode. Abstract contracts have none.
func (a *Artifact) Bytecode() ([]byte, error) {
	return decodeBytecode(a.CompilerOutput.EVM.Bytecode.Object)
}

// DeployedBytecode decodes the runtime bytecode.
func (a *Artifact) DeployedBytecode() ([]byte, error) {
	return decodeBytecode(a.CompilerOutput.EVM.DeployedBytecode.Object)
}

func decodeBytecode(object string) ([]byte, error) {
	if object == "" || object == "0x" {
		return nil, nil
	}
	return hexutil.Decode(object)
}

// Address returns the deployment address of the contract on networkID.
func (a *Artifact) Address(networkID uint64) (common.Address, error) {
	deployment, ok := a.Networks[strconv.FormatUint(networkID, 10)]
	if !ok || deployment.Address == "" {
		return common.Address{}, fmt.Errorf("%w: %s on network %d", ErrMissingDeployment, a.ContractName, networkID)
	}
	if !common.IsHexAddress(deployment.Address) {
		return common.Address{}, fmt.Errorf("%w: %s on network %d has malformed address %q", ErrMissingDeployment, a.ContractName, networkID, deployment.Address)
	}
	return common.HexToAddress(deployment.Address), nil
}

// NetworkIDs lists the networks the contract is deployed on, in ascending
// order.
func (a *Artifact) NetworkIDs() []uint64 {
	ids := make([]uint64, 0, len(a.Networks))
	for k := range a.Networks {
		id, err := strconv.ParseUint(k, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
