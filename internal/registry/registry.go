package registry

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/fxnlabs/contract-wrappers/fixtures"
	"go.uber.org/zap"
)

// Contract names of the embedded artifacts.
const (
	OrderValidator = "OrderValidator"
	Staking        = "Staking"
	MixinStake     = "MixinStake"
	MixinVaultCore = "MixinVaultCore"
	ZrxVault       = "ZrxVault"
	LibZrxToken    = "LibZrxToken"
)

// Registry maps contract names to their artifacts.
type Registry struct {
	mu        sync.RWMutex
	artifacts map[string]*Artifact
	logger    *zap.Logger
}

// New creates an empty registry.
func New(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		artifacts: make(map[string]*Artifact),
		logger:    logger.Named("artifact_registry"),
	}
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the registry of embedded artifacts. It is built once per
// process.
func Default() *Registry {
	defaultOnce.Do(func() {
		r, err := LoadFS(fixtures.Artifacts, "artifacts", nil)
		if err != nil {
			panic(fmt.Sprintf("embedded artifacts: %v", err))
		}
		defaultRegistry = r
	})
	return defaultRegistry
}

// LoadFS builds a registry from every *.json artifact under dir in fsys.
func LoadFS(fsys fs.FS, dir string, logger *zap.Logger) (*Registry, error) {
	paths, err := fs.Glob(fsys, filepath.ToSlash(filepath.Join(dir, "*.json")))
	if err != nil {
		return nil, err
	}
	r := New(logger)
	for _, p := range paths {
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, fmt.Errorf("failed to read artifact %s: %w", p, err)
		}
		a, err := ParseArtifact(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p, err)
		}
		if err := r.Add(a); err != nil {
			return nil, err
		}
	}
	r.logger.Debug("Loaded artifacts", zap.String("dir", dir), zap.Int("count", len(paths)))
	return r, nil
}

// LoadDir builds a registry from the artifact files in a directory on disk.
func LoadDir(dir string, logger *zap.Logger) (*Registry, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open artifacts directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("artifacts path %s is not a directory", dir)
	}
	return LoadFS(os.DirFS(dir), ".", logger)
}

// Add registers an artifact. Names are unique.
func (r *Registry) Add(a *Artifact) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.artifacts[a.ContractName]; ok {
		return fmt.Errorf("artifact %s already registered", a.ContractName)
	}
	r.artifacts[a.ContractName] = a
	return nil
}

// MustAdd is like Add but panics on a duplicate name.
func (r *Registry) MustAdd(a *Artifact) {
	if err := r.Add(a); err != nil {
		panic(err)
	}
}

// Get returns the artifact registered under name.
func (r *Registry) Get(name string) (*Artifact, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.artifacts[name]
	return a, ok
}

// Names returns the registered contract names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.artifacts))
	for name := range r.artifacts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve returns the ABI and deployment address of a contract on a network.
// It is a local lookup and never touches the network.
func (r *Registry) Resolve(name string, networkID uint64) (abi.ABI, common.Address, error) {
	a, ok := r.Get(name)
	if !ok {
		return abi.ABI{}, common.Address{}, fmt.Errorf("%w: %s (known: %s)", ErrUnknownContract, name, strings.Join(r.Names(), ", "))
	}
	address, err := a.Address(networkID)
	if err != nil {
		return abi.ABI{}, common.Address{}, err
	}
	return a.ABI(), address, nil
}
