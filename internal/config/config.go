package config

import (
	"errors"
	"fmt"
	"math/big"
	"os"
	"path/filepath"

	"github.com/ethereum/go-ethereum/common"
	"gopkg.in/yaml.v3"
)

const DefaultConfigFile = "config.yaml"

type Config struct {
	Logger struct {
		Verbosity string `yaml:"verbosity"`
		Encoding  string `yaml:"encoding"`
	} `yaml:"logger"`
	RpcProvider  string       `yaml:"rpcProvider"`
	NetworkID    uint64       `yaml:"networkId"`
	ArtifactsDir string       `yaml:"artifactsDir"`
	CallDefaults CallDefaults `yaml:"callDefaults"`
	Server       struct {
		ListenAddress string `yaml:"listenAddress"`
		ListenPort    int    `yaml:"listenPort"`
	} `yaml:"server"`
}

// CallDefaults are applied to every eth_call made by the wrappers.
type CallDefaults struct {
	From        string `yaml:"from"`
	Gas         uint64 `yaml:"gas"`
	BlockNumber string `yaml:"blockNumber"`
}

// FromAddress parses From. An empty value is the zero address.
func (c CallDefaults) FromAddress() (common.Address, error) {
	if c.From == "" {
		return common.Address{}, nil
	}
	if !common.IsHexAddress(c.From) {
		return common.Address{}, fmt.Errorf("callDefaults.from: invalid address %q", c.From)
	}
	return common.HexToAddress(c.From), nil
}

// Block parses BlockNumber. An empty value means the latest block (nil).
func (c CallDefaults) Block() (*big.Int, error) {
	if c.BlockNumber == "" || c.BlockNumber == "latest" {
		return nil, nil
	}
	n, ok := new(big.Int).SetString(c.BlockNumber, 0)
	if !ok || n.Sign() < 0 {
		return nil, fmt.Errorf("callDefaults.blockNumber: invalid block number %q", c.BlockNumber)
	}
	return n, nil
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var config Config
	err = yaml.Unmarshal(data, &config)
	if err != nil {
		return nil, err
	}

	if config.ArtifactsDir != "" && !filepath.IsAbs(config.ArtifactsDir) {
		config.ArtifactsDir = filepath.Join(filepath.Dir(path), config.ArtifactsDir)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks the fields that have a fixed format.
func (c *Config) Validate() error {
	var errs []error
	if c.NetworkID == 0 {
		errs = append(errs, errors.New("networkId must be set"))
	}
	if _, err := c.CallDefaults.FromAddress(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.CallDefaults.Block(); err != nil {
		errs = append(errs, err)
	}
	if c.Server.ListenPort < 0 || c.Server.ListenPort > 65535 {
		errs = append(errs, fmt.Errorf("server.listenPort %d out of range", c.Server.ListenPort))
	}
	return errors.Join(errs...)
}

// ListenAddr is the host:port the HTTP server binds to.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.ListenAddress, c.Server.ListenPort)
}
