package wrappers

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/samber/lo"

	"github.com/fxnlabs/contract-wrappers/internal/metrics"
	"github.com/fxnlabs/contract-wrappers/pkg/assert"
)

// firstError returns the first failed check. Checks are pure and run before
// any instance is resolved.
func firstError(checks ...error) error {
	for _, err := range checks {
		if err == nil {
			continue
		}
		rule := "unknown"
		var verr *assert.ValidationError
		if errors.As(err, &verr) {
			rule = verr.Rule
		}
		metrics.ValidationFailures.WithLabelValues(rule).Inc()
		return err
	}
	return nil
}

func addressesConform(name string, addresses []string) error {
	for i, address := range addresses {
		if err := assert.IsETHAddressHex(fmt.Sprintf("%s[%d]", name, i), address); err != nil {
			return err
		}
	}
	return nil
}

func hexStringsConform(name string, values []string) error {
	for i, value := range values {
		if err := assert.IsHexString(fmt.Sprintf("%s[%d]", name, i), value); err != nil {
			return err
		}
	}
	return nil
}

func toAddresses(addresses []string) []common.Address {
	return lo.Map(addresses, func(a string, _ int) common.Address {
		return common.HexToAddress(a)
	})
}

// toBytes decodes validated hex strings. Odd-length input is left padded,
// so "0x0" is a single zero byte.
func toBytes(values []string) [][]byte {
	return lo.Map(values, func(v string, _ int) []byte {
		return common.FromHex(v)
	})
}
