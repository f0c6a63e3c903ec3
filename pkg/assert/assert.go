// Package assert validates the arguments of contract wrapper operations
// before anything is sent to the network.
package assert

import (
	"errors"
	"fmt"
	"regexp"
	"sort"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/samber/lo"

	"github.com/fxnlabs/contract-wrappers/pkg/orders"
)

// Schema identifies a named validation predicate.
type Schema string

const (
	SignedOrderSchema  Schema = "signedOrderSchema"
	SignedOrdersSchema Schema = "signedOrdersSchema"
	AddressSchema      Schema = "addressSchema"
	HexSchema          Schema = "hexSchema"
)

// ErrValidation matches every error returned by this package.
var ErrValidation = errors.New("validation failed")

// ValidationError reports which argument failed and which rule it broke.
type ValidationError struct {
	Field string
	Rule  string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("expected %s to conform to %s: %v", e.Field, e.Rule, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrValidation) hold.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

var (
	addressRegexp = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)
	hexRegexp     = regexp.MustCompile(`^0x[0-9a-fA-F]*$`)
)

type predicate func(name string, value interface{}) error

var schemas = map[Schema]predicate{
	AddressSchema: func(name string, value interface{}) error {
		s, ok := value.(string)
		if !ok {
			return typeError(value, "string")
		}
		return validation.Validate(s,
			validation.Required,
			validation.Match(addressRegexp).Error("must be a 0x-prefixed 20 byte hex address"),
		)
	},
	HexSchema: func(name string, value interface{}) error {
		s, ok := value.(string)
		if !ok {
			return typeError(value, "string")
		}
		return validation.Validate(s,
			validation.Required,
			validation.Match(hexRegexp).Error("must be a 0x-prefixed hex string"),
		)
	},
	SignedOrderSchema: func(name string, value interface{}) error {
		switch o := value.(type) {
		case orders.SignedOrder:
			return validation.Validate(o)
		case *orders.SignedOrder:
			if o == nil {
				return errors.New("cannot be nil")
			}
			return validation.Validate(*o)
		default:
			return typeError(value, "signed order")
		}
	},
}

func init() {
	// Each element is reported under its own index, so the batch schema
	// wraps element errors itself.
	schemas[SignedOrdersSchema] = func(name string, value interface{}) error {
		list, ok := value.([]orders.SignedOrder)
		if !ok {
			return typeError(value, "list of signed orders")
		}
		for i := range list {
			if err := schemas[SignedOrderSchema](name, list[i]); err != nil {
				return fieldError(fmt.Sprintf("%s[%d]", name, i), SignedOrderSchema, err)
			}
		}
		return nil
	}
}

func typeError(value interface{}, want string) error {
	return fmt.Errorf("must be a %s, got %T", want, value)
}

// DoesConformToSchema checks value against schema and names the argument in
// the returned error.
func DoesConformToSchema(name string, value interface{}, schema Schema) error {
	check, ok := schemas[schema]
	if !ok {
		return &ValidationError{Field: name, Rule: string(schema), Err: errors.New("unknown schema")}
	}
	err := check(name, value)
	if err == nil {
		return nil
	}
	var nested *ValidationError
	if errors.As(err, &nested) {
		return nested
	}
	return fieldError(name, schema, err)
}

// fieldError reports the first failing struct field, in key order, under
// its dotted path, e.g. "order.makerAssetAmount".
func fieldError(name string, schema Schema, err error) *ValidationError {
	for {
		var errs validation.Errors
		if !errors.As(err, &errs) || len(errs) == 0 {
			break
		}
		keys := lo.Keys(errs)
		sort.Strings(keys)
		name, err = name+"."+keys[0], errs[keys[0]]
	}
	return &ValidationError{Field: name, Rule: string(schema), Err: err}
}

// IsETHAddressHex checks that value is a 0x-prefixed 40 character hex address.
func IsETHAddressHex(name, value string) error {
	return DoesConformToSchema(name, value, AddressSchema)
}

// IsHexString checks that value is a 0x-prefixed hex string.
func IsHexString(name, value string) error {
	return DoesConformToSchema(name, value, HexSchema)
}

// Assert fails with message when condition does not hold.
func Assert(condition bool, name, message string) error {
	if condition {
		return nil
	}
	return &ValidationError{Field: name, Rule: "assertion", Err: errors.New(message)}
}
