package contracts

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// Layout names the positions of a call's return tuple, in order. Position i
// of the tuple is always assigned to the i-th destination.
type Layout []string

// Reshape assigns out[i] to the value dsts[i] points to.
func (l Layout) Reshape(out []interface{}, dsts ...interface{}) error {
	if len(dsts) != len(l) {
		return fmt.Errorf("layout (%s) has %d fields, got %d destinations", l, len(l), len(dsts))
	}
	if len(out) != len(l) {
		return fmt.Errorf("expected %d return values (%s), got %d", len(l), l, len(out))
	}
	for i, name := range l {
		if err := assign(dsts[i], out[i]); err != nil {
			return fmt.Errorf("field %s (position %d): %w", name, i, err)
		}
	}
	return nil
}

func (l Layout) String() string {
	return strings.Join(l, ", ")
}

func assign(dst, src interface{}) (err error) {
	if src == nil {
		return errors.New("missing value")
	}
	v := reflect.ValueOf(dst)
	if v.Kind() != reflect.Ptr || v.IsNil() {
		return fmt.Errorf("destination must be a non-nil pointer, got %T", dst)
	}
	// abi.ConvertType panics when the shapes do not line up.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("cannot assign %T to %T: %v", src, dst, r)
		}
	}()
	abi.ConvertType(src, dst)
	return nil
}
