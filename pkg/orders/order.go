// Package orders holds the 0x v2 order value objects passed to the
// OrderValidator contract. Orders are built and signed elsewhere; this
// package only carries, validates and encodes them.
package orders

import (
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// assetProxyIDLength is the size of the selector every asset data starts with.
const assetProxyIDLength = 4

// Order is a trade intent in the JSON layout used by 0x relayers. Amounts
// accept decimal or 0x-prefixed hex strings.
type Order struct {
	ExchangeAddress       common.Address        `json:"exchangeAddress"`
	MakerAddress          common.Address        `json:"makerAddress"`
	TakerAddress          common.Address        `json:"takerAddress"`
	FeeRecipientAddress   common.Address        `json:"feeRecipientAddress"`
	SenderAddress         common.Address        `json:"senderAddress"`
	MakerAssetAmount      *math.HexOrDecimal256 `json:"makerAssetAmount"`
	TakerAssetAmount      *math.HexOrDecimal256 `json:"takerAssetAmount"`
	MakerFee              *math.HexOrDecimal256 `json:"makerFee"`
	TakerFee              *math.HexOrDecimal256 `json:"takerFee"`
	ExpirationTimeSeconds *math.HexOrDecimal256 `json:"expirationTimeSeconds"`
	Salt                  *math.HexOrDecimal256 `json:"salt"`
	MakerAssetData        hexutil.Bytes         `json:"makerAssetData"`
	TakerAssetData        hexutil.Bytes         `json:"takerAssetData"`
}

// SignedOrder is an Order together with the maker's signature.
type SignedOrder struct {
	Order
	Signature hexutil.Bytes `json:"signature"`
}

// Validate implements validation.Validatable.
func (o Order) Validate() error {
	return validation.ValidateStruct(&o,
		validation.Field(&o.MakerAssetAmount, validation.Required, validation.By(uint256Range)),
		validation.Field(&o.TakerAssetAmount, validation.Required, validation.By(uint256Range)),
		validation.Field(&o.MakerFee, validation.Required, validation.By(uint256Range)),
		validation.Field(&o.TakerFee, validation.Required, validation.By(uint256Range)),
		validation.Field(&o.ExpirationTimeSeconds, validation.Required, validation.By(uint256Range)),
		validation.Field(&o.Salt, validation.Required, validation.By(uint256Range)),
		validation.Field(&o.MakerAssetData, validation.Required, validation.Length(assetProxyIDLength, 0)),
		validation.Field(&o.TakerAssetData, validation.Required, validation.Length(assetProxyIDLength, 0)),
	)
}

// Validate implements validation.Validatable.
func (o SignedOrder) Validate() error {
	if err := o.Order.Validate(); err != nil {
		return err
	}
	return validation.ValidateStruct(&o,
		validation.Field(&o.Signature, validation.Required),
	)
}

// uint256Range rejects values the ABI encoder would wrap around.
func uint256Range(value interface{}) error {
	v, _ := value.(*math.HexOrDecimal256)
	if v == nil {
		return nil
	}
	if !IsUint256((*big.Int)(v)) {
		return errors.New("must fit in uint256")
	}
	return nil
}

// IsUint256 reports whether v is a non-negative integer of at most 256 bits.
func IsUint256(v *big.Int) bool {
	return v != nil && v.Sign() >= 0 && v.BitLen() <= 256
}

// Tuple is the ABI encoding of an order: the Order struct of the 0x v2
// exchange, without exchange address or signature.
type Tuple struct {
	MakerAddress          common.Address
	TakerAddress          common.Address
	FeeRecipientAddress   common.Address
	SenderAddress         common.Address
	MakerAssetAmount      *big.Int
	TakerAssetAmount      *big.Int
	MakerFee              *big.Int
	TakerFee              *big.Int
	ExpirationTimeSeconds *big.Int
	Salt                  *big.Int
	MakerAssetData        []byte
	TakerAssetData        []byte
}

// Tuple converts the order to its ABI form. The order must be valid.
func (o *Order) Tuple() Tuple {
	return Tuple{
		MakerAddress:          o.MakerAddress,
		TakerAddress:          o.TakerAddress,
		FeeRecipientAddress:   o.FeeRecipientAddress,
		SenderAddress:         o.SenderAddress,
		MakerAssetAmount:      (*big.Int)(o.MakerAssetAmount),
		TakerAssetAmount:      (*big.Int)(o.TakerAssetAmount),
		MakerFee:              (*big.Int)(o.MakerFee),
		TakerFee:              (*big.Int)(o.TakerFee),
		ExpirationTimeSeconds: (*big.Int)(o.ExpirationTimeSeconds),
		Salt:                  (*big.Int)(o.Salt),
		MakerAssetData:        o.MakerAssetData,
		TakerAssetData:        o.TakerAssetData,
	}
}

// Amount wraps a big integer for use in an Order.
func Amount(v *big.Int) *math.HexOrDecimal256 {
	return (*math.HexOrDecimal256)(v)
}
