package coin

import (
	"encoding/json"
	"math/big"

	"leasevault/currency"
)

// DTO is the wire form of a Coin: an amount plus a currency descriptor
// that ToCoin requires to live within a given group. It mirrors
// native/escrow's milestone payloads' pattern of carrying a denom string
// alongside an amount on the wire, generalized with a group bound instead
// of a single fixed currency.
type DTO struct {
	Amount string          `json:"amount"`
	Ticker currency.Ticker `json:"ticker"`
}

// NewDTO builds a wire-form coin from a typed Coin.
func NewDTO(c Coin) DTO {
	return DTO{Amount: c.Amount().String(), Ticker: c.Ticker()}
}

// ToCoin validates the DTO against reg, requires the ticker to belong to
// group, and returns the typed Coin.
func (d DTO) ToCoin(reg *currency.Registry, group currency.Group) (Coin, error) {
	if err := reg.InGroup(d.Ticker, group); err != nil {
		return Coin{}, err
	}
	amount, ok := new(big.Int).SetString(d.Amount, 10)
	if !ok {
		return Coin{}, &ErrMalformedAmount{Raw: d.Amount}
	}
	return New(amount, d.Ticker)
}

// ErrMalformedAmount is returned when a DTO's amount field is not a valid
// base-10 integer string.
type ErrMalformedAmount struct{ Raw string }

func (e *ErrMalformedAmount) Error() string {
	return "coin: malformed amount " + e.Raw
}

var (
	_ json.Marshaler   = DTO{}
	_ json.Unmarshaler = (*DTO)(nil)
)

// MarshalJSON keeps the wire shape stable even though DTO already has
// exported fields with json tags; defined explicitly so future fields can
// be added without breaking the encoding, matching native/escrow's explicit
// (Un)MarshalJSON methods on wire event payloads.
func (d DTO) MarshalJSON() ([]byte, error) {
	type alias DTO
	return json.Marshal(alias(d))
}

// UnmarshalJSON rejects a missing ticker early rather than deferring the
// failure to ToCoin's group check.
func (d *DTO) UnmarshalJSON(data []byte) error {
	type alias DTO
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	if a.Ticker == "" {
		return &ErrMalformedAmount{Raw: "<missing ticker>"}
	}
	*d = DTO(a)
	return nil
}
