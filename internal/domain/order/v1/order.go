package orderv1

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidSide     = errors.New("side must be BUY or SELL")
	ErrInvalidPrice    = errors.New("price must be positive")
	ErrInvalidQuantity = errors.New("quantity must be positive")
	ErrOrderNotFound   = errors.New("order not found")
	ErrOverfill        = errors.New("fill exceeds remaining quantity")
)

// Side represents the direction of an order.
type Side string

const (
	// SideBuy represents a buy order.
	SideBuy Side = "BUY"
	// SideSell represents a sell order.
	SideSell Side = "SELL"
)

// ParseSide converts a raw string to a Side.
func ParseSide(s string) (Side, error) {
	switch Side(s) {
	case SideBuy:
		return SideBuy, nil
	case SideSell:
		return SideSell, nil
	default:
		return "", fmt.Errorf("%w: got %q", ErrInvalidSide, s)
	}
}

// Valid reports whether the side is one of the two allowed values.
func (s Side) Valid() bool {
	return s == SideBuy || s == SideSell
}

// Status represents the fill state of an order. The set is closed: an order
// is OPEN until its first fill, PARTIAL while some quantity remains, and
// FILLED once remaining quantity reaches zero. Transitions never go backward.
type Status string

const (
	// StatusOpen is an order with no fills yet.
	StatusOpen Status = "OPEN"
	// StatusPartial is an order with some, but not all, quantity filled.
	StatusPartial Status = "PARTIAL"
	// StatusFilled is an order with no remaining quantity.
	StatusFilled Status = "FILLED"
)

// Order represents a single buy or sell intent. ID, Side, Price, Quantity,
// CreatedAt and Sequence are immutable after creation; Remaining and Status
// are mutated only by the matching pass.
type Order struct {
	ID        string          `json:"id"`
	Side      Side            `json:"side"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int64           `json:"quantity"`
	Remaining int64           `json:"remaining"`
	Status    Status          `json:"status"`
	CreatedAt time.Time       `json:"createdAt"`
	Sequence  int64           `json:"sequence"` // store-assigned, breaks CreatedAt ties
}

// Validate checks the submission invariants before any persistence.
func Validate(side Side, price decimal.Decimal, quantity int64) error {
	if !side.Valid() {
		return fmt.Errorf("%w: got %q", ErrInvalidSide, string(side))
	}
	if price.Sign() <= 0 {
		return fmt.Errorf("%w: got %s", ErrInvalidPrice, price)
	}
	if quantity <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidQuantity, quantity)
	}
	return nil
}

// IsBuy reports whether the order is on the buy side.
func (o *Order) IsBuy() bool {
	return o.Side == SideBuy
}

// IsFilled reports whether the order has no remaining quantity.
func (o *Order) IsFilled() bool {
	return o.Remaining == 0
}

// Fill decrements the remaining quantity and advances the status. Remaining
// and Status always change together.
func (o *Order) Fill(quantity int64) error {
	if quantity <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidQuantity, quantity)
	}
	if quantity > o.Remaining {
		return fmt.Errorf("%w: remaining %d, fill %d", ErrOverfill, o.Remaining, quantity)
	}

	o.Remaining -= quantity
	if o.Remaining == 0 {
		o.Status = StatusFilled
	} else {
		o.Status = StatusPartial
	}
	return nil
}

func (o *Order) String() string {
	return fmt.Sprintf("%s %d @ $%s [%s]", o.Side, o.Remaining, o.Price.StringFixed(2), o.Status)
}

// Before reports whether o has time priority over other: earlier creation
// wins, with the store-assigned sequence breaking equal timestamps.
func (o *Order) Before(other *Order) bool {
	if o.CreatedAt.Equal(other.CreatedAt) {
		return o.Sequence < other.Sequence
	}
	return o.CreatedAt.Before(other.CreatedAt)
}
