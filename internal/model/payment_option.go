package model

import (
	"fmt"
	"strings"
)

// PaymentOption names the external provider a booking is paid through.  The
// zero value means the user has not picked one yet.
type PaymentOption string

const (
	PaymentOptionStripe PaymentOption = "STRIPE"
	PaymentOptionMomo   PaymentOption = "MOMO"
)

// Valid reports whether o is a supported provider.
func (o PaymentOption) Valid() bool {
	switch o {
	case PaymentOptionStripe, PaymentOptionMomo:
		return true
	default:
		return false
	}
}

// ParsePaymentOption normalises user input ("stripe", " MOMO ") into a
// PaymentOption.  An empty string yields the zero value and no error.
func ParsePaymentOption(s string) (PaymentOption, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return "", nil
	}
	o := PaymentOption(s)
	if !o.Valid() {
		return "", fmt.Errorf("%w: payment option %q", ErrUnknownVariant, s)
	}
	return o, nil
}
