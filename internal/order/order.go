// Package order models the checkout funnel's draft and order records and
// their persistence. A draft is what the landing form collects (username and
// phone); an order adds the chosen plan and payment state.
package order

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/rulerankit14/buy-instagram-followers/internal/username"
)

const (
	minPhoneLength = 8
	maxPhoneLength = 16
)

var phonePattern = regexp.MustCompile(`^\+?[0-9 ]+$`)

// Validation errors for draft fields.
var (
	ErrPhoneTooShort = fmt.Errorf("order: phone number shorter than %d characters", minPhoneLength)
	ErrPhoneTooLong  = fmt.Errorf("order: phone number longer than %d characters", maxPhoneLength)
	ErrPhoneBadChars = errors.New("order: phone number must use digits only (optional +)")
)

// Draft is the landing-form payload persisted while the user picks a plan.
type Draft struct {
	Username string `json:"username"`
	Phone    string `json:"phone"`
}

// Normalize canonicalises both fields and reports the first validation
// failure. The phone keeps its optional leading + and drops internal
// whitespace.
func (d Draft) Normalize() (Draft, error) {
	handle, err := username.Normalize(d.Username)
	if err != nil {
		return Draft{}, err
	}

	phone := strings.TrimSpace(d.Phone)
	if len(phone) < minPhoneLength {
		return Draft{}, ErrPhoneTooShort
	}
	if len(phone) > maxPhoneLength {
		return Draft{}, ErrPhoneTooLong
	}
	if !phonePattern.MatchString(phone) {
		return Draft{}, ErrPhoneBadChars
	}

	return Draft{
		Username: handle,
		Phone:    strings.ReplaceAll(phone, " ", ""),
	}, nil
}

// OrderStatus tracks payment progress for an order.
type OrderStatus string

const (
	StatusPending OrderStatus = "pending"
	StatusPaid    OrderStatus = "paid"
	StatusFailed  OrderStatus = "failed"
)

// Order is a draft bound to a plan and a payment-gateway order.
type Order struct {
	Draft
	Plan           Plan        `json:"plan"`
	CreatedAt      time.Time   `json:"createdAt"`
	PaymentOrderID string      `json:"paymentOrderId,omitempty"`
	Status         OrderStatus `json:"status"`
}
