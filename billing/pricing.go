// Package billing prices the Pro upgrade. No payment is processed.
package billing

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ReferralCoupon grants the referral discount.
const ReferralCoupon = "INDICA20"

// PixKey is the static copy-and-paste PIX code shown at checkout.
const PixKey = "00020126580014BR.GOV.BCB.PIX0136f87171-f871-4a7b-a78b-a78bfa818cf8520400005303986540519.995802BR5913FINANZAGO.AI6009SAO PAULO62070503***6304ABCD"

const referralBaseURL = "https://finanzago.ai/join?ref="

var (
	basePrice        = decimal.RequireFromString("19.99")
	referralDiscount = decimal.RequireFromString("4.00")
)

type Method string

const (
	MethodPix  Method = "pix"
	MethodCard Method = "card"
)

var ErrUnknownMethod = errors.New("unknown payment method")

// ParseMethod validates a payment method name.
func ParseMethod(s string) (Method, error) {
	m := Method(strings.ToLower(strings.TrimSpace(s)))
	switch m {
	case MethodPix, MethodCard:
		return m, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMethod, s)
}

// Quote is the monthly Pro price for a checkout.
type Quote struct {
	Plan          string          `json:"plan"`
	BasePrice     decimal.Decimal `json:"basePrice"`
	Discount      decimal.Decimal `json:"discount"`
	Total         decimal.Decimal `json:"total"`
	CouponApplied bool            `json:"couponApplied"`
	Currency      string          `json:"currency"`
	PixKey        string          `json:"pixKey"`
}

// NewQuote prices the Pro plan, applying the referral coupon when it matches
// (case-insensitive).
func NewQuote(coupon string) Quote {
	q := Quote{
		Plan:      "pro",
		BasePrice: basePrice,
		Discount:  decimal.Zero,
		Currency:  "BRL",
		PixKey:    PixKey,
	}
	if strings.EqualFold(strings.TrimSpace(coupon), ReferralCoupon) {
		q.Discount = referralDiscount
		q.CouponApplied = true
	}
	q.Total = q.BasePrice.Sub(q.Discount)
	return q
}

// ReferralLink is the invite URL of a user.
func ReferralLink(userID string) string {
	ref := userID
	if len(ref) > 6 {
		ref = ref[:6]
	}
	return referralBaseURL + ref
}
