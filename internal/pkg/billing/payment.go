package billing

import (
	"errors"
	"strings"
	"unicode"

	"github.com/ManuelReschke/LocalBiz/app/models"
)

var (
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
	ErrInvalidCardNumber    = errors.New("invalid card number")
)

// Payment is the simulated payment submitted at checkout.
type Payment struct {
	Method     string
	CardNumber string
}

// ValidatePayment checks the method and, for cards, the card number.
// It returns the reference that may be stored: the masked card number for
// cards, the method name otherwise.
func ValidatePayment(p Payment) (string, error) {
	method := strings.ToLower(strings.TrimSpace(p.Method))
	switch method {
	case models.PaymentMethodCard:
		digits := stripCardNumber(p.CardNumber)
		if len(digits) < 13 || len(digits) > 19 || !luhnValid(digits) {
			return "", ErrInvalidCardNumber
		}
		return MaskCardNumber(digits), nil
	case models.PaymentMethodPix, models.PaymentMethodBoleto:
		return method, nil
	default:
		return "", ErrInvalidPaymentMethod
	}
}

// MaskCardNumber keeps only the last four digits.
func MaskCardNumber(digits string) string {
	if len(digits) <= 4 {
		return digits
	}
	return strings.Repeat("*", len(digits)-4) + digits[len(digits)-4:]
}

// stripCardNumber drops spaces and dashes; any other non-digit invalidates the number.
func stripCardNumber(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		switch {
		case r == ' ' || r == '-':
			continue
		case unicode.IsDigit(r) && r < unicode.MaxASCII:
			b.WriteRune(r)
		default:
			return ""
		}
	}
	return b.String()
}

func luhnValid(digits string) bool {
	sum := 0
	double := false
	for i := len(digits) - 1; i >= 0; i-- {
		d := int(digits[i] - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}
