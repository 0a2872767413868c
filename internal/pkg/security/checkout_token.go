package security

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// CheckoutTokenTTL bounds how long a plan selection survives between
// choosing a plan and submitting the checkout form.
const CheckoutTokenTTL = 30 * time.Minute

var (
	ErrTokenMalformed = errors.New("invalid token format")
	ErrTokenSignature = errors.New("invalid token signature")
	ErrTokenExpired   = errors.New("token expired")
)

type CheckoutClaims struct {
	UserID     uint   `json:"user_id"`
	BusinessID uint   `json:"business_id"`
	Plan       string `json:"plan"`
	ExpiresAt  int64  `json:"exp"`
}

// ExpiresAtTime returns the expiry as a time.Time.
func (c *CheckoutClaims) ExpiresAtTime() time.Time {
	return time.Unix(c.ExpiresAt, 0)
}

func GenerateCheckoutToken(userID, businessID uint, plan string, ttl time.Duration, secret string) (string, error) {
	if secret == "" {
		return "", errors.New("secret is required for token generation")
	}
	claims := CheckoutClaims{
		UserID:     userID,
		BusinessID: businessID,
		Plan:       plan,
		ExpiresAt:  time.Now().Add(ttl).Unix(),
	}
	payload, err := json.Marshal(claims)
	if err != nil {
		return "", err
	}
	sig := sign(payload, secret)
	return fmt.Sprintf("%s.%s", base64.RawURLEncoding.EncodeToString(payload), base64.RawURLEncoding.EncodeToString(sig)), nil
}

func VerifyCheckoutToken(token, secret string) (*CheckoutClaims, error) {
	if secret == "" {
		return nil, errors.New("secret is required for token verification")
	}
	parts := strings.SplitN(token, ".", 2)
	if len(parts) != 2 {
		return nil, ErrTokenMalformed
	}
	payload, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return nil, ErrTokenMalformed
	}
	sig, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return nil, ErrTokenMalformed
	}
	if !hmac.Equal(sig, sign(payload, secret)) {
		return nil, ErrTokenSignature
	}
	var claims CheckoutClaims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return nil, ErrTokenMalformed
	}
	if time.Now().Unix() > claims.ExpiresAt {
		return nil, ErrTokenExpired
	}
	return &claims, nil
}

func sign(payload []byte, secret string) []byte {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return mac.Sum(nil)
}
