// Package hcaptcha verifies hCaptcha responses of the sign-up form.
package hcaptcha

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ManuelReschke/LocalBiz/internal/pkg/env"
)

const DefaultVerifyURL = "https://hcaptcha.com/siteverify"

var (
	ErrEmptyToken = errors.New("hCaptcha token is empty")
	ErrRejected   = errors.New("hCaptcha validation failed")
)

type Response struct {
	Success     bool     `json:"success"`
	ChallengeTS string   `json:"challenge_ts"`
	Hostname    string   `json:"hostname"`
	ErrorCodes  []string `json:"error-codes"`
}

// Verifier checks tokens against the hCaptcha API. A Verifier without
// secret or site key is disabled.
type Verifier struct {
	SiteKey   string
	Secret    string
	VerifyURL string
	Client    *http.Client
}

// FromEnv reads HCAPTCHA_SITEKEY and HCAPTCHA_SECRET.
func FromEnv() *Verifier {
	return &Verifier{
		SiteKey:   env.GetEnv("HCAPTCHA_SITEKEY", ""),
		Secret:    env.GetEnv("HCAPTCHA_SECRET", ""),
		VerifyURL: DefaultVerifyURL,
		Client:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (v *Verifier) Enabled() bool {
	return v != nil && v.SiteKey != "" && v.Secret != ""
}

// Verify returns nil when the token was accepted.
func (v *Verifier) Verify(ctx context.Context, token, remoteIP string) error {
	if token == "" {
		return ErrEmptyToken
	}

	form := url.Values{
		"secret":   {v.Secret},
		"response": {token},
		"sitekey":  {v.SiteKey},
	}
	if remoteIP != "" {
		form.Set("remoteip", remoteIP)
	}

	verifyURL := v.VerifyURL
	if verifyURL == "" {
		verifyURL = DefaultVerifyURL
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, verifyURL, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	client := v.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request to hCaptcha API: %w", err)
	}
	defer resp.Body.Close()

	var response Response
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return fmt.Errorf("failed to decode hCaptcha API response: %w", err)
	}
	if !response.Success {
		if len(response.ErrorCodes) > 0 {
			return fmt.Errorf("%w: %s", ErrRejected, strings.Join(response.ErrorCodes, ", "))
		}
		return ErrRejected
	}
	return nil
}
