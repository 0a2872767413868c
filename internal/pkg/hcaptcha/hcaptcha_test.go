package hcaptcha

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "secret", r.PostForm.Get("secret"))
		resp := Response{Success: r.PostForm.Get("response") == "good"}
		if !resp.Success {
			resp.ErrorCodes = []string{"invalid-input-response"}
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestVerify(t *testing.T) {
	srv := newServer(t)
	v := &Verifier{SiteKey: "site", Secret: "secret", VerifyURL: srv.URL, Client: srv.Client()}
	ctx := context.Background()

	assert.NoError(t, v.Verify(ctx, "good", "127.0.0.1"))

	err := v.Verify(ctx, "bad", "")
	assert.ErrorIs(t, err, ErrRejected)
	assert.Contains(t, err.Error(), "invalid-input-response")

	assert.ErrorIs(t, v.Verify(ctx, "", ""), ErrEmptyToken)
}

func TestEnabled(t *testing.T) {
	var nilVerifier *Verifier
	assert.False(t, nilVerifier.Enabled())
	assert.False(t, (&Verifier{SiteKey: "site"}).Enabled())
	assert.True(t, (&Verifier{SiteKey: "site", Secret: "secret"}).Enabled())
}
