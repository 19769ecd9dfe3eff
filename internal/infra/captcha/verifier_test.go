package captcha

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"voltcart/config"
	"voltcart/internal/domain/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestVerifier(t *testing.T, handler http.HandlerFunc) service.CaptchaVerifier {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	verifier, err := NewHTTPVerifier(&config.Config{
		Captcha: &config.CaptchaConfig{
			VerifyURL: server.URL,
			SecretKey: "test-secret",
		},
	})
	require.NoError(t, err)

	return verifier
}

func TestNewHTTPVerifier_RequiresCredentials(t *testing.T) {
	_, err := NewHTTPVerifier(&config.Config{})
	require.Error(t, err)

	_, err = NewHTTPVerifier(&config.Config{
		Captcha: &config.CaptchaConfig{VerifyURL: "https://provider.example.com/siteverify"},
	})
	require.Error(t, err)
}

func TestHTTPVerifier_Verify(t *testing.T) {
	var gotForm map[string]string
	verifier := newTestVerifier(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		gotForm = map[string]string{
			"secret":   r.PostFormValue("secret"),
			"response": r.PostFormValue("response"),
			"remoteip": r.PostFormValue("remoteip"),
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success": true}`))
	})

	err := verifier.Verify(context.Background(), "client-token", "203.0.113.7")

	require.NoError(t, err)
	assert.Equal(t, "test-secret", gotForm["secret"])
	assert.Equal(t, "client-token", gotForm["response"])
	assert.Equal(t, "203.0.113.7", gotForm["remoteip"])
}

func TestHTTPVerifier_OmitsEmptyRemoteIP(t *testing.T) {
	verifier := newTestVerifier(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		_, present := r.PostForm["remoteip"]
		assert.False(t, present)

		_, _ = w.Write([]byte(`{"success": true}`))
	})

	require.NoError(t, verifier.Verify(context.Background(), "client-token", ""))
}

func TestHTTPVerifier_RejectedToken(t *testing.T) {
	verifier := newTestVerifier(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success": false, "error-codes": ["invalid-input-response"]}`))
	})

	err := verifier.Verify(context.Background(), "stale-token", "")

	assert.ErrorIs(t, err, service.ErrCaptchaInvalid)
}

func TestHTTPVerifier_ProviderErrorIsNotInvalid(t *testing.T) {
	verifier := newTestVerifier(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	err := verifier.Verify(context.Background(), "client-token", "")

	// A provider outage must not read as a rejected token.
	require.Error(t, err)
	assert.NotErrorIs(t, err, service.ErrCaptchaInvalid)
}
