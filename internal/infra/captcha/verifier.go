// Package captcha implements server-side CAPTCHA verification against the
// provider's siteverify endpoint.
package captcha

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"voltcart/config"
	"voltcart/internal/domain/service"
	"voltcart/internal/errors"
)

const defaultTimeout = 5 * time.Second

// httpVerifier posts CAPTCHA tokens to the provider for verification.
type httpVerifier struct {
	verifyURL string
	secretKey string
	client    *http.Client
}

// NewHTTPVerifier is the constructor for httpVerifier.
func NewHTTPVerifier(cfg *config.Config) (service.CaptchaVerifier, error) {
	if cfg.Captcha == nil || cfg.Captcha.VerifyURL == "" || cfg.Captcha.SecretKey == "" {
		return nil, errors.New("captcha verify url and secret key must be provided")
	}

	timeout := defaultTimeout
	if cfg.Captcha.Timeout > 0 {
		timeout = cfg.Captcha.Timeout
	}

	return &httpVerifier{
		verifyURL: cfg.Captcha.VerifyURL,
		secretKey: cfg.Captcha.SecretKey,
		client:    &http.Client{Timeout: timeout},
	}, nil
}

// verifyResponse is the provider's siteverify answer.
type verifyResponse struct {
	Success    bool     `json:"success"`
	ErrorCodes []string `json:"error-codes"`
}

// Verify validates the token for the given client IP.
func (v *httpVerifier) Verify(ctx context.Context, token, remoteIP string) error {
	form := url.Values{}
	form.Set("secret", v.secretKey)
	form.Set("response", token)
	if remoteIP != "" {
		form.Set("remoteip", remoteIP)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.verifyURL, strings.NewReader(form.Encode()))
	if err != nil {
		return errors.Wrap(err, "failed to build captcha verify request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := v.client.Do(req)
	if err != nil {
		return errors.Wrap(err, "captcha verify request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("captcha provider returned status %d", resp.StatusCode)
	}

	var result verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return errors.Wrap(err, "failed to decode captcha verify response")
	}

	if !result.Success {
		return service.ErrCaptchaInvalid
	}

	return nil
}
