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

	"github.com/ManuelReschke/JobFox/internal/pkg/env"
)

const DefaultVerifyURL = "https://hcaptcha.com/siteverify"

var ErrEmptyToken = errors.New("hCaptcha token is empty")

type Response struct {
	Success     bool     `json:"success"`
	ChallengeTS string   `json:"challenge_ts"`
	Hostname    string   `json:"hostname"`
	ErrorCodes  []string `json:"error-codes"`
}

// Verifier checks widget tokens. Without a secret every check passes.
type Verifier struct {
	Secret     string
	SiteKey    string
	VerifyURL  string
	HTTPClient *http.Client
}

func NewVerifierFromEnv() *Verifier {
	return &Verifier{
		Secret:     env.GetEnv("HCAPTCHA_SECRET", ""),
		SiteKey:    env.GetEnv("HCAPTCHA_SITEKEY", ""),
		VerifyURL:  DefaultVerifyURL,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Enabled reports whether the lead form must carry a token.
func (v *Verifier) Enabled() bool {
	return v != nil && v.Secret != ""
}

func (v *Verifier) Verify(ctx context.Context, token, remoteIP string) error {
	if !v.Enabled() {
		return nil
	}
	if token == "" {
		return ErrEmptyToken
	}

	formData := url.Values{
		"secret":   {v.Secret},
		"response": {token},
	}
	if remoteIP != "" {
		formData.Set("remoteip", remoteIP)
	}

	verifyURL := v.VerifyURL
	if verifyURL == "" {
		verifyURL = DefaultVerifyURL
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, verifyURL, strings.NewReader(formData.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	httpClient := v.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request to hCaptcha API: %w", err)
	}
	defer resp.Body.Close()

	var response Response
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return fmt.Errorf("failed to decode hCaptcha API response: %w", err)
	}

	if !response.Success {
		errorMsg := "hCaptcha validation failed"
		if len(response.ErrorCodes) > 0 {
			errorMsg = errorMsg + ": " + strings.Join(response.ErrorCodes, ", ")
		}
		return errors.New(errorMsg)
	}
	return nil
}
