package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rankforge/site-backend/errs"
)

const recaptchaEndpoint = "https://www.google.com/recaptcha/api/siteverify"

// RecaptchaVerifier checks reCAPTCHA tokens submitted with public forms.
type RecaptchaVerifier struct {
	secret   string
	minScore float64
	endpoint string
	client   *http.Client
}

// NewRecaptchaVerifier returns a verifier. With an empty secret every token is accepted.
func NewRecaptchaVerifier(secret string, minScore float64, timeout time.Duration) *RecaptchaVerifier {
	return &RecaptchaVerifier{
		secret:   secret,
		minScore: minScore,
		endpoint: recaptchaEndpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

type recaptchaResponse struct {
	Success    bool     `json:"success"`
	Score      *float64 `json:"score"`
	ErrorCodes []string `json:"error-codes"`
}

func (v *RecaptchaVerifier) Verify(ctx context.Context, token, remoteIP string) error {
	if v == nil || v.secret == "" {
		return nil
	}
	if token == "" {
		return errs.NewValidationError("recaptcha_token", "reCAPTCHA token is required")
	}

	form := url.Values{"secret": {v.secret}, "response": {token}}
	if remoteIP != "" {
		form.Set("remoteip", remoteIP)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := v.client.Do(req)
	if err != nil {
		return errs.FromOutbound("reCAPTCHA verification", err)
	}
	defer resp.Body.Close()

	var out recaptchaResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return errs.FromOutbound("reCAPTCHA verification", err)
	}
	if !out.Success || (out.Score != nil && *out.Score < v.minScore) {
		return errs.NewValidationError("recaptcha_token", "reCAPTCHA verification failed")
	}
	return nil
}
