// Package mpesa implements a minimal client for the Safaricom Daraja API,
// covering OAuth token acquisition and the STK push (Lipa na M-Pesa Online)
// request. Settlement callbacks are not handled here.
package mpesa

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"inventory-service/pkg/config"
)

const (
	sandboxBaseURL    = "https://sandbox.safaricom.co.ke"
	productionBaseURL = "https://api.safaricom.co.ke"

	authPath    = "/oauth/v1/generate?grant_type=client_credentials"
	stkPushPath = "/mpesa/stkpush/v1/processrequest"
)

// STKPushRequest carries the fields for one push prompt.
type STKPushRequest struct {
	Phone            string
	Amount           int64
	AccountReference string
	Description      string
	CallbackURL      string
}

// STKPushResponse is the gateway's acceptance of a push request. It says the
// prompt was sent, not that money moved.
type STKPushResponse struct {
	MerchantRequestID   string `json:"MerchantRequestID"`
	CheckoutRequestID   string `json:"CheckoutRequestID"`
	ResponseCode        string `json:"ResponseCode"`
	ResponseDescription string `json:"ResponseDescription"`
	CustomerMessage     string `json:"CustomerMessage"`
}

// Client talks to the Daraja API.
type Client struct {
	cfg        *config.MpesaConfig
	baseURL    string
	httpClient *http.Client
	now        func() time.Time
}

// NewClient creates a Daraja client. The sandbox environment is used unless
// MPESA_ENV is set to "production".
func NewClient(cfg *config.MpesaConfig) *Client {
	baseURL := sandboxBaseURL
	if cfg.Env == "production" {
		baseURL = productionBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		cfg:        cfg,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		now:        time.Now,
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   string `json:"expires_in"`
}

// accessToken fetches a fresh OAuth bearer token.
func (c *Client) accessToken(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+authPath, nil)
	if err != nil {
		return "", fmt.Errorf("build auth request: %w", err)
	}
	req.SetBasicAuth(c.cfg.ConsumerKey, c.cfg.ConsumerSecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request access token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("access token request returned %d: %s", resp.StatusCode, body)
	}

	var token tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return "", fmt.Errorf("decode access token: %w", err)
	}
	if token.AccessToken == "" {
		return "", fmt.Errorf("access token response missing token")
	}
	return token.AccessToken, nil
}

// password builds the Lipa na M-Pesa password for the given timestamp:
// base64(shortcode + passkey + timestamp).
func (c *Client) password(timestamp string) string {
	return base64.StdEncoding.EncodeToString([]byte(c.cfg.Shortcode + c.cfg.Passkey + timestamp))
}

// InitiateSTKPush sends a payment prompt to the payer's phone. A non-2xx
// response or a non-zero gateway ResponseCode is a fault.
func (c *Client) InitiateSTKPush(ctx context.Context, push STKPushRequest) (*STKPushResponse, error) {
	token, err := c.accessToken(ctx)
	if err != nil {
		return nil, err
	}

	timestamp := c.now().Format("20060102150405")
	callbackURL := push.CallbackURL
	if callbackURL == "" {
		callbackURL = c.cfg.CallbackURL
	}

	payload := map[string]interface{}{
		"BusinessShortCode": c.cfg.Shortcode,
		"Password":          c.password(timestamp),
		"Timestamp":         timestamp,
		"TransactionType":   "CustomerPayBillOnline",
		"Amount":            push.Amount,
		"PartyA":            push.Phone,
		"PartyB":            c.cfg.Shortcode,
		"PhoneNumber":       push.Phone,
		"CallBackURL":       callbackURL,
		"AccountReference":  push.AccountReference,
		"TransactionDesc":   push.Description,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode stk push payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+stkPushPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build stk push request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("stk push request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("stk push returned %d: %s", resp.StatusCode, respBody)
	}

	var pushResp STKPushResponse
	if err := json.NewDecoder(resp.Body).Decode(&pushResp); err != nil {
		return nil, fmt.Errorf("decode stk push response: %w", err)
	}
	if pushResp.ResponseCode != "" && pushResp.ResponseCode != "0" {
		return nil, fmt.Errorf("stk push rejected: code %s: %s", pushResp.ResponseCode, pushResp.ResponseDescription)
	}

	return &pushResp, nil
}
