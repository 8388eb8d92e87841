package mpesa

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"inventory-service/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.MpesaConfig {
	return &config.MpesaConfig{
		ConsumerKey:    "key",
		ConsumerSecret: "secret",
		Shortcode:      "174379",
		Passkey:        "passkey",
		CallbackURL:    "https://example.com/mpesa/callback",
		Timeout:        2 * time.Second,
	}
}

// newTestClient points a client at the given test server.
func newTestClient(serverURL string) *Client {
	c := NewClient(testConfig())
	c.baseURL = serverURL
	c.now = func() time.Time {
		return time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	}
	return c
}

func darajaStub(t *testing.T, pushStatus int, pushBody string) (*httptest.Server, *map[string]interface{}) {
	t.Helper()
	var captured map[string]interface{}
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/v1/generate", func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "key", user)
		assert.Equal(t, "secret", pass)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token": "test-token", "expires_in": "3599"}`))
	})
	mux.HandleFunc("/mpesa/stkpush/v1/processrequest", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(pushStatus)
		w.Write([]byte(pushBody))
	})
	return httptest.NewServer(mux), &captured
}

func TestInitiateSTKPush_Success(t *testing.T) {
	server, captured := darajaStub(t, http.StatusOK, `{
		"MerchantRequestID": "29115-34620561-1",
		"CheckoutRequestID": "ws_CO_191220191020363925",
		"ResponseCode": "0",
		"ResponseDescription": "Success. Request accepted for processing",
		"CustomerMessage": "Success. Request accepted for processing"
	}`)
	defer server.Close()

	client := newTestClient(server.URL)
	resp, err := client.InitiateSTKPush(context.Background(), STKPushRequest{
		Phone:            "254712345678",
		Amount:           1000,
		AccountReference: "Order-1",
		Description:      "Inventory supplier order payment",
		CallbackURL:      "https://example.com/mpesa/callback",
	})
	require.NoError(t, err)
	assert.Equal(t, "ws_CO_191220191020363925", resp.CheckoutRequestID)
	assert.Equal(t, "0", resp.ResponseCode)

	payload := *captured
	assert.Equal(t, "174379", payload["BusinessShortCode"])
	assert.Equal(t, "174379", payload["PartyB"])
	assert.Equal(t, "254712345678", payload["PartyA"])
	assert.Equal(t, "254712345678", payload["PhoneNumber"])
	assert.Equal(t, "CustomerPayBillOnline", payload["TransactionType"])
	assert.Equal(t, float64(1000), payload["Amount"])
	assert.Equal(t, "https://example.com/mpesa/callback", payload["CallBackURL"])
	assert.Equal(t, "Order-1", payload["AccountReference"])

	// Password is base64(shortcode + passkey + timestamp) for the frozen clock.
	timestamp := "20250314092653"
	assert.Equal(t, timestamp, payload["Timestamp"])
	wantPassword := base64.StdEncoding.EncodeToString([]byte("174379" + "passkey" + timestamp))
	assert.Equal(t, wantPassword, payload["Password"])
}

func TestInitiateSTKPush_DefaultCallbackFromConfig(t *testing.T) {
	server, captured := darajaStub(t, http.StatusOK, `{"ResponseCode": "0"}`)
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.InitiateSTKPush(context.Background(), STKPushRequest{
		Phone:  "254712345678",
		Amount: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/mpesa/callback", (*captured)["CallBackURL"])
}

func TestInitiateSTKPush_RejectedResponseCode(t *testing.T) {
	server, _ := darajaStub(t, http.StatusOK, `{
		"ResponseCode": "1",
		"ResponseDescription": "Insufficient funds on merchant account"
	}`)
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.InitiateSTKPush(context.Background(), STKPushRequest{Phone: "254712345678", Amount: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "code 1")
}

func TestInitiateSTKPush_HTTPError(t *testing.T) {
	server, _ := darajaStub(t, http.StatusServiceUnavailable, `{"errorMessage": "Spike arrest violation"}`)
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.InitiateSTKPush(context.Background(), STKPushRequest{Phone: "254712345678", Amount: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestInitiateSTKPush_AuthFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/v1/generate", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"errorMessage": "Invalid credentials"}`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.InitiateSTKPush(context.Background(), STKPushRequest{Phone: "254712345678", Amount: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestInitiateSTKPush_ContextCancelled(t *testing.T) {
	server, _ := darajaStub(t, http.StatusOK, `{"ResponseCode": "0"}`)
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := newTestClient(server.URL)
	_, err := client.InitiateSTKPush(ctx, STKPushRequest{Phone: "254712345678", Amount: 1})
	require.Error(t, err)
}

func TestNewClient_EnvironmentSelectsBaseURL(t *testing.T) {
	cfg := testConfig()
	assert.Equal(t, sandboxBaseURL, NewClient(cfg).baseURL)

	cfg.Env = "production"
	assert.Equal(t, productionBaseURL, NewClient(cfg).baseURL)
}
