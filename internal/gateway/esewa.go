package gateway

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// StatusComplete is the gateway's terminal success status
const StatusComplete = "COMPLETE"

// SignedFieldNames lists the fields covered by the signature, in order
const SignedFieldNames = "total_amount,transaction_uuid,product_code"

// CallbackPayload is the base64-encoded JSON the gateway appends to its
// redirect back to the platform.
type CallbackPayload struct {
	Status          string `json:"status"`
	TotalAmount     string `json:"total_amount"`
	TransactionCode string `json:"transaction_code"`
	TransactionUUID string `json:"transaction_uuid"`
}

type statusResponse struct {
	Status string `json:"status"`
}

// Client talks to the eSewa payment gateway
type Client struct {
	secret      string
	productCode string
	baseURL     string
	httpClient  *http.Client
}

// NewClient creates a gateway client. A nil httpClient falls back to
// http.DefaultClient.
func NewClient(secret, productCode, baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		secret:      secret,
		productCode: productCode,
		baseURL:     baseURL,
		httpClient:  httpClient,
	}
}

// ProductCode returns the merchant product code registered with the gateway
func (c *Client) ProductCode() string {
	return c.productCode
}

// Sign computes the base64 HMAC-SHA256 signature the gateway expects over
// the ordered total_amount/transaction_uuid/product_code message.
func (c *Client) Sign(amount float64, transactionUUID string) string {
	message := fmt.Sprintf("total_amount=%s,transaction_uuid=%s,product_code=%s",
		FormatAmount(amount), transactionUUID, c.productCode)
	mac := hmac.New(sha256.New, []byte(c.secret))
	mac.Write([]byte(message))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// DecodeCallback decodes the base64 JSON payload from the redirect callback
func DecodeCallback(data string) (*CallbackPayload, error) {
	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		// Some gateway redirects arrive URL-safe encoded.
		raw, err = base64.RawURLEncoding.DecodeString(data)
		if err != nil {
			return nil, fmt.Errorf("invalid callback encoding: %w", err)
		}
	}

	var payload CallbackPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("invalid callback payload: %w", err)
	}
	return &payload, nil
}

// CheckStatus performs the server-to-server confirmation call. Only this
// channel is trusted: the redirect payload alone can be forged by the
// client's browser.
func (c *Client) CheckStatus(ctx context.Context, totalAmount, transactionUUID string) (string, error) {
	query := url.Values{}
	query.Set("product_code", c.productCode)
	query.Set("total_amount", totalAmount)
	query.Set("transaction_uuid", transactionUUID)

	endpoint := fmt.Sprintf("%s/api/epay/transaction/status/?%s", c.baseURL, query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("gateway status check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gateway status check returned %d", resp.StatusCode)
	}

	var status statusResponse
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return "", fmt.Errorf("gateway status response malformed: %w", err)
	}
	return status.Status, nil
}

// FormatAmount renders an amount the way the gateway expects it in signed
// messages: no trailing zeros, no exponent.
func FormatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', -1, 64)
}
