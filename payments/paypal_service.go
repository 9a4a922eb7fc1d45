package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	config "github.com/edumarket/course_market/configs"
)

// PayPalClient creates hosted checkout links for wallet deposits. The deposit
// outcome comes back asynchronously on the payment webhook, correlated by the
// order code we pass as custom_id.
type PayPalClient struct {
	httpClient *http.Client
}

func NewPayPalClient() *PayPalClient {
	return &PayPalClient{httpClient: http.DefaultClient}
}

type accessTokenResponse struct {
	AccessToken string `json:"access_token"`
}

func (c *PayPalClient) getAccessToken(ctx context.Context) (string, error) {
	apiBase := config.Config("PAYPAL_API_BASE_URL")
	clientID := config.Config("PAYPAL_CLIENT_ID")
	clientSecret := config.Config("PAYPAL_CLIENT_SECRET")

	reqBody := strings.NewReader("grant_type=client_credentials")
	req, err := http.NewRequestWithContext(ctx, "POST", fmt.Sprintf("%s/v1/oauth2/token", apiBase), reqBody)
	if err != nil {
		return "", err
	}

	req.SetBasicAuth(clientID, clientSecret)
	req.Header.Add("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to get access token, status: %s", resp.Status)
	}

	var tokenResp accessTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return "", err
	}

	return tokenResp.AccessToken, nil
}

type checkoutOrderResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Links  []struct {
		Href string `json:"href"`
		Rel  string `json:"rel"`
	} `json:"links"`
}

// CreateCheckout opens a provider order and returns the URL the buyer must
// visit to approve the deposit.
func (c *PayPalClient) CreateCheckout(ctx context.Context, orderCode string, amount float64, description string) (string, error) {
	accessToken, err := c.getAccessToken(ctx)
	if err != nil {
		return "", err
	}

	apiBase := config.Config("PAYPAL_API_BASE_URL")

	payload := map[string]interface{}{
		"intent": "CAPTURE",
		"purchase_units": []map[string]interface{}{
			{
				"custom_id":   orderCode,
				"description": description,
				"amount": map[string]string{
					"currency_code": "USD",
					"value":         fmt.Sprintf("%.2f", amount),
				},
			},
		},
	}
	body, _ := json.Marshal(payload)

	req, err := http.NewRequestWithContext(ctx, "POST", fmt.Sprintf("%s/v2/checkout/orders", apiBase), bytes.NewBuffer(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", accessToken))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		raw, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("failed to create checkout order, status %s: %s", resp.Status, string(raw))
	}

	var order checkoutOrderResponse
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return "", err
	}

	for _, link := range order.Links {
		if link.Rel == "approve" {
			return link.Href, nil
		}
	}
	return "", fmt.Errorf("checkout order %s has no approval link", order.ID)
}
