// Package vk is a thin client for the VK (vk.com) API, covering the
// calls the login flow needs.
package vk

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const (
	baseURL    = "https://api.vk.com/method"
	apiVersion = "5.131"
)

// Client calls the VK API with a server-side service key.
type Client struct {
	serviceKey string
	httpClient *http.Client
}

func NewClient(serviceKey string) *Client {
	return &Client{
		serviceKey: serviceKey,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// apiError is VK's uniform error envelope.
type apiError struct {
	Code    int    `json:"error_code"`
	Message string `json:"error_msg"`
}

// CheckTokenResult is the payload of secure.checkToken.
type CheckTokenResult struct {
	Success int   `json:"success"`
	UserID  int64 `json:"user_id"`
	Date    int64 `json:"date"`
	Expire  int64 `json:"expire"`
}

// CheckToken validates a client-obtained access token and returns the
// VK user id it belongs to.
func (c *Client) CheckToken(ctx context.Context, token string) (*CheckTokenResult, error) {
	params := url.Values{}
	params.Set("token", token)

	var result struct {
		Response *CheckTokenResult `json:"response"`
		Error    *apiError         `json:"error"`
	}
	if err := c.call(ctx, "secure.checkToken", params, &result); err != nil {
		return nil, err
	}
	if result.Error != nil {
		return nil, fmt.Errorf("vk api error [%d]: %s", result.Error.Code, result.Error.Message)
	}
	if result.Response == nil || result.Response.Success != 1 {
		return nil, fmt.Errorf("vk token check failed")
	}
	return result.Response, nil
}

// call performs a VK API method request with the service key and API
// version appended.
func (c *Client) call(ctx context.Context, method string, params url.Values, result interface{}) error {
	params.Set("access_token", c.serviceKey)
	params.Set("v", apiVersion)

	endpoint := fmt.Sprintf("%s/%s?%s", baseURL, method, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request vk: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
