// Package login exchanges a signed-in wallet account for an API token.
package login

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

var ErrInvalidResponse = errors.New("invalid login response")

type Config struct {
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type Client struct {
	url    string
	client *http.Client
}

func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		url:    strings.TrimRight(cfg.URL, "/"),
		client: &http.Client{Timeout: timeout},
	}
}

type loginRequest struct {
	TransactionID string `json:"transactionId"`
	Address       string `json:"address"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// Login fails on any non-2xx status or a response without a token.
func (c *Client) Login(ctx context.Context, transactionID, account string) (string, error) {
	jsonData, err := json.Marshal(loginRequest{TransactionID: transactionID, Address: account})
	if err != nil {
		return "", fmt.Errorf("error marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url+"/login", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Transaction-ID", transactionID)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("error sending request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("error reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("login failed with status %d: %w", resp.StatusCode, ErrInvalidResponse)
	}

	var result loginResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("error parsing response: %w", err)
	}
	if result.Token == "" {
		return "", fmt.Errorf("missing token: %w", ErrInvalidResponse)
	}

	return result.Token, nil
}
