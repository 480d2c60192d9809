package wallet

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
)

type SequenceConfig struct {
	RelayURL string        `mapstructure:"relayURL"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// SequenceClient talks to a Sequence wallet relay over HTTP.
type SequenceClient struct {
	baseURL string
	client  *http.Client
}

func NewSequenceClient(cfg SequenceConfig) *SequenceClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &SequenceClient{
		baseURL: strings.TrimRight(cfg.RelayURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

func (s *SequenceClient) InitWallet(ctx context.Context, network string) (Handle, error) {
	var out struct {
		WalletID string `json:"walletId"`
	}
	err := s.post(ctx, "/wallets", map[string]string{"network": network}, &out)
	if err != nil {
		return nil, fmt.Errorf("error initialising wallet: %w", err)
	}
	if out.WalletID == "" {
		return nil, fmt.Errorf("error initialising wallet: empty wallet id")
	}

	return &sequenceWallet{client: s, id: out.WalletID}, nil
}

func (s *SequenceClient) post(ctx context.Context, path string, in, out any) error {
	jsonData, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("error marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+path, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("error sending request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("error reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("relay returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("error parsing response: %w", err)
	}

	return nil
}

type sequenceWallet struct {
	client *SequenceClient
	id     string

	mu        sync.RWMutex
	connected bool
}

func (w *sequenceWallet) Connect(ctx context.Context, opts ConnectOptions) error {
	var out struct {
		Connected bool `json:"connected"`
	}
	if err := w.client.post(ctx, "/wallets/"+w.id+"/connect", opts, &out); err != nil {
		return fmt.Errorf("error connecting wallet: %w", err)
	}

	w.mu.Lock()
	w.connected = out.Connected
	w.mu.Unlock()

	return nil
}

func (w *sequenceWallet) IsConnected() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.connected
}

func (w *sequenceWallet) Provider() Provider {
	return &rpcProvider{client: w.client, walletID: w.id}
}

type rpcProvider struct {
	client   *SequenceClient
	walletID string
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int    `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (p *rpcProvider) ID() string {
	return p.walletID
}

func (p *rpcProvider) Accounts(ctx context.Context) ([]string, error) {
	var out struct {
		Result []string  `json:"result"`
		Error  *rpcError `json:"error"`
	}
	req := rpcRequest{JSONRPC: "2.0", ID: 1, Method: "eth_accounts", Params: []any{}}
	if err := p.client.post(ctx, "/wallets/"+p.walletID+"/rpc", req, &out); err != nil {
		return nil, err
	}
	if out.Error != nil {
		return nil, fmt.Errorf("rpc error %d: %s", out.Error.Code, out.Error.Message)
	}

	return out.Result, nil
}
