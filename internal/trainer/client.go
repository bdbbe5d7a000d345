package trainer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2/clientcredentials"

	"github.com/neuroseg-labs/segsweep/internal/domain"
	"github.com/neuroseg-labs/segsweep/internal/platform/auth"
	"github.com/neuroseg-labs/segsweep/internal/unet"
)

const trainPath = "/api/trainer/runs"

// Responses larger than this are malformed; histories are a few KB.
const maxResponseBytes = 8 << 20

type ClientConfig struct {
	BaseURL string
	// Timeout bounds one training call end to end; zero means no client
	// timeout (runs can take hours).
	Timeout           time.Duration
	InternalSecret    string
	OAuthTokenURL     string
	OAuthClientID     string
	OAuthClientSecret string
}

func (c ClientConfig) Validate() error {
	if strings.TrimSpace(c.BaseURL) == "" {
		return errors.New("trainer base URL is required")
	}
	if c.Timeout < 0 {
		return errors.New("trainer timeout must be >= 0")
	}
	if strings.TrimSpace(c.OAuthTokenURL) != "" && strings.TrimSpace(c.OAuthClientID) == "" {
		return errors.New("oauth client id is required when a token URL is set")
	}
	return nil
}

// Client submits training runs to a remote trainer service and waits for the
// run's History in the response. A 507 status or an out-of-memory error body
// is reported as ErrResourceExhausted.
type Client struct {
	baseURL string
	secret  string
	http    *http.Client
	now     func() time.Time
}

func NewClient(cfg ClientConfig) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	httpClient := &http.Client{Timeout: cfg.Timeout}
	if strings.TrimSpace(cfg.OAuthTokenURL) != "" {
		cc := clientcredentials.Config{
			ClientID:     cfg.OAuthClientID,
			ClientSecret: cfg.OAuthClientSecret,
			TokenURL:     cfg.OAuthTokenURL,
		}
		httpClient = cc.Client(context.Background())
		httpClient.Timeout = cfg.Timeout
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		secret:  strings.TrimSpace(cfg.InternalSecret),
		http:    httpClient,
		now:     time.Now,
	}, nil
}

func (c *Client) Train(ctx context.Context, cfg domain.RunConfiguration, model unet.Model) (domain.History, error) {
	payload, err := json.Marshal(trainRequest{Config: cfg, Model: model})
	if err != nil {
		return nil, fmt.Errorf("encode train request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+trainPath, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build trainer request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.secret != "" {
		ts := strconv.FormatInt(c.now().UTC().Unix(), 10)
		sig, err := auth.ComputeRequestSignature(c.secret, ts, http.MethodPost, trainPath)
		if err != nil {
			return nil, fmt.Errorf("sign trainer request: %w", err)
		}
		req.Header.Set(auth.HeaderTimestamp, ts)
		req.Header.Set(auth.HeaderSignature, sig)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("trainer request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read trainer response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		msg := errorMessage(body)
		if resp.StatusCode == http.StatusInsufficientStorage || isOutOfMemoryText(msg) {
			return nil, fmt.Errorf("%w: %s", ErrResourceExhausted, msg)
		}
		return nil, fmt.Errorf("trainer returned %d: %s", resp.StatusCode, msg)
	}

	var history domain.History
	if err := json.Unmarshal(body, &history); err != nil {
		return nil, fmt.Errorf("decode history: %w", err)
	}
	if len(history) == 0 {
		return nil, errors.New("trainer returned empty history")
	}
	return history, nil
}

func errorMessage(body []byte) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && strings.TrimSpace(payload.Error) != "" {
		return strings.TrimSpace(payload.Error)
	}
	return strings.TrimSpace(string(body))
}
