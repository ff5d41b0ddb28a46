package adnetwork

import (
	"bytes"
	"context"
	"earn-server/internal/config"
	"earn-server/internal/observability"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// Kind selects the ad format.
type Kind string

const (
	KindInterstitial Kind = "interstitial"
	KindPopup        Kind = "pop"
	KindInApp        Kind = "inApp"
)

var (
	// ErrAdNotCompleted means the ad was dismissed, skipped, or had no fill.
	ErrAdNotCompleted = errors.New("ad not completed")
	ErrThrottled      = errors.New("ad network request throttled")
)

// InAppConfig mirrors the in-app interstitial settings of the ad unit.
type InAppConfig struct {
	FrequencyPerSession int     `json:"frequency"`
	CappingWindowHours  float64 `json:"capping"`
	MinIntervalSeconds  int     `json:"interval"`
	InitialDelaySeconds int     `json:"timeout"`
	ResetOnNavigation   bool    `json:"everyPage"`
}

// DefaultInAppConfig shows two ads per six minutes, thirty seconds apart,
// five seconds after launch.
func DefaultInAppConfig() InAppConfig {
	return InAppConfig{
		FrequencyPerSession: 2,
		CappingWindowHours:  0.1,
		MinIntervalSeconds:  30,
		InitialDelaySeconds: 5,
		ResetOnNavigation:   false,
	}
}

// Request is one display request.
type Request struct {
	UserID string       `json:"user_id"`
	Kind   Kind         `json:"type"`
	InApp  *InAppConfig `json:"inAppSettings,omitempty"`
}

type impressionResponse struct {
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}

// Client requests impressions from the ad network and reports whether the
// viewer completed them.
type Client struct {
	baseURL    string
	zoneID     string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *observability.Logger
}

func NewClient(cfg config.AdNetworkConfig, logger *observability.Logger) *Client {
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 1
	}
	burst := int(rps)
	if burst < 1 {
		burst = 1
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 45 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		zoneID:     cfg.ZoneID,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Limit(rps), burst),
		logger:     logger,
	}
}

// RequestAd blocks until the ad network settles the impression. A nil error
// means the ad was fully watched.
func (c *Client) RequestAd(ctx context.Context, req Request) error {
	ctx = observability.WithFields(ctx,
		observability.Field{Key: "ad_kind", Value: string(req.Kind)},
		observability.Field{Key: "zone_id", Value: c.zoneID},
	)

	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrThrottled, err)
	}

	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal ad request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/zones/%s/impressions", c.baseURL, c.zoneID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build ad request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Error(ctx, "ad network request failed", err)
		return fmt.Errorf("ad network request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return fmt.Errorf("failed to read ad network response: %w", err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("ad network returned status %d", resp.StatusCode)
	}

	var out impressionResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("failed to decode ad network response: %w", err)
	}
	if out.Status != "completed" {
		if out.Reason == "" {
			out.Reason = out.Status
		}
		return fmt.Errorf("%w: %s", ErrAdNotCompleted, out.Reason)
	}
	return nil
}
