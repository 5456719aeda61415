// Package nftapi is a small client for the NFT analytics REST API the bot
// reads wallet profiles, collection data and trends from.
package nftapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/m3rciful/nftbot/core/logger"
	"github.com/m3rciful/nftbot/core/telegram/netutil"
)

// ErrNoData is returned when the API answered with an empty data set.
var ErrNoData = errors.New("nftapi: no data")

const component = "nftapi"

// StatusError captures non-2xx responses.
type StatusError struct {
	StatusCode int
	Endpoint   string
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("nftapi: unexpected status %d from %s: %s", e.StatusCode, e.Endpoint, e.Body)
}

// Code implements the error-code hook used by handler summaries.
func (e *StatusError) Code() string { return fmt.Sprintf("NFTAPI_HTTP_%d", e.StatusCode) }

// Client fetches NFT analytics. It is safe for concurrent use.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// New builds a Client; cfg is normalized in place of a copy.
func New(cfg Config, opts ...Option) (*Client, error) {
	if err := cfg.Normalize(); err != nil {
		return nil, err
	}
	c := &Client{
		cfg:        cfg,
		httpClient: netutil.NewHTTPClient(netutil.ClientOptions{Timeout: cfg.Timeout()}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// WalletProfile returns the NFT profile of a wallet.
func (c *Client) WalletProfile(ctx context.Context, wallet string) (*WalletProfile, error) {
	var out WalletProfile
	q := url.Values{"wallet": {wallet}}
	if err := c.getFirst(ctx, "wallet/profile", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CollectionMetadata returns descriptive data about a collection.
func (c *Client) CollectionMetadata(ctx context.Context, contract string) (*CollectionMetadata, error) {
	var out CollectionMetadata
	if err := c.getFirst(ctx, "collection/metadata", c.collectionQuery(contract), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CollectionScore returns scoring metrics of a collection.
func (c *Client) CollectionScore(ctx context.Context, contract string) (*CollectionScore, error) {
	var out CollectionScore
	if err := c.getFirst(ctx, "collection/scores", c.collectionQuery(contract), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PricePrediction estimates the price of one token of a collection.
func (c *Client) PricePrediction(ctx context.Context, contract, tokenID string) (*PricePrediction, error) {
	var out PricePrediction
	q := c.collectionQuery(contract)
	q.Set("token_id", tokenID)
	if err := c.getFirst(ctx, "collection/price_estimate", q, &out); err != nil {
		return nil, err
	}
	if !out.PriceEstimate.IsSet() {
		return nil, ErrNoData
	}
	return &out, nil
}

// HolderTrend returns the holder count trend over the whole collection history.
func (c *Client) HolderTrend(ctx context.Context, contract string) (*Trend, error) {
	return c.trend(ctx, "holders", "collection/holders/trend", contract, RangeAll, nil)
}

// Analytics returns volume, sales and transaction trends for the range.
func (c *Client) Analytics(ctx context.Context, contract string, r Range) (*Trend, error) {
	return c.trend(ctx, "analytics", "collection/analytics/trend", contract, r, nil)
}

// MarketPriceTrend returns market cap and price ceiling trends for the range.
func (c *Client) MarketPriceTrend(ctx context.Context, contract string, r Range) (*Trend, error) {
	extra := url.Values{"metrics": {"marketcap,price_ceiling"}}
	return c.trend(ctx, "market", "collection/market/trend", contract, r, extra)
}

func (c *Client) trend(ctx context.Context, kind, endpoint, contract string, r Range, extra url.Values) (*Trend, error) {
	q := c.collectionQuery(contract)
	q.Set("time_range", string(r))
	for k, v := range extra {
		q[k] = v
	}
	var raw map[string]json.RawMessage
	if err := c.getFirst(ctx, endpoint, q, &raw); err != nil {
		return nil, err
	}
	series, err := decodeSeries(raw)
	if err != nil {
		return nil, fmt.Errorf("nftapi: decode %s: %w", endpoint, err)
	}
	if len(series) == 0 {
		return nil, ErrNoData
	}
	return &Trend{Kind: kind, Range: r, Series: series}, nil
}

func (c *Client) collectionQuery(contract string) url.Values {
	return url.Values{
		"blockchain":       {c.cfg.Chain},
		"contract_address": {contract},
	}
}

// envelope is the common {"data": [...]} response shape.
type envelope struct {
	Data []json.RawMessage `json:"data"`
}

func (c *Client) getFirst(ctx context.Context, endpoint string, q url.Values, dst any) error {
	start := time.Now()
	raw, err := c.get(ctx, endpoint, q)
	attrs := []slog.Attr{
		slog.String("endpoint", endpoint),
		slog.Duration("duration", logger.RoundMS(time.Since(start))),
	}
	if err != nil {
		attrs = append(attrs,
			slog.String("status", "fail"),
			slog.String("err", err.Error()),
			slog.String("err_code", errorCode(err)),
		)
		logger.Debug(ctx, component, "nftapi.request", attrs...)
		return err
	}
	logger.Debug(ctx, component, "nftapi.request", append(attrs, slog.String("status", "ok"))...)

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("nftapi: decode %s: %w", endpoint, err)
	}
	if len(env.Data) == 0 || string(env.Data[0]) == "null" {
		return ErrNoData
	}
	if err := json.Unmarshal(env.Data[0], dst); err != nil {
		return fmt.Errorf("nftapi: decode %s item: %w", endpoint, err)
	}
	return nil
}

// errorCode is the err_code log value: the HTTP status code form for API
// rejections, otherwise the transport failure bucket.
func errorCode(err error) string {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code()
	}
	return netutil.ErrorKind(err)
}

func (c *Client) get(ctx context.Context, endpoint string, q url.Values) ([]byte, error) {
	u := c.cfg.BaseURL + "/" + strings.TrimLeft(endpoint, "/")
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("nftapi: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("x-api-key", c.cfg.APIKey)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("nftapi: %s: %w", endpoint, err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		buf, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return nil, &StatusError{
			StatusCode: res.StatusCode,
			Endpoint:   endpoint,
			Body:       logger.SanitizeLimit(string(buf), 256),
		}
	}

	buf, err := io.ReadAll(io.LimitReader(res.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("nftapi: read %s: %w", endpoint, err)
	}
	return buf, nil
}
