// Package anomaly calls the remote anomaly-prediction model for a collection.
package anomaly

import (
	"bytes"
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
	"github.com/m3rciful/nftbot/internal/nftapi"
)

const (
	DefaultEndpoint = "https://nft-nexus-g7co.onrender.com/anomaly-predict"
	defaultTimeout  = 15 * time.Second

	// ServiceErrorText replaces the prediction when the service answers non-2xx.
	ServiceErrorText = "Error with the prediction service"
	unknownText      = "Unknown"

	component = "anomaly"
)

// Config points at the prediction endpoint.
type Config struct {
	Endpoint       string `yaml:"endpoint" envconfig:"ANOMALY_ENDPOINT"`
	TimeoutSeconds int    `yaml:"timeout_seconds" envconfig:"ANOMALY_TIMEOUT_SECONDS"`
}

// Normalize applies defaults and validates the endpoint.
func (c *Config) Normalize() error {
	c.Endpoint = strings.TrimSpace(c.Endpoint)
	if c.Endpoint == "" {
		c.Endpoint = DefaultEndpoint
	}
	if u, err := url.Parse(c.Endpoint); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("anomaly.endpoint %q is not an absolute URL", c.Endpoint)
	}
	if c.TimeoutSeconds < 0 {
		return errors.New("anomaly.timeout_seconds must be >= 0")
	}
	return nil
}

func (c Config) timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return defaultTimeout
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Features is the model input, taken from the collection score.
type Features struct {
	WashtradeIndex   nftapi.Value `json:"washtrade_index"`
	ZeroProfitTrades nftapi.Value `json:"zero_profit_trades"`
	LossMakingVolume nftapi.Value `json:"loss_making_volume"`
}

// FeaturesFromScore extracts model input; missing metrics are sent as "N/A".
func FeaturesFromScore(s *nftapi.CollectionScore) Features {
	if s == nil {
		s = &nftapi.CollectionScore{}
	}
	return Features{
		WashtradeIndex:   s.WashtradeIndex.OrText("N/A"),
		ZeroProfitTrades: s.ZeroProfitTrades.OrText("N/A"),
		LossMakingVolume: s.LossMakingVolume.OrText("N/A"),
	}
}

// Prediction is what the bot shows. Err records why Text is a failure
// explanation instead of a model output; it is informational only.
type Prediction struct {
	Text string
	Err  error
}

// RemoteServiceError describes a failed call to the prediction endpoint.
type RemoteServiceError struct {
	StatusCode int
	Cause      error
}

func (e *RemoteServiceError) Error() string {
	if e.Cause != nil {
		return "anomaly: " + e.Cause.Error()
	}
	return fmt.Sprintf("anomaly: unexpected status %d", e.StatusCode)
}

func (e *RemoteServiceError) Unwrap() error { return e.Cause }

// Client posts features to the prediction endpoint.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

// New builds a Client. hc may be nil.
func New(cfg Config, hc *http.Client) (*Client, error) {
	if err := cfg.Normalize(); err != nil {
		return nil, err
	}
	if hc == nil {
		hc = netutil.NewHTTPClient(netutil.ClientOptions{Timeout: cfg.timeout()})
	}
	return &Client{endpoint: cfg.Endpoint, httpClient: hc}, nil
}

type predictResponse struct {
	Prediction *json.RawMessage `json:"prediction"`
}

// Predict never fails: every failure is folded into the returned text.
func (c *Client) Predict(ctx context.Context, f Features) Prediction {
	start := time.Now()
	p := c.predict(ctx, f)
	attrs := []slog.Attr{slog.Duration("duration", logger.RoundMS(time.Since(start)))}
	if p.Err != nil {
		attrs = append(attrs,
			slog.String("status", "fail"),
			slog.String("err", p.Err.Error()),
		)
		var rse *RemoteServiceError
		if errors.As(p.Err, &rse) && rse.StatusCode != 0 {
			attrs = append(attrs, slog.Int("http_code", rse.StatusCode))
		} else {
			attrs = append(attrs, slog.String("err_code", netutil.ErrorKind(p.Err)))
		}
		logger.Warn(ctx, component, "anomaly.predict", attrs...)
	} else {
		logger.Debug(ctx, component, "anomaly.predict", append(attrs, slog.String("status", "ok"))...)
	}
	return p
}

func (c *Client) predict(ctx context.Context, f Features) Prediction {
	body, err := json.Marshal(f)
	if err != nil {
		return failed(&RemoteServiceError{Cause: err})
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return failed(&RemoteServiceError{Cause: err})
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return failed(&RemoteServiceError{Cause: err})
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(res.Body, 4096))
		return Prediction{Text: ServiceErrorText, Err: &RemoteServiceError{StatusCode: res.StatusCode}}
	}

	var out predictResponse
	if err := json.NewDecoder(io.LimitReader(res.Body, 1<<20)).Decode(&out); err != nil {
		return failed(&RemoteServiceError{StatusCode: res.StatusCode, Cause: err})
	}
	return Prediction{Text: renderPrediction(out.Prediction)}
}

func failed(err *RemoteServiceError) Prediction {
	cause := err.Cause
	return Prediction{Text: "An error occurred: " + cause.Error(), Err: err}
}

// renderPrediction shows strings unquoted and any other JSON literal as sent.
func renderPrediction(raw *json.RawMessage) string {
	if raw == nil {
		return unknownText
	}
	var v nftapi.Value
	if err := json.Unmarshal(*raw, &v); err != nil || !v.IsSet() {
		return unknownText
	}
	return v.String()
}
