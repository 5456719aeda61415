package anomaly

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/m3rciful/nftbot/internal/nftapi"
)

func newClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := New(Config{Endpoint: srv.URL + "/anomaly-predict"}, srv.Client())
	require.NoError(t, err)
	return c
}

func TestPredictSendsFeatures(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, 0.1, body["washtrade_index"])
		require.Equal(t, "N/A", body["loss_making_volume"])
		_, _ = w.Write([]byte(`{"prediction":"Normal"}`))
	})

	f := FeaturesFromScore(&nftapi.CollectionScore{
		WashtradeIndex:   nftapi.Number("0.1"),
		ZeroProfitTrades: nftapi.Number("4"),
	})
	p := c.Predict(context.Background(), f)
	require.NoError(t, p.Err)
	require.Equal(t, "Normal", p.Text)
}

func TestPredictNumericPrediction(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"prediction":1}`))
	})
	require.Equal(t, "1", c.Predict(context.Background(), Features{}).Text)
}

func TestPredictMissingKeyIsUnknown(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	})
	p := c.Predict(context.Background(), Features{})
	require.NoError(t, p.Err)
	require.Equal(t, "Unknown", p.Text)
}

func TestPredictServerErrorIsFolded(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	p := c.Predict(context.Background(), Features{})
	require.Equal(t, ServiceErrorText, p.Text)
	var rse *RemoteServiceError
	require.True(t, errors.As(p.Err, &rse))
	require.Equal(t, http.StatusInternalServerError, rse.StatusCode)
}

func TestPredictTransportErrorIsFolded(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	endpoint := srv.URL
	srv.Close()

	c, err := New(Config{Endpoint: endpoint}, nil)
	require.NoError(t, err)
	p := c.Predict(context.Background(), Features{})
	require.True(t, strings.HasPrefix(p.Text, "An error occurred: "), p.Text)
	require.Error(t, p.Err)
}

func TestPredictMalformedBodyIsFolded(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	})
	p := c.Predict(context.Background(), Features{})
	require.True(t, strings.HasPrefix(p.Text, "An error occurred: "), p.Text)
}

func TestConfigNormalize(t *testing.T) {
	var cfg Config
	require.NoError(t, cfg.Normalize())
	require.Equal(t, DefaultEndpoint, cfg.Endpoint)

	bad := Config{Endpoint: "/relative"}
	require.Error(t, bad.Normalize())
}
