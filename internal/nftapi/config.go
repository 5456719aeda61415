package nftapi

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

const (
	DefaultBaseURL = "https://api.unleashnfts.com/api/v1"
	DefaultChain   = "ethereum"
	defaultTimeout = 15 * time.Second
)

// Config describes how to reach the NFT analytics API.
type Config struct {
	BaseURL        string `yaml:"base_url" envconfig:"NFTAPI_BASE_URL"`
	APIKey         string `yaml:"api_key" envconfig:"NFTAPI_API_KEY"`
	Chain          string `yaml:"chain" envconfig:"NFTAPI_CHAIN"`
	TimeoutSeconds int    `yaml:"timeout_seconds" envconfig:"NFTAPI_TIMEOUT_SECONDS"`
}

// Normalize fills defaults and validates the base URL.
func (c *Config) Normalize() error {
	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if u, err := url.Parse(c.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("nftapi.base_url %q is not an absolute URL", c.BaseURL)
	}
	c.APIKey = strings.TrimSpace(c.APIKey)
	c.Chain = strings.TrimSpace(c.Chain)
	if c.Chain == "" {
		c.Chain = DefaultChain
	}
	if c.TimeoutSeconds < 0 {
		return errors.New("nftapi.timeout_seconds must be >= 0")
	}
	return nil
}

// Timeout returns the per-request timeout.
func (c Config) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return defaultTimeout
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}
