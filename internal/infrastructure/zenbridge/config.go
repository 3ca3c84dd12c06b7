package zenbridge

import (
	"errors"
	"net/url"
	"time"
)

// Config holds the partner endpoint used for outbound invoices
type Config struct {
	// URL is the absolute endpoint invoices are POSTed to
	URL string
	// Token is sent as a bearer credential
	Token string
	// Timeout bounds a single dispatch; zero leaves it to the transport
	Timeout time.Duration
}

// Errors for zenbridge configuration
var (
	ErrConfigMissingURL   = errors.New("zenbridge: partner url is required")
	ErrConfigInvalidURL   = errors.New("zenbridge: partner url must be absolute http(s)")
	ErrConfigMissingToken = errors.New("zenbridge: partner token is required")
	ErrConfigNegativeWait = errors.New("zenbridge: timeout cannot be negative")
)

// Validate validates the partner configuration
func (c *Config) Validate() error {
	if c.URL == "" {
		return ErrConfigMissingURL
	}
	u, err := url.Parse(c.URL)
	if err != nil || !u.IsAbs() || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ErrConfigInvalidURL
	}
	if c.Token == "" {
		return ErrConfigMissingToken
	}
	if c.Timeout < 0 {
		return ErrConfigNegativeWait
	}
	return nil
}
