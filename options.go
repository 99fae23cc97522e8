package treeftp

import (
	"fmt"
	"net"
	"time"

	"go.uber.org/zap"
)

// Option is a functional option for configuring a Client.
type Option func(*Client) error

// WithTimeout sets a per-operation deadline for connection, read and write
// operations on both channels. By default no deadline is applied and every
// operation blocks until the transport itself gives up.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) error {
		c.timeout = timeout
		return nil
	}
}

// WithLogger enables logging using the provided logger. The protocol
// conversation is logged at debug level, reconnection at warn level.
//
// Example:
//
//	logger, _ := zap.NewDevelopment()
//	client, _ := treeftp.Dial("ftp.example.com:21", treeftp.WithLogger(logger))
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) error {
		if logger == nil {
			logger = zap.NewNop()
		}
		c.logger = logger
		return nil
	}
}

// WithDialer sets a custom net.Dialer for establishing connections.
// This can be used to configure source addresses, keep-alive settings, etc.
func WithDialer(dialer *net.Dialer) Option {
	return func(c *Client) error {
		c.dialer = dialer
		return nil
	}
}

// WithRetryPolicy configures the reconnection policy: how many times a
// failed read or reconnection is attempted, and the fixed pause between
// reconnection attempts. The defaults are DefaultMaxAttempts and
// DefaultBackoff; tests typically pass a zero backoff.
func WithRetryPolicy(maxAttempts int, backoff time.Duration) Option {
	return func(c *Client) error {
		if maxAttempts < 1 {
			return fmt.Errorf("retry policy requires at least one attempt, got %d", maxAttempts)
		}
		if backoff < 0 {
			return fmt.Errorf("retry backoff must not be negative, got %v", backoff)
		}
		c.maxAttempts = maxAttempts
		c.backoff = backoff
		return nil
	}
}

// WithListParser replaces the default Unix listing parser. This allows
// handling non-standard LIST formats.
func WithListParser(parser ListingParser) Option {
	return func(c *Client) error {
		if parser == nil {
			return fmt.Errorf("listing parser must not be nil")
		}
		c.parser = parser
		return nil
	}
}
