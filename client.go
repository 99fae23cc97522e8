package treeftp

import (
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Reconnection policy defaults. Both are configuration, not hard limits;
// see WithRetryPolicy.
const (
	// DefaultMaxAttempts is the number of times a failed read or
	// reconnection is attempted before giving up.
	DefaultMaxAttempts = 3

	// DefaultBackoff is the fixed pause between reconnection attempts.
	DefaultBackoff = 5 * time.Second
)

var errDisconnected = errors.New("control connection is closed")

// Session is the capability surface of a control-channel session: login,
// command/response exchange, listing retrieval and disconnect. It is
// implemented by Client; tests substitute their own implementations.
type Session interface {
	Login(username, password string) error
	Send(command string, args ...string) error
	ReadLine() (string, error)
	ReadMultiline() (string, error)
	ListLines(path string) ([]string, error)
	List(path string) ([]Entry, error)
	Quit() error
}

// Client is an FTP control-channel session. It owns at most one control
// transport at a time; the transport is replaced atomically on reconnect.
//
// Reconnection restores the transport only: there is no automatic re-login,
// and the server's fresh greeting is not consumed, so the read that
// triggered the reconnect will return the greeting line.
type Client struct {
	// host and port of the server
	host string
	port string

	// dialer is used to establish control and data connections
	dialer *net.Dialer

	// timeout applies per read/write when non-zero
	timeout time.Duration

	// logger records the protocol conversation at debug level
	logger *zap.Logger

	// maxAttempts and backoff configure the reconnection policy
	maxAttempts int
	backoff     time.Duration

	// parser classifies raw listing lines
	parser ListingParser

	// mu guards the transport handle across Send, reconnect and Quit
	mu sync.Mutex

	// tr is the current control transport; nil while disconnected
	tr *transport

	// retries tracks read attempts for the operation in flight
	retries retryState
}

var _ Session = (*Client)(nil)

// Dial connects to an FTP server at the given address and reads the initial
// greeting. The address must be in the form "host:port".
//
// Example:
//
//	client, err := treeftp.Dial("ftp.example.com:21",
//	    treeftp.WithTimeout(10*time.Second),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Quit()
func Dial(addr string, options ...Option) (*Client, error) {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return nil, fmt.Errorf("invalid address: %w", err)
	}

	c := &Client{
		host:        host,
		port:        port,
		dialer:      &net.Dialer{},
		logger:      zap.NewNop(),
		maxAttempts: DefaultMaxAttempts,
		backoff:     DefaultBackoff,
		parser:      UnixListParser{},
	}

	for _, opt := range options {
		if err := opt(c); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	c.dialer.Timeout = c.timeout
	c.retries.max = c.maxAttempts

	if err := c.connect(); err != nil {
		return nil, err
	}

	return c, nil
}

// addr returns the control connection address.
func (c *Client) addr() string {
	return net.JoinHostPort(c.host, c.port)
}

// connect opens the control transport and discards the server greeting.
func (c *Client) connect() error {
	c.logger.Debug("connecting to ftp server", zap.String("addr", c.addr()))

	tr, err := dialTransport(c.dialer, c.addr(), c.timeout)
	if err != nil {
		return err
	}

	greeting, err := tr.readLine()
	if err != nil {
		_ = tr.close()
		return fmt.Errorf("failed to read greeting: %w", err)
	}
	c.logger.Debug("ftp greeting", zap.String("line", greeting))

	c.mu.Lock()
	c.tr = tr
	c.mu.Unlock()
	return nil
}

// Login authenticates with the provided username and password. Each of the
// USER and PASS replies is accepted only when its code is 230 or 331; any
// other reply fails with a *AuthError immediately. Wrong credentials will
// not become right credentials, so authentication is never retried.
func (c *Client) Login(username, password string) error {
	if err := c.Send("USER", username); err != nil {
		return err
	}
	line, err := c.ReadLine()
	if err != nil {
		return err
	}
	c.logger.Info("server reply", zap.String("line", line))
	if resp := parseResponse(line); resp.Code != 230 && resp.Code != 331 {
		return &AuthError{Command: "USER", Response: line, Code: resp.Code}
	}

	if err := c.Send("PASS", password); err != nil {
		return err
	}
	line, err = c.ReadLine()
	if err != nil {
		return err
	}
	c.logger.Info("server reply", zap.String("line", line))
	if resp := parseResponse(line); resp.Code != 230 && resp.Code != 331 {
		return &AuthError{Command: "PASS", Response: line, Code: resp.Code}
	}

	return nil
}

// reconnect closes any existing transport and attempts to re-open a fresh
// one to the same address, pausing for the configured backoff between
// attempts. When every attempt fails the session is left disconnected and
// the caller's pending operation fails.
func (c *Client) reconnect() error {
	c.mu.Lock()
	if c.tr != nil {
		_ = c.tr.close()
		c.tr = nil
	}
	c.mu.Unlock()

	var lastErr error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		tr, err := dialTransport(c.dialer, c.addr(), c.timeout)
		if err == nil {
			c.mu.Lock()
			c.tr = tr
			c.mu.Unlock()
			c.logger.Info("reconnected to ftp server",
				zap.String("addr", c.addr()),
				zap.Int("attempt", attempt))
			return nil
		}
		lastErr = err
		c.logger.Warn("reconnect attempt failed",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", c.maxAttempts),
			zap.Error(err))
		if attempt < c.maxAttempts {
			time.Sleep(c.backoff)
		}
	}

	return fmt.Errorf("reconnect to %s failed after %d attempts: %w", c.addr(), c.maxAttempts, lastErr)
}

// Quit closes the session, sending a best-effort QUIT command first. It is
// idempotent and safe to call multiple times.
func (c *Client) Quit() error {
	c.mu.Lock()
	tr := c.tr
	c.tr = nil
	c.mu.Unlock()

	if tr == nil {
		return nil
	}

	// Ignore the write error, we are closing anyway.
	_ = tr.writeLine("QUIT")

	err := tr.close()
	c.logger.Info("disconnected from ftp server", zap.String("addr", c.addr()))
	return err
}
