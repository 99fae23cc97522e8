package treeftp

import (
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// Response represents a single FTP reply line.
type Response struct {
	// Code is the three-digit reply code (e.g., 220, 550). Zero when the
	// line did not start with three digits.
	Code int

	// Message is the human-readable part after the code
	Message string

	// Raw is the reply line exactly as received
	Raw string
}

// parseResponse extracts the reply code from one reply line. Lines that do
// not begin with three digits yield a zero code; callers treat those as
// failures through the usual class checks.
func parseResponse(line string) Response {
	resp := Response{Raw: line, Message: line}
	if len(line) < 3 {
		return resp
	}
	code, err := strconv.Atoi(line[0:3])
	if err != nil {
		return resp
	}
	resp.Code = code
	resp.Message = strings.TrimPrefix(strings.TrimPrefix(line[3:], " "), "-")
	return resp
}

// Is2xx returns true if the reply code is in the 2xx range (success).
func (r Response) Is2xx() bool {
	return r.Code >= 200 && r.Code < 300
}

// Is3xx returns true if the reply code is in the 3xx range (intermediate).
func (r Response) Is3xx() bool {
	return r.Code >= 300 && r.Code < 400
}

// Is4xx returns true if the reply code is in the 4xx range (transient failure).
func (r Response) Is4xx() bool {
	return r.Code >= 400 && r.Code < 500
}

// Is5xx returns true if the reply code is in the 5xx range (permanent failure).
func (r Response) Is5xx() bool {
	return r.Code >= 500 && r.Code < 600
}

// retryState counts read attempts within one logical operation. It is reset
// at the start of each operation and bounded by the configured maximum.
type retryState struct {
	attempts int
	max      int
}

func (s *retryState) reset() {
	s.attempts = 0
}

// next reports whether another attempt is allowed and records it.
func (s *retryState) next() bool {
	if s.attempts >= s.max {
		return false
	}
	s.attempts++
	return true
}

// Send writes one command line on the control channel. Arguments are joined
// with single spaces after the command verb.
func (c *Client) Send(command string, args ...string) error {
	cmd := command
	if len(args) > 0 {
		cmd = command + " " + strings.Join(args, " ")
	}

	c.logger.Debug("ftp command", zap.String("cmd", redactCommand(cmd)))

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.tr == nil {
		return &ConnError{Addr: c.addr(), Err: errDisconnected}
	}
	return c.tr.writeLine(cmd)
}

// redactCommand hides credentials in PASS commands before logging.
func redactCommand(cmd string) string {
	if strings.HasPrefix(cmd, "PASS ") {
		return "PASS ****"
	}
	return cmd
}

// ReadLine reads exactly one reply line from the control channel. A failed
// read triggers reconnection and is retried; when every attempt is spent the
// call fails with a *ReadError.
func (c *Client) ReadLine() (string, error) {
	var line string
	err := c.withRetry(func() error {
		var rerr error
		line, rerr = c.tr.readLine()
		return rerr
	})
	if err != nil {
		return "", err
	}
	c.logger.Debug("ftp response", zap.String("line", line))
	return line, nil
}

// ReadMultiline reads successive reply lines, accumulating them until a line
// begins with completion code 226 or 421. The accumulated text, including
// the terminating line, is returned with each line newline-terminated.
//
// The same reconnect-and-retry policy as ReadLine applies; a retried attempt
// restarts accumulation from scratch.
func (c *Client) ReadMultiline() (string, error) {
	var text string
	err := c.withRetry(func() error {
		var sb strings.Builder
		for {
			line, rerr := c.tr.readLine()
			if rerr != nil {
				return rerr
			}
			sb.WriteString(line)
			sb.WriteString("\n")
			if strings.HasPrefix(line, "226") || strings.HasPrefix(line, "421") {
				break
			}
		}
		text = sb.String()
		return nil
	})
	if err != nil {
		return "", err
	}
	c.logger.Debug("ftp multiline response", zap.String("text", text))
	return text, nil
}

// withRetry runs op against the current transport, reconnecting and retrying
// on failure up to the configured attempt bound.
func (c *Client) withRetry(op func() error) error {
	c.retries.reset()
	var lastErr error
	for c.retries.next() {
		if c.tr == nil {
			lastErr = errDisconnected
		} else if lastErr = op(); lastErr == nil {
			return nil
		}
		c.logger.Warn("control channel read failed, attempting to reconnect",
			zap.Int("attempt", c.retries.attempts),
			zap.Error(lastErr))
		if rerr := c.reconnect(); rerr != nil {
			// Session is left disconnected; the pending operation fails.
			break
		}
	}
	return &ReadError{Attempts: c.retries.attempts, Err: lastErr}
}
