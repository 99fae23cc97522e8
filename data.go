package treeftp

import (
	"bufio"
	"errors"
	"fmt"
	"net"
	"regexp"
	"strconv"

	"go.uber.org/zap"
)

// pasvRegex matches the PASV response payload: 227 Entering Passive Mode (h1,h2,h3,h4,p1,p2)
var pasvRegex = regexp.MustCompile(`\((\d+),(\d+),(\d+),(\d+),(\d+),(\d+)\)`)

// parsePASV parses a PASV reply and returns the data channel address.
// Example: "227 Entering Passive Mode (127,0,0,1,19,136)"
// Returns: "127.0.0.1:5000" (19*256 + 136 = 5000)
func parsePASV(response string) (string, error) {
	matches := pasvRegex.FindStringSubmatch(response)
	if len(matches) != 7 {
		return "", &ParseError{Response: response, Reason: "expected six comma-separated numeric fields"}
	}

	var h [4]int
	for i := 0; i < 4; i++ {
		val, err := strconv.Atoi(matches[i+1])
		if err != nil || val < 0 || val > 255 {
			return "", &ParseError{Response: response, Reason: fmt.Sprintf("invalid address field %q", matches[i+1])}
		}
		h[i] = val
	}
	host := fmt.Sprintf("%d.%d.%d.%d", h[0], h[1], h[2], h[3])

	p1, err1 := strconv.Atoi(matches[5])
	p2, err2 := strconv.Atoi(matches[6])
	if err1 != nil || err2 != nil || p1 < 0 || p1 > 255 || p2 < 0 || p2 > 255 {
		return "", &ParseError{Response: response, Reason: fmt.Sprintf("invalid port fields %q,%q", matches[5], matches[6])}
	}
	port := p1*256 + p2

	return net.JoinHostPort(host, strconv.Itoa(port)), nil
}

// resolveDataAddr resolves the data connection address. Servers behind NAT
// sometimes advertise 0.0.0.0; fall back to the control connection host.
func resolveDataAddr(pasvAddr, controlHost string) string {
	host, port, err := net.SplitHostPort(pasvAddr)
	if err != nil {
		return pasvAddr
	}
	if host == "0.0.0.0" {
		return net.JoinHostPort(controlHost, port)
	}
	return pasvAddr
}

// openDataConn negotiates a passive-mode data connection for one transfer.
// A reply other than 227 means the server offers no data channel; that is
// reported as a nil connection with a nil error, and callers must treat it
// as an empty listing. A malformed 227 payload fails with a *ParseError and
// a dial failure with a *ConnError.
func (c *Client) openDataConn() (net.Conn, error) {
	if err := c.Send("PASV"); err != nil {
		return nil, err
	}
	line, err := c.ReadLine()
	if err != nil {
		return nil, err
	}

	if resp := parseResponse(line); resp.Code != 227 {
		c.logger.Debug("passive mode refused, no data channel",
			zap.Int("code", resp.Code),
			zap.String("line", line))
		return nil, nil
	}

	addr, err := parsePASV(line)
	if err != nil {
		return nil, err
	}
	addr = resolveDataAddr(addr, c.host)

	conn, err := c.dialer.Dial("tcp", addr)
	if err != nil {
		return nil, &ConnError{Addr: addr, Err: err}
	}

	if c.timeout > 0 {
		return &deadlineConn{Conn: conn, timeout: c.timeout}, nil
	}
	return conn, nil
}

// ListLines retrieves the raw directory listing of path, one line per slice
// element, in server order. The sequence is strictly serial: negotiate the
// data channel, issue LIST, drain the data channel fully, then read the
// completion reply on the control channel.
//
// A refused data channel yields an empty listing. A malformed passive-mode
// payload is logged and also yields an empty listing for this node, per the
// propagation policy for negotiation parse failures.
func (c *Client) ListLines(path string) ([]string, error) {
	dataConn, err := c.openDataConn()
	if err != nil {
		var parseErr *ParseError
		if errors.As(err, &parseErr) {
			c.logger.Warn("malformed passive mode reply, treating listing as empty",
				zap.String("path", path),
				zap.Error(parseErr))
			return nil, nil
		}
		return nil, err
	}
	if dataConn == nil {
		return nil, nil
	}

	if err := c.Send("LIST", path); err != nil {
		_ = dataConn.Close()
		return nil, err
	}

	var lines []string
	scanner := bufio.NewScanner(dataConn)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	scanErr := scanner.Err()
	_ = dataConn.Close()
	if scanErr != nil {
		return nil, fmt.Errorf("failed to read directory listing: %w", scanErr)
	}

	// Drain the control channel's completion reply (226, or 421 when the
	// server is going down).
	if _, err := c.ReadMultiline(); err != nil {
		return nil, err
	}

	c.logger.Debug("directory listing fetched",
		zap.String("path", path),
		zap.Int("lines", len(lines)))
	return lines, nil
}

// List retrieves the listing of path parsed into entries, skipping lines
// with blank names, in server order.
func (c *Client) List(path string) ([]Entry, error) {
	lines, err := c.ListLines(path)
	if err != nil {
		return nil, err
	}

	var entries []Entry
	for _, line := range lines {
		name := c.parser.Name(line)
		if name == "" {
			continue
		}
		entries = append(entries, Entry{Name: name, IsDir: c.parser.IsDir(line)})
	}
	return entries, nil
}
