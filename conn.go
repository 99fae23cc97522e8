package treeftp

import (
	"bufio"
	"fmt"
	"net"
	"strings"
	"time"
)

// transport bundles the control socket with its buffered reader so that a
// reconnect replaces both in a single assignment. A Client holds at most
// one transport at a time.
type transport struct {
	conn    net.Conn
	reader  *bufio.Reader
	timeout time.Duration
}

// dialTransport opens a fresh control transport to addr.
func dialTransport(dialer *net.Dialer, addr string, timeout time.Duration) (*transport, error) {
	conn, err := dialer.Dial("tcp", addr)
	if err != nil {
		return nil, &ConnError{Addr: addr, Err: err}
	}
	return &transport{
		conn:    conn,
		reader:  bufio.NewReader(conn),
		timeout: timeout,
	}, nil
}

// readLine reads exactly one line and strips the line terminator.
func (t *transport) readLine() (string, error) {
	if t.timeout > 0 {
		if err := t.conn.SetReadDeadline(time.Now().Add(t.timeout)); err != nil {
			return "", fmt.Errorf("failed to set read deadline: %w", err)
		}
	}
	line, err := t.reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// writeLine writes one line terminated with CRLF per the protocol convention.
func (t *transport) writeLine(line string) error {
	if t.timeout > 0 {
		if err := t.conn.SetWriteDeadline(time.Now().Add(t.timeout)); err != nil {
			return fmt.Errorf("failed to set write deadline: %w", err)
		}
	}
	_, err := fmt.Fprintf(t.conn, "%s\r\n", line)
	return err
}

func (t *transport) close() error {
	return t.conn.Close()
}

// deadlineConn wraps a data connection and sets a read/write deadline before
// every operation.
type deadlineConn struct {
	net.Conn
	timeout time.Duration
}

func (c *deadlineConn) Read(b []byte) (n int, err error) {
	if c.timeout > 0 {
		if err := c.Conn.SetReadDeadline(time.Now().Add(c.timeout)); err != nil {
			return 0, err
		}
	}
	return c.Conn.Read(b)
}

func (c *deadlineConn) Write(b []byte) (n int, err error) {
	if c.timeout > 0 {
		if err := c.Conn.SetWriteDeadline(time.Now().Add(c.timeout)); err != nil {
			return 0, err
		}
	}
	return c.Conn.Write(b)
}
