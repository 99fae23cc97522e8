package treeftp

import (
	"bufio"
	"fmt"
	"net"
	"strconv"
	"strings"
	"sync"
	"testing"
)

// fakeServer behavior modes for exercising the reconnection policy.
const (
	// modeNormal serves every connection.
	modeNormal = iota

	// modeFlaky closes the first control connection right after the
	// greeting; later connections are served normally.
	modeFlaky

	// modeDead closes the first connection after the greeting and every
	// later connection immediately, so reads never succeed again.
	modeDead
)

// fakeServer is a minimal scripted FTP server covering exactly the commands
// the client issues: USER, PASS, PASV, LIST and QUIT.
type fakeServer struct {
	t  *testing.T
	ln net.Listener

	mu        sync.Mutex
	dirs      map[string][]string
	listed    []string
	greeting  string
	userReply string
	passReply string
	pasvReply string // full PASV reply override; empty negotiates a real data port
	mode      int
	conns     int
}

func newFakeServer(t *testing.T) *fakeServer {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	s := &fakeServer{
		t:         t,
		ln:        ln,
		dirs:      make(map[string][]string),
		greeting:  "220 fake server ready",
		userReply: "331 User name okay, need password",
		passReply: "230 User logged in",
	}
	go s.acceptLoop()
	t.Cleanup(func() { _ = ln.Close() })
	return s
}

func (s *fakeServer) addr() string {
	return s.ln.Addr().String()
}

func (s *fakeServer) setDir(path string, lines ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dirs[path] = lines
}

// listedPaths returns the paths LIST was issued for, in order.
func (s *fakeServer) listedPaths() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.listed...)
}

func (s *fakeServer) acceptLoop() {
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			return
		}
		go s.handle(conn)
	}
}

func (s *fakeServer) handle(conn net.Conn) {
	defer conn.Close()

	s.mu.Lock()
	s.conns++
	n := s.conns
	mode := s.mode
	greeting := s.greeting
	s.mu.Unlock()

	switch mode {
	case modeFlaky:
		if n == 1 {
			fmt.Fprintf(conn, "%s\r\n", greeting)
			return
		}
	case modeDead:
		if n == 1 {
			fmt.Fprintf(conn, "%s\r\n", greeting)
		}
		return
	}

	fmt.Fprintf(conn, "%s\r\n", greeting)

	var dataLn net.Listener
	defer func() {
		if dataLn != nil {
			_ = dataLn.Close()
		}
	}()

	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		cmd, arg, _ := strings.Cut(line, " ")

		switch cmd {
		case "USER":
			s.mu.Lock()
			reply := s.userReply
			s.mu.Unlock()
			fmt.Fprintf(conn, "%s\r\n", reply)
		case "PASS":
			s.mu.Lock()
			reply := s.passReply
			s.mu.Unlock()
			fmt.Fprintf(conn, "%s\r\n", reply)
		case "PASV":
			s.mu.Lock()
			override := s.pasvReply
			s.mu.Unlock()
			if override != "" {
				fmt.Fprintf(conn, "%s\r\n", override)
				continue
			}
			ln, err := net.Listen("tcp", "127.0.0.1:0")
			if err != nil {
				fmt.Fprintf(conn, "425 Cannot open data connection\r\n")
				continue
			}
			dataLn = ln
			fmt.Fprintf(conn, "227 Entering Passive Mode (%s)\r\n", pasvPayload(s.t, ln.Addr().String()))
		case "LIST":
			s.mu.Lock()
			lines := s.dirs[arg]
			s.listed = append(s.listed, arg)
			s.mu.Unlock()
			if dataLn == nil {
				fmt.Fprintf(conn, "425 Use PASV first\r\n")
				continue
			}
			if dconn, err := dataLn.Accept(); err == nil {
				for _, l := range lines {
					fmt.Fprintf(dconn, "%s\r\n", l)
				}
				_ = dconn.Close()
			}
			_ = dataLn.Close()
			dataLn = nil
			fmt.Fprintf(conn, "226 Transfer complete\r\n")
		case "QUIT":
			fmt.Fprintf(conn, "221 Goodbye\r\n")
			return
		default:
			fmt.Fprintf(conn, "502 Command not implemented\r\n")
		}
	}
}

// pasvPayload formats "host:port" as the six comma-separated PASV fields.
func pasvPayload(t *testing.T, addr string) string {
	t.Helper()
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		t.Fatalf("bad data listener address %q: %v", addr, err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		t.Fatalf("bad data listener port %q: %v", portStr, err)
	}
	return fmt.Sprintf("%s,%d,%d", strings.ReplaceAll(host, ".", ","), port/256, port%256)
}

// dialFake connects a client with zero reconnection backoff to the server.
func dialFake(t *testing.T, s *fakeServer, options ...Option) *Client {
	t.Helper()
	options = append([]Option{WithRetryPolicy(DefaultMaxAttempts, 0)}, options...)
	c, err := Dial(s.addr(), options...)
	if err != nil {
		t.Fatalf("Dial(%s) failed: %v", s.addr(), err)
	}
	t.Cleanup(func() { _ = c.Quit() })
	return c
}
