package treeftp

import "fmt"

// ConnError reports a failure to open a control or data transport.
type ConnError struct {
	// Addr is the address the dial was attempted against
	Addr string

	// Err is the underlying dial error
	Err error
}

// Error implements the error interface.
func (e *ConnError) Error() string {
	return fmt.Sprintf("treeftp: connect to %s failed: %v", e.Addr, e.Err)
}

// Unwrap returns the underlying dial error.
func (e *ConnError) Unwrap() error {
	return e.Err
}

// AuthError reports a negative reply during login. Authentication failures
// are final: the client never retries them.
type AuthError struct {
	// Command is the login command that was rejected ("USER" or "PASS")
	Command string

	// Response is the raw reply line received from the server
	Response string

	// Code is the three-digit reply code
	Code int
}

// Error implements the error interface.
func (e *AuthError) Error() string {
	return fmt.Sprintf("treeftp: authentication failed: %s rejected with %q (code %d)", e.Command, e.Response, e.Code)
}

// ParseError reports a malformed server reply, such as a passive-mode
// response whose payload does not contain six numeric fields.
type ParseError struct {
	// Response is the raw reply line that failed to parse
	Response string

	// Reason describes what was wrong with it
	Reason string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("treeftp: malformed response %q: %s", e.Response, e.Reason)
}

// ReadError reports a control-channel read that kept failing after every
// reconnection attempt was spent.
type ReadError struct {
	// Attempts is the number of read attempts made
	Attempts int

	// Err is the error from the last attempt
	Err error
}

// Error implements the error interface.
func (e *ReadError) Error() string {
	return fmt.Sprintf("treeftp: reading response failed after %d attempts: %v", e.Attempts, e.Err)
}

// Unwrap returns the error from the last read attempt.
func (e *ReadError) Unwrap() error {
	return e.Err
}

// ExportError reports a failure to write the exported tree. It is isolated
// at the export boundary: a failed export never aborts a traversal.
type ExportError struct {
	// Path is the destination file
	Path string

	// Err is the underlying encode or write error
	Err error
}

// Error implements the error interface.
func (e *ExportError) Error() string {
	return fmt.Sprintf("treeftp: exporting tree to %s failed: %v", e.Path, e.Err)
}

// Unwrap returns the underlying encode or write error.
func (e *ExportError) Unwrap() error {
	return e.Err
}
