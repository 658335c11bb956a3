package client

import (
	"errors"
	"fmt"
)

var (
	// ErrConnection matches every *ConnectionError.
	ErrConnection = errors.New("connection failed")

	// ErrProtocol matches every *ProtocolError.
	ErrProtocol = errors.New("protocol violation")

	// ErrSessionClosed is returned by any operation on a terminated session.
	ErrSessionClosed = errors.New("session closed")

	// ErrUnexpectedState is returned when an operation is called out of order.
	// Nothing is sent and the session stays usable.
	ErrUnexpectedState = errors.New("operation not valid in current session state")
)

// ConnectionError reports that the transport could not be established.
type ConnectionError struct {
	Addr string
	Err  error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connect to %s: %v", e.Addr, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

func (e *ConnectionError) Is(target error) bool { return target == ErrConnection }

// ProtocolError reports a reply that broke the protocol, or a transport
// failure in the middle of an exchange. The session is closed before a
// ProtocolError is returned.
type ProtocolError struct {
	Op     string // operation that detected the violation
	Line   string // offending line, empty when nothing was read
	Reason string
	Err    error // underlying transport or parse error, if any
}

func (e *ProtocolError) Error() string {
	msg := fmt.Sprintf("protocol violation during %s: %s", e.Op, e.Reason)
	if e.Line != "" {
		msg += fmt.Sprintf(" (got %q)", e.Line)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ProtocolError) Unwrap() error { return e.Err }

func (e *ProtocolError) Is(target error) bool { return target == ErrProtocol }
