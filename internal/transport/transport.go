package transport

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/gorilla/websocket"
)

// Transport abstracts the line stream to the game server for both raw TCP
// and WebSocket connections.
type Transport interface {
	// ReadLine blocks until a complete line is received (without terminator).
	// Returns io.EOF once the peer has closed the stream.
	ReadLine() (string, error)

	// WriteLine sends a line followed by the terminator and flushes it.
	WriteLine(line string) error

	// Close closes the connection.
	Close() error

	// RemoteAddr returns the peer address for logging.
	RemoteAddr() string
}

// Schemes accepted by Dial.
const (
	SchemeTCP       = "tcp"
	SchemeWebSocket = "ws"
)

// Options controls how a transport is dialed and how long reads and writes
// may block. A zero timeout disables the deadline.
type Options struct {
	Scheme         string
	Path           string
	ConnectTimeout time.Duration
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
}

// ErrUnsupportedScheme is returned by Dial for unknown schemes.
var ErrUnsupportedScheme = errors.New("unsupported transport scheme")

// MaxLineLength bounds a received line, terminator excluded. Longer input
// fails the read with ErrLineTooLong.
const MaxLineLength = 4096

// ErrLineTooLong is returned by ReadLine when the peer sends more than
// MaxLineLength bytes without a line terminator.
var ErrLineTooLong = errors.New("line too long")

// Dial connects to host:port using the scheme in opts (TCP when empty).
func Dial(ctx context.Context, host string, port int, opts Options) (Transport, error) {
	if opts.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.ConnectTimeout)
		defer cancel()
	}

	addr := net.JoinHostPort(host, strconv.Itoa(port))

	switch opts.Scheme {
	case "", SchemeTCP:
		var d net.Dialer
		conn, err := d.DialContext(ctx, "tcp", addr)
		if err != nil {
			return nil, err
		}
		return NewLineConn(conn, opts), nil

	case SchemeWebSocket:
		u := url.URL{Scheme: "ws", Host: addr, Path: opts.Path}
		conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
		if err != nil {
			return nil, err
		}
		return NewWebSocketConn(conn, opts), nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedScheme, opts.Scheme)
	}
}

func deadline(timeout time.Duration) time.Time {
	if timeout <= 0 {
		return time.Time{}
	}
	return time.Now().Add(timeout)
}
