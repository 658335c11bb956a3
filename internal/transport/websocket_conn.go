package transport

import (
	"io"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

// WebSocketConn carries protocol lines as WebSocket text messages.
type WebSocketConn struct {
	conn         *websocket.Conn
	readBuf      []string // lines left over from a multi-line message
	readTimeout  time.Duration
	writeTimeout time.Duration
}

// NewWebSocketConn creates a new WebSocketConn from a WebSocket connection.
func NewWebSocketConn(conn *websocket.Conn, opts Options) *WebSocketConn {
	conn.SetReadLimit(MaxLineLength + int64(len(lineTerminator)))
	return &WebSocketConn{
		conn:         conn,
		readBuf:      make([]string, 0),
		readTimeout:  opts.ReadTimeout,
		writeTimeout: opts.WriteTimeout,
	}
}

// ReadLine returns the next line. A message carrying several lines is split
// and the remaining lines are returned by later calls; one trailing
// terminator is ignored. An empty message is an empty line. Messages over
// MaxLineLength fail the read. A normal close from the peer is reported as
// io.EOF.
func (c *WebSocketConn) ReadLine() (string, error) {
	for len(c.readBuf) == 0 {
		if c.readTimeout > 0 {
			if err := c.conn.SetReadDeadline(deadline(c.readTimeout)); err != nil {
				return "", err
			}
		}

		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return "", io.EOF
			}
			return "", err
		}

		text := strings.TrimSuffix(string(message), "\n")
		for _, line := range strings.Split(text, "\n") {
			c.readBuf = append(c.readBuf, strings.TrimSuffix(line, "\r"))
		}
	}

	line := c.readBuf[0]
	c.readBuf = c.readBuf[1:]
	return line, nil
}

// WriteLine sends the line as a single text message.
func (c *WebSocketConn) WriteLine(line string) error {
	if c.writeTimeout > 0 {
		if err := c.conn.SetWriteDeadline(deadline(c.writeTimeout)); err != nil {
			return err
		}
	}
	return c.conn.WriteMessage(websocket.TextMessage, []byte(line))
}

// Close sends a close frame (best effort) and closes the connection.
func (c *WebSocketConn) Close() error {
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	_ = c.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
	return c.conn.Close()
}

// RemoteAddr returns the remote address as a string.
func (c *WebSocketConn) RemoteAddr() string {
	return c.conn.RemoteAddr().String()
}
