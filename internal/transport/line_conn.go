package transport

import (
	"bufio"
	"io"
	"net"
	"strings"
	"time"
)

// lineTerminator is appended to every line written to a LineConn.
const lineTerminator = "\r\n"

// LineConn wraps a stream connection for CR+LF delimited text lines.
type LineConn struct {
	conn         net.Conn
	reader       *bufio.Reader
	writer       *bufio.Writer
	readTimeout  time.Duration
	writeTimeout time.Duration
}

// NewLineConn creates a new LineConn from a connection.
func NewLineConn(conn net.Conn, opts Options) *LineConn {
	return &LineConn{
		conn:         conn,
		reader:       bufio.NewReader(conn),
		writer:       bufio.NewWriter(conn),
		readTimeout:  opts.ReadTimeout,
		writeTimeout: opts.WriteTimeout,
	}
}

// ReadLine reads a line from the connection (blocking).
// Both "\n" and "\r\n" terminators are stripped. A final line without a
// terminator is returned before io.EOF. Lines over MaxLineLength fail with
// ErrLineTooLong.
func (c *LineConn) ReadLine() (string, error) {
	if c.readTimeout > 0 {
		if err := c.conn.SetReadDeadline(deadline(c.readTimeout)); err != nil {
			return "", err
		}
	}

	line, err := c.readRaw()
	if err != nil {
		if err == io.EOF && line != "" {
			return strings.TrimRight(line, "\r"), nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// readRaw reads up to and including '\n', holding at most MaxLineLength
// bytes plus the terminator.
func (c *LineConn) readRaw() (string, error) {
	var buf []byte
	for {
		chunk, err := c.reader.ReadSlice('\n')
		if len(buf)+len(chunk) > MaxLineLength+len(lineTerminator) {
			return "", ErrLineTooLong
		}
		buf = append(buf, chunk...)
		if err == bufio.ErrBufferFull {
			continue
		}
		return string(buf), err
	}
}

// WriteLine writes the line and terminator, then flushes immediately.
func (c *LineConn) WriteLine(line string) error {
	if c.writeTimeout > 0 {
		if err := c.conn.SetWriteDeadline(deadline(c.writeTimeout)); err != nil {
			return err
		}
	}

	if _, err := c.writer.WriteString(line + lineTerminator); err != nil {
		return err
	}
	return c.writer.Flush()
}

type halfCloser interface {
	CloseRead() error
	CloseWrite() error
}

// Close shuts the read side, then the write side, then the connection.
// Only the error from the final close is returned.
func (c *LineConn) Close() error {
	if hc, ok := c.conn.(halfCloser); ok {
		_ = hc.CloseRead()
		_ = hc.CloseWrite()
	}
	return c.conn.Close()
}

// RemoteAddr returns the remote address as a string.
func (c *LineConn) RemoteAddr() string {
	return c.conn.RemoteAddr().String()
}
