// Package testpeer runs a scripted game server on a local TCP port so client
// code can be exercised over a real socket.
package testpeer

import (
	"bufio"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"
)

type stepKind int

const (
	stepExpect stepKind = iota
	stepSend
	stepHangUp
)

// Step is one action of the peer script.
type Step struct {
	kind  stepKind
	lines []string
}

// Expect waits for the client to send exactly line.
func Expect(line string) Step {
	return Step{kind: stepExpect, lines: []string{line}}
}

// Send writes lines to the client, each terminated by CR+LF.
func Send(lines ...string) Step {
	return Step{kind: stepSend, lines: lines}
}

// HangUp closes the connection immediately.
func HangUp() Step {
	return Step{kind: stepHangUp}
}

// Peer accepts a single client connection and plays its script.
type Peer struct {
	ln       net.Listener
	script   []Step
	mu       sync.Mutex
	received []string
	err      error
	done     chan struct{}
}

// Start listens on a random loopback port and serves the script in the
// background.
func Start(script ...Step) (*Peer, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, fmt.Errorf("failed to listen: %w", err)
	}

	p := &Peer{
		ln:     ln,
		script: script,
		done:   make(chan struct{}),
	}
	go p.serve()
	return p, nil
}

// Host returns the listening host.
func (p *Peer) Host() string {
	return p.ln.Addr().(*net.TCPAddr).IP.String()
}

// Port returns the listening port.
func (p *Peer) Port() int {
	return p.ln.Addr().(*net.TCPAddr).Port
}

func (p *Peer) serve() {
	defer close(p.done)

	conn, err := p.ln.Accept()
	if err != nil {
		p.setErr(fmt.Errorf("accept: %w", err))
		return
	}
	defer conn.Close()

	reader := bufio.NewReader(conn)
	writer := bufio.NewWriter(conn)

	for i, step := range p.script {
		switch step.kind {
		case stepExpect:
			line, err := p.readLine(reader)
			if err != nil {
				p.setErr(fmt.Errorf("step %d: expected %q, read failed: %w", i, step.lines[0], err))
				return
			}
			if line != step.lines[0] {
				p.setErr(fmt.Errorf("step %d: expected %q, got %q", i, step.lines[0], line))
				return
			}

		case stepSend:
			for _, line := range step.lines {
				if _, err := writer.WriteString(line + "\r\n"); err != nil {
					p.setErr(fmt.Errorf("step %d: write %q: %w", i, line, err))
					return
				}
			}
			if err := writer.Flush(); err != nil {
				p.setErr(fmt.Errorf("step %d: flush: %w", i, err))
				return
			}

		case stepHangUp:
			return
		}
	}

	// Script finished: keep recording until the client hangs up so tests can
	// assert nothing else was sent.
	for {
		if _, err := p.readLine(reader); err != nil {
			return
		}
	}
}

func (p *Peer) readLine(reader *bufio.Reader) (string, error) {
	raw, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	line := strings.TrimRight(raw, "\r\n")

	p.mu.Lock()
	p.received = append(p.received, line)
	p.mu.Unlock()

	return line, nil
}

func (p *Peer) setErr(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err == nil {
		p.err = err
	}
}

// Wait blocks until the client has disconnected or the script failed, and
// returns the first script mismatch.
func (p *Peer) Wait(timeout time.Duration) error {
	select {
	case <-p.done:
	case <-time.After(timeout):
		return fmt.Errorf("peer still running after %v", timeout)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

// Received returns every line the client sent, in order.
func (p *Peer) Received() []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	result := make([]string, len(p.received))
	copy(result, p.received)
	return result
}

// Close stops listening. A connection in progress is left to finish.
func (p *Peer) Close() error {
	return p.ln.Close()
}
