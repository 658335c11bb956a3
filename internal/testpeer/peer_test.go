package testpeer

import (
	"bufio"
	"net"
	"strconv"
	"strings"
	"testing"
	"time"
)

func dial(t *testing.T, p *Peer) net.Conn {
	t.Helper()
	conn, err := net.Dial("tcp", net.JoinHostPort(p.Host(), strconv.Itoa(p.Port())))
	if err != nil {
		t.Fatalf("Failed to connect: %v", err)
	}
	return conn
}

func TestPeer_PlaysScript(t *testing.T) {
	p, err := Start(Expect("HELLO bob"), Send("WELCOME bob"))
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer p.Close()

	conn := dial(t, p)
	conn.Write([]byte("HELLO bob\r\n"))

	line, err := bufio.NewReader(conn).ReadString('\n')
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if line != "WELCOME bob\r\n" {
		t.Errorf("expected CRLF terminated welcome, got %q", line)
	}

	conn.Write([]byte("EXTRA\n"))
	conn.Close()

	if err := p.Wait(time.Second); err != nil {
		t.Errorf("unexpected script error: %v", err)
	}
	got := strings.Join(p.Received(), "|")
	if got != "HELLO bob|EXTRA" {
		t.Errorf("unexpected received lines %q", got)
	}
}

func TestPeer_Mismatch(t *testing.T) {
	p, err := Start(Expect("HELLO bob"))
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer p.Close()

	conn := dial(t, p)
	defer conn.Close()
	conn.Write([]byte("HELLO alice\r\n"))

	if err := p.Wait(time.Second); err == nil {
		t.Error("expected mismatch error")
	}
}

func TestPeer_HangUp(t *testing.T) {
	p, err := Start(HangUp())
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer p.Close()

	conn := dial(t, p)
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(time.Second))
	if _, err := bufio.NewReader(conn).ReadString('\n'); err == nil {
		t.Error("expected read to fail after hang up")
	}
	if err := p.Wait(time.Second); err != nil {
		t.Errorf("hang up is not a script error: %v", err)
	}
}
