package console

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/lawnchairsociety/connectfour/internal/engine"
	"github.com/lawnchairsociety/connectfour/internal/protocol"
)

func newGame(t *testing.T) *engine.Game {
	t.Helper()
	g, err := engine.NewGame(4, 4)
	if err != nil {
		t.Fatalf("NewGame failed: %v", err)
	}
	return g
}

func TestUsername_Reprompts(t *testing.T) {
	var out bytes.Buffer
	c := New(strings.NewReader("\nbad name\n  alice  \n"), &out)

	name, err := c.Username(context.Background())
	if err != nil {
		t.Fatalf("Username failed: %v", err)
	}
	if name != "alice" {
		t.Errorf("expected alice, got %q", name)
	}
	if !strings.Contains(out.String(), "cannot be empty") {
		t.Error("expected empty username error")
	}
	if !strings.Contains(out.String(), "cannot contain spaces") {
		t.Error("expected whitespace username error")
	}
}

func TestUsername_InputClosed(t *testing.T) {
	c := New(strings.NewReader(""), &bytes.Buffer{})

	if _, err := c.Username(context.Background()); !errors.Is(err, ErrInputClosed) {
		t.Errorf("expected ErrInputClosed, got %v", err)
	}
}

func TestNextMove(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  protocol.Move
	}{
		{"drop", "DROP 2\n", protocol.Drop(2)},
		{"lower case pop", "pop 1\n", protocol.Pop(1)},
		{"retries garbage", "hello\nDROP\nDROP 0\ndrop 4\n", protocol.Drop(4)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(strings.NewReader(tt.input), &bytes.Buffer{})
			got, err := c.NextMove(context.Background(), newGame(t))
			if err != nil {
				t.Fatalf("NextMove failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("NextMove() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNextMove_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := New(strings.NewReader("DROP 1\n"), &bytes.Buffer{})
	if _, err := c.NextMove(ctx, newGame(t)); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestNextMove_CancelledWhileWaiting(t *testing.T) {
	in, w := io.Pipe()
	defer w.Close()

	c := New(in, &bytes.Buffer{})
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		_, err := c.NextMove(ctx, newGame(t))
		done <- err
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("NextMove still waiting for input after cancel")
	}
}

func TestUsername_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := New(strings.NewReader("alice\n"), &bytes.Buffer{})
	if _, err := c.Username(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestFormatBoard(t *testing.T) {
	g := newGame(t)
	if err := g.Drop(0); err != nil {
		t.Fatal(err)
	}
	if err := g.Drop(3); err != nil {
		t.Fatal(err)
	}

	want := "1  2  3  4  \n" +
		".  .  .  .  \n" +
		".  .  .  .  \n" +
		".  .  .  .  \n" +
		"R  .  .  Y  \n"
	if got := FormatBoard(g); got != want {
		t.Errorf("FormatBoard() =\n%s\nwant\n%s", got, want)
	}
}

func TestMovedAndWinner(t *testing.T) {
	var out bytes.Buffer
	c := New(strings.NewReader(""), &out)
	g := newGame(t)

	c.Moved(engine.Red, protocol.Drop(1), g)
	c.Winner(engine.Yellow)

	if !strings.HasPrefix(out.String(), "RED played DROP 1\n") {
		t.Errorf("unexpected move report: %q", out.String())
	}
	if !strings.HasSuffix(out.String(), "YELLOW WINS\n") {
		t.Errorf("unexpected winner line: %q", out.String())
	}
}
