// Package console reads moves from a terminal and prints the board.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"unicode"

	"github.com/lawnchairsociety/connectfour/internal/engine"
	"github.com/lawnchairsociety/connectfour/internal/protocol"
)

// ErrInputClosed is returned when the input stream ends before a valid
// answer was read.
var ErrInputClosed = errors.New("input closed")

// Console is a prompt on an input stream paired with an output stream.
type Console struct {
	in    *bufio.Scanner
	out   io.Writer
	lines chan scanned
	once  sync.Once
}

type scanned struct {
	text string
	err  error
}

// New creates a console reading from in and writing to out.
func New(in io.Reader, out io.Writer) *Console {
	return &Console{in: bufio.NewScanner(in), out: out}
}

// scan feeds lines from the input to c.lines until the input ends. It runs
// in its own goroutine so a prompt can give up on a cancelled context while
// the read is still blocked.
func (c *Console) scan() {
	for c.in.Scan() {
		c.lines <- scanned{text: c.in.Text()}
	}
	err := c.in.Err()
	if err == nil {
		err = ErrInputClosed
	}
	c.lines <- scanned{err: err}
	close(c.lines)
}

func (c *Console) prompt(ctx context.Context, text string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	c.once.Do(func() {
		c.lines = make(chan scanned)
		go c.scan()
	})

	fmt.Fprint(c.out, text)
	select {
	case <-ctx.Done():
		fmt.Fprintln(c.out)
		return "", ctx.Err()
	case line, ok := <-c.lines:
		if !ok {
			return "", ErrInputClosed
		}
		if line.err != nil {
			return "", line.err
		}
		return strings.TrimSpace(line.text), nil
	}
}

// Username asks until a non-empty name without whitespace is entered.
func (c *Console) Username(ctx context.Context) (string, error) {
	for {
		name, err := c.prompt(ctx, "Enter username: ")
		if err != nil {
			return "", err
		}
		switch {
		case name == "":
			fmt.Fprintln(c.out, "Username cannot be empty.")
		case strings.ContainsFunc(name, unicode.IsSpace):
			fmt.Fprintln(c.out, "Username cannot contain spaces or tabs.")
		default:
			return name, nil
		}
	}
}

// NextMove asks for "DROP n" or "POP n" until a well formed move is entered.
// Whether the move is legal is left to the caller. It returns ctx.Err() as
// soon as ctx is cancelled, even while waiting for input.
func (c *Console) NextMove(ctx context.Context, g *engine.Game) (protocol.Move, error) {
	for {
		line, err := c.prompt(ctx, fmt.Sprintf("%s, enter DROP or POP and a column (1-%d): ", g.Turn(), g.Columns()))
		if err != nil {
			return protocol.Move{}, err
		}

		m, err := protocol.ParseMoveInput(line)
		if err != nil {
			fmt.Fprintln(c.out, "Invalid input, try again.")
			continue
		}
		return m, nil
	}
}

// Banner prints the opening lines of an online game.
func (c *Console) Banner() {
	fmt.Fprintln(c.out, "CONNECT FOUR VS AI")
	fmt.Fprintln(c.out, "YOU = RED | AI = YELLOW")
}

// Rejected reports a move the engine refused.
func (c *Console) Rejected(m protocol.Move, err error) {
	fmt.Fprintf(c.out, "%s is not allowed: %v\n", m, err)
}

// Moved reports an applied move and shows the board.
func (c *Console) Moved(by engine.Player, m protocol.Move, g *engine.Game) {
	fmt.Fprintf(c.out, "%s played %s\n", by, m)
	c.PrintBoard(g)
}

// Winner announces the end of the game.
func (c *Console) Winner(p engine.Player) {
	fmt.Fprintf(c.out, "%s WINS\n", p)
}

// PrintBoard writes the column numbers followed by one line per row,
// using R, Y and . for the cells.
func (c *Console) PrintBoard(g *engine.Game) {
	fmt.Fprint(c.out, FormatBoard(g))
}

// FormatBoard renders the board as PrintBoard shows it.
func FormatBoard(g *engine.Game) string {
	var b strings.Builder
	for col := 1; col <= g.Columns(); col++ {
		fmt.Fprintf(&b, "%-3d", col)
	}
	b.WriteString("\n")

	for row := 0; row < g.Rows(); row++ {
		for col := 0; col < g.Columns(); col++ {
			b.WriteString(cellSymbol(g.Cell(col, row)))
			b.WriteString("  ")
		}
		b.WriteString("\n")
	}
	return b.String()
}

func cellSymbol(p engine.Player) string {
	switch p {
	case engine.Red:
		return "R"
	case engine.Yellow:
		return "Y"
	default:
		return "."
	}
}
