package protocol

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/lawnchairsociety/connectfour/internal/engine"
)

// Action is the kind of move.
type Action int

const (
	ActionDrop Action = iota + 1
	ActionPop
)

func (a Action) String() string {
	switch a {
	case ActionDrop:
		return cmdDrop
	case ActionPop:
		return cmdPop
	default:
		return "UNKNOWN"
	}
}

// Move is a drop or pop on a 1-based column.
type Move struct {
	Action Action
	Column int
}

// Drop returns a drop move on column col (1-based).
func Drop(col int) Move {
	return Move{Action: ActionDrop, Column: col}
}

// Pop returns a pop move on column col (1-based).
func Pop(col int) Move {
	return Move{Action: ActionPop, Column: col}
}

// String returns the wire form, e.g. "DROP 3".
func (m Move) String() string {
	return m.Action.String() + " " + strconv.Itoa(m.Column)
}

// ErrMalformedMove is returned by ParseMove for lines that are not a move.
var ErrMalformedMove = errors.New("malformed move")

// ParseMove decodes a move line as it appears on the wire: "DROP <n>" or
// "POP <n>", one space, n a positive decimal without sign or leading zeros.
func ParseMove(line string) (Move, error) {
	cmd, arg, ok := strings.Cut(line, " ")
	if !ok {
		return Move{}, fmt.Errorf("%w: %q has no column argument", ErrMalformedMove, line)
	}

	action, err := parseAction(cmd)
	if err != nil {
		return Move{}, err
	}

	if !isDecimal(arg) {
		return Move{}, fmt.Errorf("%w: column %q is not a positive decimal", ErrMalformedMove, arg)
	}
	col, err := strconv.Atoi(arg)
	if err != nil {
		return Move{}, fmt.Errorf("%w: column %q: %v", ErrMalformedMove, arg, err)
	}

	return Move{Action: action, Column: col}, nil
}

// ParseMoveInput decodes a move typed by a person. Case, surrounding
// whitespace and the amount of whitespace between the fields are ignored.
func ParseMoveInput(text string) (Move, error) {
	fields := strings.Fields(strings.ToUpper(text))
	if len(fields) != 2 {
		return Move{}, fmt.Errorf("%w: expected an action and a column", ErrMalformedMove)
	}

	action, err := parseAction(fields[0])
	if err != nil {
		return Move{}, err
	}

	col, err := strconv.Atoi(fields[1])
	if err != nil {
		return Move{}, fmt.Errorf("%w: column %q is not a number", ErrMalformedMove, fields[1])
	}
	if col < 1 {
		return Move{}, fmt.Errorf("%w: column %d is not positive", ErrMalformedMove, col)
	}

	return Move{Action: action, Column: col}, nil
}

func parseAction(cmd string) (Action, error) {
	switch cmd {
	case cmdDrop:
		return ActionDrop, nil
	case cmdPop:
		return ActionPop, nil
	default:
		return 0, fmt.Errorf("%w: unknown command %q", ErrMalformedMove, cmd)
	}
}

// isDecimal reports whether s is a non-empty run of ASCII digits without a
// leading zero.
func isDecimal(s string) bool {
	if s == "" || s[0] == '0' {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Apply plays the move on the game.
func (m Move) Apply(g *engine.Game) error {
	switch m.Action {
	case ActionDrop:
		return g.Drop(m.Column - 1)
	case ActionPop:
		return g.Pop(m.Column - 1)
	default:
		return fmt.Errorf("%w: unknown action %d", engine.ErrInvalidMove, m.Action)
	}
}
