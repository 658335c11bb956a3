package engine

import "fmt"

// Player identifies the owner of a disc, or the absence of one.
type Player int

const (
	None   Player = 0
	Red    Player = 1
	Yellow Player = 2
)

// Grid bounds accepted by NewGame.
const (
	MinColumns = 4
	MaxColumns = 20
	MinRows    = 4
	MaxRows    = 20
)

// ToWin is the number of consecutive discs needed to win.
const ToWin = 4

// String returns the color name of the player.
func (p Player) String() string {
	switch p {
	case Red:
		return "RED"
	case Yellow:
		return "YELLOW"
	default:
		return "NONE"
	}
}

// Opponent returns the other player. None has no opponent.
func (p Player) Opponent() Player {
	switch p {
	case Red:
		return Yellow
	case Yellow:
		return Red
	default:
		return None
	}
}

// Game holds the board and whose turn it is.
// board[col][row], row 0 is the top of the grid.
type Game struct {
	board [][]Player
	turn  Player
}

// ValidateDimensions reports whether a grid of the given size may be played.
func ValidateDimensions(columns, rows int) error {
	if columns < MinColumns || columns > MaxColumns {
		return fmt.Errorf("%w: columns must be between %d and %d, got %d", ErrInvalidDimensions, MinColumns, MaxColumns, columns)
	}
	if rows < MinRows || rows > MaxRows {
		return fmt.Errorf("%w: rows must be between %d and %d, got %d", ErrInvalidDimensions, MinRows, MaxRows, rows)
	}
	return nil
}

// NewGame creates an empty grid with Red to move.
func NewGame(columns, rows int) (*Game, error) {
	if err := ValidateDimensions(columns, rows); err != nil {
		return nil, err
	}

	board := make([][]Player, columns)
	for c := range board {
		board[c] = make([]Player, rows)
	}

	return &Game{board: board, turn: Red}, nil
}

// Columns returns the number of columns in the grid.
func (g *Game) Columns() int {
	return len(g.board)
}

// Rows returns the number of rows in the grid.
func (g *Game) Rows() int {
	return len(g.board[0])
}

// Turn returns the player expected to move next.
func (g *Game) Turn() Player {
	return g.turn
}

// Cell returns the disc at the given 0-based column and row.
func (g *Game) Cell(col, row int) Player {
	return g.board[col][row]
}

// Clone returns a deep copy of the game.
func (g *Game) Clone() *Game {
	board := make([][]Player, len(g.board))
	for c := range g.board {
		board[c] = make([]Player, len(g.board[c]))
		copy(board[c], g.board[c])
	}
	return &Game{board: board, turn: g.turn}
}

// Drop places the current player's disc in the lowest empty cell of col (0-based).
func (g *Game) Drop(col int) error {
	if err := g.checkMove(col); err != nil {
		return err
	}

	for row := g.Rows() - 1; row >= 0; row-- {
		if g.board[col][row] == None {
			g.board[col][row] = g.turn
			g.turn = g.turn.Opponent()
			return nil
		}
	}

	return fmt.Errorf("%w: column %d is full", ErrInvalidMove, col+1)
}

// Pop removes the current player's disc from the bottom of col (0-based)
// and shifts the rest of the column down.
func (g *Game) Pop(col int) error {
	if err := g.checkMove(col); err != nil {
		return err
	}

	bottom := g.Rows() - 1
	if g.board[col][bottom] != g.turn {
		return fmt.Errorf("%w: bottom of column %d does not belong to %s", ErrInvalidMove, col+1, g.turn)
	}

	for row := bottom; row > 0; row-- {
		g.board[col][row] = g.board[col][row-1]
	}
	g.board[col][0] = None
	g.turn = g.turn.Opponent()

	return nil
}

func (g *Game) checkMove(col int) error {
	if col < 0 || col >= g.Columns() {
		return fmt.Errorf("%w: column %d outside 1-%d", ErrInvalidColumn, col+1, g.Columns())
	}
	if g.Winner() != None {
		return ErrGameOver
	}
	return nil
}

// Winner returns the player with four in a row, or None.
// A pop can leave both players with a winning line; the player who just
// moved is the winner in that case.
func (g *Game) Winner() Player {
	winner := None
	for col := 0; col < g.Columns(); col++ {
		for row := 0; row < g.Rows(); row++ {
			p := g.board[col][row]
			if p == None || !g.winningLineAt(col, row) {
				continue
			}
			if winner == None {
				winner = p
			} else if winner != p {
				return g.turn.Opponent()
			}
		}
	}
	return winner
}

var directions = [][2]int{{1, 0}, {0, 1}, {1, 1}, {1, -1}}

func (g *Game) winningLineAt(col, row int) bool {
	for _, d := range directions {
		if g.countInDirection(col, row, d[0], d[1]) >= ToWin {
			return true
		}
	}
	return false
}

func (g *Game) countInDirection(col, row, deltaCol, deltaRow int) int {
	player := g.board[col][row]
	count := 0
	c, r := col, row
	for c >= 0 && c < g.Columns() && r >= 0 && r < g.Rows() && g.board[c][r] == player {
		count++
		c += deltaCol
		r += deltaRow
	}
	return count
}
