package engine

import (
	"errors"
	"testing"
)

func mustGame(t *testing.T, cols, rows int) *Game {
	t.Helper()
	g, err := NewGame(cols, rows)
	if err != nil {
		t.Fatalf("NewGame(%d, %d) failed: %v", cols, rows, err)
	}
	return g
}

func play(t *testing.T, g *Game, cols ...int) {
	t.Helper()
	for _, c := range cols {
		if err := g.Drop(c); err != nil {
			t.Fatalf("Drop(%d) failed: %v", c, err)
		}
	}
}

func TestValidateDimensions(t *testing.T) {
	tests := []struct {
		name    string
		cols    int
		rows    int
		wantErr bool
	}{
		{"minimum", MinColumns, MinRows, false},
		{"maximum", MaxColumns, MaxRows, false},
		{"standard", 7, 6, false},
		{"too few columns", MinColumns - 1, 6, true},
		{"too many columns", MaxColumns + 1, 6, true},
		{"too few rows", 7, MinRows - 1, true},
		{"too many rows", 7, MaxRows + 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDimensions(tt.cols, tt.rows)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidDimensions) {
					t.Errorf("expected ErrInvalidDimensions, got %v", err)
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestNewGame(t *testing.T) {
	g := mustGame(t, 7, 6)

	if g.Columns() != 7 || g.Rows() != 6 {
		t.Errorf("expected 7x6 grid, got %dx%d", g.Columns(), g.Rows())
	}
	if g.Turn() != Red {
		t.Errorf("expected Red to move first, got %s", g.Turn())
	}
	if g.Winner() != None {
		t.Errorf("expected no winner on empty board, got %s", g.Winner())
	}
}

func TestDrop_StacksAndAlternates(t *testing.T) {
	g := mustGame(t, 7, 6)
	play(t, g, 0, 0)

	if g.Cell(0, 5) != Red {
		t.Errorf("expected Red at bottom of column 1, got %s", g.Cell(0, 5))
	}
	if g.Cell(0, 4) != Yellow {
		t.Errorf("expected Yellow stacked on Red, got %s", g.Cell(0, 4))
	}
	if g.Turn() != Red {
		t.Errorf("expected Red to move after two drops, got %s", g.Turn())
	}
}

func TestDrop_FullColumn(t *testing.T) {
	g := mustGame(t, 4, 4)
	play(t, g, 0, 0, 0, 0)

	if err := g.Drop(0); !errors.Is(err, ErrInvalidMove) {
		t.Errorf("expected ErrInvalidMove on full column, got %v", err)
	}
	if g.Turn() != Red {
		t.Errorf("rejected move should not change turn, got %s", g.Turn())
	}
}

func TestDrop_InvalidColumn(t *testing.T) {
	g := mustGame(t, 7, 6)

	for _, col := range []int{-1, 7} {
		if err := g.Drop(col); !errors.Is(err, ErrInvalidColumn) {
			t.Errorf("Drop(%d): expected ErrInvalidColumn, got %v", col, err)
		}
	}
}

func TestPop(t *testing.T) {
	g := mustGame(t, 7, 6)
	// Red col1, Yellow col1, Red col2, Yellow col3 -> Red to move, bottom of col1 is Red
	play(t, g, 0, 0, 1, 2)

	if err := g.Pop(0); err != nil {
		t.Fatalf("Pop failed: %v", err)
	}
	if g.Cell(0, 5) != Yellow {
		t.Errorf("expected Yellow to shift to the bottom, got %s", g.Cell(0, 5))
	}
	if g.Cell(0, 4) != None {
		t.Errorf("expected empty cell above, got %s", g.Cell(0, 4))
	}
	if g.Turn() != Yellow {
		t.Errorf("expected Yellow to move after pop, got %s", g.Turn())
	}
}

func TestPop_NotOwnDisc(t *testing.T) {
	g := mustGame(t, 7, 6)
	play(t, g, 0)

	// Yellow to move, bottom of column 1 is Red
	if err := g.Pop(0); !errors.Is(err, ErrInvalidMove) {
		t.Errorf("expected ErrInvalidMove, got %v", err)
	}
	// Empty column
	if err := g.Pop(3); !errors.Is(err, ErrInvalidMove) {
		t.Errorf("expected ErrInvalidMove on empty column, got %v", err)
	}
}

func TestWinner_Lines(t *testing.T) {
	tests := []struct {
		name  string
		moves []int
		want  Player
	}{
		{"horizontal red", []int{0, 0, 1, 1, 2, 2, 3}, Red},
		{"vertical red", []int{0, 1, 0, 1, 0, 1, 0}, Red},
		{"vertical yellow", []int{6, 0, 1, 0, 1, 0, 2, 0}, Yellow},
		{"diagonal up-right", []int{0, 1, 1, 2, 2, 3, 2, 3, 3, 6, 3}, Red},
		{"diagonal down-right", []int{3, 2, 2, 1, 1, 0, 1, 0, 0, 6, 0}, Red},
		{"no winner", []int{0, 1, 2, 3}, None},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := mustGame(t, 7, 6)
			play(t, g, tt.moves...)
			if got := g.Winner(); got != tt.want {
				t.Errorf("Winner() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestMoveAfterWin(t *testing.T) {
	g := mustGame(t, 7, 6)
	play(t, g, 0, 1, 0, 1, 0, 1, 0)

	if err := g.Drop(2); !errors.Is(err, ErrGameOver) {
		t.Errorf("expected ErrGameOver, got %v", err)
	}
	if err := g.Pop(0); !errors.Is(err, ErrGameOver) {
		t.Errorf("expected ErrGameOver on pop, got %v", err)
	}
}

func TestWinner_TieBreakFavoursLastMover(t *testing.T) {
	g := mustGame(t, 5, 4)
	// Red owns the bottom row of columns 1-4, Yellow owns column 5 completely.
	g.board = [][]Player{
		{None, None, None, Red},
		{None, None, None, Red},
		{None, None, None, Red},
		{None, None, None, Red},
		{Yellow, Yellow, Yellow, Yellow},
	}

	// Yellow just moved, so Red is on turn: Yellow wins the tie.
	g.turn = Red
	if got := g.Winner(); got != Yellow {
		t.Errorf("expected last mover Yellow to win, got %s", got)
	}

	// Red just moved: Red wins the tie.
	g.turn = Yellow
	if got := g.Winner(); got != Red {
		t.Errorf("expected last mover Red to win, got %s", got)
	}
}

func TestClone(t *testing.T) {
	g := mustGame(t, 7, 6)
	play(t, g, 3)

	c := g.Clone()
	play(t, c, 3)

	if g.Cell(3, 4) != None {
		t.Error("mutating the clone changed the original")
	}
	if c.Turn() == g.Turn() {
		t.Error("clone turn should diverge after a move")
	}
}

func TestPlayerString(t *testing.T) {
	if Red.String() != "RED" || Yellow.String() != "YELLOW" || None.String() != "NONE" {
		t.Errorf("unexpected player names: %s %s %s", Red, Yellow, None)
	}
	if Red.Opponent() != Yellow || Yellow.Opponent() != Red || None.Opponent() != None {
		t.Error("unexpected opponents")
	}
}
