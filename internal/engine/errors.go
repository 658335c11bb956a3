package engine

// Error is a sentinel error raised by the rules engine.
type Error string

func (e Error) Error() string {
	return string(e)
}

const (
	ErrInvalidDimensions Error = "invalid grid dimensions"
	ErrInvalidColumn     Error = "invalid column"
	ErrInvalidMove       Error = "invalid move"
	ErrGameOver          Error = "game is over"
)
