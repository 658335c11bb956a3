package test

import (
	"context"
	"errors"
	"fmt"

	"github.com/lawnchairsociety/connectfour/internal/client"
	"github.com/lawnchairsociety/connectfour/internal/engine"
	"github.com/lawnchairsociety/connectfour/internal/match"
	"github.com/lawnchairsociety/connectfour/internal/protocol"
)

// =============================================================================
// Group 1: Session setup
// =============================================================================

// TestBasicConnection tests that the server accepts a connection
func TestBasicConnection(serverAddr string) TestResult {
	const testName = "Basic Connection"

	logAction(testName, "Connecting to "+serverAddr)
	s, err := connect(serverAddr)
	if err != nil {
		return fail(testName, "Failed to connect: %v", err)
	}
	defer s.Close()

	logResult(testName, s.State() == client.StateConnected, "Session state "+s.State().String())
	return pass(testName, "Connected, session %s", s.ID())
}

// TestLogin tests the HELLO/WELCOME exchange
func TestLogin(serverAddr string) TestResult {
	const testName = "Login"

	s, err := loggedIn(testName, serverAddr)
	if err != nil {
		return fail(testName, "Login failed: %v", err)
	}
	defer s.Close()

	if s.State() != client.StateLoggedIn {
		return fail(testName, "Expected state LoggedIn, got %s", s.State())
	}
	return pass(testName, "Logged in as %s", s.Username())
}

// TestStartGame tests that a standard 7x6 game is accepted
func TestStartGame(serverAddr string) TestResult {
	return startGame("Start Game", serverAddr, 7, 6)
}

// TestStartGameMinimumGrid tests the smallest grid the engine allows
func TestStartGameMinimumGrid(serverAddr string) TestResult {
	return startGame("Start Game Minimum Grid", serverAddr, engine.MinColumns, engine.MinRows)
}

func startGame(testName, serverAddr string, columns, rows int) TestResult {
	s, err := loggedIn(testName, serverAddr)
	if err != nil {
		return fail(testName, "Login failed: %v", err)
	}
	defer s.Close()

	logAction(testName, fmt.Sprintf("Requesting %dx%d game", columns, rows))
	if err := s.StartGame(columns, rows); err != nil {
		return fail(testName, "StartGame failed: %v", err)
	}

	ok := s.State() == client.StateAwaitLocalMove
	logResult(testName, ok, "Session state "+s.State().String())
	if !ok {
		return fail(testName, "Expected AwaitLocalMove, got %s", s.State())
	}
	return pass(testName, "Server is READY for a %dx%d game", columns, rows)
}

// =============================================================================
// Group 2: Local checks
// =============================================================================

// TestInvalidGridRejectedLocally tests that out of range grids never reach
// the server and leave the session usable
func TestInvalidGridRejectedLocally(serverAddr string) TestResult {
	const testName = "Invalid Grid Rejected Locally"

	s, err := loggedIn(testName, serverAddr)
	if err != nil {
		return fail(testName, "Login failed: %v", err)
	}
	defer s.Close()

	logAction(testName, fmt.Sprintf("Requesting %dx%d game", engine.MaxColumns+1, 6))
	err = s.StartGame(engine.MaxColumns+1, 6)
	if !errors.Is(err, engine.ErrInvalidDimensions) {
		return fail(testName, "Expected ErrInvalidDimensions, got %v", err)
	}

	logAction(testName, "Retrying with 7x6")
	if err := s.StartGame(7, 6); err != nil {
		return fail(testName, "Valid StartGame after rejection failed: %v", err)
	}
	return pass(testName, "Grid rejected without traffic, session still usable")
}

// TestOutOfOrderMove tests that a move before the game starts is refused
// locally
func TestOutOfOrderMove(serverAddr string) TestResult {
	const testName = "Out Of Order Move"

	s, err := loggedIn(testName, serverAddr)
	if err != nil {
		return fail(testName, "Login failed: %v", err)
	}
	defer s.Close()

	err = s.SendMove(protocol.Drop(1))
	if !errors.Is(err, client.ErrUnexpectedState) {
		return fail(testName, "Expected ErrUnexpectedState, got %v", err)
	}
	if s.State() != client.StateLoggedIn {
		return fail(testName, "State changed to %s", s.State())
	}
	return pass(testName, "Move refused while %s", s.State())
}

// =============================================================================
// Group 3: Full games
// =============================================================================

// TestFullGame plays a 7x6 game to the end against the server AI
func TestFullGame(serverAddr string) TestResult {
	return fullGame("Full Game", serverAddr, 7, 6)
}

// TestFullGameLargeGrid plays on the largest grid the engine allows
func TestFullGameLargeGrid(serverAddr string) TestResult {
	return fullGame("Full Game Large Grid", serverAddr, engine.MaxColumns, engine.MaxRows)
}

func fullGame(testName, serverAddr string, columns, rows int) TestResult {
	s, err := loggedIn(testName, serverAddr)
	if err != nil {
		return fail(testName, "Login failed: %v", err)
	}
	defer s.Close()

	if err := s.StartGame(columns, rows); err != nil {
		return fail(testName, "StartGame failed: %v", err)
	}

	g, err := engine.NewGame(columns, rows)
	if err != nil {
		return fail(testName, "NewGame failed: %v", err)
	}

	result, err := match.Play(context.Background(), s, g, match.FirstLegal(), match.Options{
		OnMove: func(by engine.Player, m protocol.Move, _ *engine.Game) {
			logAction(testName, fmt.Sprintf("%s played %s", by, m))
		},
	})
	if err != nil {
		return fail(testName, "Game aborted after %d moves: %v", len(result.Moves), err)
	}

	ok := result.Winner == g.Winner()
	logResult(testName, ok, "Winner "+result.Winner.String())
	if !ok {
		return fail(testName, "Server winner %s, local winner %s", result.Winner, g.Winner())
	}
	if s.State() != client.StateTerminated {
		return fail(testName, "Expected Terminated after the winner, got %s", s.State())
	}
	return pass(testName, "%s won after %d moves", result.Winner, len(result.Moves))
}
