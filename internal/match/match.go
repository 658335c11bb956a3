// Package match drives a complete online game: local moves are checked by the
// engine and sent, remote moves are received and checked, and every step is
// followed by an outcome poll until a winner is declared.
package match

import (
	"context"
	"fmt"

	"github.com/lawnchairsociety/connectfour/internal/client"
	"github.com/lawnchairsociety/connectfour/internal/engine"
	"github.com/lawnchairsociety/connectfour/internal/logger"
	"github.com/lawnchairsociety/connectfour/internal/protocol"
)

// Player chooses the local player's next move.
type Player interface {
	NextMove(ctx context.Context, g *engine.Game) (protocol.Move, error)
}

// PlayerFunc adapts a function to Player.
type PlayerFunc func(ctx context.Context, g *engine.Game) (protocol.Move, error)

// NextMove calls f.
func (f PlayerFunc) NextMove(ctx context.Context, g *engine.Game) (protocol.Move, error) {
	return f(ctx, g)
}

// Options holds optional observers.
type Options struct {
	// OnMove is called after a move has been applied to the game.
	OnMove func(by engine.Player, m protocol.Move, g *engine.Game)

	// OnRejected is called when the engine refuses a local move; the local
	// player is asked again.
	OnRejected func(m protocol.Move, err error)
}

// Result summarises a finished game.
type Result struct {
	Winner engine.Player
	Moves  []protocol.Move // every move exchanged, in order
}

// Play runs the game loop on a session that has already started a game.
// The session is closed when Play returns.
//
// Cancelling ctx interrupts a blocked read and Play returns ctx.Err().
func Play(ctx context.Context, s *client.Session, g *engine.Game, local Player, opts Options) (result Result, err error) {
	defer s.Close()

	stop := context.AfterFunc(ctx, s.Interrupt)
	defer stop()
	defer func() {
		if err != nil && ctx.Err() != nil {
			logger.Warning("Game interrupted", "session", s.ID(), "moves", len(result.Moves), "error", err)
			err = ctx.Err()
		}
	}()

	for {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		m, err := nextLocalMove(ctx, g, local, opts)
		if err != nil {
			return result, err
		}
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if err := s.SendMove(m); err != nil {
			return result, err
		}
		result.Moves = append(result.Moves, m)
		notify(opts, client.LocalPlayer, m, g)

		out, err := s.PollOutcome(g)
		if err != nil {
			return result, err
		}
		if out.Done() {
			result.Winner = out.Winner
			return result, nil
		}

		remote, err := s.ReceiveMove()
		if err != nil {
			return result, err
		}
		if err := remote.Apply(g); err != nil {
			return result, s.Fail("play", remote.String(), "remote move rejected by local engine", err)
		}
		result.Moves = append(result.Moves, remote)
		notify(opts, client.LocalPlayer.Opponent(), remote, g)

		out, err = s.PollOutcome(g)
		if err != nil {
			return result, err
		}
		if out.Done() {
			result.Winner = out.Winner
			return result, nil
		}
	}
}

func nextLocalMove(ctx context.Context, g *engine.Game, local Player, opts Options) (protocol.Move, error) {
	for {
		m, err := local.NextMove(ctx, g)
		if err != nil {
			return protocol.Move{}, fmt.Errorf("local move: %w", err)
		}

		if err := m.Apply(g); err != nil {
			logger.Debug("Local move rejected", "move", m.String(), "error", err)
			if opts.OnRejected != nil {
				opts.OnRejected(m, err)
			}
			continue
		}
		return m, nil
	}
}

func notify(opts Options, by engine.Player, m protocol.Move, g *engine.Game) {
	if opts.OnMove != nil {
		opts.OnMove(by, m, g)
	}
}

// FirstLegal returns a Player that always drops into the leftmost column
// that accepts a disc.
func FirstLegal() Player {
	return PlayerFunc(func(ctx context.Context, g *engine.Game) (protocol.Move, error) {
		for col := 1; col <= g.Columns(); col++ {
			probe := g.Clone()
			if err := protocol.Drop(col).Apply(probe); err == nil {
				return protocol.Drop(col), nil
			}
		}
		return protocol.Move{}, engine.ErrInvalidMove
	})
}

// Scripted returns a Player that plays moves in order and fails once they
// run out.
func Scripted(moves ...protocol.Move) Player {
	i := 0
	return PlayerFunc(func(ctx context.Context, g *engine.Game) (protocol.Move, error) {
		if i >= len(moves) {
			return protocol.Move{}, fmt.Errorf("script exhausted after %d moves", len(moves))
		}
		m := moves[i]
		i++
		return m, nil
	})
}
