// Package client implements the Connect Four network protocol client: a
// strictly ordered request/response session over a line transport.
//
// Every reply must match one of the literal forms the protocol allows. Any
// other reply closes the session and surfaces a *ProtocolError; a closed
// session never writes to its transport again.
package client

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/lawnchairsociety/connectfour/internal/engine"
	"github.com/lawnchairsociety/connectfour/internal/logger"
	"github.com/lawnchairsociety/connectfour/internal/protocol"
	"github.com/lawnchairsociety/connectfour/internal/transport"
)

// LocalPlayer is the color the client plays. The client always moves first.
const LocalPlayer = engine.Red

// State is a step in the session lifecycle.
type State int

const (
	StateConnected State = iota
	StateLoggedIn
	StateAwaitLocalMove
	StateAwaitLocalAck
	StateAwaitRemoteMove
	StateAwaitRemoteAck
	StateTerminated
)

var stateNames = map[State]string{
	StateConnected:       "connected",
	StateLoggedIn:        "logged_in",
	StateAwaitLocalMove:  "await_local_move",
	StateAwaitLocalAck:   "await_local_ack",
	StateAwaitRemoteMove: "await_remote_move",
	StateAwaitRemoteAck:  "await_remote_ack",
	StateTerminated:      "terminated",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// GameView is the part of the rules engine a session consults when
// classifying outcome lines. *engine.Game satisfies it.
type GameView interface {
	Turn() engine.Player
	Winner() engine.Player
}

// OutcomeKind classifies a polled outcome.
type OutcomeKind int

const (
	OutcomePending OutcomeKind = iota
	OutcomeWinner
)

// Outcome is the result of a successful PollOutcome.
type Outcome struct {
	Kind   OutcomeKind
	Winner engine.Player
}

// Done reports whether the game has ended.
func (o Outcome) Done() bool {
	return o.Kind == OutcomeWinner
}

// Options configures a session.
type Options struct {
	// HelloCommand is the login keyword. Defaults to protocol.DefaultHelloCommand.
	HelloCommand string

	// Trace logs every line sent and received at logger.LevelTrace.
	Trace bool

	// Logger receives session events. Defaults to logger.Logger().
	Logger *slog.Logger

	// Transport is used by Connect to dial the server.
	Transport transport.Options
}

// Session is one connection to the game server. It must be used by a single
// goroutine, except for Interrupt.
type Session struct {
	id           string
	transport    transport.Transport
	username     string
	helloCommand string
	trace        bool
	log          *slog.Logger
	state        State
	closed       bool
}

// Connect dials host:port and returns a session ready for Login.
// No protocol exchange happens here.
func Connect(ctx context.Context, host string, port int, opts Options) (*Session, error) {
	t, err := transport.Dial(ctx, host, port, opts.Transport)
	if err != nil {
		return nil, &ConnectionError{Addr: fmt.Sprintf("%s:%d", host, port), Err: err}
	}
	return NewSession(t, opts), nil
}

// NewSession wraps an established transport.
func NewSession(t transport.Transport, opts Options) *Session {
	hello := opts.HelloCommand
	if hello == "" {
		hello = protocol.DefaultHelloCommand
	}
	log := opts.Logger
	if log == nil {
		log = logger.Logger()
	}

	id := uuid.New().String()
	s := &Session{
		id:           id,
		transport:    t,
		helloCommand: hello,
		trace:        opts.Trace,
		log:          log.With("session", id, "remote", t.RemoteAddr()),
		state:        StateConnected,
	}
	s.log.Debug("Session connected")
	return s
}

// ID returns the session identifier used in logs.
func (s *Session) ID() string { return s.id }

// Username returns the name accepted at login, empty before that.
func (s *Session) Username() string { return s.username }

// State returns the current lifecycle state.
func (s *Session) State() State { return s.state }

// Login sends the hello line and requires the server to welcome the same
// username back verbatim. The username is sent as given; rejecting empty or
// whitespace-bearing names is up to the caller.
func (s *Session) Login(username string) error {
	const op = "login"
	if err := s.expect(op, StateConnected); err != nil {
		return err
	}

	if err := s.writeLine(op, protocol.Hello(s.helloCommand, username)); err != nil {
		return err
	}

	line, err := s.readLine(op)
	if err != nil {
		return err
	}
	if line != protocol.Welcome(username) {
		return s.fail(op, line, "server did not welcome "+username, nil)
	}

	s.username = username
	s.state = StateLoggedIn
	s.log.Info("Logged in", "username", username)
	return nil
}

// StartGame requests an AI game on a columns x rows grid. The grid is checked
// against the engine bounds before anything is sent.
func (s *Session) StartGame(columns, rows int) error {
	const op = "start game"
	if err := s.expect(op, StateLoggedIn); err != nil {
		return err
	}
	if err := engine.ValidateDimensions(columns, rows); err != nil {
		return err
	}

	if err := s.writeLine(op, protocol.AIGame(columns, rows)); err != nil {
		return err
	}

	line, err := s.readLine(op)
	if err != nil {
		return err
	}
	if protocol.ParseResponse(line) != protocol.ResponseReady {
		return s.fail(op, line, "expected READY", nil)
	}

	s.state = StateAwaitLocalMove
	s.log.Info("Game started", "columns", columns, "rows", rows)
	return nil
}

// SendMove writes the local move and flushes it. No reply is read; follow
// with PollOutcome. The move must already have been accepted by the local
// engine.
func (s *Session) SendMove(m protocol.Move) error {
	const op = "send move"
	if err := s.expect(op, StateAwaitLocalMove); err != nil {
		return err
	}

	if err := s.writeLine(op, m.String()); err != nil {
		return err
	}

	s.state = StateAwaitLocalAck
	return nil
}

// PollOutcome reads one status line and checks it against the local game.
// A declared winner must match game.Winner(). An acknowledgement must match
// whose turn it is in game: OKAY while the remote player is to move, READY
// while the local player is to move.
func (s *Session) PollOutcome(game GameView) (Outcome, error) {
	const op = "poll outcome"
	if err := s.expect(op, StateAwaitLocalAck, StateAwaitRemoteAck); err != nil {
		return Outcome{}, err
	}

	line, err := s.readLine(op)
	if err != nil {
		return Outcome{}, err
	}

	resp := protocol.ParseResponse(line)
	switch resp {
	case protocol.ResponseWinnerRed, protocol.ResponseWinnerYellow:
		declared := resp.Winner()
		if local := game.Winner(); local != declared {
			return Outcome{}, s.fail(op, line, fmt.Sprintf("server declared %s but local winner is %s", declared, local), nil)
		}
		s.log.Info("Winner declared", "winner", declared.String())
		s.Close()
		return Outcome{Kind: OutcomeWinner, Winner: declared}, nil

	case protocol.ResponseReady, protocol.ResponseOkay:
		if local := game.Winner(); local != engine.None {
			return Outcome{}, s.fail(op, line, fmt.Sprintf("server continues but local winner is %s", local), nil)
		}
		if want := protocol.AckFor(game.Turn(), LocalPlayer); resp != want {
			return Outcome{}, s.fail(op, line, fmt.Sprintf("expected %s while %s is to move", want, game.Turn()), nil)
		}
		if s.state == StateAwaitLocalAck {
			s.state = StateAwaitRemoteMove
		} else {
			s.state = StateAwaitLocalMove
		}
		return Outcome{Kind: OutcomePending}, nil

	case protocol.ResponseInvalid:
		return Outcome{}, s.fail(op, line, "server rejected a locally validated move", nil)

	default:
		return Outcome{}, s.fail(op, line, "unrecognized outcome", nil)
	}
}

// ReceiveMove reads the remote player's move.
func (s *Session) ReceiveMove() (protocol.Move, error) {
	const op = "receive move"
	if err := s.expect(op, StateAwaitRemoteMove); err != nil {
		return protocol.Move{}, err
	}

	line, err := s.readLine(op)
	if err != nil {
		return protocol.Move{}, err
	}

	m, err := protocol.ParseMove(line)
	if err != nil {
		return protocol.Move{}, s.fail(op, line, "malformed move", err)
	}

	s.state = StateAwaitRemoteAck
	return m, nil
}

// Close tears down the transport. Later calls do nothing. Close errors are
// logged, never returned.
func (s *Session) Close() {
	s.state = StateTerminated
	if s.closed {
		return
	}
	s.closed = true

	if err := s.transport.Close(); err != nil {
		s.log.Debug("Transport close failed", "error", err)
	}
	s.log.Debug("Session closed")
}

// Interrupt closes the transport without touching the session state, so a
// read or write blocked in another goroutine fails and the owner sees a
// ProtocolError. Unlike every other method it may be called from any
// goroutine.
func (s *Session) Interrupt() {
	if err := s.transport.Close(); err != nil {
		s.log.Debug("Transport close on interrupt failed", "error", err)
	}
	s.log.Debug("Session interrupted")
}

// Fail closes the session and returns a ProtocolError for a violation the
// caller detected, such as a remote move the local engine rejects.
func (s *Session) Fail(op, line, reason string, err error) error {
	return s.fail(op, line, reason, err)
}

func (s *Session) fail(op, line, reason string, err error) *ProtocolError {
	s.Close()
	perr := &ProtocolError{Op: op, Line: line, Reason: reason, Err: err}
	s.log.Warn("Protocol violation", "op", op, "reason", reason, "line", line, "error", err)
	return perr
}

func (s *Session) expect(op string, allowed ...State) error {
	if s.state == StateTerminated {
		return ErrSessionClosed
	}
	for _, st := range allowed {
		if s.state == st {
			return nil
		}
	}
	return fmt.Errorf("%w: %s while %s", ErrUnexpectedState, op, s.state)
}

func (s *Session) readLine(op string) (string, error) {
	line, err := s.transport.ReadLine()
	if err != nil {
		return "", s.fail(op, "", "read failed", err)
	}
	if s.trace {
		s.log.Log(context.Background(), logger.LevelTrace, "RCVD", "line", line)
	}
	return line, nil
}

func (s *Session) writeLine(op, line string) error {
	if err := s.transport.WriteLine(line); err != nil {
		return s.fail(op, "", "write failed", err)
	}
	if s.trace {
		s.log.Log(context.Background(), logger.LevelTrace, "SENT", "line", line)
	}
	return nil
}
