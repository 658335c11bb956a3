// Package protocol defines the line vocabulary spoken between the Connect Four
// client and the game server: commands sent by the client, status tokens and
// moves sent by the server.
package protocol

import (
	"fmt"

	"github.com/lawnchairsociety/connectfour/internal/engine"
)

// DefaultHelloCommand is the login keyword spoken by the reference server.
const DefaultHelloCommand = "I32CFSP_HELLO"

const (
	cmdWelcome = "WELCOME"
	cmdAIGame  = "AI_GAME"
	cmdDrop    = "DROP"
	cmdPop     = "POP"
)

// Hello formats the login request.
func Hello(keyword, username string) string {
	return keyword + " " + username
}

// Welcome formats the login reply the server must echo for username.
func Welcome(username string) string {
	return cmdWelcome + " " + username
}

// AIGame formats the game start request.
func AIGame(columns, rows int) string {
	return fmt.Sprintf("%s %d %d", cmdAIGame, columns, rows)
}

// Response is a status token sent by the server.
type Response int

const (
	ResponseUnknown Response = iota
	ResponseReady
	ResponseOkay
	ResponseInvalid
	ResponseWinnerRed
	ResponseWinnerYellow
)

var responseTokens = map[string]Response{
	"READY":         ResponseReady,
	"OKAY":          ResponseOkay,
	"INVALID":       ResponseInvalid,
	"WINNER_RED":    ResponseWinnerRed,
	"WINNER_YELLOW": ResponseWinnerYellow,
}

// ParseResponse classifies a status line. Matching is exact.
func ParseResponse(line string) Response {
	if r, ok := responseTokens[line]; ok {
		return r
	}
	return ResponseUnknown
}

// String returns the wire token for the response.
func (r Response) String() string {
	for token, resp := range responseTokens {
		if resp == r {
			return token
		}
	}
	return "UNKNOWN"
}

// Winner returns the player announced by a WINNER_* response, or engine.None.
func (r Response) Winner() engine.Player {
	switch r {
	case ResponseWinnerRed:
		return engine.Red
	case ResponseWinnerYellow:
		return engine.Yellow
	default:
		return engine.None
	}
}

// AckFor returns the acknowledgement token expected when onTurn is to move:
// READY once the remote move has been applied and the local player is up,
// OKAY once the local move has been applied and the remote player is up.
func AckFor(onTurn, local engine.Player) Response {
	if onTurn == local {
		return ResponseReady
	}
	return ResponseOkay
}
