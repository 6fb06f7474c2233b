// Package protocol implements the pipe-delimited, newline-terminated text
// protocol spoken between the quiz server and its clients.
package protocol

import (
	"errors"
	"fmt"
	"strings"

	"quiznet/internal/domain"
)

// Sep separates fields within one protocol line.
const Sep = "|"

var (
	// ErrUnknownCommand is returned for verbs outside the command set.
	ErrUnknownCommand = errors.New("unknown command")
	// ErrInvalidJoin is returned for a JOIN with missing fields.
	ErrInvalidJoin = errors.New("invalid JOIN")
	// ErrInvalidAnswer is returned for an ANSWER with missing fields.
	ErrInvalidAnswer = errors.New("invalid ANSWER")
)

// Command is one decoded client command.
type Command interface{ isCommand() }

// Join registers a nickname for the sending connection.
type Join struct {
	Nickname string
}

// Answer submits an option for a question. The option is kept as raw text;
// integer parsing (and its error reporting) is the dispatcher's concern.
type Answer struct {
	QuestionID string
	Option     string
}

// Chat broadcasts free-form text. The text may itself contain the separator.
type Chat struct {
	Text string
}

// Start asks the server to begin the question round.
type Start struct{}

func (Join) isCommand()   {}
func (Answer) isCommand() {}
func (Chat) isCommand()   {}
func (Start) isCommand()  {}

// Parse decodes one trimmed, non-empty line into a Command.
func Parse(line string) (Command, error) {
	verb, rest, found := strings.Cut(line, Sep)
	switch verb {
	case "JOIN":
		if !found {
			return nil, ErrInvalidJoin
		}
		return Join{Nickname: strings.TrimSpace(rest)}, nil
	case "ANSWER":
		qid, opt, ok := strings.Cut(rest, Sep)
		if !found || !ok {
			return nil, ErrInvalidAnswer
		}
		return Answer{QuestionID: qid, Option: strings.TrimSpace(opt)}, nil
	case "CHAT":
		// Everything after the first separator is the message body.
		return Chat{Text: rest}, nil
	case "START":
		// Some clients send "START|" with a trailing separator; Cut already
		// strips it either way.
		return Start{}, nil
	default:
		return nil, ErrUnknownCommand
	}
}

// Server→client line builders.

// Info formats an informational or error notice.
func Info(text string) string {
	return "INFO" + Sep + text
}

// Welcome acknowledges a JOIN with the current player count.
func Welcome(playerCount int) string {
	return fmt.Sprintf("WELCOME%ssession%s%d", Sep, Sep, playerCount)
}

// QuestionLine formats a question broadcast. The option count is data-driven.
func QuestionLine(q domain.Question, limitSeconds int) string {
	fields := make([]string, 0, len(q.Options)+3)
	fields = append(fields, "QUESTION", q.ID, q.Prompt)
	fields = append(fields, q.Options...)
	fields = append(fields, fmt.Sprintf("%d", limitSeconds))
	return strings.Join(fields, Sep)
}

// Result announces the correct option once a question closes.
func Result(qid string, correct int) string {
	return fmt.Sprintf("RESULT%s%s%s%d", Sep, qid, Sep, correct)
}

// Leaderboard formats the running scoreboard, one "nick,score;" per entry in
// the order given.
func Leaderboard(entries []domain.ScoreEntry) string {
	var sb strings.Builder
	sb.WriteString("LEADERBOARD")
	sb.WriteString(Sep)
	for _, e := range entries {
		fmt.Fprintf(&sb, "%s,%d;", e.Nickname, e.Score)
	}
	return sb.String()
}

// ChatLine formats a chat broadcast tagged with the sender's nickname.
func ChatLine(nickname, text string) string {
	return "CHAT" + Sep + nickname + Sep + text
}

// End is the end-of-quiz completion marker.
func End() string {
	return "END" + Sep + "done"
}
