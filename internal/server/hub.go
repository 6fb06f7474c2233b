// Package server hosts the connection hub for the quiz: a single goroutine
// that owns every live connection, dispatches decoded commands, and serializes
// all broadcasts with the scheduler's timer events.
package server

import (
	"fmt"
	"log"
	"strconv"
	"time"

	"quiznet/internal/domain"
	"quiznet/internal/protocol"
	"quiznet/internal/quiz"
)

const welcomeText = "Welcome to QuizNet! Send JOIN|nickname to enter."

type inboundLine struct {
	client *Client
	line   string
}

// Hub multiplexes all connections over one control goroutine. Registration,
// dispatch, scheduler events, and broadcast fan-out all run on that goroutine,
// so the registry and broadcast ordering need no further synchronization; the
// per-client writer goroutines keep network I/O off the control loop.
type Hub struct {
	bank        domain.Bank
	board       *quiz.Scoreboard
	sched       *quiz.Scheduler
	countdown   time.Duration
	perQuestion time.Duration

	register   chan *Client
	unregister chan *Client
	inbound    chan inboundLine
	done       chan struct{}

	sessions *registry
}

// NewHub wires the hub over a question bank, a scoreboard, and a scheduler.
func NewHub(bank domain.Bank, board *quiz.Scoreboard, sched *quiz.Scheduler, countdown, perQuestion time.Duration) *Hub {
	return &Hub{
		bank:        bank,
		board:       board,
		sched:       sched,
		countdown:   countdown,
		perQuestion: perQuestion,
		register:    make(chan *Client),
		unregister:  make(chan *Client, 16),
		inbound:     make(chan inboundLine, 256),
		done:        make(chan struct{}),
		sessions:    newRegistry(),
	}
}

// Register hands a freshly accepted connection to the hub and starts its
// writer goroutine. The hub replies with the welcome line.
func (h *Hub) Register(c *Client) {
	go c.writeLoop(h)
	select {
	case h.register <- c:
	case <-h.done:
		close(c.send)
	}
}

// Drop reports a dead connection (read EOF, read/write error, or transport
// shutdown). Safe to call more than once for the same client.
func (h *Hub) Drop(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Inbound forwards one decoded line from a connection's read loop. Lines from
// one connection arrive here in receipt order and are dispatched in that
// order. It reports false once the hub has stopped.
func (h *Hub) Inbound(c *Client, line string) bool {
	select {
	case h.inbound <- inboundLine{client: c, line: line}:
		return true
	case <-h.done:
		return false
	}
}

// Done is closed when the hub's control loop has exited.
func (h *Hub) Done() <-chan struct{} {
	return h.done
}

// Run drives the control loop until stop is closed. All live connections are
// torn down on exit.
func (h *Hub) Run(stop <-chan struct{}) {
	defer func() {
		h.sessions.each(func(c *Client) {
			close(c.send)
			c.close()
		})
		close(h.done)
	}()

	for {
		select {
		case c := <-h.register:
			h.sessions.add(c)
			h.send(c, protocol.Info(welcomeText))
			log.Printf("connection %s accepted", c.ID)

		case c := <-h.unregister:
			h.drop(c)

		case in := <-h.inbound:
			h.dispatch(in.client, in.line)

		case ev := <-h.sched.Events():
			h.handleSchedulerEvent(ev)

		case <-stop:
			return
		}
	}
}

// dispatch maps one line to a command. Any panic while handling a message is
// reported to the sender as a server error and the loop carries on.
func (h *Hub) dispatch(c *Client, line string) {
	if !h.sessions.contains(c) {
		return // dropped while the line sat in the queue
	}
	defer func() {
		if r := recover(); r != nil {
			log.Printf("dispatch panic from %s: %v", c.ID, r)
			h.send(c, protocol.Info(fmt.Sprintf("Server error: %v", r)))
		}
	}()

	cmd, err := protocol.Parse(line)
	if err != nil {
		switch err {
		case protocol.ErrInvalidJoin:
			h.send(c, protocol.Info("Invalid JOIN"))
		case protocol.ErrInvalidAnswer:
			h.send(c, protocol.Info("Invalid ANSWER"))
		default:
			h.send(c, protocol.Info("Unknown command"))
		}
		return
	}

	switch cmd := cmd.(type) {
	case protocol.Join:
		h.handleJoin(c, cmd)
	case protocol.Answer:
		h.handleAnswer(c, cmd)
	case protocol.Chat:
		h.handleChat(c, cmd)
	case protocol.Start:
		h.handleStart(c)
	}
}

func (h *Hub) handleJoin(c *Client, cmd protocol.Join) {
	h.sessions.setNickname(c, cmd.Nickname)
	h.board.EnsurePlayer(cmd.Nickname)
	count := h.sessions.joinedCount()
	h.send(c, protocol.Welcome(count))
	h.broadcast(protocol.Info(fmt.Sprintf("%s joined. Players: %d", cmd.Nickname, count)))
}

func (h *Hub) handleAnswer(c *Client, cmd protocol.Answer) {
	nick := h.sessions.nickname(c)
	if nick == "" {
		h.send(c, protocol.Info("You must JOIN first"))
		return
	}
	option, err := strconv.Atoi(cmd.Option)
	if err != nil {
		h.send(c, protocol.Info(fmt.Sprintf("Server error: %v", err)))
		return
	}
	h.board.Submit(domain.AnswerSubmission{
		QuestionID: cmd.QuestionID,
		Nickname:   nick,
		Option:     option,
	})
}

func (h *Hub) handleChat(c *Client, cmd protocol.Chat) {
	nick := h.sessions.nickname(c)
	if nick == "" {
		nick = "Anonymous"
	}
	h.broadcast(protocol.ChatLine(nick, cmd.Text))
}

func (h *Hub) handleStart(c *Client) {
	if err := h.sched.Begin(h.countdown, h.perQuestion); err != nil {
		h.send(c, protocol.Info("Round already in progress"))
		return
	}
	h.broadcast(protocol.Info(fmt.Sprintf("Quiz will start in %d seconds...", int(h.countdown/time.Second))))
}

// handleSchedulerEvent turns timer events into broadcasts. Because events are
// consumed on the control loop, the RESULT and LEADERBOARD for question N
// always land before the QUESTION broadcast for N+1.
func (h *Hub) handleSchedulerEvent(ev quiz.Event) {
	switch ev := ev.(type) {
	case quiz.QuestionStarted:
		h.broadcast(protocol.QuestionLine(ev.Question, ev.LimitSeconds))
	case quiz.QuestionEnded:
		h.broadcast(protocol.Result(ev.QuestionID, h.bank.CorrectOption(ev.QuestionID)))
		h.broadcast(protocol.Leaderboard(h.board.Snapshot()))
	case quiz.RoundFinished:
		h.broadcast(protocol.End())
	}
}

// send unicasts one line; a full queue disconnects the client.
func (h *Hub) send(c *Client, line string) {
	if !c.enqueue(line) {
		h.drop(c)
	}
}

// broadcast enqueues one line to every live connection. A failed enqueue
// drops that connection without interrupting the sweep.
func (h *Hub) broadcast(line string) {
	var dead []*Client
	h.sessions.each(func(c *Client) {
		if !c.enqueue(line) {
			dead = append(dead, c)
		}
	})
	for _, c := range dead {
		h.drop(c)
	}
}

// drop removes a connection, cleans up its session and score entry, and
// announces the departure. Runs on the control loop only.
func (h *Hub) drop(c *Client) {
	if !h.sessions.contains(c) {
		return
	}
	nick := h.sessions.remove(c)
	close(c.send)
	c.close()
	log.Printf("connection %s closed", c.ID)
	if nick != "" {
		h.board.RemovePlayer(nick)
		h.broadcast(protocol.Info(fmt.Sprintf("%s disconnected", nick)))
	}
}
