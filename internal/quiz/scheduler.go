package quiz

import (
	"errors"
	"sync"
	"time"

	"quiznet/internal/domain"
)

// ErrRoundInProgress is returned when Begin is called while a round is
// counting down or running.
var ErrRoundInProgress = errors.New("round already in progress")

// Event is a typed scheduler event delivered over the Events channel. The
// consumer is expected to serialize these with its other broadcasts; events
// for one round are emitted strictly in question order, each QuestionEnded
// before the next QuestionStarted.
type Event interface{ isEvent() }

// QuestionStarted opens a question for answers.
type QuestionStarted struct {
	Question     domain.Question
	LimitSeconds int
}

// QuestionEnded closes a question; results should be broadcast.
type QuestionEnded struct {
	QuestionID string
}

// RoundFinished marks the end of the question sequence.
type RoundFinished struct{}

func (QuestionStarted) isEvent() {}
func (QuestionEnded) isEvent()   {}
func (RoundFinished) isEvent()   {}

type schedulerState int

const (
	stateIdle schedulerState = iota
	stateCountdown
	stateRunning
	stateFinished
)

// Scheduler walks the question sequence on a wall-clock timer. A single
// self-rescheduling timer keeps exactly one timer outstanding regardless of
// how many questions the bank holds.
type Scheduler struct {
	bank   domain.Bank
	events chan Event

	mu    sync.Mutex
	state schedulerState
	index int // current question ordinal, -1 before the first
	limit time.Duration
}

// NewScheduler returns an idle scheduler over the given bank.
func NewScheduler(bank domain.Bank) *Scheduler {
	return &Scheduler{
		bank:   bank,
		events: make(chan Event, 16),
		index:  -1,
	}
}

// Events returns the channel on which scheduler events are delivered.
func (s *Scheduler) Events() <-chan Event {
	return s.events
}

// Begin starts the round after the countdown delay, with the given time limit
// applied uniformly to every question. A Begin while a round is counting down
// or running returns ErrRoundInProgress. A Begin after the round finished
// advances once more and immediately re-emits the completion event, since the
// index is never reset.
func (s *Scheduler) Begin(countdown, perQuestion time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == stateCountdown || s.state == stateRunning {
		return ErrRoundInProgress
	}
	s.state = stateCountdown
	s.limit = perQuestion
	time.AfterFunc(countdown, s.advance)
	return nil
}

// advance moves the cursor to the next question. Past the last question it
// emits RoundFinished and schedules nothing further.
func (s *Scheduler) advance() {
	s.mu.Lock()
	s.index++
	if s.index >= len(s.bank.Questions) {
		s.state = stateFinished
		s.mu.Unlock()
		s.events <- RoundFinished{}
		return
	}
	s.state = stateRunning
	q := s.bank.Questions[s.index]
	limit := s.limit
	s.mu.Unlock()

	s.events <- QuestionStarted{Question: q, LimitSeconds: int(limit / time.Second)}
	time.AfterFunc(limit, func() {
		s.events <- QuestionEnded{QuestionID: q.ID}
		s.advance()
	})
}
