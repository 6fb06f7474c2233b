package quiz

import (
	"sort"
	"sync"

	"quiznet/internal/domain"
)

// Scoreboard tallies answer submissions. It accepts at most one submission per
// (question, nickname) pair and is safe for concurrent use from connection
// goroutines and timer events.
type Scoreboard struct {
	mu       sync.Mutex
	scores   map[string]int
	answered map[string]map[string]struct{} // questionID → set of nicknames
}

// NewScoreboard returns an empty scoreboard.
func NewScoreboard() *Scoreboard {
	return &Scoreboard{
		scores:   make(map[string]int),
		answered: make(map[string]map[string]struct{}),
	}
}

// EnsurePlayer creates a zero score entry for the nickname if absent.
func (s *Scoreboard) EnsurePlayer(nickname string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.scores[nickname]; !ok {
		s.scores[nickname] = 0
	}
}

// RemovePlayer drops the nickname's score entry. Answered marks are kept so a
// rejoin under the same nickname cannot double-score a question.
func (s *Scoreboard) RemovePlayer(nickname string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.scores, nickname)
}

// Submit records an answer submission. The first submission per
// (questionID, nickname) pair awards one point regardless of the chosen
// option; later submissions for the same pair are silently dropped.
// It reports whether the submission was accepted.
func (s *Scoreboard) Submit(sub domain.AnswerSubmission) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	marks, ok := s.answered[sub.QuestionID]
	if !ok {
		marks = make(map[string]struct{})
		s.answered[sub.QuestionID] = marks
	}
	if _, dup := marks[sub.Nickname]; dup {
		return false
	}
	marks[sub.Nickname] = struct{}{}
	s.scores[sub.Nickname]++
	return true
}

// Snapshot returns a point-in-time copy of all score entries, highest score
// first with ties broken by nickname.
func (s *Scoreboard) Snapshot() []domain.ScoreEntry {
	s.mu.Lock()
	entries := make([]domain.ScoreEntry, 0, len(s.scores))
	for nick, score := range s.scores {
		entries = append(entries, domain.ScoreEntry{Nickname: nick, Score: score})
	}
	s.mu.Unlock()

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].Nickname < entries[j].Nickname
	})
	return entries
}
