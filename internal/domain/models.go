package domain

import "fmt"

// Question is one multiple-choice trivia question, immutable once loaded.
type Question struct {
	ID      string   `json:"id"`
	Prompt  string   `json:"prompt"`
	Options []string `json:"options"`
	Correct int      `json:"correct"` // index into Options
}

// Bank is the ordered question sequence for one game.
type Bank struct {
	ID        string     `json:"id"`
	Questions []Question `json:"questions"`
}

// QuestionID renders the wire identifier for the question at ordinal i.
func QuestionID(i int) string {
	return fmt.Sprintf("Q%d", i)
}

// ByID returns the question with the given wire identifier.
func (b Bank) ByID(qid string) (Question, bool) {
	for _, q := range b.Questions {
		if q.ID == qid {
			return q, true
		}
	}
	return Question{}, false
}

// CorrectOption returns the correct option index for a question id, or -1 if
// the id is unknown or malformed.
func (b Bank) CorrectOption(qid string) int {
	q, ok := b.ByID(qid)
	if !ok {
		return -1
	}
	return q.Correct
}

// ScoreEntry is one row of the leaderboard snapshot.
type ScoreEntry struct {
	Nickname string
	Score    int
}

// AnswerSubmission models the scoring signal from clients.
type AnswerSubmission struct {
	QuestionID string
	Nickname   string
	Option     int
}
