package protocol

import (
	"errors"
	"testing"

	"quiznet/internal/domain"
)

func TestParseJoin(t *testing.T) {
	cmd, err := Parse("JOIN|  alice ")
	if err != nil {
		t.Fatalf("parse join: %v", err)
	}
	join, ok := cmd.(Join)
	if !ok || join.Nickname != "alice" {
		t.Fatalf("expected trimmed nickname alice, got %+v", cmd)
	}

	if _, err := Parse("JOIN"); !errors.Is(err, ErrInvalidJoin) {
		t.Fatalf("expected invalid JOIN, got %v", err)
	}

	// Empty nickname after the separator is accepted; no validation beyond trim.
	cmd, err = Parse("JOIN|")
	if err != nil {
		t.Fatalf("parse empty join: %v", err)
	}
	if join := cmd.(Join); join.Nickname != "" {
		t.Fatalf("expected empty nickname, got %q", join.Nickname)
	}
}

func TestParseAnswer(t *testing.T) {
	cmd, err := Parse("ANSWER|Q0|2")
	if err != nil {
		t.Fatalf("parse answer: %v", err)
	}
	ans := cmd.(Answer)
	if ans.QuestionID != "Q0" || ans.Option != "2" {
		t.Fatalf("unexpected answer %+v", ans)
	}

	if _, err := Parse("ANSWER|Q0"); !errors.Is(err, ErrInvalidAnswer) {
		t.Fatalf("expected invalid ANSWER for missing option, got %v", err)
	}
	if _, err := Parse("ANSWER"); !errors.Is(err, ErrInvalidAnswer) {
		t.Fatalf("expected invalid ANSWER, got %v", err)
	}

	// Option stays raw text; integer parsing is the dispatcher's job.
	cmd, err = Parse("ANSWER|Q1|abc")
	if err != nil {
		t.Fatalf("parse non-numeric answer: %v", err)
	}
	if cmd.(Answer).Option != "abc" {
		t.Fatalf("expected raw option, got %+v", cmd)
	}
}

func TestParseChatKeepsSeparators(t *testing.T) {
	cmd, err := Parse("CHAT|hello|world|!")
	if err != nil {
		t.Fatalf("parse chat: %v", err)
	}
	if chat := cmd.(Chat); chat.Text != "hello|world|!" {
		t.Fatalf("expected full text after first separator, got %q", chat.Text)
	}
}

func TestParseStart(t *testing.T) {
	for _, line := range []string{"START", "START|"} {
		cmd, err := Parse(line)
		if err != nil {
			t.Fatalf("parse %q: %v", line, err)
		}
		if _, ok := cmd.(Start); !ok {
			t.Fatalf("expected Start for %q, got %+v", line, cmd)
		}
	}
}

func TestParseUnknown(t *testing.T) {
	if _, err := Parse("FROBNICATE|x"); !errors.Is(err, ErrUnknownCommand) {
		t.Fatalf("expected unknown command, got %v", err)
	}
}

func TestQuestionLineIsOptionCountDriven(t *testing.T) {
	q := domain.Question{ID: "Q0", Prompt: "2+2?", Options: []string{"3", "4", "5"}, Correct: 1}
	got := QuestionLine(q, 15)
	want := "QUESTION|Q0|2+2?|3|4|5|15"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}

	q.Options = []string{"yes", "no"}
	if got := QuestionLine(q, 5); got != "QUESTION|Q0|2+2?|yes|no|5" {
		t.Fatalf("unexpected two-option line %q", got)
	}
}

func TestLeaderboardFormat(t *testing.T) {
	got := Leaderboard([]domain.ScoreEntry{{Nickname: "alice", Score: 2}, {Nickname: "bob", Score: 0}})
	if got != "LEADERBOARD|alice,2;bob,0;" {
		t.Fatalf("unexpected leaderboard %q", got)
	}
	if got := Leaderboard(nil); got != "LEADERBOARD|" {
		t.Fatalf("unexpected empty leaderboard %q", got)
	}
}

func TestServerLineBuilders(t *testing.T) {
	if got := Welcome(3); got != "WELCOME|session|3" {
		t.Fatalf("welcome: %q", got)
	}
	if got := Result("Q2", 1); got != "RESULT|Q2|1" {
		t.Fatalf("result: %q", got)
	}
	if got := ChatLine("bob", "hi|there"); got != "CHAT|bob|hi|there" {
		t.Fatalf("chat: %q", got)
	}
	if got := End(); got != "END|done" {
		t.Fatalf("end: %q", got)
	}
	if got := Info("Unknown command"); got != "INFO|Unknown command" {
		t.Fatalf("info: %q", got)
	}
}
