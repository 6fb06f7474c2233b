// Package file loads a question bank from the line-oriented questions file:
// one question per line as "prompt|opt1|opt2|opt3|correctIndex", blank lines
// skipped.
package file

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"quiznet/internal/domain"
)

// BankLoader reads the questions file at Path on every load.
type BankLoader struct {
	path string
}

func NewBankLoader(path string) *BankLoader {
	return &BankLoader{path: path}
}

// LoadBank parses the file. The bank ID is taken from the request; the file
// holds a single bank. A malformed line fails the whole load with its line
// number.
func (l *BankLoader) LoadBank(_ context.Context, bankID string) (domain.Bank, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return domain.Bank{}, fmt.Errorf("read questions file: %w", err)
	}

	bank := domain.Bank{ID: bankID}
	for i, raw := range strings.Split(string(data), "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		q, err := parseLine(line)
		if err != nil {
			return domain.Bank{}, fmt.Errorf("%s:%d: %w", l.path, i+1, err)
		}
		q.ID = domain.QuestionID(len(bank.Questions))
		bank.Questions = append(bank.Questions, q)
	}
	return bank, nil
}

func parseLine(line string) (domain.Question, error) {
	fields := strings.Split(line, "|")
	if len(fields) < 3 {
		return domain.Question{}, fmt.Errorf("expected prompt|options...|correctIndex, got %d fields", len(fields))
	}
	correct, err := strconv.Atoi(strings.TrimSpace(fields[len(fields)-1]))
	if err != nil {
		return domain.Question{}, fmt.Errorf("correct index: %w", err)
	}
	options := fields[1 : len(fields)-1]
	if correct < 0 || correct >= len(options) {
		return domain.Question{}, fmt.Errorf("correct index %d out of range for %d options", correct, len(options))
	}
	return domain.Question{
		Prompt:  fields[0],
		Options: options,
		Correct: correct,
	}, nil
}
