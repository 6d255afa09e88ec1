package main

import (
	"bufio"
	"os"
	"strings"
)

// Question is one immutable trivia question. Options are indexed by the
// letters A through D; Answer holds the correct letter.
type Question struct {
	Number  int
	Text    string
	Options []string
	Answer  string
}

// QuestionBank serves questions in order, exactly once each, and answers
// lookups by sequence number for answer validation. It is owned by the
// game loop and is not safe for concurrent use.
type QuestionBank struct {
	questions []Question
	next      int
}

// Format, one question per line:
//
//	question text|option a|option b|option c|option d|correct letter
//
// Lines that do not split into exactly six fields are skipped, but still
// consume a sequence number, so the numbering of a partially-broken file
// stays stable.
func loadQuestions(cfg *Config) (*QuestionBank, error) {
	if cfg.questions == "" {
		return defaultQuestions(), nil
	}

	file, err := os.Open(cfg.questions)
	if err != nil {
		logf(cfg, "GAME: Failed to open question file %q, using built-in set: %v", cfg.questions, err)
		return defaultQuestions(), nil
	}
	defer file.Close()

	bank := &QuestionBank{}

	number := 0
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		number++

		parts := strings.Split(scanner.Text(), "|")
		if len(parts) != 6 {
			logf(cfg, "GAME: Skipping malformed question on line %d of %s", number, cfg.questions)
			continue
		}

		bank.questions = append(bank.questions, Question{
			Number:  number,
			Text:    parts[0],
			Options: parts[1:5],
			Answer:  strings.ToUpper(strings.TrimSpace(parts[5])),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return bank, nil
}

func defaultQuestions() *QuestionBank {
	return &QuestionBank{
		questions: []Question{
			{
				Number:  1,
				Text:    "Who holds the single-game points record?",
				Options: []string{"Michael Jordan", "Kobe Bryant", "Wilt Chamberlain", "LeBron James"},
				Answer:  "C",
			},
			{
				Number:  2,
				Text:    "Which planet is closest to the sun?",
				Options: []string{"Venus", "Mercury", "Mars", "Earth"},
				Answer:  "B",
			},
			{
				Number:  3,
				Text:    "What is the largest ocean on Earth?",
				Options: []string{"Atlantic", "Indian", "Arctic", "Pacific"},
				Answer:  "D",
			},
		},
	}
}

// Next returns the next unserved question. The second return is false once
// the bank is exhausted; the bank cannot be rewound.
func (b *QuestionBank) Next() (Question, bool) {
	if b.next >= len(b.questions) {
		return Question{}, false
	}
	q := b.questions[b.next]
	b.next++
	return q, true
}

// Lookup finds a question by sequence number, regardless of whether it has
// been served. The second return is false for numbers the bank never held,
// including those of skipped malformed lines.
func (b *QuestionBank) Lookup(number int) (Question, bool) {
	for _, q := range b.questions {
		if q.Number == number {
			return q, true
		}
	}
	return Question{}, false
}

// Remaining reports whether any questions are still unserved.
func (b *QuestionBank) Remaining() bool {
	return b.next < len(b.questions)
}

// Len returns the total number of questions loaded.
func (b *QuestionBank) Len() int {
	return len(b.questions)
}
