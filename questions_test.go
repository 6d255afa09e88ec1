package main

import (
	"os"
	"path/filepath"
	"testing"
)

func writeQuestionFile(t *testing.T, contents string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "questions.txt")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write question file: %v", err)
	}
	return path
}

func TestLoadQuestions(t *testing.T) {
	cfg := testConfig()
	cfg.questions = writeQuestionFile(t,
		"What is 2+2?|1|2|3|4|D\n"+
			"broken line without enough fields\n"+
			"Capital of France?|Paris|Lyon|Nice|Lille|a\n")

	bank, err := loadQuestions(cfg)
	if err != nil {
		t.Fatalf("loadQuestions: %v", err)
	}

	if bank.Len() != 2 {
		t.Fatalf("loaded %d questions, want 2", bank.Len())
	}

	first, ok := bank.Next()
	if !ok || first.Number != 1 || first.Answer != "D" {
		t.Errorf("first question = %+v, %t", first, ok)
	}

	// The malformed second line is skipped but still consumes a sequence
	// number, so the next question is number 3.
	second, ok := bank.Next()
	if !ok || second.Number != 3 {
		t.Errorf("second question number = %d, want 3", second.Number)
	}
	if second.Answer != "A" {
		t.Errorf("answer letter not normalized: %q", second.Answer)
	}

	if _, ok := bank.Next(); ok {
		t.Error("bank should be exhausted")
	}
	if bank.Remaining() {
		t.Error("Remaining() should be false after exhaustion")
	}
}

func TestLookup(t *testing.T) {
	cfg := testConfig()
	cfg.questions = writeQuestionFile(t,
		"Q1?|a|b|c|d|A\n"+
			"malformed\n"+
			"Q3?|a|b|c|d|B\n")

	bank, err := loadQuestions(cfg)
	if err != nil {
		t.Fatalf("loadQuestions: %v", err)
	}

	if q, ok := bank.Lookup(3); !ok || q.Text != "Q3?" {
		t.Errorf("Lookup(3) = (%+v, %t)", q, ok)
	}
	if _, ok := bank.Lookup(2); ok {
		t.Error("Lookup(2) should miss: line 2 was malformed")
	}
	if _, ok := bank.Lookup(99); ok {
		t.Error("Lookup(99) should miss")
	}

	// Lookup works for already-served questions too.
	bank.Next()
	if _, ok := bank.Lookup(1); !ok {
		t.Error("Lookup(1) should still hit after serving")
	}
}

func TestLoadQuestionsFallback(t *testing.T) {
	cfg := testConfig()

	// Empty path → built-in set.
	bank, err := loadQuestions(cfg)
	if err != nil {
		t.Fatalf("loadQuestions: %v", err)
	}
	if bank.Len() == 0 {
		t.Error("built-in question set is empty")
	}

	// Unreadable file → built-in set rather than a dead game.
	cfg.questions = filepath.Join(t.TempDir(), "missing.txt")
	bank, err = loadQuestions(cfg)
	if err != nil {
		t.Fatalf("loadQuestions: %v", err)
	}
	if bank.Len() == 0 {
		t.Error("fallback question set is empty")
	}
}
