package quiz

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/quizarena/backend/models"
)

func makeQuestion(id uint, qType, answer string, texts ...string) models.Question {
	options := make(models.OptionList, 0, len(texts))
	for i, t := range texts {
		options = append(options, models.OptionPair{Key: string(OptionAlphabet[i]), Text: t})
	}
	return models.Question{
		ID:      id,
		Type:    qType,
		Content: "question " + answer,
		Options: options,
		Answer:  answer,
	}
}

func makeBank(singles, multiples int) []models.Question {
	var bank []models.Question
	id := uint(1)
	for i := 0; i < singles; i++ {
		bank = append(bank, makeQuestion(id, models.QuestionTypeSingle, "A", "a", "b", "c", "d"))
		id++
	}
	for i := 0; i < multiples; i++ {
		bank = append(bank, makeQuestion(id, models.QuestionTypeMultiple, "AC", "a", "b", "c", "d"))
		id++
	}
	return bank
}

func TestBuildSessionSelectionCounts(t *testing.T) {
	tests := []struct {
		name            string
		singles         int
		multiples       int
		singleCount     int
		multipleCount   int
		wantTotal       int
		wantSingleCount int
	}{
		{"bank smaller than configured", 5, 0, 10, 0, 5, 5},
		{"bank larger than configured", 20, 0, 10, 0, 10, 10},
		{"mixed pools", 8, 6, 5, 3, 8, 5},
		{"multiple pool degrades", 4, 2, 4, 5, 6, 4},
		{"zero multiple count", 3, 7, 3, 0, 3, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rng := rand.New(rand.NewSource(1))
			bank := makeBank(tt.singles, tt.multiples)

			got, err := BuildSession(bank, tt.singleCount, tt.multipleCount, false, rng)
			if err != nil {
				t.Fatalf("BuildSession: %v", err)
			}
			if len(got) != tt.wantTotal {
				t.Fatalf("got %d questions, want %d", len(got), tt.wantTotal)
			}

			singles := 0
			for i, snap := range got {
				if snap.Type == models.QuestionTypeSingle {
					singles++
					if i >= tt.wantSingleCount {
						t.Errorf("single question at position %d, singles must come first", i)
					}
				}
			}
			if singles != tt.wantSingleCount {
				t.Errorf("got %d single questions, want %d", singles, tt.wantSingleCount)
			}
		})
	}
}

func TestBuildSessionDrawsWithoutReplacement(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	bank := makeBank(20, 0)

	got, err := BuildSession(bank, 10, 0, false, rng)
	if err != nil {
		t.Fatalf("BuildSession: %v", err)
	}

	seen := map[uint]bool{}
	for _, snap := range got {
		if seen[snap.OriginalID] {
			t.Fatalf("question %d drawn twice", snap.OriginalID)
		}
		seen[snap.OriginalID] = true
	}
}

func TestBuildSessionEmptyBank(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	if _, err := BuildSession(nil, 10, 5, false, rng); err != ErrEmptyBank {
		t.Fatalf("empty bank: got %v, want ErrEmptyBank", err)
	}
	if _, err := BuildSession(makeBank(3, 0), 0, 0, false, rng); err != ErrEmptyBank {
		t.Fatalf("zero counts: got %v, want ErrEmptyBank", err)
	}
}

func TestShufflePreservesCorrectTexts(t *testing.T) {
	q := makeQuestion(7, models.QuestionTypeMultiple, "AC", "alpha", "beta", "gamma", "delta")

	for seed := int64(0); seed < 50; seed++ {
		rng := rand.New(rand.NewSource(seed))
		got, err := BuildSession([]models.Question{q}, 0, 1, true, rng)
		if err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}
		snap := got[0]

		if snap.OriginalID != 7 {
			t.Fatalf("seed %d: original id lost, got %d", seed, snap.OriginalID)
		}
		if snap.Answer != SortAnswer(snap.Answer) {
			t.Fatalf("seed %d: answer %q not canonical", seed, snap.Answer)
		}

		// Keys must be the canonical prefix with no collisions.
		for i, p := range snap.Options {
			if p.Key != string(OptionAlphabet[i]) {
				t.Fatalf("seed %d: option %d has key %q", seed, i, p.Key)
			}
		}

		// The texts marked correct must be the same set as before the shuffle.
		correctTexts := map[string]bool{}
		for _, key := range strings.Split(snap.Answer, "") {
			correctTexts[snap.Options.Text(key)] = true
		}
		if len(correctTexts) != 2 || !correctTexts["alpha"] || !correctTexts["gamma"] {
			t.Fatalf("seed %d: correct texts drifted: %v (answer %q, options %v)",
				seed, correctTexts, snap.Answer, snap.Options)
		}
	}
}

func TestShuffledAnswerJudgedOnNewKeys(t *testing.T) {
	// A shuffled presentation must be judged against the remapped answer, not
	// the bank's original keys.
	q := makeQuestion(1, models.QuestionTypeMultiple, "AC", "alpha", "beta", "gamma", "delta")

	for seed := int64(0); seed < 20; seed++ {
		rng := rand.New(rand.NewSource(seed))
		got, _ := BuildSession([]models.Question{q}, 0, 1, true, rng)
		snap := got[0]

		submitted := []SubmittedAnswer{{
			QuestionID:    snap.OriginalID,
			Answer:        snap.Answer, // participant picked exactly the correct keys as presented
			Options:       snap.Options,
			CorrectAnswer: snap.Answer,
		}}
		if score := Score([]models.Question{q}, 0, 1, submitted); score != 100 {
			t.Fatalf("seed %d: shuffled correct answer scored %d, want 100", seed, score)
		}
	}
}

func TestSortAnswer(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"A", "A"},
		{"BA", "AB"},
		{"CAB", "ABC"},
		{"ABB", "AB"},
		{"DDCA", "ACD"},
	}
	for _, tt := range tests {
		if got := SortAnswer(tt.in); got != tt.want {
			t.Errorf("SortAnswer(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestValidateOptions(t *testing.T) {
	tests := []struct {
		name    string
		options models.OptionList
		wantErr bool
	}{
		{"four canonical keys", models.OptionList{
			{Key: "A", Text: "a"}, {Key: "B", Text: "b"},
			{Key: "C", Text: "c"}, {Key: "D", Text: "d"},
		}, false},
		{"full alphabet", models.OptionList{
			{Key: "A"}, {Key: "B"}, {Key: "C"}, {Key: "D"},
			{Key: "E"}, {Key: "F"}, {Key: "G"}, {Key: "H"},
		}, false},
		{"nine options", models.OptionList{
			{Key: "A"}, {Key: "B"}, {Key: "C"}, {Key: "D"},
			{Key: "E"}, {Key: "F"}, {Key: "G"}, {Key: "H"}, {Key: "I"},
		}, true},
		{"key outside alphabet", models.OptionList{{Key: "A"}, {Key: "Z"}}, true},
		{"lowercase key", models.OptionList{{Key: "a"}, {Key: "B"}}, true},
		{"multi-letter key", models.OptionList{{Key: "AB"}}, true},
		{"duplicate key", models.OptionList{{Key: "A"}, {Key: "A"}}, true},
		{"empty list", models.OptionList{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOptions(tt.options)
			if tt.wantErr && err != ErrInvalidOptions {
				t.Fatalf("got %v, want ErrInvalidOptions", err)
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestShuffleHandlesFullAlphabet(t *testing.T) {
	q := makeQuestion(1, models.QuestionTypeMultiple, "AH",
		"a", "b", "c", "d", "e", "f", "g", "h")

	for seed := int64(0); seed < 20; seed++ {
		rng := rand.New(rand.NewSource(seed))
		snaps, err := BuildSession([]models.Question{q}, 0, 1, true, rng)
		if err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}
		if len(snaps[0].Options) != 8 {
			t.Fatalf("seed %d: %d options survived shuffle", seed, len(snaps[0].Options))
		}
		if len(snaps[0].Answer) != 2 {
			t.Fatalf("seed %d: answer %q lost a key", seed, snaps[0].Answer)
		}
	}
}
