// Package quiz holds the attempt domain logic: selecting and shuffling the
// question set for one attempt, the answer-collection state machine, and scoring.
package quiz

import (
	"errors"
	"math/rand"
	"sort"
	"strings"

	"github.com/quizarena/backend/models"
)

// OptionAlphabet is the canonical key space for options. A question can carry at
// most len(OptionAlphabet) options, so reassigned keys never collide.
const OptionAlphabet = "ABCDEFGH"

var (
	ErrEmptyBank      = errors.New("no questions available for this competition")
	ErrInvalidOptions = errors.New("option keys must be unique letters from A-H")
)

// ValidateOptions enforces the canonical key space on a question's options: at
// most len(OptionAlphabet) entries, every key one letter from the alphabet, no
// duplicates. The shuffle reassigns keys positionally from the alphabet, so a
// question outside this space could not be remapped.
func ValidateOptions(options models.OptionList) error {
	if len(options) > len(OptionAlphabet) {
		return ErrInvalidOptions
	}
	seen := make(map[string]bool, len(options))
	for _, p := range options {
		if len(p.Key) != 1 || !strings.Contains(OptionAlphabet, p.Key) || seen[p.Key] {
			return ErrInvalidOptions
		}
		seen[p.Key] = true
	}
	return nil
}

// Snapshot is one question exactly as it is presented to a participant. When
// options were randomized, Options and Answer reflect the remapped keys while
// OriginalID still points at the bank row.
type Snapshot struct {
	OriginalID  uint              `json:"id"`
	Type        string            `json:"type"`
	Content     string            `json:"content"`
	Options     models.OptionList `json:"options"`
	Answer      string            `json:"answer"`
	Explanation string            `json:"explanation"`
}

// BuildSession draws the question set for one attempt. From each type pool it
// takes min(count, pool size) questions uniformly without replacement; a pool
// smaller than the configured count degrades silently. The returned order is
// singles first, then multiples. An empty result is an error the caller must
// surface before starting the attempt.
func BuildSession(bank []models.Question, singleCount, multipleCount int, randomizeOptions bool, rng *rand.Rand) ([]Snapshot, error) {
	var singles, multiples []models.Question
	for _, q := range bank {
		if q.Type == models.QuestionTypeMultiple {
			multiples = append(multiples, q)
		} else {
			singles = append(singles, q)
		}
	}

	selected := append(drawQuestions(singles, singleCount, rng), drawQuestions(multiples, multipleCount, rng)...)
	if len(selected) == 0 {
		return nil, ErrEmptyBank
	}

	snapshots := make([]Snapshot, 0, len(selected))
	for _, q := range selected {
		snap := Snapshot{
			OriginalID:  q.ID,
			Type:        q.Type,
			Content:     q.Content,
			Options:     q.Options,
			Answer:      SortAnswer(q.Answer),
			Explanation: q.Explanation,
		}
		if randomizeOptions {
			snap.Options, snap.Answer = shuffleOptions(q.Options, snap.Answer, rng)
		}
		snapshots = append(snapshots, snap)
	}
	return snapshots, nil
}

func drawQuestions(pool []models.Question, count int, rng *rand.Rand) []models.Question {
	if count <= 0 || len(pool) == 0 {
		return nil
	}
	if count > len(pool) {
		count = len(pool)
	}

	shuffled := make([]models.Question, len(pool))
	copy(shuffled, pool)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled[:count]
}

// shuffleOptions applies a uniform permutation to the option texts, reassigns
// keys in canonical order and recomputes the correct-answer string against the
// new keys. Correctness travels with the texts, so the set of option texts
// marked correct is unchanged.
func shuffleOptions(options models.OptionList, answer string, rng *rand.Rand) (models.OptionList, string) {
	type entry struct {
		text    string
		correct bool
	}

	entries := make([]entry, 0, len(options))
	for _, p := range options {
		entries = append(entries, entry{text: p.Text, correct: strings.Contains(answer, p.Key)})
	}

	// Fisher-Yates
	for i := len(entries) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		entries[i], entries[j] = entries[j], entries[i]
	}

	shuffled := make(models.OptionList, 0, len(entries))
	newAnswer := ""
	for i, e := range entries {
		key := string(OptionAlphabet[i])
		shuffled = append(shuffled, models.OptionPair{Key: key, Text: e.text})
		if e.correct {
			newAnswer += key
		}
	}
	return shuffled, SortAnswer(newAnswer)
}

// SortAnswer canonicalizes an answer string: keys sorted ascending, duplicates
// removed, so "BA" becomes "AB" and "ABB" becomes "AB".
func SortAnswer(answer string) string {
	keys := strings.Split(answer, "")
	sort.Strings(keys)

	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if len(out) == 0 || out[len(out)-1] != k {
			out = append(out, k)
		}
	}
	return strings.Join(out, "")
}
