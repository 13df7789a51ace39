package services

import (
	"bytes"
	"testing"

	"github.com/quizarena/backend/database"
	"github.com/quizarena/backend/models"
	"github.com/xuri/excelize/v2"
)

func TestParseDelimited(t *testing.T) {
	text := "type\tcontent\tanswer\tA\tB\tC\tD\texplanation\n" + // header row
		"single\tWhat is 1+1?\tB\tone\ttwo\tthree\tfour\tbasic arithmetic\n" +
		"multiple\tPick the primes\tac\t2\t4\t5\t6\tprimes have two divisors\r\n" +
		"\n" +
		"single\tmissing answer\t\ta\tb\tc\td\n" + // malformed: no answer
		"single\ttoo short\n" + // malformed: too few fields
		"single\tbad key\tE\ta\tb\tc\td\n" // malformed: answer key not among options

	questions := ParseDelimited(text, compID("c1"))

	if len(questions) != 2 {
		t.Fatalf("parsed %d questions, want 2 (malformed rows skipped)", len(questions))
	}

	first := questions[0]
	if first.Type != models.QuestionTypeSingle || first.Content != "What is 1+1?" || first.Answer != "B" {
		t.Fatalf("first question = %+v", first)
	}
	if len(first.Options) != 4 || first.Options.Text("B") != "two" {
		t.Fatalf("first question options = %+v", first.Options)
	}

	second := questions[1]
	if second.Type != models.QuestionTypeMultiple {
		t.Fatalf("second question type = %q, want multiple", second.Type)
	}
	if second.Answer != "AC" {
		t.Fatalf("answer = %q, want canonicalized %q", second.Answer, "AC")
	}
	if second.Explanation != "primes have two divisors" {
		t.Fatalf("explanation = %q", second.Explanation)
	}
}

func TestParseSpreadsheet(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]interface{}{
		{"type", "content", "answer", "A", "B", "C", "D", "explanation"},
		{"single", "Capital of France?", "a", "Paris", "Rome", "Berlin", "Oslo", "geography"},
		{"multiple", "Even numbers?", "BD", "1", "2", "3", "4", ""},
		{"single", "", "A", "x", "y", "z", "w", ""}, // malformed: no content
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatal(err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatal(err)
	}

	questions, err := ParseSpreadsheet(&buf, compID("c1"))
	if err != nil {
		t.Fatalf("ParseSpreadsheet: %v", err)
	}
	if len(questions) != 2 {
		t.Fatalf("parsed %d questions, want 2", len(questions))
	}
	if questions[0].Answer != "A" || questions[0].Options.Text("A") != "Paris" {
		t.Fatalf("first question = %+v", questions[0])
	}
	if questions[1].Answer != "BD" {
		t.Fatalf("second answer = %q, want BD", questions[1].Answer)
	}
}

func TestImportQuestionsTransactional(t *testing.T) {
	setupTestDB(t)

	questions := ParseDelimited(
		"single\tq1\tA\ta\tb\tc\td\n"+
			"single\tq2\tB\ta\tb\tc\td\n", compID("c1"))

	count, err := ImportQuestions(questions)
	if err != nil {
		t.Fatalf("ImportQuestions: %v", err)
	}
	if count != 2 {
		t.Fatalf("imported %d, want 2", count)
	}

	var stored int64
	if err := database.DB.Model(&models.Question{}).Count(&stored).Error; err != nil {
		t.Fatal(err)
	}
	if stored != 2 {
		t.Fatalf("stored %d questions, want 2", stored)
	}

	if count, err := ImportQuestions(nil); err != nil || count != 0 {
		t.Fatalf("empty import: count=%d err=%v", count, err)
	}
}
