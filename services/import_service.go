package services

import (
	"io"
	"strings"

	"github.com/quizarena/backend/database"
	"github.com/quizarena/backend/models"
	"github.com/quizarena/backend/quiz"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// Import rows share one logical layout regardless of source:
// type | content | answer | option A | option B | option C | option D | explanation

// ParseSpreadsheet reads the first sheet of an xlsx workbook. Malformed rows
// (missing fields, header rows, unknown answer keys) are skipped, not fatal.
func ParseSpreadsheet(r io.Reader, competitionID *string) ([]models.Question, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, err
	}

	var questions []models.Question
	for _, row := range rows {
		if q, ok := questionFromRow(row, competitionID); ok {
			questions = append(questions, q)
		}
	}
	return questions, nil
}

// ParseDelimited reads a tab-delimited block with the same logical fields per
// line as the spreadsheet layout.
func ParseDelimited(text string, competitionID *string) []models.Question {
	var questions []models.Question
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		if q, ok := questionFromRow(strings.Split(line, "\t"), competitionID); ok {
			questions = append(questions, q)
		}
	}
	return questions
}

func questionFromRow(fields []string, competitionID *string) (models.Question, bool) {
	if len(fields) < 3 {
		return models.Question{}, false
	}

	get := func(i int) string {
		if i < len(fields) {
			return strings.TrimSpace(fields[i])
		}
		return ""
	}

	typeField := strings.ToLower(get(0))
	content := get(1)
	answer := quiz.SortAnswer(strings.ToUpper(get(2)))

	// Header rows name the columns instead of carrying data.
	if strings.Contains(typeField, "type") || strings.Contains(typeField, "题目类型") {
		return models.Question{}, false
	}
	if content == "" || answer == "" {
		return models.Question{}, false
	}

	qType := models.QuestionTypeSingle
	if strings.Contains(typeField, "multi") || strings.Contains(typeField, "多") {
		qType = models.QuestionTypeMultiple
	}

	options := models.OptionList{}
	for i := 0; i < 4; i++ {
		text := get(3 + i)
		if text == "" {
			continue
		}
		options = append(options, models.OptionPair{Key: string(quiz.OptionAlphabet[i]), Text: text})
	}

	// Every answer key must point at a real option.
	for _, key := range strings.Split(answer, "") {
		if !options.HasKey(key) {
			return models.Question{}, false
		}
	}

	return models.Question{
		CompetitionID: competitionID,
		Type:          qType,
		Content:       content,
		Options:       options,
		Answer:        answer,
		Explanation:   get(7),
	}, true
}

// ImportQuestions inserts the parsed rows in a single transaction and returns
// the imported count.
func ImportQuestions(questions []models.Question) (int, error) {
	if len(questions) == 0 {
		return 0, nil
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		for i := range questions {
			if err := tx.Create(&questions[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(questions), nil
}
