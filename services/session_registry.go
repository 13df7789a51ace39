package services

import (
	"time"

	"github.com/quizarena/backend/quiz"
)

// Sessions holds hosted quiz sessions between requests. Entries live for two
// hours at most; the cleanup job sweeps the rest.
var Sessions = quiz.NewRegistry(2 * time.Hour)
