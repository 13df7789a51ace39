package utils

import (
	"math/rand"
	"time"

	"github.com/quizarena/backend/models"
	"gorm.io/gorm"
)

const competitionIDLength = 8
const letterBytes = "abcdefghijklmnopqrstuvwxyz0123456789"

// GenerateCompetitionID allocates a short opaque id that is unique among
// competitions. The id doubles as the public URL slug.
func GenerateCompetitionID(db *gorm.DB) (string, error) {
	seededRand := rand.New(rand.NewSource(time.Now().UnixNano()))

	for {
		b := make([]byte, competitionIDLength)
		for i := range b {
			b[i] = letterBytes[seededRand.Intn(len(letterBytes))]
		}
		id := string(b)

		var competition models.Competition
		err := db.Where("id = ?", id).First(&competition).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return id, nil
			}
			return "", err
		}
	}
}
