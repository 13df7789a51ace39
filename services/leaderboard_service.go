package services

import (
	"time"

	"github.com/quizarena/backend/database"
	"github.com/quizarena/backend/models"
)

// LeaderboardLimit caps the public leaderboard view.
const LeaderboardLimit = 50

type LeaderboardEntry struct {
	ID        uint      `json:"id"`
	UserName  string    `json:"userName"`
	Score     int       `json:"score"`
	TimeTaken int       `json:"timeTaken"`
	CreatedAt time.Time `json:"createdAt"`
}

// FetchLeaderboard returns the deduplicated top performances for a competition:
// each display name keeps only its best record (highest score, ties broken by
// lowest time), ranked by score desc then time asc and capped at
// LeaderboardLimit. An empty competition id ranks every record (legacy rows).
func FetchLeaderboard(competitionID string) ([]LeaderboardEntry, error) {
	query := `
		WITH ranked_records AS (
			SELECT id, user_name, score, time_taken, created_at,
			       ROW_NUMBER() OVER (PARTITION BY user_name ORDER BY score DESC, time_taken ASC) AS rn
			FROM quiz_records
			WHERE 1=1`
	args := []interface{}{}

	if competitionID != "" {
		query += ` AND competition_id = ?`
		args = append(args, competitionID)
	}

	query += `
		)
		SELECT id, user_name, score, time_taken, created_at
		FROM ranked_records
		WHERE rn = 1
		ORDER BY score DESC, time_taken ASC
		LIMIT ?`
	args = append(args, LeaderboardLimit)

	entries := []LeaderboardEntry{}
	if err := database.DB.Raw(query, args...).Scan(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// FetchHistory is the admin view: every attempt, newest first, no
// deduplication and no cap. Filters are optional.
func FetchHistory(competitionID, userName string) ([]LeaderboardEntry, error) {
	q := database.DB.Model(&models.QuizRecord{}).
		Select("id, user_name, score, time_taken, created_at").
		Order("created_at DESC")

	if userName != "" {
		q = q.Where("user_name = ?", userName)
	}
	if competitionID != "" {
		q = q.Where("competition_id = ?", competitionID)
	}

	entries := []LeaderboardEntry{}
	if err := q.Scan(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// RankInCompetition is the rank reported right after submission:
// 1 + count(records with a strictly greater score), scoped to the competition
// and not deduplicated by name. Also returns the participant total in scope.
func RankInCompetition(competitionID *string, score int) (int, int, error) {
	q := database.DB.Model(&models.QuizRecord{})
	total := database.DB.Model(&models.QuizRecord{})
	if competitionID != nil && *competitionID != "" {
		q = q.Where("competition_id = ?", *competitionID)
		total = total.Where("competition_id = ?", *competitionID)
	}

	var above, participants int64
	if err := q.Where("score > ?", score).Count(&above).Error; err != nil {
		return 0, 0, err
	}
	if err := total.Count(&participants).Error; err != nil {
		return 0, 0, err
	}
	return int(above) + 1, int(participants), nil
}

// RankOverall is the rank shown on the results page. Unlike the submission
// rank it ignores competition scope, and unlike the leaderboard it is not
// deduplicated; the mismatch is intentional and kept from the product's
// observed behavior.
func RankOverall(score int) (int, int, error) {
	var above, participants int64
	if err := database.DB.Model(&models.QuizRecord{}).Where("score > ?", score).Count(&above).Error; err != nil {
		return 0, 0, err
	}
	if err := database.DB.Model(&models.QuizRecord{}).Count(&participants).Error; err != nil {
		return 0, 0, err
	}
	return int(above) + 1, int(participants), nil
}
