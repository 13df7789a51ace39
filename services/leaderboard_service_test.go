package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/quizarena/backend/database"
	"github.com/quizarena/backend/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Competition{},
		&models.Question{},
		&models.QuizRecord{},
		&models.CompetitionSettings{},
	); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	database.DB = db
}

func compID(id string) *string { return &id }

func insertRecord(t *testing.T, competitionID *string, name string, score, timeTaken int, createdAt time.Time) models.QuizRecord {
	t.Helper()
	record := models.QuizRecord{
		CompetitionID: competitionID,
		UserName:      name,
		Score:         score,
		TimeTaken:     timeTaken,
		Details:       models.AnswerDetails{},
		CreatedAt:     createdAt,
	}
	if err := database.DB.Create(&record).Error; err != nil {
		t.Fatalf("failed to insert record: %v", err)
	}
	return record
}

func TestFetchLeaderboardDeduplicatesByName(t *testing.T) {
	setupTestDB(t)
	now := time.Now()

	insertRecord(t, compID("c1"), "Alice", 80, 100, now)
	insertRecord(t, compID("c1"), "Alice", 95, 120, now)
	insertRecord(t, compID("c1"), "Bob", 95, 100, now)
	insertRecord(t, compID("c1"), "Carol", 50, 90, now)

	entries, err := FetchLeaderboard("c1")
	if err != nil {
		t.Fatalf("FetchLeaderboard: %v", err)
	}

	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3 (one per name)", len(entries))
	}
	// Bob and Alice tie on score; Bob's lower time ranks first.
	if entries[0].UserName != "Bob" || entries[1].UserName != "Alice" || entries[2].UserName != "Carol" {
		t.Fatalf("order = %s/%s/%s, want Bob/Alice/Carol",
			entries[0].UserName, entries[1].UserName, entries[2].UserName)
	}
	if entries[1].Score != 95 {
		t.Fatalf("Alice's entry has score %d, want her best (95)", entries[1].Score)
	}
}

func TestFetchLeaderboardTieBreaksOnTime(t *testing.T) {
	setupTestDB(t)
	now := time.Now()

	insertRecord(t, compID("c1"), "Alice", 90, 200, now)
	insertRecord(t, compID("c1"), "Alice", 90, 150, now)

	entries, err := FetchLeaderboard("c1")
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].TimeTaken != 150 {
		t.Fatalf("got %+v, want single Alice entry with the 150s attempt", entries)
	}
}

func TestFetchLeaderboardScopeAndCap(t *testing.T) {
	setupTestDB(t)
	now := time.Now()

	for i := 0; i < LeaderboardLimit+5; i++ {
		insertRecord(t, compID("c1"), fmt.Sprintf("user%02d", i), i, 60, now)
	}
	insertRecord(t, compID("c2"), "other-competition", 100, 10, now)

	entries, err := FetchLeaderboard("c1")
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != LeaderboardLimit {
		t.Fatalf("got %d entries, want cap of %d", len(entries), LeaderboardLimit)
	}
	for _, e := range entries {
		if e.UserName == "other-competition" {
			t.Fatal("leaderboard leaked a record from another competition")
		}
	}
	// Descending by score.
	for i := 1; i < len(entries); i++ {
		if entries[i].Score > entries[i-1].Score {
			t.Fatalf("entries out of order at %d: %d > %d", i, entries[i].Score, entries[i-1].Score)
		}
	}
}

func TestFetchHistoryIsUndeduplicated(t *testing.T) {
	setupTestDB(t)
	base := time.Now().Add(-time.Hour)

	insertRecord(t, compID("c1"), "Alice", 80, 100, base)
	insertRecord(t, compID("c1"), "Alice", 95, 120, base.Add(time.Minute))
	insertRecord(t, compID("c1"), "Bob", 60, 80, base.Add(2*time.Minute))

	history, err := FetchHistory("c1", "")
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != 3 {
		t.Fatalf("got %d entries, want all 3 attempts", len(history))
	}
	if history[0].UserName != "Bob" {
		t.Fatalf("history not newest-first: first entry %s", history[0].UserName)
	}

	aliceOnly, err := FetchHistory("c1", "Alice")
	if err != nil {
		t.Fatal(err)
	}
	if len(aliceOnly) != 2 {
		t.Fatalf("name filter returned %d entries, want 2", len(aliceOnly))
	}
}

func TestRankInCompetition(t *testing.T) {
	setupTestDB(t)
	now := time.Now()

	insertRecord(t, compID("c1"), "Alice", 90, 100, now)
	insertRecord(t, compID("c1"), "Bob", 70, 100, now)
	insertRecord(t, compID("c1"), "Carol", 70, 100, now)
	insertRecord(t, compID("c2"), "Dave", 100, 100, now)

	rank, total, err := RankInCompetition(compID("c1"), 70)
	if err != nil {
		t.Fatal(err)
	}
	// Only Alice's 90 is strictly greater; Dave is in a different competition.
	if rank != 2 {
		t.Fatalf("rank = %d, want 2", rank)
	}
	if total != 3 {
		t.Fatalf("total = %d, want 3", total)
	}

	rank, _, err = RankInCompetition(compID("c1"), 95)
	if err != nil {
		t.Fatal(err)
	}
	if rank != 1 {
		t.Fatalf("top score rank = %d, want 1", rank)
	}
}

func TestRankOverallIgnoresScope(t *testing.T) {
	setupTestDB(t)
	now := time.Now()

	insertRecord(t, compID("c1"), "Alice", 90, 100, now)
	insertRecord(t, compID("c2"), "Dave", 95, 100, now)

	rank, total, err := RankOverall(90)
	if err != nil {
		t.Fatal(err)
	}
	if rank != 2 || total != 2 {
		t.Fatalf("rank/total = %d/%d, want 2/2 (result rank is global)", rank, total)
	}
}
