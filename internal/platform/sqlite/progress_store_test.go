package sqlite

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rowanvale/lexdrill/internal/domain"
	"github.com/rowanvale/lexdrill/internal/domain/fsrs"
	"github.com/rowanvale/lexdrill/internal/store"
	"github.com/rowanvale/lexdrill/migrations"
)

var testNow = time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, migrations.Up(db, "sqlite"))
	return db
}

func seedWords(t *testing.T, db *sql.DB, listID string, texts ...string) []int64 {
	t.Helper()

	ws := NewWordStore(db, nil)
	words := make([]*domain.Word, 0, len(texts))
	for _, text := range texts {
		words = append(words, &domain.Word{ListID: listID, Text: text, Translation: text})
	}
	require.NoError(t, ws.CreateMultiple(context.Background(), words))

	stored, err := ws.GetByListID(context.Background(), listID)
	require.NoError(t, err)
	require.Len(t, stored, len(texts))

	ids := make([]int64, len(stored))
	for i, w := range stored {
		ids[i] = w.ID
	}
	return ids
}

func TestProgressStoreGetOrCreate(t *testing.T) {
	db := openTestDB(t)
	ids := seedWords(t, db, "hsk1", "shui")

	ps := NewProgressStore(db, fsrs.NewDefaultService(), nil)
	ps.now = func() time.Time { return testNow }

	card, err := ps.GetOrCreate(context.Background(), ids[0])
	require.NoError(t, err)
	assert.Equal(t, ids[0], card.ItemID)
	assert.Equal(t, domain.CardStateNew, card.State)

	// Second call returns the stored card, not a fresh one.
	again, err := ps.GetOrCreate(context.Background(), ids[0])
	require.NoError(t, err)
	assert.Equal(t, card.ItemID, again.ItemID)
	assert.Equal(t, card.State, again.State)
	assert.True(t, card.DueAt.Equal(again.DueAt))
}

func TestProgressStoreSaveRoundTrip(t *testing.T) {
	db := openTestDB(t)
	ids := seedWords(t, db, "hsk1", "shui")

	model := fsrs.NewDefaultService()
	ps := NewProgressStore(db, model, nil)
	ps.now = func() time.Time { return testNow }

	card, err := ps.GetOrCreate(context.Background(), ids[0])
	require.NoError(t, err)

	next, log, err := model.Review(card, domain.RatingGood, testNow)
	require.NoError(t, err)
	require.NoError(t, ps.Save(context.Background(), next, log))

	loaded, err := ps.GetOrCreate(context.Background(), ids[0])
	require.NoError(t, err)
	assert.Equal(t, domain.CardStateReview, loaded.State)
	assert.Equal(t, next.Stability, loaded.Stability)
	assert.Equal(t, next.Difficulty, loaded.Difficulty)
	assert.True(t, next.DueAt.Equal(loaded.DueAt))
	require.NotNil(t, loaded.LastReviewedAt)
	assert.Equal(t, next.ReviewCount, loaded.ReviewCount)

	var logCount int
	require.NoError(t, db.QueryRow(
		`SELECT COUNT(*) FROM review_logs WHERE item_id = ?`, ids[0]).Scan(&logCount))
	assert.Equal(t, 1, logCount)
}

func TestProgressStoreSaveRejectsInvalidCard(t *testing.T) {
	db := openTestDB(t)
	seedWords(t, db, "hsk1", "shui")

	ps := NewProgressStore(db, fsrs.NewDefaultService(), nil)

	err := ps.Save(context.Background(), nil, nil)
	assert.ErrorIs(t, err, store.ErrInvalidEntity)

	err = ps.Save(context.Background(), &domain.MemoryCard{}, nil)
	assert.ErrorIs(t, err, store.ErrInvalidEntity)
}

func TestProgressStoreQueries(t *testing.T) {
	db := openTestDB(t)
	ids := seedWords(t, db, "hsk1", "one", "two", "three")

	model := fsrs.NewDefaultService()
	ps := NewProgressStore(db, model, nil)
	ps.now = func() time.Time { return testNow }

	// ids[0]: review card overdue by two hours. ids[1]: overdue by one
	// hour. ids[2]: never studied.
	for i, overdue := range []time.Duration{2 * time.Hour, time.Hour} {
		reviewed := testNow.AddDate(0, 0, -3)
		card := &domain.MemoryCard{
			ItemID:         ids[i],
			State:          domain.CardStateReview,
			Stability:      3.0,
			Difficulty:     5.0,
			DueAt:          testNow.Add(-overdue),
			LastReviewedAt: &reviewed,
			ReviewCount:    1,
			CreatedAt:      reviewed,
			UpdatedAt:      reviewed,
		}
		require.NoError(t, ps.Save(context.Background(), card, nil))
	}

	t.Run("due returns most overdue first", func(t *testing.T) {
		due, err := ps.QueryDue(context.Background(), "hsk1", testNow)
		require.NoError(t, err)
		assert.Equal(t, []int64{ids[0], ids[1]}, due)
	})

	t.Run("due boundary is inclusive", func(t *testing.T) {
		due, err := ps.QueryDue(context.Background(), "hsk1", testNow.Add(-2*time.Hour))
		require.NoError(t, err)
		assert.Equal(t, []int64{ids[0]}, due)
	})

	t.Run("new returns unstudied words in insertion order", func(t *testing.T) {
		fresh, err := ps.QueryNew(context.Background(), "hsk1", 10)
		require.NoError(t, err)
		assert.Equal(t, []int64{ids[2]}, fresh)
	})

	t.Run("new respects limit", func(t *testing.T) {
		fresh, err := ps.QueryNew(context.Background(), "hsk1", 0)
		require.NoError(t, err)
		assert.Empty(t, fresh)
	})

	t.Run("unknown list is empty", func(t *testing.T) {
		due, err := ps.QueryDue(context.Background(), "hsk9", testNow)
		require.NoError(t, err)
		assert.Empty(t, due)
	})
}

func TestProgressStoreToggleStarred(t *testing.T) {
	db := openTestDB(t)
	ids := seedWords(t, db, "hsk1", "shui")

	ps := NewProgressStore(db, fsrs.NewDefaultService(), nil)
	ps.now = func() time.Time { return testNow }

	// Starring an unstudied word materializes its card.
	starred, err := ps.ToggleStarred(context.Background(), ids[0])
	require.NoError(t, err)
	assert.True(t, starred)

	all, err := ps.QueryStarred(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int64{ids[0]}, all)

	starred, err = ps.ToggleStarred(context.Background(), ids[0])
	require.NoError(t, err)
	assert.False(t, starred)

	all, err = ps.QueryStarred(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestWordStoreDuplicatesAndLists(t *testing.T) {
	db := openTestDB(t)
	ws := NewWordStore(db, nil)

	require.NoError(t, ws.CreateMultiple(context.Background(), []*domain.Word{
		{ListID: "hsk1", Text: "shui", Translation: "water"},
		{ListID: "hsk1", Text: "huo", Translation: "fire"},
	}))

	// Re-importing the same text into the same list is skipped silently.
	require.NoError(t, ws.CreateMultiple(context.Background(), []*domain.Word{
		{ListID: "hsk1", Text: "shui", Translation: "water again"},
		{ListID: "hsk2", Text: "shui", Translation: "water"},
	}))

	words, err := ws.GetByListID(context.Background(), "hsk1")
	require.NoError(t, err)
	assert.Len(t, words, 2)
	assert.Equal(t, "water", words[0].Translation, "original row wins over re-import")

	lists, err := ws.ListWordLists(context.Background())
	require.NoError(t, err)
	require.Len(t, lists, 2)
	assert.Equal(t, "hsk1", lists[0].ListID)
	assert.Equal(t, 2, lists[0].WordCount)
	assert.Equal(t, "hsk2", lists[1].ListID)
	assert.Equal(t, 1, lists[1].WordCount)

	_, err = ws.GetByID(context.Background(), 9999)
	assert.ErrorIs(t, err, store.ErrWordNotFound)
}

func TestSessionStoreRecordAndList(t *testing.T) {
	db := openTestDB(t)
	ss := NewSessionStore(db, nil)

	for i := 0; i < 3; i++ {
		stats := &domain.SessionStats{
			SessionID:       uuid.New(),
			ListID:          "hsk1",
			NewWords:        i,
			TotalWords:      i,
			DurationSeconds: 60 * i,
			StartedAt:       testNow.Add(time.Duration(i) * time.Hour),
		}
		require.NoError(t, ss.RecordSession(context.Background(), stats))
	}

	sessions, err := ss.ListSessions(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, 2, sessions[0].NewWords, "newest first")
	assert.Equal(t, 1, sessions[1].NewWords)

	err = ss.RecordSession(context.Background(), nil)
	assert.ErrorIs(t, err, store.ErrInvalidEntity)
}
