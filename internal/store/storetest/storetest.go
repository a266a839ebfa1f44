// Package storetest provides an in-memory implementation of the store
// contracts for service and API tests. It mirrors the semantics of the
// SQL-backed stores, including due/new query ordering, and supports
// failure injection for exercising error paths.
package storetest

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rowanvale/lexdrill/internal/domain"
	"github.com/rowanvale/lexdrill/internal/domain/fsrs"
	"github.com/rowanvale/lexdrill/internal/store"
)

// ErrInjected is the error returned by injected failures.
var ErrInjected = errors.New("injected store failure")

// Store is an in-memory store implementing store.ProgressStore,
// store.WordStore, and store.SessionStore. Safe for concurrent use.
//
// The exported counters and Fail* fields configure failure injection and
// observe call activity; set them before handing the store to the code
// under test.
type Store struct {
	mu sync.Mutex

	model fsrs.Service
	now   func() time.Time

	words     map[int64]*domain.Word
	wordOrder []int64
	cards     map[int64]*domain.MemoryCard
	logs      []*domain.ReviewLog
	sessions  []*domain.SessionStats

	nextWordID int64

	// SaveCalls counts Save invocations, including failed ones.
	SaveCalls int
	// FailSaveTimes makes the next N Save calls fail with ErrInjected.
	FailSaveTimes int
	// FailRecordSession makes RecordSession fail with ErrInjected.
	FailRecordSession bool
}

var (
	_ store.ProgressStore = (*Store)(nil)
	_ store.WordStore     = (*Store)(nil)
	_ store.SessionStore  = (*Store)(nil)
)

// New creates an empty in-memory store backed by the given memory model.
func New(model fsrs.Service) *Store {
	if model == nil {
		model = fsrs.NewDefaultService()
	}
	return &Store{
		model:      model,
		now:        time.Now,
		words:      make(map[int64]*domain.Word),
		cards:      make(map[int64]*domain.MemoryCard),
		nextWordID: 1,
	}
}

// SetNow overrides the store's clock, used for new-card due times.
func (s *Store) SetNow(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// SeedWords inserts words directly, assigning IDs to any word whose ID is
// zero. Returns the words with IDs filled in.
func (s *Store) SeedWords(words ...*domain.Word) []*domain.Word {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, w := range words {
		if w.ID == 0 {
			w.ID = s.nextWordID
		}
		if w.ID >= s.nextWordID {
			s.nextWordID = w.ID + 1
		}
		s.words[w.ID] = w
		s.wordOrder = append(s.wordOrder, w.ID)
	}
	return words
}

// SeedCard inserts a card directly, bypassing the memory model.
func (s *Store) SeedCard(card *domain.MemoryCard) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cards[card.ItemID] = card.Clone()
}

// Card returns a copy of the stored card, or nil if none exists.
func (s *Store) Card(itemID int64) *domain.MemoryCard {
	s.mu.Lock()
	defer s.mu.Unlock()
	card, ok := s.cards[itemID]
	if !ok {
		return nil
	}
	return card.Clone()
}

// Logs returns copies of all recorded review logs in insertion order.
func (s *Store) Logs() []*domain.ReviewLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*domain.ReviewLog, len(s.logs))
	for i, l := range s.logs {
		c := *l
		out[i] = &c
	}
	return out
}

// Sessions returns copies of all recorded sessions in insertion order.
func (s *Store) Sessions() []*domain.SessionStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*domain.SessionStats, len(s.sessions))
	for i, sess := range s.sessions {
		c := *sess
		out[i] = &c
	}
	return out
}

// CardCount returns the number of stored cards.
func (s *Store) CardCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.cards)
}

// GetOrCreate implements store.ProgressStore.
func (s *Store) GetOrCreate(_ context.Context, itemID int64) (*domain.MemoryCard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if card, ok := s.cards[itemID]; ok {
		return card.Clone(), nil
	}
	card := s.model.NewCard(itemID, s.now().UTC())
	s.cards[itemID] = card.Clone()
	return card, nil
}

// Save implements store.ProgressStore.
func (s *Store) Save(_ context.Context, card *domain.MemoryCard, log *domain.ReviewLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.SaveCalls++
	if s.FailSaveTimes > 0 {
		s.FailSaveTimes--
		return fmt.Errorf("save card: %w", ErrInjected)
	}
	if card == nil {
		return fmt.Errorf("%w: nil card", store.ErrInvalidEntity)
	}
	if err := card.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	s.cards[card.ItemID] = card.Clone()
	if log != nil {
		c := *log
		s.logs = append(s.logs, &c)
	}
	return nil
}

// QueryDue implements store.ProgressStore.
func (s *Store) QueryDue(_ context.Context, listID string, asOf time.Time) ([]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var due []*domain.MemoryCard
	for id, card := range s.cards {
		word, ok := s.words[id]
		if !ok || word.ListID != listID {
			continue
		}
		if card.State == domain.CardStateNew || card.DueAt.After(asOf) {
			continue
		}
		due = append(due, card)
	}
	sort.Slice(due, func(i, j int) bool {
		if !due[i].DueAt.Equal(due[j].DueAt) {
			return due[i].DueAt.Before(due[j].DueAt)
		}
		return due[i].ItemID < due[j].ItemID
	})

	ids := make([]int64, 0, len(due))
	for _, card := range due {
		ids = append(ids, card.ItemID)
	}
	return ids, nil
}

// QueryNew implements store.ProgressStore.
func (s *Store) QueryNew(_ context.Context, listID string, limit int) ([]int64, error) {
	if limit <= 0 {
		return nil, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var ids []int64
	for _, id := range s.wordOrder {
		if len(ids) >= limit {
			break
		}
		word := s.words[id]
		if word.ListID != listID {
			continue
		}
		card, ok := s.cards[id]
		if ok && card.State != domain.CardStateNew {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// ToggleStarred implements store.ProgressStore.
func (s *Store) ToggleStarred(_ context.Context, itemID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	card, ok := s.cards[itemID]
	if !ok {
		card = s.model.NewCard(itemID, s.now().UTC())
		s.cards[itemID] = card
	}
	card.Starred = !card.Starred
	return card.Starred, nil
}

// QueryStarred implements store.ProgressStore.
func (s *Store) QueryStarred(_ context.Context) ([]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var ids []int64
	for id, card := range s.cards {
		if card.Starred {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// GetByID implements store.WordStore.
func (s *Store) GetByID(_ context.Context, id int64) (*domain.Word, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	word, ok := s.words[id]
	if !ok {
		return nil, store.ErrWordNotFound
	}
	c := *word
	return &c, nil
}

// GetByListID implements store.WordStore.
func (s *Store) GetByListID(_ context.Context, listID string) ([]*domain.Word, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var words []*domain.Word
	for _, id := range s.wordOrder {
		if s.words[id].ListID == listID {
			c := *s.words[id]
			words = append(words, &c)
		}
	}
	return words, nil
}

// CreateMultiple implements store.WordStore.
func (s *Store) CreateMultiple(_ context.Context, words []*domain.Word) error {
	for _, w := range words {
		if err := w.Validate(); err != nil {
			return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, w := range words {
		if s.textExists(w.ListID, w.Text) {
			continue
		}
		c := *w
		c.ID = s.nextWordID
		s.nextWordID++
		if c.CreatedAt.IsZero() {
			c.CreatedAt = s.now().UTC()
		}
		s.words[c.ID] = &c
		s.wordOrder = append(s.wordOrder, c.ID)
	}
	return nil
}

// ListWordLists implements store.WordStore.
func (s *Store) ListWordLists(_ context.Context) ([]domain.WordListInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	counts := make(map[string]int)
	for _, w := range s.words {
		counts[w.ListID]++
	}
	lists := make([]domain.WordListInfo, 0, len(counts))
	for listID, n := range counts {
		lists = append(lists, domain.WordListInfo{ListID: listID, WordCount: n})
	}
	sort.Slice(lists, func(i, j int) bool { return lists[i].ListID < lists[j].ListID })
	return lists, nil
}

// RecordSession implements store.SessionStore.
func (s *Store) RecordSession(_ context.Context, stats *domain.SessionStats) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailRecordSession {
		return fmt.Errorf("record session: %w", ErrInjected)
	}
	if stats == nil {
		return fmt.Errorf("%w: nil session stats", store.ErrInvalidEntity)
	}
	c := *stats
	s.sessions = append(s.sessions, &c)
	return nil
}

// ListSessions implements store.SessionStore.
func (s *Store) ListSessions(_ context.Context, limit int) ([]*domain.SessionStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit <= 0 {
		limit = 50
	}
	out := make([]*domain.SessionStats, 0, len(s.sessions))
	for i := len(s.sessions) - 1; i >= 0 && len(out) < limit; i-- {
		c := *s.sessions[i]
		out = append(out, &c)
	}
	return out, nil
}

func (s *Store) textExists(listID, text string) bool {
	for _, w := range s.words {
		if w.ListID == listID && w.Text == text {
			return true
		}
	}
	return false
}
