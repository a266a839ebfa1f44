package domain

import (
	"errors"
	"strings"
	"time"
)

// Common validation errors for Word.
var (
	ErrEmptyWordText   = errors.New("word text cannot be empty")
	ErrEmptyWordListID = errors.New("word list ID cannot be empty")
)

// Word is one vocabulary item as imported from a word list. Words carry
// display content only; scheduling state lives on the item's MemoryCard.
type Word struct {
	ID          int64     `json:"id"`
	ListID      string    `json:"list_id"`
	Text        string    `json:"text"`
	Translation string    `json:"translation"`
	Phonetic    string    `json:"phonetic,omitempty"`
	Examples    []string  `json:"examples,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Validate checks that the word has the minimum required content.
func (w *Word) Validate() error {
	if strings.TrimSpace(w.Text) == "" {
		return ErrEmptyWordText
	}
	if strings.TrimSpace(w.ListID) == "" {
		return ErrEmptyWordListID
	}
	return nil
}

// WordListInfo summarizes one word list known to the store.
type WordListInfo struct {
	ListID    string `json:"list_id"`
	WordCount int    `json:"word_count"`
}
