package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/rowanvale/lexdrill/internal/api/shared"
	"github.com/rowanvale/lexdrill/internal/domain"
	"github.com/rowanvale/lexdrill/internal/domain/fsrs"
	"github.com/rowanvale/lexdrill/internal/platform/logger"
	"github.com/rowanvale/lexdrill/internal/store"
)

// WordHandler handles word-level requests: starring, retrievability
// diagnostics, and list summaries.
type WordHandler struct {
	words    store.WordStore
	progress store.ProgressStore
	model    fsrs.Service
	logger   *slog.Logger
}

// NewWordHandler creates a WordHandler.
func NewWordHandler(
	words store.WordStore,
	progress store.ProgressStore,
	model fsrs.Service,
	log *slog.Logger,
) *WordHandler {
	if words == nil {
		panic("word store cannot be nil")
	}
	if progress == nil {
		panic("progress store cannot be nil")
	}
	if model == nil {
		panic("memory model cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &WordHandler{
		words:    words,
		progress: progress,
		model:    model,
		logger:   log.With(slog.String("component", "word_handler")),
	}
}

// StarResponse is the body for POST /api/words/{id}/star.
type StarResponse struct {
	ItemID  int64 `json:"item_id"`
	Starred bool  `json:"starred"`
}

// ToggleStar handles POST /api/words/{id}/star. Starring works outside of
// sessions; the card is created on first star if the word was never studied.
func (h *WordHandler) ToggleStar(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, ok := h.wordIDFromRequest(w, r)
	if !ok {
		return
	}

	starred, err := h.progress.ToggleStarred(r.Context(), id)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("toggled star", slog.Int64("item_id", id), slog.Bool("starred", starred))
	shared.RespondWithJSON(w, r, http.StatusOK, StarResponse{ItemID: id, Starred: starred})
}

// RetrievabilityResponse is the body for GET /api/words/{id}/retrievability.
// Diagnostic only: scheduling always compares due times, never this value.
type RetrievabilityResponse struct {
	ItemID         int64            `json:"item_id"`
	Retrievability float64          `json:"retrievability"`
	State          domain.CardState `json:"state"`
	Stability      float64          `json:"stability"`
	Difficulty     float64          `json:"difficulty"`
	DueAt          time.Time        `json:"due_at"`
}

// GetRetrievability handles GET /api/words/{id}/retrievability.
func (h *WordHandler) GetRetrievability(w http.ResponseWriter, r *http.Request) {
	id, ok := h.wordIDFromRequest(w, r)
	if !ok {
		return
	}

	card, err := h.progress.GetOrCreate(r.Context(), id)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, RetrievabilityResponse{
		ItemID:         id,
		Retrievability: h.model.Retrievability(card, time.Now()),
		State:          card.State,
		Stability:      card.Stability,
		Difficulty:     card.Difficulty,
		DueAt:          card.DueAt,
	})
}

// ListStarred handles GET /api/words/starred.
func (h *WordHandler) ListStarred(w http.ResponseWriter, r *http.Request) {
	ids, err := h.progress.QueryStarred(r.Context())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), "Failed to load starred words", err)
		return
	}
	if ids == nil {
		ids = []int64{}
	}
	shared.RespondWithJSON(w, r, http.StatusOK, map[string][]int64{"item_ids": ids})
}

// ListWordLists handles GET /api/lists.
func (h *WordHandler) ListWordLists(w http.ResponseWriter, r *http.Request) {
	lists, err := h.words.ListWordLists(r.Context())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), "Failed to load word lists", err)
		return
	}
	if lists == nil {
		lists = []domain.WordListInfo{}
	}
	shared.RespondWithJSON(w, r, http.StatusOK, lists)
}

// wordIDFromRequest parses the {id} URL parameter and verifies the word
// exists. Writes the error response itself when it returns ok=false.
func (h *WordHandler) wordIDFromRequest(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid word ID")
		return 0, false
	}

	if _, err := h.words.GetByID(r.Context(), id); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return 0, false
	}
	return id, true
}
