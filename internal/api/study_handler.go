// Package api provides the HTTP handlers for the study service.
package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/rowanvale/lexdrill/internal/api/shared"
	"github.com/rowanvale/lexdrill/internal/domain"
	"github.com/rowanvale/lexdrill/internal/platform/logger"
	"github.com/rowanvale/lexdrill/internal/service/session"
	"github.com/rowanvale/lexdrill/internal/store"
)

// StudyDefaults are the limits applied when a start-session request omits
// them. Populated from configuration at wiring time.
type StudyDefaults struct {
	NewWordsLimit int
	ReviewLimit   int
}

// StudyHandler handles session lifecycle and history requests.
type StudyHandler struct {
	sessions *session.Manager
	history  store.SessionStore
	defaults StudyDefaults
	logger   *slog.Logger
}

// NewStudyHandler creates a StudyHandler.
func NewStudyHandler(
	sessions *session.Manager,
	history store.SessionStore,
	defaults StudyDefaults,
	log *slog.Logger,
) *StudyHandler {
	if sessions == nil {
		panic("session manager cannot be nil")
	}
	if history == nil {
		panic("session history store cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &StudyHandler{
		sessions: sessions,
		history:  history,
		defaults: defaults,
		logger:   log.With(slog.String("component", "study_handler")),
	}
}

// StartSessionRequest is the body for POST /api/study/sessions. Omitted
// limits fall back to the configured defaults; omitted mode and order fall
// back to mixed/sequential.
type StartSessionRequest struct {
	ListID        string `json:"list_id"        validate:"required"`
	NewWordsLimit *int   `json:"new_words_limit" validate:"omitempty,min=0"`
	ReviewLimit   *int   `json:"review_limit"    validate:"omitempty,min=0"`
	StudyMode     string `json:"study_mode"      validate:"omitempty,oneof=mixed new_only review_only"`
	StudyOrder    string `json:"study_order"     validate:"omitempty,oneof=sequential random"`
}

// StartSession handles POST /api/study/sessions. It replaces any existing
// session with a new one built from the request settings.
func (h *StudyHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req StartSessionRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request data")
		return
	}

	settings := h.settingsFromRequest(req)
	engine, err := h.sessions.StartSession(r.Context(), settings)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	snap := engine.Snapshot()
	log.Info("session started via API",
		slog.String("session_id", snap.ID.String()),
		slog.String("list_id", settings.ListID),
		slog.Int("total", snap.Total))
	shared.RespondWithJSON(w, r, http.StatusCreated, snap)
}

// CurrentItemResponse is the body for GET /api/study/sessions/current/item.
type CurrentItemResponse struct {
	Item      *domain.StudyItem `json:"item"`
	Position  int               `json:"position"`
	Total     int               `json:"total"`
	Remaining int               `json:"remaining"`
}

// CurrentItem handles GET /api/study/sessions/current/item. Responds 204
// when the active session has no item left to rate.
func (h *StudyHandler) CurrentItem(w http.ResponseWriter, r *http.Request) {
	engine, err := h.sessions.Current()
	if err != nil {
		shared.RespondWithError(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err))
		return
	}

	item, err := engine.CurrentItem()
	if errors.Is(err, session.ErrNoCurrentItem) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	snap := engine.Snapshot()
	shared.RespondWithJSON(w, r, http.StatusOK, CurrentItemResponse{
		Item:      item,
		Position:  snap.Position,
		Total:     snap.Total,
		Remaining: snap.Remaining,
	})
}

// SubmitRatingRequest is the body for POST /api/study/sessions/current/ratings.
type SubmitRatingRequest struct {
	Rating string `json:"rating" validate:"required,oneof=again hard good easy"`
}

// SubmitRatingResponse pairs the updated card with the session snapshot
// after the rating was applied.
type SubmitRatingResponse struct {
	Card    *domain.MemoryCard `json:"card"`
	Session session.Snapshot   `json:"session"`
}

// SubmitRating handles POST /api/study/sessions/current/ratings.
func (h *StudyHandler) SubmitRating(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	engine, err := h.sessions.Current()
	if err != nil {
		shared.RespondWithError(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err))
		return
	}

	var req SubmitRatingRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request data")
		return
	}

	rating, err := domain.ParseReviewRating(req.Rating)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid rating")
		return
	}

	card, err := engine.SubmitRating(r.Context(), rating)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	snap := engine.Snapshot()
	log.Debug("rating submitted",
		slog.String("session_id", snap.ID.String()),
		slog.String("rating", rating.String()),
		slog.Int64("item_id", card.ItemID))
	shared.RespondWithJSON(w, r, http.StatusOK, SubmitRatingResponse{
		Card:    card,
		Session: snap,
	})
}

// GetHistory handles GET /api/study/history. Accepts an optional limit
// query parameter.
func (h *StudyHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid limit parameter")
			return
		}
		limit = n
	}

	sessions, err := h.history.ListSessions(r.Context(), limit)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), "Failed to load session history", err)
		return
	}
	if sessions == nil {
		sessions = []*domain.SessionStats{}
	}
	shared.RespondWithJSON(w, r, http.StatusOK, sessions)
}

func (h *StudyHandler) settingsFromRequest(req StartSessionRequest) domain.StudySettings {
	settings := domain.StudySettings{
		ListID:        req.ListID,
		NewWordsLimit: h.defaults.NewWordsLimit,
		ReviewLimit:   h.defaults.ReviewLimit,
		StudyMode:     domain.StudyModeMixed,
		StudyOrder:    domain.StudyOrderSequential,
	}
	if req.NewWordsLimit != nil {
		settings.NewWordsLimit = *req.NewWordsLimit
	}
	if req.ReviewLimit != nil {
		settings.ReviewLimit = *req.ReviewLimit
	}
	if req.StudyMode != "" {
		settings.StudyMode = domain.StudyMode(req.StudyMode)
	}
	if req.StudyOrder != "" {
		settings.StudyOrder = domain.StudyOrder(req.StudyOrder)
	}
	return settings
}
