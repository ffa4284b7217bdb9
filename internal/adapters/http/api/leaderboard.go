package api

import (
	"context"
	"net/http"

	"github.com/okian/academy/internal/domain/types"
)

// LeaderboardDependencies defines the interface for leaderboard operations.
type LeaderboardDependencies interface {
	Leaderboard(ctx context.Context, category string, limit int) ([]types.LeaderboardEntry, error)
	AcademyLeaderboard(ctx context.Context, limit int) ([]types.AcademyRankEntry, error)
}

// LeaderboardHandler handles leaderboard requests.
type LeaderboardHandler struct {
	deps     LeaderboardDependencies
	maxLimit int
	errs     *errorWriter
}

// newLeaderboardHandler creates a new leaderboard handler.
func newLeaderboardHandler(deps LeaderboardDependencies, maxLimit int, errs *errorWriter) *LeaderboardHandler {
	return &LeaderboardHandler{
		deps:     deps,
		maxLimit: maxLimit,
		errs:     errs,
	}
}

// HandleGetCategory handles GET /leaderboards/{category}?limit=N requests.
func (h *LeaderboardHandler) HandleGetCategory(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_leaderboard"
	n, err := queryInt(r, "limit", types.DefaultLeaderboardLimit, h.maxLimit)
	if err != nil {
		h.errs.write(w, r, WrapKind(op, ErrBadRequest, err))
		return
	}
	entries, err := h.deps.Leaderboard(r.Context(), r.PathValue("category"), n)
	if err != nil {
		h.errs.write(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// HandleGetAcademy handles GET /leaderboards/academy?limit=N requests.
func (h *LeaderboardHandler) HandleGetAcademy(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_academy"
	n, err := queryInt(r, "limit", types.DefaultAcademyLimit, h.maxLimit)
	if err != nil {
		h.errs.write(w, r, WrapKind(op, ErrBadRequest, err))
		return
	}
	entries, err := h.deps.AcademyLeaderboard(r.Context(), n)
	if err != nil {
		h.errs.write(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
