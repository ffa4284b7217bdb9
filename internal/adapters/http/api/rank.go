package api

import (
	"context"
	"net/http"

	"github.com/okian/academy/internal/domain/types"
)

// RankDependencies defines the interface for rank operations.
type RankDependencies interface {
	PlayerRank(ctx context.Context, uuid string) (types.AcademyRankEntry, error)
}

// RankHandler handles rank requests.
type RankHandler struct {
	deps RankDependencies
	errs *errorWriter
}

// newRankHandler creates a new rank handler.
func newRankHandler(deps RankDependencies, errs *errorWriter) *RankHandler {
	return &RankHandler{deps: deps, errs: errs}
}

// HandleGetRank handles GET /players/{uuid}/rank requests.
func (h *RankHandler) HandleGetRank(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_rank"
	entry, err := h.deps.PlayerRank(r.Context(), r.PathValue("uuid"))
	if err != nil {
		h.errs.write(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, entry)
}
