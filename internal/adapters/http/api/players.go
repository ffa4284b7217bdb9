package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/okian/academy/internal/domain/model"
	"github.com/okian/academy/internal/domain/types"
)

// PlayerDependencies defines the interface for per-player reads.
type PlayerDependencies interface {
	PlayerSummary(ctx context.Context, uuid string) (types.PlayerSummary, error)
	PlayerParty(ctx context.Context, uuid string) ([]model.Pokemon, error)
	PlayerPC(ctx context.Context, uuid string, q types.PCQuery) ([]model.Pokemon, error)
	PlayerPokedex(ctx context.Context, uuid string) (types.PokedexStats, error)
}

// PlayerHandler handles per-player requests.
type PlayerHandler struct {
	deps     PlayerDependencies
	maxLimit int
	errs     *errorWriter
}

// newPlayerHandler creates a new player handler.
func newPlayerHandler(deps PlayerDependencies, maxLimit int, errs *errorWriter) *PlayerHandler {
	return &PlayerHandler{deps: deps, maxLimit: maxLimit, errs: errs}
}

// HandleGetSummary handles GET /players/{uuid}/summary requests.
func (h *PlayerHandler) HandleGetSummary(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_summary"
	sum, err := h.deps.PlayerSummary(r.Context(), r.PathValue("uuid"))
	if err != nil {
		h.errs.write(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

// HandleGetParty handles GET /players/{uuid}/party requests.
func (h *PlayerHandler) HandleGetParty(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_party"
	party, err := h.deps.PlayerParty(r.Context(), r.PathValue("uuid"))
	if err != nil {
		h.errs.write(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, party)
}

// HandleGetPC handles GET /players/{uuid}/pc?page=&limit=&shiny=&species= requests.
func (h *PlayerHandler) HandleGetPC(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_pc"
	q, err := h.pcQuery(r)
	if err != nil {
		h.errs.write(w, r, WrapKind(op, ErrBadRequest, err))
		return
	}
	pc, err := h.deps.PlayerPC(r.Context(), r.PathValue("uuid"), q)
	if err != nil {
		h.errs.write(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, pc)
}

// HandleGetPokedex handles GET /players/{uuid}/pokedex requests.
func (h *PlayerHandler) HandleGetPokedex(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_pokedex"
	dex, err := h.deps.PlayerPokedex(r.Context(), r.PathValue("uuid"))
	if err != nil {
		h.errs.write(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, dex)
}

func (h *PlayerHandler) pcQuery(r *http.Request) (types.PCQuery, error) {
	var q types.PCQuery
	var err error
	if q.Page, err = queryInt(r, "page", 1, 0); err != nil {
		return q, err
	}
	if q.Limit, err = queryInt(r, "limit", types.DefaultPCPageSize, h.maxLimit); err != nil {
		return q, err
	}
	if raw := r.URL.Query().Get("shiny"); raw != "" {
		shiny, err := strconv.ParseBool(raw)
		if err != nil {
			return q, errors.New("shiny must be a boolean")
		}
		q.Shiny = &shiny
	}
	q.Species = r.URL.Query().Get("species")
	return q, nil
}
