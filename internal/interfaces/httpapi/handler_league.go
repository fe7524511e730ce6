package httpapi

import (
	"net/http"

	"github.com/riskibarqy/football-predictions/internal/domain/league"
)

func (h *Handler) ListLeagues(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListLeagues")
	defer span.End()

	regions := h.leagueService.ListRegions(ctx)
	writeSuccess(ctx, w, http.StatusOK, regionsToDTO(ctx, regions))
}

// ListFixtures serves today's and tomorrow's fixtures for the selected
// region, category or league.
func (h *Handler) ListFixtures(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListFixtures")
	defer span.End()

	query := r.URL.Query()
	leagueID, err := parseOptionalInt("league", query.Get("league"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	req := fixturesQuery{
		Region:   query.Get("region"),
		Category: query.Get("category"),
		League:   leagueID,
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	days, err := h.fixtureService.ListUpcoming(ctx, league.Filter{
		Region:   req.Region,
		Category: req.Category,
		League:   req.League,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "list fixtures failed", "region", req.Region, "category", req.Category, "league", req.League, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, dayGroupsToDTO(ctx, days))
}
