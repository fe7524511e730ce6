package httpapi

import "net/http"

func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Search")
	defer span.End()

	term := r.URL.Query().Get("q")
	groups, err := h.searchService.Search(ctx, term)
	if err != nil {
		h.logger.WarnContext(ctx, "search failed", "term", term, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, dateGroupsToDTO(groups))
}

// SearchTeams feeds the autocomplete box. Short terms give an empty list.
func (h *Handler) SearchTeams(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SearchTeams")
	defer span.End()

	term := r.URL.Query().Get("term")
	items, err := h.searchService.Suggest(ctx, term)
	if err != nil {
		h.logger.WarnContext(ctx, "team search failed", "term", term, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, suggestionsToDTO(items))
}
