package httpapi

import "net/http"

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	body := healthDTO{Status: "ok"}
	if h.cacheStats != nil {
		stats := h.cacheStats.Stats()
		body.Cache = &stats
	}
	if h.upstream != nil {
		snap := h.upstream.CircuitSnapshot()
		body.Upstream = &snap
	}

	writeSuccess(ctx, w, http.StatusOK, body)
}
