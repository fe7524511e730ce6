package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, swaggerEnabled bool) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if !swaggerEnabled {
		return
	}

	mux.HandleFunc("GET /openapi.yaml", handler.OpenAPI)
}

func registerPublicRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/leagues", handler.ListLeagues)
	mux.HandleFunc("GET /v1/fixtures", handler.ListFixtures)
	mux.HandleFunc("GET /v1/search", handler.Search)
	mux.HandleFunc("GET /v1/search-teams", handler.SearchTeams)
	mux.HandleFunc("GET /v1/predictions/{fixtureID}", handler.GetPrediction)
	mux.HandleFunc("POST /v1/predictions", handler.CreatePrediction)
}
