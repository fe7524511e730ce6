package httpapi

import (
	"fmt"
	"mime"
	"net/http"
	"strconv"
	"strings"

	sonic "github.com/bytedance/sonic"

	"github.com/riskibarqy/football-predictions/internal/usecase"
)

const maxRequestBodyBytes = 1 << 20

func (h *Handler) GetPrediction(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPrediction")
	defer span.End()

	fixtureID, err := strconv.Atoi(strings.TrimSpace(r.PathValue("fixtureID")))
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: fixture id must be an integer", usecase.ErrInvalidInput))
		return
	}

	h.writePrediction(w, r.WithContext(ctx), predictionRequest{FixtureID: fixtureID})
}

// CreatePrediction accepts fixture_id as a form field or a JSON body.
func (h *Handler) CreatePrediction(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreatePrediction")
	defer span.End()

	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)

	var req predictionRequest
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		if err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload", usecase.ErrInvalidInput))
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			writeError(ctx, w, fmt.Errorf("%w: invalid form payload", usecase.ErrInvalidInput))
			return
		}
		raw := strings.TrimSpace(r.PostFormValue("fixture_id"))
		if raw != "" {
			id, err := strconv.Atoi(raw)
			if err != nil {
				writeError(ctx, w, fmt.Errorf("%w: fixture_id must be an integer", usecase.ErrInvalidInput))
				return
			}
			req.FixtureID = id
		}
	}

	h.writePrediction(w, r.WithContext(ctx), req)
}

func (h *Handler) writePrediction(w http.ResponseWriter, r *http.Request, req predictionRequest) {
	ctx := r.Context()
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	detail, err := h.predictionService.Detail(ctx, req.FixtureID)
	if err != nil {
		h.logger.WarnContext(ctx, "prediction detail failed", "fixture_id", req.FixtureID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, predictionDetailToDTO(ctx, detail))
}
