// AngelaMos | 2026
// handler.go

package calculation

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/fl1capital/liquidation-backend/internal/core"
)

const userEmailHeader = "X-User-Email"

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/calculations", func(r chi.Router) {
		r.Post("/liquidation", h.Create)
		r.Get("/history", h.History)
		r.Post("/clear", h.Clear)
		r.Post("/update-title", h.UpdateTitle)
	})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	resp, err := h.service.Create(r.Context(), req)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "user")
			return
		}
		if errors.Is(err, ErrSaveFailed) {
			// Distinct from input rejection: the computation succeeded but no
			// record was written, and the caller must not assume otherwise.
			core.JSONError(w, core.NewAppError(
				err,
				"calculation completed but could not be saved",
				http.StatusInternalServerError,
				"SAVE_FAILED",
			))
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, resp)
}

func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	userID := query.Get("userId")
	typ := query.Get("type")
	email := r.Header.Get(userEmailHeader)

	limit := 0
	if raw := query.Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			core.BadRequest(w, "limit must be an integer")
			return
		}
		limit = parsed
	}

	resp, err := h.service.History(r.Context(), userID, email, typ, limit)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, resp)
}

func (h *Handler) Clear(w http.ResponseWriter, r *http.Request) {
	var req ClearRequest
	if r.Body != nil {
		// Body is optional; the email header is the fallback identity.
		//nolint:errcheck // absent or malformed body degrades to the header
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	email := r.Header.Get(userEmailHeader)

	if err := h.service.ClearAll(r.Context(), req.UserID, email); err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, nil)
}

func (h *Handler) UpdateTitle(w http.ResponseWriter, r *http.Request) {
	var req UpdateTitleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	resp, err := h.service.UpdateTitle(r.Context(), req)
	if err != nil {
		if errors.Is(err, core.ErrInvalidInput) {
			core.BadRequest(w, "title must not be empty")
			return
		}
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "calculation")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, resp)
}
