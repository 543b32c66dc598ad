// AngelaMos | 2026
// handler.go

package tournament

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/tournament-backend/internal/core"
	"github.com/carterperez-dev/tournament-backend/internal/middleware"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/tournaments", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/{id}", h.Get)
		r.Get("/{id}/profiles", h.Roster)

		r.Group(func(r chi.Router) {
			r.Use(authenticator)

			r.Post("/", h.Create)
			r.Patch("/{id}", h.Update)
			r.Delete("/{id}", h.Delete)
			r.Post("/{id}/profiles/{userID}", h.AddMember)
			r.Delete("/{id}/profiles/{userID}", h.RemoveMember)
		})
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	tournaments, err := h.service.List(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToTournamentResponseList(tournaments))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	t, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, ToTournamentResponse(t))
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateTournamentRequest
	if !core.Bind(w, r, &req) {
		return
	}

	t, err := h.service.Create(r.Context(), middleware.GetActor(r.Context()), req)
	if err != nil {
		writeError(w, err)
		return
	}

	core.Created(w, ToTournamentResponse(t))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req UpdateTournamentRequest
	if !core.Bind(w, r, &req) {
		return
	}

	actor := middleware.GetActor(r.Context())

	t, err := h.service.Update(r.Context(), actor, id, req)
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, ToTournamentResponse(t))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), middleware.GetActor(r.Context()), id); err != nil {
		writeError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) Roster(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	roster, err := h.service.Roster(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, roster)
}

func (h *Handler) AddMember(w http.ResponseWriter, r *http.Request) {
	tournamentID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	userID, ok := pathID(w, r, "userID")
	if !ok {
		return
	}

	actor := middleware.GetActor(r.Context())

	membership, err := h.service.AddMember(r.Context(), actor, tournamentID, userID)
	if err != nil {
		writeError(w, err)
		return
	}

	core.Created(w, membership)
}

func (h *Handler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	tournamentID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	userID, ok := pathID(w, r, "userID")
	if !ok {
		return
	}

	actor := middleware.GetActor(r.Context())

	if err := h.service.RemoveMember(r.Context(), actor, tournamentID, userID); err != nil {
		writeError(w, err)
		return
	}

	core.NoContent(w)
}

func pathID(w http.ResponseWriter, r *http.Request, key string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, key), 10, 64)
	if err != nil || id <= 0 {
		core.JSONError(w, core.ValidationError("invalid "+key))
		return 0, false
	}
	return id, true
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case core.IsAppError(err):
		core.JSONError(w, err)
	case errors.Is(err, core.ErrNotFound):
		core.NotFound(w, "tournament")
	case errors.Is(err, core.ErrForbidden):
		core.Forbidden(w, "only the creator or an admin may change this tournament")
	default:
		core.InternalServerError(w, err)
	}
}
