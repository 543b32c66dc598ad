// AngelaMos | 2026
// handler.go

package user

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
	r.Route("/profiles", func(r chi.Router) {
		r.Get("/", h.ListProfiles)
		r.Get("/{mail}", h.GetProfile)

		r.Group(func(r chi.Router) {
			r.Use(authenticator)

			r.Patch("/{id}/edit", h.UpdateProfile)
			r.Patch("/{id}/edit-pwd", h.UpdatePassword)
			r.Delete("/{mail}/delete", h.DeleteProfile)
			r.Post("/{id}/honor-point", h.IncrementHonorPoint)
			r.Delete("/{id}/honor-point", h.DecrementHonorPoint)
		})
	})
}

func (h *Handler) ListProfiles(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListProfiles(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToUserResponseList(users))
}

func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.GetProfileByMail(r.Context(), chi.URLParam(r, "mail"))
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, ToUserResponse(user))
}

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := profileID(w, r)
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if !core.Bind(w, r, &req) {
		return
	}

	actor := middleware.GetActor(r.Context())

	user, err := h.service.UpdateProfile(r.Context(), actor, id, req)
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, ToUserResponse(user))
}

func (h *Handler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	id, ok := profileID(w, r)
	if !ok {
		return
	}

	var req UpdatePasswordRequest
	if !core.Bind(w, r, &req) {
		return
	}

	actor := middleware.GetActor(r.Context())

	user, err := h.service.UpdatePassword(r.Context(), actor, id, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, ToUserResponse(user))
}

func (h *Handler) DeleteProfile(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetActor(r.Context())
	mail := chi.URLParam(r, "mail")

	if err := h.service.DeleteByMail(r.Context(), actor, mail); err != nil {
		writeError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) IncrementHonorPoint(w http.ResponseWriter, r *http.Request) {
	id, ok := profileID(w, r)
	if !ok {
		return
	}

	honor, err := h.service.IncrementHonorPoint(
		r.Context(),
		middleware.GetActor(r.Context()),
		id,
	)
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, HonorPointResponse{ID: id, HonorPoint: honor})
}

func (h *Handler) DecrementHonorPoint(w http.ResponseWriter, r *http.Request) {
	id, ok := profileID(w, r)
	if !ok {
		return
	}

	honor, err := h.service.DecrementHonorPoint(
		r.Context(),
		middleware.GetActor(r.Context()),
		id,
	)
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, HonorPointResponse{ID: id, HonorPoint: honor})
}

func profileID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		core.JSONError(w, core.ValidationError("invalid profile id"))
		return 0, false
	}
	return id, true
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case core.IsAppError(err):
		core.JSONError(w, err)
	case errors.Is(err, core.ErrNotFound):
		core.NotFound(w, "user")
	case errors.Is(err, core.ErrForbidden):
		core.Forbidden(w, "you can only manage your own profile")
	case errors.Is(err, core.ErrDuplicateKey):
		core.JSONError(w, core.DuplicateError("mail"))
	default:
		core.InternalServerError(w, err)
	}
}
