package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	apierrors "github.com/pribylovaa/go-portfolio/internal/errors"
	"github.com/pribylovaa/go-portfolio/internal/models"
	"github.com/pribylovaa/go-portfolio/internal/service"
	"github.com/pribylovaa/go-portfolio/internal/transport/http/middleware"
)

// canEdit — черновики и удалённые посты видны только редакторам.
func canEdit(r *http.Request) bool {
	p, ok := middleware.PrincipalFrom(r.Context())
	return ok && p.HasRole(models.RoleWriter, models.RoleAdmin)
}

// ListPosts — GET /Blog?page&pageSize&category&search.
func (h *Handlers) ListPosts(w http.ResponseWriter, r *http.Request) {
	page, err := intQuery(r, "page", 1)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	size, err := intQuery(r, "pageSize", 0)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	q := r.URL.Query()
	f := models.PostFilter{
		Page:         page,
		PageSize:     size,
		CategorySlug: strings.TrimSpace(q.Get("category")),
		Search:       strings.TrimSpace(q.Get("search")),
	}
	if canEdit(r) {
		f.IncludeDrafts = boolQuery(r, "includeDrafts")
	}

	res, err := h.svc.ListPosts(r.Context(), f)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, postPageFromModel(res))
}

// PostBySlug — GET /Blog/{slug}; увеличивает счётчик просмотров.
func (h *Handlers) PostBySlug(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if slug == "" {
		apierrors.WriteError(w, r, apierrors.ErrBadRequest)
		return
	}

	v, err := h.svc.PostBySlug(r.Context(), slug, canEdit(r) && boolQuery(r, "includeDrafts"))
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, postViewFromModel(v))
}

func (h *Handlers) CreatePost(w http.ResponseWriter, r *http.Request) {
	p, ok := middleware.PrincipalFrom(r.Context())
	if !ok {
		apierrors.WriteError(w, r, service.ErrUnauthorized)
		return
	}

	var in postRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	post, err := h.svc.CreatePost(r.Context(), p.UserID, in.toInput())
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, postFromModel(post))
}

func (h *Handlers) UpdatePost(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	var in postRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	post, err := h.svc.UpdatePost(r.Context(), id, in.toInput())
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, postFromModel(post))
}

func (h *Handlers) DeletePost(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	if err := h.svc.DeletePost(r.Context(), id); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// LikePost — POST /Blog/{id}/like, переключает лайк текущего пользователя.
func (h *Handlers) LikePost(w http.ResponseWriter, r *http.Request) {
	p, ok := middleware.PrincipalFrom(r.Context())
	if !ok {
		apierrors.WriteError(w, r, service.ErrUnauthorized)
		return
	}

	id, err := uuidParam(r, "id")
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	res, err := h.svc.TogglePostLike(r.Context(), id, p.UserID)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, likeResponse{Liked: res.Liked, LikeCount: res.LikeCount})
}
