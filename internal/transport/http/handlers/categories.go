package handlers

import (
	"net/http"

	apierrors "github.com/pribylovaa/go-portfolio/internal/errors"
	"github.com/pribylovaa/go-portfolio/internal/models"
	"github.com/pribylovaa/go-portfolio/internal/service"
	"github.com/pribylovaa/go-portfolio/internal/transport/http/middleware"
)

// ListCategories — GET /BlogCategory. Неактивные категории видит только Admin.
func (h *Handlers) ListCategories(w http.ResponseWriter, r *http.Request) {
	includeInactive := false
	if p, ok := middleware.PrincipalFrom(r.Context()); ok && p.HasRole(models.RoleAdmin) {
		includeInactive = boolQuery(r, "includeInactive")
	}

	items, err := h.svc.ListCategories(r.Context(), includeInactive)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	out := make([]categoryResponse, 0, len(items))
	for i := range items {
		out = append(out, categoryFromModel(&items[i]))
	}

	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var in categoryRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}

	c, err := h.svc.CreateCategory(r.Context(), service.CategoryInput{
		NameEn:       in.NameEn,
		NameTr:       in.NameTr,
		Slug:         in.Slug,
		DisplayOrder: in.DisplayOrder,
		IsActive:     active,
	})
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, categoryFromModel(c))
}

func (h *Handlers) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	if err := h.svc.DeleteCategory(r.Context(), id); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
