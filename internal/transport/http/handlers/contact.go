package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	apierrors "github.com/pribylovaa/go-portfolio/internal/errors"
	"github.com/pribylovaa/go-portfolio/internal/models"
	"github.com/pribylovaa/go-portfolio/internal/service"
)

// SubmitContact — POST /Contact, публичная форма обратной связи.
func (h *Handlers) SubmitContact(w http.ResponseWriter, r *http.Request) {
	var in contactRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	msg, err := h.svc.SubmitContactMessage(r.Context(), service.ContactInput{
		Name:    in.Name,
		Email:   in.Email,
		Subject: in.Subject,
		Message: in.Message,
	})
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, contactFromModel(msg))
}

// ListContacts — GET /Contact?pageSize&pageToken (Admin), новые первыми.
func (h *Handlers) ListContacts(w http.ResponseWriter, r *http.Request) {
	size, err := intQuery(r, "pageSize", 0)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	page, err := h.svc.ListContactMessages(r.Context(), models.ListParams{
		PageSize:  int32(size),
		PageToken: r.URL.Query().Get("pageToken"),
	})
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	out := contactListResponse{
		Items:         make([]contactResponse, 0, len(page.Items)),
		NextPageToken: page.NextPageToken,
	}
	for i := range page.Items {
		out.Items = append(out.Items, contactFromModel(&page.Items[i]))
	}

	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) MarkContactRead(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.MarkContactMessageRead(r.Context(), chi.URLParam(r, "id")); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
