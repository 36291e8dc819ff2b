package handlers

import (
	"net/http"

	"github.com/google/uuid"

	apierrors "github.com/pribylovaa/go-portfolio/internal/errors"
	"github.com/pribylovaa/go-portfolio/internal/service"
	"github.com/pribylovaa/go-portfolio/internal/transport/http/middleware"
)

// CommentTree — GET /Blog/{id}/comments. Для аутентифицированного
// зрителя проставляется likedByViewer.
func (h *Handlers) CommentTree(w http.ResponseWriter, r *http.Request) {
	postID, err := uuidParam(r, "id")
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	var viewer *uuid.UUID
	if p, ok := middleware.PrincipalFrom(r.Context()); ok {
		viewer = &p.UserID
	}

	tree, err := h.svc.CommentTree(r.Context(), postID, viewer)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, commentTreeFromModel(tree))
}

// CreateComment — POST /Blog/{id}/comments, доступен и гостям.
func (h *Handlers) CreateComment(w http.ResponseWriter, r *http.Request) {
	postID, err := uuidParam(r, "id")
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	var in commentRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	viewer, _ := middleware.PrincipalFrom(r.Context())

	c, err := h.svc.CreateComment(r.Context(), viewer, service.CreateCommentInput{
		PostID:     postID,
		AuthorName: in.AuthorName,
		Content:    in.Content,
		ParentID:   in.ParentCommentID,
	})
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, commentFromModel(c))
}

func (h *Handlers) DeleteComment(w http.ResponseWriter, r *http.Request) {
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

	if err := h.svc.DeleteComment(r.Context(), *p, id); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) LikeComment(w http.ResponseWriter, r *http.Request) {
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

	res, err := h.svc.ToggleCommentLike(r.Context(), id, p.UserID)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, likeResponse{Liked: res.Liked, LikeCount: res.LikeCount})
}

// PendingComments — очередь модерации (Admin).
func (h *Handlers) PendingComments(w http.ResponseWriter, r *http.Request) {
	limit, err := intQuery(r, "limit", 0)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	items, err := h.svc.PendingComments(r.Context(), limit)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	out := make([]commentResponse, 0, len(items))
	for i := range items {
		out = append(out, commentFromModel(&items[i]))
	}

	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) ApproveComment(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	if err := h.svc.ApproveComment(r.Context(), id); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
