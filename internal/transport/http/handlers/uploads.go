package handlers

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	apierrors "github.com/pribylovaa/go-portfolio/internal/errors"
	"github.com/pribylovaa/go-portfolio/internal/pkg/log"
	"github.com/pribylovaa/go-portfolio/internal/service"
)

// multipartOverhead — запас на заголовки частей и границы multipart.
const multipartOverhead = 1 << 20

// UploadImage — POST /Upload/image, multipart-поле "file".
func (h *Handlers) UploadImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes+multipartOverhead)

	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			apierrors.WriteError(w, r, service.ErrFileTooLarge)
			return
		}
		apierrors.WriteError(w, r, fmt.Errorf("%w: %v", apierrors.ErrBadRequest, err))
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile("file")
	if err != nil {
		apierrors.WriteError(w, r, fmt.Errorf("%w: file", apierrors.ErrBadRequest))
		return
	}
	defer file.Close()

	url, err := h.svc.UploadImage(r.Context(), service.UploadInput{
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
	})
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, uploadResponse{URL: url})
}

// ServeUpload — GET /uploads/*, потоковая отдача объекта из хранилища.
func (h *Handlers) ServeUpload(w http.ResponseWriter, r *http.Request) {
	obj, err := h.svc.OpenImage(r.Context(), chi.URLParam(r, "*"))
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}
	defer obj.Body.Close()

	if obj.ContentType != "" {
		w.Header().Set("Content-Type", obj.ContentType)
	}
	if obj.Size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(obj.Size, 10))
	}
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, obj.Body); err != nil {
		log.From(r.Context()).Warn("upload_stream_failed",
			slog.String("key", obj.Key),
			slog.String("err", err.Error()),
		)
	}
}
