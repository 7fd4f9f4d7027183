package handlers

import (
	"WebCarros/internal/config"
	"WebCarros/internal/service"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BlobHandler — загрузка, ссылки, удаление и раздача файлов.
type BlobHandler struct {
	BlobService *service.BlobService
	Logger      *zap.SugaredLogger
	Config      *config.Config
}

func NewBlobHandler(blobService *service.BlobService, logger *zap.SugaredLogger, cfg *config.Config) *BlobHandler {
	return &BlobHandler{BlobService: blobService, Logger: logger, Config: cfg}
}

type blobPathRequest struct {
	Path string `json:"path"`
}

func (h *BlobHandler) writeServiceError(w http.ResponseWriter, op, path string, err error) {
	switch {
	case errors.Is(err, service.ErrForbiddenPath):
		http.Error(w, "forbidden", http.StatusForbidden)
	case errors.Is(err, service.ErrInvalidPath), errors.Is(err, service.ErrEmptyBlob):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, service.ErrBlobTooLarge):
		http.Error(w, "payload too large", http.StatusRequestEntityTooLarge)
	case errors.Is(err, service.ErrBlobNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	default:
		h.Logger.Errorw(op+": service error", "path", path, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

// Upload принимает multipart/form-data: поле path и файл file.
func (h *BlobHandler) Upload(w http.ResponseWriter, r *http.Request) {
	uid, ok := requireUser(w, r)
	if !ok {
		return
	}

	// Лимит общего тела запроса
	maxBody := int64(h.Config.BlobMaxSizeMB)*1024*1024 + 1*1024*1024
	r.Body = http.MaxBytesReader(w, r.Body, maxBody)

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		h.Logger.Warnw("Upload: invalid multipart form", "error", err)
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			http.Error(w, "payload too large", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "invalid multipart form", http.StatusBadRequest)
		return
	}

	path := r.FormValue("path")
	if path == "" {
		http.Error(w, "missing path", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.Logger.Warnw("Upload: missing file", "path", path, "error", err)
		http.Error(w, "missing file", http.StatusBadRequest)
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		h.Logger.Warnw("Upload: failed to read file", "path", path, "error", err)
		http.Error(w, "failed to read file", http.StatusBadRequest)
		return
	}

	contentType := header.Header.Get("Content-Type")
	created, err := h.BlobService.Save(r.Context(), uid, path, contentType, data)
	if err != nil {
		h.writeServiceError(w, "Upload", path, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, map[string]any{
		"path":    path,
		"created": created,
		"size":    len(data),
	})
}

// DownloadURL выдаёт постоянную ссылку на объект.
func (h *BlobHandler) DownloadURL(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUser(w, r); !ok {
		return
	}
	var req blobPathRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Path == "" {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	u, err := h.BlobService.DownloadURL(r.Context(), req.Path)
	if err != nil {
		h.writeServiceError(w, "DownloadURL", req.Path, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": u})
}

// Delete удаляет объект пользователя: DELETE /api/blobs?path=...
func (h *BlobHandler) Delete(w http.ResponseWriter, r *http.Request) {
	uid, ok := requireUser(w, r)
	if !ok {
		return
	}
	path := r.URL.Query().Get("path")
	if path == "" {
		http.Error(w, "missing path", http.StatusBadRequest)
		return
	}
	if err := h.BlobService.Delete(r.Context(), uid, path); err != nil {
		h.writeServiceError(w, "Delete", path, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Serve раздаёт файл по публичной ссылке /files/<path>?token=...
func (h *BlobHandler) Serve(w http.ResponseWriter, r *http.Request) {
	path := chi.URLParam(r, "*")
	b, err := h.BlobService.Open(r.Context(), path, r.URL.Query().Get("token"))
	if err != nil {
		h.writeServiceError(w, "Serve", path, err)
		return
	}
	w.Header().Set("Content-Type", b.ContentType)
	w.Header().Set("Content-Length", strconv.FormatInt(b.Size, 10))
	w.Header().Set("Cache-Control", "private, max-age=3600")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b.Data)
}
