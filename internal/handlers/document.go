package handlers

import (
	"WebCarros/internal/service"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// maxDocumentSize — предел размера JSON-документа.
const maxDocumentSize = 1 << 20

// DocumentHandler — создание и чтение документов коллекций.
type DocumentHandler struct {
	DocService *service.DocumentService
	Logger     *zap.SugaredLogger
}

func NewDocumentHandler(docService *service.DocumentService, logger *zap.SugaredLogger) *DocumentHandler {
	return &DocumentHandler{DocService: docService, Logger: logger}
}

// DocumentResponse — документ в ответе GET.
type DocumentResponse struct {
	ID         string          `json:"id"`
	Collection string          `json:"collection"`
	OwnerID    string          `json:"owner_id"`
	CreatedAt  string          `json:"created_at"`
	Data       json.RawMessage `json:"data"`
}

// Create — POST /api/docs/{collection}, тело — JSON-объект.
func (h *DocumentHandler) Create(w http.ResponseWriter, r *http.Request) {
	uid, ok := requireUser(w, r)
	if !ok {
		return
	}
	collection := chi.URLParam(r, "collection")

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxDocumentSize))
	if err != nil {
		h.Logger.Warnw("CreateDocument: failed to read body", "collection", collection, "error", err)
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	id, err := h.DocService.Create(r.Context(), uid, collection, body)
	switch {
	case errors.Is(err, service.ErrInvalidCollection), errors.Is(err, service.ErrInvalidDocument):
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	case err != nil:
		h.Logger.Errorw("CreateDocument: service error", "collection", collection, "uid", uid, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

// Get — GET /api/docs/{collection}/{id}.
func (h *DocumentHandler) Get(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUser(w, r); !ok {
		return
	}
	collection := chi.URLParam(r, "collection")
	id := chi.URLParam(r, "id")

	doc, err := h.DocService.Get(r.Context(), collection, id)
	switch {
	case errors.Is(err, service.ErrDocNotFound):
		http.Error(w, "not found", http.StatusNotFound)
		return
	case errors.Is(err, service.ErrInvalidCollection):
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	case err != nil:
		h.Logger.Errorw("GetDocument: service error", "collection", collection, "id", id, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, DocumentResponse{
		ID:         doc.ID,
		Collection: doc.Collection,
		OwnerID:    doc.OwnerID,
		CreatedAt:  doc.CreatedAt.UTC().Format(time.RFC3339),
		Data:       json.RawMessage(doc.Data),
	})
}
